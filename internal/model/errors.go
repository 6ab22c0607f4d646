package model

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound      = errors.New("product not found")
	ErrInsufficientStock    = errors.New("insufficient stock remaining")
	ErrMalformedSaleCommand = errors.New("malformed sale command")
)

// StockError carries the numbers behind an ErrInsufficientStock.
type StockError struct {
	Product   string
	Available int
	Requested int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("%s: %s has %d, requested %d", ErrInsufficientStock, e.Product, e.Available, e.Requested)
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }
