package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventSaleRecorded   = "sale_recorded"
	EventProductCreated = "product_created"
	EventProductUpdated = "product_updated"
	EventStockAdjusted  = "stock_adjusted"
	EventProductDeleted = "product_deleted"
)

type SaleEvent struct {
	EventID        uuid.UUID       `json:"event_id"`
	SaleID         uuid.UUID       `json:"sale_id"`
	ProductID      uuid.UUID       `json:"product_id"`
	ProductName    string          `json:"product_name"`
	Quantity       int             `json:"quantity"`
	Total          decimal.Decimal `json:"total"`
	RemainingStock int             `json:"remaining_stock"`
	Sender         string          `json:"sender,omitempty"`
	OccurredAt     time.Time       `json:"occurred_at"`
}

type StockEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	Action     string    `json:"action"`
	ProductID  uuid.UUID `json:"product_id"`
	Name       string    `json:"name"`
	OldStock   int       `json:"old_stock"`
	NewStock   int       `json:"new_stock"`
	Actor      string    `json:"actor,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
