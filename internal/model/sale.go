package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is immutable once committed.
type Sale struct {
	BaseModel
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product    *Product        `json:"product,omitempty"`
	Quantity   int             `gorm:"not null;check:quantity > 0" json:"quantity"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_price"`
	SaleDate   time.Time       `gorm:"not null;index" json:"sale_date"`
}

// SaleReceipt is what the chat layer reports back after a committed sale.
type SaleReceipt struct {
	Sale           Sale            `json:"sale"`
	ProductName    string          `json:"product_name"`
	Quantity       int             `json:"quantity"`
	Total          decimal.Decimal `json:"total"`
	RemainingStock int             `json:"remaining_stock"`
}

// SalesSummary aggregates the sales of one window (usually "today").
type SalesSummary struct {
	Count   int             `json:"count"`
	Units   int             `json:"units"`
	Total   decimal.Decimal `json:"total"`
	Average decimal.Decimal `json:"average"`
}
