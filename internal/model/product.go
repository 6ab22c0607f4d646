package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const DefaultMinStock = 10

type Product struct {
	BaseModel
	Name        string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"name" validate:"required,max=255"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"price" validate:"nonneg_decimal"`
	Stock       int             `gorm:"not null;default:0;check:stock >= 0" json:"stock" validate:"gte=0"`
	MinStock    int             `gorm:"not null" json:"min_stock" validate:"gte=0"`
	Category    string          `gorm:"type:varchar(100);index" json:"category"`
	Supplier    string          `gorm:"type:varchar(255)" json:"supplier"`
	LastUpdated time.Time       `json:"last_updated"`

	Sales []Sale `json:"sales,omitempty"`
}

// IsLowStock reports whether the product sits below its reorder threshold.
func (p Product) IsLowStock() bool {
	return p.Stock < p.MinStock
}
