package repository

import (
	"context"
	"time"

	"ia-papeleria/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleFilter struct {
	ProductID *uuid.UUID
	Since     *time.Time
	Limit     int
	Newest    bool // newest first instead of chronological
}

// TopSeller is one row of the best-sellers ranking
type TopSeller struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Units       int             `json:"units"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// DashboardStats for the overview cards
type DashboardStats struct {
	TotalProducts  int64           `json:"total_products"`
	LowStockCount  int64           `json:"low_stock_count"`
	TotalValuation decimal.Decimal `json:"total_valuation"`
	SalesCount     int64           `json:"sales_count"`
	Revenue        decimal.Decimal `json:"revenue"`
}

type SaleRepository interface {
	Create(tx *gorm.DB, sale *model.Sale) error
	Find(ctx context.Context, filter SaleFilter) ([]model.Sale, error)
	LastSaleDates(ctx context.Context) (map[uuid.UUID]time.Time, error)
	TopSellers(ctx context.Context, since time.Time, limit int) ([]TopSeller, error)
	GetDashboardStats(ctx context.Context, since time.Time) (*DashboardStats, error)
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

func (r *saleRepo) Create(tx *gorm.DB, sale *model.Sale) error {
	return tx.Create(sale).Error
}

func (r *saleRepo) Find(ctx context.Context, filter SaleFilter) ([]model.Sale, error) {
	q := r.db.WithContext(ctx).Preload("Product")
	if filter.ProductID != nil {
		q = q.Where("product_id = ?", *filter.ProductID)
	}
	if filter.Since != nil {
		q = q.Where("sale_date >= ?", filter.Since.UTC())
	}
	if filter.Newest {
		q = q.Order("sale_date DESC")
	} else {
		q = q.Order("sale_date ASC")
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var sales []model.Sale
	err := q.Find(&sales).Error
	return sales, err
}

// LastSaleDates maps each product that ever sold to its latest sale.
func (r *saleRepo) LastSaleDates(ctx context.Context) (map[uuid.UUID]time.Time, error) {
	var sales []model.Sale
	err := r.db.WithContext(ctx).
		Select("product_id", "sale_date").
		Order("sale_date ASC").
		Find(&sales).Error
	if err != nil {
		return nil, err
	}

	out := make(map[uuid.UUID]time.Time, len(sales))
	for _, s := range sales {
		out[s.ProductID] = s.SaleDate
	}
	return out, nil
}

func (r *saleRepo) TopSellers(ctx context.Context, since time.Time, limit int) ([]TopSeller, error) {
	rows, err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select(`
			sales.product_id,
			products.name,
			COALESCE(SUM(sales.quantity), 0) as units,
			COALESCE(SUM(sales.total_price), 0) as revenue
		`).
		Joins("JOIN products ON products.id = sales.product_id").
		Where("sales.sale_date >= ?", since.UTC()).
		Group("sales.product_id, products.name").
		Order("units DESC").
		Limit(limit).
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []TopSeller
	for rows.Next() {
		var row TopSeller
		if err := rows.Scan(&row.ProductID, &row.ProductName, &row.Units, &row.Revenue); err != nil {
			return nil, err
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

func (r *saleRepo) GetDashboardStats(ctx context.Context, since time.Time) (*DashboardStats, error) {
	var stats DashboardStats
	db := r.db.WithContext(ctx)

	if err := db.Model(&model.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Product{}).Where("stock < min_stock").Count(&stats.LowStockCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Product{}).
		Select("COALESCE(SUM(stock * price), 0)").
		Row().Scan(&stats.TotalValuation); err != nil {
		return nil, err
	}
	if err := db.Model(&model.Sale{}).Where("sale_date >= ?", since.UTC()).Count(&stats.SalesCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Sale{}).
		Where("sale_date >= ?", since.UTC()).
		Select("COALESCE(SUM(total_price), 0)").
		Row().Scan(&stats.Revenue); err != nil {
		return nil, err
	}

	return &stats, nil
}
