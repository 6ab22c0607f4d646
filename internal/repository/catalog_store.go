package repository

import (
	"context"
	"time"

	"ia-papeleria/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CatalogStore is the persistence contract the chat engine depends on.
type CatalogStore interface {
	ListProducts(ctx context.Context, filter ProductFilter) ([]model.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	ListSales(ctx context.Context, filter SaleFilter) ([]model.Sale, error)
	// CommitSale decrements stock and records the sale atomically.
	CommitSale(ctx context.Context, productID uuid.UUID, qty int, total decimal.Decimal) (*model.Sale, *model.Product, error)
}

type catalogStore struct {
	db       *gorm.DB
	products ProductRepository
	sales    SaleRepository
	now      func() time.Time
}

func NewCatalogStore(db *gorm.DB, pRepo ProductRepository, sRepo SaleRepository) CatalogStore {
	return &catalogStore{
		db:       db,
		products: pRepo,
		sales:    sRepo,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *catalogStore) ListProducts(ctx context.Context, filter ProductFilter) ([]model.Product, error) {
	return s.products.FindAll(ctx, filter)
}

func (s *catalogStore) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *catalogStore) ListSales(ctx context.Context, filter SaleFilter) ([]model.Sale, error) {
	return s.sales.Find(ctx, filter)
}

func (s *catalogStore) CommitSale(ctx context.Context, productID uuid.UUID, qty int, total decimal.Decimal) (*model.Sale, *model.Product, error) {
	var (
		sale    *model.Sale
		product *model.Product
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := s.products.LockByID(tx, productID)
		if err != nil {
			return err
		}
		if p.Stock < qty {
			return &model.StockError{Product: p.Name, Available: p.Stock, Requested: qty}
		}

		// guarded update keeps stock >= 0 even without a row lock
		ok, err := s.products.DecrementStock(tx, p.ID, qty)
		if err != nil {
			return err
		}
		if !ok {
			return &model.StockError{Product: p.Name, Available: p.Stock, Requested: qty}
		}
		p.Stock -= qty

		sale = &model.Sale{
			ProductID:  p.ID,
			Quantity:   qty,
			TotalPrice: total,
			SaleDate:   s.now(),
		}
		if err := s.sales.Create(tx, sale); err != nil {
			return err
		}

		product = p
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return sale, product, nil
}
