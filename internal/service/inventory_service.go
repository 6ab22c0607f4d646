package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ia-papeleria/internal/model"
	"ia-papeleria/internal/repository"
	"ia-papeleria/pkg/validator"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var (
	ErrDuplicateProduct = errors.New("product name already exists")
	ErrInvalidRequest   = errors.New("invalid request")
	ErrProductHasSales  = errors.New("product has recorded sales")
)

type StockAdjustment string

const (
	StockAdd      StockAdjustment = "add"
	StockSubtract StockAdjustment = "subtract"
)

type InventoryService interface {
	CreateProduct(ctx context.Context, req *model.Product, actor string) error
	UpdateProduct(ctx context.Context, id uuid.UUID, req *model.Product, actor string) (*model.Product, error)
	AdjustStock(ctx context.Context, id uuid.UUID, qty int, op StockAdjustment, actor string) (*model.Product, error)
	GetAllProducts(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID, actor string) error
}

type inventoryService struct {
	productRepo repository.ProductRepository
	db          *gorm.DB
	notifier    Notifier
}

func NewInventoryService(pRepo repository.ProductRepository, db *gorm.DB, notifier Notifier) InventoryService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &inventoryService{
		productRepo: pRepo,
		db:          db,
		notifier:    notifier,
	}
}

func validationError(req interface{}) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return fmt.Errorf("%w: field '%s' failed on tag '%s'", ErrInvalidRequest, first.FailedField, first.Tag)
	}
	return nil
}

func (s *inventoryService) CreateProduct(ctx context.Context, req *model.Product, actor string) error {
	if err := validationError(req); err != nil {
		return err
	}

	if existing, err := s.productRepo.FindByName(ctx, req.Name); err == nil && existing != nil {
		return ErrDuplicateProduct
	}

	req.CreatedBy = actor
	req.UpdatedBy = actor
	if err := s.productRepo.Create(ctx, req); err != nil {
		return err
	}

	s.broadcast(ctx, model.EventProductCreated, req, 0, actor)
	return nil
}

func (s *inventoryService) UpdateProduct(ctx context.Context, id uuid.UUID, req *model.Product, actor string) (*model.Product, error) {
	if err := validationError(req); err != nil {
		return nil, err
	}

	var (
		updated  *model.Product
		oldStock int
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.productRepo.LockByID(tx, id)
		if err != nil {
			return err
		}
		oldStock = existing.Stock

		existing.Name = req.Name
		existing.Description = req.Description
		existing.Price = req.Price
		existing.Stock = req.Stock
		existing.MinStock = req.MinStock
		existing.Category = req.Category
		existing.Supplier = req.Supplier
		existing.UpdatedBy = actor

		if err := s.productRepo.Update(tx, existing); err != nil {
			return err
		}
		updated = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcast(ctx, model.EventProductUpdated, updated, oldStock, actor)
	return updated, nil
}

// AdjustStock adds or removes units outside of a sale (restock, breakage).
func (s *inventoryService) AdjustStock(ctx context.Context, id uuid.UUID, qty int, op StockAdjustment, actor string) (*model.Product, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("%w: quantity must be greater than zero", ErrInvalidRequest)
	}

	var (
		product  *model.Product
		oldStock int
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := s.productRepo.LockByID(tx, id)
		if err != nil {
			return err
		}
		oldStock = p.Stock

		newStock := p.Stock
		switch op {
		case StockAdd:
			newStock += qty
		case StockSubtract:
			if p.Stock < qty {
				return &model.StockError{Product: p.Name, Available: p.Stock, Requested: qty}
			}
			newStock -= qty
		default:
			return fmt.Errorf("%w: unknown stock operation %q", ErrInvalidRequest, op)
		}

		if err := s.productRepo.UpdateStock(tx, p.ID, newStock, actor); err != nil {
			return err
		}
		p.Stock = newStock
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcast(ctx, model.EventStockAdjusted, product, oldStock, actor)
	return product, nil
}

// DeleteProduct removes a product that has never been sold.
func (s *inventoryService) DeleteProduct(ctx context.Context, id uuid.UUID, actor string) error {
	var removed *model.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := s.productRepo.LockByID(tx, id)
		if err != nil {
			return err
		}
		sold, err := s.productRepo.CountSales(tx, id)
		if err != nil {
			return err
		}
		if sold > 0 {
			return fmt.Errorf("%w: %s has %d", ErrProductHasSales, p.Name, sold)
		}
		if err := s.productRepo.Delete(tx, id); err != nil {
			return err
		}
		removed = p
		return nil
	})
	if err != nil {
		return err
	}

	oldStock := removed.Stock
	removed.Stock = 0
	s.broadcast(ctx, model.EventProductDeleted, removed, oldStock, actor)
	return nil
}

func (s *inventoryService) GetAllProducts(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error) {
	return s.productRepo.FindAll(ctx, filter)
}

func (s *inventoryService) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

func (s *inventoryService) broadcast(ctx context.Context, action string, p *model.Product, oldStock int, actor string) {
	ev := model.StockEvent{
		EventID:    uuid.New(),
		Action:     action,
		ProductID:  p.ID,
		Name:       p.Name,
		OldStock:   oldStock,
		NewStock:   p.Stock,
		Actor:      actor,
		OccurredAt: time.Now().UTC(),
	}
	log.Info().Str("action", action).Str("product", p.Name).Int("stock", p.Stock).Str("actor", actor).Msg("Catalog changed")
	s.notifier.NotifyStock(ctx, ev)
}
