package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ia-papeleria/internal/model"
	"ia-papeleria/internal/repository"
	"ia-papeleria/pkg/textnorm"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type SalesService interface {
	// RecordSale parses "vendi <qty> <product>" and commits the sale.
	RecordSale(ctx context.Context, message, sender string, catalog []model.Product) (*model.SaleReceipt, error)
	Summary(ctx context.Context, since time.Time) (*model.SalesSummary, error)
	TodaySummary(ctx context.Context) (*model.SalesSummary, error)
	ListSales(ctx context.Context, filter repository.SaleFilter) ([]model.Sale, error)
}

type salesService struct {
	store    repository.CatalogStore
	matcher  *ProductMatcher
	notifier Notifier
	loc      *time.Location
	now      func() time.Time
}

func NewSalesService(store repository.CatalogStore, matcher *ProductMatcher, notifier Notifier, loc *time.Location) SalesService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &salesService{
		store:    store,
		matcher:  matcher,
		notifier: notifier,
		loc:      loc,
		now:      time.Now,
	}
}

// ParseSaleCommand takes the first all-digit token as the quantity and
// everything after it as the product fragment.
func ParseSaleCommand(message string) (int, string, error) {
	words := strings.Fields(textnorm.Fold(message))
	for i, w := range words {
		if !isDigits(w) {
			continue
		}
		qty, err := strconv.Atoi(w)
		if err != nil || qty <= 0 {
			return 0, "", fmt.Errorf("%w: quantity %q", model.ErrMalformedSaleCommand, w)
		}
		fragment := strings.TrimSpace(strings.Join(words[i+1:], " "))
		if fragment == "" {
			return 0, "", fmt.Errorf("%w: missing product", model.ErrMalformedSaleCommand)
		}
		return qty, fragment, nil
	}
	return 0, "", fmt.Errorf("%w: no quantity", model.ErrMalformedSaleCommand)
}

func (s *salesService) RecordSale(ctx context.Context, message, sender string, catalog []model.Product) (*model.SaleReceipt, error) {
	qty, fragment, err := ParseSaleCommand(message)
	if err != nil {
		return nil, err
	}

	product, ok := s.resolve(fragment, catalog)
	if !ok {
		return nil, &ProductLookupError{Fragment: fragment}
	}
	if qty > product.Stock {
		return nil, &model.StockError{Product: product.Name, Available: product.Stock, Requested: qty}
	}

	total := product.Price.Mul(decimal.NewFromInt(int64(qty)))
	sale, updated, err := s.store.CommitSale(ctx, product.ID, qty, total)
	if err != nil {
		return nil, err
	}

	receipt := &model.SaleReceipt{
		Sale:           *sale,
		ProductName:    updated.Name,
		Quantity:       qty,
		Total:          total,
		RemainingStock: updated.Stock,
	}

	log.Info().
		Str("product", updated.Name).
		Int("quantity", qty).
		Str("total", total.String()).
		Int("remaining", updated.Stock).
		Msg("Sale recorded")

	ev := model.SaleEvent{
		EventID:        uuid.New(),
		SaleID:         sale.ID,
		ProductID:      updated.ID,
		ProductName:    updated.Name,
		Quantity:       qty,
		Total:          total,
		RemainingStock: updated.Stock,
		Sender:         sender,
		OccurredAt:     sale.SaleDate,
	}
	s.notifier.NotifySale(ctx, ev)

	return receipt, nil
}

// resolve tries the fragment as typed, then its singular forms
// ("cuadernos" -> "cuaderno", "lapices" -> "lapiz").
func (s *salesService) resolve(fragment string, catalog []model.Product) (model.Product, bool) {
	if p, ok := s.matcher.ByFragment(fragment, catalog); ok {
		return p, true
	}
	for _, single := range singulars(fragment) {
		if p, ok := s.matcher.ByFragment(single, catalog); ok {
			return p, true
		}
	}
	return model.Product{}, false
}

func (s *salesService) Summary(ctx context.Context, since time.Time) (*model.SalesSummary, error) {
	sales, err := s.store.ListSales(ctx, repository.SaleFilter{Since: &since})
	if err != nil {
		return nil, err
	}

	sum := &model.SalesSummary{Total: decimal.Zero, Average: decimal.Zero}
	for _, sale := range sales {
		sum.Count++
		sum.Units += sale.Quantity
		sum.Total = sum.Total.Add(sale.TotalPrice)
	}
	if sum.Count > 0 {
		sum.Average = sum.Total.Div(decimal.NewFromInt(int64(sum.Count)))
	}
	return sum, nil
}

func (s *salesService) TodaySummary(ctx context.Context) (*model.SalesSummary, error) {
	return s.Summary(ctx, StartOfDay(s.now(), s.loc))
}

func (s *salesService) ListSales(ctx context.Context, filter repository.SaleFilter) ([]model.Sale, error) {
	return s.store.ListSales(ctx, filter)
}

// ProductLookupError wraps ErrProductNotFound with what the user typed.
type ProductLookupError struct {
	Fragment string
}

func (e *ProductLookupError) Error() string {
	return fmt.Sprintf("%s: %q", model.ErrProductNotFound, e.Fragment)
}

func (e *ProductLookupError) Unwrap() error { return model.ErrProductNotFound }

// StartOfDay is local midnight of t in loc, returned in UTC.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc).UTC()
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
