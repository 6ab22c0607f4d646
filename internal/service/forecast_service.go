package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"ia-papeleria/internal/model"
	"ia-papeleria/internal/repository"

	"github.com/google/uuid"
)

const (
	DefaultLowRotationDays = 60
	msgInsufficientData    = "No hay suficientes datos históricos para predicción precisa."
	msgForecastBasis       = "Predicción basada en %d ventas históricas."
)

// Forecast fits quantity ~ day offset by ordinary least squares and
// evaluates the line daysAhead past the last observed day. Fewer than two
// sales yield zero. The result is never negative.
func Forecast(history []model.Sale, daysAhead int) model.ForecastResult {
	if daysAhead <= 0 {
		daysAhead = model.DefaultForecastDays
	}
	res := model.ForecastResult{DaysAhead: daysAhead, SampleSize: len(history)}
	if len(history) < 2 {
		res.Message = msgInsufficientData
		return res
	}

	sales := make([]model.Sale, len(history))
	copy(sales, history)
	sort.SliceStable(sales, func(i, j int) bool { return sales[i].SaleDate.Before(sales[j].SaleDate) })

	first := sales[0].SaleDate
	n := float64(len(sales))
	xs := make([]float64, len(sales))
	var sumX, sumY, maxX float64
	for i, s := range sales {
		x := math.Floor(s.SaleDate.Sub(first).Hours() / 24)
		xs[i] = x
		sumX += x
		sumY += float64(s.Quantity)
		if x > maxX {
			maxX = x
		}
	}
	meanX, meanY := sumX/n, sumY/n

	var sxx, sxy float64
	for i, s := range sales {
		dx := xs[i] - meanX
		sxx += dx * dx
		sxy += dx * (float64(s.Quantity) - meanY)
	}
	slope := 0.0
	if sxx > 0 {
		slope = sxy / sxx
	}
	intercept := meanY - slope*meanX

	predicted := intercept + slope*(maxX+float64(daysAhead))
	res.PredictedDemand = math.Max(0, predicted)
	res.Sufficient = true
	res.Message = fmt.Sprintf(msgForecastBasis, len(sales))
	return res
}

type ForecastService interface {
	PredictDemand(ctx context.Context, productID uuid.UUID, daysAhead int) (*model.ForecastResult, error)
	DemandAlerts(ctx context.Context, daysAhead int) ([]model.DemandAlert, error)
	ReorderSuggestion(ctx context.Context, productID uuid.UUID) (*model.ReorderSuggestion, error)
	LowStock(ctx context.Context) ([]model.Product, error)
	LowRotation(ctx context.Context, days int) ([]model.Product, error)
}

type forecastService struct {
	store    repository.CatalogStore
	saleRepo repository.SaleRepository
	now      func() time.Time
}

func NewForecastService(store repository.CatalogStore, saleRepo repository.SaleRepository) ForecastService {
	return &forecastService{store: store, saleRepo: saleRepo, now: time.Now}
}

func (s *forecastService) PredictDemand(ctx context.Context, productID uuid.UUID, daysAhead int) (*model.ForecastResult, error) {
	if _, err := s.store.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	sales, err := s.store.ListSales(ctx, repository.SaleFilter{ProductID: &productID})
	if err != nil {
		return nil, err
	}
	res := Forecast(sales, daysAhead)
	res.ProductID = productID
	return &res, nil
}

// DemandAlerts lists products whose forecast exceeds current stock,
// largest shortfall first.
func (s *forecastService) DemandAlerts(ctx context.Context, daysAhead int) ([]model.DemandAlert, error) {
	products, err := s.store.ListProducts(ctx, repository.ProductFilter{})
	if err != nil {
		return nil, err
	}
	sales, err := s.store.ListSales(ctx, repository.SaleFilter{})
	if err != nil {
		return nil, err
	}

	byProduct := make(map[uuid.UUID][]model.Sale)
	for _, sale := range sales {
		byProduct[sale.ProductID] = append(byProduct[sale.ProductID], sale)
	}

	alerts := []model.DemandAlert{}
	for _, p := range products {
		res := Forecast(byProduct[p.ID], daysAhead)
		if res.PredictedDemand > float64(p.Stock) {
			alerts = append(alerts, model.DemandAlert{
				ProductID:       p.ID,
				ProductName:     p.Name,
				CurrentStock:    p.Stock,
				PredictedDemand: res.PredictedDemand,
				Shortfall:       res.PredictedDemand - float64(p.Stock),
			})
		}
	}
	sort.SliceStable(alerts, func(i, j int) bool { return alerts[i].Shortfall > alerts[j].Shortfall })
	return alerts, nil
}

// ReorderSuggestion proposes twice the minimum when under it.
func (s *forecastService) ReorderSuggestion(ctx context.Context, productID uuid.UUID) (*model.ReorderSuggestion, error) {
	p, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	sug := &model.ReorderSuggestion{
		ProductID:    p.ID,
		ProductName:  p.Name,
		CurrentStock: p.Stock,
		MinStock:     p.MinStock,
	}
	if p.IsLowStock() {
		sug.SuggestedQuantity = p.MinStock * 2
	}
	return sug, nil
}

func (s *forecastService) LowStock(ctx context.Context) ([]model.Product, error) {
	return s.store.ListProducts(ctx, repository.ProductFilter{LowStock: true})
}

// LowRotation lists products without a sale in the last days.
func (s *forecastService) LowRotation(ctx context.Context, days int) ([]model.Product, error) {
	if days <= 0 {
		days = DefaultLowRotationDays
	}
	products, err := s.store.ListProducts(ctx, repository.ProductFilter{})
	if err != nil {
		return nil, err
	}
	last, err := s.saleRepo.LastSaleDates(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := s.now().UTC().AddDate(0, 0, -days)
	idle := []model.Product{}
	for _, p := range products {
		if at, ok := last[p.ID]; !ok || at.Before(cutoff) {
			idle = append(idle, p)
		}
	}
	return idle, nil
}
