package service

import (
	"context"
	"time"

	"ia-papeleria/internal/repository"

	"github.com/shopspring/decimal"
)

// SalesMovementData is one day of the sales chart
type SalesMovementData struct {
	Date    string          `json:"date"`
	Sales   int             `json:"sales"`
	Units   int             `json:"units"`
	Revenue decimal.Decimal `json:"revenue"`
}

type DashboardService interface {
	GetSalesMovement(ctx context.Context, days int) ([]SalesMovementData, error)
	GetDashboardStats(ctx context.Context, days int) (*repository.DashboardStats, error)
	GetTopSellers(ctx context.Context, days, limit int) ([]repository.TopSeller, error)
}

type dashboardService struct {
	saleRepo repository.SaleRepository
	loc      *time.Location
	now      func() time.Time
}

func NewDashboardService(saleRepo repository.SaleRepository, loc *time.Location) DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &dashboardService{saleRepo: saleRepo, loc: loc, now: time.Now}
}

// GetSalesMovement buckets sales per local calendar day, oldest first,
// including days without sales.
func (s *dashboardService) GetSalesMovement(ctx context.Context, days int) ([]SalesMovementData, error) {
	if days <= 0 {
		days = 7
	}
	start := StartOfDay(s.now(), s.loc).AddDate(0, 0, -(days - 1))
	sales, err := s.saleRepo.Find(ctx, repository.SaleFilter{Since: &start})
	if err != nil {
		return nil, err
	}

	results := make([]SalesMovementData, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		day := start.In(s.loc).AddDate(0, 0, i).Format("2006-01-02")
		results[i] = SalesMovementData{Date: day, Revenue: decimal.Zero}
		index[day] = i
	}

	for _, sale := range sales {
		i, ok := index[sale.SaleDate.In(s.loc).Format("2006-01-02")]
		if !ok {
			continue
		}
		results[i].Sales++
		results[i].Units += sale.Quantity
		results[i].Revenue = results[i].Revenue.Add(sale.TotalPrice)
	}
	return results, nil
}

func (s *dashboardService) GetDashboardStats(ctx context.Context, days int) (*repository.DashboardStats, error) {
	return s.saleRepo.GetDashboardStats(ctx, s.now().UTC().AddDate(0, 0, -days))
}

func (s *dashboardService) GetTopSellers(ctx context.Context, days, limit int) ([]repository.TopSeller, error) {
	return s.saleRepo.TopSellers(ctx, s.now().UTC().AddDate(0, 0, -days), limit)
}
