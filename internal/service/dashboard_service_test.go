package service

import (
	"context"
	"testing"
	"time"

	"ia-papeleria/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSalesMovementBucketsByLocalDay(t *testing.T) {
	fx := newFixture(t)
	bogota := time.FixedZone("COT", -5*3600)
	svc := NewDashboardService(fx.sales, bogota).(*dashboardService)
	now := time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC) // 10:00 in Bogota
	svc.now = func() time.Time { return now }

	p := testutil.SeedProduct(t, fx.db, "Lapiz", "lapices", 800, 100, 10)
	testutil.SeedSale(t, fx.db, p, 2, now.Add(-time.Hour))
	// 02:00 UTC on the 10th is still the 9th in Bogota
	testutil.SeedSale(t, fx.db, p, 3, time.Date(2024, 5, 10, 2, 0, 0, 0, time.UTC))
	testutil.SeedSale(t, fx.db, p, 7, now.AddDate(0, 0, -20))

	data, err := svc.GetSalesMovement(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, data, 3)
	assert.Equal(t, "2024-05-08", data[0].Date)
	assert.Zero(t, data[0].Sales)
	assert.Equal(t, "2024-05-09", data[1].Date)
	assert.Equal(t, 3, data[1].Units)
	assert.Equal(t, "2024-05-10", data[2].Date)
	assert.Equal(t, 1, data[2].Sales)
	assert.True(t, data[2].Revenue.Equal(decimal.NewFromInt(1600)))
}

func TestDashboardStatsAndTopSellers(t *testing.T) {
	fx := newFixture(t)
	svc := NewDashboardService(fx.sales, time.UTC)
	ctx := context.Background()

	p := testutil.SeedProduct(t, fx.db, "Mochila", "mochilas", 45000, 2, 3)
	testutil.SeedSale(t, fx.db, p, 1, time.Now().UTC().Add(-time.Hour))

	stats, err := svc.GetDashboardStats(ctx, 30)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalProducts)
	assert.EqualValues(t, 1, stats.LowStockCount)
	assert.EqualValues(t, 1, stats.SalesCount)

	top, err := svc.GetTopSellers(ctx, 30, 5)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "Mochila", top[0].ProductName)
}
