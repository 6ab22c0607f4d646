package service

import (
	"context"
	"testing"
	"time"

	"ia-papeleria/internal/model"
	"ia-papeleria/internal/repository"
	"ia-papeleria/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func salesAt(base time.Time, offsets []int, qty []int) []model.Sale {
	out := make([]model.Sale, len(offsets))
	for i := range offsets {
		out[i] = model.Sale{Quantity: qty[i], SaleDate: base.AddDate(0, 0, offsets[i])}
	}
	return out
}

func TestForecastInsufficientData(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	for _, history := range [][]model.Sale{nil, salesAt(base, []int{0}, []int{7})} {
		res := Forecast(history, 30)
		assert.Zero(t, res.PredictedDemand)
		assert.False(t, res.Sufficient)
		assert.Equal(t, len(history), res.SampleSize)
		assert.Equal(t, msgInsufficientData, res.Message)
	}
}

func TestForecastIncreasingTrend(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	history := salesAt(base, []int{0, 2, 5, 7, 10}, []int{2, 2, 3, 3, 4})

	res := Forecast(history, 30)
	assert.True(t, res.Sufficient)
	assert.Equal(t, 5, res.SampleSize)
	assert.Equal(t, 30, res.DaysAhead)
	assert.GreaterOrEqual(t, res.PredictedDemand, 4.0)
	assert.InDelta(t, 9.975, res.PredictedDemand, 0.01)
	assert.Equal(t, "Predicción basada en 5 ventas históricas.", res.Message)
}

func TestForecastDeterministicAndOrderIndependent(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	history := salesAt(base, []int{0, 2, 5, 7, 10}, []int{2, 2, 3, 3, 4})
	reversed := make([]model.Sale, len(history))
	for i := range history {
		reversed[len(history)-1-i] = history[i]
	}

	first := Forecast(history, 14)
	assert.Equal(t, first, Forecast(history, 14))
	assert.InDelta(t, first.PredictedDemand, Forecast(reversed, 14).PredictedDemand, 1e-9)
}

func TestForecastClampsAtZero(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	history := salesAt(base, []int{0, 5, 10}, []int{20, 10, 1})

	res := Forecast(history, 60)
	assert.Zero(t, res.PredictedDemand)
	assert.True(t, res.Sufficient)
}

func TestForecastSameDayUsesMean(t *testing.T) {
	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	history := salesAt(base, []int{0, 0, 0}, []int{1, 2, 6})

	res := Forecast(history, 30)
	assert.InDelta(t, 3.0, res.PredictedDemand, 1e-9)
}

func TestForecastDefaultsHorizon(t *testing.T) {
	res := Forecast(nil, 0)
	assert.Equal(t, model.DefaultForecastDays, res.DaysAhead)
}

type fixture struct {
	db    *gorm.DB
	store repository.CatalogStore
	sales repository.SaleRepository
}

func newFixture(t *testing.T) *fixture {
	db := testutil.NewDB(t)
	sRepo := repository.NewSaleRepo(db)
	return &fixture{
		db:    db,
		store: repository.NewCatalogStore(db, repository.NewProductRepo(db), sRepo),
		sales: sRepo,
	}
}

func newForecastFixture(t *testing.T) (ForecastService, *fixture) {
	fx := newFixture(t)
	return NewForecastService(fx.store, fx.sales), fx
}

func TestPredictDemandAndAlerts(t *testing.T) {
	svc, fx := newForecastFixture(t)
	ctx := context.Background()

	hot := testutil.SeedProduct(t, fx.db, "Cuaderno", "cuadernos", 1000, 3, 5)
	cold := testutil.SeedProduct(t, fx.db, "Regla", "reglas", 1500, 100, 5)
	base := time.Now().UTC().AddDate(0, 0, -10)
	for i, q := range []int{2, 2, 3, 3, 4} {
		testutil.SeedSale(t, fx.db, hot, q, base.AddDate(0, 0, []int{0, 2, 5, 7, 10}[i]))
	}
	testutil.SeedSale(t, fx.db, cold, 1, base)

	res, err := svc.PredictDemand(ctx, hot.ID, 30)
	require.NoError(t, err)
	assert.Equal(t, hot.ID, res.ProductID)
	assert.Equal(t, 5, res.SampleSize)

	alerts, err := svc.DemandAlerts(ctx, 30)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "Cuaderno", alerts[0].ProductName)
	assert.Greater(t, alerts[0].Shortfall, 0.0)

	_, err = svc.PredictDemand(ctx, uuid.New(), 30)
	assert.ErrorIs(t, err, model.ErrProductNotFound)
}

func TestReorderSuggestion(t *testing.T) {
	svc, fx := newForecastFixture(t)
	ctx := context.Background()

	low := testutil.SeedProduct(t, fx.db, "Borrador", "borradores", 500, 2, 10)
	ok := testutil.SeedProduct(t, fx.db, "Mochila", "mochilas", 45000, 10, 3)

	sug, err := svc.ReorderSuggestion(ctx, low.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, sug.SuggestedQuantity)

	sug, err = svc.ReorderSuggestion(ctx, ok.ID)
	require.NoError(t, err)
	assert.Zero(t, sug.SuggestedQuantity)
}

func TestLowStockAndLowRotation(t *testing.T) {
	svc, fx := newForecastFixture(t)
	ctx := context.Background()

	sold := testutil.SeedProduct(t, fx.db, "Esfero", "esferos", 1000, 50, 5)
	stale := testutil.SeedProduct(t, fx.db, "Pegamento", "pegamento", 2500, 1, 5)
	testutil.SeedProduct(t, fx.db, "Escuadra", "reglas", 2000, 8, 5)
	testutil.SeedSale(t, fx.db, sold, 1, time.Now().UTC().AddDate(0, 0, -3))
	testutil.SeedSale(t, fx.db, stale, 1, time.Now().UTC().AddDate(0, 0, -90))

	low, err := svc.LowStock(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Pegamento"}, names(low))

	idle, err := svc.LowRotation(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Pegamento", "Escuadra"}, names(idle))
}
