package service

import (
	"context"
	"testing"
	"time"

	"ia-papeleria/internal/model"
	"ia-papeleria/internal/repository"
	"ia-papeleria/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInventoryFixture(t *testing.T) (InventoryService, *recordingNotifier) {
	fx := newFixture(t)
	n := newRecordingNotifier()
	return NewInventoryService(repository.NewProductRepo(fx.db), fx.db, n), n
}

func TestCreateProduct(t *testing.T) {
	svc, n := newInventoryFixture(t)
	ctx := context.Background()

	p := &model.Product{Name: "Resma carta", Price: decimal.NewFromInt(18000), Stock: 20, MinStock: 5, Category: "papel"}
	require.NoError(t, svc.CreateProduct(ctx, p, "operador"))
	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.False(t, p.LastUpdated.IsZero())

	select {
	case ev := <-n.stocks:
		assert.Equal(t, model.EventProductCreated, ev.Action)
		assert.Equal(t, 20, ev.NewStock)
	case <-time.After(time.Second):
		t.Fatal("stock event not published")
	}

	dup := &model.Product{Name: "resma CARTA", Price: decimal.NewFromInt(1)}
	assert.ErrorIs(t, svc.CreateProduct(ctx, dup, "operador"), ErrDuplicateProduct)
}

func TestCreateProductValidation(t *testing.T) {
	svc, _ := newInventoryFixture(t)
	ctx := context.Background()

	assert.Error(t, svc.CreateProduct(ctx, &model.Product{Price: decimal.NewFromInt(1)}, "x"))
	assert.Error(t, svc.CreateProduct(ctx, &model.Product{Name: "Regla", Price: decimal.NewFromInt(-5)}, "x"))
	assert.Error(t, svc.CreateProduct(ctx, &model.Product{Name: "Regla", Stock: -1}, "x"))
}

func TestUpdateProduct(t *testing.T) {
	svc, _ := newInventoryFixture(t)
	ctx := context.Background()

	p := &model.Product{Name: "Regla", Price: decimal.NewFromInt(1500), Stock: 5, MinStock: 2}
	require.NoError(t, svc.CreateProduct(ctx, p, "a"))

	updated, err := svc.UpdateProduct(ctx, p.ID, &model.Product{Name: "Regla 30cm", Price: decimal.NewFromInt(1700), Stock: 9, MinStock: 3, Supplier: "Norma"}, "b")
	require.NoError(t, err)
	assert.Equal(t, "Regla 30cm", updated.Name)
	assert.Equal(t, 9, updated.Stock)
	assert.Equal(t, "b", updated.UpdatedBy)

	_, err = svc.UpdateProduct(ctx, uuid.New(), &model.Product{Name: "x"}, "b")
	assert.ErrorIs(t, err, model.ErrProductNotFound)
}

func TestAdjustStock(t *testing.T) {
	svc, _ := newInventoryFixture(t)
	ctx := context.Background()

	p := &model.Product{Name: "Esfero", Price: decimal.NewFromInt(1000), Stock: 5, MinStock: 2}
	require.NoError(t, svc.CreateProduct(ctx, p, "a"))

	got, err := svc.AdjustStock(ctx, p.ID, 10, StockAdd, "a")
	require.NoError(t, err)
	assert.Equal(t, 15, got.Stock)

	got, err = svc.AdjustStock(ctx, p.ID, 15, StockSubtract, "a")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)

	_, err = svc.AdjustStock(ctx, p.ID, 1, StockSubtract, "a")
	assert.ErrorIs(t, err, model.ErrInsufficientStock)

	_, err = svc.AdjustStock(ctx, p.ID, 0, StockAdd, "a")
	assert.Error(t, err)

	_, err = svc.AdjustStock(ctx, p.ID, 1, StockAdjustment("steal"), "a")
	assert.Error(t, err)
}

func TestDeleteProduct(t *testing.T) {
	fx := newFixture(t)
	n := newRecordingNotifier()
	svc := NewInventoryService(repository.NewProductRepo(fx.db), fx.db, n)
	ctx := context.Background()

	unsold := testutil.SeedProduct(t, fx.db, "Compas", "geometria", 4500, 3, 1)
	sold := testutil.SeedProduct(t, fx.db, "Cuaderno", "cuadernos", 2500, 10, 5)
	testutil.SeedSale(t, fx.db, sold, 2, time.Now().UTC())

	require.NoError(t, svc.DeleteProduct(ctx, unsold.ID, "admin"))
	_, err := svc.GetProduct(ctx, unsold.ID)
	assert.ErrorIs(t, err, model.ErrProductNotFound)

	ev := <-n.stocks
	assert.Equal(t, model.EventProductDeleted, ev.Action)
	assert.Equal(t, 3, ev.OldStock)
	assert.Equal(t, 0, ev.NewStock)

	assert.ErrorIs(t, svc.DeleteProduct(ctx, sold.ID, "admin"), ErrProductHasSales)
	_, err = svc.GetProduct(ctx, sold.ID)
	assert.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteProduct(ctx, uuid.New(), "admin"), model.ErrProductNotFound)
}
