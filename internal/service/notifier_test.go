package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"ia-papeleria/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stuckNotifier never returns until its context ends.
type stuckNotifier struct {
	ended atomic.Int32
}

func (n *stuckNotifier) NotifySale(ctx context.Context, _ model.SaleEvent) {
	<-ctx.Done()
	n.ended.Add(1)
}

func (n *stuckNotifier) NotifyStock(ctx context.Context, _ model.StockEvent) {
	<-ctx.Done()
	n.ended.Add(1)
}

func TestAsyncNotifierDoesNotBlockCaller(t *testing.T) {
	stuck := &stuckNotifier{}
	n := NewAsyncNotifier(stuck, 100*time.Millisecond)

	start := time.Now()
	n.NotifySale(context.Background(), model.SaleEvent{ProductName: "Cuaderno"})
	n.NotifyStock(context.Background(), model.StockEvent{Name: "Cuaderno"})
	assert.Less(t, time.Since(start), 50*time.Millisecond)

	n.Wait()
	assert.Equal(t, int32(2), stuck.ended.Load())
}

func TestAsyncNotifierWaitDrainsDeliveries(t *testing.T) {
	rec := newRecordingNotifier()
	n := NewAsyncNotifier(MultiNotifier{rec}, time.Second)

	// a cancelled request context still delivers
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n.NotifySale(ctx, model.SaleEvent{ProductName: "Cuaderno", Quantity: 2})
	n.Wait()

	require.Len(t, rec.sales, 1)
	assert.Equal(t, 2, (<-rec.sales).Quantity)
}
