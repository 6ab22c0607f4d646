package service

import (
	"context"
	"sync"
	"time"

	"ia-papeleria/internal/model"
)

// Notifier receives catalog changes after they commit. Services call it
// inline; wrap slow sinks in an AsyncNotifier.
type Notifier interface {
	NotifySale(ctx context.Context, ev model.SaleEvent)
	NotifyStock(ctx context.Context, ev model.StockEvent)
}

// MultiNotifier fans events out to every wrapped notifier in order.
type MultiNotifier []Notifier

func (m MultiNotifier) NotifySale(ctx context.Context, ev model.SaleEvent) {
	for _, n := range m {
		if n != nil {
			n.NotifySale(ctx, ev)
		}
	}
}

func (m MultiNotifier) NotifyStock(ctx context.Context, ev model.StockEvent) {
	for _, n := range m {
		if n != nil {
			n.NotifyStock(ctx, ev)
		}
	}
}

type NopNotifier struct{}

func (NopNotifier) NotifySale(context.Context, model.SaleEvent)   {}
func (NopNotifier) NotifyStock(context.Context, model.StockEvent) {}

// AsyncNotifier hands each event to next on its own goroutine, bounded by
// timeout. Wait blocks until every delivery started so far has returned.
type AsyncNotifier struct {
	next    Notifier
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewAsyncNotifier(next Notifier, timeout time.Duration) *AsyncNotifier {
	if next == nil {
		next = NopNotifier{}
	}
	return &AsyncNotifier{next: next, timeout: timeout}
}

func (a *AsyncNotifier) NotifySale(ctx context.Context, ev model.SaleEvent) {
	a.deliver(ctx, func(ctx context.Context) { a.next.NotifySale(ctx, ev) })
}

func (a *AsyncNotifier) NotifyStock(ctx context.Context, ev model.StockEvent) {
	a.deliver(ctx, func(ctx context.Context) { a.next.NotifyStock(ctx, ev) })
}

func (a *AsyncNotifier) deliver(parent context.Context, send func(context.Context)) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		// the request that caused the event may already be finished
		ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), a.timeout)
		defer cancel()
		send(ctx)
	}()
}

func (a *AsyncNotifier) Wait() {
	a.wg.Wait()
}
