package mock

import (
	"context"

	"github.com/fwojciec/rankmdx"
)

var _ rankmdx.URLLedger = (*URLLedger)(nil)

// URLLedger is a mock implementation of rankmdx.URLLedger.
type URLLedger struct {
	StateFn         func(ctx context.Context) (*rankmdx.LedgerState, error)
	PendingFn       func(ctx context.Context) ([]string, error)
	MarkProcessedFn func(ctx context.Context, url string) error
	ReconcileFn     func(ctx context.Context) (*rankmdx.LedgerState, error)
}

func (l *URLLedger) State(ctx context.Context) (*rankmdx.LedgerState, error) {
	return l.StateFn(ctx)
}

func (l *URLLedger) Pending(ctx context.Context) ([]string, error) {
	return l.PendingFn(ctx)
}

func (l *URLLedger) MarkProcessed(ctx context.Context, url string) error {
	return l.MarkProcessedFn(ctx, url)
}

func (l *URLLedger) Reconcile(ctx context.Context) (*rankmdx.LedgerState, error) {
	return l.ReconcileFn(ctx)
}
