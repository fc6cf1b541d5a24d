package mock

import (
	"context"

	"github.com/fwojciec/rankmdx"
)

var _ rankmdx.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of rankmdx.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ rankmdx.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of rankmdx.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}

var _ rankmdx.LinkResolver = (*LinkResolver)(nil)

// LinkResolver is a mock implementation of rankmdx.LinkResolver.
type LinkResolver struct {
	ResolveFn func(ctx context.Context, url string) (string, error)
}

func (r *LinkResolver) Resolve(ctx context.Context, url string) (string, error) {
	return r.ResolveFn(ctx, url)
}
