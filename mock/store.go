package mock

import (
	"context"

	"github.com/fwojciec/rankmdx"
)

var _ rankmdx.ArticleStore = (*ArticleStore)(nil)

// ArticleStore is a mock implementation of rankmdx.ArticleStore.
type ArticleStore struct {
	ListFn   func(ctx context.Context) ([]string, error)
	ExistsFn func(ctx context.Context, slug string) (bool, error)
	ReadFn   func(ctx context.Context, slug string) (string, error)
	WriteFn  func(ctx context.Context, slug, content string) error
}

func (s *ArticleStore) List(ctx context.Context) ([]string, error) {
	return s.ListFn(ctx)
}

func (s *ArticleStore) Exists(ctx context.Context, slug string) (bool, error) {
	return s.ExistsFn(ctx, slug)
}

func (s *ArticleStore) Read(ctx context.Context, slug string) (string, error) {
	return s.ReadFn(ctx, slug)
}

func (s *ArticleStore) Write(ctx context.Context, slug, content string) error {
	return s.WriteFn(ctx, slug, content)
}

var _ rankmdx.SlugRegistry = (*SlugRegistry)(nil)

// SlugRegistry is a mock implementation of rankmdx.SlugRegistry.
type SlugRegistry struct {
	ClaimSlugFn func(ctx context.Context, slug, sourceURL string) (string, error)
	FindSlugFn  func(ctx context.Context, sourceURL string) (string, error)
}

func (r *SlugRegistry) ClaimSlug(ctx context.Context, slug, sourceURL string) (string, error) {
	return r.ClaimSlugFn(ctx, slug, sourceURL)
}

func (r *SlugRegistry) FindSlug(ctx context.Context, sourceURL string) (string, error) {
	return r.FindSlugFn(ctx, sourceURL)
}
