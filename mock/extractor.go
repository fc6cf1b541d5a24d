package mock

import (
	"context"

	"github.com/fwojciec/rankmdx"
)

var _ rankmdx.ContentExtractor = (*ContentExtractor)(nil)

// ContentExtractor is a mock implementation of rankmdx.ContentExtractor.
type ContentExtractor struct {
	ExtractFn func(html, pageURL string) (*rankmdx.ExtractResult, error)
}

func (e *ContentExtractor) Extract(html, pageURL string) (*rankmdx.ExtractResult, error) {
	return e.ExtractFn(html, pageURL)
}

var _ rankmdx.ProductScanner = (*ProductScanner)(nil)

// ProductScanner is a mock implementation of rankmdx.ProductScanner.
type ProductScanner struct {
	ScanFn func(html, pageURL string) (*rankmdx.ScanResult, error)
}

func (s *ProductScanner) Scan(html, pageURL string) (*rankmdx.ScanResult, error) {
	return s.ScanFn(html, pageURL)
}

var _ rankmdx.ArticleExtractor = (*ArticleExtractor)(nil)

// ArticleExtractor is a mock implementation of rankmdx.ArticleExtractor.
type ArticleExtractor struct {
	ExtractArticleFn func(ctx context.Context, url string) (*rankmdx.SourceArticle, error)
}

func (e *ArticleExtractor) ExtractArticle(ctx context.Context, url string) (*rankmdx.SourceArticle, error) {
	return e.ExtractArticleFn(ctx, url)
}
