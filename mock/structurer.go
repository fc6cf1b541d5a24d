package mock

import (
	"context"

	"github.com/fwojciec/rankmdx"
)

var _ rankmdx.Structurer = (*Structurer)(nil)

// Structurer is a mock implementation of rankmdx.Structurer.
type Structurer struct {
	StructureFn func(ctx context.Context, article *rankmdx.SourceArticle) (*rankmdx.Structured, error)
}

func (s *Structurer) Structure(ctx context.Context, article *rankmdx.SourceArticle) (*rankmdx.Structured, error) {
	return s.StructureFn(ctx, article)
}

var _ rankmdx.Sanitizer = (*Sanitizer)(nil)

// Sanitizer is a mock implementation of rankmdx.Sanitizer.
type Sanitizer struct {
	SanitizeFn func(text string) string
}

func (s *Sanitizer) Sanitize(text string) string {
	return s.SanitizeFn(text)
}

var _ rankmdx.Synthesizer = (*Synthesizer)(nil)

// Synthesizer is a mock implementation of rankmdx.Synthesizer.
type Synthesizer struct {
	SynthesizeFn func(article *rankmdx.SourceArticle, st *rankmdx.Structured) (*rankmdx.ArticleDocument, error)
}

func (s *Synthesizer) Synthesize(article *rankmdx.SourceArticle, st *rankmdx.Structured) (*rankmdx.ArticleDocument, error) {
	return s.SynthesizeFn(article, st)
}
