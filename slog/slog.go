// Package slog provides logging decorators for rankmdx services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/rankmdx"
)

// Ensure decorators implement their interfaces.
var (
	_ rankmdx.Fetcher      = (*LoggingFetcher)(nil)
	_ rankmdx.Structurer   = (*LoggingStructurer)(nil)
	_ rankmdx.LinkResolver = (*LoggingLinkResolver)(nil)
)

// LoggingFetcher wraps a Fetcher with logging.
type LoggingFetcher struct {
	next   rankmdx.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next rankmdx.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the URL being fetched and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		f.logger.Info("fetch",
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}

// LoggingStructurer wraps a Structurer with logging.
type LoggingStructurer struct {
	next   rankmdx.Structurer
	logger *slog.Logger
}

// NewLoggingStructurer creates a new LoggingStructurer.
func NewLoggingStructurer(next rankmdx.Structurer, logger *slog.Logger) *LoggingStructurer {
	return &LoggingStructurer{next: next, logger: logger}
}

// Structure logs the product count and delegates to the wrapped structurer.
func (s *LoggingStructurer) Structure(ctx context.Context, article *rankmdx.SourceArticle) (st *rankmdx.Structured, err error) {
	defer func(begin time.Time) {
		var url string
		if article != nil {
			url = article.SourceURL
		}
		products := 0
		if st != nil {
			products = len(st.Products)
		}
		s.logger.Info("structure",
			"url", url,
			"products", products,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Structure(ctx, article)
}

// LoggingLinkResolver wraps a LinkResolver with debug logging.
type LoggingLinkResolver struct {
	next   rankmdx.LinkResolver
	logger *slog.Logger
}

// NewLoggingLinkResolver creates a new LoggingLinkResolver.
func NewLoggingLinkResolver(next rankmdx.LinkResolver, logger *slog.Logger) *LoggingLinkResolver {
	return &LoggingLinkResolver{next: next, logger: logger}
}

// Resolve logs the short link and its destination.
func (r *LoggingLinkResolver) Resolve(ctx context.Context, url string) (resolved string, err error) {
	defer func(begin time.Time) {
		r.logger.Debug("resolve",
			"url", url,
			"resolved", resolved,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Resolve(ctx, url)
}
