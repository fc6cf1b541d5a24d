package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/rankmdx"
	"golang.org/x/sync/errgroup"
)

var _ rankmdx.ArticleExtractor = (*ArticleExtractor)(nil)

// DefaultResolveConcurrency bounds concurrent short-link resolutions.
const DefaultResolveConcurrency = 4

// ArticleExtractor turns a source URL into a SourceArticle: it fetches the
// rendered page, isolates and converts the main content, scans the full
// DOM for merchant links and prices, and resolves short links.
type ArticleExtractor struct {
	Fetcher     rankmdx.Fetcher
	Extractor   rankmdx.ContentExtractor
	Converter   rankmdx.Converter
	Scanner     rankmdx.ProductScanner
	Resolver    rankmdx.LinkResolver
	RateLimiter rankmdx.DomainLimiter
	Logger      *slog.Logger

	// Concurrency bounds short-link resolution. Defaults to DefaultResolveConcurrency.
	Concurrency int

	// RetryDelays are the fetch backoff delays. Defaults to DefaultRetryDelays().
	RetryDelays []time.Duration
}

// ExtractArticle fetches, cleans and scans the page at rawURL. A body too
// short to structure returns EINVALID before any short link is resolved.
func (e *ArticleExtractor) ExtractArticle(ctx context.Context, rawURL string) (*rankmdx.SourceArticle, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil, rankmdx.Errorf(rankmdx.EINVALID, "invalid article URL %q", rawURL)
	}

	html, err := e.fetch(ctx, rawURL, u.Hostname())
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	extracted, err := e.Extractor.Extract(html, rawURL)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	markdown, err := e.Converter.Convert(extracted.ContentHTML, rawURL)
	if err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}

	scan, err := e.Scanner.Scan(html, rawURL)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	article := &rankmdx.SourceArticle{
		Title:           strings.TrimSpace(extracted.Title),
		BodyMarkdown:    rankmdx.CleanMarkdown(markdown),
		Excerpt:         strings.TrimSpace(extracted.Excerpt),
		HeroImageURL:    extracted.Image,
		SourceURL:       rawURL,
		PublishDate:     extracted.PublishDate,
		ProductLinks:    scan.Links,
		PriceCandidates: scan.Prices,
	}
	if rankmdx.IsPlaceholderImage(article.HeroImageURL) {
		article.HeroImageURL = ""
	}
	if err := article.Validate(); err != nil {
		return nil, err
	}

	if err := e.resolveLinks(ctx, article.ProductLinks); err != nil {
		return nil, err
	}
	fillASINs(article)

	return article, nil
}

func (e *ArticleExtractor) fetch(ctx context.Context, rawURL, host string) (string, error) {
	delays := e.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	fetch := func(ctx context.Context, u string) (string, error) {
		if e.RateLimiter != nil {
			if err := e.RateLimiter.Wait(ctx, host); err != nil {
				return "", err
			}
		}
		return e.Fetcher.Fetch(ctx, u)
	}
	return FetchWithRetryDelays(ctx, rawURL, fetch, e.logger(), delays)
}

// resolveLinks follows short links in place. A link that cannot be resolved
// keeps its original URL; only context cancellation is returned.
func (e *ArticleExtractor) resolveLinks(ctx context.Context, links []rankmdx.ProductLink) error {
	if e.Resolver == nil {
		return nil
	}

	limit := e.Concurrency
	if limit <= 0 {
		limit = DefaultResolveConcurrency
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i := range links {
		if !rankmdx.IsShortLink(links[i].OriginalURL) {
			continue
		}
		link := &links[i]
		g.Go(func() error {
			if e.RateLimiter != nil {
				if err := e.RateLimiter.Wait(gctx, hostOf(link.OriginalURL)); err != nil {
					return err
				}
			}
			resolved, err := e.Resolver.Resolve(gctx, link.OriginalURL)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				e.logger().Warn("short link not resolved", "url", link.OriginalURL, "err", err)
				link.ResolvedURL = link.OriginalURL
				return nil
			}
			link.ResolvedURL = resolved
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("resolve links: %w", err)
	}
	return nil
}

// fillASINs derives each price candidate's ASIN from the resolved form
// of its href.
func fillASINs(article *rankmdx.SourceArticle) {
	for i := range article.PriceCandidates {
		c := &article.PriceCandidates[i]
		if c.ASIN != "" || c.Href == "" {
			continue
		}
		c.ASIN = rankmdx.ExtractASIN(article.ResolvedURL(c.Href))
	}
}

func (e *ArticleExtractor) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.Logger
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
