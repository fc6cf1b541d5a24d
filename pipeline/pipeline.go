// Package pipeline runs source URLs through extraction, structuring,
// synthesis and assembly, one URL at a time, and records the results in
// the URL ledger and the run log.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/rankmdx"
	"github.com/fwojciec/rankmdx/mdx"
)

// DefaultPerURLTimeout bounds the whole processing of one URL.
const DefaultPerURLTimeout = 3 * time.Minute

// maxSlugAttempts bounds the suffixes tried for a colliding slug.
const maxSlugAttempts = 100

// Pipeline processes source URLs sequentially.
type Pipeline struct {
	Ledger       rankmdx.URLLedger
	Extractor    rankmdx.ArticleExtractor
	Structurer   rankmdx.Structurer
	Synthesizer  rankmdx.Synthesizer
	Store        rankmdx.ArticleStore
	Slugs        rankmdx.SlugRegistry // optional
	Runs         rankmdx.RunService   // optional
	TokenCounter rankmdx.TokenCounter // optional
	Logger       *slog.Logger

	// PromptText returns the text counted against the token budget.
	// Defaults to the article body.
	PromptText func(article *rankmdx.SourceArticle) string

	// MaxTokens refuses articles whose prompt exceeds it. Zero means no limit.
	MaxTokens int

	// PerURLTimeout bounds extraction through write for one URL.
	// Defaults to DefaultPerURLTimeout.
	PerURLTimeout time.Duration

	// Limit caps the number of URLs handled by Run. Zero means no limit.
	Limit int

	// Progress, if set, receives events as Run proceeds.
	Progress ProgressFunc

	Now func() time.Time
}

// Outcome describes one successfully published article.
type Outcome struct {
	URL      string
	Slug     string
	Products int
	Tokens   int
	Bytes    int
}

// Failure describes a URL that was left pending.
type Failure struct {
	URL string
	Err error
}

// Result holds the outcome of a Run.
type Result struct {
	RunID    string
	Outcomes []*Outcome
	Failures []Failure
	Tokens   int
	Bytes    int
	Canceled bool
}

// Processed returns the number of published articles.
func (r *Result) Processed() int { return len(r.Outcomes) }

// Failed returns the number of URLs left pending.
func (r *Result) Failed() int { return len(r.Failures) }

// ProgressEvent reports progress during a Run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Slug      string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting run progress.
type ProgressFunc func(event ProgressEvent)

// Process publishes the article for rawURL. On any error nothing is written
// and the URL stays pending.
func (p *Pipeline) Process(ctx context.Context, rawURL string) (*Outcome, error) {
	timeout := p.PerURLTimeout
	if timeout <= 0 {
		timeout = DefaultPerURLTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	logger := p.logger().With("url", rawURL)

	article, err := p.Extractor.ExtractArticle(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	if err := article.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("article extracted",
		"chars", len(article.BodyMarkdown),
		"links", len(article.ProductLinks),
		"prices", len(article.PriceCandidates))

	tokens, err := p.countTokens(ctx, article)
	if err != nil {
		return nil, err
	}

	st, err := p.Structurer.Structure(ctx, article)
	if err != nil {
		return nil, fmt.Errorf("structure: %w", err)
	}
	if len(st.Products) == 0 {
		return nil, rankmdx.Errorf(rankmdx.ENOTFOUND, "no products found in %s", rawURL)
	}

	doc, err := p.Synthesizer.Synthesize(article, st)
	if err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}

	slug, err := p.allocateSlug(ctx, doc.Slug, rawURL)
	if err != nil {
		return nil, fmt.Errorf("allocate slug: %w", err)
	}
	doc.Slug = slug
	logger = logger.With("slug", slug)

	content, err := mdx.Assemble(doc)
	if err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}
	if err := p.Store.Write(ctx, slug, content); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}
	if err := p.Ledger.MarkProcessed(ctx, rawURL); err != nil {
		return nil, fmt.Errorf("mark processed: %w", err)
	}

	logger.Info("article published", "products", len(doc.Products), "tokens", tokens)
	return &Outcome{
		URL:      rawURL,
		Slug:     slug,
		Products: len(doc.Products),
		Tokens:   tokens,
		Bytes:    len(content),
	}, nil
}

// countTokens measures the prompt. A counting failure is logged and ignored
// unless a token limit is configured.
func (p *Pipeline) countTokens(ctx context.Context, article *rankmdx.SourceArticle) (int, error) {
	if p.TokenCounter == nil {
		return 0, nil
	}
	text := article.BodyMarkdown
	if p.PromptText != nil {
		text = p.PromptText(article)
	}
	n, err := p.TokenCounter.CountTokens(ctx, text)
	if err != nil {
		if p.MaxTokens > 0 {
			return 0, fmt.Errorf("count tokens: %w", err)
		}
		p.logger().Warn("token count failed", "url", article.SourceURL, "err", err)
		return 0, nil
	}
	if p.MaxTokens > 0 && n > p.MaxTokens {
		return n, rankmdx.Errorf(rankmdx.EINVALID, "prompt has %d tokens, limit is %d", n, p.MaxTokens)
	}
	return n, nil
}

// allocateSlug returns the slug sourceURL already holds, or the first free
// suffix of base. A slug is free when no stored document uses it and the
// registry grants it.
func (p *Pipeline) allocateSlug(ctx context.Context, base, sourceURL string) (string, error) {
	if p.Slugs != nil {
		slug, err := p.Slugs.FindSlug(ctx, sourceURL)
		if err == nil {
			return slug, nil
		} else if rankmdx.ErrorCode(err) != rankmdx.ENOTFOUND {
			return "", err
		}
	}

	if !rankmdx.IsValidSlug(base) {
		base = rankmdx.DefaultSlug
	}
	for n := 1; n <= maxSlugAttempts; n++ {
		candidate := rankmdx.SlugWithSuffix(base, n)

		exists, err := p.Store.Exists(ctx, candidate)
		if err != nil {
			return "", err
		} else if exists {
			continue
		}

		if p.Slugs == nil {
			return candidate, nil
		}
		slug, err := p.Slugs.ClaimSlug(ctx, candidate, sourceURL)
		if rankmdx.ErrorCode(err) == rankmdx.ECONFLICT {
			continue
		} else if err != nil {
			return "", err
		}
		return slug, nil
	}
	return "", rankmdx.Errorf(rankmdx.ECONFLICT, "no free slug for %q after %d attempts", base, maxSlugAttempts)
}

// Run processes urls one at a time. A failed URL is logged and the loop
// continues; cancellation stops it between URLs. The returned error is
// non-nil only when the run could not be recorded or was canceled.
func (p *Pipeline) Run(ctx context.Context, urls []string) (*Result, error) {
	if p.Limit > 0 && len(urls) > p.Limit {
		urls = urls[:p.Limit]
	}

	logger := p.logger()
	result := &Result{}

	run := &rankmdx.Run{Status: rankmdx.RunRunning, StartedAt: p.now()}
	if p.Runs != nil {
		if err := p.Runs.CreateRun(ctx, run); err != nil {
			return nil, fmt.Errorf("create run: %w", err)
		}
		result.RunID = run.ID
		logger = logger.With("run", run.ID)
	}

	p.progress(ProgressEvent{Type: ProgressStarted, Total: len(urls)})

	for i, u := range urls {
		if ctx.Err() != nil {
			break
		}

		start := p.now()
		outcome, err := p.Process(ctx, u)
		attempt := &rankmdx.Attempt{
			RunID:     run.ID,
			URL:       u,
			Duration:  p.now().Sub(start),
			CreatedAt: p.now(),
		}

		if err != nil {
			logger.Error("article failed", "url", u, "err", err)
			result.Failures = append(result.Failures, Failure{URL: u, Err: err})
			attempt.Status = rankmdx.AttemptFailed
			attempt.Error = err.Error()
			p.progress(ProgressEvent{Type: ProgressFailed, Completed: i + 1, Total: len(urls), URL: u, Error: err})
		} else {
			result.Outcomes = append(result.Outcomes, outcome)
			result.Tokens += outcome.Tokens
			result.Bytes += outcome.Bytes
			attempt.Status = rankmdx.AttemptSucceeded
			attempt.Slug = outcome.Slug
			p.progress(ProgressEvent{Type: ProgressCompleted, Completed: i + 1, Total: len(urls), URL: u, Slug: outcome.Slug})
		}

		if p.Runs != nil {
			if err := p.Runs.RecordAttempt(context.WithoutCancel(ctx), attempt); err != nil {
				logger.Warn("attempt not recorded", "url", u, "err", err)
			}
		}
	}

	result.Canceled = ctx.Err() != nil

	if p.Runs != nil {
		run.Status = rankmdx.RunCompleted
		if result.Canceled {
			run.Status = rankmdx.RunCanceled
		}
		run.Processed = result.Processed()
		run.Failed = result.Failed()
		run.FinishedAt = p.now()
		if err := p.Runs.FinishRun(context.WithoutCancel(ctx), run); err != nil {
			return result, fmt.Errorf("finish run: %w", err)
		}
	}

	p.progress(ProgressEvent{Type: ProgressFinished, Completed: result.Processed() + result.Failed(), Total: len(urls)})

	if result.Canceled {
		return result, ctx.Err()
	}
	return result, nil
}

// IsCanceled reports whether err stems from a canceled run.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}

func (p *Pipeline) progress(event ProgressEvent) {
	if p.Progress != nil {
		p.Progress(event)
	}
}

func (p *Pipeline) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.Logger
}
