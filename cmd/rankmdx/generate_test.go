package main_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/rankmdx"
	main "github.com/fwojciec/rankmdx/cmd/rankmdx"
	"github.com/fwojciec/rankmdx/mock"
	"github.com/fwojciec/rankmdx/pipeline"
	"github.com/fwojciec/rankmdx/synth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func body() string {
	return strings.Repeat("La Cosori Pro LE es la freidora más equilibrada que hemos probado. ", 5)
}

func newTestPipeline(written map[string]string) *pipeline.Pipeline {
	now := func() time.Time { return time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC) }
	return &pipeline.Pipeline{
		Ledger: &mock.URLLedger{
			MarkProcessedFn: func(_ context.Context, _ string) error { return nil },
		},
		Extractor: &mock.ArticleExtractor{
			ExtractArticleFn: func(_ context.Context, url string) (*rankmdx.SourceArticle, error) {
				if strings.HasSuffix(url, "/404") {
					return nil, rankmdx.Errorf(rankmdx.ENOTFOUND, "HTTP 404")
				}
				return &rankmdx.SourceArticle{Title: "Freidoras de aire", BodyMarkdown: body(), SourceURL: url}, nil
			},
		},
		Structurer: &mock.Structurer{
			StructureFn: func(_ context.Context, _ *rankmdx.SourceArticle) (*rankmdx.Structured, error) {
				return &rankmdx.Structured{Products: []rankmdx.CandidateProduct{{Name: "Cosori Pro LE"}}}, nil
			},
		},
		Synthesizer: &synth.Synthesizer{Now: now},
		Store: &mock.ArticleStore{
			ExistsFn: func(_ context.Context, slug string) (bool, error) {
				_, ok := written[slug]
				return ok, nil
			},
			WriteFn: func(_ context.Context, slug, content string) error {
				written[slug] = content
				return nil
			},
		},
		Now: now,
	}
}

func TestGenerateCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("publishes pending URLs and reports failures", func(t *testing.T) {
		t.Parallel()

		written := make(map[string]string)
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: stderr,
			Ledger: &mock.URLLedger{
				PendingFn: func(_ context.Context) ([]string, error) {
					return []string{"https://blog.es/freidoras", "https://blog.es/404"}, nil
				},
			},
			Pipeline: newTestPipeline(written),
		}

		err := (&main.GenerateCmd{Timeout: time.Minute}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Processing 2 URLs")
		assert.Contains(t, stdout.String(), "-> freidoras-de-aire")
		assert.Contains(t, stdout.String(), "Published 1 articles, 1 failed")
		assert.Contains(t, stderr.String(), "skip https://blog.es/404: HTTP 404")
		assert.Contains(t, written, "freidoras-de-aire")
	})

	t.Run("processes explicit URLs without reading the ledger", func(t *testing.T) {
		t.Parallel()

		written := make(map[string]string)
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   &bytes.Buffer{},
			Stderr:   &bytes.Buffer{},
			Ledger:   &mock.URLLedger{},
			Pipeline: newTestPipeline(written),
		}

		err := (&main.GenerateCmd{URLs: []string{"https://blog.es/freidoras"}}).Run(deps)

		require.NoError(t, err)
		assert.Len(t, written, 1)
	})

	t.Run("applies the limit flag", func(t *testing.T) {
		t.Parallel()

		written := make(map[string]string)
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   stdout,
			Stderr:   &bytes.Buffer{},
			Pipeline: newTestPipeline(written),
		}

		err := (&main.GenerateCmd{Limit: 1, URLs: []string{"https://blog.es/a", "https://blog.es/b"}}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Processing 1 URLs")
	})

	t.Run("reports when nothing is pending", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Ledger: &mock.URLLedger{
				PendingFn: func(_ context.Context) ([]string, error) { return nil, nil },
			},
		}

		err := (&main.GenerateCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "No pending URLs.\n", stdout.String())
	})

	t.Run("interrupt cancels the run", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		p := newTestPipeline(make(map[string]string))
		p.Extractor = &mock.ArticleExtractor{
			ExtractArticleFn: func(ctx context.Context, _ string) (*rankmdx.SourceArticle, error) {
				cancel()
				<-ctx.Done()
				return nil, ctx.Err()
			},
		}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      ctx,
			Stdout:   &bytes.Buffer{},
			Stderr:   stderr,
			Pipeline: p,
		}

		err := (&main.GenerateCmd{URLs: []string{"https://blog.es/a", "https://blog.es/b"}}).Run(deps)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Contains(t, stderr.String(), "Interrupted")
	})
}
