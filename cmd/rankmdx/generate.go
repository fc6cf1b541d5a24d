package main

import (
	"context"
	"fmt"

	"github.com/fwojciec/rankmdx"
	"github.com/fwojciec/rankmdx/pipeline"
)

// Run executes the generate command.
func (c *GenerateCmd) Run(deps *Dependencies) error {
	urls := c.URLs
	if len(urls) == 0 {
		pending, err := deps.Ledger.Pending(deps.Ctx)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", rankmdx.ErrorMessage(err))
			return err
		}
		urls = pending
	}
	if len(urls) == 0 {
		fmt.Fprintln(deps.Stdout, "No pending URLs.")
		return nil
	}

	p := deps.Pipeline
	p.Limit = c.Limit
	p.PerURLTimeout = c.Timeout
	p.MaxTokens = c.MaxTokens
	p.Progress = func(event pipeline.ProgressEvent) {
		switch event.Type {
		case pipeline.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Processing %d URLs\n", event.Total)
		case pipeline.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "  [%d/%d] %s -> %s\n", event.Completed, event.Total, pipeline.TruncateURL(event.URL, 60), event.Slug)
		case pipeline.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  [%d/%d] skip %s: %s\n", event.Completed, event.Total, pipeline.TruncateURL(event.URL, 60), rankmdx.ErrorMessage(event.Error))
		}
	}

	// The task gets its own context so an interrupt stops it through Cancel
	// and the run is still recorded as canceled.
	task := p.Start(context.WithoutCancel(deps.Ctx), urls)
	select {
	case <-task.Done():
	case <-deps.Ctx.Done():
		fmt.Fprintln(deps.Stderr, "Interrupted, stopping...")
		task.Cancel()
	}

	result, err := task.Wait()
	if err != nil && !pipeline.IsCanceled(err) {
		fmt.Fprintf(deps.Stderr, "error: %s\n", rankmdx.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Published %d articles, %d failed (%s, %s)\n",
		result.Processed(), result.Failed(), pipeline.FormatBytes(result.Bytes), pipeline.FormatTokens(result.Tokens))
	if result.RunID != "" {
		fmt.Fprintf(deps.Stdout, "Run %s\n", result.RunID)
	}
	return err
}
