package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/rankmdx"
)

// Run executes the runs command.
func (c *RunsCmd) Run(deps *Dependencies) error {
	if c.ID != "" {
		return c.attempts(deps)
	}

	runs, err := deps.Runs.FindRuns(deps.Ctx, rankmdx.RunFilter{Limit: c.Limit})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", rankmdx.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs found. Use 'rankmdx generate' to start one.")
		return nil
	}

	for _, r := range runs {
		fmt.Fprintf(deps.Stdout, "%s  %s  %-9s  processed=%d failed=%d\n",
			r.ID, r.StartedAt.UTC().Format(time.DateTime), r.Status, r.Processed, r.Failed)
	}
	return nil
}

func (c *RunsCmd) attempts(deps *Dependencies) error {
	runs, err := deps.Runs.FindRuns(deps.Ctx, rankmdx.RunFilter{ID: &c.ID})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", rankmdx.ErrorMessage(err))
		return err
	} else if len(runs) == 0 {
		err := rankmdx.Errorf(rankmdx.ENOTFOUND, "run %q not found", c.ID)
		fmt.Fprintf(deps.Stderr, "error: %s\n", rankmdx.ErrorMessage(err))
		return err
	}

	attempts, err := deps.Runs.FindAttempts(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", rankmdx.ErrorMessage(err))
		return err
	}

	for _, a := range attempts {
		switch a.Status {
		case rankmdx.AttemptSucceeded:
			fmt.Fprintf(deps.Stdout, "ok    %s -> %s (%s)\n", a.URL, a.Slug, a.Duration.Round(time.Millisecond))
		default:
			fmt.Fprintf(deps.Stdout, "fail  %s: %s\n", a.URL, a.Error)
		}
	}
	return nil
}
