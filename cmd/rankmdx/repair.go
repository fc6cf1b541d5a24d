package main

import (
	"fmt"

	"github.com/fwojciec/rankmdx"
	"github.com/fwojciec/rankmdx/pipeline"
	"github.com/fwojciec/rankmdx/synth"
)

// Run executes the repair command.
func (c *RepairCmd) Run(deps *Dependencies) error {
	result, err := pipeline.Repair(deps.Ctx, deps.Store, synth.NormalizeDocument, deps.now())
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", rankmdx.ErrorMessage(err))
		return err
	}

	for _, slug := range result.Updated {
		fmt.Fprintf(deps.Stdout, "updated %s\n", slug)
	}
	for _, f := range result.Failed {
		fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", f.Slug, rankmdx.ErrorMessage(f.Err))
	}

	fmt.Fprintf(deps.Stdout, "Checked %d articles, updated %d, %d unreadable\n",
		result.Checked, len(result.Updated), len(result.Failed))
	return nil
}
