package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fwojciec/rankmdx"
)

// Run executes the pending command.
func (c *PendingCmd) Run(deps *Dependencies) error {
	state, err := deps.Ledger.State(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", rankmdx.ErrorMessage(err))
		return err
	}

	if c.Summary {
		fmt.Fprintf(deps.Stdout, "discovered: %d\nprocessed:  %d\npending:    %d\norphans:    %d\n",
			len(state.Discovered), len(state.Processed), len(state.Pending), len(state.Orphans))
		return nil
	}

	for _, u := range state.Pending {
		fmt.Fprintln(deps.Stdout, u)
	}
	return nil
}

// Run executes the reconcile command.
func (c *ReconcileCmd) Run(deps *Dependencies) error {
	state, err := deps.Ledger.Reconcile(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", rankmdx.ErrorMessage(err))
		return err
	}

	for _, u := range state.Orphans {
		fmt.Fprintf(deps.Stdout, "dropped %s\n", u)
	}

	dups := make([]string, 0, len(state.Duplicates))
	for u := range state.Duplicates {
		dups = append(dups, u)
	}
	sort.Strings(dups)
	for _, u := range dups {
		fmt.Fprintf(deps.Stdout, "duplicate %s (%s)\n", u, strings.Join(state.Duplicates[u], ", "))
	}

	fmt.Fprintf(deps.Stdout, "Dropped %d orphans; %d processed, %d pending\n",
		len(state.Orphans), len(state.Processed), len(state.Pending))
	return nil
}
