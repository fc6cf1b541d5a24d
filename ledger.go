package rankmdx

import (
	"context"
	"strings"
)

// SourceFile is a list of candidate URLs read from one source file.
type SourceFile struct {
	Path string
	URLs []string
}

// LedgerState is the reconciled view of discovered and processed URLs.
type LedgerState struct {
	// Discovered is the union of all source files in first-seen order.
	Discovered []string

	// Processed holds processed URLs that are still discovered.
	Processed []string

	// Pending is Discovered minus Processed, in discovery order.
	Pending []string

	// Orphans are processed URLs no source file lists any more.
	Orphans []string

	// Duplicates maps URLs listed more than once to the files listing them.
	Duplicates map[string][]string
}

// ReconcileURLs computes the ledger state from source files and the
// processed ledger. Duplicates are reported, not removed from the sources.
func ReconcileURLs(sources []SourceFile, processed []string) *LedgerState {
	state := &LedgerState{Duplicates: make(map[string][]string)}

	seenIn := make(map[string][]string)
	for _, src := range sources {
		for _, u := range src.URLs {
			u = strings.TrimSpace(u)
			if u == "" {
				continue
			}
			if _, ok := seenIn[u]; !ok {
				state.Discovered = append(state.Discovered, u)
			}
			seenIn[u] = append(seenIn[u], src.Path)
		}
	}
	for u, files := range seenIn {
		if len(files) > 1 {
			state.Duplicates[u] = files
		}
	}

	done := make(map[string]bool, len(processed))
	for _, u := range processed {
		u = strings.TrimSpace(u)
		if u == "" || done[u] {
			continue
		}
		done[u] = true
		if _, ok := seenIn[u]; ok {
			state.Processed = append(state.Processed, u)
		} else {
			state.Orphans = append(state.Orphans, u)
		}
	}

	for _, u := range state.Discovered {
		if !done[u] {
			state.Pending = append(state.Pending, u)
		}
	}
	return state
}

// URLLedger tracks which discovered URLs have produced a document.
type URLLedger interface {
	// State returns the current reconciled view without modifying anything.
	State(ctx context.Context) (*LedgerState, error)

	// Pending returns discovered URLs not yet processed, in discovery order.
	Pending(ctx context.Context) ([]string, error)

	// MarkProcessed records url as processed. Marking twice is a no-op.
	MarkProcessed(ctx context.Context, url string) error

	// Reconcile drops orphans from the processed ledger and returns the
	// resulting state.
	Reconcile(ctx context.Context) (*LedgerState, error)
}
