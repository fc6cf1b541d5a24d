package fs

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/fwojciec/rankmdx"
)

// Ensure Ledger implements rankmdx.URLLedger at compile time.
var _ rankmdx.URLLedger = (*Ledger)(nil)

// Ledger implements rankmdx.URLLedger over JSON files. Source files are
// JSON arrays of URLs (strings or {"url": ...} objects) matched by a glob;
// the processed ledger is a JSON array of URL strings.
type Ledger struct {
	processedPath string
	sourceGlob    string
	logger        *slog.Logger
	mu            sync.Mutex
}

// NewLedger creates a Ledger. A nil logger discards warnings.
func NewLedger(processedPath, sourceGlob string, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Ledger{
		processedPath: processedPath,
		sourceGlob:    sourceGlob,
		logger:        logger,
	}
}

// State returns the reconciled view of sources and the processed ledger.
func (l *Ledger) State(ctx context.Context) (*rankmdx.LedgerState, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state()
}

// Pending returns discovered URLs not yet processed, in discovery order.
func (l *Ledger) Pending(ctx context.Context) ([]string, error) {
	state, err := l.State(ctx)
	if err != nil {
		return nil, err
	}
	return state.Pending, nil
}

// MarkProcessed appends url to the processed ledger unless already present.
func (l *Ledger) MarkProcessed(ctx context.Context, url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return rankmdx.Errorf(rankmdx.EINVALID, "url required")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	processed := l.processed()
	if slices.Contains(processed, url) {
		return nil
	}
	return l.writeProcessed(append(processed, url))
}

// Reconcile rewrites the processed ledger without orphaned URLs.
func (l *Ledger) Reconcile(ctx context.Context) (*rankmdx.LedgerState, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	state, err := l.state()
	if err != nil {
		return nil, err
	}
	if !slices.Equal(state.Processed, l.processed()) {
		if err := l.writeProcessed(state.Processed); err != nil {
			return nil, err
		}
	}
	return state, nil
}

func (l *Ledger) state() (*rankmdx.LedgerState, error) {
	sources, err := l.sources()
	if err != nil {
		return nil, err
	}
	return rankmdx.ReconcileURLs(sources, l.processed()), nil
}

// sources reads every source file. Missing or unparsable source files are
// configuration errors.
func (l *Ledger) sources() ([]rankmdx.SourceFile, error) {
	paths, err := filepath.Glob(l.sourceGlob)
	if err != nil {
		return nil, rankmdx.Errorf(rankmdx.EINVALID, "invalid source pattern %q: %v", l.sourceGlob, err)
	}
	if len(paths) == 0 {
		return nil, rankmdx.Errorf(rankmdx.EINVALID, "no source files match %q", l.sourceGlob)
	}
	sort.Strings(paths)

	files := make([]rankmdx.SourceFile, 0, len(paths))
	for _, path := range paths {
		urls, err := readSourceFile(path)
		if err != nil {
			return nil, err
		}
		files = append(files, rankmdx.SourceFile{Path: path, URLs: urls})
	}
	return files, nil
}

func readSourceFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, rankmdx.Errorf(rankmdx.EINVALID, "source file %s: expected a JSON array", path)
	}

	urls := make([]string, 0, len(entries))
	for _, raw := range entries {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			urls = append(urls, s)
			continue
		}
		var obj struct {
			URL string `json:"url"`
		}
		if err := json.Unmarshal(raw, &obj); err == nil && obj.URL != "" {
			urls = append(urls, obj.URL)
			continue
		}
		return nil, rankmdx.Errorf(rankmdx.EINVALID, "source file %s: unrecognized entry %s", path, raw)
	}
	return urls, nil
}

// processed reads the processed ledger. A missing file is empty; a corrupt
// or unreadable file is treated as empty and reported.
func (l *Ledger) processed() []string {
	data, err := os.ReadFile(l.processedPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	} else if err != nil {
		l.logger.Warn("processed ledger unreadable, treating as empty", "path", l.processedPath, "err", err)
		return nil
	}

	var urls []string
	if err := json.Unmarshal(data, &urls); err != nil {
		l.logger.Warn("processed ledger corrupt, treating as empty", "path", l.processedPath, "err", err)
		return nil
	}
	return urls
}

func (l *Ledger) writeProcessed(urls []string) error {
	if urls == nil {
		urls = []string{}
	}
	data, err := json.MarshalIndent(urls, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(l.processedPath, append(data, '\n'))
}
