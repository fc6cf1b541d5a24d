package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/rankmdx"
	"github.com/fwojciec/rankmdx/pipeline"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Ledger    rankmdx.URLLedger
	Store     rankmdx.ArticleStore
	Runs      rankmdx.RunService
	Extractor rankmdx.ArticleExtractor
	Pipeline  *pipeline.Pipeline
	Now       func() time.Time
}

func (d *Dependencies) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Globals

	Generate  GenerateCmd  `cmd:"" help:"Publish ranking articles for pending URLs"`
	Extract   ExtractCmd   `cmd:"" help:"Print the source article extracted from a URL"`
	Pending   PendingCmd   `cmd:"" help:"List URLs waiting to be processed"`
	Reconcile ReconcileCmd `cmd:"" help:"Drop processed URLs no source file lists"`
	Repair    RepairCmd    `cmd:"" help:"Re-apply defaulting rules to stored articles"`
	Runs      RunsCmd      `cmd:"" help:"List recent pipeline runs"`
}

// Globals are flags shared by every command.
type Globals struct {
	ContentDir string `name:"content-dir" env:"RANKMDX_CONTENT_DIR" default:"content/articulos" help:"Directory of published MDX articles"`
	Ledger     string `env:"RANKMDX_LEDGER" default:"data/processed-urls.json" help:"Processed URL ledger file"`
	Sources    string `env:"RANKMDX_SOURCES" default:"data/sources/*.json" help:"Glob of source URL files"`
	DB         string `name:"db" env:"RANKMDX_DB" default:"data/rankmdx.db" help:"SQLite database for slugs and runs"`
	LogLevel   string `name:"log-level" env:"RANKMDX_LOG_LEVEL" default:"info" enum:"debug,info,warn,error" help:"Log level (debug|info|warn|error)"`
}

// ExtractionFlags select and tune the content extractor.
type ExtractionFlags struct {
	Fetcher      string        `default:"rod" enum:"rod,http" help:"Page fetcher (rod|http)"`
	Extractor    string        `default:"trafilatura" enum:"trafilatura,readability" help:"Content extractor (trafilatura|readability)"`
	Sites        string        `env:"RANKMDX_SITES" help:"YAML file with extra price selector rules"`
	FetchTimeout time.Duration `name:"fetch-timeout" default:"30s" help:"Timeout for one page fetch"`
	BrowserBin   string        `name:"browser-bin" env:"RANKMDX_BROWSER_BIN" help:"Chrome binary used by the rod fetcher"`
}

// GenerateCmd is the "generate" subcommand.
type GenerateCmd struct {
	ExtractionFlags `embed:""`

	URLs      []string      `arg:"" optional:"" name:"url" help:"Process these URLs instead of the pending list"`
	APIKey    string        `name:"api-key" env:"GEMINI_API_KEY" help:"Gemini API key"`
	Model     string        `env:"RANKMDX_MODEL" default:"gemini-2.5-flash" help:"Gemini model"`
	Limit     int           `short:"n" help:"Process at most this many URLs"`
	Timeout   time.Duration `default:"3m" help:"Deadline for one URL, extraction through write"`
	MaxTokens int           `name:"max-tokens" help:"Skip articles whose prompt exceeds this many tokens"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	ExtractionFlags `embed:""`

	URL string `arg:"" help:"Source article URL"`
}

// PendingCmd is the "pending" subcommand.
type PendingCmd struct {
	Summary bool `short:"s" help:"Print counts instead of URLs"`
}

// ReconcileCmd is the "reconcile" subcommand.
type ReconcileCmd struct{}

// RepairCmd is the "repair" subcommand.
type RepairCmd struct{}

// RunsCmd is the "runs" subcommand.
type RunsCmd struct {
	ID    string `arg:"" optional:"" help:"Show the attempts of this run"`
	Limit int    `short:"n" default:"10" help:"Number of runs to list"`
}
