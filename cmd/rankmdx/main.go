package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/rankmdx"
	"github.com/fwojciec/rankmdx/bluemonday"
	"github.com/fwojciec/rankmdx/fs"
	"github.com/fwojciec/rankmdx/gemini"
	"github.com/fwojciec/rankmdx/goquery"
	"github.com/fwojciec/rankmdx/htmltomarkdown"
	rankmdxhttp "github.com/fwojciec/rankmdx/http"
	"github.com/fwojciec/rankmdx/pipeline"
	"github.com/fwojciec/rankmdx/readability"
	"github.com/fwojciec/rankmdx/rod"
	rankslog "github.com/fwojciec/rankmdx/slog"
	"github.com/fwojciec/rankmdx/sqlite"
	"github.com/fwojciec/rankmdx/synth"
	"github.com/fwojciec/rankmdx/trafilatura"
	"github.com/joho/godotenv"
	"google.golang.org/genai"
)

func main() {
	// A missing .env file is fine; the environment may be set directly.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database used by the slug registry and run log.
	DB *sqlite.DB

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{Now: time.Now}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var first error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	m.closers = nil
	if m.DB != nil {
		if err := m.DB.Close(); err != nil && first == nil {
			first = err
		}
		m.DB = nil
	}
	return first
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Now:    m.Now,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("rankmdx"),
		kong.Description("Turn product-listing articles into affiliate ranking articles"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'rankmdx --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	var level slog.Level
	if err := level.UnmarshalText([]byte(cli.LogLevel)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", cli.LogLevel, err)
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Ledger = fs.NewLedger(cli.Ledger, cli.Sources, deps.Logger)
	deps.Store = fs.NewCorpus(cli.ContentDir)
	defer m.Close()

	switch cmd {
	case "generate":
		if cli.Generate.APIKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return fmt.Errorf("GEMINI_API_KEY not set")
		}
		if err := m.openDB(cli.DB, stderr); err != nil {
			return err
		}
		deps.Runs = sqlite.NewRunService(m.DB)

		extractor, err := m.newArticleExtractor(cli.Generate.ExtractionFlags, deps.Logger, stderr)
		if err != nil {
			return err
		}
		deps.Pipeline, err = m.newPipeline(ctx, &cli.Generate, extractor, deps, stderr)
		if err != nil {
			return err
		}
	case "extract":
		extractor, err := m.newArticleExtractor(cli.Extract.ExtractionFlags, deps.Logger, stderr)
		if err != nil {
			return err
		}
		deps.Extractor = extractor
	case "runs":
		if err := m.openDB(cli.DB, stderr); err != nil {
			return err
		}
		deps.Runs = sqlite.NewRunService(m.DB)
	}

	return kongCtx.Run(deps)
}

func (m *Main) openDB(path string, stderr io.Writer) error {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	m.DB = sqlite.NewDB(path)
	if err := m.DB.Open(); err != nil {
		m.DB = nil
		fmt.Fprintf(stderr, "Hint: Set RANKMDX_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	return nil
}

// newArticleExtractor wires the fetcher, extractor, converter, scanner and
// resolver selected by flags.
func (m *Main) newArticleExtractor(flags ExtractionFlags, logger *slog.Logger, stderr io.Writer) (*pipeline.ArticleExtractor, error) {
	registry := goquery.DefaultRegistry()
	if flags.Sites != "" {
		f, err := os.Open(flags.Sites)
		if err != nil {
			return nil, fmt.Errorf("failed to open site rules: %w", err)
		}
		rules, err := goquery.LoadSiteRules(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to load site rules from %q: %s", flags.Sites, rankmdx.ErrorMessage(err))
		}
		for _, rule := range rules {
			registry.Register(rule)
		}
	}

	var fetcher rankmdx.Fetcher
	switch flags.Fetcher {
	case "http":
		fetcher = rankmdxhttp.NewFetcher(rankmdxhttp.WithTimeout(flags.FetchTimeout))
	default:
		opts := []rod.Option{rod.WithFetchTimeout(flags.FetchTimeout)}
		if flags.BrowserBin != "" {
			opts = append(opts, rod.WithManagerOptions(rod.WithBrowserBin(flags.BrowserBin)))
		}
		f, err := rod.NewFetcher(opts...)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed, or use --fetcher=http")
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		fetcher = f
	}
	m.closers = append(m.closers, fetcher)

	var extractor rankmdx.ContentExtractor
	switch flags.Extractor {
	case "readability":
		extractor = readability.NewExtractor()
	default:
		extractor = trafilatura.NewExtractor()
	}

	return &pipeline.ArticleExtractor{
		Fetcher:     rankslog.NewLoggingFetcher(fetcher, logger),
		Extractor:   extractor,
		Converter:   htmltomarkdown.NewConverter(),
		Scanner:     goquery.NewScanner(registry),
		Resolver:    rankslog.NewLoggingLinkResolver(rankmdxhttp.NewLinkResolver(), logger),
		RateLimiter: pipeline.NewDomainLimiter(pipeline.DefaultRequestsPerSecond),
		Logger:      logger,
	}, nil
}

func (m *Main) newPipeline(ctx context.Context, c *GenerateCmd, extractor rankmdx.ArticleExtractor, deps *Dependencies, stderr io.Writer) (*pipeline.Pipeline, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  c.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
		return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}

	p := &pipeline.Pipeline{
		Ledger:      deps.Ledger,
		Extractor:   extractor,
		Structurer:  rankslog.NewLoggingStructurer(gemini.NewStructurer(client, c.Model, deps.Logger), deps.Logger),
		Synthesizer: synth.NewSynthesizer(bluemonday.NewSanitizer()),
		Store:       deps.Store,
		Slugs:       sqlite.NewSlugRegistry(m.DB),
		Runs:        deps.Runs,
		Logger:      deps.Logger,
		PromptText:  gemini.Prompt,
		Now:         m.Now,
	}

	// The local tokenizer only knows some models; counting is optional.
	if counter, err := gemini.NewTokenCounter(c.Model); err != nil {
		deps.Logger.Warn("token counting disabled", "model", c.Model, "err", err)
	} else {
		p.TokenCounter = counter
	}

	return p, nil
}
