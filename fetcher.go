package rankmdx

import "context"

// Fetcher retrieves rendered HTML from URLs.
// Implementations may use browser automation to handle JavaScript-rendered
// product widgets, which many listing sites inject after load.
type Fetcher interface {
	// Fetch navigates to the URL, waits for the page to settle,
	// and returns the rendered HTML.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases browser resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}

// LinkResolver follows redirects of shortened merchant links.
type LinkResolver interface {
	// Resolve returns the final URL after following redirects.
	Resolve(ctx context.Context, url string) (string, error)
}

// DefaultUserAgent is the desktop browser identity sent by fetchers.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// AcceptLanguage is the language preference sent by fetchers.
const AcceptLanguage = "es-ES,es;q=0.9,en;q=0.6"
