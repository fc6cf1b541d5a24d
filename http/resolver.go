package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fwojciec/rankmdx"
)

// DefaultResolveTimeout bounds one short-link resolution.
const DefaultResolveTimeout = 10 * time.Second

// maxRedirects bounds the redirect chain of one short link.
const maxRedirects = 10

var _ rankmdx.LinkResolver = (*LinkResolver)(nil)

// LinkResolver follows redirects of shortened links to their final URL.
// It issues HEAD requests and falls back to GET when HEAD is not allowed.
type LinkResolver struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// ResolverOption configures a LinkResolver.
type ResolverOption func(*LinkResolver)

// WithResolveTimeout bounds one resolution, redirects included.
// Defaults to DefaultResolveTimeout.
func WithResolveTimeout(d time.Duration) ResolverOption {
	return func(r *LinkResolver) {
		r.timeout = d
	}
}

// WithResolverUserAgent sets the User-Agent header sent to shorteners.
func WithResolverUserAgent(ua string) ResolverOption {
	return func(r *LinkResolver) {
		r.userAgent = ua
	}
}

// NewLinkResolver creates a LinkResolver.
func NewLinkResolver(opts ...ResolverOption) *LinkResolver {
	r := &LinkResolver{
		timeout:   DefaultResolveTimeout,
		userAgent: rankmdx.DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.client = &http.Client{
		Timeout: r.timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return errors.New("too many redirects")
			}
			return nil
		},
	}
	return r
}

// Resolve returns the final URL reached from url.
func (r *LinkResolver) Resolve(ctx context.Context, url string) (string, error) {
	final, status, err := r.do(ctx, http.MethodHead, url)
	if err != nil {
		return "", err
	}
	if status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented {
		final, status, err = r.do(ctx, http.MethodGet, url)
		if err != nil {
			return "", err
		}
	}
	if status >= 400 && final == url {
		return "", rankmdx.Errorf(rankmdx.EUNAVAILABLE, "HTTP %d resolving %s", status, url)
	}
	return final, nil
}

// do sends one request and returns the URL of the last response in the
// redirect chain. Merchant pages often answer bots with 503 once the
// redirect has landed, so the landing URL counts even on error statuses.
func (r *LinkResolver) do(ctx context.Context, method, url string) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return "", 0, rankmdx.Errorf(rankmdx.EINVALID, "invalid URL %q: %v", url, err)
	}
	setBrowserHeaders(req, r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	return resp.Request.URL.String(), resp.StatusCode, nil
}
