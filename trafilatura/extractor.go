package trafilatura

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/fwojciec/rankmdx"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements rankmdx.ContentExtractor at compile time.
var _ rankmdx.ContentExtractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content and page metadata.
func (e *Extractor) Extract(rawHTML, pageURL string) (*rankmdx.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, rankmdx.Errorf(rankmdx.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
		IncludeImages:  true,
		IncludeLinks:   true,
	}
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		opts.OriginalURL = u
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, rankmdx.Errorf(rankmdx.EINVALID, "no main content found: %v", err)
	}
	if result == nil || result.ContentNode == nil {
		return nil, rankmdx.Errorf(rankmdx.EINVALID, "no main content found")
	}

	contentHTML, err := renderNode(result.ContentNode)
	if err != nil {
		return nil, err
	}

	return &rankmdx.ExtractResult{
		Title:       result.Metadata.Title,
		Excerpt:     result.Metadata.Description,
		Image:       result.Metadata.Image,
		PublishDate: result.Metadata.Date,
		ContentHTML: contentHTML,
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
