package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/rankmdx"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements rankmdx.ContentExtractor at compile time.
var _ rankmdx.ContentExtractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
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

	var u *url.URL
	if parsed, err := url.Parse(pageURL); err == nil && parsed.Host != "" {
		u = parsed
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), u)
	if err != nil {
		return nil, rankmdx.Errorf(rankmdx.EINVALID, "no main content found: %v", err)
	}
	if strings.TrimSpace(article.Content) == "" {
		return nil, rankmdx.Errorf(rankmdx.EINVALID, "no main content found")
	}

	result := &rankmdx.ExtractResult{
		Title:       article.Title,
		Excerpt:     article.Excerpt,
		Image:       article.Image,
		ContentHTML: article.Content,
	}
	if article.PublishedTime != nil {
		result.PublishDate = *article.PublishedTime
	}
	return result, nil
}
