package rankmdx

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"
)

// MinBodyLength is the minimum number of characters a cleaned article body
// must have before it is worth sending to the structuring stage.
const MinBodyLength = 200

// SourceArticle is the cleaned representation of one source page.
// It is created once per extraction attempt and not modified afterwards.
type SourceArticle struct {
	Title           string           `json:"title"`
	BodyMarkdown    string           `json:"bodyMarkdown"`
	Excerpt         string           `json:"excerpt,omitempty"`
	HeroImageURL    string           `json:"heroImageUrl,omitempty"`
	SourceURL       string           `json:"sourceUrl"`
	PublishDate     time.Time        `json:"publishDate,omitzero"`
	ProductLinks    []ProductLink    `json:"rawProductLinks"`
	PriceCandidates []PriceCandidate `json:"rawPriceCandidates"`
}

// Validate returns an error if the article is unusable.
func (a *SourceArticle) Validate() error {
	if a.SourceURL == "" {
		return Errorf(EINVALID, "article source URL required")
	}
	n := utf8.RuneCountInString(strings.TrimSpace(a.BodyMarkdown))
	if n < MinBodyLength {
		return Errorf(EINVALID, "article body too short: %d characters, need at least %d", n, MinBodyLength)
	}
	return nil
}

// ResolvedURL returns the resolved form of href when it is one of the
// article's product links, and href itself otherwise.
func (a *SourceArticle) ResolvedURL(href string) string {
	for _, l := range a.ProductLinks {
		if l.OriginalURL == href && l.ResolvedURL != "" {
			return l.ResolvedURL
		}
	}
	return href
}

// ProductLink is a merchant or short link found on the source page.
type ProductLink struct {
	OriginalURL string `json:"originalUrl"`
	ResolvedURL string `json:"resolvedUrl"`
	Text        string `json:"text,omitempty"`
}

// Extraction sources recorded on a PriceCandidate.
const (
	SourceSiteRule   = "site-rule"
	SourcePriceClass = "price-class"
	SourceAnchorText = "anchor-text"
)

// PriceCandidate is a price scraped from the page together with the link
// and image found next to it.
type PriceCandidate struct {
	// Text is the raw price text as it appears on the page.
	Text string `json:"text"`

	// Label is the text of the surrounding item or anchor, used to match
	// the candidate to a product by name.
	Label string `json:"label,omitempty"`

	// PriceValue is the numeric part of the price, decimal comma preserved.
	PriceValue string `json:"priceValue"`

	// Currency is the currency symbol, e.g. "€".
	Currency string `json:"currency"`

	Href             string `json:"href,omitempty"`
	ASIN             string `json:"asin,omitempty"`
	ImageURL         string `json:"imageUrl,omitempty"`
	ExtractionSource string `json:"extractionSource"`
}

// ScanResult holds the merchant links and price candidates found in a page.
type ScanResult struct {
	Links  []ProductLink
	Prices []PriceCandidate
}

// ProductScanner finds merchant links and prices in rendered HTML.
type ProductScanner interface {
	Scan(html, pageURL string) (*ScanResult, error)
}

// ArticleExtractor turns a source URL into a SourceArticle.
type ArticleExtractor interface {
	// ExtractArticle fetches, cleans and scans the page at url.
	// Returns EINVALID when no usable content is found.
	ExtractArticle(ctx context.Context, url string) (*SourceArticle, error)
}
