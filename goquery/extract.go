package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/rankmdx"
)

// imageAttrs are checked in order; lazy-loading attributes hold the real
// source while src often holds a placeholder.
var imageAttrs = []string{"data-src", "data-lazy-src", "data-original", "src"}

// resolveURL resolves a relative URL against a base URL.
// Returns empty string if the href cannot be parsed.
// Fragments are stripped from the resolved URL for deduplication purposes.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	return resolved.String()
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}

// productHref returns the resolved href of sel if it points at the merchant
// or a known shortener.
func productHref(base *url.URL, sel *goquery.Selection) (string, bool) {
	href, exists := sel.Attr("href")
	if !exists || href == "" || isNonHTTPLink(href) {
		return "", false
	}
	resolved := resolveURL(base, href)
	if resolved == "" {
		return "", false
	}
	if !rankmdx.IsMerchantURL(resolved) && !rankmdx.IsShortLink(resolved) {
		return "", false
	}
	return resolved, true
}

// imageURL returns the first non-placeholder image source within sel,
// including sel itself.
func imageURL(base *url.URL, sel *goquery.Selection) string {
	var found string
	sel.Find("img").AddSelection(sel.Filter("img")).EachWithBreak(func(_ int, img *goquery.Selection) bool {
		for _, attr := range imageAttrs {
			src, ok := img.Attr(attr)
			if !ok || strings.TrimSpace(src) == "" {
				continue
			}
			if rankmdx.IsPlaceholderImage(src) {
				continue
			}
			found = resolveURL(base, src)
			return false
		}
		return true
	})
	return found
}

// text returns the whitespace-collapsed text of sel.
func text(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.Text()), " ")
}
