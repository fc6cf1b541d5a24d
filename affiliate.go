package rankmdx

import (
	"net/url"
	"regexp"
	"strings"
)

// AffiliateTag is the associate tag carried by every generated merchant link.
const AffiliateTag = "rankmdx-21"

// MerchantHost is the storefront affiliate links point to.
const MerchantHost = "www.amazon.es"

// shortenerHosts are link shorteners that redirect to the merchant.
var shortenerHosts = map[string]bool{
	"amzn.to":   true,
	"amzn.eu":   true,
	"amzn.asia": true,
	"a.co":      true,
}

// asinPathPatterns are tried in order; the first match wins.
var asinPathPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/dp/([A-Z0-9]{10})(?:[/?]|$)`),
	regexp.MustCompile(`/gp/product/([A-Z0-9]{10})(?:[/?]|$)`),
	regexp.MustCompile(`/gp/aw/d/([A-Z0-9]{10})(?:[/?]|$)`),
	regexp.MustCompile(`/exec/obidos/ASIN/([A-Z0-9]{10})(?:[/?]|$)`),
	regexp.MustCompile(`/o/ASIN/([A-Z0-9]{10})(?:[/?]|$)`),
}

// asinQueryParams are checked after the path patterns, in order.
var asinQueryParams = []string{"asin", "ASIN", "ASIN.1"}

var asinPattern = regexp.MustCompile(`^[A-Z0-9]{10}$`)

// IsASIN reports whether s is a well-formed ASIN.
func IsASIN(s string) bool {
	return asinPattern.MatchString(s)
}

// NormalizeASIN upper-cases and trims s, returning "" if the result is
// not a well-formed ASIN.
func NormalizeASIN(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if !IsASIN(s) {
		return ""
	}
	return s
}

// IsMerchantURL reports whether rawURL points at a merchant storefront.
func IsMerchantURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, prefix := range []string{"www.", "smile.", "m."} {
		host = strings.TrimPrefix(host, prefix)
	}
	return strings.HasPrefix(host, "amazon.")
}

// IsShortLink reports whether rawURL uses a known merchant link shortener.
func IsShortLink(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return shortenerHosts[strings.ToLower(u.Hostname())]
}

// ExtractASIN returns the ASIN embedded in a merchant URL, or "".
// Path patterns take precedence over query parameters.
func ExtractASIN(rawURL string) string {
	if !IsMerchantURL(rawURL) {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	for _, re := range asinPathPatterns {
		if m := re.FindStringSubmatch(u.EscapedPath()); m != nil {
			return m[1]
		}
	}
	q := u.Query()
	for _, name := range asinQueryParams {
		if asin := NormalizeASIN(q.Get(name)); asin != "" {
			return asin
		}
	}
	return ""
}

// AffiliateLink builds the canonical merchant link for a product.
// Without an ASIN it falls back to a merchant search for the product name.
func AffiliateLink(asin, name string) string {
	if asin != "" {
		return "https://" + MerchantHost + "/dp/" + asin + "?tag=" + AffiliateTag
	}
	q := url.Values{}
	q.Set("k", strings.TrimSpace(name))
	q.Set("tag", AffiliateTag)
	return "https://" + MerchantHost + "/s?" + q.Encode()
}

// HasAffiliateTag reports whether link carries the affiliate tag exactly once.
func HasAffiliateTag(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	tags := u.Query()["tag"]
	return len(tags) == 1 && tags[0] == AffiliateTag &&
		strings.Count(link, "tag="+AffiliateTag) == 1
}
