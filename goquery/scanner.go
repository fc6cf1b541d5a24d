package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/rankmdx"
)

var _ rankmdx.ProductScanner = (*Scanner)(nil)

// containerSelector finds the element grouping a price with its product.
const containerSelector = "li, tr, article, section, figure, .product, [class*=product], div"

// labelSelector finds a product name inside a container.
const labelSelector = "h2, h3, h4, h5, strong, b, [class*=title], [class*=name]"

// Scanner finds merchant links and price candidates in rendered HTML.
// Sites with a registered rule use its fixed selectors; every other site
// goes through generic heuristics.
type Scanner struct {
	registry *Registry
}

// NewScanner creates a Scanner. A nil registry uses the built-in rules.
func NewScanner(registry *Registry) *Scanner {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Scanner{registry: registry}
}

// Scan returns the product links and price candidates of the page.
func (s *Scanner) Scan(html, pageURL string) (*rankmdx.ScanResult, error) {
	base, err := url.Parse(pageURL)
	if err != nil || base.Host == "" {
		return nil, rankmdx.Errorf(rankmdx.EINVALID, "invalid page URL: %q", pageURL)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, rankmdx.Errorf(rankmdx.EINVALID, "failed to parse HTML: %v", err)
	}

	result := &rankmdx.ScanResult{Links: scanLinks(doc, base)}

	if rule, ok := s.registry.Get(base.Host); ok {
		result.Prices = scanRule(doc, base, rule)
	} else {
		result.Prices = scanGeneric(doc, base)
	}
	return result, nil
}

// scanLinks returns merchant and shortener anchors in document order,
// deduplicated by URL.
func scanLinks(doc *goquery.Document, base *url.URL) []rankmdx.ProductLink {
	seen := make(map[string]bool)
	var links []rankmdx.ProductLink

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := productHref(base, sel)
		if !ok || seen[href] {
			return
		}
		seen[href] = true
		links = append(links, rankmdx.ProductLink{
			OriginalURL: href,
			ResolvedURL: href,
			Text:        linkText(sel),
		})
	})
	return links
}

func scanRule(doc *goquery.Document, base *url.URL, rule SiteRule) []rankmdx.PriceCandidate {
	var prices []rankmdx.PriceCandidate

	doc.Find(rule.Item).Each(func(_ int, item *goquery.Selection) {
		raw := text(item.Find(rule.Price).First())
		value, currency, ok := rankmdx.ParsePrice(raw)
		if !ok {
			return
		}
		c := rankmdx.PriceCandidate{
			Text:             raw,
			PriceValue:       value,
			Currency:         currency,
			ExtractionSource: rankmdx.SourceSiteRule,
		}
		if rule.Label != "" {
			c.Label = text(item.Find(rule.Label).First())
		}
		if rule.Image != "" {
			c.ImageURL = imageURL(base, item.Find(rule.Image))
		}
		if rule.Link != "" {
			item.Find(rule.Link).EachWithBreak(func(_ int, a *goquery.Selection) bool {
				href, ok := productHref(base, a)
				if ok {
					c.Href = href
				}
				return !ok
			})
		}
		c.ASIN = rankmdx.ExtractASIN(c.Href)
		prices = append(prices, c)
	})
	return prices
}

// scanGeneric runs the two fallback heuristics: elements whose class names
// a price, then merchant anchors whose own text is a price.
func scanGeneric(doc *goquery.Document, base *url.URL) []rankmdx.PriceCandidate {
	var prices []rankmdx.PriceCandidate
	seen := make(map[string]bool)
	add := func(c rankmdx.PriceCandidate) {
		key := c.PriceValue + "|" + c.Href + "|" + c.Label
		if seen[key] {
			return
		}
		seen[key] = true
		prices = append(prices, c)
	}

	doc.Find("[class*=price]").Each(func(_ int, sel *goquery.Selection) {
		// Nested price elements repeat their parent's text.
		if sel.ParentsFiltered("[class*=price]").Length() > 0 {
			return
		}
		raw := text(sel)
		value, currency, ok := rankmdx.ParsePrice(raw)
		if !ok {
			return
		}
		c := rankmdx.PriceCandidate{
			Text:             raw,
			PriceValue:       value,
			Currency:         currency,
			ExtractionSource: rankmdx.SourcePriceClass,
		}
		fillFromContainer(&c, base, sel)
		add(c)
	})

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := productHref(base, sel)
		if !ok {
			return
		}
		raw := text(sel)
		value, currency, ok := rankmdx.ParsePrice(raw)
		if !ok {
			return
		}
		c := rankmdx.PriceCandidate{
			Text:             raw,
			PriceValue:       value,
			Currency:         currency,
			Href:             href,
			ASIN:             rankmdx.ExtractASIN(href),
			ExtractionSource: rankmdx.SourceAnchorText,
		}
		fillFromContainer(&c, base, sel)
		if c.Label == "" {
			c.Label = linkText(sel)
		}
		add(c)
	})

	return prices
}

// fillFromContainer completes c with the label, link and image found in the
// nearest enclosing container of sel.
func fillFromContainer(c *rankmdx.PriceCandidate, base *url.URL, sel *goquery.Selection) {
	container := sel.ParentsFiltered(containerSelector).First()
	if container.Length() == 0 {
		return
	}

	if label := text(container.Find(labelSelector).First()); label != "" && label != c.Text {
		c.Label = label
	}
	if c.Href == "" {
		container.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			href, ok := productHref(base, a)
			if ok {
				c.Href = href
				c.ASIN = rankmdx.ExtractASIN(href)
			}
			return !ok
		})
	}
	c.ImageURL = imageURL(base, container)
}

// linkText returns the anchor's text, falling back to its title attribute
// or the alt text of an image inside it.
func linkText(sel *goquery.Selection) string {
	if t := text(sel); t != "" {
		return t
	}
	if t, ok := sel.Attr("title"); ok && strings.TrimSpace(t) != "" {
		return strings.TrimSpace(t)
	}
	alt, _ := sel.Find("img").First().Attr("alt")
	return strings.TrimSpace(alt)
}
