// Package synth merges the structuring stage's product list with the prices,
// links and images scraped from the source page into publishable
// frontmatter, and applies the defaulting rules every product must satisfy.
package synth

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fwojciec/rankmdx"
)

var _ rankmdx.Synthesizer = (*Synthesizer)(nil)

// excerptLength is the rune length of excerpts derived from the introduction.
const excerptLength = 160

// namePrefixLength is the number of leading runes of a product name used to
// match it against scraped anchor text.
const namePrefixLength = 15

// Synthesizer builds ArticleDocuments from model output and page data.
type Synthesizer struct {
	// Now returns the processing time.
	Now func() time.Time

	// Sanitizer strips markup from model text. Optional.
	Sanitizer rankmdx.Sanitizer
}

// NewSynthesizer returns a Synthesizer using the wall clock.
func NewSynthesizer(sanitizer rankmdx.Sanitizer) *Synthesizer {
	return &Synthesizer{Now: time.Now, Sanitizer: sanitizer}
}

// Synthesize merges structured output with the article it was derived from.
// Every product of the returned document satisfies CanonicalProduct.Validate.
func (s *Synthesizer) Synthesize(article *rankmdx.SourceArticle, st *rankmdx.Structured) (*rankmdx.ArticleDocument, error) {
	if article == nil || st == nil {
		return nil, rankmdx.Errorf(rankmdx.EINVALID, "article and structured output required")
	}

	title := s.clean(st.Title)
	if title == "" {
		title = strings.TrimSpace(article.Title)
	}
	if title == "" {
		return nil, rankmdx.Errorf(rankmdx.EINVALID, "article title required")
	}

	intro := s.clean(st.Introduction)
	excerpt := s.clean(st.Excerpt)
	if excerpt == "" {
		excerpt = strings.TrimSpace(article.Excerpt)
	}
	if excerpt == "" {
		excerpt = truncateRunes(intro, excerptLength)
	}

	hero := article.HeroImageURL
	if rankmdx.IsPlaceholderImage(hero) {
		hero = ""
	}

	doc := &rankmdx.ArticleDocument{
		Title:        title,
		Slug:         rankmdx.Slugify(title),
		Category:     rankmdx.NormalizeCategory(st.Category),
		Image:        hero,
		Excerpt:      excerpt,
		Introduction: intro,
		SourceURL:    article.SourceURL,
		Conclusion:   s.clean(st.Conclusion),
		Comparativa:  s.clean(st.Comparativa),
		FAQ:          []rankmdx.FAQ{},
	}
	for _, f := range st.FAQ {
		q, a := s.clean(f.Question), s.clean(f.Answer)
		if q == "" || a == "" {
			continue
		}
		doc.FAQ = append(doc.FAQ, rankmdx.FAQ{Question: q, Answer: a})
	}

	for _, c := range st.Products {
		if p := s.merge(c, article); p != nil {
			doc.Products = append(doc.Products, p)
		}
	}
	if len(doc.Products) == 0 {
		return nil, rankmdx.Errorf(rankmdx.EINVALID, "no usable products in %s", article.SourceURL)
	}

	NormalizeDocument(doc, s.now())
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// merge converts a candidate into a product, pulling price, ASIN and image
// from the first matching price candidate.
func (s *Synthesizer) merge(c rankmdx.CandidateProduct, article *rankmdx.SourceArticle) *rankmdx.CanonicalProduct {
	name := s.clean(c.Name)
	if name == "" {
		return nil
	}

	asin := rankmdx.NormalizeASIN(c.ASIN)
	match := MatchPrice(article, name, asin)

	p := &rankmdx.CanonicalProduct{
		ASIN:                     asin,
		Name:                     name,
		Description:              s.clean(c.Description),
		DetailedAnalysis:         s.clean(c.DetailedAnalysis),
		Pros:                     s.cleanAll(c.Pros),
		Cons:                     s.cleanAll(c.Cons),
		Destacado:                s.clean(c.Destacado),
		AdditionalSpecifications: s.cleanSpecs(c.Specifications),
		Brand:                    rankmdx.Brand{Name: s.clean(c.Brand)},
	}

	if !rankmdx.IsPlaceholderImage(c.Image) {
		p.Image.URL = c.Image
	}
	if match != nil {
		if p.ASIN == "" {
			p.ASIN = candidateASIN(article, match)
		}
		// Scraped images win over model suggestions.
		if !rankmdx.IsPlaceholderImage(match.ImageURL) {
			p.Image.URL = match.ImageURL
		}
		p.Price = rankmdx.Price{
			Display: rankmdx.DisplayPrice(match.PriceValue, match.Currency),
			Value:   match.PriceValue,
		}
		p.Offers.PriceCurrency = rankmdx.CurrencyCode(match.Currency)
	}
	return p
}

// MatchPrice returns the price candidate that belongs to a product: first by
// ASIN, then by the leading characters of the product name found in the
// candidate's label, text or anchor text. Returns nil when nothing matches.
func MatchPrice(article *rankmdx.SourceArticle, name, asin string) *rankmdx.PriceCandidate {
	if asin != "" {
		for i := range article.PriceCandidates {
			if candidateASIN(article, &article.PriceCandidates[i]) == asin {
				return &article.PriceCandidates[i]
			}
		}
	}

	prefix := strings.ToLower(strings.TrimSpace(truncateRunes(name, namePrefixLength)))
	if prefix == "" {
		return nil
	}
	for i := range article.PriceCandidates {
		c := &article.PriceCandidates[i]
		haystack := strings.ToLower(c.Label + " " + c.Text + " " + anchorText(article, c.Href))
		if strings.Contains(haystack, prefix) {
			return c
		}
	}
	return nil
}

func candidateASIN(article *rankmdx.SourceArticle, c *rankmdx.PriceCandidate) string {
	if c.ASIN != "" {
		return c.ASIN
	}
	if c.Href == "" {
		return ""
	}
	return rankmdx.ExtractASIN(article.ResolvedURL(c.Href))
}

func anchorText(article *rankmdx.SourceArticle, href string) string {
	if href == "" {
		return ""
	}
	for _, l := range article.ProductLinks {
		if l.OriginalURL == href {
			return l.Text
		}
	}
	return ""
}

func (s *Synthesizer) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *Synthesizer) clean(text string) string {
	if s.Sanitizer != nil {
		text = s.Sanitizer.Sanitize(text)
	}
	return strings.TrimSpace(text)
}

func (s *Synthesizer) cleanAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = s.clean(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (s *Synthesizer) cleanSpecs(specs rankmdx.Specifications) rankmdx.Specifications {
	var out rankmdx.Specifications
	for _, spec := range specs {
		label, value := s.clean(spec.Label), s.clean(spec.Value)
		if label == "" || value == "" {
			continue
		}
		out = append(out, rankmdx.Specification{Label: label, Value: value})
	}
	return out
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
