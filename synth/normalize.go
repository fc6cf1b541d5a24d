package synth

import (
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/rankmdx"
)

// maxDestacadoLength caps the highlight phrase in runes.
const maxDestacadoLength = 60

// placeholderDestacados are highlight values models emit when they have
// nothing specific to say.
var placeholderDestacados = map[string]bool{
	"":                         true,
	"-":                        true,
	"...":                      true,
	"…":                        true,
	"n/a":                      true,
	"tbd":                      true,
	"destacado":                true,
	"por definir":              true,
	"característica destacada": true,
	"caracteristica destacada": true,
}

// genericDestacados are picked deterministically when a product offers
// nothing to build a highlight from.
var genericDestacados = []string{
	"Buena relación calidad-precio",
	"Opción muy equilibrada",
	"Fácil de usar",
	"Diseño práctico",
	"Valoraciones muy positivas",
	"Gran versatilidad",
}

// NormalizeDocument applies every defaulting rule to doc in place. Running it
// twice with the same clock produces the same document.
func NormalizeDocument(doc *rankmdx.ArticleDocument, now time.Time) {
	if doc.Slug == "" {
		doc.Slug = rankmdx.Slugify(doc.Title)
	}
	if doc.Date == "" {
		doc.Date = now.Format(rankmdx.DateLayout)
	}
	doc.Category = rankmdx.NormalizeCategory(doc.Category)
	if doc.Excerpt == "" {
		doc.Excerpt = truncateRunes(doc.Introduction, excerptLength)
	}
	if doc.FAQ == nil {
		doc.FAQ = []rankmdx.FAQ{}
	}

	hero := doc.Image
	if rankmdx.IsPlaceholderImage(hero) {
		hero = ""
	}

	products := doc.Products[:0]
	for _, p := range doc.Products {
		if p != nil {
			products = append(products, p)
		}
	}
	doc.Products = products

	for i, p := range doc.Products {
		p.Position = i + 1
		NormalizeProduct(p, hero, now)
	}
	assignIDs(doc.Products)

	if hero == "" {
		hero = rankmdx.DefaultProductImage
		if len(doc.Products) > 0 {
			hero = doc.Products[0].Image.URL
		}
	}
	doc.Image = hero
}

// NormalizeProduct fills every missing or invalid field of p. Values that
// are already valid are left untouched, so the rules are idempotent.
// fallbackImage is used when p has no usable image.
func NormalizeProduct(p *rankmdx.CanonicalProduct, fallbackImage string, now time.Time) {
	today := now.Format(rankmdx.DateLayout)

	p.Name = strings.TrimSpace(p.Name)
	p.ASIN = rankmdx.NormalizeASIN(p.ASIN)
	if p.Pros == nil {
		p.Pros = []string{}
	}
	if p.Cons == nil {
		p.Cons = []string{}
	}

	if rankmdx.IsPlaceholderImage(p.Image.URL) {
		p.Image.URL = fallbackImage
		if rankmdx.IsPlaceholderImage(p.Image.URL) {
			p.Image.URL = rankmdx.DefaultProductImage
		}
	}
	if p.Image.Caption == "" {
		p.Image.Caption = p.Name
	}

	if !rankmdx.HasAffiliateTag(p.AffiliateLink) ||
		(p.ASIN != "" && !strings.Contains(p.AffiliateLink, "/dp/"+p.ASIN)) {
		p.AffiliateLink = rankmdx.AffiliateLink(p.ASIN, p.Name)
	}

	normalizePrice(p)
	normalizeOffer(p, now)

	p.Brand.Type = "Brand"
	if strings.TrimSpace(p.Brand.Name) == "" {
		p.Brand.Name = rankmdx.DefaultBrandName
	}

	normalizeReview(p, today)

	p.AggregateRating.Type = "AggregateRating"
	if p.AggregateRating.RatingValue == "" {
		p.AggregateRating.RatingValue = rankmdx.DefaultAggregateRatingValue
	}
	if p.AggregateRating.ReviewCount == "" {
		p.AggregateRating.ReviewCount = rankmdx.DefaultAggregateReviewCount
	}

	if IsPlaceholderDestacado(p.Destacado) {
		p.Destacado = Destacado(p)
	}
}

func normalizePrice(p *rankmdx.CanonicalProduct) {
	if _, ok := rankmdx.SchemaPrice(p.Price.Value); !ok {
		p.Price.Value = "0"
	}
	if p.Price.Display == "" {
		if p.Price.Value == "0" {
			p.Price.Display = rankmdx.PriceOnRequest
		} else {
			p.Price.Display = rankmdx.DisplayPrice(p.Price.Value, currencySymbol(p.Offers.PriceCurrency))
		}
	}
}

func normalizeOffer(p *rankmdx.CanonicalProduct, now time.Time) {
	o := &p.Offers
	o.Type = "Offer"
	if v, ok := rankmdx.SchemaPrice(p.Price.Value); ok {
		o.Price = v
	} else if v, ok := rankmdx.SchemaPrice(o.Price); ok {
		o.Price = v
	} else {
		o.Price = "0"
	}
	o.PriceCurrency = rankmdx.CurrencyCode(o.PriceCurrency)
	if o.Availability == "" {
		o.Availability = rankmdx.SchemaInStock
	}
	o.URL = p.AffiliateLink

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	limit := today.AddDate(1, 0, 0)
	until, err := time.ParseInLocation(rankmdx.DateLayout, o.PriceValidUntil, now.Location())
	if err != nil || !until.After(today) || until.After(limit) {
		o.PriceValidUntil = limit.Format(rankmdx.DateLayout)
	}
}

func normalizeReview(p *rankmdx.CanonicalProduct, today string) {
	r := &p.Review
	r.Type = "Review"
	r.Author.Type = "Person"
	if r.Author.Name == "" {
		r.Author.Name = rankmdx.DefaultReviewAuthor
	}
	if r.DatePublished == "" {
		r.DatePublished = today
	}
	r.ReviewRating.Type = "Rating"
	if r.ReviewRating.RatingValue == "" {
		r.ReviewRating.RatingValue = rankmdx.DefaultReviewRating
	}
	if r.ReviewRating.BestRating == "" {
		r.ReviewRating.BestRating = rankmdx.DefaultBestRating
	}
	if r.ReviewBody == "" {
		r.ReviewBody = p.Description
	}
	if r.ReviewBody == "" {
		r.ReviewBody = "Análisis de " + p.Name + "."
	}
}

// IsPlaceholderDestacado reports whether s is empty or a generic placeholder.
func IsPlaceholderDestacado(s string) bool {
	return placeholderDestacados[strings.ToLower(strings.TrimSpace(s))]
}

// Destacado derives a highlight phrase from the product's own data: its first
// pro, its first specification, the second word of its name, the first two
// words of its description, or a generic phrase chosen by hashing its ASIN.
func Destacado(p *rankmdx.CanonicalProduct) string {
	for _, pro := range p.Pros {
		if pro = strings.TrimSpace(pro); pro != "" {
			return truncateRunes(pro, maxDestacadoLength)
		}
	}
	if spec, ok := p.AdditionalSpecifications.First(); ok {
		return truncateRunes(spec.Label+": "+spec.Value, maxDestacadoLength)
	}
	if words := strings.Fields(p.Name); len(words) >= 2 {
		return truncateRunes(words[1], maxDestacadoLength)
	}
	if words := strings.Fields(p.Description); len(words) >= 2 {
		return truncateRunes(words[0]+" "+words[1], maxDestacadoLength)
	}
	key := p.ASIN
	if key == "" {
		key = p.Name
	}
	return genericDestacados[xxhash.Sum64String(key)%uint64(len(genericDestacados))]
}

// assignIDs gives every product a list key unique within the article. The
// first product with a given ASIN is keyed by it; later duplicates and
// products without an ASIN are keyed by position.
func assignIDs(products []*rankmdx.CanonicalProduct) {
	seen := make(map[string]bool, len(products))
	for _, p := range products {
		pos := strconv.Itoa(p.Position)
		switch {
		case p.ASIN == "":
			p.ID = "producto-" + pos
		case seen[p.ASIN]:
			p.ID = p.ASIN + "-" + pos
		default:
			p.ID = p.ASIN
		}
		seen[p.ASIN] = true
	}
}

func currencySymbol(code string) string {
	switch rankmdx.CurrencyCode(code) {
	case "USD":
		return "$"
	case "GBP":
		return "£"
	default:
		return "€"
	}
}
