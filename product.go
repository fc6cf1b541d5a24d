package rankmdx

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Structured-data defaults applied to every product that lacks them.
const (
	SchemaInStock               = "https://schema.org/InStock"
	DefaultBrandName            = "Marca no especificada"
	DefaultReviewAuthor         = "Equipo editorial"
	DefaultReviewRating         = "4.5"
	DefaultBestRating           = "5"
	DefaultAggregateRatingValue = "4.0"
	DefaultAggregateReviewCount = "5"
)

// CanonicalProduct is a product as it appears in published frontmatter.
type CanonicalProduct struct {
	// ID is the product's list key: the ASIN when it is unique within the
	// article, otherwise a position-qualified key.
	ID       string `json:"id"`
	Position int    `json:"position"`
	ASIN     string `json:"asin,omitempty"`
	Name     string `json:"name"`

	Image         Image  `json:"image"`
	AffiliateLink string `json:"affiliateLink"`
	Price         Price  `json:"price"`

	Description      string   `json:"description"`
	DetailedAnalysis string   `json:"detailedAnalysis,omitempty"`
	Pros             []string `json:"pros"`
	Cons             []string `json:"cons"`
	Destacado        string   `json:"destacado"`

	AdditionalSpecifications Specifications `json:"additionalSpecifications,omitempty"`

	Brand           Brand           `json:"brand"`
	Offers          Offer           `json:"offers"`
	Review          Review          `json:"review"`
	AggregateRating AggregateRating `json:"aggregateRating"`
}

// Validate returns an error if the product is not publishable.
func (p *CanonicalProduct) Validate() error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return Errorf(EINVALID, "product name required")
	case p.ID == "":
		return Errorf(EINVALID, "product %q: id required", p.Name)
	case p.Image.URL == "":
		return Errorf(EINVALID, "product %q: image required", p.Name)
	case !HasAffiliateTag(p.AffiliateLink):
		return Errorf(EINVALID, "product %q: affiliate link must carry the affiliate tag once", p.Name)
	case p.Price.Value == "" || p.Offers.Price == "":
		return Errorf(EINVALID, "product %q: price required", p.Name)
	case p.Offers.PriceValidUntil == "":
		return Errorf(EINVALID, "product %q: offer validity required", p.Name)
	case p.Brand.Name == "":
		return Errorf(EINVALID, "product %q: brand required", p.Name)
	case p.Review.ReviewRating.RatingValue == "":
		return Errorf(EINVALID, "product %q: review required", p.Name)
	case p.AggregateRating.RatingValue == "":
		return Errorf(EINVALID, "product %q: aggregate rating required", p.Name)
	}
	return nil
}

// Image is a product image with its caption.
type Image struct {
	URL     string `json:"url"`
	Caption string `json:"caption"`
}

// Price holds the human-readable price and the numeric value it came from.
type Price struct {
	Display string `json:"display"`
	Value   string `json:"value"`
}

// Brand is a schema.org Brand.
type Brand struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

// UnmarshalJSON accepts a schema.org Brand object or a bare brand name.
// Any other shape decodes to an empty Brand so that defaulting applies.
func (b *Brand) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*b = Brand{}
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '"':
		var name string
		if err := json.Unmarshal(data, &name); err == nil {
			b.Name = strings.TrimSpace(name)
		}
	case '{':
		type brand Brand
		var v brand
		if err := json.Unmarshal(data, &v); err == nil {
			*b = Brand(v)
		}
	}
	return nil
}

// Offer is a schema.org Offer.
type Offer struct {
	Type            string `json:"@type"`
	Price           string `json:"price"`
	PriceCurrency   string `json:"priceCurrency"`
	Availability    string `json:"availability"`
	URL             string `json:"url"`
	PriceValidUntil string `json:"priceValidUntil"`
}

// Review is a schema.org Review.
type Review struct {
	Type          string `json:"@type"`
	Author        Person `json:"author"`
	DatePublished string `json:"datePublished"`
	ReviewRating  Rating `json:"reviewRating"`
	ReviewBody    string `json:"reviewBody"`
}

// Person is a schema.org Person.
type Person struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

// Rating is a schema.org Rating.
type Rating struct {
	Type        string `json:"@type"`
	RatingValue string `json:"ratingValue"`
	BestRating  string `json:"bestRating"`
}

// AggregateRating is a schema.org AggregateRating.
type AggregateRating struct {
	Type        string `json:"@type"`
	RatingValue string `json:"ratingValue"`
	ReviewCount string `json:"reviewCount"`
}
