package rankmdx

import "context"

// CandidateProduct is a product as proposed by the structuring stage.
// It is never persisted; the synthesizer merges it into a CanonicalProduct.
type CandidateProduct struct {
	Name             string         `json:"name"`
	Description      string         `json:"description"`
	DetailedAnalysis string         `json:"detailedAnalysis"`
	Pros             []string       `json:"pros"`
	Cons             []string       `json:"cons"`
	Specifications   Specifications `json:"specifications"`
	Destacado        string         `json:"destacado"`
	ASIN             string         `json:"asin"`
	Brand            string         `json:"brand"`
	Image            string         `json:"image"`
}

// Structured is the validated output of the structuring stage.
type Structured struct {
	Title        string             `json:"title"`
	Excerpt      string             `json:"excerpt"`
	Introduction string             `json:"introduction"`
	Conclusion   string             `json:"conclusion"`
	Category     string             `json:"category"`
	Comparativa  string             `json:"comparativa"`
	FAQ          []FAQ              `json:"faq"`
	Products     []CandidateProduct `json:"products"`
}

// Structurer converts a cleaned article into a ranked product list.
type Structurer interface {
	// Structure returns the model's reading of the article. Malformed model
	// output yields a Structured with no products rather than an error.
	Structure(ctx context.Context, article *SourceArticle) (*Structured, error)
}

// Sanitizer strips markup that must never reach a published document.
type Sanitizer interface {
	Sanitize(text string) string
}

// Synthesizer merges structured output with the article it was derived from
// into publishable frontmatter.
type Synthesizer interface {
	Synthesize(article *SourceArticle, st *Structured) (*ArticleDocument, error)
}
