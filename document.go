package rankmdx

import (
	"context"
	"strings"
)

// DateLayout is the layout of every date stored in frontmatter.
const DateLayout = "2006-01-02"

// ArticleDocument is the frontmatter of a published ranking article.
// Product order is ranking order.
type ArticleDocument struct {
	Title        string              `json:"title"`
	Slug         string              `json:"slug"`
	Date         string              `json:"date"`
	Category     string              `json:"category"`
	Image        string              `json:"image"`
	Excerpt      string              `json:"excerpt"`
	Introduction string              `json:"introduction"`
	SourceURL    string              `json:"sourceUrl"`
	Products     []*CanonicalProduct `json:"products"`
	FAQ          []FAQ               `json:"faq"`
	Conclusion   string              `json:"conclusion"`
	Comparativa  string              `json:"comparativa"`
}

// FAQ is a single question and answer pair.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Validate returns an error if the document cannot be published.
func (d *ArticleDocument) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return Errorf(EINVALID, "article title required")
	}
	if !IsValidSlug(d.Slug) {
		return Errorf(EINVALID, "article slug %q is invalid", d.Slug)
	}
	if len(d.Products) == 0 {
		return Errorf(EINVALID, "article %q has no products", d.Slug)
	}
	seen := make(map[string]bool, len(d.Products))
	for _, p := range d.Products {
		if p == nil {
			return Errorf(EINVALID, "article %q contains an empty product", d.Slug)
		}
		if err := p.Validate(); err != nil {
			return err
		}
		if seen[p.ID] {
			return Errorf(EINVALID, "article %q: duplicate product id %q", d.Slug, p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}

// ArticleStore persists assembled MDX documents by slug.
type ArticleStore interface {
	// List returns the slugs of all stored articles, sorted.
	List(ctx context.Context) ([]string, error)

	// Exists reports whether an article with slug is stored.
	Exists(ctx context.Context, slug string) (bool, error)

	// Read returns the MDX content of an article.
	// Returns ENOTFOUND if the article does not exist.
	Read(ctx context.Context, slug string) (string, error)

	// Write stores the MDX content of an article atomically,
	// replacing any previous content.
	Write(ctx context.Context, slug, content string) error
}

// SlugRegistry allocates corpus-wide unique slugs.
type SlugRegistry interface {
	// ClaimSlug claims slug for sourceURL. If sourceURL already holds a slug,
	// that slug is returned instead. Returns ECONFLICT if another URL holds slug.
	ClaimSlug(ctx context.Context, slug, sourceURL string) (string, error)

	// FindSlug returns the slug held by sourceURL.
	// Returns ENOTFOUND if sourceURL holds no slug.
	FindSlug(ctx context.Context, sourceURL string) (string, error)
}
