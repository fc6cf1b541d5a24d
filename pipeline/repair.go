package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/rankmdx"
	"github.com/fwojciec/rankmdx/mdx"
)

// NormalizeFunc applies defaulting rules to a stored document in place.
type NormalizeFunc func(doc *rankmdx.ArticleDocument, now time.Time)

// RepairResult reports what Repair did.
type RepairResult struct {
	Checked int
	Updated []string
	Failed  []RepairFailure
}

// RepairFailure is a stored document Repair could not handle.
type RepairFailure struct {
	Slug string
	Err  error
}

// Repair re-normalizes the frontmatter of every stored document and rewrites
// those whose content changed. The stored body is kept as written; only a
// document with no body gets a generated one. Documents that cannot be parsed or assembled
// are reported in the result and left untouched. Running Repair twice
// with the same now writes nothing the second time.
func Repair(ctx context.Context, store rankmdx.ArticleStore, normalize NormalizeFunc, now time.Time) (*RepairResult, error) {
	slugs, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}

	result := &RepairResult{}
	for _, slug := range slugs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Checked++

		changed, err := repairOne(ctx, store, slug, normalize, now)
		if err != nil {
			result.Failed = append(result.Failed, RepairFailure{Slug: slug, Err: err})
			continue
		}
		if changed {
			result.Updated = append(result.Updated, slug)
		}
	}
	return result, nil
}

func repairOne(ctx context.Context, store rankmdx.ArticleStore, slug string, normalize NormalizeFunc, now time.Time) (bool, error) {
	content, err := store.Read(ctx, slug)
	if err != nil {
		return false, err
	}

	doc, body, err := mdx.Parse(content)
	if err != nil {
		return false, err
	}
	if doc.Slug == "" {
		doc.Slug = slug
	}
	normalize(doc, now)

	repaired, err := mdx.AssembleWithBody(doc, body)
	if err != nil {
		return false, err
	}
	if ComputeHash(repaired) == ComputeHash(content) {
		return false, nil
	}
	if err := store.Write(ctx, slug, repaired); err != nil {
		return false, err
	}
	return true, nil
}
