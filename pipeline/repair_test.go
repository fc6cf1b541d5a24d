package pipeline_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/rankmdx"
	"github.com/fwojciec/rankmdx/mdx"
	"github.com/fwojciec/rankmdx/pipeline"
	"github.com/fwojciec/rankmdx/synth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// legacyDocument is a stored article written before the defaulting rules
// existed: no brand, review, rating or offer validity.
const legacyDocument = `---json
{
  "title": "Los mejores robots aspiradores",
  "slug": "robots-aspiradores",
  "date": "2024-01-10",
  "category": "hogar",
  "image": "",
  "excerpt": "",
  "introduction": "Probamos cinco robots.",
  "sourceUrl": "https://www.xataka.com/robots",
  "products": [
    {
      "id": "",
      "position": 1,
      "asin": "B08R5S6D5Y",
      "name": "Roborock Q7",
      "image": {"url": "", "caption": ""},
      "affiliateLink": "",
      "price": {"display": "", "value": "299,99"},
      "description": "",
      "pros": ["Mapeo láser", "Silencioso"],
      "cons": [],
      "destacado": "Característica destacada"
    }
  ],
  "faq": [],
  "conclusion": "",
  "comparativa": ""
}
---

# Los mejores robots aspiradores
`

func TestRepair(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	t.Run("normalizes stale documents and reports broken ones", func(t *testing.T) {
		t.Parallel()

		store := newMemStore()
		store.docs["robots-aspiradores"] = legacyDocument
		store.docs["roto"] = "# sin frontmatter\n"

		result, err := pipeline.Repair(context.Background(), store.mock(), synth.NormalizeDocument, now)

		require.NoError(t, err)
		assert.Equal(t, 2, result.Checked)
		assert.Equal(t, []string{"robots-aspiradores"}, result.Updated)
		require.Len(t, result.Failed, 1)
		assert.Equal(t, "roto", result.Failed[0].Slug)
		assert.Equal(t, rankmdx.EINVALID, rankmdx.ErrorCode(result.Failed[0].Err))

		content, _ := store.get("robots-aspiradores")
		doc, _, err := mdx.Parse(content)
		require.NoError(t, err)
		p := doc.Products[0]
		assert.Equal(t, "B08R5S6D5Y", p.ID)
		assert.Equal(t, "299.99", p.Offers.Price)
		assert.Equal(t, "Mapeo láser", p.Destacado)
		assert.NotEmpty(t, p.Brand.Name)
		assert.True(t, rankmdx.HasAffiliateTag(p.AffiliateLink))
		assert.Equal(t, 1, strings.Count(p.AffiliateLink, rankmdx.AffiliateTag))

		broken, _ := store.get("roto")
		assert.Equal(t, "# sin frontmatter\n", broken)
	})

	t.Run("second pass changes nothing", func(t *testing.T) {
		t.Parallel()

		store := newMemStore()
		store.docs["robots-aspiradores"] = legacyDocument

		_, err := pipeline.Repair(context.Background(), store.mock(), synth.NormalizeDocument, now)
		require.NoError(t, err)
		first, _ := store.get("robots-aspiradores")

		result, err := pipeline.Repair(context.Background(), store.mock(), synth.NormalizeDocument, now)

		require.NoError(t, err)
		assert.Empty(t, result.Updated)
		second, _ := store.get("robots-aspiradores")
		assert.Equal(t, first, second)
	})

	t.Run("keeps an edited body while fixing the frontmatter", func(t *testing.T) {
		t.Parallel()

		edited := legacyDocument + "\nNota del editor: el Roborock Q7 bajó de precio en marzo.\n"
		store := newMemStore()
		store.docs["robots-aspiradores"] = edited

		result, err := pipeline.Repair(context.Background(), store.mock(), synth.NormalizeDocument, now)

		require.NoError(t, err)
		assert.Equal(t, []string{"robots-aspiradores"}, result.Updated)
		content, _ := store.get("robots-aspiradores")
		doc, body, err := mdx.Parse(content)
		require.NoError(t, err)
		assert.Equal(t, "# Los mejores robots aspiradores\n\nNota del editor: el Roborock Q7 bajó de precio en marzo.\n", body)
		assert.Equal(t, "299.99", doc.Products[0].Offers.Price)
	})

	t.Run("generates a body for a document without one", func(t *testing.T) {
		t.Parallel()

		bare := strings.TrimSuffix(legacyDocument, "\n# Los mejores robots aspiradores\n")
		store := newMemStore()
		store.docs["robots-aspiradores"] = bare

		_, err := pipeline.Repair(context.Background(), store.mock(), synth.NormalizeDocument, now)

		require.NoError(t, err)
		content, _ := store.get("robots-aspiradores")
		_, body, err := mdx.Parse(content)
		require.NoError(t, err)
		assert.Contains(t, body, "<RankingTable products={frontmatter.products} />")
		assert.Contains(t, body, "## 1. Roborock Q7")
	})

	t.Run("stops when canceled", func(t *testing.T) {
		t.Parallel()

		store := newMemStore()
		store.docs["robots-aspiradores"] = legacyDocument
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result, err := pipeline.Repair(ctx, store.mock(), synth.NormalizeDocument, now)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, result.Checked)
	})
}
