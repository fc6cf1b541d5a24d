package gemini_test

import (
	"context"
	"testing"

	"github.com/fwojciec/rankmdx"
	"github.com/fwojciec/rankmdx/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestStructurer_Structure_RejectsEmptyArticle(t *testing.T) {
	t.Parallel()

	s := gemini.NewStructurer(nil, "", nil) // nil client ok for this test

	_, err := s.Structure(context.Background(), &rankmdx.SourceArticle{SourceURL: "https://a.com"})

	require.Error(t, err)
	assert.Equal(t, rankmdx.EINVALID, rankmdx.ErrorCode(err))

	_, err = s.Structure(context.Background(), nil)
	assert.Equal(t, rankmdx.EINVALID, rankmdx.ErrorCode(err))
}

func TestParseResponse(t *testing.T) {
	t.Parallel()

	t.Run("decodes a well-formed response", func(t *testing.T) {
		t.Parallel()

		text := `{
			"title": "Las 3 mejores freidoras",
			"introduction": "Intro",
			"products": [
				{"name": "Cosori Pro", "description": "d", "pros": ["Gran capacidad"], "cons": ["Ruidosa"],
				 "specifications": [{"name": "Capacidad", "value": "5,5 L"}], "asin": "b0abcdefgh"}
			],
			"faq": [{"question": "¿Cuál?", "answer": "La Cosori."}],
			"conclusion": "Fin",
			"category": "Cocina"
		}`

		got := gemini.ParseResponse(text, nil)

		assert.Equal(t, "Las 3 mejores freidoras", got.Title)
		assert.Equal(t, "cocina", got.Category)
		require.Len(t, got.Products, 1)
		assert.Equal(t, "Cosori Pro", got.Products[0].Name)
		assert.Equal(t, "B0ABCDEFGH", got.Products[0].ASIN)
		capacity, ok := got.Products[0].Specifications.Get("Capacidad")
		assert.True(t, ok)
		assert.Equal(t, "5,5 L", capacity)
		assert.Equal(t, []rankmdx.FAQ{{Question: "¿Cuál?", Answer: "La Cosori."}}, got.FAQ)
	})

	t.Run("strips code fences", func(t *testing.T) {
		t.Parallel()

		text := "```json\n{\"products\": [{\"name\": \"A\"}]}\n```"

		got := gemini.ParseResponse(text, nil)

		require.Len(t, got.Products, 1)
		assert.Equal(t, "A", got.Products[0].Name)
	})

	t.Run("accepts specifications as a mapping", func(t *testing.T) {
		t.Parallel()

		text := `{"products": [{"name": "A", "specifications": {"Peso": "1 kg", "Potencia": "1500 W"}}]}`

		got := gemini.ParseResponse(text, nil)

		require.Len(t, got.Products, 1)
		assert.Equal(t, rankmdx.Specifications{
			{Label: "Peso", Value: "1 kg"},
			{Label: "Potencia", Value: "1500 W"},
		}, got.Products[0].Specifications)
	})

	t.Run("skips unrecognized specifications without dropping the product", func(t *testing.T) {
		t.Parallel()

		text := `{"products": [{"name": "A", "specifications": "muy buena"}]}`

		got := gemini.ParseResponse(text, nil)

		require.Len(t, got.Products, 1)
		assert.Empty(t, got.Products[0].Specifications)
	})

	t.Run("drops products without a name", func(t *testing.T) {
		t.Parallel()

		text := `{"products": [{"name": " "}, {"name": "B"}]}`

		got := gemini.ParseResponse(text, nil)

		require.Len(t, got.Products, 1)
		assert.Equal(t, "B", got.Products[0].Name)
	})

	t.Run("malformed output yields zero products", func(t *testing.T) {
		t.Parallel()

		for _, text := range []string{
			"",
			"Lo siento, no puedo ayudar con eso.",
			`{"products": [{"name": "A"}`,
			`{"products": [{"name": "A"}], "extra": true}`,
		} {
			got := gemini.ParseResponse(text, nil)

			require.NotNil(t, got, text)
			assert.Empty(t, got.Products, text)
			assert.Equal(t, rankmdx.DefaultCategory, got.Category, text)
		}
	})

	t.Run("unknown categories fall back to the default", func(t *testing.T) {
		t.Parallel()

		got := gemini.ParseResponse(`{"category": "astronomía"}`, nil)

		assert.Equal(t, rankmdx.DefaultCategory, got.Category)
	})
}

func TestBuildUserPrompt(t *testing.T) {
	t.Parallel()

	article := &rankmdx.SourceArticle{
		Title:        "Mejores freidoras",
		SourceURL:    "https://blog.example.com/freidoras",
		BodyMarkdown: "## 1. Cosori Pro",
		ProductLinks: []rankmdx.ProductLink{
			{OriginalURL: "https://amzn.to/x", ResolvedURL: "https://www.amazon.es/dp/B0ABCDEFGH", Text: "Cosori Pro"},
		},
		PriceCandidates: []rankmdx.PriceCandidate{
			{Text: "87 € en Amazon", Label: "Cosori Pro", ASIN: "B0ABCDEFGH"},
		},
	}

	got := gemini.BuildUserPrompt(article)

	assert.Contains(t, got, "<title>Mejores freidoras</title>")
	assert.Contains(t, got, "<content>## 1. Cosori Pro</content>")
	assert.Contains(t, got, `<link asin="B0ABCDEFGH">Cosori Pro</link>`)
	assert.Contains(t, got, `<price asin="B0ABCDEFGH">Cosori Pro: 87 € en Amazon</price>`)
}

func TestBuildConfig(t *testing.T) {
	t.Parallel()

	config := gemini.BuildConfig()

	assert.Equal(t, "application/json", config.ResponseMIMEType)
	require.NotNil(t, config.ResponseSchema)
	assert.Equal(t, genai.TypeObject, config.ResponseSchema.Type)
	assert.Contains(t, config.ResponseSchema.Properties, "products")
	assert.Equal(t, rankmdx.Categories, config.ResponseSchema.Properties["category"].Enum)
	require.NotNil(t, config.SystemInstruction)
	assert.Contains(t, config.SystemInstruction.Parts[0].Text, "tag="+rankmdx.AffiliateTag)
}
