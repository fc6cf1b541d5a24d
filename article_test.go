package rankmdx_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/fwojciec/rankmdx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceArticle_Validate(t *testing.T) {
	t.Parallel()

	t.Run("rejects a body below the minimum length", func(t *testing.T) {
		t.Parallel()

		a := &rankmdx.SourceArticle{
			SourceURL:    "https://blog.es/freidoras",
			BodyMarkdown: strings.Repeat("x", 50),
		}

		err := a.Validate()

		assert.Equal(t, rankmdx.EINVALID, rankmdx.ErrorCode(err))
		assert.Contains(t, rankmdx.ErrorMessage(err), "too short")
	})

	t.Run("counts characters, not bytes", func(t *testing.T) {
		t.Parallel()

		a := &rankmdx.SourceArticle{
			SourceURL:    "https://blog.es/freidoras",
			BodyMarkdown: strings.Repeat("ñ", rankmdx.MinBodyLength-1),
		}

		assert.Error(t, a.Validate())
	})

	t.Run("accepts a long enough body", func(t *testing.T) {
		t.Parallel()

		a := &rankmdx.SourceArticle{
			SourceURL:    "https://blog.es/freidoras",
			BodyMarkdown: strings.Repeat("x", rankmdx.MinBodyLength),
		}

		assert.NoError(t, a.Validate())
	})

	t.Run("requires a source URL", func(t *testing.T) {
		t.Parallel()

		a := &rankmdx.SourceArticle{BodyMarkdown: strings.Repeat("x", rankmdx.MinBodyLength)}

		assert.Equal(t, rankmdx.EINVALID, rankmdx.ErrorCode(a.Validate()))
	})
}

func TestSourceArticle_ResolvedURL(t *testing.T) {
	t.Parallel()

	a := &rankmdx.SourceArticle{ProductLinks: []rankmdx.ProductLink{
		{OriginalURL: "https://amzn.to/abc", ResolvedURL: "https://www.amazon.es/dp/B0936FGLQS"},
	}}

	assert.Equal(t, "https://www.amazon.es/dp/B0936FGLQS", a.ResolvedURL("https://amzn.to/abc"))
	assert.Equal(t, "https://amzn.to/zzz", a.ResolvedURL("https://amzn.to/zzz"))
}

func TestBrand_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want rankmdx.Brand
	}{
		{"object", `{"@type":"Brand","name":"Cosori"}`, rankmdx.Brand{Type: "Brand", Name: "Cosori"}},
		{"bare string", `"Cosori"`, rankmdx.Brand{Name: "Cosori"}},
		{"malformed", `42`, rankmdx.Brand{}},
		{"null", `null`, rankmdx.Brand{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got struct {
				Brand rankmdx.Brand `json:"brand"`
			}
			err := json.Unmarshal([]byte(`{"brand":`+tt.in+`}`), &got)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Brand)
		})
	}
}
