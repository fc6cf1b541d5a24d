package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fwojciec/rankmdx"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Ensure Structurer implements rankmdx.Structurer at compile time.
var _ rankmdx.Structurer = (*Structurer)(nil)

// Structurer implements rankmdx.Structurer using Google Gemini structured
// output.
type Structurer struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// NewStructurer creates a new Structurer. An empty model selects
// DefaultModel and a nil logger discards parse warnings.
func NewStructurer(client *genai.Client, model string, logger *slog.Logger) *Structurer {
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Structurer{client: client, model: model, logger: logger}
}

// Structure asks the model for the ranked product list of article.
func (s *Structurer) Structure(ctx context.Context, article *rankmdx.SourceArticle) (*rankmdx.Structured, error) {
	if article == nil || strings.TrimSpace(article.BodyMarkdown) == "" {
		return nil, rankmdx.Errorf(rankmdx.EINVALID, "article body required")
	}

	result, err := s.client.Models.GenerateContent(ctx, s.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: BuildUserPrompt(article)}},
		}},
		BuildConfig(),
	)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, rankmdx.Errorf(rankmdx.EUNAVAILABLE, "gemini returned nil result")
	}

	return ParseResponse(result.Text(), s.logger.With("url", article.SourceURL)), nil
}

// Prompt returns the full prompt text sent for article, for token counting.
func Prompt(article *rankmdx.SourceArticle) string {
	return systemInstruction + "\n\n" + BuildUserPrompt(article)
}

var systemInstruction = `Eres un editor de artículos de comparativas de productos para un sitio de afiliación de Amazon España.
Recibirás un artículo fuente en markdown y los enlaces y precios de producto encontrados en la página.
Devuelve únicamente un objeto JSON con esta forma exacta y en este orden:
title, excerpt, introduction, products, comparativa, faq, conclusion, category.

Reglas:
- products sigue el orden del ranking del artículo fuente. Cada producto tiene name, description, detailedAnalysis, pros, cons, specifications, destacado, asin, brand e image.
- specifications es una lista de objetos {name, value}.
- destacado es una frase breve (máximo 60 caracteres) con el punto fuerte del producto.
- asin solo si aparece en los enlaces facilitados. Nunca inventes ASIN, enlaces, referencias ni URLs.
- Todo enlace de afiliado debe llevar exactamente el parámetro tag=` + rankmdx.AffiliateTag + `.
- category es una de: ` + strings.Join(rankmdx.Categories, ", ") + `.
- Prohibido: etiquetas HTML, bloques de código, comillas invertidas y referencias inventadas.
- Escribe en español neutro, sin repetir el texto fuente literalmente.`

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.4)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
		ResponseSchema:   ResponseSchema(),
	}
}

// ResponseSchema is the schema the model's JSON output must follow.
func ResponseSchema() *genai.Schema {
	str := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Description: desc}
	}
	list := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeArray, Description: desc, Items: &genai.Schema{Type: genai.TypeString}}
	}

	product := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":             str("Nombre comercial del producto"),
			"description":      str("Descripción de 2-3 frases"),
			"detailedAnalysis": str("Análisis detallado en uno o dos párrafos"),
			"pros":             list("Ventajas, 3-5 puntos"),
			"cons":             list("Inconvenientes, 1-3 puntos"),
			"specifications": {
				Type:        genai.TypeArray,
				Description: "Especificaciones técnicas",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"name":  str("Nombre de la especificación"),
						"value": str("Valor de la especificación"),
					},
					Required: []string{"name", "value"},
				},
			},
			"destacado": str("Punto fuerte en menos de 60 caracteres"),
			"asin":      str("ASIN de 10 caracteres si aparece en los enlaces, vacío si no"),
			"brand":     str("Marca del producto"),
			"image":     str("URL de imagen si aparece en el artículo, vacío si no"),
		},
		PropertyOrdering: []string{"name", "description", "detailedAnalysis", "pros", "cons", "specifications", "destacado", "asin", "brand", "image"},
		Required:         []string{"name", "description", "pros", "cons"},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":        str("Título del artículo"),
			"excerpt":      str("Resumen de una o dos frases"),
			"introduction": str("Introducción"),
			"products":     {Type: genai.TypeArray, Description: "Productos en orden de ranking", Items: product},
			"comparativa":  str("Comparativa entre los productos"),
			"faq": {
				Type:        genai.TypeArray,
				Description: "Preguntas frecuentes",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"question": str("Pregunta"),
						"answer":   str("Respuesta"),
					},
					Required: []string{"question", "answer"},
				},
			},
			"conclusion": str("Conclusión"),
			"category":   {Type: genai.TypeString, Enum: rankmdx.Categories},
		},
		PropertyOrdering: []string{"title", "excerpt", "introduction", "products", "comparativa", "faq", "conclusion", "category"},
		Required:         []string{"title", "introduction", "products", "conclusion", "category"},
	}
}

// BuildUserPrompt builds the user prompt containing the article and the
// product links and prices scraped from its page.
func BuildUserPrompt(article *rankmdx.SourceArticle) string {
	var sb strings.Builder
	sb.WriteString("<article>\n")
	fmt.Fprintf(&sb, "<title>%s</title>\n", article.Title)
	fmt.Fprintf(&sb, "<source>%s</source>\n", article.SourceURL)
	fmt.Fprintf(&sb, "<content>%s</content>\n", article.BodyMarkdown)
	sb.WriteString("</article>\n")

	if len(article.ProductLinks) > 0 {
		sb.WriteString("<links>\n")
		for _, l := range article.ProductLinks {
			asin := rankmdx.ExtractASIN(l.ResolvedURL)
			fmt.Fprintf(&sb, "<link asin=%q>%s</link>\n", asin, l.Text)
		}
		sb.WriteString("</links>\n")
	}

	if len(article.PriceCandidates) > 0 {
		sb.WriteString("<prices>\n")
		for _, p := range article.PriceCandidates {
			fmt.Fprintf(&sb, "<price asin=%q>%s: %s</price>\n", p.ASIN, p.Label, p.Text)
		}
		sb.WriteString("</prices>\n")
	}
	return sb.String()
}

type response struct {
	Title        string            `json:"title"`
	Excerpt      string            `json:"excerpt"`
	Introduction string            `json:"introduction"`
	Products     []productResponse `json:"products"`
	Comparativa  string            `json:"comparativa"`
	FAQ          []rankmdx.FAQ     `json:"faq"`
	Conclusion   string            `json:"conclusion"`
	Category     string            `json:"category"`
}

type productResponse struct {
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	DetailedAnalysis string          `json:"detailedAnalysis"`
	Pros             []string        `json:"pros"`
	Cons             []string        `json:"cons"`
	Specifications   json.RawMessage `json:"specifications"`
	Destacado        string          `json:"destacado"`
	ASIN             string          `json:"asin"`
	Brand            string          `json:"brand"`
	Image            string          `json:"image"`
}

// ParseResponse decodes the model's text into a Structured. Output that is
// not the expected JSON document yields a Structured with no products.
func ParseResponse(text string, logger *slog.Logger) *rankmdx.Structured {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	dec := json.NewDecoder(strings.NewReader(stripCodeFence(text)))
	dec.DisallowUnknownFields()

	var resp response
	if err := dec.Decode(&resp); err != nil {
		logger.Warn("malformed model response", "err", err, "bytes", len(text))
		return &rankmdx.Structured{Category: rankmdx.DefaultCategory}
	}

	st := &rankmdx.Structured{
		Title:        strings.TrimSpace(resp.Title),
		Excerpt:      strings.TrimSpace(resp.Excerpt),
		Introduction: strings.TrimSpace(resp.Introduction),
		Conclusion:   strings.TrimSpace(resp.Conclusion),
		Comparativa:  strings.TrimSpace(resp.Comparativa),
		Category:     rankmdx.NormalizeCategory(resp.Category),
		FAQ:          resp.FAQ,
	}

	for i, p := range resp.Products {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			logger.Warn("dropping product without name", "position", i+1)
			continue
		}
		specs, err := rankmdx.ParseSpecifications(p.Specifications)
		if err != nil {
			logger.Warn("skipping unrecognized specifications", "product", name, "err", err)
			specs = nil
		}
		st.Products = append(st.Products, rankmdx.CandidateProduct{
			Name:             name,
			Description:      p.Description,
			DetailedAnalysis: p.DetailedAnalysis,
			Pros:             p.Pros,
			Cons:             p.Cons,
			Specifications:   specs,
			Destacado:        p.Destacado,
			ASIN:             rankmdx.NormalizeASIN(p.ASIN),
			Brand:            p.Brand,
			Image:            p.Image,
		})
	}
	return st
}

// stripCodeFence removes a surrounding ```json ... ``` block.
func stripCodeFence(text string) string {
	cleaned := strings.TrimSpace(text)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}
	cleaned = strings.TrimPrefix(cleaned, "```")
	if i := strings.IndexByte(cleaned, '\n'); i >= 0 && !strings.ContainsAny(cleaned[:i], "{[") {
		cleaned = cleaned[i+1:]
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	return strings.TrimSpace(cleaned)
}
