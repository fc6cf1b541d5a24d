// Package mdx assembles ranking articles as MDX documents with a JSON
// frontmatter block and parses them back.
package mdx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fwojciec/rankmdx"
)

const (
	fenceOpen  = "---json\n"
	fenceClose = "\n---\n"
)

// bodyEscaper escapes characters MDX would read as JSX or expressions.
var bodyEscaper = strings.NewReplacer(`{`, `\{`, `}`, `\}`, `<`, `\<`, `>`, `\>`)

// Assemble renders doc as a complete MDX document. Invalid documents are
// refused so that a partial article is never written.
func Assemble(doc *rankmdx.ArticleDocument) (string, error) {
	if doc == nil {
		return "", rankmdx.Errorf(rankmdx.EINVALID, "document required")
	}
	return AssembleWithBody(doc, Body(doc))
}

// AssembleWithBody renders doc's frontmatter above an existing body, such as
// one returned by Parse. An empty body is regenerated with Body.
func AssembleWithBody(doc *rankmdx.ArticleDocument, body string) (string, error) {
	if doc == nil {
		return "", rankmdx.Errorf(rankmdx.EINVALID, "document required")
	}
	if err := doc.Validate(); err != nil {
		return "", err
	}
	if strings.TrimSpace(body) == "" {
		body = Body(doc)
	}

	fm, err := MarshalFrontmatter(doc)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(fenceOpen)
	b.Write(fm)
	b.WriteString(fenceClose)
	b.WriteString("\n")
	b.WriteString(body)
	return b.String(), nil
}

// MarshalFrontmatter encodes doc as indented JSON without HTML escaping.
func MarshalFrontmatter(doc *rankmdx.ArticleDocument) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding frontmatter: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Body renders the fixed body structure: title, introduction, ranking table,
// one detail block per product in frontmatter order, comparison table and
// conclusion.
func Body(doc *rankmdx.ArticleDocument) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", escape(doc.Title))
	writeParagraph(&b, doc.Introduction)
	b.WriteString("<RankingTable products={frontmatter.products} />\n\n")

	for i, p := range doc.Products {
		fmt.Fprintf(&b, "## %d. %s\n\n", i+1, escape(p.Name))
		fmt.Fprintf(&b, "<ProductDetail product={frontmatter.products[%d]} />\n\n", i)
	}

	b.WriteString("## Comparativa\n\n")
	writeParagraph(&b, doc.Comparativa)
	b.WriteString("<ComparisonTable products={frontmatter.products} />\n\n")

	b.WriteString("## Conclusión\n\n")
	writeParagraph(&b, doc.Conclusion)

	return strings.TrimRight(b.String(), "\n") + "\n"
}

// Parse splits an MDX document into its frontmatter and body.
// Returns EINVALID if the frontmatter fence or JSON is malformed.
//
// Decoding normalizes hand-edited frontmatter: a brand given as a bare
// string becomes a Brand with the trimmed name, and
// specification entries are trimmed with empty values and repeated labels
// dropped. Documents written by Assemble round-trip unchanged.
func Parse(content string) (*rankmdx.ArticleDocument, string, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(content, fenceOpen) {
		return nil, "", rankmdx.Errorf(rankmdx.EINVALID, "missing frontmatter fence")
	}
	rest := content[len(fenceOpen):]

	var fm, body string
	if i := strings.Index(rest, fenceClose); i >= 0 {
		fm, body = rest[:i], rest[i+len(fenceClose):]
	} else if strings.HasSuffix(rest, "\n---") {
		fm = strings.TrimSuffix(rest, "\n---")
	} else {
		return nil, "", rankmdx.Errorf(rankmdx.EINVALID, "unterminated frontmatter")
	}

	var doc rankmdx.ArticleDocument
	if err := json.Unmarshal([]byte(fm), &doc); err != nil {
		return nil, "", rankmdx.Errorf(rankmdx.EINVALID, "invalid frontmatter: %v", err)
	}
	return &doc, strings.TrimPrefix(body, "\n"), nil
}

func writeParagraph(b *strings.Builder, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	b.WriteString(escape(text))
	b.WriteString("\n\n")
}

func escape(text string) string {
	return bodyEscaper.Replace(text)
}
