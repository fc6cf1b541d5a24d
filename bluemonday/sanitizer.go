// Package bluemonday strips markup from model-generated text.
package bluemonday

import (
	"html"
	"strings"

	"github.com/fwojciec/rankmdx"
	"github.com/microcosm-cc/bluemonday"
)

var _ rankmdx.Sanitizer = (*Sanitizer)(nil)

// Sanitizer removes every HTML tag from text, keeping the text content.
// The result is plain text: entities are decoded, so sanitizing twice
// yields the same string.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer creates a Sanitizer using bluemonday's strict policy.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// Sanitize returns text with all HTML tags removed.
func (s *Sanitizer) Sanitize(text string) string {
	if !strings.ContainsAny(text, "<>&") {
		return text
	}
	return html.UnescapeString(s.policy.Sanitize(html.UnescapeString(text)))
}
