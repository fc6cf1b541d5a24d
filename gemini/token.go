package gemini

import (
	"context"

	"github.com/fwojciec/rankmdx"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

var _ rankmdx.TokenCounter = (*TokenCounter)(nil)

// TokenCounter sizes structuring prompts offline, before any API call is
// made, so oversized articles can be skipped and run totals reported.
type TokenCounter struct {
	model string
	local *tokenizer.LocalTokenizer
}

// NewTokenCounter loads the local tokenizer for model. Models the tokenizer
// does not know return an error and callers run without counting.
func NewTokenCounter(model string) (*TokenCounter, error) {
	local, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, rankmdx.Errorf(rankmdx.EINVALID, "no local tokenizer for model %q: %v", model, err)
	}
	return &TokenCounter{model: model, local: local}, nil
}

// Model returns the model the counter was built for.
func (tc *TokenCounter) Model() string { return tc.model }

func (tc *TokenCounter) CountTokens(_ context.Context, prompt string) (int, error) {
	if prompt == "" {
		return 0, nil
	}
	res, err := tc.local.CountTokens([]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}, nil)
	if err != nil {
		return 0, rankmdx.Errorf(rankmdx.EINTERNAL, "count tokens: %v", err)
	}
	return int(res.TotalTokens), nil
}
