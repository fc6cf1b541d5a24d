package rankmdx

import "context"

// TokenCounter measures a structuring prompt in model tokens.
type TokenCounter interface {
	CountTokens(ctx context.Context, prompt string) (int, error)
}
