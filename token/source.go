package token

import "context"

// Source hands out bearer tokens for upstream calls.
type Source interface {
	// Token returns an access token that is valid for at least the safety margin.
	Token(ctx context.Context) (string, error)
	// Invalidate drops any cached token so the next call re-authenticates.
	Invalidate()
}

var (
	_ Source = (*Manager)(nil)
	_ Source = (*Uncached)(nil)
)
