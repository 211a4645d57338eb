// Package auth defines the identity verification contract. Token issuing
// and account management live in an external identity provider; this service
// only needs to turn a bearer token into an owner id.
package auth

import (
	"context"
	"errors"
	"os"
	"strings"
)

// ErrUnauthorized is returned for missing, unknown or malformed tokens.
var ErrUnauthorized = errors.New("unauthorized")

// Identity is the verified caller.
type Identity struct {
	UserID string
	Email  string
}

// Verifier resolves a bearer token to an identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// EnvVerifier is a static token table read from the API_TOKENS environment
// variable, formatted as "token:userID:email" entries separated by commas.
// It stands in for a real identity provider in development and self-hosted
// deployments.
type EnvVerifier struct {
	tokens map[string]Identity
}

// NewEnvVerifier parses API_TOKENS. An empty or unset variable yields a
// verifier that rejects every token.
func NewEnvVerifier() *EnvVerifier {
	v := &EnvVerifier{tokens: make(map[string]Identity)}
	raw := os.Getenv("API_TOKENS")
	for _, entry := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(entry), ":", 3)
		if len(parts) < 2 || parts[0] == "" {
			continue
		}
		id := Identity{UserID: parts[1]}
		if len(parts) == 3 {
			id.Email = parts[2]
		}
		v.tokens[parts[0]] = id
	}
	return v
}

// Verify implements Verifier.
func (v *EnvVerifier) Verify(_ context.Context, token string) (Identity, error) {
	id, ok := v.tokens[token]
	if !ok {
		return Identity{}, ErrUnauthorized
	}
	return id, nil
}
