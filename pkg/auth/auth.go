// Package auth verifies OIDC bearer tokens on incoming requests.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/JaimeStill/intake/pkg/handlers"
)

// ErrMissingToken indicates the request carried no bearer token.
var ErrMissingToken = errors.New("missing bearer token")

type subjectKey struct{}

// NewVerifier discovers the issuer's signing keys and returns a verifier
// that checks signature, issuer, expiry, and audience.
func NewVerifier(ctx context.Context, cfg *Config) (*oidc.IDTokenVerifier, error) {
	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("discover issuer %s: %w", cfg.Issuer, err)
	}
	return provider.Verifier(&oidc.Config{ClientID: cfg.Audience}), nil
}

// Middleware rejects requests without a valid bearer token with 401 and
// stores the token subject on the request context.
func Middleware(verifier *oidc.IDTokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearer(r)
			if !ok {
				w.Header().Set("WWW-Authenticate", "Bearer")
				handlers.RespondDetail(w, logger, http.StatusUnauthorized, "Not authenticated", ErrMissingToken)
				return
			}

			token, err := verifier.Verify(r.Context(), raw)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
				handlers.RespondDetail(w, logger, http.StatusUnauthorized, "Invalid token", err)
				return
			}

			ctx := context.WithValue(r.Context(), subjectKey{}, token.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Subject returns the authenticated token subject, if any.
func Subject(ctx context.Context) (string, bool) {
	sub, ok := ctx.Value(subjectKey{}).(string)
	return sub, ok
}

func bearer(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
