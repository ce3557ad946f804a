package auth_test

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/go-jose/go-jose/v4"

	"github.com/JaimeStill/intake/pkg/auth"
)

const (
	issuer   = "https://issuer.example.com"
	audience = "intake"
)

func signToken(t *testing.T, key *rsa.PrivateKey, claims map[string]any) string {
	t.Helper()

	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.RS256, Key: key}, nil)
	if err != nil {
		t.Fatalf("signer: %v", err)
	}

	payload, err := json.Marshal(claims)
	if err != nil {
		t.Fatalf("claims: %v", err)
	}

	jws, err := signer.Sign(payload)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	token, err := jws.CompactSerialize()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	return token
}

func claims(aud string, exp time.Time) map[string]any {
	return map[string]any{
		"iss": issuer,
		"sub": "recruiter-1",
		"aud": aud,
		"iat": time.Now().Unix(),
		"exp": exp.Unix(),
	}
}

func TestMiddleware(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	other, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	keySet := &oidc.StaticKeySet{PublicKeys: []crypto.PublicKey{&key.PublicKey}}
	verifier := oidc.NewVerifier(issuer, keySet, &oidc.Config{
		ClientID:             audience,
		SupportedSigningAlgs: []string{oidc.RS256},
	})

	var subject string
	handler := auth.Middleware(verifier, slog.New(slog.NewTextHandler(io.Discard, nil)))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, _ = auth.Subject(r.Context())
			w.WriteHeader(http.StatusOK)
		}),
	)

	future := time.Now().Add(time.Hour)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
		{"valid token", "Bearer " + signToken(t, key, claims(audience, future)), http.StatusOK},
		{"wrong audience", "Bearer " + signToken(t, key, claims("other", future)), http.StatusUnauthorized},
		{"expired", "Bearer " + signToken(t, key, claims(audience, time.Now().Add(-time.Hour))), http.StatusUnauthorized},
		{"unknown key", "Bearer " + signToken(t, other, claims(audience, future)), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject = ""
			req := httptest.NewRequest(http.MethodGet, "/cv/abc", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("status: got %d, want %d: %s", rec.Code, tt.want, rec.Body.String())
			}
			if tt.want == http.StatusOK && subject != "recruiter-1" {
				t.Errorf("subject: got %q", subject)
			}
			if tt.want == http.StatusUnauthorized && rec.Header().Get("WWW-Authenticate") == "" {
				t.Error("missing WWW-Authenticate header")
			}
		})
	}
}

func TestConfigFinalize(t *testing.T) {
	tests := []struct {
		name    string
		cfg     auth.Config
		wantErr bool
	}{
		{name: "disabled", cfg: auth.Config{}},
		{name: "enabled complete", cfg: auth.Config{Enabled: true, Issuer: issuer, Audience: audience}},
		{name: "enabled without issuer", cfg: auth.Config{Enabled: true, Audience: audience}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			if err := cfg.Finalize(nil); tt.wantErr != (err != nil) {
				t.Errorf("error: got %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
