// Package api assembles the API module with the applicants system, its
// middleware, and the OpenAPI document describing its routes.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/JaimeStill/intake/internal/config"
	"github.com/JaimeStill/intake/internal/infrastructure"
	"github.com/JaimeStill/intake/pkg/auth"
	"github.com/JaimeStill/intake/pkg/middleware"
	"github.com/JaimeStill/intake/pkg/module"
	"github.com/JaimeStill/intake/pkg/openapi"
)

// API is the mounted API module together with its OpenAPI document.
type API struct {
	Module *module.Module
	Spec   *openapi.Spec
}

// NewModule creates the API module at the root prefix with all domain
// handlers and middleware. When auth is enabled the issuer is contacted
// once to discover its signing keys.
func NewModule(ctx context.Context, cfg *config.Config, infra *infrastructure.Infrastructure) (*API, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	groups := registerRoutes(mux, domain)

	m := module.New(module.Root, mux)
	m.Use(middleware.Recover(runtime.Logger))
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(middleware.CORS(&cfg.API.CORS))

	if cfg.API.Auth.Enabled {
		verifier, err := auth.NewVerifier(ctx, &cfg.API.Auth)
		if err != nil {
			return nil, fmt.Errorf("auth init failed: %w", err)
		}
		m.Use(auth.Middleware(verifier, runtime.Logger))
	}

	return &API{
		Module: m,
		Spec:   buildSpec(cfg, groups),
	}, nil
}
