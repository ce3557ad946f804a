package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/JaimeStill/intake/internal/api"
	"github.com/JaimeStill/intake/internal/config"
	"github.com/JaimeStill/intake/internal/infrastructure"
	"github.com/JaimeStill/intake/pkg/middleware"
	"github.com/JaimeStill/intake/pkg/module"
	"github.com/JaimeStill/intake/pkg/openapi"
	"github.com/JaimeStill/intake/web/docs"
)

const (
	specPath     = "/openapi.json"
	docsPath     = "/docs"
	probeTimeout = 5 * time.Second
)

// Modules holds the mounted HTTP modules and the serialized API document.
type Modules struct {
	API  *module.Module
	Docs *module.Module
	Spec []byte
}

// NewModules builds the API module and the reference docs module.
func NewModules(ctx context.Context, infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(ctx, cfg, infra)
	if err != nil {
		return nil, err
	}

	spec, err := openapi.MarshalJSON(apiModule.Spec)
	if err != nil {
		return nil, fmt.Errorf("marshal openapi spec: %w", err)
	}

	docsModule := docs.NewModule(docsPath, specPath, cfg.OpenAPI.Title)
	docsModule.Use(middleware.Logger(infra.Logger))

	return &Modules{
		API:  apiModule.Module,
		Docs: docsModule,
		Spec: spec,
	}, nil
}

// Mount registers every module with router.
func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
	router.Mount(m.Docs)
	m.mountSpec(router)
}

func (m *Modules) mountSpec(router *module.Router) {
	router.HandleNative("GET "+specPath, openapi.ServeSpec(m.Spec))
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !infra.Lifecycle.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "not ready"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
		defer cancel()

		if err := infra.Lifecycle.Check(ctx); err != nil {
			infra.Logger.Warn("readiness check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "unavailable", "detail": err.Error()})
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	})

	return router
}
