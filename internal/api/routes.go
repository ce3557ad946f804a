package api

import (
	"net/http"

	"github.com/JaimeStill/intake/internal/applicants"
	"github.com/JaimeStill/intake/internal/config"
	"github.com/JaimeStill/intake/pkg/openapi"
	"github.com/JaimeStill/intake/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain) []routes.Group {
	groups := []routes.Group{
		domain.Applicants.Handler().Routes(),
	}
	routes.Register(mux, groups...)
	return groups
}

func buildSpec(cfg *config.Config, groups []routes.Group) *openapi.Spec {
	spec := openapi.NewSpec(cfg.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.OpenAPI.Description)
	spec.Components.AddSchemas(applicants.Schemas())
	routes.Describe(spec, groups...)
	return spec
}
