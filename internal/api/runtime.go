package api

import (
	"github.com/JaimeStill/intake/internal/applicants"
	"github.com/JaimeStill/intake/internal/config"
	"github.com/JaimeStill/intake/internal/infrastructure"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Uploads applicants.Options
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	scoped := *infra
	scoped.Logger = infra.Logger.With("module", "api")

	return &Runtime{
		Infrastructure: &scoped,
		Uploads: applicants.Options{
			MaxUploadSize:  cfg.API.MaxUploadSizeBytes(),
			CleanupOrphans: cfg.API.CleanupOrphansEnabled(),
			StoreTimeout:   cfg.API.StoreTimeoutDuration(),
		},
	}
}
