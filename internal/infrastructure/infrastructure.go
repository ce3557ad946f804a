// Package infrastructure provides core service initialization for application startup.
// It assembles the dependencies (logging, blob storage, metadata store) that the
// applicants system requires.
package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/JaimeStill/intake/internal/config"
	"github.com/JaimeStill/intake/pkg/awsclient"
	"github.com/JaimeStill/intake/pkg/database"
	"github.com/JaimeStill/intake/pkg/kvstore"
	"github.com/JaimeStill/intake/pkg/lifecycle"
	"github.com/JaimeStill/intake/pkg/logging"
	"github.com/JaimeStill/intake/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
// It provides a single point of initialization for lifecycle coordination,
// logging, blob storage, and metadata access. Database is nil unless the
// metadata store is backed by Postgres.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Storage   storage.System
	Metadata  kvstore.System
	Database  database.System

	logCloser io.Closer
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter is New with log output directed to w.
func NewWithWriter(cfg *config.Config, w io.Writer) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger, closer := logging.New(&cfg.Logging, w)

	var awsCfg aws.Config
	if cfg.UsesAWS() {
		loaded, err := awsclient.Load(context.Background(), &cfg.AWS)
		if err != nil {
			closer.Close()
			return nil, fmt.Errorf("aws config init failed: %w", err)
		}
		awsCfg = loaded
	}

	store, err := storage.New(&cfg.Storage, awsCfg, logger)
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	infra := &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Storage:   store,
		logCloser: closer,
	}

	switch cfg.Metadata.Provider {
	case kvstore.ProviderPostgres:
		db, err := database.New(&cfg.Database, logger)
		if err != nil {
			closer.Close()
			return nil, fmt.Errorf("database init failed: %w", err)
		}
		metadata, err := kvstore.NewPostgres(&cfg.Metadata, db, logger)
		if err != nil {
			closer.Close()
			return nil, fmt.Errorf("metadata init failed: %w", err)
		}
		infra.Database = db
		infra.Metadata = metadata
	default:
		infra.Metadata = kvstore.NewDynamo(&cfg.Metadata, awsCfg, logger)
	}

	return infra, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator
// and adds a readiness probe for each store.
func (i *Infrastructure) Start() error {
	if i.Database != nil {
		if err := i.Database.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("database start failed: %w", err)
		}
		i.Lifecycle.AddProbe("database", i.Database.Ping)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	if err := i.Metadata.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("metadata start failed: %w", err)
	}

	i.Lifecycle.AddProbe("storage", i.Storage.Ping)
	i.Lifecycle.AddProbe("metadata", i.Metadata.Ping)

	i.Lifecycle.OnShutdown(func() {
		<-i.Lifecycle.Context().Done()
		if err := i.logCloser.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "close log file: %v\n", err)
		}
	})

	return nil
}
