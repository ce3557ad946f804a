// Package storage writes CV blobs to an object store and derives their
// retrieval URLs. S3 and Azure Blob Storage backends are provided.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/JaimeStill/intake/pkg/lifecycle"
)

// System manages blob storage operations and lifecycle coordination.
type System interface {
	// Start registers a startup hook that verifies the bucket or container.
	Start(lc *lifecycle.Coordinator) error
	// Upload streams data to a blob at the given key with the specified content type.
	// The length of reader does not need to be known in advance.
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) error
	// Delete removes the blob at the given key.
	Delete(ctx context.Context, key string) error
	// URL returns the deterministic retrieval URL for key.
	URL(key string) string
	// Ping reports whether the bucket or container is reachable.
	Ping(ctx context.Context) error
}

// New creates the storage system selected by cfg.Provider. awsCfg is only
// consulted by the S3 backend. No network calls are made until Start or
// the first operation.
func New(cfg *Config, awsCfg aws.Config, logger *slog.Logger) (System, error) {
	logger = logger.With("system", "storage", "provider", cfg.Provider)

	switch cfg.Provider {
	case ProviderS3:
		return newS3(cfg, awsCfg, logger), nil
	case ProviderAzure:
		return newAzure(cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported storage provider %q", cfg.Provider)
	}
}

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	for segment := range strings.SplitSeq(key, "/") {
		if segment == ".." {
			return ErrInvalidKey
		}
	}
	return nil
}

func escapeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
