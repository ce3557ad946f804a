package applicants

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/intake/pkg/kvstore"
	"github.com/JaimeStill/intake/pkg/storage"
)

// Options tunes upload handling.
type Options struct {
	// MaxUploadSize is the largest accepted CV in bytes.
	MaxUploadSize int64
	// CleanupOrphans deletes the uploaded blob when the metadata write fails.
	CleanupOrphans bool
	// StoreTimeout bounds each store call. Zero means no bound beyond the
	// request context.
	StoreTimeout time.Duration
}

type repo struct {
	storage  storage.System
	metadata kvstore.System
	logger   *slog.Logger
	opts     Options
}

// New creates an applicant system backed by the given blob and metadata stores.
func New(store storage.System, metadata kvstore.System, logger *slog.Logger, opts Options) System {
	return &repo{
		storage:  store,
		metadata: metadata,
		logger:   logger.With("system", "applicants"),
		opts:     opts,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.opts.MaxUploadSize)
}

func (r *repo) UploadCV(ctx context.Context, cmd UploadCommand) (*UploadResult, error) {
	if cmd.Size > r.opts.MaxUploadSize {
		return nil, ErrFileTooLarge
	}

	id := uuid.New().String()
	key := BlobKey(id, cmd.Filename)

	if err := r.upload(ctx, key, cmd); err != nil {
		return nil, storeFailure("upload cv", err)
	}

	url := r.storage.URL(key)
	r.logger.Info("cv blob stored", "applicant_id", id, "key", key)

	record := Record{
		ApplicantID: id,
		Name:        cmd.Name,
		Email:       cmd.Email,
		CoverLetter: cmd.CoverLetter,
		CVURL:       url,
	}

	if err := r.put(ctx, record); err != nil {
		if r.opts.CleanupOrphans {
			r.removeOrphan(ctx, key)
		}
		return nil, storeFailure("save applicant", err)
	}

	r.logger.Info("cv uploaded successfully", "applicant_id", id, "cv_url", url)

	return &UploadResult{
		Message:     UploadedMessage,
		ApplicantID: id,
		CVURL:       url,
	}, nil
}

func (r *repo) GetCV(ctx context.Context, applicantID string) (string, error) {
	ctx, cancel := r.storeContext(ctx)
	defer cancel()

	var record Record
	if err := r.metadata.Get(ctx, applicantID, &record); err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", storeFailure("get applicant", err)
	}

	r.logger.Info("fetched cv url", "applicant_id", applicantID)
	return record.CVURL, nil
}

func (r *repo) upload(ctx context.Context, key string, cmd UploadCommand) error {
	ctx, cancel := r.storeContext(ctx)
	defer cancel()
	return r.storage.Upload(ctx, key, cmd.File, cmd.ContentType)
}

func (r *repo) put(ctx context.Context, record Record) error {
	ctx, cancel := r.storeContext(ctx)
	defer cancel()
	return r.metadata.Put(ctx, record.ApplicantID, record)
}

// removeOrphan runs detached from request cancellation so a client
// disconnect does not leave the blob behind.
func (r *repo) removeOrphan(ctx context.Context, key string) {
	ctx, cancel := r.storeContext(context.WithoutCancel(ctx))
	defer cancel()

	if err := r.storage.Delete(ctx, key); err != nil {
		r.logger.Warn("compensating blob delete failed", "key", key, "error", err)
		return
	}
	r.logger.Info("orphaned cv blob removed", "key", key)
}

func (r *repo) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.opts.StoreTimeout > 0 {
		return context.WithTimeout(ctx, r.opts.StoreTimeout)
	}
	return context.WithCancel(ctx)
}
