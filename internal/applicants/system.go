package applicants

import "context"

// System defines the public contract for applicant operations.
type System interface {
	Handler() *Handler

	// UploadCV stores the CV blob, then the applicant record, and returns
	// the generated applicant ID with the blob's retrieval URL.
	UploadCV(ctx context.Context, cmd UploadCommand) (*UploadResult, error)
	// GetCV returns the CV retrieval URL recorded for applicantID.
	GetCV(ctx context.Context, applicantID string) (string, error)
}
