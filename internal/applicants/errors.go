package applicants

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/aws/smithy-go"
	"github.com/jackc/pgx/v5/pgconn"
)

// Domain errors for applicant operations.
var (
	ErrNotFound     = errors.New("applicant not found")
	ErrFileTooLarge = errors.New("file exceeds maximum upload size")
	ErrMissingField = errors.New("missing form field")
	ErrInvalidForm  = errors.New("invalid multipart form")
)

// StoreError reports a call rejected by, or failing against, the blob or
// metadata store. Message is the store's own error message.
type StoreError struct {
	Op      string
	Message string
	Err     error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: store error: %s", e.Op, e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// MapHTTPStatus maps applicant domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrFileTooLarge) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrMissingField) || errors.Is(err, ErrInvalidForm) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// storeFailure wraps err as a *StoreError when it carries a provider API
// error. Other errors are returned unchanged.
func storeFailure(op string, err error) error {
	if msg, ok := storeMessage(err); ok {
		return &StoreError{Op: op, Message: msg, Err: err}
	}
	return err
}

func storeMessage(err error) (string, bool) {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if msg := apiErr.ErrorMessage(); msg != "" {
			return msg, true
		}
		return apiErr.ErrorCode(), true
	}

	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		return azureMessage(respErr), true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Message, true
	}

	return "", false
}

// azureMessage pairs the service error code with the reason phrase, which
// Azure Storage fills with its human-readable message.
func azureMessage(respErr *azcore.ResponseError) string {
	reason := http.StatusText(respErr.StatusCode)
	if resp := respErr.RawResponse; resp != nil {
		status := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
		if status != "" {
			reason = status
		}
	}

	switch {
	case respErr.ErrorCode == "":
		return reason
	case reason == "":
		return respErr.ErrorCode
	default:
		return respErr.ErrorCode + ": " + reason
	}
}
