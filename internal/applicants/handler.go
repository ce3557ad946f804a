package applicants

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/JaimeStill/intake/pkg/formatting"
	"github.com/JaimeStill/intake/pkg/handlers"
	"github.com/JaimeStill/intake/pkg/routes"
)

const (
	// multipartMemory is the portion of a form held in memory; file parts
	// beyond it spill to temporary files.
	multipartMemory = 32 << 20
	// multipartValues is the extra allowance mime/multipart grants non-file
	// parts beyond multipartMemory.
	multipartValues = 10 << 20
	// multipartSlack lets a file at the ceiling travel with any form values
	// mime/multipart itself would accept, plus headers and boundaries.
	multipartSlack = multipartMemory + multipartValues + 1<<20
)

var formFields = []string{"name", "email", "cover_letter"}

// Handler provides HTTP endpoints for applicant operations.
type Handler struct {
	sys           System
	logger        *slog.Logger
	maxUploadSize int64
}

// NewHandler creates a Handler with the given system, logger, and upload size limit.
func NewHandler(sys System, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "applicants"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for applicant endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Tags: []string{"Applicants"},
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/upload-cv", Handler: h.Upload, OpenAPI: Spec.Upload},
			{Method: "GET", Pattern: "/cv/{applicant_id}", Handler: h.GetCV, OpenAPI: Spec.GetCV},
		},
	}
}

// Upload accepts a multipart submission with name, email, cover_letter,
// and a cv_file part.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+multipartSlack)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || errors.Is(err, multipart.ErrMessageTooLarge) {
			h.fail(w, ErrFileTooLarge)
			return
		}
		h.fail(w, fmt.Errorf("%w: %v", ErrInvalidForm, err))
		return
	}

	values := r.MultipartForm.Value
	for _, field := range formFields {
		if len(values[field]) == 0 {
			h.fail(w, fmt.Errorf("%w: %s", ErrMissingField, field))
			return
		}
	}

	file, header, err := r.FormFile("cv_file")
	if err != nil {
		h.fail(w, fmt.Errorf("%w: cv_file", ErrMissingField))
		return
	}
	defer file.Close()

	cmd := UploadCommand{
		Name:        values["name"][0],
		Email:       values["email"][0],
		CoverLetter: values["cover_letter"][0],
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		File:        file,
	}

	result, err := h.sys.UploadCV(r.Context(), cmd)
	if err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// GetCV returns the CV URL for the applicant_id path parameter as a bare
// JSON string.
func (h *Handler) GetCV(w http.ResponseWriter, r *http.Request) {
	url, err := h.sys.GetCV(r.Context(), r.PathValue("applicant_id"))
	if err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, url)
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	handlers.RespondDetail(w, h.logger, MapHTTPStatus(err), h.detail(err), err)
}

func (h *Handler) detail(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "Applicant not found"
	case errors.Is(err, ErrFileTooLarge):
		return fmt.Sprintf("File too large. Max %s.", formatting.FormatBytes(h.maxUploadSize, 0))
	}

	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return "store error: " + storeErr.Message
	}
	return err.Error()
}
