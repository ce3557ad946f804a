package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/JaimeStill/intake/internal/api"
	"github.com/JaimeStill/intake/internal/config"
	"github.com/JaimeStill/intake/internal/infrastructure"
	"github.com/JaimeStill/intake/pkg/kvstore"
	"github.com/JaimeStill/intake/pkg/lifecycle"
	"github.com/JaimeStill/intake/pkg/module"
)

type memoryStorage struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func (s *memoryStorage) Start(*lifecycle.Coordinator) error { return nil }

func (s *memoryStorage) Upload(_ context.Context, key string, r io.Reader, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = data
	return nil
}

func (s *memoryStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}

func (s *memoryStorage) URL(key string) string {
	return "https://cv-bucket.s3.us-east-1.amazonaws.com/" + key
}

func (s *memoryStorage) Ping(context.Context) error { return nil }

type memoryMetadata struct {
	mu    sync.Mutex
	items map[string][]byte
}

func (m *memoryMetadata) Start(*lifecycle.Coordinator) error { return nil }

func (m *memoryMetadata) Put(_ context.Context, key string, item any) error {
	data, err := json.Marshal(item)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = data
	return nil
}

func (m *memoryMetadata) Get(_ context.Context, key string, out any) error {
	m.mu.Lock()
	data, ok := m.items[key]
	m.mu.Unlock()
	if !ok {
		return kvstore.ErrNotFound
	}
	return json.Unmarshal(data, out)
}

func (m *memoryMetadata) Ping(context.Context) error { return nil }

func newRouter(t *testing.T) (*module.Router, *api.API, *memoryStorage) {
	t.Helper()

	store := &memoryStorage{blobs: make(map[string][]byte)}
	infra := &infrastructure.Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Storage:   store,
		Metadata:  &memoryMetadata{items: make(map[string][]byte)},
	}

	cfg := &config.Config{Version: "1.0.0"}
	cfg.API.MaxUploadSize = "500MB"
	cfg.OpenAPI.Title = "CV Uploader API"

	a, err := api.NewModule(context.Background(), cfg, infra)
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	router := module.NewRouter()
	router.Mount(a.Module)
	return router, a, store
}

func uploadRequest(t *testing.T, path string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	w.WriteField("name", "Ada Lovelace")
	w.WriteField("email", "ada@example.com")
	w.WriteField("cover_letter", "Hello")
	part, err := w.CreateFormFile("cv_file", "resume.pdf")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	part.Write([]byte("0123456789"))
	w.Close()

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUploadThenLookup(t *testing.T) {
	for _, path := range []string{"/upload-cv", "/upload-cv/"} {
		t.Run(path, func(t *testing.T) {
			router, _, store := newRouter(t)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, uploadRequest(t, path))

			if rec.Code != http.StatusOK {
				t.Fatalf("upload status = %d, body = %s", rec.Code, rec.Body.String())
			}

			var result struct {
				Message     string `json:"message"`
				ApplicantID string `json:"applicant_id"`
				CVURL       string `json:"cv_url"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
				t.Fatalf("decode upload response: %v", err)
			}
			if result.Message != "CV uploaded successfully" {
				t.Errorf("message = %q", result.Message)
			}
			if len(result.ApplicantID) != 36 {
				t.Errorf("applicant_id = %q, want 36 chars", result.ApplicantID)
			}
			wantSuffix := "cvs/" + result.ApplicantID + "_resume.pdf"
			if !strings.HasSuffix(result.CVURL, wantSuffix) {
				t.Errorf("cv_url = %q, want suffix %q", result.CVURL, wantSuffix)
			}
			if got := string(store.blobs[wantSuffix]); got != "0123456789" {
				t.Errorf("stored blob = %q", got)
			}

			rec = httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cv/"+result.ApplicantID, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("lookup status = %d, body = %s", rec.Code, rec.Body.String())
			}
			var url string
			if err := json.Unmarshal(rec.Body.Bytes(), &url); err != nil {
				t.Fatalf("decode lookup response: %v", err)
			}
			if url != result.CVURL {
				t.Errorf("lookup url = %q, want %q", url, result.CVURL)
			}
		})
	}
}

func TestLookupUnknown(t *testing.T) {
	router, _, _ := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cv/unknown-id", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"detail":"Applicant not found"}` {
		t.Errorf("body = %s", got)
	}
}

func TestSpecDescribesRoutes(t *testing.T) {
	_, a, _ := newRouter(t)

	if a.Spec.Info.Title != "CV Uploader API" || a.Spec.Info.Version != "1.0.0" {
		t.Errorf("info = %+v", a.Spec.Info)
	}

	upload, ok := a.Spec.Paths["/upload-cv"]
	if !ok || upload.Post == nil {
		t.Fatal("spec should document POST /upload-cv")
	}
	if upload.Post.Tags[0] != "Applicants" {
		t.Errorf("upload tags = %v", upload.Post.Tags)
	}

	lookup, ok := a.Spec.Paths["/cv/{applicant_id}"]
	if !ok || lookup.Get == nil {
		t.Fatal("spec should document GET /cv/{applicant_id}")
	}

	for _, name := range []string{"UploadForm", "UploadResult", "Error"} {
		if _, ok := a.Spec.Components.Schemas[name]; !ok {
			t.Errorf("missing component schema %s", name)
		}
	}
}
