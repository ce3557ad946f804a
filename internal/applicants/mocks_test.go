package applicants_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"sync"
	"testing"

	"github.com/JaimeStill/intake/internal/applicants"
	"github.com/JaimeStill/intake/pkg/kvstore"
	"github.com/JaimeStill/intake/pkg/lifecycle"
)

const bucketURL = "https://cv-bucket.s3.us-east-1.amazonaws.com/"

type upload struct {
	key         string
	data        []byte
	contentType string
}

type mockStorage struct {
	mu       sync.Mutex
	uploads  []upload
	deletes  []string
	uploadFn func(ctx context.Context) error
	deleteFn func(ctx context.Context) error
}

func (m *mockStorage) Start(*lifecycle.Coordinator) error { return nil }
func (m *mockStorage) Ping(context.Context) error         { return nil }
func (m *mockStorage) URL(key string) string              { return bucketURL + key }

func (m *mockStorage) Upload(ctx context.Context, key string, reader io.Reader, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.uploads = append(m.uploads, upload{key, data, contentType})
	m.mu.Unlock()

	if m.uploadFn != nil {
		return m.uploadFn(ctx)
	}
	return nil
}

func (m *mockStorage) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	m.deletes = append(m.deletes, key)
	m.mu.Unlock()

	if m.deleteFn != nil {
		return m.deleteFn(ctx)
	}
	return nil
}

func (m *mockStorage) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.uploads) + len(m.deletes)
}

type mockMetadata struct {
	mu    sync.Mutex
	items map[string]applicants.Record
	puts  []applicants.Record
	gets  []string
	putFn func(ctx context.Context) error
	getFn func(ctx context.Context) error
}

func newMetadata(records ...applicants.Record) *mockMetadata {
	m := &mockMetadata{items: make(map[string]applicants.Record)}
	for _, r := range records {
		m.items[r.ApplicantID] = r
	}
	return m
}

func (m *mockMetadata) Start(*lifecycle.Coordinator) error { return nil }
func (m *mockMetadata) Ping(context.Context) error         { return nil }

func (m *mockMetadata) Put(ctx context.Context, key string, item any) error {
	m.mu.Lock()
	m.puts = append(m.puts, item.(applicants.Record))
	m.mu.Unlock()

	if m.putFn != nil {
		return m.putFn(ctx)
	}

	m.mu.Lock()
	m.items[key] = item.(applicants.Record)
	m.mu.Unlock()
	return nil
}

func (m *mockMetadata) Get(ctx context.Context, key string, out any) error {
	m.mu.Lock()
	m.gets = append(m.gets, key)
	m.mu.Unlock()

	if m.getFn != nil {
		return m.getFn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.items[key]
	if !ok {
		return kvstore.ErrNotFound
	}
	*out.(*applicants.Record) = record
	return nil
}

func (m *mockMetadata) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.puts) + len(m.gets)
}

// mockSystem lets handler tests return arbitrary domain errors.
type mockSystem struct {
	uploadFn func(ctx context.Context, cmd applicants.UploadCommand) (*applicants.UploadResult, error)
	getFn    func(ctx context.Context, id string) (string, error)
}

func (m *mockSystem) Handler() *applicants.Handler { return nil }

func (m *mockSystem) UploadCV(ctx context.Context, cmd applicants.UploadCommand) (*applicants.UploadResult, error) {
	return m.uploadFn(ctx, cmd)
}

func (m *mockSystem) GetCV(ctx context.Context, id string) (string, error) {
	return m.getFn(ctx, id)
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// submission builds a multipart body. Fields with a nil value are omitted;
// a nil file omits the cv_file part.
func submission(t *testing.T, fields map[string]*string, filename string, file []byte) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	for _, name := range []string{"name", "email", "cover_letter"} {
		if v, ok := fields[name]; ok && v == nil {
			continue
		}
		value := name + "-value"
		if v := fields[name]; v != nil {
			value = *v
		}
		if err := w.WriteField(name, value); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}

	if file != nil {
		part, err := w.CreateFormFile("cv_file", filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		part.Write(file)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &body, w.FormDataContentType()
}
