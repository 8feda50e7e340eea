package sink

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"perimeleon/pmexport/pkg/config"
)

func TestFSSink_Write(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	s, err := NewFSSink(dir)
	if err != nil {
		t.Fatalf("NewFSSink() error = %v", err)
	}

	ctx := context.Background()
	if err := s.Write(ctx, "households.json", []byte(`[{"id":"a"}]`)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := s.Write(ctx, "households.json", []byte(`[]`)); err != nil {
		t.Fatalf("second Write() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "households.json"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]" {
		t.Errorf("content = %q, want %q", data, "[]")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1 (temp files left behind)", len(entries))
	}
	if got := s.Location("households.json"); got != filepath.Join(dir, "households.json") {
		t.Errorf("Location() = %q", got)
	}
}

func TestFSSink_Cancelled(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFSSink(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Write(ctx, "members.json", []byte(`[]`)); !errors.Is(err, context.Canceled) {
		t.Errorf("Write() error = %v, want context.Canceled", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "members.json")); !os.IsNotExist(err) {
		t.Error("cancelled write created the file")
	}
}

func TestMemorySink(t *testing.T) {
	s := NewMemorySink()
	ctx := context.Background()

	_ = s.Write(ctx, "households.json", []byte("a"))
	_ = s.Write(ctx, "members.json", []byte("b"))
	_ = s.Write(ctx, "households.json", []byte("c"))

	if got, _ := s.Get("households.json"); string(got) != "c" {
		t.Errorf("Get() = %q, want %q", got, "c")
	}
	names := s.Names()
	if len(names) != 2 || names[0] != "households.json" {
		t.Errorf("Names() = %v", names)
	}

	boom := errors.New("boom")
	s.FailOn("members.json", boom)
	if err := s.Write(ctx, "members.json", nil); !errors.Is(err, boom) {
		t.Errorf("Write() error = %v, want %v", err, boom)
	}
}

type putRecorder struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func (p *putRecorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "unexpected method", http.StatusMethodNotAllowed)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	p.mu.Lock()
	p.objects[r.URL.Path] = body
	p.types[r.URL.Path] = r.Header.Get("Content-Type")
	p.mu.Unlock()
	w.Header().Set("ETag", `"etag"`)
	w.WriteHeader(http.StatusOK)
}

func TestS3Sink_Write(t *testing.T) {
	rec := &putRecorder{objects: map[string][]byte{}, types: map[string]string{}}
	srv := httptest.NewServer(rec)
	defer srv.Close()

	s, err := NewS3Sink(context.Background(), &config.S3Config{
		Bucket:          "exports",
		Region:          "us-east-1",
		Prefix:          "pm/nightly",
		Endpoint:        srv.URL,
		UsePathStyle:    true,
		AccessKeyID:     "AKIATEST",
		SecretAccessKey: "secret",
	})
	if err != nil {
		t.Fatalf("NewS3Sink() error = %v", err)
	}

	if err := s.Write(context.Background(), "households.json", []byte(`[]`)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	const objectPath = "/exports/pm/nightly/households.json"
	if got := string(rec.objects[objectPath]); got != "[]" {
		t.Errorf("object %s = %q, want %q (have %v)", objectPath, got, "[]", rec.objects)
	}
	if got := rec.types[objectPath]; got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}
	if got := s.Location("households.json"); got != "s3://exports/pm/nightly/households.json" {
		t.Errorf("Location() = %q", got)
	}
}

func TestS3Sink_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	s, err := NewS3Sink(context.Background(), &config.S3Config{
		Bucket: "exports", Region: "us-east-1", Endpoint: srv.URL, UsePathStyle: true,
		AccessKeyID: "AKIATEST", SecretAccessKey: "secret",
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Write(context.Background(), "members.json", []byte(`[]`)); err == nil {
		t.Fatal("Write() expected error on 403")
	}
}

func TestNew(t *testing.T) {
	s, err := New(context.Background(), &config.OutputConfig{Sink: "fs", Directory: t.TempDir()})
	if err != nil {
		t.Fatalf("New(fs) error = %v", err)
	}
	if s.Name() != "fs" {
		t.Errorf("Name() = %q", s.Name())
	}
	if _, err := New(context.Background(), &config.OutputConfig{Sink: "ftp"}); err == nil {
		t.Error("New(ftp) expected error")
	}
}
