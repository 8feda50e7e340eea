package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	if got := New(0).checkTimeout; got != 5*time.Second {
		t.Errorf("default timeout = %v, want 5s", got)
	}
	if got := New(time.Second).checkTimeout; got != time.Second {
		t.Errorf("timeout = %v, want 1s", got)
	}
}

func TestCheckReadiness(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]CheckFunc
		wantStatus string
		unhealthy  []string
	}{
		{
			name:       "no checks",
			wantStatus: "ready",
		},
		{
			name: "all healthy",
			checks: map[string]CheckFunc{
				"source":   func(context.Context) error { return nil },
				"last_run": func(context.Context) error { return nil },
			},
			wantStatus: "ready",
		},
		{
			name: "source down",
			checks: map[string]CheckFunc{
				"source":   func(context.Context) error { return errors.New("connection refused") },
				"last_run": func(context.Context) error { return nil },
			},
			wantStatus: "degraded",
			unhealthy:  []string{"source"},
		},
		{
			name: "timeout",
			checks: map[string]CheckFunc{
				"source": func(ctx context.Context) error {
					<-ctx.Done()
					time.Sleep(10 * time.Millisecond)
					return nil
				},
			},
			wantStatus: "degraded",
			unhealthy:  []string{"source"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := New(20 * time.Millisecond)
			for name, check := range tt.checks {
				checker.RegisterCheck(name, check)
			}

			status := checker.CheckReadiness(context.Background())
			if status.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", status.Status, tt.wantStatus)
			}
			for name, result := range status.Checks {
				want := "ok"
				if slices.Contains(tt.unhealthy, name) {
					want = "unhealthy"
				}
				if result.Status != want {
					t.Errorf("check %s = %q, want %q (%s)", name, result.Status, want, result.Message)
				}
			}
		})
	}
}

func TestListChecks(t *testing.T) {
	checker := New(0)
	checker.RegisterCheck("source", func(context.Context) error { return nil })
	checker.RegisterCheck("last_run", func(context.Context) error { return nil })
	checker.RegisterCheck("source", func(context.Context) error { return nil })

	if got := checker.ListChecks(); !slices.Equal(got, []string{"last_run", "source"}) {
		t.Errorf("ListChecks() = %v", got)
	}
}

func TestLastRun(t *testing.T) {
	var last LastRun
	if err := last.Check(context.Background()); err != nil {
		t.Errorf("Check() before any run = %v", err)
	}

	cause := errors.New("source unavailable")
	last.Record(cause)
	if err := last.Check(context.Background()); !errors.Is(err, cause) {
		t.Errorf("Check() = %v, want wrapping %v", err, cause)
	}

	last.Record(nil)
	if err := last.Check(context.Background()); err != nil {
		t.Errorf("Check() after success = %v", err)
	}
}

func TestHandlers(t *testing.T) {
	checker := New(time.Second)
	var last LastRun
	checker.RegisterCheck("last_run", last.Check)

	mux := http.NewServeMux()
	Register(mux, checker, "1.2.0", "abc123", "2026-10-01")

	tests := []struct {
		name     string
		method   string
		path     string
		setup    func()
		wantCode int
	}{
		{name: "liveness", method: http.MethodGet, path: "/health", wantCode: http.StatusOK},
		{name: "ready", method: http.MethodGet, path: "/ready", wantCode: http.StatusOK},
		{
			name:     "not ready after failed run",
			method:   http.MethodGet,
			path:     "/ready",
			setup:    func() { last.Record(errors.New("boom")) },
			wantCode: http.StatusServiceUnavailable,
		},
		{name: "version", method: http.MethodGet, path: "/version", wantCode: http.StatusOK},
		{name: "head", method: http.MethodHead, path: "/health", wantCode: http.StatusOK},
		{name: "post rejected", method: http.MethodPost, path: "/health", wantCode: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup != nil {
				tt.setup()
			}
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.wantCode {
				t.Errorf("%s %s = %d, want %d", tt.method, tt.path, rec.Code, tt.wantCode)
			}
		})
	}
}

func TestVersionHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	VersionHandler("1.2.0", "abc123", "2026-10-01")(rec, httptest.NewRequest(http.MethodGet, "/version", nil))

	var info VersionInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if info.Version != "1.2.0" || info.Commit != "abc123" || info.GoVersion == "" {
		t.Errorf("info = %+v", info)
	}
}
