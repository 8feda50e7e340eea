package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"perimeleon/pmexport/pkg/config"
	"perimeleon/pmexport/pkg/telemetry/health"
	"perimeleon/pmexport/pkg/telemetry/metrics"
)

func newTestServer(t *testing.T) (*Server, *health.Checker) {
	t.Helper()
	collector := metrics.NewCollector(&config.MetricsConfig{Enabled: true}, prometheus.NewRegistry())
	collector.RecordRun(metrics.StatusSuccess, time.Second, 3, 7)
	checker := health.New(time.Second)
	return NewServer("127.0.0.1:0", "/metrics", collector, checker, BuildInfo{Version: "1.2.3"}), checker
}

func TestServer_Routes(t *testing.T) {
	srv, checker := newTestServer(t)
	checker.RegisterCheck("source", func(context.Context) error { return errors.New("unreachable") })
	handler := srv.Handler()

	tests := []struct {
		path     string
		wantCode int
		wantBody string
	}{
		{"/metrics", http.StatusOK, "pmexport_export_households 3"},
		{"/health", http.StatusOK, "ok"},
		{"/ready", http.StatusServiceUnavailable, "unreachable"},
		{"/version", http.StatusOK, "1.2.3"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body missing %q:\n%s", tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestServer_StartShutdown(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := srv.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := srv.Start(ctx); err == nil {
		t.Error("second Start() expected error")
	}

	resp, err := http.Get("http://" + srv.Addr() + "/health")
	if err != nil {
		t.Fatalf("GET /health error = %v", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if srv.IsRunning() {
		t.Error("server still running after Shutdown")
	}
}
