package cli

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"perimeleon/pmexport/pkg/config"
	"perimeleon/pmexport/pkg/export"
	"perimeleon/pmexport/pkg/model"
)

func TestConfigError(t *testing.T) {
	err := NewConfigError("source.mongo.port", "must be between 1 and 65535")

	expected := "config error in source.mongo.port: must be between 1 and 65535"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestCommandError(t *testing.T) {
	underlyingErr := errors.New("underlying error")
	err := NewCommandError("export", underlyingErr)

	expected := "export failed: underlying error"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, underlyingErr) {
		t.Error("errors.Is() should see through CommandError")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"plain", errors.New("boom"), ExitFailure},
		{"config flag", NewConfigError("format", "unknown"), ExitConfig},
		{"validation", config.ValidationError{Errors: []config.FieldError{{Field: "a", Message: "b"}}}, ExitConfig},
		{"connection", NewCommandError("export", model.NewConnectionError("mongo", "db:27017", errors.New("refused"))), ExitConnection},
		{"record", NewCommandError("export", &export.RecordError{Index: 3, Cause: model.ErrInvalidEnum}), ExitRecord},
		{"write", &export.WriteError{File: "members.json", Cause: errors.New("disk full")}, ExitWrite},
		{"interrupted", fmt.Errorf("reading mongo: %w", context.Canceled), ExitInterrupted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
