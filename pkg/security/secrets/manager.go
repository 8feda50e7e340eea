package secrets

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"perimeleon/pmexport/pkg/config"
)

// secretRefRegex matches ${secret:name} patterns in configuration values.
var secretRefRegex = regexp.MustCompile(`\$\{secret:([^}]+)\}`)

// Manager tries its providers in order until one returns the secret.
type Manager struct {
	providers []SecretProvider
}

// NewManager creates a manager over providers, highest priority first.
func NewManager(providers ...SecretProvider) *Manager {
	return &Manager{providers: providers}
}

// FromConfig builds the manager for cfg: the secrets directory when one is
// configured, then the environment.
func FromConfig(cfg *config.SecretsConfig) (*Manager, error) {
	var providers []SecretProvider
	if cfg.Directory != "" {
		fp, err := NewFileProvider(cfg.Directory)
		if err != nil {
			return nil, err
		}
		providers = append(providers, fp)
	}
	providers = append(providers, NewEnvProvider(cfg.EnvPrefix))
	return NewManager(providers...), nil
}

// GetSecret retrieves a secret from the first provider that supports it.
func (m *Manager) GetSecret(ctx context.Context, name string) (string, error) {
	var lastErr error
	for _, provider := range m.providers {
		if !provider.Supports(name) {
			continue
		}

		value, err := provider.GetSecret(ctx, name)
		if err != nil {
			lastErr = err
			slog.Debug("provider failed to get secret",
				"provider", provider.Provider(),
				"name", redactSecretName(name),
				"error", err,
			)
			continue
		}

		slog.Debug("secret retrieved",
			"provider", provider.Provider(),
			"name", redactSecretName(name),
		)
		return value, nil
	}

	if lastErr != nil {
		return "", fmt.Errorf("failed to get secret %q: %w", name, lastErr)
	}
	return "", fmt.Errorf("secret not found: %q (no provider supports this secret)", name)
}

// ResolveReferences replaces ${secret:name} patterns with secret values.
// Unresolved references are left in place and reported together.
func (m *Manager) ResolveReferences(ctx context.Context, input string) (string, error) {
	var errs []string

	output := secretRefRegex.ReplaceAllStringFunc(input, func(match string) string {
		name := secretRefRegex.FindStringSubmatch(match)[1]
		value, err := m.GetSecret(ctx, name)
		if err != nil {
			errs = append(errs, err.Error())
			return match
		}
		return value
	})

	if len(errs) > 0 {
		return output, fmt.Errorf("failed to resolve secret references: %s", strings.Join(errs, "; "))
	}
	return output, nil
}

// ResolveConfig returns a copy of cfg with secret references resolved in
// every credential field. cfg itself is not modified.
func (m *Manager) ResolveConfig(ctx context.Context, cfg *config.Config) (*config.Config, error) {
	out := *cfg
	fields := []struct {
		name  string
		value *string
	}{
		{"source.mongo.uri", &out.Source.Mongo.URI},
		{"source.mongo.password", &out.Source.Mongo.Password},
		{"source.postgres.dsn", &out.Source.Postgres.DSN},
		{"source.postgres.password", &out.Source.Postgres.Password},
		{"output.s3.access_key_id", &out.Output.S3.AccessKeyID},
		{"output.s3.secret_access_key", &out.Output.S3.SecretAccessKey},
	}
	for _, f := range fields {
		if !secretRefRegex.MatchString(*f.value) {
			continue
		}
		resolved, err := m.ResolveReferences(ctx, *f.value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.value = resolved
	}
	return &out, nil
}

// redactSecretName shortens a secret name for logging.
func redactSecretName(name string) string {
	if len(name) <= 4 {
		return "***"
	}
	return name[:2] + "..." + name[len(name)-2:]
}
