package secrets

import "context"

// SecretProvider retrieves secrets from a backend.
//
// Implementations read environment variables and files in a secrets
// directory. A Manager chains providers with priority-based fallback.
type SecretProvider interface {
	// GetSecret retrieves a secret by name.
	// Returns an error if the secret is not found or cannot be retrieved.
	GetSecret(ctx context.Context, name string) (string, error)

	// Provider returns the provider name (env, file).
	Provider() string

	// Supports indicates if this provider can resolve the given secret name.
	Supports(name string) bool
}
