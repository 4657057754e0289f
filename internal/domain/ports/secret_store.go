package ports

import (
	"context"
)

// Secret represents a retrieved secret with metadata
type Secret struct {
	Value     string            // raw secret value; processor credentials are a JSON document
	Version   string            // secret version identifier
	Metadata  map[string]string // additional string fields stored alongside the value
	CreatedAt string            // when this version was created
}

// SecretStore retrieves secrets from a secret management backend.
// Path format depends on the backend:
//   - AWS: "cardvault/processor/credentials" or a full ARN
//   - Vault: "cardvault/processor" under the configured KV mount
//   - Local: a file path relative to the base directory
type SecretStore interface {
	GetSecret(ctx context.Context, path string) (*Secret, error)
}
