package secrets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/kevin07696/cardvault-gateway/internal/domain/ports"
)

// LocalSecretStore reads secrets from files under a base directory.
// WARNING: This is for development only. Use AWS Secrets Manager or Vault in production.
type LocalSecretStore struct {
	basePath string
	logger   *zap.Logger
}

var _ ports.SecretStore = (*LocalSecretStore)(nil)

// NewLocalSecretStore creates a filesystem secret store
func NewLocalSecretStore(basePath string, logger *zap.Logger) *LocalSecretStore {
	return &LocalSecretStore{
		basePath: basePath,
		logger:   logger,
	}
}

// GetSecret reads a secret file. A JSON file with a "value" field carries
// metadata; any other content is returned as the value.
func (s *LocalSecretStore) GetSecret(_ context.Context, secretPath string) (*ports.Secret, error) {
	filePath := filepath.Join(s.basePath, filepath.Clean("/"+secretPath))

	s.logger.Debug("Reading secret from filesystem", zap.String("path", secretPath))

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("secret not found: %s", secretPath)
		}
		return nil, fmt.Errorf("failed to read secret: %w", err)
	}

	var envelope struct {
		Value     string            `json:"value"`
		Tags      map[string]string `json:"tags"`
		CreatedAt string            `json:"created_at"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Value != "" {
		return &ports.Secret{
			Value:     envelope.Value,
			Version:   "v1",
			Metadata:  envelope.Tags,
			CreatedAt: envelope.CreatedAt,
		}, nil
	}

	return &ports.Secret{
		Value:   string(data),
		Version: "v1",
	}, nil
}
