package gateway

import (
	"fmt"
	"strings"

	"github.com/kevin07696/cardvault-gateway/internal/domain"
)

// Environment selects the processor's sandbox or production endpoints
type Environment string

const (
	EnvironmentSandbox    Environment = "sandbox"
	EnvironmentProduction Environment = "production"
)

// Config holds the processor credentials. It is set once at construction and never mutated.
type Config struct {
	Environment             Environment
	MerchantID              string
	MerchantAccountID       string // optional; dropped everywhere when blank
	PublicKey               string
	PrivateKey              string
	ClientSideEncryptionKey string
}

// Validate checks that the required credentials are present
func (c Config) Validate() error {
	switch c.Environment {
	case EnvironmentSandbox, EnvironmentProduction:
	default:
		return domain.ErrConfigInvalid.WithDetail("environment", string(c.Environment))
	}

	missing := []string{}
	if c.MerchantID == "" {
		missing = append(missing, "merchant_id")
	}
	if c.PublicKey == "" {
		missing = append(missing, "public_key")
	}
	if c.PrivateKey == "" {
		missing = append(missing, "private_key")
	}
	if len(missing) > 0 {
		return domain.WrapError(domain.ErrorCodeConfigInvalid, "missing processor credentials",
			fmt.Errorf("required: %s", strings.Join(missing, ", ")))
	}
	return nil
}

// HasMerchantAccount reports whether a non-blank merchant account id is configured
func (c Config) HasMerchantAccount() bool {
	return strings.TrimSpace(c.MerchantAccountID) != ""
}

// Options returns the processor preference map. The processor client is
// configured from it, and client_side_encryption_key is what hosts hand to
// browser-side card encryption. A blank merchant account id is left out
// entirely; some processors reject the key with an empty value.
func (c Config) Options() map[string]string {
	opts := map[string]string{
		"environment":                string(c.Environment),
		"merchant_id":                c.MerchantID,
		"public_key":                 c.PublicKey,
		"private_key":                c.PrivateKey,
		"client_side_encryption_key": c.ClientSideEncryptionKey,
	}
	if c.HasMerchantAccount() {
		opts["merchant_account_id"] = c.MerchantAccountID
	}
	return opts
}
