package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"

	"github.com/kevin07696/cardvault-gateway/internal/domain"
	"github.com/kevin07696/cardvault-gateway/internal/domain/ports"
)

const (
	updateVaultFieldsSQL = `
UPDATE payment_methods
   SET vault_token = $2,
       customer_profile_id = $3,
       last_digits = $4,
       card_type = $5,
       updated_at = $6
 WHERE id = $1`

	getPaymentMethodSQL = `
SELECT id, vault_token, customer_profile_id, month, year, name,
       last_digits, card_type, created_at, updated_at
  FROM payment_methods
 WHERE id = $1`

	insertPaymentMethodSQL = `
INSERT INTO payment_methods (id, vault_token, customer_profile_id, month, year, name,
                             last_digits, card_type, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
)

// PaymentMethodRepository persists the vault fields of payment methods.
// Raw card numbers and verification values are never written.
type PaymentMethodRepository struct {
	db           ports.DBTX
	logger       *zap.Logger
	queryTimeout time.Duration
}

var _ ports.PaymentMethodRepository = (*PaymentMethodRepository)(nil)

// NewPaymentMethodRepository creates a repository on a pool or transaction
func NewPaymentMethodRepository(db ports.DBTX, queryTimeout time.Duration, logger *zap.Logger) *PaymentMethodRepository {
	return &PaymentMethodRepository{
		db:           db,
		logger:       logger,
		queryTimeout: queryTimeout,
	}
}

func (r *PaymentMethodRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.queryTimeout)
}

// Create inserts a payment method row
func (r *PaymentMethodRepository) Create(ctx context.Context, pm *domain.PaymentMethod) error {
	if err := validateKey(pm); err != nil {
		return err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	_, err := r.db.Exec(ctx, insertPaymentMethodSQL,
		pm.ID,
		nullText(pm.VaultToken),
		nullText(pm.CustomerProfileID),
		pm.Month,
		pm.Year,
		pm.Name,
		pm.LastDigits,
		pm.CardType,
		pm.CreatedAt,
		pm.UpdatedAt,
	)
	if err != nil {
		return domain.WrapError(domain.ErrorCodeDatabaseError, "insert payment method", err)
	}
	return nil
}

// SaveVaultFields writes the processor-issued fields back to the row
func (r *PaymentMethodRepository) SaveVaultFields(ctx context.Context, pm *domain.PaymentMethod) error {
	if err := validateKey(pm); err != nil {
		return err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(ctx, updateVaultFieldsSQL,
		pm.ID,
		nullText(pm.VaultToken),
		nullText(pm.CustomerProfileID),
		pm.LastDigits,
		pm.CardType,
		pm.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to update payment method vault fields",
			zap.String("payment_method_id", pm.ID),
			zap.Error(err),
		)
		return domain.WrapError(domain.ErrorCodeDatabaseError, "update payment method", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrPMNotFound.WithDetail("payment_method_id", pm.ID)
	}
	return nil
}

// GetByID loads a payment method. Raw card fields come back empty.
func (r *PaymentMethodRepository) GetByID(ctx context.Context, id string) (*domain.PaymentMethod, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var (
		pm                domain.PaymentMethod
		vaultToken        pgtype.Text
		customerProfileID pgtype.Text
	)

	err := r.db.QueryRow(ctx, getPaymentMethodSQL, id).Scan(
		&pm.ID,
		&vaultToken,
		&customerProfileID,
		&pm.Month,
		&pm.Year,
		&pm.Name,
		&pm.LastDigits,
		&pm.CardType,
		&pm.CreatedAt,
		&pm.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPMNotFound.WithDetail("payment_method_id", id)
	}
	if err != nil {
		return nil, domain.WrapError(domain.ErrorCodeDatabaseError, "get payment method", err)
	}

	pm.VaultToken = textPtr(vaultToken)
	pm.CustomerProfileID = textPtr(customerProfileID)
	return &pm, nil
}

func validateKey(pm *domain.PaymentMethod) error {
	if pm == nil {
		return domain.ErrPMRequired
	}
	if pm.ID == "" {
		return domain.ErrValidationFailed.WithDetail("field", "id")
	}
	return nil
}
