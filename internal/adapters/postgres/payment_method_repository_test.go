package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kevin07696/cardvault-gateway/internal/domain"
	"github.com/kevin07696/cardvault-gateway/internal/testutil/fixtures"
)

// fakeDB records the last statement and answers with canned results
type fakeDB struct {
	sql  string
	args []interface{}

	tag     pgconn.CommandTag
	execErr error
	row     pgx.Row
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	f.sql, f.args = sql, args
	return f.tag, f.execErr
}

func (f *fakeDB) Query(context.Context, string, ...interface{}) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, args ...interface{}) pgx.Row {
	f.sql, f.args = sql, args
	return f.row
}

type fakeRow struct {
	scan func(dest ...interface{}) error
}

func (r fakeRow) Scan(dest ...interface{}) error { return r.scan(dest...) }

func TestSaveVaultFields(t *testing.T) {
	updatedAt := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		pm          *domain.PaymentMethod
		tag         pgconn.CommandTag
		execErr     error
		wantErrCode domain.ErrorCode
		wantArgs    []interface{}
	}{
		{
			name: "updates_row",
			pm: &domain.PaymentMethod{
				ID: "pm_1", VaultToken: fixtures.StringPtr("tok_1"), CustomerProfileID: fixtures.StringPtr("cust_1"),
				LastDigits: "1111", CardType: "visa", UpdatedAt: updatedAt,
			},
			tag: pgconn.NewCommandTag("UPDATE 1"),
			wantArgs: []interface{}{
				"pm_1",
				pgtype.Text{String: "tok_1", Valid: true},
				pgtype.Text{String: "cust_1", Valid: true},
				"1111", "visa", updatedAt,
			},
		},
		{
			name: "nil_fields_become_null",
			pm:   &domain.PaymentMethod{ID: "pm_2", UpdatedAt: updatedAt},
			tag:  pgconn.NewCommandTag("UPDATE 1"),
			wantArgs: []interface{}{
				"pm_2", pgtype.Text{}, pgtype.Text{}, "", "", updatedAt,
			},
		},
		{
			name:        "missing_row",
			pm:          &domain.PaymentMethod{ID: "pm_3"},
			tag:         pgconn.NewCommandTag("UPDATE 0"),
			wantErrCode: domain.ErrorCodePMNotFound,
		},
		{
			name:        "database_error",
			pm:          &domain.PaymentMethod{ID: "pm_4"},
			execErr:     errors.New("connection reset"),
			wantErrCode: domain.ErrorCodeDatabaseError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &fakeDB{tag: tt.tag, execErr: tt.execErr}
			repo := NewPaymentMethodRepository(db, time.Second, zap.NewNop())

			err := repo.SaveVaultFields(context.Background(), tt.pm)

			if tt.wantErrCode != "" {
				assert.True(t, domain.IsDomainError(err, tt.wantErrCode), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, updateVaultFieldsSQL, db.sql)
			assert.Equal(t, tt.wantArgs, db.args)
		})
	}
}

func TestGetByID(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	db := &fakeDB{row: fakeRow{scan: func(dest ...interface{}) error {
		require.Len(t, dest, 10)
		*dest[0].(*string) = "pm_1"
		*dest[1].(*pgtype.Text) = pgtype.Text{String: "tok_1", Valid: true}
		*dest[2].(*pgtype.Text) = pgtype.Text{}
		*dest[3].(*int) = 12
		*dest[4].(*int) = 2030
		*dest[5].(*string) = "Jane Doe"
		*dest[6].(*string) = "1111"
		*dest[7].(*string) = "visa"
		*dest[8].(*time.Time) = created
		*dest[9].(*time.Time) = created
		return nil
	}}}
	repo := NewPaymentMethodRepository(db, 0, zap.NewNop())

	pm, err := repo.GetByID(context.Background(), "pm_1")

	require.NoError(t, err)
	assert.Equal(t, []interface{}{"pm_1"}, db.args)
	require.NotNil(t, pm.VaultToken)
	assert.Equal(t, "tok_1", *pm.VaultToken)
	assert.Nil(t, pm.CustomerProfileID)
	assert.Equal(t, 2030, pm.Year)
	assert.Empty(t, pm.Number)
	assert.Equal(t, created, pm.CreatedAt)
}

func TestGetByID_NotFound(t *testing.T) {
	db := &fakeDB{row: fakeRow{scan: func(...interface{}) error { return pgx.ErrNoRows }}}
	repo := NewPaymentMethodRepository(db, 0, zap.NewNop())

	_, err := repo.GetByID(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrPMNotFound)
}

func TestWrites_RequireKey(t *testing.T) {
	db := &fakeDB{}
	repo := NewPaymentMethodRepository(db, 0, zap.NewNop())

	err := repo.SaveVaultFields(context.Background(), &domain.PaymentMethod{})
	assert.ErrorIs(t, err, domain.ErrValidationFailed)

	err = repo.Create(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrPMRequired)

	assert.Empty(t, db.sql)
}

func TestMigrate(t *testing.T) {
	db := &fakeDB{}

	require.NoError(t, Migrate(context.Background(), db))
	assert.Contains(t, db.sql, "CREATE TABLE IF NOT EXISTS payment_methods")
}
