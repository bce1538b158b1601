package product

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sdauto/catalog-backend/pkg/db/models"
	pkgerrors "github.com/sdauto/catalog-backend/pkg/errors"
)

// Exercises the real partial unique index and numeric columns; requires a
// migrated Postgres pointed at by SDAUTO_TEST_DB_DSN.
func TestRepositoryPartNumberConflictPostgres(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	err := conn.Transaction(func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		brandRow := mustCreateTestBrand(t, tx, "PG Brand "+uuid.NewString())

		first := mustCreateTestProduct(t, tx, brandRow.ID, nil)

		dup := *first
		dup.ID = uuid.Nil
		_, err := repo.Create(ctx, &dup)
		var appErr *pkgerrors.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, pkgerrors.CodeConflict, appErr.Code())

		return gorm.ErrInvalidTransaction // force rollback, keep the DB clean
	})
	require.ErrorIs(t, err, gorm.ErrInvalidTransaction)
}

func TestRepositoryNumericRoundTripPostgres(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	err := conn.Transaction(func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		brandRow := mustCreateTestBrand(t, tx, "PG Brand "+uuid.NewString())

		created := mustCreateTestProduct(t, tx, brandRow.ID, func(p *models.Product) {
			p.Price = decimal.RequireFromString("1234.56")
		})

		got, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, got.Price.Equal(decimal.RequireFromString("1234.56")))

		return gorm.ErrInvalidTransaction
	})
	require.ErrorIs(t, err, gorm.ErrInvalidTransaction)
}
