package brand

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sdauto/catalog-backend/pkg/db/models"
	"github.com/sdauto/catalog-backend/pkg/enums"
	pkgerrors "github.com/sdauto/catalog-backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Brand{}, &models.Product{}))
	t.Cleanup(func() {
		sqlDB, err := conn.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

func TestFindOrCreateByName(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(newTestDB(t))

	created, err := repo.FindOrCreateByName(ctx, "Bosch")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "Bosch", created.Name)

	found, err := repo.FindOrCreateByName(ctx, "Bosch")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID, "second call must return the existing brand")

	trimmed, err := repo.FindOrCreateByName(ctx, "  Bosch  ")
	require.NoError(t, err)
	assert.Equal(t, created.ID, trimmed.ID)
}

func TestFindOrCreateByNameRejectsEmpty(t *testing.T) {
	repo := NewRepository(newTestDB(t))

	_, err := repo.FindOrCreateByName(context.Background(), "   ")
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestFindByID(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(newTestDB(t))

	created, err := repo.FindOrCreateByName(ctx, "Denso")
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Denso", got.Name)

	_, err = repo.FindByID(ctx, uuid.New())
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestListCountsLiveProducts(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)
	repo := NewRepository(conn)

	bosch, err := repo.FindOrCreateByName(ctx, "Bosch")
	require.NoError(t, err)
	denso, err := repo.FindOrCreateByName(ctx, "Denso")
	require.NoError(t, err)

	makeProduct := func(brandID uuid.UUID, part string) *models.Product {
		return &models.Product{
			Name:       "Part " + part,
			BrandID:    brandID,
			PartNumber: part,
			Condition:  enums.ConditionNew,
			Price:      decimal.NewFromInt(10),
			IsActive:   true,
		}
	}

	require.NoError(t, conn.Create(makeProduct(bosch.ID, "B-1")).Error)
	require.NoError(t, conn.Create(makeProduct(bosch.ID, "B-2")).Error)
	deleted := makeProduct(bosch.ID, "B-3")
	require.NoError(t, conn.Create(deleted).Error)
	require.NoError(t, conn.Delete(deleted).Error)

	rows, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Bosch", rows[0].Name)
	assert.EqualValues(t, 2, rows[0].ProductCount, "soft-deleted products must not count")
	assert.Equal(t, denso.ID, rows[1].ID)
	assert.Equal(t, "Denso", rows[1].Name)
	assert.EqualValues(t, 0, rows[1].ProductCount, "brand without products counts zero")
}
