package product

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	brand "github.com/sdauto/catalog-backend/internal/brands"
	"github.com/sdauto/catalog-backend/pkg/db"
	"github.com/sdauto/catalog-backend/pkg/db/models"
	"github.com/sdauto/catalog-backend/pkg/enums"
)

func openMemoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Brand{}, &models.Product{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// AutoMigrate cannot express the partial index; create it directly so
	// part number conflicts behave like production.
	if err := conn.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_products_part_number_live ON products (part_number) WHERE deleted_at IS NULL").Error; err != nil {
		t.Fatalf("create partial index: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, err := conn.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

func newTestClient(t *testing.T) (*db.Client, *gorm.DB) {
	t.Helper()
	conn := openMemoryDB(t)
	return db.NewWithConn(conn), conn
}

func mustCreateTestBrand(t *testing.T, tx *gorm.DB, name string) *models.Brand {
	t.Helper()
	row, err := brand.NewRepository(tx).FindOrCreateByName(context.Background(), name)
	if err != nil {
		t.Fatalf("create brand: %v", err)
	}
	return row
}

func mustCreateTestProduct(t *testing.T, tx *gorm.DB, brandID uuid.UUID, mutate func(*models.Product)) *models.Product {
	t.Helper()
	row := &models.Product{
		Name:       "Oil Filter",
		BrandID:    brandID,
		Category:   "Filters",
		PartNumber: fmt.Sprintf("PN-%s", uuid.NewString()),
		Condition:  enums.ConditionNew,
		Quantity:   10,
		Price:      decimal.NewFromInt(100),
		IsActive:   true,
	}
	if mutate != nil {
		mutate(row)
	}
	if err := tx.Create(row).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return row
}
