package brand

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sdauto/catalog-backend/pkg/db"
	"github.com/sdauto/catalog-backend/pkg/db/models"
	pkgerrors "github.com/sdauto/catalog-backend/pkg/errors"
)

// Summary is the listing row: a brand plus how many live products carry it.
type Summary struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	ProductCount int64     `json:"product_count"`
}

// Repository persists brand rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindOrCreateByName resolves a brand by exact name, creating the row when it
// does not exist yet. Safe under concurrent creates: a unique violation on
// insert falls back to re-reading the winner.
func (r *Repository) FindOrCreateByName(ctx context.Context, name string) (*models.Brand, error) {
	clean := strings.TrimSpace(name)
	if clean == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "brand name is required")
	}

	var brand models.Brand
	err := r.db.WithContext(ctx).First(&brand, "name = ?", clean).Error
	if err == nil {
		return &brand, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up brand by name")
	}

	brand = models.Brand{Name: clean}
	if err := r.db.WithContext(ctx).Create(&brand).Error; err != nil {
		if db.IsUniqueViolation(err, "idx_brands_name") {
			var winner models.Brand
			if ferr := r.db.WithContext(ctx).First(&winner, "name = ?", clean).Error; ferr != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, ferr, "re-read brand after create race")
			}
			return &winner, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert brand")
	}
	return &brand, nil
}

// FindByID loads a single brand.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Brand, error) {
	var brand models.Brand
	if err := r.db.WithContext(ctx).First(&brand, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "brand not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load brand")
	}
	return &brand, nil
}

// List returns every brand alphabetically with its live (non-deleted)
// product count.
func (r *Repository) List(ctx context.Context) ([]Summary, error) {
	var rows []Summary
	err := r.db.WithContext(ctx).
		Table("brands b").
		Select("b.id, b.name, COUNT(p.id) AS product_count").
		Joins("LEFT JOIN products p ON p.brand_id = b.id AND p.deleted_at IS NULL").
		Group("b.id, b.name").
		Order("b.name ASC").
		Scan(&rows).
		Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list brands")
	}
	return rows, nil
}
