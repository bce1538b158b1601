package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	dbtypes "github.com/sdauto/catalog-backend/pkg/db/types"
	"github.com/sdauto/catalog-backend/pkg/enums"
)

// Product is the canonical catalog listing. Images holds ordered relative
// storage paths (index 0 is the primary image); Videos holds canonical
// 11-character video ids, never raw URLs.
type Product struct {
	ID            uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	Name          string             `gorm:"column:name;not null"`
	BrandID       uuid.UUID          `gorm:"column:brand_id;type:uuid;not null"`
	Brand         *Brand             `gorm:"foreignKey:BrandID"`
	Category      string             `gorm:"column:category"`
	PartNumber    string             `gorm:"column:part_number;not null"`
	Condition     enums.Condition    `gorm:"column:condition;not null"`
	Quantity      int                `gorm:"column:quantity;not null;default:0"`
	Price         decimal.Decimal    `gorm:"column:price;type:numeric(10,2);not null"`
	OriginalPrice *decimal.Decimal   `gorm:"column:original_price;type:numeric(10,2)"`
	Description   string             `gorm:"column:description"`
	Images        dbtypes.StringList `gorm:"column:images;not null;default:'[]'"`
	Videos        dbtypes.StringList `gorm:"column:videos;not null;default:'[]'"`
	// gorm omits zero-valued fields carrying a default tag from the
	// INSERT, so a default:true here would persist is_active=false as
	// true.
	IsActive  bool           `gorm:"column:is_active;not null"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

// BeforeCreate assigns the identity client-side so the model works on both
// Postgres and sqlite.
func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// OnDiscount reports whether the product carries an anchored pre-discount
// price above the current price.
func (p *Product) OnDiscount() bool {
	return p.OriginalPrice != nil && p.OriginalPrice.GreaterThan(p.Price)
}
