package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sdauto/catalog-backend/pkg/db/models"
)

// URLResolver maps a stored image reference to its externally visible URL.
type URLResolver func(ref string) string

// BrandDTO is the embedded brand payload.
type BrandDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ProductDTO is the product payload returned to clients. Images carry public
// URLs; Videos carry canonical ids.
type ProductDTO struct {
	ID            uuid.UUID        `json:"id"`
	Name          string           `json:"name"`
	Brand         *BrandDTO        `json:"brand,omitempty"`
	Category      string           `json:"category,omitempty"`
	PartNumber    string           `json:"part_number"`
	Condition     string           `json:"condition"`
	Quantity      int              `json:"quantity"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	OnDiscount    bool             `json:"on_discount"`
	Description   string           `json:"description,omitempty"`
	Images        []string         `json:"images"`
	Videos        []string         `json:"videos"`
	IsActive      bool             `json:"is_active"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// NewProductDTO maps a model row into the response shape.
func NewProductDTO(p *models.Product, resolve URLResolver) *ProductDTO {
	if p == nil {
		return nil
	}

	images := make([]string, 0, len(p.Images))
	for _, ref := range p.Images {
		if resolve != nil {
			images = append(images, resolve(ref))
		} else {
			images = append(images, ref)
		}
	}

	videos := make([]string, 0, len(p.Videos))
	videos = append(videos, p.Videos...)

	dto := &ProductDTO{
		ID:            p.ID,
		Name:          p.Name,
		Category:      p.Category,
		PartNumber:    p.PartNumber,
		Condition:     p.Condition.String(),
		Quantity:      p.Quantity,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		OnDiscount:    p.OnDiscount(),
		Description:   p.Description,
		Images:        images,
		Videos:        videos,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.Brand != nil {
		dto.Brand = &BrandDTO{ID: p.Brand.ID, Name: p.Brand.Name}
	}
	return dto
}

// NewProductDTOs maps a page of rows.
func NewProductDTOs(items []models.Product, resolve URLResolver) []*ProductDTO {
	out := make([]*ProductDTO, len(items))
	for i := range items {
		out[i] = NewProductDTO(&items[i], resolve)
	}
	return out
}
