package product

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	brand "github.com/sdauto/catalog-backend/internal/brands"
	"github.com/sdauto/catalog-backend/internal/media"
	"github.com/sdauto/catalog-backend/pkg/db"
	"github.com/sdauto/catalog-backend/pkg/db/models"
	"github.com/sdauto/catalog-backend/pkg/enums"
	pkgerrors "github.com/sdauto/catalog-backend/pkg/errors"
	"github.com/sdauto/catalog-backend/pkg/logger"
	"github.com/sdauto/catalog-backend/pkg/pagination"
)

// Service exposes catalog product management operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*ProductDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*ProductDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, input ListInput) (*ListPage, error)
	Stats(ctx context.Context) (*Stats, error)
	Categories(ctx context.Context) ([]string, error)
	UpdateStock(ctx context.Context, id uuid.UUID, op enums.StockOperation, amount int) (*ProductDTO, error)
	Discount(ctx context.Context, id uuid.UUID, percentage decimal.Decimal, anchorOriginal bool) (*ProductDTO, error)
	RemoveImages(ctx context.Context, id uuid.UUID, refs []string) (*ProductDTO, error)
	RemoveVideos(ctx context.Context, id uuid.UUID, refs []string) (*ProductDTO, error)
	Bulk(ctx context.Context, input BulkInput) (*BulkResult, error)
}

// MediaInput carries the media mutations accompanying a create or update.
// ImageURLs are normalized and stored as references without download;
// RemoteImageURLs are fetched into the blob store first.
type MediaInput struct {
	ImageURLs       []string
	RemoteImageURLs []string
	Uploads         []media.Upload
	RemoveImages    []string
	VideoURLs       []string
	RemoveVideos    []string
}

// CreateInput holds the validated payload to create a product.
type CreateInput struct {
	Name          string
	BrandName     string
	Category      string
	PartNumber    string
	Condition     enums.Condition
	Quantity      int
	Price         decimal.Decimal
	OriginalPrice *decimal.Decimal
	Description   string
	IsActive      *bool
	Media         MediaInput
}

// UpdateInput holds mutation values for a product. Nil scalar pointers leave
// the current value in place, so the same shape serves both full and partial
// updates.
type UpdateInput struct {
	Name          *string
	BrandName     *string
	Category      *string
	PartNumber    *string
	Condition     *enums.Condition
	Quantity      *int
	Price         *decimal.Decimal
	OriginalPrice *decimal.Decimal
	Description   *string
	IsActive      *bool
	Media         MediaInput
}

// ListPage is a page of DTOs plus paging metadata.
type ListPage struct {
	Items []*ProductDTO   `json:"items"`
	Meta  pagination.Meta `json:"meta"`
}

type mediaManager interface {
	ResolveImages(ctx context.Context, current []string, changes media.ImageChanges) ([]string, error)
	ResolveVideos(ctx context.Context, current []string, changes media.VideoChanges) ([]string, error)
}

type service struct {
	repo      *Repository
	brandRepo *brand.Repository
	dbClient  *db.Client
	media     mediaManager
	resolve   URLResolver
	logg      *logger.Logger
}

// NewService constructs the product service.
func NewService(repo *Repository, brandRepo *brand.Repository, dbClient *db.Client, mediaMgr mediaManager, resolve URLResolver, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if brandRepo == nil {
		return nil, fmt.Errorf("brand repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if mediaMgr == nil {
		return nil, fmt.Errorf("media manager required")
	}
	if resolve == nil {
		return nil, fmt.Errorf("url resolver required")
	}
	return &service{
		repo:      repo,
		brandRepo: brandRepo,
		dbClient:  dbClient,
		media:     mediaMgr,
		resolve:   resolve,
		logg:      logg,
	}, nil
}

// Create resolves media, then persists the product and its brand inside one
// transaction. Blob writes that happened during media resolution are not
// retracted if the transaction fails; failed updates can leave orphaned
// artifacts behind (known cleanup gap).
func (s *service) Create(ctx context.Context, input CreateInput) (*ProductDTO, error) {
	if err := validateScalars(input.Quantity, input.Price, input.OriginalPrice); err != nil {
		return nil, err
	}
	if !input.Condition.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown condition %q", input.Condition))
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(input.PartNumber) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "part_number is required")
	}

	images, videos, err := s.resolveMedia(ctx, nil, nil, input.Media)
	if err != nil {
		return nil, err
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	var createdID uuid.UUID
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		// The unique index is the real guard; this pre-flight turns the
		// common duplicate into a conflict before the insert attempt.
		inUse, err := s.repo.WithTx(tx).PartNumberInUse(ctx, strings.TrimSpace(input.PartNumber), uuid.Nil)
		if err != nil {
			return err
		}
		if inUse {
			return pkgerrors.New(pkgerrors.CodeConflict, "part number already in use")
		}

		brandRow, err := s.brandRepo.WithTx(tx).FindOrCreateByName(ctx, input.BrandName)
		if err != nil {
			return err
		}

		row := &models.Product{
			Name:          strings.TrimSpace(input.Name),
			BrandID:       brandRow.ID,
			Category:      strings.TrimSpace(input.Category),
			PartNumber:    strings.TrimSpace(input.PartNumber),
			Condition:     input.Condition,
			Quantity:      input.Quantity,
			Price:         input.Price,
			OriginalPrice: input.OriginalPrice,
			Description:   input.Description,
			Images:        images,
			Videos:        videos,
			IsActive:      isActive,
		}
		created, err := s.repo.WithTx(tx).Create(ctx, row)
		if err != nil {
			return err
		}
		createdID = created.ID
		return nil
	}); err != nil {
		return nil, err
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithProductID(ctx, createdID.String()), "product created")
	}
	return s.Get(ctx, createdID)
}

// Update replaces the provided scalar fields and applies incremental media
// changes. The media stage runs before the transaction; see Create for the
// orphaned-blob caveat.
func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*ProductDTO, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	quantity := current.Quantity
	if input.Quantity != nil {
		quantity = *input.Quantity
	}
	price := current.Price
	if input.Price != nil {
		price = *input.Price
	}
	originalPrice := current.OriginalPrice
	if input.OriginalPrice != nil {
		originalPrice = input.OriginalPrice
	}
	if err := validateScalars(quantity, price, originalPrice); err != nil {
		return nil, err
	}
	if input.Condition != nil && !input.Condition.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown condition %q", *input.Condition))
	}

	images, videos, err := s.resolveMedia(ctx, current.Images, current.Videos, input.Media)
	if err != nil {
		return nil, err
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if input.PartNumber != nil {
			clean := strings.TrimSpace(*input.PartNumber)
			inUse, err := s.repo.WithTx(tx).PartNumberInUse(ctx, clean, id)
			if err != nil {
				return err
			}
			if inUse {
				return pkgerrors.New(pkgerrors.CodeConflict, "part number already in use")
			}
		}

		if input.BrandName != nil {
			brandRow, err := s.brandRepo.WithTx(tx).FindOrCreateByName(ctx, *input.BrandName)
			if err != nil {
				return err
			}
			current.BrandID = brandRow.ID
			current.Brand = nil
		}

		if input.Name != nil {
			current.Name = strings.TrimSpace(*input.Name)
		}
		if input.Category != nil {
			current.Category = strings.TrimSpace(*input.Category)
		}
		if input.PartNumber != nil {
			current.PartNumber = strings.TrimSpace(*input.PartNumber)
		}
		if input.Condition != nil {
			current.Condition = *input.Condition
		}
		if input.Description != nil {
			current.Description = *input.Description
		}
		if input.IsActive != nil {
			current.IsActive = *input.IsActive
		}
		current.Quantity = quantity
		current.Price = price
		current.OriginalPrice = originalPrice
		current.Images = images
		current.Videos = videos

		_, err := s.repo.WithTx(tx).Update(ctx, current)
		return err
	}); err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

// Get loads one product.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewProductDTO(row, s.resolve), nil
}

// Delete soft-deletes the product. Stored media artifacts are intentionally
// left in place.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

// List returns a page of products.
func (s *service) List(ctx context.Context, input ListInput) (*ListPage, error) {
	result, err := s.repo.List(ctx, input)
	if err != nil {
		return nil, err
	}
	return &ListPage{
		Items: NewProductDTOs(result.Items, s.resolve),
		Meta:  result.Meta,
	}, nil
}

// Stats returns catalog-wide counters.
func (s *service) Stats(ctx context.Context) (*Stats, error) {
	return s.repo.GetStats(ctx)
}

// Categories returns the distinct categories in use.
func (s *service) Categories(ctx context.Context) ([]string, error) {
	return s.repo.ListCategories(ctx)
}

// UpdateStock applies one quantity operation to a product.
func (s *service) UpdateStock(ctx context.Context, id uuid.UUID, op enums.StockOperation, amount int) (*ProductDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := ApplyQuantity(row.Quantity, op, amount)
	if err != nil {
		return nil, err
	}
	row.Quantity = next

	if _, err := s.repo.Update(ctx, row); err != nil {
		return nil, err
	}
	return NewProductDTO(row, s.resolve), nil
}

// Discount applies a percentage discount. anchorOriginal records the current
// price as original_price first when none is set yet.
func (s *service) Discount(ctx context.Context, id uuid.UUID, percentage decimal.Decimal, anchorOriginal bool) (*ProductDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := ApplyDiscount(row, percentage, anchorOriginal); err != nil {
		return nil, err
	}

	if _, err := s.repo.Update(ctx, row); err != nil {
		return nil, err
	}
	return NewProductDTO(row, s.resolve), nil
}

// RemoveImages removes the referenced images and deletes their stored
// artifacts. Unknown references are ignored.
func (s *service) RemoveImages(ctx context.Context, id uuid.UUID, refs []string) (*ProductDTO, error) {
	return s.applyMediaOnly(ctx, id, MediaInput{RemoveImages: refs})
}

// RemoveVideos removes the referenced video ids. Unparseable references are
// ignored.
func (s *service) RemoveVideos(ctx context.Context, id uuid.UUID, refs []string) (*ProductDTO, error) {
	return s.applyMediaOnly(ctx, id, MediaInput{RemoveVideos: refs})
}

func (s *service) applyMediaOnly(ctx context.Context, id uuid.UUID, m MediaInput) (*ProductDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	images, videos, err := s.resolveMedia(ctx, row.Images, row.Videos, m)
	if err != nil {
		return nil, err
	}
	row.Images = images
	row.Videos = videos

	if _, err := s.repo.Update(ctx, row); err != nil {
		return nil, err
	}
	return NewProductDTO(row, s.resolve), nil
}

func (s *service) resolveMedia(ctx context.Context, curImages, curVideos []string, m MediaInput) ([]string, []string, error) {
	images, err := s.media.ResolveImages(ctx, curImages, media.ImageChanges{
		Remove:     m.RemoveImages,
		AddURLs:    m.ImageURLs,
		RemoteURLs: m.RemoteImageURLs,
		Uploads:    m.Uploads,
	})
	if err != nil {
		return nil, nil, err
	}

	videos, err := s.media.ResolveVideos(ctx, curVideos, media.VideoChanges{
		Remove: m.RemoveVideos,
		Add:    m.VideoURLs,
	})
	if err != nil {
		return nil, nil, err
	}
	return images, videos, nil
}

func validateScalars(quantity int, price decimal.Decimal, originalPrice *decimal.Decimal) error {
	if quantity < 0 || quantity > MaxQuantity {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("quantity must be between 0 and %d", MaxQuantity))
	}
	if err := ValidatePrice(price); err != nil {
		return err
	}
	if originalPrice != nil {
		if err := ValidatePrice(*originalPrice); err != nil {
			return err
		}
		if price.GreaterThan(*originalPrice) {
			return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be higher than original_price")
		}
	}
	return nil
}
