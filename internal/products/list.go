package product

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sdauto/catalog-backend/pkg/db/models"
	"github.com/sdauto/catalog-backend/pkg/enums"
	pkgerrors "github.com/sdauto/catalog-backend/pkg/errors"
	"github.com/sdauto/catalog-backend/pkg/pagination"
)

// ListFilters narrows the product listing.
type ListFilters struct {
	Search    string
	BrandID   *uuid.UUID
	Category  string
	Condition *enums.Condition
	IsActive  *bool
	InStock   *bool
}

// ListInput combines filters, sorting, and pagination for a listing query.
type ListInput struct {
	Filters    ListFilters
	SortBy     string
	SortDesc   bool
	Pagination pagination.Params
}

// ListResult is one page of products plus paging metadata.
type ListResult struct {
	Items []models.Product
	Meta  pagination.Meta
}

// Stats summarizes the catalog for dashboard views. InventoryValue sums
// price*quantity over all live products; DiscountSavings sums what the
// anchored original prices would have cost on top of the current ones.
type Stats struct {
	Total           int64           `json:"total"`
	Active          int64           `json:"active"`
	Inactive        int64           `json:"inactive"`
	OutOfStock      int64           `json:"out_of_stock"`
	OnDiscount      int64           `json:"on_discount"`
	InventoryValue  decimal.Decimal `json:"total_inventory_value"`
	DiscountSavings decimal.Decimal `json:"total_discount_savings"`
}

// sortColumns is the allow-list of sortable fields; anything else falls back
// to created_at so callers cannot inject arbitrary SQL through sort params.
var sortColumns = map[string]string{
	"name":       "name",
	"price":      "price",
	"quantity":   "quantity",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// List returns one page of products matching the filters.
func (r *Repository) List(ctx context.Context, input ListInput) (*ListResult, error) {
	params := input.Pagination.Normalize()

	base := r.db.WithContext(ctx).Model(&models.Product{})
	base = applyFilters(base, input.Filters)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products")
	}

	column, ok := sortColumns[strings.ToLower(strings.TrimSpace(input.SortBy))]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if input.SortDesc || input.SortBy == "" {
		direction = "DESC"
	}

	var rows []models.Product
	err := base.
		Preload("Brand").
		Order(column + " " + direction).
		Offset(params.Offset()).
		Limit(params.PerPage).
		Find(&rows).
		Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	return &ListResult{
		Items: rows,
		Meta:  pagination.NewMeta(params, total),
	}, nil
}

// GetStats computes catalog-wide counters over live products.
func (r *Repository) GetStats(ctx context.Context) (*Stats, error) {
	var stats Stats
	base := func() *gorm.DB { return r.db.WithContext(ctx).Model(&models.Product{}) }

	if err := base().Count(&stats.Total).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products")
	}
	if err := base().Where("is_active = ?", true).Count(&stats.Active).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count active products")
	}
	stats.Inactive = stats.Total - stats.Active
	if err := base().Where("quantity = 0").Count(&stats.OutOfStock).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count out of stock products")
	}
	if err := base().Where("original_price IS NOT NULL AND original_price > price").Count(&stats.OnDiscount).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count discounted products")
	}

	// Row().Scan goes through database/sql, which knows how to scan the
	// aggregate into a decimal.
	row := base().Select("COALESCE(SUM(price * quantity), 0)").Row()
	if err := row.Scan(&stats.InventoryValue); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum inventory value")
	}
	row = base().
		Where("original_price IS NOT NULL").
		Select("COALESCE(SUM((original_price - price) * quantity), 0)").
		Row()
	if err := row.Scan(&stats.DiscountSavings); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum discount savings")
	}
	return &stats, nil
}

// ListCategories returns the distinct non-empty categories in use.
func (r *Repository) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("category IS NOT NULL AND category <> ''").
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).
		Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return categories, nil
}

func applyFilters(q *gorm.DB, f ListFilters) *gorm.DB {
	if search := strings.TrimSpace(f.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(part_number) LIKE ?", like, like)
	}
	if f.BrandID != nil {
		q = q.Where("brand_id = ?", *f.BrandID)
	}
	if category := strings.TrimSpace(f.Category); category != "" {
		q = q.Where("category = ?", category)
	}
	if f.Condition != nil {
		q = q.Where("condition = ?", *f.Condition)
	}
	if f.IsActive != nil {
		q = q.Where("is_active = ?", *f.IsActive)
	}
	if f.InStock != nil {
		if *f.InStock {
			q = q.Where("quantity > 0")
		} else {
			q = q.Where("quantity = 0")
		}
	}
	return q
}
