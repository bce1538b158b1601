package product

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sdauto/catalog-backend/pkg/db/models"
	"github.com/sdauto/catalog-backend/pkg/enums"
	pkgerrors "github.com/sdauto/catalog-backend/pkg/errors"
)

// MaxQuantity is the largest stock level a product can record.
const MaxQuantity = 999999

var (
	hundred    = decimal.NewFromInt(100)
	maxPrice   = decimal.RequireFromString("99999999.99")
	twoPlaces  = int32(2)
	zeroAmount = decimal.Zero
)

// ApplyQuantity computes the new stock level for a product. The clamp to
// [0, MaxQuantity] happens after the arithmetic, so subtract can floor at
// zero and add can saturate at the cap.
func ApplyQuantity(current int, op enums.StockOperation, amount int) (int, error) {
	if amount < 0 || amount > MaxQuantity {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("quantity must be between 0 and %d", MaxQuantity))
	}

	var next int
	switch op {
	case enums.StockOperationSet:
		next = amount
	case enums.StockOperationAdd:
		next = current + amount
	case enums.StockOperationSubtract:
		next = current - amount
	default:
		return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown stock operation %q", op))
	}

	if next < 0 {
		next = 0
	}
	if next > MaxQuantity {
		next = MaxQuantity
	}
	return next, nil
}

// ApplyDiscount rewrites the product's price as a percentage off its base
// price. With anchorOriginal set and no original price recorded yet, the
// current price becomes the anchor first, so repeated discounts never
// compound against an already-discounted price. Without the anchor the
// product keeps a nil original price and the discount applies to whatever
// the current price happens to be; an existing original price is honored
// either way.
func ApplyDiscount(p *models.Product, percentage decimal.Decimal, anchorOriginal bool) error {
	if percentage.LessThan(zeroAmount) || percentage.GreaterThan(hundred) {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount percentage must be between 0 and 100")
	}

	if anchorOriginal && p.OriginalPrice == nil {
		anchor := p.Price
		p.OriginalPrice = &anchor
	}

	base := p.Price
	if p.OriginalPrice != nil {
		base = *p.OriginalPrice
	}
	factor := hundred.Sub(percentage).Div(hundred)
	p.Price = base.Mul(factor).Round(twoPlaces)
	return nil
}

// ValidatePrice bounds a price value for writes.
func ValidatePrice(value decimal.Decimal) error {
	if value.LessThan(zeroAmount) {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if value.GreaterThan(maxPrice) {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("price cannot exceed %s", maxPrice))
	}
	return nil
}
