package product

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sdauto/catalog-backend/pkg/enums"
	pkgerrors "github.com/sdauto/catalog-backend/pkg/errors"
)

const (
	// MaxBulkIDs bounds one bulk request.
	MaxBulkIDs = 100
)

// BulkInput is one bulk mutation request: an action over 1 to MaxBulkIDs
// product ids plus the action-specific parameters.
type BulkInput struct {
	Action             enums.BulkAction
	IDs                []uuid.UUID
	Quantity           *int
	Operation          *enums.StockOperation
	Price              *decimal.Decimal
	OriginalPrice      *decimal.Decimal
	DiscountPercentage *decimal.Decimal
	SetOriginalPrice   *bool
}

// BulkResult reports what a bulk mutation touched.
type BulkResult struct {
	Action   string `json:"action"`
	Affected int    `json:"affected"`
}

// Bulk applies one action to every id inside a single transaction. Any
// missing id or per-row failure rolls the whole batch back, so partial
// application is impossible.
func (s *service) Bulk(ctx context.Context, input BulkInput) (*BulkResult, error) {
	if !input.Action.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown bulk action %q", input.Action))
	}
	if len(input.IDs) == 0 || len(input.IDs) > MaxBulkIDs {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("ids must contain between 1 and %d entries", MaxBulkIDs))
	}
	if err := validateBulkParams(input); err != nil {
		return nil, err
	}

	affected := 0
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		rows, err := txRepo.FindByIDs(ctx, input.IDs)
		if err != nil {
			return err
		}
		if len(rows) != len(uniqueIDs(input.IDs)) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "one or more products not found")
		}

		for i := range rows {
			row := &rows[i]
			switch input.Action {
			case enums.BulkActionActivate:
				row.IsActive = true
			case enums.BulkActionDeactivate:
				row.IsActive = false
			case enums.BulkActionDelete:
				if err := txRepo.SoftDelete(ctx, row.ID); err != nil {
					return err
				}
				affected++
				continue
			case enums.BulkActionUpdateStock:
				next, err := ApplyQuantity(row.Quantity, *input.Operation, *input.Quantity)
				if err != nil {
					return err
				}
				row.Quantity = next
			case enums.BulkActionUpdatePrice:
				row.Price = *input.Price
				if input.OriginalPrice != nil {
					row.OriginalPrice = input.OriginalPrice
				}
			case enums.BulkActionApplyDiscount:
				anchor := input.SetOriginalPrice == nil || *input.SetOriginalPrice
				if err := ApplyDiscount(row, *input.DiscountPercentage, anchor); err != nil {
					return err
				}
			}

			if _, err := txRepo.Update(ctx, row); err != nil {
				return err
			}
			affected++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &BulkResult{Action: input.Action.String(), Affected: affected}, nil
}

func validateBulkParams(input BulkInput) error {
	switch input.Action {
	case enums.BulkActionUpdateStock:
		if input.Quantity == nil || input.Operation == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "quantity and operation are required for update_stock")
		}
		if !input.Operation.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown stock operation %q", *input.Operation))
		}
	case enums.BulkActionUpdatePrice:
		if input.Price == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "price is required for update_price")
		}
		if err := ValidatePrice(*input.Price); err != nil {
			return err
		}
		if input.OriginalPrice != nil {
			if err := ValidatePrice(*input.OriginalPrice); err != nil {
				return err
			}
			if input.Price.GreaterThan(*input.OriginalPrice) {
				return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be higher than original_price")
			}
		}
	case enums.BulkActionApplyDiscount:
		if input.DiscountPercentage == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "discount_percentage is required for apply_discount")
		}
	}
	return nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
