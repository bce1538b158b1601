package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sdauto/catalog-backend/api/responses"
	"github.com/sdauto/catalog-backend/api/validators"
	productsvc "github.com/sdauto/catalog-backend/internal/products"
	"github.com/sdauto/catalog-backend/pkg/enums"
	pkgerrors "github.com/sdauto/catalog-backend/pkg/errors"
	"github.com/sdauto/catalog-backend/pkg/logger"
)

type bulkProductsRequest struct {
	Action             string           `json:"action" validate:"required"`
	IDs                []string         `json:"ids" validate:"required,min=1,max=100,dive,required"`
	Quantity           *int             `json:"quantity,omitempty" validate:"omitempty,min=0"`
	Operation          *string          `json:"operation,omitempty"`
	Price              *decimal.Decimal `json:"price,omitempty"`
	OriginalPrice      *decimal.Decimal `json:"original_price,omitempty"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage,omitempty"`
	SetOriginalPrice   *bool            `json:"set_original_price,omitempty"`
}

func (r bulkProductsRequest) toInput() (productsvc.BulkInput, error) {
	action, err := enums.ParseBulkAction(strings.TrimSpace(r.Action))
	if err != nil {
		return productsvc.BulkInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid bulk action")
	}

	ids := make([]uuid.UUID, 0, len(r.IDs))
	for _, raw := range r.IDs {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			return productsvc.BulkInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id in ids")
		}
		ids = append(ids, id)
	}

	input := productsvc.BulkInput{
		Action:             action,
		IDs:                ids,
		Quantity:           r.Quantity,
		Price:              r.Price,
		OriginalPrice:      r.OriginalPrice,
		DiscountPercentage: r.DiscountPercentage,
		SetOriginalPrice:   r.SetOriginalPrice,
	}

	if r.Operation != nil {
		op, err := enums.ParseStockOperation(strings.TrimSpace(*r.Operation))
		if err != nil {
			return productsvc.BulkInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid stock operation")
		}
		input.Operation = &op
	}

	return input, nil
}

func BulkProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload bulkProductsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Bulk(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
