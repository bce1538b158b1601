package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sdauto/catalog-backend/api/responses"
	"github.com/sdauto/catalog-backend/api/validators"
	productsvc "github.com/sdauto/catalog-backend/internal/products"
	"github.com/sdauto/catalog-backend/pkg/enums"
	pkgerrors "github.com/sdauto/catalog-backend/pkg/errors"
	"github.com/sdauto/catalog-backend/pkg/logger"
)

type updateStockRequest struct {
	Operation string `json:"operation" validate:"required"`
	Quantity  int    `json:"quantity" validate:"min=0"`
}

func UpdateStock(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateStockRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		op, err := enums.ParseStockOperation(strings.TrimSpace(payload.Operation))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid stock operation"))
			return
		}

		product, err := svc.UpdateStock(r.Context(), id, op, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// SetOriginalPrice defaults to true: the pre-discount price is recorded as
// original_price so later discounts compute off the same base.
type applyDiscountRequest struct {
	Percentage       decimal.Decimal `json:"percentage"`
	SetOriginalPrice *bool           `json:"set_original_price,omitempty"`
}

func ApplyDiscount(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload applyDiscountRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		anchor := payload.SetOriginalPrice == nil || *payload.SetOriginalPrice
		product, err := svc.Discount(r.Context(), id, payload.Percentage, anchor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}
