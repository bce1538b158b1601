package controllers

import (
	"net/http"

	"github.com/sdauto/catalog-backend/api/responses"
	brandrepo "github.com/sdauto/catalog-backend/internal/brands"
	"github.com/sdauto/catalog-backend/pkg/logger"
)

func ListBrands(repo *brandrepo.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		brands, err := repo.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"brands": brands})
	}
}
