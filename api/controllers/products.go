package controllers

import (
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sdauto/catalog-backend/api/responses"
	"github.com/sdauto/catalog-backend/api/validators"
	"github.com/sdauto/catalog-backend/internal/media"
	productsvc "github.com/sdauto/catalog-backend/internal/products"
	"github.com/sdauto/catalog-backend/pkg/config"
	"github.com/sdauto/catalog-backend/pkg/enums"
	pkgerrors "github.com/sdauto/catalog-backend/pkg/errors"
	"github.com/sdauto/catalog-backend/pkg/logger"
	"github.com/sdauto/catalog-backend/pkg/pagination"
)

const (
	multipartPayloadField = "payload"
	multipartImagesField  = "images"
)

// CreateProduct accepts either a JSON body or a multipart form whose
// "payload" field carries the same JSON plus "images" file parts.
func CreateProduct(svc productsvc.Service, mediaCfg config.MediaConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		uploads, err := decodeProductRequest(r, mediaCfg, &payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.Media.Uploads = uploads

		product, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func UpdateProduct(svc productsvc.Service, mediaCfg config.MediaConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		uploads, err := decodeProductRequest(r, mediaCfg, &payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toUpdateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.Media.Uploads = uploads

		product, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

func GetProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

func DeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"id": id.String(), "status": "deleted"})
	}
}

func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := parseListInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), *input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

func ProductStats(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, stats)
	}
}

func ProductCategories(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := svc.Categories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string][]string{"categories": categories})
	}
}

type productMediaRequest struct {
	ImageURLs       []string `json:"image_urls,omitempty"`
	RemoteImageURLs []string `json:"remote_image_urls,omitempty"`
	RemoveImages    []string `json:"remove_images,omitempty"`
	VideoURLs       []string `json:"video_urls,omitempty"`
	RemoveVideos    []string `json:"remove_videos,omitempty"`
}

func (m productMediaRequest) toInput() productsvc.MediaInput {
	return productsvc.MediaInput{
		ImageURLs:       m.ImageURLs,
		RemoteImageURLs: m.RemoteImageURLs,
		RemoveImages:    m.RemoveImages,
		VideoURLs:       m.VideoURLs,
		RemoveVideos:    m.RemoveVideos,
	}
}

type createProductRequest struct {
	Name          string              `json:"name" validate:"required"`
	Brand         string              `json:"brand" validate:"required"`
	Category      string              `json:"category,omitempty"`
	PartNumber    string              `json:"part_number" validate:"required"`
	Condition     string              `json:"condition" validate:"required"`
	Quantity      int                 `json:"quantity" validate:"min=0"`
	Price         decimal.Decimal     `json:"price"`
	OriginalPrice *decimal.Decimal    `json:"original_price,omitempty"`
	Description   string              `json:"description,omitempty"`
	IsActive      *bool               `json:"is_active,omitempty"`
	Media         productMediaRequest `json:"media,omitempty"`
}

func (r createProductRequest) toCreateInput() (productsvc.CreateInput, error) {
	condition, err := enums.ParseCondition(strings.TrimSpace(r.Condition))
	if err != nil {
		return productsvc.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid condition")
	}

	return productsvc.CreateInput{
		Name:          validators.SanitizeString(r.Name, 255),
		BrandName:     validators.SanitizeString(r.Brand, 255),
		Category:      validators.SanitizeString(r.Category, 255),
		PartNumber:    validators.SanitizeString(r.PartNumber, 255),
		Condition:     condition,
		Quantity:      r.Quantity,
		Price:         r.Price,
		OriginalPrice: r.OriginalPrice,
		Description:   strings.TrimSpace(r.Description),
		IsActive:      r.IsActive,
		Media:         r.Media.toInput(),
	}, nil
}

type updateProductRequest struct {
	Name          *string             `json:"name,omitempty"`
	Brand         *string             `json:"brand,omitempty"`
	Category      *string             `json:"category,omitempty"`
	PartNumber    *string             `json:"part_number,omitempty"`
	Condition     *string             `json:"condition,omitempty"`
	Quantity      *int                `json:"quantity,omitempty" validate:"omitempty,min=0"`
	Price         *decimal.Decimal    `json:"price,omitempty"`
	OriginalPrice *decimal.Decimal    `json:"original_price,omitempty"`
	Description   *string             `json:"description,omitempty"`
	IsActive      *bool               `json:"is_active,omitempty"`
	Media         productMediaRequest `json:"media,omitempty"`
}

func (r updateProductRequest) toUpdateInput() (productsvc.UpdateInput, error) {
	input := productsvc.UpdateInput{
		Name:          sanitizePtr(r.Name),
		BrandName:     sanitizePtr(r.Brand),
		Category:      sanitizePtr(r.Category),
		PartNumber:    sanitizePtr(r.PartNumber),
		Quantity:      r.Quantity,
		Price:         r.Price,
		OriginalPrice: r.OriginalPrice,
		Description:   r.Description,
		IsActive:      r.IsActive,
		Media:         r.Media.toInput(),
	}

	if r.Condition != nil {
		condition, err := enums.ParseCondition(strings.TrimSpace(*r.Condition))
		if err != nil {
			return productsvc.UpdateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid condition")
		}
		input.Condition = &condition
	}

	return input, nil
}

func sanitizePtr(value *string) *string {
	if value == nil {
		return nil
	}
	clean := validators.SanitizeString(*value, 255)
	return &clean
}

// decodeProductRequest reads either a JSON body or a multipart form into
// dst, returning any uploaded image files from the multipart case.
func decodeProductRequest(r *http.Request, mediaCfg config.MediaConfig, dst any) ([]media.Upload, error) {
	contentType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if contentType != "multipart/form-data" {
		return nil, validators.DecodeJSONBody(r, dst)
	}

	if err := r.ParseMultipartForm(mediaCfg.RequestMaxMemory); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "malformed multipart form")
	}

	raw := r.FormValue(multipartPayloadField)
	if raw == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "multipart form missing payload field")
	}
	if err := validators.DecodeJSONString(raw, dst); err != nil {
		return nil, err
	}

	if r.MultipartForm == nil {
		return nil, nil
	}

	var uploads []media.Upload
	for _, header := range r.MultipartForm.File[multipartImagesField] {
		file, err := header.Open()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable upload")
		}
		uploads = append(uploads, media.Upload{
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Data:        file,
		})
	}
	return uploads, nil
}

func parseListInput(r *http.Request) (*productsvc.ListInput, error) {
	page, err := validators.ParseQueryInt(r, "page", 1, 1, 1<<30)
	if err != nil {
		return nil, err
	}
	perPage, err := validators.ParseQueryInt(r, "per_page", pagination.DefaultPerPage, 1, pagination.MaxPerPage)
	if err != nil {
		return nil, err
	}

	filters := productsvc.ListFilters{
		Search:   validators.SanitizeString(r.URL.Query().Get("search"), 255),
		Category: validators.SanitizeString(r.URL.Query().Get("category"), 255),
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("brand_id")); raw != "" {
		brandID, err := uuid.Parse(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid brand id")
		}
		filters.BrandID = &brandID
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("condition")); raw != "" {
		condition, err := enums.ParseCondition(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid condition")
		}
		filters.Condition = &condition
	}

	if filters.IsActive, err = validators.ParseQueryBool(r, "is_active"); err != nil {
		return nil, err
	}
	if filters.InStock, err = validators.ParseQueryBool(r, "in_stock"); err != nil {
		return nil, err
	}

	return &productsvc.ListInput{
		Filters:  filters,
		SortBy:   strings.TrimSpace(r.URL.Query().Get("sort_by")),
		SortDesc: strings.EqualFold(r.URL.Query().Get("sort_dir"), "desc"),
		Pagination: pagination.Params{
			Page:    page,
			PerPage: perPage,
		},
	}, nil
}

func productIDParam(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
	}
	return id, nil
}
