package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/storeline/products/internal/domain"
	"github.com/storeline/products/internal/service"
	"github.com/storeline/products/internal/storage"
	"github.com/storeline/products/pkg/httputil"
	"github.com/storeline/products/pkg/validator"
)

// ProductHandler handles HTTP requests for product endpoints.
type ProductHandler struct {
	service   *service.ProductService
	images    storage.Storage
	maxUpload int64
	now       func() time.Time
	logger    *slog.Logger
}

// NewProductHandler creates a new product HTTP handler. maxUpload caps the
// size of an uploaded image.
func NewProductHandler(svc *service.ProductService, images storage.Storage, maxUpload int64, logger *slog.Logger) *ProductHandler {
	if maxUpload <= 0 {
		maxUpload = domain.MaxImageBytes
	}
	return &ProductHandler{
		service:   svc,
		images:    images,
		maxUpload: maxUpload,
		now:       time.Now,
		logger:    logger,
	}
}

type createProductResponse struct {
	ProductID int64 `json:"productid"`
}

// CreateProduct handles POST /api/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	input, err := h.readProductForm(w, r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	id, err := h.service.CreateProduct(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, createProductResponse{ProductID: id})
}

// SearchProducts handles POST /api/products/search
func (h *ProductHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeBody(w, r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	var violations []validator.Violation
	terms := make(map[string]string, 2)
	for _, name := range []string{"brand", "keyword"} {
		s, ok := fields[name].(string)
		if !ok {
			violations = append(violations, validator.Violation{
				Value:    fields[name],
				Msg:      "Invalid value",
				Param:    name,
				Location: validator.LocationBody,
			})
			continue
		}
		terms[name] = s
	}
	if len(violations) > 0 {
		httputil.WriteValidationError(w, validator.New(violations...))
		return
	}

	products, err := h.service.SearchProducts(r.Context(), terms["brand"], terms["keyword"])
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, products)
}

// GetProduct handles GET /api/products/{id}. A product that does not exist
// is answered with 200 and a null body.
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		httputil.WriteJSON(w, http.StatusOK, nil)
		return
	}

	detail, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if detail == nil {
		httputil.WriteJSON(w, http.StatusOK, nil)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, detail)
}

// ListProducts handles GET /api/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, products)
}

// DeleteProduct handles DELETE /api/products/{id}
//
// TODO(products): gate behind admin auth once clients send tokens on delete.
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		httputil.WriteNoContent(w)
		return
	}

	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteNoContent(w)
}
