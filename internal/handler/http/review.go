package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/storeline/products/internal/domain"
	"github.com/storeline/products/internal/service"
	"github.com/storeline/products/pkg/httputil"
	"github.com/storeline/products/pkg/middleware"
	"github.com/storeline/products/pkg/validator"
)

// ReviewHandler handles HTTP requests for product review endpoints.
type ReviewHandler struct {
	service *service.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(svc *service.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: svc,
		logger:  logger,
	}
}

type createReviewResponse struct {
	ReviewID int64 `json:"reviewid"`
}

// CreateReview handles POST /api/products/{id}/review
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	rawID := chi.URLParam(r, "id")
	productID, ok := parseID(rawID)
	if !ok {
		httputil.WriteValidationError(w, validator.New(validator.Violation{
			Value:    rawID,
			Msg:      "Invalid value",
			Param:    "id",
			Location: validator.LocationParams,
		}))
		return
	}

	userID, err := strconv.ParseInt(middleware.UserIDFromContext(r.Context()), 10, 64)
	if err != nil {
		httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{
			Code:    "UNAUTHORIZED",
			Message: "token does not identify a user",
		})
		return
	}

	fields, err := decodeBody(w, r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	input := &service.CreateReviewInput{
		UserID:    userID,
		ProductID: productID,
		Rating:    stringField(fields["rating"]),
		Review:    stringField(fields["review"]),
	}
	id, err := h.service.CreateReview(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, createReviewResponse{ReviewID: id})
}

// ListReviews handles GET /api/products/{id}/review
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	productID, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		httputil.WriteJSON(w, http.StatusOK, []domain.ProductReview{})
		return
	}

	reviews, err := h.service.ListReviews(r.Context(), productID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, reviews)
}
