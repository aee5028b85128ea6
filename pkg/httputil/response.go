package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/storeline/products/pkg/errors"
	"github.com/storeline/products/pkg/logger"
	"github.com/storeline/products/pkg/validator"
)

// InternalErrorBody is the only body a client ever sees for a server-side failure.
const InternalErrorBody = "Internal Server Error"

// ErrorResponse is the body for client errors raised outside validation
// (authentication, authorization).
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ValidationResponse is the 400 body listing every violation.
type ValidationResponse struct {
	Errors []validator.Violation `json:"errors"`
}

// WriteJSON writes v as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteText writes a plain-text body.
func WriteText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// WriteNoContent writes a bare 204.
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteInternalError writes the uniform 500 plain-text response.
func WriteInternalError(w http.ResponseWriter) {
	WriteText(w, http.StatusInternalServerError, InternalErrorBody)
}

// WriteValidationError writes a 400 with the violation list. Errors that are
// not a *validator.ValidationError are reported as a single body violation.
func WriteValidationError(w http.ResponseWriter, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		WriteJSON(w, http.StatusBadRequest, ValidationResponse{Errors: valErr.Violations})
		return
	}

	WriteJSON(w, http.StatusBadRequest, ValidationResponse{Errors: []validator.Violation{
		{Msg: err.Error(), Location: validator.LocationBody},
	}})
}

// WriteError maps err onto a response. Validation failures become a 400 list,
// client AppErrors keep their status, and everything else (store failures in
// particular) is logged and reported as a bare 500. The request-scoped logger
// is preferred over fallback.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		WriteValidationError(w, valErr)
		return
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Status < http.StatusInternalServerError {
		WriteJSON(w, appErr.Status, ErrorResponse{
			Code:      appErr.Code,
			Message:   appErr.Message,
			RequestID: logger.CorrelationIDFromContext(r.Context()),
		})
		return
	}

	l := logger.FromContext(r.Context(), fallback)
	l.ErrorContext(r.Context(), "internal error",
		slog.String("error", err.Error()),
		slog.Bool("store", apperrors.IsStore(err)),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	WriteInternalError(w)
}
