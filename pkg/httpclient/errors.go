package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/storeline/products/pkg/errors"
	"github.com/storeline/products/pkg/httputil"
	"github.com/storeline/products/pkg/validator"
)

// ParseResponseError reads a non-2xx response and translates it back into the
// error the remote handler wrote: a *validator.ValidationError for 400 lists,
// an AppError for auth failures and a plain error otherwise. The body is
// consumed and closed.
func ParseResponseError(resp *http.Response, serviceName string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", serviceName, resp.StatusCode, err)
	}

	if resp.StatusCode == http.StatusBadRequest {
		var list httputil.ValidationResponse
		if json.Unmarshal(bodyBytes, &list) == nil && len(list.Errors) > 0 {
			return validator.New(list.Errors...)
		}
	}

	var structured httputil.ErrorResponse
	if json.Unmarshal(bodyBytes, &structured) == nil && structured.Code != "" {
		msg := fmt.Sprintf("%s: %s", serviceName, structured.Message)
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return apperrors.Unauthorized(msg)
		case http.StatusForbidden:
			return apperrors.Forbidden(msg)
		}
		return &apperrors.AppError{Code: structured.Code, Message: msg, Status: resp.StatusCode}
	}

	return fmt.Errorf("%s returned status %d: %s", serviceName, resp.StatusCode, strings.TrimSpace(string(bodyBytes)))
}

// IsClientError returns true if the HTTP status code is a 4xx client error.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
