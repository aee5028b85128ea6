package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticValidator(claims *Claims, err error) TokenValidator {
	return func(token string) (*Claims, error) {
		if token != "good-token" {
			return nil, errors.New("bad token")
		}
		return claims, err
	}
}

func decodeAuthError(t *testing.T, rr *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestAuth(t *testing.T) {
	var gotUser, gotRole string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserIDFromContext(r.Context())
		gotRole = RoleFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	h := Auth(staticValidator(&Claims{UserID: "7", Role: "customer"}, nil))(next)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantMsg    string
	}{
		{"missing header", "", http.StatusUnauthorized, "missing authorization header"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "invalid authorization header format"},
		{"no token", "Bearer", http.StatusUnauthorized, "invalid authorization header format"},
		{"rejected token", "Bearer nope", http.StatusUnauthorized, "invalid or expired token"},
		{"valid token", "Bearer good-token", http.StatusOK, ""},
		{"case insensitive scheme", "bearer good-token", http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUser, gotRole = "", ""
			req := httptest.NewRequest(http.MethodPost, "/api/products/1/review", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "7", gotUser)
				assert.Equal(t, "customer", gotRole)
				return
			}
			body := decodeAuthError(t, rr)
			assert.Equal(t, "UNAUTHORIZED", body["code"])
			assert.Equal(t, tt.wantMsg, body["message"])
		})
	}
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	h := RequireRole("admin")(next)

	t.Run("admin passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/products", nil)
		req = req.WithContext(WithClaims(req.Context(), &Claims{UserID: "1", Role: "admin"}))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("customer forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/products", nil)
		req = req.WithContext(WithClaims(req.Context(), &Claims{UserID: "2", Role: "customer"}))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Equal(t, "FORBIDDEN", decodeAuthError(t, rr)["code"])
	})
}

func TestFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, UserIDFromContext(req.Context()))
	assert.Empty(t, RoleFromContext(req.Context()))
}
