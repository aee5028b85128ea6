package middleware

import (
	"log/slog"
	"net/http"

	"github.com/storeline/products/pkg/logger"
)

// RequestLogger stores a request-scoped logger in the context, enriched with
// correlation, user and trace ids. Handlers fetch it with logger.FromContext.
//
// Mount it after RequestLogging and Tracing. Routes guarded by Auth should
// mount it again after Auth so the user id is included.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if userID := UserIDFromContext(ctx); userID != "" {
				ctx = logger.WithUserID(ctx, userID)
			}
			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
