package http

import (
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/14-dg/roomfinder/internal/application"
)

// Identity headers set by the upstream gateway. Authentication is handled
// before requests reach this service; the middleware only translates the
// forwarded identity into a principal.
const (
	userIDHeader   = "X-User-ID"
	userRoleHeader = "X-User-Role"
)

// IdentityFromHeaders builds the caller principal from the gateway headers
// and attaches it to the request context. Requests without an identity pass
// through with an anonymous principal; individual services decide which
// operations require staff or admin roles.
func IdentityFromHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := strings.TrimSpace(r.Header.Get(userIDHeader))
			if userID == "" {
				next.ServeHTTP(w, r)
				return
			}

			role := strings.ToLower(strings.TrimSpace(r.Header.Get(userRoleHeader)))
			principal := application.Principal{
				UserID:  userID,
				IsStaff: role == "staff" || role == "admin",
				IsAdmin: role == "admin",
			}
			ctx := ContextWithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestLogger attaches a request scoped logger to the context and records
// one line at the start and end of every request.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	var counter atomic.Uint64

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := counter.Add(1)
			logger := base.With(
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
			)

			ctx := ContextWithLogger(r.Context(), logger)
			start := time.Now()
			logger.InfoContext(ctx, "request started")
			next.ServeHTTP(w, r.WithContext(ctx))
			logger.InfoContext(ctx, "request completed", "duration", time.Since(start))
		})
	}
}
