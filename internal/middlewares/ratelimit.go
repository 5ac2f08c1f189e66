package middlewares

import (
	"net"
	"net/http"
	"slices"
	"strconv"
	"strings"

	c "dashboard/internal/cache"
	apierrors "dashboard/internal/errors"
	h "dashboard/internal/helpers"

	"go.uber.org/zap"
)

// RateLimit throttles each client to requestsPerMinute using the shared cache.
// Forwarded headers are honored only when the direct peer is a trusted proxy.
func RateLimit(cache c.ICache, trustedProxies []string, requestsPerMinute int) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identifier := clientIP(r, trustedProxies)

			retryAfter, err := cache.GetRateLimit(identifier, requestsPerMinute)
			if err != nil {
				GetLogger(r).Warn("Rate limit check failed", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			if retryAfter > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				h.RespondWithError(w, http.StatusTooManyRequests, []string{apierrors.ErrCodeTooManyRequests})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request, trustedProxies []string) string {
	remote, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remote = r.RemoteAddr
	}

	if !slices.Contains(trustedProxies, remote) {
		return remote
	}

	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded == "" {
		return remote
	}

	parts := strings.Split(forwarded, ",")
	return strings.TrimSpace(parts[0])
}
