package middlewares

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// Timeout bounds every request context except file downloads, which stream
// for as long as the client keeps reading.
func Timeout(timeout time.Duration) func(next http.Handler) http.Handler {
	bounded := middleware.Timeout(timeout)
	return func(next http.Handler) http.Handler {
		limited := bounded(next)
		fn := func(w http.ResponseWriter, r *http.Request) {
			if isDownload(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			limited.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}

func isDownload(path string) bool {
	return strings.HasPrefix(path, "/api/v1/files/") && strings.HasSuffix(strings.TrimSuffix(path, "/"), "/download")
}
