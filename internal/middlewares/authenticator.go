package middlewares

import (
	"context"
	"net/http"
	"strings"

	"dashboard/internal/configuration"
	apierrors "dashboard/internal/errors"
	"dashboard/internal/helpers"
	"dashboard/internal/models"
)

type AuthExcludedKey struct{}

// SessionResolver loads the session a dashboard token points to.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (models.Session, error)
}

func Authenticate(sessions SessionResolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			if isExcluded(r.URL.Path, r.Method) {
				ctx := context.WithValue(r.Context(), AuthExcludedKey{}, true)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			accessToken := r.Header.Get("Authorization")
			if accessToken == "" {
				helpers.RespondWithError(w, 401, []string{apierrors.ErrCodeUnauthorized})
				return
			}

			session, err := sessions.Resolve(r.Context(), accessToken)
			if err != nil {
				apiErr := apierrors.AsAPIError(err)
				if apiErr.Code >= 500 {
					helpers.RespondWithError(w, apiErr.Code, []string{apiErr.Message})
					return
				}
				helpers.RespondWithError(w, 401, []string{apierrors.ErrCodeSessionExpired})
				return
			}

			ctx := context.WithValue(r.Context(), models.SessionKey{}, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(fn)
	}
}

func isExcluded(path, method string) bool {
	if exactRules, exists := configuration.AuthRuleExactMatchPath[path]; exists {
		for _, rule := range exactRules {
			if rule.Method == "*" || rule.Method == method {
				return !rule.RequireAuth
			}
		}
	}

	for _, rule := range configuration.AuthRulePrefixMatchPath {
		if strings.HasPrefix(path, rule.Path) {
			if rule.Method == "*" || rule.Method == method {
				return !rule.RequireAuth
			}
		}
	}

	return false
}
