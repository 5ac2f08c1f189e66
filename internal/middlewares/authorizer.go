package middlewares

import (
	"net/http"

	apierrors "dashboard/internal/errors"
	h "dashboard/internal/helpers"
	"dashboard/internal/models"
	"dashboard/internal/rbac"
)

// AuthorizeRole checks if the authenticated user has at least the required role
// Uses hierarchical role checking (Admin > Sharer > Viewer).
func AuthorizeRole(requiredRole models.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := r.Context().Value(models.SessionKey{}).(models.Session)
			if !ok {
				h.RespondWithError(w, 401, []string{apierrors.ErrCodeUnauthorized})
				return
			}

			if !rbac.HasRole(session.User.Role, requiredRole) {
				h.RespondWithError(w, 403, []string{apierrors.ErrCodeForbidden})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AuthorizeExactRole restricts a route to one role, without hierarchy.
// Viewer pages call backend endpoints that only exist for viewer accounts.
func AuthorizeExactRole(role models.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := r.Context().Value(models.SessionKey{}).(models.Session)
			if !ok {
				h.RespondWithError(w, 401, []string{apierrors.ErrCodeUnauthorized})
				return
			}

			if session.User.Role != role {
				h.RespondWithError(w, 403, []string{apierrors.ErrCodeForbidden})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
