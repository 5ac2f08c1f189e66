package backend

import (
	"encoding/json"
	"maps"
	"net/http"
	"slices"
	"strings"

	apierrors "dashboard/internal/errors"
)

// DefaultErrorMessage is reported when the backend rejects a request without explaining why.
const DefaultErrorMessage = "BACKEND_REQUEST_FAILED"

// statusError maps a non-2xx backend response to the error returned to dashboard clients.
func statusError(status int, body []byte) *apierrors.APIError {
	switch {
	case status == http.StatusNotFound:
		return apierrors.ErrNotFound
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return apierrors.ErrSessionExpired
	case status == http.StatusTooManyRequests:
		return apierrors.NewAPIError(http.StatusTooManyRequests, apierrors.ErrCodeTooManyRequests)
	case status >= http.StatusInternalServerError:
		return apierrors.ErrBackendUnavailable
	case status == http.StatusUnprocessableEntity:
		return apierrors.NewAPIError(http.StatusBadRequest, ExtractMessage(body, DefaultErrorMessage))
	}
	return apierrors.NewAPIError(status, ExtractMessage(body, DefaultErrorMessage))
}

// ExtractMessage digs a human readable message out of a backend error body.
// It looks at "message", "detail", "error" and the first entry of "errors",
// in that order, and returns fallback when none is usable.
func ExtractMessage(body []byte, fallback string) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return fallback
	}

	for _, key := range []string{"message", "detail", "error"} {
		if message := firstString(payload[key]); message != "" {
			return message
		}
	}

	if message := firstString(payload["errors"]); message != "" {
		return message
	}

	return fallback
}

func firstString(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case []any:
		for _, item := range v {
			if s := firstString(item); s != "" {
				return s
			}
		}
	case map[string]any:
		for _, key := range slices.Sorted(maps.Keys(v)) {
			if s := firstString(v[key]); s != "" {
				return s
			}
		}
	}
	return ""
}
