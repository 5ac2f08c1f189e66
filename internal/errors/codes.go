package apierrors

// HTTP 400 Bad Request.
const (
	ErrCodeInvalidPreset    = "INVALID_PRESET"
	ErrCodeInvalidDateRange = "INVALID_DATE_RANGE"
	ErrCodeInvalidSort      = "INVALID_SORT"
	ErrCodeInvalidFilter    = "INVALID_FILTER"
	ErrCodeTooManyFiles     = "TOO_MANY_FILES"
	ErrCodeFileTooLarge     = "FILE_TOO_LARGE"
	ErrCodeUnsupportedFile  = "UNSUPPORTED_FILE_TYPE"
	ErrCodeNoFiles          = "NO_FILES"
	ErrCodeInvalidBody      = "INVALID_BODY"
)

// HTTP 401 Unauthorized.
const (
	ErrCodeSessionExpired   = "SESSION_EXPIRED"
	ErrCodeWrongCredentials = "WRONG_CREDENTIALS"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
)

// HTTP 403 Forbidden.
const (
	ErrCodeForbidden = "FORBIDDEN"
)

// HTTP 429 Too Many Requests.
const (
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS"
)

// HTTP 502 Bad Gateway.
const (
	ErrCodeBackendUnavailable = "BACKEND_UNAVAILABLE"
)

// HTTP 404 Not Found.
const (
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeViewNotFound = "VIEW_NOT_FOUND"
)
