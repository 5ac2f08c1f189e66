package apierrors

import (
	"errors"
	"net/http"
)

type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func NewAPIError(code int, message string) *APIError {
	return &APIError{Code: code, Message: message}
}

// AsAPIError unwraps err into an APIError, falling back to a 500.
func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return ErrInternal
}

var (
	ErrInternal           = NewAPIError(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR")
	ErrCreateFailed       = NewAPIError(http.StatusInternalServerError, "CREATE_FAILED")
	ErrDeleteFailed       = NewAPIError(http.StatusInternalServerError, "DELETE_FAILED")
	ErrBackendUnavailable = NewAPIError(http.StatusBadGateway, ErrCodeBackendUnavailable)
	ErrSessionExpired     = NewAPIError(http.StatusUnauthorized, ErrCodeSessionExpired)
	ErrNotFound           = NewAPIError(http.StatusNotFound, ErrCodeNotFound)
)
