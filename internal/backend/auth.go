package backend

import (
	"context"
	"net/http"

	apierrors "dashboard/internal/errors"
	"dashboard/internal/models"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges credentials for a backend token. Rejected credentials
// are reported as WRONG_CREDENTIALS rather than an expired session.
func (c *Client) Login(ctx context.Context, username, password string) (models.BackendLoginResponse, error) {
	resp, err := send[models.BackendLoginResponse](ctx, c, "", http.MethodPost, pathLogin, loginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		apiErr := apierrors.AsAPIError(err)
		if apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusBadRequest {
			return models.BackendLoginResponse{}, apierrors.NewAPIError(http.StatusUnauthorized, apierrors.ErrCodeWrongCredentials)
		}
		return models.BackendLoginResponse{}, err
	}
	if resp.Token == "" {
		return models.BackendLoginResponse{}, apierrors.ErrBackendUnavailable
	}
	return resp, nil
}

func (c *Client) Logout(ctx context.Context, token string) error {
	return sendNoContent(ctx, c, token, http.MethodPost, pathLogout, nil)
}
