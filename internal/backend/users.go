package backend

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"dashboard/internal/models"
)

func (c *Client) ListSharers(ctx context.Context, token string) ([]models.Sharer, error) {
	return list[models.Sharer](ctx, c, token, pathSharers, nil)
}

func (c *Client) CreateSharer(ctx context.Context, token string, body models.SharerCreateBody) (models.Sharer, error) {
	return send[models.Sharer](ctx, c, token, http.MethodPost, pathSharers, body)
}

func (c *Client) UpdateSharer(ctx context.Context, token string, id int64, body models.SharerUpdateBody) (models.Sharer, error) {
	return send[models.Sharer](ctx, c, token, http.MethodPatch, fmt.Sprintf(pathSharer, id), body)
}

func (c *Client) DeleteSharer(ctx context.Context, token string, id int64) error {
	return sendNoContent(ctx, c, token, http.MethodDelete, fmt.Sprintf(pathSharer, id), nil)
}

func (c *Client) ToggleSharerActive(ctx context.Context, token string, id int64) (models.Sharer, error) {
	return send[models.Sharer](ctx, c, token, http.MethodPost, fmt.Sprintf(pathSharerToggleActive, id), nil)
}

func (c *Client) ResetSharerPassword(ctx context.Context, token string, id int64) error {
	return sendNoContent(ctx, c, token, http.MethodPost, fmt.Sprintf(pathSharerResetPassword, id), nil)
}

func (c *Client) SendSharerUsername(ctx context.Context, token string, id int64) error {
	return sendNoContent(ctx, c, token, http.MethodPost, fmt.Sprintf(pathSharerSendUsername, id), nil)
}

func (c *Client) ListViewers(ctx context.Context, token string) ([]models.Viewer, error) {
	return list[models.Viewer](ctx, c, token, pathViewers, nil)
}

func (c *Client) CreateViewer(ctx context.Context, token string, body models.ViewerCreateBody) (models.Viewer, error) {
	return send[models.Viewer](ctx, c, token, http.MethodPost, pathViewers, body)
}

func (c *Client) UpdateViewer(ctx context.Context, token string, id int64, body models.ViewerUpdateBody) (models.Viewer, error) {
	return send[models.Viewer](ctx, c, token, http.MethodPatch, fmt.Sprintf(pathViewer, id), body)
}

func (c *Client) DeleteViewer(ctx context.Context, token string, id int64) error {
	return sendNoContent(ctx, c, token, http.MethodDelete, fmt.Sprintf(pathViewer, id), nil)
}

func (c *Client) ToggleViewerActive(ctx context.Context, token string, id int64) (models.Viewer, error) {
	return send[models.Viewer](ctx, c, token, http.MethodPost, fmt.Sprintf(pathViewerToggleActive, id), nil)
}

func (c *Client) ResetViewerPassword(ctx context.Context, token string, id int64) error {
	return sendNoContent(ctx, c, token, http.MethodPost, fmt.Sprintf(pathViewerResetPassword, id), nil)
}

func (c *Client) SendViewerUsername(ctx context.Context, token string, id int64) error {
	return sendNoContent(ctx, c, token, http.MethodPost, fmt.Sprintf(pathViewerSendUsername, id), nil)
}

// ExtractUserData uploads identity documents to the backend OCR. Upload
// limits are enforced by the caller before the files reach this point.
func (c *Client) ExtractUserData(ctx context.Context, token string, files []models.UploadedFile) ([]models.ExtractedUserData, error) {
	req := c.request(ctx, token)
	for _, file := range files {
		req.SetMultipartField("files", file.Name, file.ContentType, bytes.NewReader(file.Content))
	}

	resp, err := c.execute(req, http.MethodPost, pathViewerExtract)
	if err != nil {
		return nil, err
	}
	return decodeList[models.ExtractedUserData](resp)
}
