package backend

import (
	"context"
	"fmt"

	"dashboard/internal/models"
)

func (c *Client) ListSharerBatches(ctx context.Context, token string) ([]models.SharedBatch, error) {
	return list[models.SharedBatch](ctx, c, token, pathSharerBatches, nil)
}

func (c *Client) GetSharerBatch(ctx context.Context, token string, id int64) (models.SharedBatch, error) {
	return get[models.SharedBatch](ctx, c, token, fmt.Sprintf(pathSharerBatch, id), nil)
}

// ListViewerBatches returns the batch -> document -> file/value tree shared with the viewer.
func (c *Client) ListViewerBatches(ctx context.Context, token string) ([]models.SharedBatch, error) {
	return list[models.SharedBatch](ctx, c, token, pathViewerBatches, nil)
}
