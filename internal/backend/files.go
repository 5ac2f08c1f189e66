package backend

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"

	"dashboard/internal/models"
)

// FileStream is an open download. The caller must close Body.
type FileStream struct {
	Name          string
	ContentType   string
	ContentLength int64
	Body          io.ReadCloser
}

// DownloadFile opens the file blob without buffering it.
func (c *Client) DownloadFile(ctx context.Context, token string, fileID int64) (*FileStream, error) {
	req := c.stream.R().SetContext(ctx).SetDoNotParseResponse(true).SetHeader("Accept", "*/*")
	if token != "" {
		req.SetAuthToken(token)
	}
	path := fmt.Sprintf(pathFileDownload, fileID)

	resp, err := req.Execute(http.MethodGet, path)
	if err != nil {
		return nil, c.transportError(http.MethodGet, path, err)
	}

	body := resp.RawBody()
	if resp.IsError() {
		payload, _ := io.ReadAll(io.LimitReader(body, 64<<10))
		_ = body.Close()
		return nil, statusError(resp.StatusCode(), payload)
	}

	stream := &FileStream{
		ContentType:   resp.Header().Get("Content-Type"),
		ContentLength: resp.RawResponse.ContentLength,
		Body:          body,
	}
	if _, params, err := mime.ParseMediaType(resp.Header().Get("Content-Disposition")); err == nil {
		stream.Name = params["filename"]
	}
	if stream.ContentType == "" {
		stream.ContentType = "application/octet-stream"
	}
	return stream, nil
}

func (c *Client) GetFileViewURL(ctx context.Context, token string, fileID int64) (models.FileViewURL, error) {
	return get[models.FileViewURL](ctx, c, token, fmt.Sprintf(pathFileViewURL, fileID), nil)
}
