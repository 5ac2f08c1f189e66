package services

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"dashboard/internal/activity"
	"dashboard/internal/backend"
	"dashboard/internal/handlers"
	"dashboard/internal/messaging"
	"dashboard/internal/models"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// FileService proxies file blobs. The backend decides whether the session
// may read a file, so every role is accepted here.
type FileService struct {
	Backend   *backend.Client
	Publisher messaging.IPublisher
}

func (s FileService) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/{id0}", func(r chi.Router) {
		r.Get("/download", handlers.StreamHandler(s.Download))
		r.Get("/view", handlers.GetOneHandler(s.View))
	})

	return r
}

// Download streams the blob to the client without buffering it.
func (s FileService) Download(
	ctx context.Context,
	logger *zap.Logger,
	current models.Session,
	ids []int64,
	_ struct{},
	w http.ResponseWriter,
) error {
	stream, err := s.Backend.DownloadFile(ctx, current.BackendToken, ids[0])
	if err != nil {
		return err
	}
	defer func() { _ = stream.Body.Close() }()

	name := stream.Name
	if name == "" {
		name = fmt.Sprintf("file-%d", ids[0])
	}

	w.Header().Set("Content-Type", stream.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	if stream.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(stream.ContentLength, 10))
	}
	// Large blobs outlast the server write timeout.
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		logger.Debug("Write deadline left in place", zap.Error(err))
	}
	w.WriteHeader(http.StatusOK)

	written, err := io.Copy(w, stream.Body)
	if err != nil {
		return fmt.Errorf("failed to stream file %d: %w", ids[0], err)
	}

	recordActivity(s.Publisher, current, activity.FileDownloaded, models.ActionDownload, models.ObjectFile, ids[0], nil)
	logger.Debug("File downloaded", zap.Int64("file_id", ids[0]), zap.Int64("bytes", written))
	return nil
}

func (s FileService) View(ctx context.Context, _ *zap.Logger, current models.Session, ids []int64) (models.FileViewURL, error) {
	url, err := s.Backend.GetFileViewURL(ctx, current.BackendToken, ids[0])
	if err != nil {
		return models.FileViewURL{}, err
	}

	recordActivity(s.Publisher, current, activity.FileViewed, models.ActionView, models.ObjectFile, ids[0], nil)
	return url, nil
}
