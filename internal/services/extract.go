package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"dashboard/internal/activity"
	"dashboard/internal/configuration"
	apierrors "dashboard/internal/errors"
	"dashboard/internal/handlers"
	h "dashboard/internal/helpers"
	"dashboard/internal/models"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

const extractFormField = "files"

// ExtractLimits bounds the identity documents uploaded for data extraction.
type ExtractLimits struct {
	MaxFiles       int
	MaxFileSize    int64
	MaxRequestSize int64
	AllowedTypes   []string
}

// NewExtractLimits reads the limits from config. Unset values fall back to
// the built-in defaults.
func NewExtractLimits(config models.DashboardConfig) ExtractLimits {
	limits := ExtractLimits{
		MaxFiles:       configuration.MaxExtractFiles,
		MaxFileSize:    configuration.MaxExtractFileSize,
		MaxRequestSize: configuration.MaxExtractRequestSize,
		AllowedTypes:   configuration.ExtractAllowedContentTypes,
	}
	if config.MaxExtractFiles > 0 {
		limits.MaxFiles = config.MaxExtractFiles
	}
	if config.MaxExtractFileSize > 0 {
		limits.MaxFileSize = config.MaxExtractFileSize
	}
	if config.MaxExtractRequestSize > 0 {
		limits.MaxRequestSize = config.MaxExtractRequestSize
	}
	return limits
}

var (
	errNoFiles         = apierrors.NewAPIError(http.StatusBadRequest, apierrors.ErrCodeNoFiles)
	errTooManyFiles    = apierrors.NewAPIError(http.StatusBadRequest, apierrors.ErrCodeTooManyFiles)
	errFileTooLarge    = apierrors.NewAPIError(http.StatusBadRequest, apierrors.ErrCodeFileTooLarge)
	errUnsupportedFile = apierrors.NewAPIError(http.StatusBadRequest, apierrors.ErrCodeUnsupportedFile)
)

// ReadUploads checks the uploaded files against limits before anything is
// sent to the backend. The content type is sniffed, the client's claim is ignored.
func ReadUploads(headers []*multipart.FileHeader, limits ExtractLimits) ([]models.UploadedFile, error) {
	if len(headers) == 0 {
		return nil, errNoFiles
	}
	if len(headers) > limits.MaxFiles {
		return nil, errTooManyFiles
	}

	files := make([]models.UploadedFile, 0, len(headers))
	for _, header := range headers {
		if header.Size > limits.MaxFileSize {
			return nil, errFileTooLarge
		}

		content, err := readUpload(header, limits.MaxFileSize)
		if err != nil {
			return nil, err
		}

		detected := mimetype.Detect(content)
		if !mimetype.EqualsAny(detected.String(), limits.AllowedTypes...) {
			return nil, errUnsupportedFile
		}

		files = append(files, models.UploadedFile{
			Name:        header.Filename,
			ContentType: detected.String(),
			Size:        int64(len(content)),
			Content:     content,
		})
	}
	return files, nil
}

func readUpload(header *multipart.FileHeader, maxSize int64) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload %s: %w", header.Filename, err)
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload %s: %w", header.Filename, err)
	}
	if int64(len(content)) > maxSize {
		return nil, errFileTooLarge
	}
	return content, nil
}

// Extract forwards identity documents to the backend OCR and returns the
// viewer data it recognized.
func (s ViewerService) Extract(w http.ResponseWriter, r *http.Request) {
	logger, current, _, ok := handlers.RequestContext(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.Limits.MaxRequestSize)
	if err := r.ParseMultipartForm(configuration.ExtractMultipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handlers.RespondWithAPIError(w, logger, errFileTooLarge)
			return
		}
		h.RespondWithError(w, http.StatusBadRequest, []string{apierrors.ErrCodeInvalidBody})
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			logger.Warn("Failed to remove multipart files", zap.Error(err))
		}
	}()

	files, err := ReadUploads(r.MultipartForm.File[extractFormField], s.Limits)
	if err != nil {
		handlers.RespondWithAPIError(w, logger, err)
		return
	}

	extracted, err := s.Backend.ExtractUserData(r.Context(), current.BackendToken, files)
	if err != nil {
		handlers.RespondWithAPIError(w, logger, err)
		return
	}
	if extracted == nil {
		extracted = []models.ExtractedUserData{}
	}

	recordActivity(s.Publisher, current, activity.ViewerDataExtracted, models.ActionExtract, models.ObjectViewer,
		0, nil)
	logger.Info("Viewer data extracted", zap.Int("files", len(files)), zap.Int("results", len(extracted)))

	h.RespondWithJSON(w, http.StatusOK, extracted)
}
