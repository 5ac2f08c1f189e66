package sql

import (
	"encoding/json"
	"errors"
	"fmt"

	apierrors "dashboard/internal/errors"
	"dashboard/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func ToSavedViewResponse(view models.SavedView) models.SavedViewResponse {
	filters := map[string][]string{}
	if view.Filters != "" {
		// A corrupted filter column reads back as no filters.
		_ = json.Unmarshal([]byte(view.Filters), &filters)
	}
	return models.SavedViewResponse{SavedView: view, Filters: filters}
}

// ListSavedViews returns the views of a user, optionally restricted to one table, ordered by name.
func ListSavedViews(db *gorm.DB, userID int64, table string) ([]models.SavedViewResponse, error) {
	var views []models.SavedView

	query := db.Where("user_id = ?", userID)
	if table != "" {
		query = query.Where("table_name = ?", table)
	}
	if err := query.Order("name ASC").Find(&views).Error; err != nil {
		return nil, fmt.Errorf("failed to list saved views: %w", err)
	}

	responses := make([]models.SavedViewResponse, 0, len(views))
	for _, view := range views {
		responses = append(responses, ToSavedViewResponse(view))
	}
	return responses, nil
}

func CreateSavedView(db *gorm.DB, userID int64, body models.SavedViewCreateBody, defaultPageSize int) (models.SavedViewResponse, error) {
	filters := body.Filters
	if filters == nil {
		filters = map[string][]string{}
	}
	encoded, err := json.Marshal(filters)
	if err != nil {
		return models.SavedViewResponse{}, fmt.Errorf("failed to encode filters: %w", err)
	}

	pageSize := body.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	view := models.SavedView{
		UserID:   userID,
		Table:    body.Table,
		Name:     body.Name,
		Sort:     body.Sort,
		Filters:  string(encoded),
		PageSize: pageSize,
	}
	if err = db.Create(&view).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.SavedViewResponse{}, apierrors.NewAPIError(409, "VIEW_ALREADY_EXISTS")
		}
		zap.L().Error("Failed to create saved view", zap.Int64("user_id", userID), zap.Error(err))
		return models.SavedViewResponse{}, fmt.Errorf("%w: %w", apierrors.ErrCreateFailed, err)
	}

	return ToSavedViewResponse(view), nil
}

// DeleteSavedView removes a view owned by userID; views of other users are reported as missing.
func DeleteSavedView(db *gorm.DB, userID int64, viewID uuid.UUID) error {
	result := db.Where("id = ? AND user_id = ?", viewID, userID).Delete(&models.SavedView{})
	if result.Error != nil {
		zap.L().Error("Failed to delete saved view", zap.String("view_id", viewID.String()), zap.Error(result.Error))
		return fmt.Errorf("%w: %w", apierrors.ErrDeleteFailed, result.Error)
	}
	if result.RowsAffected == 0 {
		return apierrors.NewAPIError(404, apierrors.ErrCodeViewNotFound)
	}
	return nil
}
