package services

import (
	"context"

	"dashboard/internal/activity"
	"dashboard/internal/handlers"
	m "dashboard/internal/middlewares"
	"dashboard/internal/models"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ActivityService exposes the audit log. Admin only.
type ActivityService struct {
	ActivityLogger activity.IActivityLogger
}

func (s ActivityService) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(m.AuthorizeRole(models.RoleAdmin))

	r.With(m.ValidateQuery[models.ActivityQueryParams]).Get("/", handlers.GetOneWithQueryHandler(s.Search))
	r.With(m.ValidateQuery[models.ActivityQueryParams]).Get("/daily", handlers.GetOneWithQueryHandler(s.CountByDay))

	return r
}

func criteriaOf(query models.ActivityQueryParams) map[string][]string {
	criteria := map[string][]string{}
	if query.Action != "" {
		criteria["action"] = []string{query.Action}
	}
	if query.ObjectType != "" {
		criteria["object_type"] = []string{query.ObjectType}
	}
	if query.UserID != "" {
		criteria["user_id"] = []string{query.UserID}
	}
	return criteria
}

func (s ActivityService) Search(
	_ context.Context,
	logger *zap.Logger,
	_ models.Session,
	_ []int64,
	query models.ActivityQueryParams,
) ([]map[string]any, error) {
	entries, err := s.ActivityLogger.Search(criteriaOf(query), query.Days)
	if err != nil {
		logger.Error("Failed to search activity", zap.Error(err))
		return nil, err
	}
	return entries, nil
}

func (s ActivityService) CountByDay(
	_ context.Context,
	logger *zap.Logger,
	_ models.Session,
	_ []int64,
	query models.ActivityQueryParams,
) ([]models.TimeSeriesPoint, error) {
	points, err := s.ActivityLogger.CountByDay(criteriaOf(query), query.Days)
	if err != nil {
		logger.Error("Failed to count activity", zap.Error(err))
		return nil, err
	}
	return points, nil
}
