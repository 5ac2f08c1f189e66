package services

import (
	"context"
	"net/http"

	"dashboard/internal/handlers"
	h "dashboard/internal/helpers"
	m "dashboard/internal/middlewares"
	"dashboard/internal/models"
	"dashboard/internal/sql"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SavedViewService stores per-user table presets. Available to every role.
type SavedViewService struct {
	DB       *gorm.DB
	Settings Settings
}

func (s SavedViewService) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(m.ValidateQuery[models.SavedViewQueryParams]).Get("/", handlers.GetOneWithQueryHandler(s.List))
	r.With(m.Validate[models.SavedViewCreateBody]).Post("/", handlers.CreateHandler(s.Create))
	r.Delete("/{viewID}", s.Delete)

	return r
}

func (s SavedViewService) List(
	ctx context.Context,
	_ *zap.Logger,
	current models.Session,
	_ []int64,
	query models.SavedViewQueryParams,
) ([]models.SavedViewResponse, error) {
	return sql.ListSavedViews(s.DB.WithContext(ctx), current.User.ID, query.Table)
}

func (s SavedViewService) Create(
	ctx context.Context,
	logger *zap.Logger,
	current models.Session,
	_ []int64,
	body models.SavedViewCreateBody,
) (models.SavedViewResponse, error) {
	view, err := sql.CreateSavedView(s.DB.WithContext(ctx), current.User.ID, body, s.Settings.DefaultPageSize)
	if err != nil {
		return models.SavedViewResponse{}, err
	}

	logger.Info("Saved view created", zap.String("view_id", view.ID.String()), zap.String("table", view.Table))
	return view, nil
}

// Delete is a plain handler because view ids are uuids, not numeric path ids.
func (s SavedViewService) Delete(w http.ResponseWriter, r *http.Request) {
	logger, current, _, ok := handlers.RequestContext(w, r)
	if !ok {
		return
	}

	viewID, err := uuid.Parse(chi.URLParam(r, "viewID"))
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, []string{"INVALID_ID"})
		return
	}

	if err := sql.DeleteSavedView(s.DB.WithContext(r.Context()), current.User.ID, viewID); err != nil {
		handlers.RespondWithAPIError(w, logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
