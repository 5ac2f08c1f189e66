package services

import (
	"context"
	"net/http"

	c "dashboard/internal/cache"
	h "dashboard/internal/helpers"
	m "dashboard/internal/middlewares"
	"dashboard/internal/models"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	healthUp   = "up"
	healthDown = "down"
)

// HealthService reports whether the cache and the database answer.
type HealthService struct {
	Cache c.ICache
	DB    *gorm.DB
}

func (s HealthService) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", s.Check)
	return r
}

func (s HealthService) Status(ctx context.Context, logger *zap.Logger) models.HealthResponse {
	resp := models.HealthResponse{Status: healthUp, Cache: healthUp, Database: healthUp}

	if err := s.Cache.Ping(ctx); err != nil {
		logger.Warn("Cache health check failed", zap.Error(err))
		resp.Cache = healthDown
		resp.Status = healthDown
	} else if instances, err := s.Cache.CountActivePlatforms(); err == nil {
		resp.Instances = instances
	}

	if err := s.pingDatabase(ctx); err != nil {
		logger.Warn("Database health check failed", zap.Error(err))
		resp.Database = healthDown
		resp.Status = healthDown
	}

	return resp
}

func (s HealthService) pingDatabase(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s HealthService) Check(w http.ResponseWriter, r *http.Request) {
	resp := s.Status(r.Context(), m.GetLogger(r))
	code := http.StatusOK
	if resp.Status != healthUp {
		code = http.StatusServiceUnavailable
	}
	h.RespondWithJSON(w, code, resp)
}
