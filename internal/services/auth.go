package services

import (
	"context"

	"dashboard/internal/activity"
	"dashboard/internal/backend"
	"dashboard/internal/events"
	"dashboard/internal/handlers"
	"dashboard/internal/messaging"
	m "dashboard/internal/middlewares"
	"dashboard/internal/models"
	"dashboard/internal/session"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AuthService struct {
	Backend   *backend.Client
	Sessions  *session.Manager
	Publisher messaging.IPublisher
	Settings  Settings
}

func (s AuthService) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(m.Validate[models.AuthLoginBody]).Post("/login", handlers.UpdateHandler(s.Login))
	r.Post("/logout", handlers.DeleteHandler(s.Logout))
	r.Get("/me", handlers.GetOneHandler(s.Me))

	return r
}

// Login authenticates against the backend and starts a dashboard session.
func (s AuthService) Login(
	ctx context.Context,
	logger *zap.Logger,
	_ models.Session,
	_ []int64,
	body models.AuthLoginBody,
) (models.AuthLoginResponse, error) {
	login, err := s.Backend.Login(ctx, body.Username, body.Password)
	if err != nil {
		logger.Info("Login rejected", zap.String("username", body.Username), zap.Error(err))
		return models.AuthLoginResponse{}, err
	}

	locale := s.Settings.localeOf(models.Session{Locale: body.Locale})
	response, err := s.Sessions.Start(ctx, login, locale)
	if err != nil {
		logger.Error("Failed to start session", zap.Error(err))
		return models.AuthLoginResponse{}, err
	}

	actor := models.Session{User: login.User}
	recordActivity(s.Publisher, actor, activity.UserLoggedIn, models.ActionLogin, models.ObjectSession,
		login.User.ID, nil, events.AdminScope())

	logger.Info("User logged in",
		zap.Int64("user_id", login.User.ID),
		zap.String("role", string(login.User.Role)))

	return response, nil
}

// Logout ends the dashboard session. A failing backend logout does not keep
// the dashboard session alive.
func (s AuthService) Logout(
	ctx context.Context,
	logger *zap.Logger,
	current models.Session,
	_ []int64,
) error {
	if err := s.Backend.Logout(ctx, current.BackendToken); err != nil {
		logger.Warn("Backend logout failed", zap.Error(err))
	}

	if err := s.Sessions.End(ctx, current.ID); err != nil {
		logger.Error("Failed to end session", zap.Error(err))
		return err
	}

	recordActivity(s.Publisher, current, activity.UserLoggedOut, models.ActionLogout, models.ObjectSession,
		current.User.ID, nil)
	return nil
}

func (s AuthService) Me(
	_ context.Context,
	_ *zap.Logger,
	current models.Session,
	_ []int64,
) (models.MeResponse, error) {
	return models.MeResponse{
		User:      current.User,
		Locale:    current.Locale,
		ExpiresAt: current.ExpiresAt,
	}, nil
}
