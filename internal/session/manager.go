package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	c "dashboard/internal/cache"
	"dashboard/internal/configuration"
	apierrors "dashboard/internal/errors"
	"dashboard/internal/helpers"
	"dashboard/internal/models"

	"github.com/google/uuid"
)

// Manager owns the session lifecycle: Start on login, Resolve on every
// request and End on logout. Sessions live in the cache and expire with it.
type Manager struct {
	cache     c.ICache
	jwtSecret string
	ttl       time.Duration
	now       func() time.Time
}

func NewManager(cache c.ICache, jwtSecret string, ttl time.Duration) *Manager {
	return &Manager{cache: cache, jwtSecret: jwtSecret, ttl: ttl, now: time.Now}
}

func sessionKey(id uuid.UUID) string {
	return fmt.Sprintf(configuration.CacheSessionKey, id.String())
}

// Start stores a new session for a successful backend login and returns the
// dashboard token referencing it.
func (m *Manager) Start(ctx context.Context, login models.BackendLoginResponse, locale string) (models.AuthLoginResponse, error) {
	now := m.now().UTC()
	session := models.Session{
		ID:           uuid.New(),
		User:         login.User,
		BackendToken: login.Token,
		Locale:       locale,
		CreatedAt:    now,
		ExpiresAt:    now.Add(m.ttl),
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return models.AuthLoginResponse{}, fmt.Errorf("failed to encode session: %w", err)
	}

	if err = m.cache.Set(ctx, sessionKey(session.ID), payload, m.ttl); err != nil {
		return models.AuthLoginResponse{}, fmt.Errorf("failed to store session: %w", err)
	}

	token, err := helpers.NewSessionToken(m.jwtSecret, session)
	if err != nil {
		return models.AuthLoginResponse{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	return models.AuthLoginResponse{
		AccessToken: token,
		ExpiresAt:   session.ExpiresAt,
		User:        session.User,
	}, nil
}

// Resolve validates token and loads the session it references.
func (m *Manager) Resolve(ctx context.Context, token string) (models.Session, error) {
	claims, err := helpers.ParseSessionToken(m.jwtSecret, token)
	if err != nil {
		return models.Session{}, apierrors.ErrSessionExpired
	}

	payload, err := m.cache.Get(ctx, sessionKey(claims.SessionID))
	if err != nil {
		if errors.Is(err, c.ErrCacheMiss) {
			return models.Session{}, apierrors.ErrSessionExpired
		}
		return models.Session{}, fmt.Errorf("failed to load session: %w", err)
	}

	var session models.Session
	if err = json.Unmarshal(payload, &session); err != nil {
		return models.Session{}, apierrors.ErrSessionExpired
	}

	if !session.ExpiresAt.IsZero() && m.now().After(session.ExpiresAt) {
		return models.Session{}, apierrors.ErrSessionExpired
	}

	return session, nil
}

// End deletes the session. Ending an unknown session is not an error.
func (m *Manager) End(ctx context.Context, id uuid.UUID) error {
	if err := m.cache.Delete(ctx, sessionKey(id)); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
