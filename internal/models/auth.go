package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type AuthLoginBody struct {
	Username string `json:"username" validate:"required,max=150"`
	Password string `json:"password" validate:"required,max=128"`
	Locale   string `json:"locale"   validate:"omitempty,bcp47_language_tag"`
}

// MeResponse describes the current session to the UI.
type MeResponse struct {
	User      UserInfo  `json:"user"`
	Locale    string    `json:"locale"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AuthLoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        UserInfo  `json:"user"`
}

// UserInfo is the authenticated account as reported by the backend at login.
type UserInfo struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Nominativo string `json:"nominativo"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
}

// BackendLoginResponse is the backend's answer to a login request.
type BackendLoginResponse struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

// Session is created on login and destroyed on logout. It is the only
// carrier of the user's identity and backend credentials for a request.
type Session struct {
	ID           uuid.UUID `json:"id"`
	User         UserInfo  `json:"user"`
	BackendToken string    `json:"backend_token"`
	Locale       string    `json:"locale"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type SessionKey struct{}

// SessionClaims is the JWT given to the dashboard UI; it only references the session.
type SessionClaims struct {
	SessionID uuid.UUID `json:"sid"`
	Role      Role      `json:"role"`
	jwt.RegisteredClaims
}
