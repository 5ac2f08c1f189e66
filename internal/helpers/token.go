package helpers

import (
	"context"
	"errors"
	"strings"
	"time"

	"dashboard/internal/configuration"
	"dashboard/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// NewSessionToken signs a token referencing the session; it carries no backend credentials.
func NewSessionToken(jwtSecret string, session models.Session) (string, error) {
	claims := models.SessionClaims{
		SessionID: session.ID,
		Role:      session.User.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    configuration.AppName,
			Audience:  jwt.ClaimStrings{configuration.AudienceSession},
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// ParseSessionToken validates signature, expiry, issuer and audience.
// The "Bearer " prefix is optional.
func ParseSessionToken(jwtSecret string, tokenString string) (models.SessionClaims, error) {
	tokenString = strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer "))
	if tokenString == "" {
		return models.SessionClaims{}, errors.New("missing token")
	}

	claims := &models.SessionClaims{}

	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(jwtSecret), nil
		},
		jwt.WithIssuer(configuration.AppName),
		jwt.WithAudience(configuration.AudienceSession),
		jwt.WithLeeway(5*time.Second),
	)
	if err != nil {
		return models.SessionClaims{}, errors.New("invalid token")
	}

	if claims.SessionID == uuid.Nil {
		return models.SessionClaims{}, errors.New("invalid token")
	}

	return *claims, nil
}

func GetSession(c context.Context) (models.Session, error) {
	value, ok := c.Value(models.SessionKey{}).(models.Session)
	if !ok {
		return models.Session{}, errors.New("invalid session")
	}
	return value, nil
}
