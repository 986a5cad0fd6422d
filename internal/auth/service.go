package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"routesync/internal/config"
	"routesync/internal/domain/user"
	"routesync/internal/logger"
	"routesync/internal/session"
	apperrors "routesync/pkg/errors"
)

// Service resolves the caller's identity. Identities are anonymous: when no
// session exists yet, a fresh opaque subject id is minted; the id becomes
// durable once the onboarding flow stores a session around it.
type Service struct {
	sessions *session.Store
	cfg      *config.JWTConfig
}

func NewService(sessions *session.Store, cfg *config.JWTConfig) *Service {
	return &Service{
		sessions: sessions,
		cfg:      cfg,
	}
}

// EnsureLoggedIn returns the current subject id, reusing the stored session's
// identity when present and minting an anonymous one otherwise.
func (s *Service) EnsureLoggedIn(ctx context.Context) (string, error) {
	sess, err := s.sessions.GetSession(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", apperrors.ErrAuthRequired, err)
	}
	if sess != nil {
		return sess.UserID, nil
	}

	userID := uuid.NewString()
	logger.Info("Anonymous identity minted", zap.String("user_id", userID))
	return userID, nil
}

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs a token carrying the subject and role for the HTTP surface.
func (s *Service) IssueToken(userID string, role user.Role) (string, error) {
	if s.cfg.Secret == "" {
		return "", errors.New("jwt secret is not configured")
	}

	expiry := time.Duration(s.cfg.ExpiryHours) * time.Hour
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	})

	return token.SignedString([]byte(s.cfg.Secret))
}

// ParseToken validates the token and returns the subject and role.
func (s *Service) ParseToken(tokenString string) (string, user.Role, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", apperrors.ErrInvalidToken, err)
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return "", "", apperrors.ErrInvalidToken
	}

	role, ok := user.ParseRole(c.Role)
	if !ok {
		return "", "", apperrors.ErrInvalidRole
	}

	return c.Subject, role, nil
}
