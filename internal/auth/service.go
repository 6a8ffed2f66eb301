// Package auth issues access and refresh tokens.
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"vinylvault/internal/platform/crypto"
	"vinylvault/internal/session"
	"vinylvault/internal/user"
)

var ErrUnauthorized = errors.New("unauthorized")

const (
	AccessTokenTTL     = 15 * time.Minute
	RefreshTokenTTL    = 30 * 24 * time.Hour
	RememberRefreshTTL = 90 * 24 * time.Hour
)

// Tokens is the credential pair handed to a client.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

type Service struct {
	secret         string
	userService    *user.Service
	sessionService *session.Service
	now            func() time.Time
}

func NewService(secret string, userService *user.Service, sessionService *session.Service) *Service {
	return &Service{
		secret:         secret,
		userService:    userService,
		sessionService: sessionService,
		now:            time.Now,
	}
}

func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

func refreshTTL(rememberMe bool) time.Duration {
	if rememberMe {
		return RememberRefreshTTL
	}
	return RefreshTokenTTL
}

func (s *Service) Login(ctx context.Context, email, password string, rememberMe bool, userAgent, ipAddress string) (Tokens, error) {
	u, err := s.userService.GetByEmail(ctx, email)
	if err != nil || !crypto.VerifyPassword(u.PasswordHash, password) {
		return Tokens{}, ErrUnauthorized
	}

	return s.issue(ctx, u, session.Session{
		UserID:     u.ID,
		UserAgent:  userAgent,
		IPAddress:  ipAddress,
		RememberMe: rememberMe,
	})
}

// RefreshToken rotates a refresh token: the presented one is consumed and a
// new pair is issued for the same session settings.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (Tokens, error) {
	tokenHash := hashToken(refreshToken)
	sess, err := s.sessionService.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		return Tokens{}, ErrUnauthorized
	}

	u, err := s.userService.GetByID(ctx, sess.UserID)
	if err != nil {
		return Tokens{}, ErrUnauthorized
	}

	if err := s.sessionService.DeleteByTokenHash(ctx, tokenHash); err != nil {
		return Tokens{}, fmt.Errorf("consume refresh token: %w", err)
	}

	sess.ID = ""
	return s.issue(ctx, u, sess)
}

func (s *Service) issue(ctx context.Context, u user.User, sess session.Session) (Tokens, error) {
	accessToken, _, err := crypto.GenerateToken(s.secret, u.ID, u.Role, AccessTokenTTL)
	if err != nil {
		return Tokens{}, err
	}

	refreshToken, err := crypto.RandomHex(32)
	if err != nil {
		return Tokens{}, err
	}
	sess.RefreshTokenHash = hashToken(refreshToken)
	sess.ExpiresAt = s.now().Add(refreshTTL(sess.RememberMe))

	if err := s.sessionService.Create(ctx, &sess); err != nil {
		return Tokens{}, fmt.Errorf("create session: %w", err)
	}

	return Tokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(AccessTokenTTL.Seconds()),
	}, nil
}

// Logout revokes the access token until it expires and, when given, ends the
// refresh-token session.
func (s *Service) Logout(ctx context.Context, accessToken, refreshToken, userID string) error {
	claims, err := crypto.ParseToken(s.secret, accessToken)
	if err != nil {
		return ErrUnauthorized
	}

	expiresAt := s.now().Add(AccessTokenTTL)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	if err := s.sessionService.AddToBlacklist(ctx, claims.ID, userID, expiresAt); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}
	if refreshToken != "" {
		if err := s.sessionService.DeleteByTokenHash(ctx, hashToken(refreshToken)); err != nil {
			return fmt.Errorf("end session: %w", err)
		}
	}
	return nil
}
