package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

type Service struct {
	repo          Repository
	blacklistRepo BlacklistRepository
}

func NewService(repo Repository, blacklistRepo BlacklistRepository) *Service {
	return &Service{
		repo:          repo,
		blacklistRepo: blacklistRepo,
	}
}

func (s *Service) ListByUserID(ctx context.Context, userID string) ([]Session, error) {
	return s.repo.ListByUserID(ctx, userID)
}

// Delete removes one of userID's sessions. Sessions of other users are
// reported as not found.
func (s *Service) Delete(ctx context.Context, userID, sessionID string) error {
	return s.repo.Delete(ctx, userID, sessionID)
}

func (s *Service) Create(ctx context.Context, session *Session) error {
	return s.repo.Create(ctx, session)
}

func (s *Service) GetByTokenHash(ctx context.Context, hash string) (Session, error) {
	return s.repo.GetByTokenHash(ctx, hash)
}

func (s *Service) DeleteByTokenHash(ctx context.Context, hash string) error {
	return s.repo.DeleteByTokenHash(ctx, hash)
}

func (s *Service) AddToBlacklist(ctx context.Context, jti, userID string, expiresAt time.Time) error {
	return s.blacklistRepo.AddToken(ctx, jti, userID, expiresAt)
}

func (s *Service) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	return s.blacklistRepo.IsBlacklisted(ctx, jti)
}

// Sweep deletes expired sessions and blacklist entries.
func (s *Service) Sweep(ctx context.Context) (sessions, tokens int64, err error) {
	sessions, err = s.repo.CleanupExpired(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("sweep sessions: %w", err)
	}
	tokens, err = s.blacklistRepo.CleanupExpired(ctx)
	if err != nil {
		return sessions, 0, fmt.Errorf("sweep blacklist: %w", err)
	}
	return sessions, tokens, nil
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *Service) RunSweeper(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, m, err := s.Sweep(ctx)
			if err != nil {
				logger.WarnContext(ctx, "session sweep failed", "error", err)
				continue
			}
			if n > 0 || m > 0 {
				logger.InfoContext(ctx, "session sweep", "sessions", n, "revoked_tokens", m)
			}
		}
	}
}
