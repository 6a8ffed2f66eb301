package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vinylvault/internal/platform/crypto"
	"vinylvault/internal/user"
)

type Service struct {
	users Users
	stats StatsSource
}

func NewService(users Users, stats StatsSource) *Service {
	return &Service{users: users, stats: stats}
}

func (s *Service) Get(ctx context.Context, userID string) (Profile, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	st, err := s.stats.ForUser(ctx, userID)
	if err != nil {
		return Profile{}, fmt.Errorf("collection stats: %w", err)
	}
	return Profile{User: u, Collection: st.Overview}, nil
}

// Update applies cmd to the account. Changing the password requires the
// current one; changing the email fails with user.ErrAlreadyExists when
// another account holds it.
func (s *Service) Update(ctx context.Context, userID string, cmd UpdateCommand) (Profile, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return Profile{}, err
	}

	if cmd.Name != nil {
		u.Name = strings.TrimSpace(*cmd.Name)
	}
	if cmd.Avatar != nil {
		u.Avatar = strings.TrimSpace(*cmd.Avatar)
	}
	if cmd.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*cmd.Email))
		if email != u.Email {
			other, err := s.users.GetByEmail(ctx, email)
			switch {
			case err == nil && other.ID != u.ID:
				return Profile{}, user.ErrAlreadyExists
			case err != nil && !errors.Is(err, user.ErrNotFound):
				return Profile{}, fmt.Errorf("lookup email: %w", err)
			}
			u.Email = email
		}
	}
	if cmd.NewPassword != "" {
		if cmd.CurrentPassword == "" {
			return Profile{}, ErrCurrentPasswordRequired
		}
		if !crypto.VerifyPassword(u.PasswordHash, cmd.CurrentPassword) {
			return Profile{}, ErrWrongPassword
		}
		hash, err := crypto.HashPassword(cmd.NewPassword)
		if err != nil {
			return Profile{}, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = hash
	}

	if err := s.users.Update(ctx, &u); err != nil {
		return Profile{}, err
	}
	return s.Get(ctx, userID)
}
