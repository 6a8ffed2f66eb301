// Package profile serves the signed-in user's account page: identity, a
// summary of the collection and account edits.
package profile

import (
	"context"
	"errors"

	"vinylvault/internal/stats"
	"vinylvault/internal/user"
)

var (
	ErrCurrentPasswordRequired = errors.New("current password is required to set a new one")
	ErrWrongPassword           = errors.New("current password is incorrect")
)

type Profile struct {
	User       user.User      `json:"user"`
	Collection stats.Overview `json:"collection"`
}

// UpdateCommand carries optional edits. Nil fields are left unchanged.
type UpdateCommand struct {
	Name            *string
	Email           *string
	Avatar          *string
	CurrentPassword string
	NewPassword     string
}

type Users interface {
	GetByID(ctx context.Context, id string) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Update(ctx context.Context, u *user.User) error
}

type StatsSource interface {
	ForUser(ctx context.Context, userID string) (stats.Stats, error)
}
