package users

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered")
)

type Repo interface {
	Create(ctx context.Context, user User) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, userID string) (User, error)
	UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) error
	// SetResetToken stores a reset token for the account with the given
	// email. It reports false when no such account exists.
	SetResetToken(ctx context.Context, email, token string, expires time.Time) (bool, error)
	GetByResetToken(ctx context.Context, token string) (User, error)
	// ResetPassword replaces the password hash and clears any reset token.
	ResetPassword(ctx context.Context, userID, passwordHash string) error
	ListAll(ctx context.Context) ([]AdminUser, error)
}
