// internal/domain/user/entity.go
package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/your-org/storefront-backend/internal/domain/ledger"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrVersionConflict    = errors.New("user was modified concurrently")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrWeakPassword       = errors.New("password does not meet requirements")
)

// User is the aggregate that owns a cart and a wishlist. Every write is
// conditional on Version.
type User struct {
	ID           string          `bson:"_id" json:"id"`
	Email        string          `bson:"email" json:"email"`
	PasswordHash string          `bson:"password_hash" json:"-"`
	FirstName    string          `bson:"first_name" json:"first_name"`
	LastName     string          `bson:"last_name" json:"last_name"`
	Phone        string          `bson:"phone,omitempty" json:"phone,omitempty"`
	IsActive     bool            `bson:"is_active" json:"is_active"`
	IsAdmin      bool            `bson:"is_admin" json:"is_admin"`
	Cart         ledger.Cart     `bson:"cart" json:"-"`
	Wishlist     ledger.Wishlist `bson:"wishlist" json:"-"`
	Version      int64           `bson:"version" json:"-"`
	LastLoginAt  *time.Time      `bson:"last_login_at,omitempty" json:"last_login_at,omitempty"`
	CreatedAt    time.Time       `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `bson:"updated_at" json:"updated_at"`
}

// NormalizeEmail lower-cases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GetFullName returns the user's full name
func (u *User) GetFullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// GetDisplayName returns display name (full name or email)
func (u *User) GetDisplayName() string {
	if name := u.GetFullName(); name != "" {
		return name
	}
	return u.Email
}

// Repository persists user aggregates
type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	// Save replaces the document when its stored version equals u.Version and
	// increments u.Version. It returns ErrVersionConflict otherwise.
	Save(ctx context.Context, u *User) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}
