// internal/domain/user/service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/your-org/storefront-backend/internal/domain/ledger"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
)

// Service handles registration, login and profiles
type Service struct {
	repo      Repository
	passwords *auth.PasswordManager
	tokens    *auth.JWTManager
	logger    logrus.FieldLogger
	now       func() time.Time
}

// NewService creates a new user service
func NewService(repo Repository, passwords *auth.PasswordManager, tokens *auth.JWTManager, logger logrus.FieldLogger) *Service {
	return &Service{
		repo:      repo,
		passwords: passwords,
		tokens:    tokens,
		logger:    logger.WithField("component", "user"),
		now:       time.Now,
	}
}

// RegisterRequest represents user registration data
type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	FirstName       string `json:"first_name" binding:"required"`
	LastName        string `json:"last_name" binding:"required"`
	Phone           string `json:"phone"`
}

// LoginRequest represents user login data. Guest items held by the client
// before login are merged into the persisted ledgers.
type LoginRequest struct {
	Email         string                `json:"email" binding:"required,email"`
	Password      string                `json:"password" binding:"required"`
	GuestCart     []ledger.IncomingItem `json:"guest_cart"`
	GuestWishlist []ledger.IncomingItem `json:"guest_wishlist"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User *User `json:"user"`
	*auth.TokenPair
}

// Register creates a new user account with an empty cart and wishlist
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWeakPassword, err)
	}

	hash, err := s.passwords.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	u := &User{
		ID:           uuid.NewString(),
		Email:        NormalizeEmail(req.Email),
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Phone:        req.Phone,
		IsActive:     true,
		Cart:         ledger.Cart{Items: []ledger.LineItem{}},
		Wishlist:     ledger.Wishlist{Items: []ledger.WishlistItem{}},
		LastLoginAt:  &now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.logger.WithField("user_id", u.ID).Info("user registered")
	return s.issue(u)
}

// Login authenticates a user
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	u, err := s.repo.FindByEmail(ctx, NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := s.passwords.VerifyPassword(req.Password, u.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, u.ID, now); err != nil {
		s.logger.WithError(err).WithField("user_id", u.ID).Warn("failed to record last login")
	} else {
		u.LastLoginAt = &now
	}

	return s.issue(u)
}

// Refresh exchanges a refresh token for a new token pair
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.tokens.ValidateToken(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	u, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrUserNotFound
	}
	return s.issue(u)
}

// Profile gets user profile by ID
func (s *Service) Profile(ctx context.Context, userID string) (*User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *Service) issue(u *User) (*AuthResponse, error) {
	pair, err := s.tokens.IssuePair(u.ID, u.Email, u.IsAdmin)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{User: u, TokenPair: pair}, nil
}

// EnsureAdmin creates an admin account unless one already uses email
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) error {
	email = NormalizeEmail(email)
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, ErrUserNotFound) {
		return err
	}

	hash, err := s.passwords.HashPassword(password)
	if err != nil {
		return err
	}
	now := s.now().UTC()
	u := &User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Admin",
		IsActive:     true,
		IsAdmin:      true,
		Cart:         ledger.Cart{Items: []ledger.LineItem{}},
		Wishlist:     ledger.Wishlist{Items: []ledger.WishlistItem{}},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, u); err != nil && !errors.Is(err, ErrEmailTaken) {
		return err
	}
	s.logger.WithField("email", email).Info("admin user ensured")
	return nil
}
