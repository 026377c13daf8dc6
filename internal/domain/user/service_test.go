package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/ledger"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
)

func newTestService(t *testing.T) (*Service, *MemoryRepository) {
	t.Helper()
	cfg := &config.Config{
		App: config.AppConfig{Name: "test"},
		JWT: config.JWTConfig{
			Secret:             "a-test-secret-that-is-long-enough-123",
			AccessTokenExpiry:  time.Minute,
			RefreshTokenExpiry: time.Hour,
		},
	}
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	repo := NewMemoryRepository()
	return NewService(repo, auth.NewPasswordManager(bcrypt.MinCost), auth.NewJWTManager(cfg), logger), repo
}

func registerRequest() *RegisterRequest {
	return &RegisterRequest{
		Email:           " Ada@Example.com ",
		Password:        "Engine4Analysis",
		ConfirmPassword: "Engine4Analysis",
		FirstName:       "Ada",
		LastName:        "Lovelace",
	}
}

func TestRegister(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "ada@example.com", resp.User.Email)

	stored, err := repo.FindByID(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.Cart.Items)
	assert.Empty(t, stored.Cart.Items)
	assert.NotNil(t, stored.Wishlist.Items)
	assert.Equal(t, int64(1), stored.Version)

	_, err = svc.Register(ctx, registerRequest())
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_PasswordMismatch(t *testing.T) {
	svc, _ := newTestService(t)
	req := registerRequest()
	req.ConfirmPassword = "Different1Password"

	_, err := svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, ErrPasswordMismatch)
}

func TestRegister_WeakPassword(t *testing.T) {
	svc, _ := newTestService(t)
	req := registerRequest()
	req.Password = "alllowercase1"
	req.ConfirmPassword = req.Password

	_, err := svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	resp, err := svc.Login(ctx, &LoginRequest{Email: "ADA@example.com", Password: "Engine4Analysis"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.NotNil(t, resp.User.LastLoginAt)

	_, err = svc.Login(ctx, &LoginRequest{Email: "ada@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, &LoginRequest{Email: "nobody@example.com", Password: "Engine4Analysis"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefresh(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	reg, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	resp, err := svc.Refresh(ctx, reg.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, resp.User.ID)

	_, err = svc.Refresh(ctx, reg.AccessToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

type flakyRepository struct {
	*MemoryRepository
	conflicts int
}

func (r *flakyRepository) Save(ctx context.Context, u *User) error {
	if r.conflicts > 0 {
		r.conflicts--
		return ErrVersionConflict
	}
	return r.MemoryRepository.Save(ctx, u)
}

func seedUser(t *testing.T, repo Repository) *User {
	t.Helper()
	u := &User{ID: "u1", Email: "u1@example.com", IsActive: true}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestMutator_RetriesOnConflict(t *testing.T) {
	repo := &flakyRepository{MemoryRepository: NewMemoryRepository(), conflicts: 2}
	seedUser(t, repo)
	lost := 0
	m := NewMutator(repo, 3, func() { lost++ })

	calls := 0
	u, err := m.Apply(context.Background(), "u1", func(u *User) error {
		calls++
		u.Cart.Items = append(u.Cart.Items, ledger.LineItem{ProductRef: "X", Quantity: 1})
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, lost)
	assert.Len(t, u.Cart.Items, 1, "every attempt starts from a fresh read")
	assert.Equal(t, int64(2), u.Version)
}

func TestMutator_GivesUp(t *testing.T) {
	repo := &flakyRepository{MemoryRepository: NewMemoryRepository(), conflicts: 5}
	seedUser(t, repo)

	_, err := NewMutator(repo, 3, nil).Apply(context.Background(), "u1", func(*User) error { return nil })
	assert.ErrorIs(t, err, ErrConcurrentUpdate)
}

func TestMutator_FnErrorSkipsWrite(t *testing.T) {
	repo := NewMemoryRepository()
	seedUser(t, repo)
	boom := errors.New("boom")

	_, err := NewMutator(repo, 3, nil).Apply(context.Background(), "u1", func(u *User) error {
		u.FirstName = "changed"
		return boom
	})
	assert.ErrorIs(t, err, boom)

	stored, err := repo.FindByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "", stored.FirstName)
	assert.Equal(t, int64(1), stored.Version)
}

func TestMemoryRepository_StaleSaveConflicts(t *testing.T) {
	repo := NewMemoryRepository()
	seedUser(t, repo)
	ctx := context.Background()

	a, err := repo.FindByID(ctx, "u1")
	require.NoError(t, err)
	b, err := repo.FindByID(ctx, "u1")
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, a))
	assert.ErrorIs(t, repo.Save(ctx, b), ErrVersionConflict)
}

func TestMemoryRepository_LastLoginSurvivesStaleSave(t *testing.T) {
	repo := NewMemoryRepository()
	seedUser(t, repo)
	ctx := context.Background()
	m := NewMutator(repo, 3, nil)

	at := time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)
	calls := 0
	u, err := m.Apply(ctx, "u1", func(u *User) error {
		calls++
		if calls == 1 {
			require.NoError(t, repo.UpdateLastLogin(ctx, "u1", at))
		}
		u.Cart.Items = append(u.Cart.Items, ledger.LineItem{ProductRef: "X", Quantity: 1})
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "the login write forces a retry")
	require.NotNil(t, u.LastLoginAt)
	assert.True(t, at.Equal(*u.LastLoginAt))

	stored, err := repo.FindByID(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, stored.LastLoginAt)
	assert.True(t, at.Equal(*stored.LastLoginAt))
	assert.Len(t, stored.Cart.Items, 1)
	assert.Equal(t, int64(3), stored.Version)
}

func TestEnsureAdmin(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.EnsureAdmin(ctx, "Admin@Example.com", "Admin1234"))
	require.NoError(t, svc.EnsureAdmin(ctx, "admin@example.com", "Other1234"))

	admin, err := repo.FindByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)

	resp, err := svc.Login(ctx, &LoginRequest{Email: "admin@example.com", Password: "Admin1234"})
	require.NoError(t, err)
	assert.True(t, resp.User.IsAdmin)
}
