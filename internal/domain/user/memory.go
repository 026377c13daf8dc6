// internal/domain/user/memory.go
package user

import (
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryRepository implements Repository in process memory with the same
// version semantics as the document store. Documents are copied on the way in
// and out.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[string]*User
}

// NewMemoryRepository creates an empty in-memory user store
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]*User)}
}

func (r *MemoryRepository) Create(_ context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == u.Email {
			return ErrEmailTaken
		}
	}
	u.Version = 1
	r.users[u.ID] = clone(u)
	return nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return clone(u), nil
}

func (r *MemoryRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return clone(u), nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *MemoryRepository) Save(_ context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[u.ID]
	if !ok {
		return ErrUserNotFound
	}
	if stored.Version != u.Version {
		return ErrVersionConflict
	}
	u.Version++
	u.UpdatedAt = time.Now().UTC()
	r.users[u.ID] = clone(u)
	return nil
}

func (r *MemoryRepository) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.LastLoginAt = &at
	u.Version++
	return nil
}

func clone(u *User) *User {
	cp := *u
	cp.Cart.Items = slices.Clone(u.Cart.Items)
	cp.Cart.Merges = slices.Clone(u.Cart.Merges)
	cp.Wishlist.Items = slices.Clone(u.Wishlist.Items)
	cp.Wishlist.Merges = slices.Clone(u.Wishlist.Merges)
	if u.LastLoginAt != nil {
		at := *u.LastLoginAt
		cp.LastLoginAt = &at
	}
	return &cp
}
