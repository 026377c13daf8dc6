// internal/domain/user/mutator.go
package user

import (
	"context"
	"errors"
)

// ErrConcurrentUpdate is returned when every write attempt lost to a concurrent one.
var ErrConcurrentUpdate = errors.New("the cart was changed by another request, please retry")

// Mutator runs optimistic read-modify-write cycles against one user document.
type Mutator struct {
	repo        Repository
	maxAttempts int
	onConflict  func()
}

// NewMutator creates a mutator retrying up to maxAttempts times. onConflict, if
// set, is called for every lost write.
func NewMutator(repo Repository, maxAttempts int, onConflict func()) *Mutator {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Mutator{repo: repo, maxAttempts: maxAttempts, onConflict: onConflict}
}

// Apply loads the user, applies fn and saves the result. When the save loses to
// a concurrent write the whole cycle is re-run on a fresh read. An error from fn
// aborts without writing.
func (m *Mutator) Apply(ctx context.Context, userID string, fn func(u *User) error) (*User, error) {
	for attempt := 0; attempt < m.maxAttempts; attempt++ {
		u, err := m.repo.FindByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if err := fn(u); err != nil {
			return nil, err
		}

		err = m.repo.Save(ctx, u)
		if err == nil {
			return u, nil
		}
		if !errors.Is(err, ErrVersionConflict) {
			return nil, err
		}
		if m.onConflict != nil {
			m.onConflict()
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	return nil, ErrConcurrentUpdate
}
