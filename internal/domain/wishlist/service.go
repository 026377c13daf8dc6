// internal/domain/wishlist/service.go
package wishlist

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/ledger"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/pkg/metrics"
)

const ledgerName = "wishlist"

// Service runs wishlist operations against the owning user document
type Service struct {
	users         user.Repository
	mutator       *user.Mutator
	resolver      *ledger.Resolver
	reconciler    *ledger.Reconciler
	metrics       *metrics.Metrics
	logger        logrus.FieldLogger
	maxMergeItems int
	now           func() time.Time
}

// NewService creates a new wishlist service. It shares cart.Options.
func NewService(users user.Repository, catalog ledger.Catalog, opts cart.Options, m *metrics.Metrics, logger logrus.FieldLogger) *Service {
	s := &Service{
		users:         users,
		resolver:      ledger.NewResolver(catalog),
		metrics:       m,
		logger:        logger.WithField("component", "wishlist"),
		maxMergeItems: opts.MaxMergeItems,
		now:           time.Now,
	}
	s.mutator = user.NewMutator(users, opts.MaxWriteAttempts, func() { m.RecordVersionConflict(ledgerName) })
	s.reconciler = ledger.NewReconciler(opts.MergeRecordTTL, opts.MaxMergeRecords, func() time.Time { return s.now() })
	return s
}

func (s *Service) env(userID string) ledger.Env {
	return ledger.Env{
		Resolver: s.resolver,
		Now:      s.now,
		Logger:   s.logger.WithField("user_id", userID),
	}
}

// Get returns the user's wishlist
func (s *Service) Get(ctx context.Context, userID string) (*View, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return NewView(u.Wishlist), nil
}

// Check reports whether ref is saved
func (s *Service) Check(ctx context.Context, userID, ref string) (*CheckResult, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &CheckResult{ProductRef: ref}
	if idx, found := ledger.FindWishlist(u.Wishlist.Items, ref); found {
		result.InWishlist = true
		result.EntryID = u.Wishlist.Items[idx].EntryID
	}
	return result, nil
}

// Add saves a product
func (s *Service) Add(ctx context.Context, userID string, req *AddRequest) (*View, error) {
	return s.mutate(ctx, "add", userID, func(l *ledger.WishlistLedger) error {
		_, err := l.Add(ctx, req.ProductRef, req.Descriptor)
		return err
	})
}

// Toggle saves ref when absent and removes it when present
func (s *Service) Toggle(ctx context.Context, userID string, req *AddRequest) (*ToggleResult, error) {
	var action ledger.ToggleAction
	view, err := s.mutate(ctx, "toggle", userID, func(l *ledger.WishlistLedger) error {
		var err error
		action, err = l.Toggle(ctx, req.ProductRef, req.Descriptor)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &ToggleResult{View: view, Action: action, InWishlist: action == ledger.ToggleAdded}, nil
}

// Remove deletes a saved item
func (s *Service) Remove(ctx context.Context, userID, ref string) (*View, error) {
	return s.mutate(ctx, "remove", userID, func(l *ledger.WishlistLedger) error {
		return l.Remove(ref)
	})
}

// Clear empties the wishlist
func (s *Service) Clear(ctx context.Context, userID string) (*View, error) {
	return s.mutate(ctx, "clear", userID, func(l *ledger.WishlistLedger) error {
		l.Clear()
		return nil
	})
}

// Merge folds a guest wishlist into the user's wishlist. Items already saved are skipped.
func (s *Service) Merge(ctx context.Context, userID string, items []ledger.IncomingItem, key string) (*MergeResult, error) {
	if s.maxMergeItems > 0 && len(items) > s.maxMergeItems {
		return nil, fmt.Errorf("%w: %d items, at most %d allowed", cart.ErrMergeTooLarge, len(items), s.maxMergeItems)
	}

	var report ledger.MergeReport
	u, err := s.mutator.Apply(ctx, userID, func(u *user.User) error {
		report = s.reconciler.ReconcileWishlist(ctx, &u.Wishlist, s.env(userID), items, key)
		return nil
	})
	s.record("merge", err)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordMerge(ledgerName, len(report.Skipped), report.Replayed)
	return &MergeResult{View: NewView(u.Wishlist), Report: report}, nil
}

// MoveToCart adds a saved item to the cart and removes it from the wishlist in
// a single write. Nothing changes when the cart add fails.
func (s *Service) MoveToCart(ctx context.Context, userID, ref string, quantity int) (*MoveResult, error) {
	u, err := s.mutator.Apply(ctx, userID, func(u *user.User) error {
		env := s.env(userID)
		wl := ledger.NewWishlistLedger(&u.Wishlist, env)

		idx, found := ledger.FindWishlist(u.Wishlist.Items, ref)
		if !found {
			return ledger.ErrItemNotFound
		}
		item := u.Wishlist.Items[idx]

		var desc *ledger.InlineDescriptor
		if item.Source == ledger.SourceInline {
			desc = descriptorFor(item)
		}
		if _, err := ledger.NewCartLedger(&u.Cart, env).Add(ctx, item.ProductRef, quantity, desc); err != nil {
			return err
		}
		return wl.Remove(item.EntryID)
	})
	s.record("move_to_cart", err)
	if err != nil {
		return nil, err
	}

	return &MoveResult{Wishlist: NewView(u.Wishlist), Cart: cart.NewView(u.Cart)}, nil
}

func descriptorFor(item ledger.WishlistItem) *ledger.InlineDescriptor {
	price := item.OriginalPrice
	discount := item.Price
	return &ledger.InlineDescriptor{
		Name:          item.Name,
		Price:         &price,
		DiscountPrice: &discount,
		Image:         item.Image,
		Category:      item.Category,
		Brand:         item.Brand,
	}
}

func (s *Service) mutate(ctx context.Context, op, userID string, fn func(l *ledger.WishlistLedger) error) (*View, error) {
	u, err := s.mutator.Apply(ctx, userID, func(u *user.User) error {
		return fn(ledger.NewWishlistLedger(&u.Wishlist, s.env(userID)))
	})
	s.record(op, err)
	if err != nil {
		return nil, err
	}
	return NewView(u.Wishlist), nil
}

func (s *Service) record(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = string(ledger.KindOf(err))
	}
	s.metrics.RecordLedgerOp(ledgerName, op, outcome)
}
