// internal/domain/cart/service.go
package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/your-org/storefront-backend/internal/domain/ledger"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/pkg/metrics"
)

const ledgerName = "cart"

// ErrMergeTooLarge rejects guest batches above the configured size
var ErrMergeTooLarge = errors.New("too many items to merge")

// Options configures the cart service
type Options struct {
	MaxWriteAttempts int
	MaxMergeItems    int
	MergeRecordTTL   time.Duration
	MaxMergeRecords  int
}

// Service runs cart operations as optimistic read-modify-write cycles on the
// owning user document
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

// NewService creates a new cart service
func NewService(users user.Repository, catalog ledger.Catalog, opts Options, m *metrics.Metrics, logger logrus.FieldLogger) *Service {
	s := &Service{
		users:         users,
		resolver:      ledger.NewResolver(catalog),
		metrics:       m,
		logger:        logger.WithField("component", "cart"),
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

// Get returns the user's cart
func (s *Service) Get(ctx context.Context, userID string) (*View, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return NewView(u.Cart), nil
}

// Count returns the number of lines and units in the cart
func (s *Service) Count(ctx context.Context, userID string) (*Count, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary := ledger.Summarize(u.Cart.Items)
	return &Count{ItemCount: summary.ItemCount, TotalQuantity: summary.TotalQuantity}, nil
}

// Add adds a product to the cart
func (s *Service) Add(ctx context.Context, userID string, req *AddRequest) (*View, error) {
	return s.mutate(ctx, "add", userID, func(l *ledger.CartLedger) error {
		_, err := l.Add(ctx, req.ProductRef, req.Quantity, req.Descriptor)
		return err
	})
}

// SetQuantity replaces the quantity of a cart line. Zero removes it.
func (s *Service) SetQuantity(ctx context.Context, userID, ref string, quantity int) (*View, error) {
	return s.mutate(ctx, "set_quantity", userID, func(l *ledger.CartLedger) error {
		_, err := l.SetQuantity(ctx, ref, quantity)
		return err
	})
}

// Remove removes a cart line
func (s *Service) Remove(ctx context.Context, userID, ref string) (*View, error) {
	return s.mutate(ctx, "remove", userID, func(l *ledger.CartLedger) error {
		_, err := l.Remove(ref)
		return err
	})
}

// Clear empties the cart
func (s *Service) Clear(ctx context.Context, userID string) (*View, error) {
	return s.mutate(ctx, "clear", userID, func(l *ledger.CartLedger) error {
		l.Clear()
		return nil
	})
}

// Merge folds a guest cart into the user's cart. A batch already applied under
// the same key, or with identical content when key is empty, is not applied again.
func (s *Service) Merge(ctx context.Context, userID string, items []ledger.IncomingItem, key string) (*MergeResult, error) {
	if s.maxMergeItems > 0 && len(items) > s.maxMergeItems {
		return nil, fmt.Errorf("%w: %d items, at most %d allowed", ErrMergeTooLarge, len(items), s.maxMergeItems)
	}

	var report ledger.MergeReport
	u, err := s.mutator.Apply(ctx, userID, func(u *user.User) error {
		_, report = s.reconciler.ReconcileCart(ctx, &u.Cart, s.env(userID), items, key)
		return nil
	})
	s.record("merge", err)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordMerge(ledgerName, len(report.Skipped), report.Replayed)
	if len(report.Skipped) > 0 || report.Replayed {
		s.logger.WithFields(logrus.Fields{
			"user_id":  userID,
			"added":    len(report.Added),
			"updated":  len(report.Updated),
			"skipped":  len(report.Skipped),
			"replayed": report.Replayed,
		}).Info("guest cart merged")
	}
	return &MergeResult{View: NewView(u.Cart), Report: report}, nil
}

// Validate re-checks every line against the catalog without changing the cart
func (s *Service) Validate(ctx context.Context, userID string) (*ValidationResult, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	issues := []Issue{}
	for _, item := range u.Cart.Items {
		if item.Source == ledger.SourceInline {
			continue
		}
		issue, err := s.check(ctx, item)
		if err != nil {
			return nil, err
		}
		if issue != nil {
			issues = append(issues, *issue)
		}
	}

	return &ValidationResult{Valid: len(issues) == 0, Issues: issues, View: NewView(u.Cart)}, nil
}

func (s *Service) check(ctx context.Context, item ledger.LineItem) (*Issue, error) {
	issue := &Issue{EntryID: item.EntryID, ProductRef: item.ProductRef, Name: item.Name}

	snap, err := s.resolver.Resolve(ctx, ledger.ResolveRequest{
		Ref:        item.ProductRef,
		Quantity:   item.Quantity,
		CheckStock: true,
	})
	var stockErr *ledger.StockError
	switch {
	case errors.As(err, &stockErr):
		available := stockErr.Available
		issue.Kind = IssueInsufficientStock
		issue.Message = stockErr.Error()
		issue.Available = &available
		return issue, nil
	case errors.Is(err, ledger.ErrProductNotFound), errors.Is(err, ledger.ErrInvalidReference):
		issue.Kind = IssueUnavailable
		issue.Message = "product is no longer available"
		return issue, nil
	case err != nil:
		return nil, err
	}

	if snap.EffectivePrice != item.UnitPrice {
		price := snap.EffectivePrice
		issue.Kind = IssuePriceChanged
		issue.Message = "price has changed since the item was added"
		issue.CurrentPrice = &price
		return issue, nil
	}
	return nil, nil
}

func (s *Service) mutate(ctx context.Context, op, userID string, fn func(l *ledger.CartLedger) error) (*View, error) {
	u, err := s.mutator.Apply(ctx, userID, func(u *user.User) error {
		return fn(ledger.NewCartLedger(&u.Cart, s.env(userID)))
	})
	s.record(op, err)
	if err != nil {
		return nil, err
	}
	return NewView(u.Cart), nil
}

func (s *Service) record(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = string(ledger.KindOf(err))
	}
	s.metrics.RecordLedgerOp(ledgerName, op, outcome)
}
