// internal/domain/order/service.go
package order

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	"github.com/your-org/storefront-backend/internal/domain/ledger"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/pkg/metrics"
)

// InvoiceRenderer turns an order into a printable invoice
type InvoiceRenderer interface {
	GenerateInvoice(o *Order) (*bytes.Buffer, error)
}

// Service places and reads orders
type Service struct {
	orders    Repository
	users     user.Repository
	mutator   *user.Mutator
	resolver  *ledger.Resolver
	publisher EventPublisher
	invoices  InvoiceRenderer
	metrics   *metrics.Metrics
	logger    logrus.FieldLogger
	payeeID   string
	now       func() time.Time
}

// Deps groups the service collaborators
type Deps struct {
	Orders           Repository
	Users            user.Repository
	Catalog          ledger.Catalog
	Publisher        EventPublisher
	Invoices         InvoiceRenderer
	Metrics          *metrics.Metrics
	Logger           logrus.FieldLogger
	MaxWriteAttempts int
	UPIPayeeID       string
}

// NewService creates a new order service
func NewService(d Deps) *Service {
	return &Service{
		orders:    d.Orders,
		users:     d.Users,
		mutator:   user.NewMutator(d.Users, d.MaxWriteAttempts, func() { d.Metrics.RecordVersionConflict("cart") }),
		resolver:  ledger.NewResolver(d.Catalog),
		publisher: d.Publisher,
		invoices:  d.Invoices,
		metrics:   d.Metrics,
		logger:    d.Logger.WithField("component", "order"),
		payeeID:   d.UPIPayeeID,
		now:       time.Now,
	}
}

// PlaceRequest represents order placement with a manual UPI payment
type PlaceRequest struct {
	UPITransactionID string  `json:"upi_transaction_id" binding:"required"`
	ShippingAddress  Address `json:"shipping_address" binding:"required"`
	Notes            string  `json:"notes"`
}

// ListResponse represents a page of orders
type ListResponse struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// Place turns the user's cart into an order awaiting payment verification and
// removes the ordered lines from the cart.
func (s *Service) Place(ctx context.Context, userID string, req *PlaceRequest) (*Order, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(u.Cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	// stock is re-checked for catalog lines; it is not reserved
	for _, item := range u.Cart.Items {
		if item.Source == ledger.SourceInline {
			continue
		}
		if _, err := s.resolver.Resolve(ctx, ledger.ResolveRequest{
			Ref:        item.ProductRef,
			Quantity:   item.Quantity,
			CheckStock: true,
		}); err != nil {
			return nil, fmt.Errorf("%s: %w", item.Name, err)
		}
	}

	now := s.now().UTC()
	o := &Order{
		ID:          uuid.NewString(),
		OrderNumber: "ORD-" + ulid.Make().String(),
		UserID:      u.ID,
		Email:       u.Email,
		Status:      StatusPendingVerification,
		Payment: Payment{
			Method:        PaymentMethodUPI,
			TransactionID: strings.TrimSpace(req.UPITransactionID),
			PayeeID:       s.payeeID,
		},
		Lines:           make([]Line, 0, len(u.Cart.Items)),
		Pricing:         ledger.Summarize(u.Cart.Items),
		ShippingAddress: req.ShippingAddress,
		Notes:           req.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for _, item := range u.Cart.Items {
		o.Lines = append(o.Lines, Line{
			EntryID:    item.EntryID,
			ProductRef: item.ProductRef,
			Source:     item.Source,
			Name:       item.Name,
			Image:      item.Image,
			UnitPrice:  item.UnitPrice,
			Quantity:   item.Quantity,
			LineTotal:  item.LineTotal,
		})
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, err
	}

	if _, err := s.mutator.Apply(ctx, userID, func(u *user.User) error {
		l := ledger.NewCartLedger(&u.Cart, ledger.Env{})
		for _, line := range o.Lines {
			if _, err := l.Remove(line.EntryID); err != nil && !errors.Is(err, ledger.ErrItemNotFound) {
				return err
			}
		}
		return nil
	}); err != nil {
		// the order stands; the client can clear the cart itself
		s.logger.WithError(err).WithField("order_id", o.ID).Error("failed to clear cart after placing order")
	}

	s.metrics.RecordOrderPlaced()
	s.logger.WithFields(logrus.Fields{
		"order_id":    o.ID,
		"user_id":     userID,
		"final_total": o.Pricing.FinalTotal,
	}).Info("order placed")

	event := PlacedEvent{
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		UserID:        o.UserID,
		Lines:         o.Lines,
		FinalTotal:    o.Pricing.FinalTotal,
		TransactionID: o.Payment.TransactionID,
		PlacedAt:      o.CreatedAt,
	}
	if err := s.publisher.PublishOrderPlaced(ctx, event); err != nil {
		s.logger.WithError(err).WithField("order_id", o.ID).Warn("failed to publish order placed event")
	}

	return o, nil
}

// Get returns one of the user's orders. Admins may read any order.
func (s *Service) Get(ctx context.Context, userID string, isAdmin bool, orderID string) (*Order, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID && !isAdmin {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

// ListForUser returns the user's orders, newest first
func (s *Service) ListForUser(ctx context.Context, userID string, page, limit int) (*ListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	orders, total, err := s.orders.ListByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []Order{}
	}

	return &ListResponse{
		Orders: orders,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: int((total + int64(limit) - 1) / int64(limit)),
		},
	}, nil
}

// Invoice renders the invoice PDF of an order
func (s *Service) Invoice(ctx context.Context, userID string, isAdmin bool, orderID string) (*Order, *bytes.Buffer, error) {
	o, err := s.Get(ctx, userID, isAdmin, orderID)
	if err != nil {
		return nil, nil, err
	}
	pdf, err := s.invoices.GenerateInvoice(o)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate invoice: %w", err)
	}
	return o, pdf, nil
}
