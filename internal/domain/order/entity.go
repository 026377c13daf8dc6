// internal/domain/order/entity.go
package order

import (
	"context"
	"errors"
	"time"

	"github.com/your-org/storefront-backend/internal/domain/ledger"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrEmptyCart     = errors.New("cart is empty")
)

// Status represents the order status
type Status string

const (
	// StatusPendingVerification waits for an admin to match the UPI transaction
	StatusPendingVerification Status = "pending_verification"
	StatusConfirmed           Status = "confirmed"
	StatusCancelled           Status = "cancelled"
)

const PaymentMethodUPI = "upi"

// Address represents a shipping address
type Address struct {
	FullName     string `bson:"full_name" json:"full_name" binding:"required"`
	Phone        string `bson:"phone" json:"phone" binding:"required"`
	AddressLine1 string `bson:"address_line1" json:"address_line1" binding:"required"`
	AddressLine2 string `bson:"address_line2,omitempty" json:"address_line2,omitempty"`
	City         string `bson:"city" json:"city" binding:"required"`
	State        string `bson:"state" json:"state"`
	PostalCode   string `bson:"postal_code" json:"postal_code" binding:"required"`
	Country      string `bson:"country" json:"country"`
}

// Payment records how the order is to be paid
type Payment struct {
	Method        string     `bson:"method" json:"method"`
	TransactionID string     `bson:"transaction_id" json:"transaction_id"`
	PayeeID       string     `bson:"payee_id,omitempty" json:"payee_id,omitempty"`
	VerifiedAt    *time.Time `bson:"verified_at,omitempty" json:"verified_at,omitempty"`
}

// Line is a cart line frozen at order time
type Line struct {
	EntryID    string `bson:"entry_id" json:"entry_id"`
	ProductRef string `bson:"product_ref" json:"product_ref"`
	Source     string `bson:"source" json:"source"`
	Name       string `bson:"name" json:"name"`
	Image      string `bson:"image,omitempty" json:"image,omitempty"`
	UnitPrice  int64  `bson:"unit_price" json:"unit_price"`
	Quantity   int    `bson:"quantity" json:"quantity"`
	LineTotal  int64  `bson:"line_total" json:"line_total"`
}

// Order represents a placed order
type Order struct {
	ID              string                `bson:"_id" json:"id"`
	OrderNumber     string                `bson:"order_number" json:"order_number"`
	UserID          string                `bson:"user_id" json:"user_id"`
	Email           string                `bson:"email" json:"email"`
	Status          Status                `bson:"status" json:"status"`
	Payment         Payment               `bson:"payment" json:"payment"`
	Lines           []Line                `bson:"lines" json:"lines"`
	Pricing         ledger.PricingSummary `bson:"pricing" json:"pricing"`
	ShippingAddress Address               `bson:"shipping_address" json:"shipping_address"`
	Notes           string                `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt       time.Time             `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time             `bson:"updated_at" json:"updated_at"`
}

// PlacedEvent is published once an order has been stored
type PlacedEvent struct {
	OrderID       string    `json:"order_id"`
	OrderNumber   string    `json:"order_number"`
	UserID        string    `json:"user_id"`
	Lines         []Line    `json:"lines"`
	FinalTotal    int64     `json:"final_total"`
	TransactionID string    `json:"transaction_id"`
	PlacedAt      time.Time `json:"placed_at"`
}

// Repository persists orders
type Repository interface {
	Create(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id string) (*Order, error)
	ListByUser(ctx context.Context, userID string, page, limit int) ([]Order, int64, error)
}

// EventPublisher announces order lifecycle events
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event PlacedEvent) error
}
