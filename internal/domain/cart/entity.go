// internal/domain/cart/entity.go
package cart

import (
	"github.com/your-org/storefront-backend/internal/domain/ledger"
)

// View is the cart as returned after every read and mutation
type View struct {
	Items []ledger.LineItem `json:"items"`
	ledger.PricingSummary
	// Aliases kept for storefront clients that read the legacy field names
	CartTotal      int64 `json:"cartTotal"`
	CartItemsCount int   `json:"cartItemsCount"`
}

// NewView builds a View from a persisted cart
func NewView(c ledger.Cart) *View {
	items := c.Items
	if items == nil {
		items = []ledger.LineItem{}
	}
	summary := ledger.Summarize(items)
	return &View{
		Items:          items,
		PricingSummary: summary,
		CartTotal:      summary.Subtotal,
		CartItemsCount: summary.TotalQuantity,
	}
}

// AddRequest represents add to cart request
type AddRequest struct {
	ProductRef string                   `json:"product_ref" binding:"required"`
	Quantity   int                      `json:"quantity" binding:"min=0,max=10000"`
	Descriptor *ledger.InlineDescriptor `json:"inline_descriptor"`
}

// UpdateItemRequest represents update cart item request
type UpdateItemRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=0,max=10000"`
}

// MergeRequest carries the guest cart held by the client
type MergeRequest struct {
	Items []ledger.IncomingItem `json:"items"`
}

// MergeResult is the cart after a merge plus what happened to each guest item
type MergeResult struct {
	*View
	Report ledger.MergeReport `json:"merge"`
}

// Count is the cart badge summary
type Count struct {
	ItemCount     int `json:"item_count"`
	TotalQuantity int `json:"total_quantity"`
}

// Issue kinds reported by Validate
const (
	IssueUnavailable       = "unavailable"
	IssueInsufficientStock = "insufficient_stock"
	IssuePriceChanged      = "price_changed"
)

// Issue is one problem found when re-checking a cart line against the catalog
type Issue struct {
	EntryID      string `json:"entry_id"`
	ProductRef   string `json:"product_ref"`
	Name         string `json:"name"`
	Kind         string `json:"kind"`
	Message      string `json:"message"`
	Available    *int   `json:"available,omitempty"`
	CurrentPrice *int64 `json:"current_price,omitempty"`
}

// ValidationResult reports whether the cart can be checked out as is
type ValidationResult struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues"`
	*View
}
