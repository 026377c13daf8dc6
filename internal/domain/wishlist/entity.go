// internal/domain/wishlist/entity.go
package wishlist

import (
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/ledger"
)

// View is the wishlist as returned after every read and mutation
type View struct {
	Items []ledger.WishlistItem `json:"items"`
	Count int                   `json:"count"`
}

// NewView builds a View from a persisted wishlist
func NewView(w ledger.Wishlist) *View {
	items := w.Items
	if items == nil {
		items = []ledger.WishlistItem{}
	}
	return &View{Items: items, Count: len(items)}
}

// AddRequest represents add to wishlist request
type AddRequest struct {
	ProductRef string                   `json:"product_ref" binding:"required"`
	Descriptor *ledger.InlineDescriptor `json:"inline_descriptor"`
}

// ToggleResult reports which way a toggle went
type ToggleResult struct {
	*View
	Action     ledger.ToggleAction `json:"action"`
	InWishlist bool                `json:"in_wishlist"`
}

// MergeRequest carries the guest wishlist held by the client
type MergeRequest struct {
	Items []ledger.IncomingItem `json:"items"`
}

// MergeResult is the wishlist after a merge plus the per-item report
type MergeResult struct {
	*View
	Report ledger.MergeReport `json:"merge"`
}

// CheckResult answers whether a product is saved
type CheckResult struct {
	ProductRef string `json:"product_ref"`
	InWishlist bool   `json:"in_wishlist"`
	EntryID    string `json:"entry_id,omitempty"`
}

// MoveToCartRequest represents moving a saved item into the cart
type MoveToCartRequest struct {
	Quantity int `json:"quantity" binding:"min=0,max=10000"`
}

// MoveResult carries both ledgers after a move
type MoveResult struct {
	Wishlist *View      `json:"wishlist"`
	Cart     *cart.View `json:"cart"`
}
