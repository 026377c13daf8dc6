// internal/domain/ledger/ledger.go
package ledger

import (
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

// Source values recorded on line items.
const (
	SourceCatalog = "catalog"
	SourceInline  = "inline"
)

// LineItem is one purchasable cart entry. LineTotal is always UnitPrice × Quantity.
type LineItem struct {
	EntryID    string    `json:"entry_id" bson:"entry_id"`
	ProductRef string    `json:"product_ref" bson:"product_ref"`
	Source     string    `json:"source" bson:"source"`
	Name       string    `json:"name" bson:"name"`
	UnitPrice  int64     `json:"unit_price" bson:"unit_price"`
	ListPrice  int64     `json:"list_price" bson:"list_price"`
	Image      string    `json:"image,omitempty" bson:"image,omitempty"`
	Quantity   int       `json:"quantity" bson:"quantity"`
	LineTotal  int64     `json:"line_total" bson:"line_total"`
	AddedAt    time.Time `json:"added_at" bson:"added_at"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`
}

func (i LineItem) productRef() string { return i.ProductRef }
func (i LineItem) entryID() string    { return i.EntryID }

func (i *LineItem) recompute() {
	i.LineTotal = i.UnitPrice * int64(i.Quantity)
}

// WishlistItem is one saved product. There is at most one per product reference.
type WishlistItem struct {
	EntryID       string    `json:"entry_id" bson:"entry_id"`
	ProductRef    string    `json:"product_ref" bson:"product_ref"`
	Source        string    `json:"source" bson:"source"`
	Name          string    `json:"name" bson:"name"`
	Price         int64     `json:"price" bson:"price"`
	OriginalPrice int64     `json:"original_price" bson:"original_price"`
	Image         string    `json:"image,omitempty" bson:"image,omitempty"`
	Category      string    `json:"category,omitempty" bson:"category,omitempty"`
	Brand         string    `json:"brand,omitempty" bson:"brand,omitempty"`
	AddedAt       time.Time `json:"added_at" bson:"added_at"`
}

func (i WishlistItem) productRef() string { return i.ProductRef }
func (i WishlistItem) entryID() string    { return i.EntryID }

// MergeRecord remembers a guest batch that has already been folded in.
type MergeRecord struct {
	Key       string    `json:"key" bson:"key"`
	AppliedAt time.Time `json:"applied_at" bson:"applied_at"`
}

// Cart is the persisted state of a user's cart.
type Cart struct {
	Items  []LineItem    `json:"items" bson:"items"`
	Merges []MergeRecord `json:"-" bson:"merges,omitempty"`
}

// Wishlist is the persisted state of a user's wishlist.
type Wishlist struct {
	Items  []WishlistItem `json:"items" bson:"items"`
	Merges []MergeRecord  `json:"-" bson:"merges,omitempty"`
}

// IncomingItem is one guest cart or wishlist entry supplied at merge time.
type IncomingItem struct {
	ProductRef string            `json:"product_ref"`
	Quantity   int               `json:"quantity"`
	Descriptor *InlineDescriptor `json:"inline_descriptor,omitempty"`
}

// SkippedItem is an incoming item that was not merged.
type SkippedItem struct {
	ProductRef string `json:"product_ref"`
	Reason     string `json:"reason"`
}

// MergeReport summarises a merge.
type MergeReport struct {
	Added    []string      `json:"added"`
	Updated  []string      `json:"updated"`
	Skipped  []SkippedItem `json:"skipped"`
	Replayed bool          `json:"replayed"`
}

func (r *MergeReport) skip(ref, reason string) {
	r.Skipped = append(r.Skipped, SkippedItem{ProductRef: ref, Reason: reason})
}

// Env carries the collaborators ledger operations need.
type Env struct {
	Resolver *Resolver
	Now      func() time.Time
	NewID    func() string
	Logger   logrus.FieldLogger
}

func (e Env) withDefaults() Env {
	if e.Now == nil {
		e.Now = time.Now
	}
	if e.NewID == nil {
		e.NewID = func() string { return ulid.Make().String() }
	}
	if e.Logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		e.Logger = l
	}
	if e.Resolver == nil {
		e.Resolver = NewResolver(nil)
	}
	return e
}

func (e Env) now() time.Time {
	return e.Now().UTC()
}
