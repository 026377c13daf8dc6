// internal/domain/ledger/reference.go
package ledger

import (
	"math"
	"strings"

	"github.com/google/uuid"
)

// UnboundedStock is the available stock reported for products that are not
// tracked by the catalog.
const UnboundedStock = math.MaxInt32

// MaxLineQuantity is the largest quantity a single cart line may hold.
const MaxLineQuantity = 10000

// MaxUnitPrice is the largest inline price accepted, in minor units.
const MaxUnitPrice int64 = 1_000_000_000_000

// InlineDescriptor is product data supplied by the caller alongside a reference,
// typically taken from the page the add action originated on.
type InlineDescriptor struct {
	Name          string `json:"name" bson:"name"`
	Price         *int64 `json:"price" bson:"price"`
	DiscountPrice *int64 `json:"discount_price,omitempty" bson:"discount_price,omitempty"`
	Image         string `json:"image,omitempty" bson:"image,omitempty"`
	Category      string `json:"category,omitempty" bson:"category,omitempty"`
	Brand         string `json:"brand,omitempty" bson:"brand,omitempty"`
}

// Usable reports whether the descriptor can price and display an item on its own.
func (d *InlineDescriptor) Usable() bool {
	return d != nil && strings.TrimSpace(d.Name) != "" && d.Price != nil && *d.Price >= 0 && *d.Price <= MaxUnitPrice
}

// NormalizeRef is the form in which references are stored and compared.
func NormalizeRef(ref string) string {
	return strings.TrimSpace(ref)
}

// IsCanonical reports whether ref has the catalog's identifier format.
func IsCanonical(ref string) bool {
	id, err := uuid.Parse(ref)
	if err != nil {
		return false
	}
	return id.String() == ref
}

// ProductSource says where a product's data comes from. It is either a
// CatalogSource or an InlineSource.
type ProductSource interface {
	Ref() string
	isProductSource()
}

// CatalogSource is a product looked up in the catalog by canonical id.
type CatalogSource struct {
	ID string
}

// InlineSource is an ephemeral product described by the caller.
type InlineSource struct {
	ID         string
	Descriptor InlineDescriptor
}

func (s CatalogSource) Ref() string { return s.ID }
func (s InlineSource) Ref() string  { return s.ID }

func (CatalogSource) isProductSource() {}
func (InlineSource) isProductSource()  {}

// SourceOf decides how ref must be resolved. A usable descriptor always wins;
// otherwise the reference has to be a canonical catalog id.
func SourceOf(ref string, desc *InlineDescriptor) (ProductSource, error) {
	ref = NormalizeRef(ref)
	if ref == "" {
		return nil, ErrInvalidReference
	}
	if desc.Usable() {
		return InlineSource{ID: ref, Descriptor: *desc}, nil
	}
	if IsCanonical(ref) {
		return CatalogSource{ID: ref}, nil
	}
	return nil, ErrInvalidReference
}

// ProductSnapshot is the resolved view of a product at the time of a mutation.
type ProductSnapshot struct {
	ID             string
	Source         string
	Name           string
	UnitPrice      int64
	EffectivePrice int64
	Image          string
	Category       string
	Brand          string
	AvailableStock int
}

// Unbounded reports whether stock is not tracked for the product.
func (s ProductSnapshot) Unbounded() bool {
	return s.AvailableStock >= UnboundedStock
}

// effectivePrice picks the discounted price when it is set and not above the base price.
func effectivePrice(base int64, discount *int64) int64 {
	if discount != nil && *discount >= 0 && *discount <= base {
		return *discount
	}
	return base
}
