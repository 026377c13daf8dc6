// internal/domain/ledger/matcher.go
package ledger

// LookupKind selects which identifier space a Lookup addresses.
type LookupKind int

const (
	// LookupByReference matches the product reference stored on an entry.
	LookupByReference LookupKind = iota
	// LookupByEntryID matches the id the ledger assigned to an entry.
	LookupByEntryID
)

// Lookup addresses a ledger entry in one of the two identifier spaces.
type Lookup struct {
	Kind  LookupKind
	Value string
}

// ByReference addresses an entry by product reference.
func ByReference(ref string) Lookup { return Lookup{Kind: LookupByReference, Value: NormalizeRef(ref)} }

// ByEntryID addresses an entry by its ledger-assigned id.
func ByEntryID(id string) Lookup { return Lookup{Kind: LookupByEntryID, Value: NormalizeRef(id)} }

// entry is implemented by LineItem and WishlistItem.
type entry interface {
	productRef() string
	entryID() string
}

func (l Lookup) matches(e entry) bool {
	if l.Value == "" {
		return false
	}
	switch l.Kind {
	case LookupByReference:
		return NormalizeRef(e.productRef()) == l.Value
	case LookupByEntryID:
		return e.entryID() == l.Value
	}
	return false
}

// lookupsFor expands a caller-supplied identifier into both addressing schemes.
// Historical entries were created under either one.
func lookupsFor(ref string) []Lookup {
	return []Lookup{ByReference(ref), ByEntryID(ref)}
}

// findEntry returns the index of the first entry matched by any of lookups, or -1.
func findEntry[E entry](items []E, lookups ...Lookup) int {
	for i := range items {
		for _, l := range lookups {
			if l.matches(items[i]) {
				return i
			}
		}
	}
	return -1
}

// Find returns the index of the first line item whose product reference or
// entry id equals ref. Both sides are compared in normalized form.
func Find(items []LineItem, ref string) (int, bool) {
	i := findEntry(items, lookupsFor(ref)...)
	return i, i >= 0
}

// FindWishlist is Find for wishlist entries.
func FindWishlist(items []WishlistItem, ref string) (int, bool) {
	i := findEntry(items, lookupsFor(ref)...)
	return i, i >= 0
}
