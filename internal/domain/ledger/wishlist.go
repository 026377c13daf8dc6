// internal/domain/ledger/wishlist.go
package ledger

import (
	"context"

	"github.com/sirupsen/logrus"
)

// ToggleAction reports what Toggle did.
type ToggleAction string

const (
	ToggleAdded   ToggleAction = "added"
	ToggleRemoved ToggleAction = "removed"
)

// WishlistLedger applies wishlist operations to one user's Wishlist in place.
// Membership is boolean: there are no quantities and no stock checks.
type WishlistLedger struct {
	wishlist *Wishlist
	env      Env
}

// NewWishlistLedger binds a ledger to wishlist
func NewWishlistLedger(wishlist *Wishlist, env Env) *WishlistLedger {
	if wishlist.Items == nil {
		wishlist.Items = []WishlistItem{}
	}
	return &WishlistLedger{wishlist: wishlist, env: env.withDefaults()}
}

// Items returns the saved items.
func (l *WishlistLedger) Items() []WishlistItem {
	return l.wishlist.Items
}

// Contains reports whether ref is saved, by either addressing scheme.
func (l *WishlistLedger) Contains(ref string) bool {
	_, found := FindWishlist(l.wishlist.Items, ref)
	return found
}

// Add saves ref. It fails with ErrDuplicateEntry when ref is already saved.
func (l *WishlistLedger) Add(ctx context.Context, ref string, desc *InlineDescriptor) (WishlistItem, error) {
	if l.Contains(ref) {
		return WishlistItem{}, ErrDuplicateEntry
	}

	snap, err := l.env.Resolver.Resolve(ctx, ResolveRequest{Ref: ref, Descriptor: desc})
	if err != nil {
		return WishlistItem{}, err
	}
	return l.append(snap), nil
}

// Toggle adds ref when absent and removes it when present.
func (l *WishlistLedger) Toggle(ctx context.Context, ref string, desc *InlineDescriptor) (ToggleAction, error) {
	if idx, found := FindWishlist(l.wishlist.Items, ref); found {
		l.removeAt(idx)
		return ToggleRemoved, nil
	}
	if _, err := l.Add(ctx, ref, desc); err != nil {
		return "", err
	}
	return ToggleAdded, nil
}

// Remove deletes the first matching entry.
func (l *WishlistLedger) Remove(ref string) error {
	idx, found := FindWishlist(l.wishlist.Items, ref)
	if !found {
		return ErrItemNotFound
	}
	l.removeAt(idx)
	return nil
}

// Clear empties the wishlist.
func (l *WishlistLedger) Clear() {
	l.wishlist.Items = []WishlistItem{}
}

// Merge saves incoming guest items. Items already saved are skipped, never
// overwritten; items that cannot be resolved are logged and skipped.
func (l *WishlistLedger) Merge(ctx context.Context, incoming []IncomingItem) MergeReport {
	report := MergeReport{Added: []string{}, Updated: []string{}, Skipped: []SkippedItem{}}

	for _, in := range incoming {
		ref := NormalizeRef(in.ProductRef)
		if l.Contains(ref) {
			report.skip(ref, "already in wishlist")
			continue
		}

		snap, err := l.env.Resolver.Resolve(ctx, ResolveRequest{Ref: ref, Descriptor: in.Descriptor})
		if err != nil {
			l.env.Logger.WithFields(logrus.Fields{
				"product_ref": ref,
				"reason":      err.Error(),
				"ledger":      "wishlist",
			}).Warn("skipping guest wishlist item during merge")
			report.skip(ref, err.Error())
			continue
		}

		l.append(snap)
		report.Added = append(report.Added, snap.ID)
	}

	return report
}

func (l *WishlistLedger) append(snap ProductSnapshot) WishlistItem {
	item := WishlistItem{
		EntryID:       l.env.NewID(),
		ProductRef:    snap.ID,
		Source:        snap.Source,
		Name:          snap.Name,
		Price:         snap.EffectivePrice,
		OriginalPrice: snap.UnitPrice,
		Image:         snap.Image,
		Category:      snap.Category,
		Brand:         snap.Brand,
		AddedAt:       l.env.now(),
	}
	l.wishlist.Items = append(l.wishlist.Items, item)
	return item
}

func (l *WishlistLedger) removeAt(idx int) {
	l.wishlist.Items = append(l.wishlist.Items[:idx], l.wishlist.Items[idx+1:]...)
}
