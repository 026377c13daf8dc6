// internal/domain/ledger/cart.go
package ledger

import (
	"context"

	"github.com/sirupsen/logrus"
)

// CartLedger applies cart operations to one user's Cart in place.
type CartLedger struct {
	cart *Cart
	env  Env
}

// NewCartLedger binds a ledger to cart
func NewCartLedger(cart *Cart, env Env) *CartLedger {
	if cart.Items == nil {
		cart.Items = []LineItem{}
	}
	return &CartLedger{cart: cart, env: env.withDefaults()}
}

// Items returns the current line items.
func (l *CartLedger) Items() []LineItem {
	return l.cart.Items
}

// Summary returns a fresh pricing summary.
func (l *CartLedger) Summary() PricingSummary {
	return Summarize(l.cart.Items)
}

// Add puts quantity of ref into the cart, incrementing an existing entry when
// one matches. A zero quantity means one. No line may exceed MaxLineQuantity.
func (l *CartLedger) Add(ctx context.Context, ref string, quantity int, desc *InlineDescriptor) (PricingSummary, error) {
	if quantity < 0 || quantity > MaxLineQuantity {
		return PricingSummary{}, ErrInvalidQuantity
	}
	if quantity == 0 {
		quantity = 1
	}

	ref = NormalizeRef(ref)
	idx, found := Find(l.cart.Items, ref)
	req := ResolveRequest{Ref: ref, Descriptor: desc, Quantity: quantity, CheckStock: true}
	if found {
		existing := l.cart.Items[idx]
		if existing.Quantity+quantity > MaxLineQuantity {
			return PricingSummary{}, ErrInvalidQuantity
		}
		req.Ref = existing.ProductRef
		req.Held = existing.Quantity
		req.Descriptor = descriptorOrStored(desc, existing)
	}

	snap, err := l.env.Resolver.Resolve(ctx, req)
	if err != nil {
		return PricingSummary{}, err
	}

	if found {
		l.increment(idx, snap, quantity)
	} else {
		l.append(snap, min(quantity, snap.AvailableStock))
	}
	return l.Summary(), nil
}

// SetQuantity replaces the quantity of the matching entry. Zero removes it.
// Only an increase is checked against the catalog, so a line whose product was
// delisted can still be lowered.
func (l *CartLedger) SetQuantity(ctx context.Context, ref string, quantity int) (PricingSummary, error) {
	if quantity < 0 || quantity > MaxLineQuantity {
		return PricingSummary{}, ErrInvalidQuantity
	}

	idx, found := Find(l.cart.Items, ref)
	if !found {
		return PricingSummary{}, ErrItemNotFound
	}
	if quantity == 0 {
		l.removeAt(idx)
		return l.Summary(), nil
	}

	item := &l.cart.Items[idx]
	if item.Source != SourceInline && quantity > item.Quantity {
		_, err := l.env.Resolver.Resolve(ctx, ResolveRequest{
			Ref:        item.ProductRef,
			Quantity:   quantity,
			CheckStock: true,
		})
		if err != nil {
			return PricingSummary{}, err
		}
	}

	item.Quantity = quantity
	item.UpdatedAt = l.env.now()
	item.recompute()
	return l.Summary(), nil
}

// Remove deletes the first matching entry.
func (l *CartLedger) Remove(ref string) (PricingSummary, error) {
	idx, found := Find(l.cart.Items, ref)
	if !found {
		return PricingSummary{}, ErrItemNotFound
	}
	l.removeAt(idx)
	return l.Summary(), nil
}

// Clear empties the cart.
func (l *CartLedger) Clear() PricingSummary {
	l.cart.Items = []LineItem{}
	return l.Summary()
}

// Merge folds incoming guest items into the cart. Items that cannot be resolved
// are logged and skipped; the merge itself never fails.
func (l *CartLedger) Merge(ctx context.Context, incoming []IncomingItem) (PricingSummary, MergeReport) {
	report := MergeReport{Added: []string{}, Updated: []string{}, Skipped: []SkippedItem{}}

	for _, in := range incoming {
		ref := NormalizeRef(in.ProductRef)
		quantity := in.Quantity
		if quantity == 0 {
			quantity = 1
		}
		if quantity < 0 || quantity > MaxLineQuantity {
			l.logSkip(ref, ErrInvalidQuantity.Error())
			report.skip(ref, ErrInvalidQuantity.Error())
			continue
		}

		idx, found := Find(l.cart.Items, ref)
		req := ResolveRequest{Ref: ref, Descriptor: in.Descriptor}
		if found {
			req.Ref = l.cart.Items[idx].ProductRef
			req.Descriptor = descriptorOrStored(in.Descriptor, l.cart.Items[idx])
		}

		snap, err := l.env.Resolver.Resolve(ctx, req)
		if err != nil {
			l.logSkip(ref, err.Error())
			report.skip(ref, err.Error())
			continue
		}

		if found {
			if min(l.cart.Items[idx].Quantity+quantity, snap.AvailableStock) < 1 {
				l.logSkip(ref, "out of stock")
				report.skip(ref, "out of stock")
				continue
			}
			l.increment(idx, snap, quantity)
			report.Updated = append(report.Updated, snap.ID)
			continue
		}

		if snap.AvailableStock < 1 {
			l.logSkip(ref, "out of stock")
			report.skip(ref, "out of stock")
			continue
		}
		l.append(snap, min(quantity, snap.AvailableStock))
		report.Added = append(report.Added, snap.ID)
	}

	return l.Summary(), report
}

// increment adds quantity to the entry at idx, clamped to stock and to
// MaxLineQuantity, and reprices it at the snapshot's current effective price.
func (l *CartLedger) increment(idx int, snap ProductSnapshot, quantity int) {
	item := &l.cart.Items[idx]
	item.Quantity = min(item.Quantity+quantity, snap.AvailableStock, MaxLineQuantity)
	item.Name = snap.Name
	item.Image = snap.Image
	item.UnitPrice = snap.EffectivePrice
	item.ListPrice = snap.UnitPrice
	item.UpdatedAt = l.env.now()
	item.recompute()
}

func (l *CartLedger) append(snap ProductSnapshot, quantity int) {
	now := l.env.now()
	item := LineItem{
		EntryID:    l.env.NewID(),
		ProductRef: snap.ID,
		Source:     snap.Source,
		Name:       snap.Name,
		UnitPrice:  snap.EffectivePrice,
		ListPrice:  snap.UnitPrice,
		Image:      snap.Image,
		Quantity:   quantity,
		AddedAt:    now,
		UpdatedAt:  now,
	}
	item.recompute()
	l.cart.Items = append(l.cart.Items, item)
}

func (l *CartLedger) removeAt(idx int) {
	l.cart.Items = append(l.cart.Items[:idx], l.cart.Items[idx+1:]...)
}

func (l *CartLedger) logSkip(ref, reason string) {
	l.env.Logger.WithFields(logrus.Fields{
		"product_ref": ref,
		"reason":      reason,
		"ledger":      "cart",
	}).Warn("skipping guest cart item during merge")
}

// descriptorOrStored returns desc when usable, otherwise rebuilds a descriptor from
// an inline entry so ephemeral products stay resolvable after the first add.
func descriptorOrStored(desc *InlineDescriptor, item LineItem) *InlineDescriptor {
	if desc.Usable() || item.Source != SourceInline {
		return desc
	}
	price := item.ListPrice
	discount := item.UnitPrice
	return &InlineDescriptor{
		Name:          item.Name,
		Price:         &price,
		DiscountPrice: &discount,
		Image:         item.Image,
	}
}
