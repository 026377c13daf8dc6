// internal/domain/ledger/reconcile.go
package ledger

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Reconciler folds guest carts and wishlists into persisted ledgers at login.
// Each applied batch is recorded under a merge key so a retried request with the
// same batch changes nothing.
type Reconciler struct {
	ttl        time.Duration
	maxRecords int
	now        func() time.Time
}

// NewReconciler creates a reconciler keeping at most maxRecords merge records, each for ttl
func NewReconciler(ttl time.Duration, maxRecords int, now func() time.Time) *Reconciler {
	if now == nil {
		now = time.Now
	}
	if maxRecords < 1 {
		maxRecords = 1
	}
	return &Reconciler{ttl: ttl, maxRecords: maxRecords, now: now}
}

// ReconcileCart merges items into cart unless the batch identified by key was
// already applied. An empty key falls back to the batch fingerprint.
func (r *Reconciler) ReconcileCart(ctx context.Context, cart *Cart, env Env, items []IncomingItem, key string) (PricingSummary, MergeReport) {
	l := NewCartLedger(cart, env)
	key = r.keyFor(items, key)

	cart.Merges = r.prune(cart.Merges)
	if hasRecord(cart.Merges, key) {
		return l.Summary(), replayed()
	}

	summary, report := l.Merge(ctx, items)
	cart.Merges = r.record(cart.Merges, key)
	return summary, report
}

// ReconcileWishlist is ReconcileCart for wishlists.
func (r *Reconciler) ReconcileWishlist(ctx context.Context, wishlist *Wishlist, env Env, items []IncomingItem, key string) MergeReport {
	l := NewWishlistLedger(wishlist, env)
	key = r.keyFor(items, key)

	wishlist.Merges = r.prune(wishlist.Merges)
	if hasRecord(wishlist.Merges, key) {
		return replayed()
	}

	report := l.Merge(ctx, items)
	wishlist.Merges = r.record(wishlist.Merges, key)
	return report
}

func (r *Reconciler) keyFor(items []IncomingItem, key string) string {
	if key = strings.TrimSpace(key); key != "" {
		return "key:" + key
	}
	return MergeFingerprint(items)
}

func (r *Reconciler) prune(records []MergeRecord) []MergeRecord {
	if r.ttl <= 0 {
		return records
	}
	cutoff := r.now().UTC().Add(-r.ttl)
	kept := records[:0]
	for _, rec := range records {
		if rec.AppliedAt.After(cutoff) {
			kept = append(kept, rec)
		}
	}
	return kept
}

func (r *Reconciler) record(records []MergeRecord, key string) []MergeRecord {
	records = append(records, MergeRecord{Key: key, AppliedAt: r.now().UTC()})
	if over := len(records) - r.maxRecords; over > 0 {
		records = records[over:]
	}
	return records
}

func hasRecord(records []MergeRecord, key string) bool {
	for _, rec := range records {
		if rec.Key == key {
			return true
		}
	}
	return false
}

func replayed() MergeReport {
	return MergeReport{Added: []string{}, Updated: []string{}, Skipped: []SkippedItem{}, Replayed: true}
}

// MergeFingerprint identifies a guest batch by its normalized (reference, quantity)
// pairs, independent of order.
func MergeFingerprint(items []IncomingItem) string {
	lines := make([]string, 0, len(items))
	for _, in := range items {
		quantity := in.Quantity
		if quantity == 0 {
			quantity = 1
		}
		lines = append(lines, fmt.Sprintf("%s\x00%d", strings.TrimSpace(in.ProductRef), quantity))
	}
	sort.Strings(lines)

	sum := sha256.Sum256([]byte(strings.Join(lines, "\n")))
	return "sha256:" + hex.EncodeToString(sum[:])
}
