package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileCart_Idempotent(t *testing.T) {
	env, _ := testEnv(t, newFakeCatalog(tracked(p1, "P1", 100, 50), tracked(p2, "P2", 40, 50)))
	r := NewReconciler(24*time.Hour, 10, func() time.Time { return fixedNow })
	ctx := context.Background()

	cart := &Cart{}
	_, err := NewCartLedger(cart, env).Add(ctx, p1, 1, nil)
	require.NoError(t, err)

	guest := []IncomingItem{
		{ProductRef: p1, Quantity: 2},
		{ProductRef: p2, Quantity: 3},
		{ProductRef: "mock-3", Quantity: 1, Descriptor: mock("Pin", 5)},
	}

	once, report := r.ReconcileCart(ctx, cart, env, guest, "")
	assert.False(t, report.Replayed)
	snapshot := append([]LineItem(nil), cart.Items...)

	twice, report := r.ReconcileCart(ctx, cart, env, guest, "")
	assert.True(t, report.Replayed)
	assert.Equal(t, once, twice)
	assert.Equal(t, snapshot, cart.Items)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Len(t, cart.Merges, 1)
}

func TestReconcileCart_ReorderedBatchIsSameBatch(t *testing.T) {
	env, _ := testEnv(t, newFakeCatalog(tracked(p1, "P1", 100, 50), tracked(p2, "P2", 40, 50)))
	r := NewReconciler(time.Hour, 10, func() time.Time { return fixedNow })
	ctx := context.Background()
	cart := &Cart{}

	_, _ = r.ReconcileCart(ctx, cart, env, []IncomingItem{{ProductRef: p1, Quantity: 1}, {ProductRef: p2, Quantity: 2}}, "")
	_, report := r.ReconcileCart(ctx, cart, env, []IncomingItem{{ProductRef: p2, Quantity: 2}, {ProductRef: p1}}, "")

	assert.True(t, report.Replayed)
	assert.Equal(t, 1, cart.Items[0].Quantity)
}

func TestReconcileCart_ExplicitKey(t *testing.T) {
	env, _ := testEnv(t, newFakeCatalog(tracked(p1, "P1", 100, 50)))
	r := NewReconciler(time.Hour, 10, func() time.Time { return fixedNow })
	ctx := context.Background()
	cart := &Cart{}
	guest := []IncomingItem{{ProductRef: p1, Quantity: 2}}

	_, _ = r.ReconcileCart(ctx, cart, env, guest, "login-1")
	_, report := r.ReconcileCart(ctx, cart, env, guest, "login-1")
	assert.True(t, report.Replayed)

	_, report = r.ReconcileCart(ctx, cart, env, guest, "login-2")
	assert.False(t, report.Replayed)
	assert.Equal(t, 4, cart.Items[0].Quantity)
}

func TestReconcileCart_RecordsExpire(t *testing.T) {
	env, _ := testEnv(t, newFakeCatalog(tracked(p1, "P1", 100, 50)))
	now := fixedNow
	r := NewReconciler(time.Hour, 10, func() time.Time { return now })
	ctx := context.Background()
	cart := &Cart{}
	guest := []IncomingItem{{ProductRef: p1, Quantity: 1}}

	_, _ = r.ReconcileCart(ctx, cart, env, guest, "")
	now = now.Add(2 * time.Hour)
	_, report := r.ReconcileCart(ctx, cart, env, guest, "")

	assert.False(t, report.Replayed)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	require.Len(t, cart.Merges, 1)
	assert.Equal(t, now, cart.Merges[0].AppliedAt)
}

func TestReconcileCart_CapsRecords(t *testing.T) {
	env, _ := testEnv(t, newFakeCatalog(tracked(p1, "P1", 100, 50)))
	r := NewReconciler(time.Hour, 2, func() time.Time { return fixedNow })
	ctx := context.Background()
	cart := &Cart{}
	guest := []IncomingItem{{ProductRef: p1, Quantity: 1}}

	for _, key := range []string{"a", "b", "c"} {
		_, _ = r.ReconcileCart(ctx, cart, env, guest, key)
	}

	require.Len(t, cart.Merges, 2)
	assert.Equal(t, "key:b", cart.Merges[0].Key)
	assert.Equal(t, "key:c", cart.Merges[1].Key)
}

func TestReconcileWishlist(t *testing.T) {
	env, _ := testEnv(t, newFakeCatalog())
	r := NewReconciler(time.Hour, 10, func() time.Time { return fixedNow })
	ctx := context.Background()
	wl := &Wishlist{}
	guest := []IncomingItem{{ProductRef: "X", Descriptor: mock("Scarf", 1200)}}

	report := r.ReconcileWishlist(ctx, wl, env, guest, "")
	assert.Equal(t, []string{"X"}, report.Added)

	report = r.ReconcileWishlist(ctx, wl, env, guest, "")
	assert.True(t, report.Replayed)
	assert.Len(t, wl.Items, 1)
}

func TestMergeFingerprint(t *testing.T) {
	a := MergeFingerprint([]IncomingItem{{ProductRef: "a", Quantity: 1}, {ProductRef: "b", Quantity: 2}})
	b := MergeFingerprint([]IncomingItem{{ProductRef: " b ", Quantity: 2}, {ProductRef: "a"}})
	c := MergeFingerprint([]IncomingItem{{ProductRef: "a", Quantity: 1}, {ProductRef: "b", Quantity: 3}})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Contains(t, a, "sha256:")
}
