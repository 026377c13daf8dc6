package wishlist

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/ledger"
	"github.com/your-org/storefront-backend/internal/domain/user"
)

const (
	lamp   = "9c4e1f88-2a7d-4e5b-b1f3-7e6d5c4b3a03"
	userID = "user-1"
)

type stubCatalog map[string]ledger.CatalogProduct

func (c stubCatalog) LookupProduct(_ context.Context, id string) (ledger.CatalogProduct, bool, error) {
	p, ok := c[id]
	return p, ok, nil
}

func newTestService(t *testing.T) (*Service, *user.MemoryRepository) {
	t.Helper()
	catalog := stubCatalog{
		lamp: {ID: lamp, Name: "Lamp", Price: 900, DiscountPrice: ptr(int64(700)), Stock: 2, TrackStock: true},
	}
	repo := user.NewMemoryRepository()
	require.NoError(t, repo.Create(context.Background(), &user.User{ID: userID, Email: "u@example.com", IsActive: true}))

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	opts := cart.Options{MaxWriteAttempts: 3, MaxMergeItems: 10, MergeRecordTTL: time.Hour, MaxMergeRecords: 10}
	return NewService(repo, catalog, opts, nil, logger), repo
}

func scarf() *ledger.InlineDescriptor {
	return &ledger.InlineDescriptor{Name: "Scarf", Price: ptr(int64(1200)), DiscountPrice: ptr(int64(1000)), Brand: "Knit"}
}

func TestAddAndCheck(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	view, err := svc.Add(ctx, userID, &AddRequest{ProductRef: lamp})
	require.NoError(t, err)
	assert.Equal(t, 1, view.Count)
	assert.Equal(t, int64(700), view.Items[0].Price)
	assert.Equal(t, int64(900), view.Items[0].OriginalPrice)

	_, err = svc.Add(ctx, userID, &AddRequest{ProductRef: lamp})
	assert.ErrorIs(t, err, ledger.ErrDuplicateEntry)

	check, err := svc.Check(ctx, userID, lamp)
	require.NoError(t, err)
	assert.True(t, check.InWishlist)
	assert.Equal(t, view.Items[0].EntryID, check.EntryID)

	check, err = svc.Check(ctx, userID, "X")
	require.NoError(t, err)
	assert.False(t, check.InWishlist)
}

func TestToggle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	res, err := svc.Toggle(ctx, userID, &AddRequest{ProductRef: "X", Descriptor: scarf()})
	require.NoError(t, err)
	assert.Equal(t, ledger.ToggleAdded, res.Action)
	assert.True(t, res.InWishlist)

	res, err = svc.Toggle(ctx, userID, &AddRequest{ProductRef: "X"})
	require.NoError(t, err)
	assert.Equal(t, ledger.ToggleRemoved, res.Action)
	assert.Equal(t, 0, res.Count)
}

func TestRemoveAndClear(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, userID, &AddRequest{ProductRef: lamp})
	require.NoError(t, err)
	_, err = svc.Add(ctx, userID, &AddRequest{ProductRef: "X", Descriptor: scarf()})
	require.NoError(t, err)

	view, err := svc.Remove(ctx, userID, lamp)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Count)

	_, err = svc.Remove(ctx, userID, lamp)
	assert.ErrorIs(t, err, ledger.ErrItemNotFound)

	view, err = svc.Clear(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 0, view.Count)
}

func TestMergeTwice(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	guest := []ledger.IncomingItem{{ProductRef: "X", Descriptor: scarf()}}

	_, err := svc.Merge(ctx, userID, guest, "")
	require.NoError(t, err)
	res, err := svc.Merge(ctx, userID, guest, "")
	require.NoError(t, err)

	require.Len(t, res.Items, 1)
	assert.Equal(t, "X", res.Items[0].ProductRef)
}

func TestMoveToCart(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, userID, &AddRequest{ProductRef: "X", Descriptor: scarf()})
	require.NoError(t, err)
	_, err = svc.Add(ctx, userID, &AddRequest{ProductRef: lamp})
	require.NoError(t, err)

	res, err := svc.MoveToCart(ctx, userID, "X", 2)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Wishlist.Count)
	require.Len(t, res.Cart.Items, 1)
	assert.Equal(t, int64(1000), res.Cart.Items[0].UnitPrice)
	assert.Equal(t, int64(2000), res.Cart.Subtotal)

	_, err = svc.MoveToCart(ctx, userID, lamp, 3)
	assert.ErrorIs(t, err, ledger.ErrInsufficientStock)

	stored, err := repo.FindByID(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, stored.Wishlist.Items, 1, "failed move leaves the wishlist untouched")
	assert.Len(t, stored.Cart.Items, 1)

	_, err = svc.MoveToCart(ctx, userID, "missing", 1)
	assert.ErrorIs(t, err, ledger.ErrItemNotFound)
}

func ptr[T any](v T) *T { return &v }
