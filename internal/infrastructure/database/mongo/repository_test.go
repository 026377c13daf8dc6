package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/your-org/storefront-backend/internal/domain/ledger"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/user"
)

func setupTestDB(t *testing.T) *mongo.Database {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping MongoDB container test in short mode")
	}
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(ctx) })

	return client.Database("storefront_test")
}

func TestUserRepository(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)
	require.NoError(t, repo.CreateIndexes(ctx))

	u := &user.User{ID: "u-1", Email: "asha@example.com", IsActive: true}
	require.NoError(t, repo.Create(ctx, u))
	assert.Equal(t, int64(1), u.Version)

	t.Run("duplicate email", func(t *testing.T) {
		err := repo.Create(ctx, &user.User{ID: "u-2", Email: "asha@example.com"})
		assert.ErrorIs(t, err, user.ErrEmailTaken)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, "missing")
		assert.ErrorIs(t, err, user.ErrUserNotFound)
		_, err = repo.FindByEmail(ctx, "missing@example.com")
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})

	t.Run("conditional save", func(t *testing.T) {
		first, err := repo.FindByID(ctx, "u-1")
		require.NoError(t, err)
		second, err := repo.FindByID(ctx, "u-1")
		require.NoError(t, err)

		first.Cart.Items = append(first.Cart.Items, ledger.LineItem{EntryID: "e-1", ProductRef: "gift-wrap", Quantity: 1})
		require.NoError(t, repo.Save(ctx, first))
		assert.Equal(t, int64(2), first.Version)

		second.Wishlist.Items = append(second.Wishlist.Items, ledger.WishlistItem{EntryID: "w-1", ProductRef: "gift-wrap"})
		assert.ErrorIs(t, repo.Save(ctx, second), user.ErrVersionConflict)

		stored, err := repo.FindByEmail(ctx, "asha@example.com")
		require.NoError(t, err)
		require.Len(t, stored.Cart.Items, 1)
		assert.Empty(t, stored.Wishlist.Items)
	})

	t.Run("save unknown user", func(t *testing.T) {
		err := repo.Save(ctx, &user.User{ID: "ghost", Email: "ghost@example.com", Version: 1})
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})

	t.Run("last login survives a stale save", func(t *testing.T) {
		stale, err := repo.FindByID(ctx, "u-1")
		require.NoError(t, err)

		at := time.Now().UTC().Truncate(time.Millisecond)
		require.NoError(t, repo.UpdateLastLogin(ctx, "u-1", at))

		stale.Cart.Items = nil
		assert.ErrorIs(t, repo.Save(ctx, stale), user.ErrVersionConflict)

		fresh, err := repo.FindByID(ctx, "u-1")
		require.NoError(t, err)
		assert.Equal(t, int64(3), fresh.Version)
		require.NoError(t, repo.Save(ctx, fresh))

		stored, err := repo.FindByID(ctx, "u-1")
		require.NoError(t, err)
		require.NotNil(t, stored.LastLoginAt)
		assert.True(t, at.Equal(*stored.LastLoginAt))
		assert.Equal(t, int64(4), stored.Version)
		assert.Len(t, stored.Cart.Items, 1)
	})
}

func TestOrderRepository(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewOrderRepository(db)
	require.NoError(t, repo.CreateIndexes(ctx))

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"o-1", "o-2", "o-3"} {
		require.NoError(t, repo.Create(ctx, &order.Order{
			ID:          id,
			OrderNumber: "ORD-" + id,
			UserID:      "u-1",
			Status:      order.StatusPendingVerification,
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
		}))
	}

	got, err := repo.FindByID(ctx, "o-2")
	require.NoError(t, err)
	assert.Equal(t, "ORD-o-2", got.OrderNumber)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, order.ErrOrderNotFound)

	orders, total, err := repo.ListByUser(ctx, "u-1", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, orders, 2)
	assert.Equal(t, "o-3", orders[0].ID)

	orders, total, err = repo.ListByUser(ctx, "nobody", 1, 2)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, orders)
}
