package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/academy/internal/models"
)

func TestAdminStats(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t, false)
	rich := createUser(t, f.repo, 5000, false)
	poor := createUser(t, f.repo, 0, false)
	f.fillCart(t, rich, 2000)
	f.fillCart(t, poor, 700)

	_, err := f.checkout.Checkout(ctx, rich.ID)
	require.NoError(t, err)
	_, err = f.checkout.Checkout(ctx, poor.ID)
	require.NoError(t, err)

	admin := NewAdminService(f.repo, func(username string) bool { return username == rich.Username })

	ok, err := admin.IsAdmin(ctx, rich.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = admin.IsAdmin(ctx, poor.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	stats, err := admin.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalUsers)
	assert.Equal(t, int64(3), stats.ActiveUsers)
	assert.Equal(t, int64(2), stats.TotalOrders)
	assert.Equal(t, int64(1), stats.OrdersByStatus[models.OrderPaid])
	assert.Equal(t, int64(1), stats.OrdersByStatus[models.OrderPending])
	assert.Equal(t, int64(2000), stats.PaidRevenue)
}
