package redis

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*RedisService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	hostPort := strings.SplitN(mr.Addr(), ":", 2)

	service, err := NewRedisService(&RedisConfig{
		Host: hostPort[0],
		Port: hostPort[1],
	})
	require.NoError(t, err)
	return service, mr
}

func TestSetGetDelete(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestRedis(t)

	require.NoError(t, service.Set(ctx, "greeting", "hello", 0))

	val, err := service.Get(ctx, "greeting")
	require.NoError(t, err)
	assert.Equal(t, "hello", val)

	require.NoError(t, service.Delete(ctx, "greeting"))
	_, err = service.Get(ctx, "greeting")
	assert.Error(t, err)
}

func TestAvailableBalanceRoundTrip(t *testing.T) {
	ctx := context.Background()
	service, mr := newTestRedis(t)

	// Cache miss is not an error
	_, found, err := service.GetAvailableBalance(ctx, 7)
	require.NoError(t, err)
	assert.False(t, found)

	balance := decimal.RequireFromString("123.45")
	require.NoError(t, service.SetAvailableBalance(ctx, 7, balance))

	cached, found, err := service.GetAvailableBalance(ctx, 7)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, balance.Equal(cached))

	// The entry expires on its own
	mr.FastForward(availableBalanceTTL + time.Second)
	_, found, err = service.GetAvailableBalance(ctx, 7)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAvailableBalanceInvalidate(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestRedis(t)

	require.NoError(t, service.SetAvailableBalance(ctx, 7, decimal.NewFromInt(10)))
	require.NoError(t, service.InvalidateAvailableBalance(ctx, 7))

	_, found, err := service.GetAvailableBalance(ctx, 7)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCorruptCachedBalance(t *testing.T) {
	ctx := context.Background()
	service, mr := newTestRedis(t)

	require.NoError(t, mr.Set(availableBalanceKey(7), "not-a-number"))

	_, found, err := service.GetAvailableBalance(ctx, 7)
	assert.Error(t, err)
	assert.False(t, found)
}
