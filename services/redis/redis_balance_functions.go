package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

/// This file caches the ledger provider's available balance so the caller-facing
/// balance endpoint does not hit the provider on every request.

const availableBalanceTTL = 30 * time.Second

func availableBalanceKey(userID int64) string {
	return fmt.Sprintf("available_balance:%d", userID)
}

func (r *RedisService) SetAvailableBalance(ctx context.Context, userID int64, balance decimal.Decimal) error {
	return r.client.Set(ctx, availableBalanceKey(userID), balance.String(), availableBalanceTTL).Err()
}

// GetAvailableBalance returns the cached balance and whether the cache held one.
func (r *RedisService) GetAvailableBalance(ctx context.Context, userID int64) (decimal.Decimal, bool, error) {
	val, err := r.client.Get(ctx, availableBalanceKey(userID)).Result()
	if err == goredis.Nil {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to get cached balance: %w", err)
	}
	balance, err := decimal.NewFromString(val)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("corrupt cached balance: %w", err)
	}
	return balance, true, nil
}

func (r *RedisService) InvalidateAvailableBalance(ctx context.Context, userID int64) error {
	return r.client.Del(ctx, availableBalanceKey(userID)).Err()
}
