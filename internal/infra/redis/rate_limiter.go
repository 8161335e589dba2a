// File: internal/infra/redis/rate_limiter.go
package redis

import (
	"context"
	"fmt"
	"time"

	"workshop-voice-assistant/internal/domain/ports/adapter"
)

var _ adapter.RateLimiter = (*RateLimiter)(nil)

// RateLimiter is a fixed-window counter: the first hit in a window sets the TTL.
type RateLimiter struct {
	client Counter
}

func NewRateLimiter(client Counter) *RateLimiter {
	return &RateLimiter{client: client}
}

func (r *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	count, err := r.client.Incr(ctx, key)
	if err != nil {
		return false, err
	}

	if count == 1 {
		err = r.client.Expire(ctx, key, window)
		if err != nil {
			return false, err
		}
	}

	if count > int64(limit) {
		return false, nil
	}

	return true, nil
}

// ClientRouteKey scopes the counter to one client address and one route.
func ClientRouteKey(client, route string) string {
	return fmt.Sprintf("rate_limit:%s:%s", client, route)
}
