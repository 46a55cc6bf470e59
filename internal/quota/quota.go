package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DailyCounter tracks bounded request rates keyed by client identity. The
// counter lives in a shared store so multiple server instances agree on it.
type DailyCounter interface {
	// Incr increments today's count for key and returns the new value.
	Incr(ctx context.Context, key string, now time.Time) (int64, error)
	// Count returns today's count for key without incrementing.
	Count(ctx context.Context, key string, now time.Time) (int64, error)
}

// RedisCounter implements DailyCounter on Redis INCR with a TTL that expires
// the key at local midnight.
type RedisCounter struct {
	client *redis.Client
	prefix string
}

func NewRedisCounter(client *redis.Client, prefix string) *RedisCounter {
	return &RedisCounter{client: client, prefix: prefix}
}

func (c *RedisCounter) Incr(ctx context.Context, key string, now time.Time) (int64, error) {
	k := DayKey(c.prefix, key, now)
	n, err := c.client.Incr(ctx, k).Result()
	if err != nil {
		return 0, fmt.Errorf("quota incr: %w", err)
	}
	if n == 1 {
		// First hit today: expire the key at midnight so counts reset daily.
		if err := c.client.Expire(ctx, k, UntilMidnight(now)).Err(); err != nil {
			return n, fmt.Errorf("quota expire: %w", err)
		}
	}
	return n, nil
}

func (c *RedisCounter) Count(ctx context.Context, key string, now time.Time) (int64, error) {
	n, err := c.client.Get(ctx, DayKey(c.prefix, key, now)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("quota get: %w", err)
	}
	return n, nil
}

// DayKey builds the per-day counter key, e.g. "quota:gen:203.0.113.7:2026-08-31".
func DayKey(prefix, key string, now time.Time) string {
	return fmt.Sprintf("%s:%s:%s", prefix, key, now.Format("2006-01-02"))
}

// UntilMidnight returns the duration from now until the next local midnight,
// with a one-minute floor so a key created just before midnight still expires.
func UntilMidnight(now time.Time) time.Duration {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	d := midnight.Sub(now)
	if d < time.Minute {
		d = time.Minute
	}
	return d
}
