package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	limiter "github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// Limiter decides whether one more event for key fits within limit events per window.
type Limiter interface {
	Allow(ctx context.Context, key string, window time.Duration, limit int) (allowed bool, remaining int, reset time.Time, err error)
}

// ParseRate reads limits in the "<limit>-<period>" format, e.g. "120-M" or "10-S".
func ParseRate(formatted string) (window time.Duration, limit int, err error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return 0, 0, fmt.Errorf("parse rate %q: %w", formatted, err)
	}
	return rate.Period, int(rate.Limit), nil
}

// New returns a Redis sliding-window limiter when client is set, and an
// in-process fixed-window limiter otherwise.
func New(client *redis.Client, prefix string) Limiter {
	if client != nil {
		return SlidingWindow{Client: client, Prefix: prefix}
	}
	return NewMemory(prefix)
}

// Memory limits requests within a single process.
type Memory struct {
	store limiter.Store
}

// NewMemory constructs a process-local limiter.
func NewMemory(prefix string) *Memory {
	return &Memory{store: memory.NewStoreWithOptions(limiter.StoreOptions{
		Prefix:          prefix,
		CleanUpInterval: time.Minute,
	})}
}

// Allow implements Limiter.
func (m *Memory) Allow(ctx context.Context, key string, window time.Duration, limit int) (bool, int, time.Time, error) {
	if limit <= 0 || window <= 0 {
		return true, limit, time.Now().Add(window), nil
	}
	res, err := m.store.Get(ctx, key, limiter.Rate{Period: window, Limit: int64(limit)})
	if err != nil {
		return false, 0, time.Now().Add(window), err
	}
	return !res.Reached, int(res.Remaining), time.Unix(res.Reset, 0), nil
}
