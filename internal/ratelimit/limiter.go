// internal/ratelimit/limiter.go
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrStoreUnavailable = errors.New("rate limit store unavailable")

type Options struct {
	Name   string
	Max    int
	Window time.Duration
	// FailOpen lets requests through when the store is missing or failing.
	FailOpen bool
}

type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
	// Degraded is set when the decision was made without the store.
	Degraded bool
}

// Limiter is a sliding window counter kept in a Redis sorted set, one
// member per request scored by its timestamp in milliseconds.
type Limiter struct {
	client redis.Cmdable
	opts   Options
	now    func() time.Time
}

// New accepts a nil client; every decision then follows opts.FailOpen.
func New(client redis.Cmdable, opts Options) *Limiter {
	return &Limiter{client: client, opts: opts, now: time.Now}
}

func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	cp := *l
	cp.now = now
	return &cp
}

func (l *Limiter) Options() Options {
	return l.opts
}

func (l *Limiter) key(id string) string {
	return fmt.Sprintf("ratelimit:%s:%s", l.opts.Name, id)
}

func (l *Limiter) degraded(cause error) (Result, error) {
	if l.opts.FailOpen {
		return Result{Allowed: true, Limit: l.opts.Max, Remaining: l.opts.Max, Degraded: true}, nil
	}
	if cause != nil {
		return Result{Limit: l.opts.Max, Degraded: true}, fmt.Errorf("%w: %v", ErrStoreUnavailable, cause)
	}
	return Result{Limit: l.opts.Max, Degraded: true}, ErrStoreUnavailable
}

// Allow records one request for id and reports whether it fits the window.
func (l *Limiter) Allow(ctx context.Context, id string) (Result, error) {
	if l.client == nil {
		return l.degraded(nil)
	}

	now := l.now()
	key := l.key(id)
	windowStart := now.Add(-l.opts.Window).UnixMilli()

	var (
		card   *redis.IntCmd
		oldest *redis.ZSliceCmd
	)
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatInt(windowStart, 10))
		pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixMilli()), Member: uuid.NewString()})
		card = pipe.ZCard(ctx, key)
		oldest = pipe.ZRangeWithScores(ctx, key, 0, 0)
		pipe.Expire(ctx, key, l.opts.Window)
		return nil
	})
	if err != nil {
		return l.degraded(err)
	}

	count := int(card.Val())
	resetAt := now.Add(l.opts.Window)
	if zs := oldest.Val(); len(zs) > 0 {
		resetAt = time.UnixMilli(int64(zs[0].Score)).Add(l.opts.Window)
	}

	result := Result{
		Allowed:   count <= l.opts.Max,
		Limit:     l.opts.Max,
		Remaining: l.opts.Max - count,
		ResetAt:   resetAt,
	}
	if result.Remaining < 0 {
		result.Remaining = 0
	}
	if !result.Allowed {
		result.RetryAfter = resetAt.Sub(now)
		if result.RetryAfter < time.Second {
			result.RetryAfter = time.Second
		}
	}
	return result, nil
}

// NewRedisClient returns nil for an empty url.
func NewRedisClient(url string) (*redis.Client, error) {
	if url == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	return redis.NewClient(opts), nil
}
