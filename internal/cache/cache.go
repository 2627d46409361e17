// Package cache holds the read-through cache for single-post reads.
// Cache failures are logged and treated as misses; they never fail a request.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/crucial707/blog-api/internal/models"
	"github.com/go-redis/redis/v8"
)

// PostCache stores rendered posts (with comments) by post id.
//
// Entries are versioned by a per-post generation. Get reports the generation it
// looked under, and Set only stores under that generation, so a view loaded before
// an Invalidate is written to a key no later reader consults.
type PostCache interface {
	Get(ctx context.Context, postID int) (view models.PostView, gen int64, ok bool)
	Set(ctx context.Context, view models.PostView, gen int64)
	Invalidate(ctx context.Context, postID int)
}

// Nop is the cache used when REDIS_ADDR is unset.
type Nop struct{}

func (Nop) Get(context.Context, int) (models.PostView, int64, bool) {
	return models.PostView{}, 0, false
}
func (Nop) Set(context.Context, models.PostView, int64) {}
func (Nop) Invalidate(context.Context, int)             {}

// noGeneration marks a Get whose generation lookup failed; Set ignores it.
const noGeneration int64 = -1

type RedisPostCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisPostCache(rdb *redis.Client, ttl time.Duration) *RedisPostCache {
	return &RedisPostCache{rdb: rdb, ttl: ttl}
}

// genKey holds the post's current generation. It has no TTL.
func genKey(postID int) string {
	return "post:" + strconv.Itoa(postID) + ":gen"
}

func viewKey(postID int, gen int64) string {
	return "post:" + strconv.Itoa(postID) + ":" + strconv.FormatInt(gen, 10)
}

func (c *RedisPostCache) generation(ctx context.Context, postID int) int64 {
	gen, err := c.rdb.Get(ctx, genKey(postID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0
	}
	if err != nil {
		slog.Warn("cache: generation lookup failed", "post_id", postID, "err", err)
		return noGeneration
	}
	return gen
}

func (c *RedisPostCache) Get(ctx context.Context, postID int) (models.PostView, int64, bool) {
	var view models.PostView
	gen := c.generation(ctx, postID)
	if gen == noGeneration {
		return view, gen, false
	}

	raw, err := c.rdb.Get(ctx, viewKey(postID, gen)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("cache: get failed", "post_id", postID, "err", err)
		}
		return view, gen, false
	}
	if err := json.Unmarshal(raw, &view); err != nil {
		slog.Warn("cache: corrupt entry", "post_id", postID, "err", err)
		return view, gen, false
	}
	return view, gen, true
}

func (c *RedisPostCache) Set(ctx context.Context, view models.PostView, gen int64) {
	if gen == noGeneration {
		return
	}
	raw, err := json.Marshal(view)
	if err != nil {
		slog.Warn("cache: marshal failed", "post_id", view.ID, "err", err)
		return
	}
	if err := c.rdb.Set(ctx, viewKey(view.ID, gen), raw, c.ttl).Err(); err != nil {
		slog.Warn("cache: set failed", "post_id", view.ID, "err", err)
	}
}

// Invalidate bumps the post's generation. Entries under older generations are
// never read again and expire with their TTL.
func (c *RedisPostCache) Invalidate(ctx context.Context, postID int) {
	if err := c.rdb.Incr(ctx, genKey(postID)).Err(); err != nil {
		slog.Warn("cache: invalidate failed", "post_id", postID, "err", err)
	}
}
