package cache

import (
	"context"
	"testing"
	"time"

	"github.com/crucial707/blog-api/internal/models"
	"github.com/go-redis/redis/v8"
)

func TestKeys(t *testing.T) {
	if got := genKey(12); got != "post:12:gen" {
		t.Errorf("genKey: got %q, want post:12:gen", got)
	}
	if got := viewKey(12, 3); got != "post:12:3" {
		t.Errorf("viewKey: got %q, want post:12:3", got)
	}
	if viewKey(12, 3) == viewKey(12, 4) {
		t.Error("views under different generations must not share a key")
	}
}

func TestNop(t *testing.T) {
	var c PostCache = Nop{}
	c.Set(context.Background(), models.PostView{ID: 1}, 0)
	if _, _, ok := c.Get(context.Background(), 1); ok {
		t.Error("Nop cache must always miss")
	}
}

// An unreachable redis degrades to misses instead of errors, and Set is skipped
// when the generation could not be read.
func TestRedisPostCache_UnreachableIsMiss(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	c := NewRedisPostCache(rdb, time.Minute)
	ctx := context.Background()
	_, gen, ok := c.Get(ctx, 3)
	if ok {
		t.Error("expected miss when redis is unreachable")
	}
	if gen != noGeneration {
		t.Errorf("gen: got %d, want %d", gen, noGeneration)
	}
	c.Set(ctx, models.PostView{ID: 3, Title: "t"}, gen)
	c.Invalidate(ctx, 3)
}
