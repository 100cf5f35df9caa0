package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDisabledCacheIsInert(t *testing.T) {
	c, err := NewCache("localhost:0", false)
	if err != nil {
		t.Fatalf("NewCache returned error: %v", err)
	}
	if c.Enabled() {
		t.Fatal("expected disabled cache")
	}

	ctx := context.Background()
	if err := c.CachePage(ctx, "/blog", Page{Status: 200, Body: []byte("ok")}, time.Minute); err != nil {
		t.Fatalf("CachePage on disabled cache: %v", err)
	}
	if _, err := c.GetCachedPage(ctx, "/blog"); !errors.Is(err, ErrCacheDisabled) {
		t.Fatalf("expected ErrCacheDisabled, got %v", err)
	}
	if err := c.InvalidatePage(ctx, "/blog"); err != nil {
		t.Fatalf("InvalidatePage on disabled cache: %v", err)
	}
	if err := c.InvalidatePages(ctx); err != nil {
		t.Fatalf("InvalidatePages on disabled cache: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close on disabled cache: %v", err)
	}
}

func TestNilCacheIsDisabled(t *testing.T) {
	var c *Cache
	if c.Enabled() {
		t.Fatal("nil cache must report disabled")
	}
}

func TestPageKey(t *testing.T) {
	if got := PageKey("/blog/hello"); got != "page:/blog/hello" {
		t.Fatalf("PageKey = %q", got)
	}
}

func TestRedisOptions(t *testing.T) {
	opts, err := redisOptions("redis://:secret@cache.internal:6380/2")
	if err != nil {
		t.Fatalf("redisOptions returned error: %v", err)
	}
	if opts.Addr != "cache.internal:6380" || opts.Password != "secret" || opts.DB != 2 {
		t.Fatalf("unexpected options: addr=%s db=%d", opts.Addr, opts.DB)
	}

	opts, err = redisOptions("localhost:6379")
	if err != nil {
		t.Fatalf("redisOptions returned error: %v", err)
	}
	if opts.Addr != "localhost:6379" {
		t.Fatalf("unexpected addr %s", opts.Addr)
	}

	if _, err := redisOptions("redis://bad host:1/x"); err == nil {
		t.Fatal("expected error for malformed url")
	}
}
