package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	// defaultOperationTimeout is the timeout for individual Redis operations
	defaultOperationTimeout = 3 * time.Second

	pageKeyPrefix = "page:"
)

var (
	ErrCacheDisabled = errors.New("cache disabled")
	ErrMiss          = errors.New("key not found")
)

// Page is a rendered HTML response kept between revalidations.
type Page struct {
	Status     int       `json:"status"`
	Body       []byte    `json:"body"`
	RenderedAt time.Time `json:"renderedAt"`
}

type Cache struct {
	client  *redis.Client
	enabled bool
}

// NewCache connects to addr, which may be a host:port pair or a redis:// URL.
// A disabled cache accepts every call and never stores anything.
func NewCache(addr string, enable bool) (*Cache, error) {
	if !enable {
		return &Cache{enabled: false}, nil
	}

	opts, err := redisOptions(addr)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Cache{
		client:  client,
		enabled: true,
	}, nil
}

func redisOptions(addr string) (*redis.Options, error) {
	addr = strings.TrimSpace(addr)
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		opts, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opts, nil
	}
	return &redis.Options{
		Addr:         addr,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}, nil
}

func (c *Cache) Enabled() bool { return c != nil && c.enabled }

// operationContext bounds a Redis call while still honouring the caller's
// cancellation.
func (c *Cache) operationContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, defaultOperationTimeout)
}

func (c *Cache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if !c.Enabled() {
		return nil
	}

	ctx, cancel := c.operationContext(ctx)
	defer cancel()

	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, jsonData, expiration).Err()
}

func (c *Cache) Get(ctx context.Context, key string, dest interface{}) error {
	if !c.Enabled() {
		return ErrCacheDisabled
	}

	ctx, cancel := c.operationContext(ctx)
	defer cancel()

	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	} else if err != nil {
		return err
	}
	return json.Unmarshal(val, dest)
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	if !c.Enabled() {
		return nil
	}

	ctx, cancel := c.operationContext(ctx)
	defer cancel()

	return c.client.Del(ctx, key).Err()
}

func (c *Cache) DeletePattern(ctx context.Context, pattern string) error {
	if !c.Enabled() {
		return nil
	}

	ctx, cancel := c.operationContext(ctx)
	defer cancel()

	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// PageKey maps a request path to its cache key.
func PageKey(path string) string {
	return pageKeyPrefix + path
}

func (c *Cache) CachePage(ctx context.Context, path string, page Page, ttl time.Duration) error {
	return c.Set(ctx, PageKey(path), page, ttl)
}

func (c *Cache) GetCachedPage(ctx context.Context, path string) (*Page, error) {
	var page Page
	if err := c.Get(ctx, PageKey(path), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// InvalidatePage drops the cached copy of a single path.
func (c *Cache) InvalidatePage(ctx context.Context, path string) error {
	return c.Delete(ctx, PageKey(path))
}

// InvalidatePages drops every cached page, forcing the next request for each
// path to render from the CMS again.
func (c *Cache) InvalidatePages(ctx context.Context) error {
	return c.DeletePattern(ctx, pageKeyPrefix+"*")
}
