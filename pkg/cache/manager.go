package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrCacheMiss indicates the requested key was not found in cache.
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidEntry indicates the stored entry could not be decoded.
	ErrInvalidEntry = errors.New("invalid cache entry")

	// ErrNoRedis is returned by NewManager without a Redis client.
	ErrNoRedis = errors.New("cache requires a redis client")
)

// Options configure a Manager.
type Options struct {
	// Scope is the key space of one partner tenant. Empty means DefaultScope.
	Scope string

	// TTL bounds how long a response is kept after it was stored or
	// revalidated. Non-positive means DefaultTTL.
	TTL time.Duration
}

// Manager keeps Partner Center GET responses in Redis so repeated reads
// can be revalidated with If-None-Match. A Manager writes only below its
// own scope.
type Manager struct {
	redis *redis.Client
	scope string
	ttl   time.Duration
}

// NewManager creates a cache manager for one scope.
func NewManager(redisClient *redis.Client, opts Options) (*Manager, error) {
	if redisClient == nil {
		return nil, ErrNoRedis
	}
	if opts.Scope == "" {
		opts.Scope = DefaultScope
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	return &Manager{
		redis: redisClient,
		scope: opts.Scope,
		ttl:   opts.TTL,
	}, nil
}

// Scope returns the key space the manager writes to.
func (m *Manager) Scope() string {
	return m.scope
}

// KeyFor returns the cache key of req within the manager's scope.
func (m *Manager) KeyFor(req *http.Request) Key {
	return Key{
		Path:  req.URL.Path,
		Query: req.URL.Query(),
		Scope: m.scope,
	}
}

// Lookup returns the live entry stored under key, or ErrCacheMiss.
func (m *Manager) Lookup(ctx context.Context, key Key) (*Entry, error) {
	data, err := m.redis.Get(ctx, key.String()).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		CacheMisses.Inc()
		return nil, ErrCacheMiss
	case err != nil:
		CacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		CacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	if entry.IsExpired() {
		CacheMisses.Inc()
		return nil, ErrCacheMiss
	}

	CacheHits.Inc()
	return &entry, nil
}

// Store caches resp under key when it is a 200 carrying a validator and
// returns the stored entry. Other responses are skipped with a nil entry.
// The response body stays readable either way.
func (m *Manager) Store(ctx context.Context, key Key, resp *http.Response) (*Entry, error) {
	if resp == nil || resp.StatusCode != http.StatusOK {
		return nil, nil
	}
	if resp.Header.Get("ETag") == "" && resp.Header.Get("Last-Modified") == "" {
		return nil, nil
	}

	entry, err := ResponseToEntry(resp, m.ttl)
	if err != nil {
		return nil, err
	}
	if err := m.write(ctx, key, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Revalidate extends entry by the manager's TTL after Partner Center
// confirmed it with a 304 and writes it back under key.
func (m *Manager) Revalidate(ctx context.Context, key Key, entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("cache entry cannot be nil")
	}
	entry.Expires = time.Now().Add(m.ttl)
	return m.write(ctx, key, entry)
}

// Invalidate removes the entries stored under keys.
func (m *Manager) Invalidate(ctx context.Context, keys ...Key) error {
	if len(keys) == 0 {
		return nil
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	if err := m.redis.Del(ctx, names...).Err(); err != nil {
		CacheErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// write stores entry until its Expires time. Expired entries are dropped.
func (m *Manager) write(ctx context.Context, key Key, entry *Entry) error {
	ttl := entry.TTL()
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(entry)
	if err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("marshal cache entry: %w", err)
	}
	if err := m.redis.Set(ctx, key.String(), data, ttl).Err(); err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
