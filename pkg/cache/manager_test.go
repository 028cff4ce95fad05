package cache

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// setupTestRedis connects to a local Redis on DB 15 and skips the test when
// none is reachable. tests/integration covers the same paths against a
// testcontainers Redis.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15, // Use a separate DB for tests
	})

	// Ping to check connection
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for testing: %v", err)
	}

	// Flush test DB before each test
	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush test DB: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	return client
}

func newTestManager(t *testing.T, scope string) *Manager {
	t.Helper()

	manager, err := NewManager(setupTestRedis(t), Options{Scope: scope, TTL: time.Minute})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return manager
}

func jsonResponse(status int, etag, body string) *http.Response {
	req := httptest.NewRequest(http.MethodGet, "https://api.partnercenter.microsoft.com/v1/invoices?size=10", nil)
	header := http.Header{"Content-Type": []string{"application/json"}}
	if etag != "" {
		header.Set("ETag", etag)
	}
	return &http.Response{
		StatusCode: status,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
	}
}

func TestNewManager(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	defer client.Close()

	manager, err := NewManager(client, Options{})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if manager.redis != client {
		t.Error("Manager redis client not set correctly")
	}
	if manager.Scope() != DefaultScope {
		t.Errorf("Scope() = %q, want %q", manager.Scope(), DefaultScope)
	}
	if manager.ttl != DefaultTTL {
		t.Errorf("ttl = %v, want %v", manager.ttl, DefaultTTL)
	}
}

func TestNewManager_NilRedis(t *testing.T) {
	if _, err := NewManager(nil, Options{}); !errors.Is(err, ErrNoRedis) {
		t.Errorf("Expected ErrNoRedis, got %v", err)
	}
}

func TestManager_KeyFor(t *testing.T) {
	manager, err := NewManager(redis.NewClient(&redis.Options{Addr: "localhost:6379"}), Options{Scope: "tenant-a"})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "https://api.partnercenter.microsoft.com/v1/offers?size=10&country=US", nil)
	if got, want := manager.KeyFor(req).String(), "pc:cache:tenant-a:v1/offers:country=US:size=10"; got != want {
		t.Errorf("KeyFor() = %q, want %q", got, want)
	}
}

func TestManager_StoreAndLookup(t *testing.T) {
	manager := newTestManager(t, "tenant-a")
	ctx := context.Background()

	resp := jsonResponse(http.StatusOK, `"abc123"`, `{"totalCount":1}`)
	key := manager.KeyFor(resp.Request)

	stored, err := manager.Store(ctx, key, resp)
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if stored == nil {
		t.Fatal("Store skipped a cacheable response")
	}

	body, _ := io.ReadAll(resp.Body)
	if string(body) != `{"totalCount":1}` {
		t.Errorf("response body not restored: %s", body)
	}

	retrieved, err := manager.Lookup(ctx, key)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if string(retrieved.Data) != `{"totalCount":1}` {
		t.Errorf("Data mismatch: got %s", retrieved.Data)
	}
	if retrieved.ETag != `"abc123"` {
		t.Errorf("ETag mismatch: got %s", retrieved.ETag)
	}
	if retrieved.StatusCode != http.StatusOK {
		t.Errorf("StatusCode mismatch: got %d", retrieved.StatusCode)
	}
	if ttl := retrieved.TTL(); ttl <= 0 || ttl > time.Minute {
		t.Errorf("TTL() = %v, want within the manager ttl", ttl)
	}
}

func TestManager_Store_SkipsUncacheable(t *testing.T) {
	manager := newTestManager(t, "tenant-a")
	ctx := context.Background()

	tests := []struct {
		name string
		resp *http.Response
	}{
		{"not found", jsonResponse(http.StatusNotFound, `"abc"`, `{}`)},
		{"no validator", jsonResponse(http.StatusOK, "", `{}`)},
		{"nil response", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := Key{Path: "/v1/invoices", Scope: "tenant-a"}
			entry, err := manager.Store(ctx, key, tt.resp)
			if err != nil || entry != nil {
				t.Fatalf("Store() = %v, %v; want nil, nil", entry, err)
			}
			if _, err := manager.Lookup(ctx, key); !errors.Is(err, ErrCacheMiss) {
				t.Errorf("Expected ErrCacheMiss, got %v", err)
			}
		})
	}
}

func TestManager_Lookup_CacheMiss(t *testing.T) {
	manager := newTestManager(t, "")

	_, err := manager.Lookup(context.Background(), Key{Path: "/v1/invoices/unknown"})
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss, got %v", err)
	}
}

func TestManager_Lookup_InvalidEntry(t *testing.T) {
	manager := newTestManager(t, "")
	ctx := context.Background()

	key := Key{Path: "/v1/invoices"}
	if err := manager.redis.Set(ctx, key.String(), "not json", time.Minute).Err(); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if _, err := manager.Lookup(ctx, key); !errors.Is(err, ErrInvalidEntry) {
		t.Errorf("Expected ErrInvalidEntry, got %v", err)
	}
}

func TestManager_Revalidate(t *testing.T) {
	manager := newTestManager(t, "")
	ctx := context.Background()

	key := Key{Path: "/v1/invoices"}
	entry := &Entry{
		Data:    []byte(`{"test": "data"}`),
		ETag:    `"v1"`,
		Expires: time.Now().Add(5 * time.Second),
	}

	before := time.Now()
	if err := manager.Revalidate(ctx, key, entry); err != nil {
		t.Fatalf("Revalidate failed: %v", err)
	}

	retrieved, err := manager.Lookup(ctx, key)
	if err != nil {
		t.Fatalf("Lookup after Revalidate failed: %v", err)
	}

	want := before.Add(time.Minute)
	if diff := retrieved.Expires.Sub(want); diff < -time.Second || diff > time.Second {
		t.Errorf("Expires = %v, want about %v", retrieved.Expires, want)
	}

	if err := manager.Revalidate(ctx, key, nil); err == nil {
		t.Error("Revalidate with nil entry should return error")
	}
}

func TestManager_Invalidate(t *testing.T) {
	manager := newTestManager(t, "")
	ctx := context.Background()

	keys := []Key{{Path: "/v1/invoices"}, {Path: "/v1/offers"}}
	for _, key := range keys {
		entry := &Entry{Data: []byte(`{}`), Expires: time.Now().Add(time.Minute)}
		if err := manager.Revalidate(ctx, key, entry); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	if err := manager.Invalidate(ctx, keys...); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}
	for _, key := range keys {
		if _, err := manager.Lookup(ctx, key); !errors.Is(err, ErrCacheMiss) {
			t.Errorf("Expected ErrCacheMiss for %s, got %v", key, err)
		}
	}

	if err := manager.Invalidate(ctx); err != nil {
		t.Errorf("Invalidate without keys failed: %v", err)
	}
}

func TestManager_ScopeIsolation(t *testing.T) {
	rdb := setupTestRedis(t)
	ctx := context.Background()

	tenantA, err := NewManager(rdb, Options{Scope: "tenant-a"})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	tenantB, err := NewManager(rdb, Options{Scope: "tenant-b"})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	resp := jsonResponse(http.StatusOK, `"v1"`, `{"totalCount":1}`)
	if _, err := tenantA.Store(ctx, tenantA.KeyFor(resp.Request), resp); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	if _, err := tenantB.Lookup(ctx, tenantB.KeyFor(resp.Request)); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss for other tenant, got %v", err)
	}
	if _, err := tenantA.Lookup(ctx, tenantA.KeyFor(resp.Request)); err != nil {
		t.Errorf("Lookup for owning tenant failed: %v", err)
	}
}
