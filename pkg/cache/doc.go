// Package cache stores Partner Center GET responses in Redis and replays
// them for conditional requests.
//
// Partner Center returns an ETag for most read endpoints. A cached entry
// lets the client send If-None-Match; a 304 Not Modified answer is then
// served from the stored body without decoding a fresh payload.
//
// # Basic Usage
//
//	manager, err := cache.NewManager(redisClient, cache.Options{Scope: tenantID})
//	if err != nil {
//		return err
//	}
//
//	key := manager.KeyFor(req)
//	entry, err := manager.Lookup(ctx, key)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// fetch from Partner Center, then manager.Store(ctx, key, resp)
//	}
//
// # Conditional Requests
//
//	if cache.ShouldMakeConditionalRequest(entry) {
//		cache.AddConditionalHeaders(req, entry)
//	}
//	// on 304: manager.Revalidate(ctx, key, entry)
//	// on 404: manager.Invalidate(ctx, key)
//
// # Metrics
//
//   - partnercenter_cache_hits_total
//   - partnercenter_cache_misses_total
//   - partnercenter_cache_not_modified_total
//   - partnercenter_cache_conditional_requests_total
//   - partnercenter_cache_errors_total{operation}
//
// Entries are scoped by tenant. Managers created without a scope all share
// DefaultScope.
package cache
