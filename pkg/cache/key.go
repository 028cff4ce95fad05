package cache

import (
	"net/url"
	"sort"
	"strings"
)

// KeyPrefix starts every Redis key written by the cache.
const KeyPrefix = "pc:cache"

// DefaultScope is the key space of clients configured without a scope.
const DefaultScope = "default"

// Key identifies a cached response.
type Key struct {
	// Path is the request path, e.g. "/v1/customers/{id}/subscribedskus".
	Path string

	// Query holds the request query parameters.
	Query url.Values

	// Scope separates tenants sharing one Redis; usually the partner tenant id.
	Scope string
}

// String builds a deterministic Redis key.
//
//	pc:cache:<scope>:v1/offers:country=US:size=10
func (k Key) String() string {
	parts := []string{KeyPrefix}

	scope := k.Scope
	if scope == "" {
		scope = DefaultScope
	}
	parts = append(parts, scope)

	if path := strings.Trim(k.Path, "/"); path != "" {
		parts = append(parts, path)
	}

	if len(k.Query) > 0 {
		names := make([]string, 0, len(k.Query))
		for name := range k.Query {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			values := append([]string(nil), k.Query[name]...)
			sort.Strings(values)
			parts = append(parts, name+"="+strings.Join(values, ","))
		}
	}

	return strings.Join(parts, ":")
}
