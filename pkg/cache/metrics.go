package cache

import (
	"github.com/Sternrassler/partner-center-client/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits counts entries served from Redis.
	CacheHits = promauto.With(metrics.Registry).NewCounter(prometheus.CounterOpts{
		Name: "partnercenter_cache_hits_total",
		Help: "Total number of Partner Center cache hits",
	})

	// CacheMisses counts lookups without a usable entry.
	CacheMisses = promauto.With(metrics.Registry).NewCounter(prometheus.CounterOpts{
		Name: "partnercenter_cache_misses_total",
		Help: "Total number of Partner Center cache misses",
	})

	// NotModifiedResponses counts 304 answers replayed from the cache.
	NotModifiedResponses = promauto.With(metrics.Registry).NewCounter(prometheus.CounterOpts{
		Name: "partnercenter_cache_not_modified_total",
		Help: "Total number of 304 Not Modified responses served from cache",
	})

	// ConditionalRequestsSent counts requests sent with If-None-Match or If-Modified-Since.
	ConditionalRequestsSent = promauto.With(metrics.Registry).NewCounter(prometheus.CounterOpts{
		Name: "partnercenter_cache_conditional_requests_total",
		Help: "Total number of conditional requests sent",
	})

	// CacheErrors counts Redis failures by operation.
	CacheErrors = promauto.With(metrics.Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "partnercenter_cache_errors_total",
		Help: "Total number of cache operation errors",
	}, []string{"operation"})
)
