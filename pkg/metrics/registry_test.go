package metrics_test

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Sternrassler/partner-center-client/pkg/cache"
	"github.com/Sternrassler/partner-center-client/pkg/metrics"
)

func TestHandler_ExposesPackageMetrics(t *testing.T) {
	cache.CacheHits.Inc()

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	for _, name := range []string{
		"partnercenter_cache_hits_total",
		"partnercenter_cache_misses_total",
	} {
		if !strings.Contains(string(body), name) {
			t.Errorf("metrics output missing %s", name)
		}
	}
}
