// Package testutil provides testing utilities for the Partner Center client.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// MockResponse defines the behavior for a mock Partner Center endpoint.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockPartnerCenter is a configurable mock Partner Center server for testing.
type MockPartnerCenter struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]http.HandlerFunc

	// Tracking
	RequestCount      int
	ConditionalCount  int
	LastRequestHeader http.Header
	requests          []*url.URL
}

// NewMockPartnerCenter creates a new mock Partner Center server. Paths
// without a handler answer 404 with a Partner Center error body.
func NewMockPartnerCenter() *MockPartnerCenter {
	mock := &MockPartnerCenter{
		handlers: make(map[string]http.HandlerFunc),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.LastRequestHeader = r.Header.Clone()
		u := *r.URL
		mock.requests = append(mock.requests, &u)
		if r.Header.Get("If-None-Match") != "" || r.Header.Get("If-Modified-Since") != "" {
			mock.ConditionalCount++
		}
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		if exists {
			handler(w, r)
			return
		}

		writeError(w, http.StatusNotFound, 600000, "Resource not found")
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockPartnerCenter) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockPartnerCenter) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockPartnerCenter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.ConditionalCount = 0
	m.LastRequestHeader = nil
	m.requests = nil
}

// SetHandler sets a custom handler for a specific path.
func (m *MockPartnerCenter) SetHandler(path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a fixed response for a path.
func (m *MockPartnerCenter) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}
		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" && r.Method != http.MethodHead {
			w.Write([]byte(resp.Body))
		}
	})
}

// SetCollection serves items at path as an offset-paged collection of
// objectType, honoring the offset and size query parameters.
func (m *MockPartnerCenter) SetCollection(path, objectType string, items []any) {
	m.SetHandler(path, NewCollectionHandler(objectType, items))
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockPartnerCenter) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetConditionalCount returns the number of conditional requests.
func (m *MockPartnerCenter) GetConditionalCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ConditionalCount
}

// GetLastRequestHeader returns the headers of the most recent request.
func (m *MockPartnerCenter) GetLastRequestHeader() http.Header {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastRequestHeader
}

// Requests returns the URLs of all requests received, in order.
func (m *MockPartnerCenter) Requests() []*url.URL {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*url.URL, len(m.requests))
	copy(out, m.requests)
	return out
}

func writeError(w http.ResponseWriter, status, code int, description string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"code":%d,"description":%q}`, code, description)
}

type page struct {
	TotalCount int            `json:"totalCount"`
	Items      []any          `json:"items"`
	Links      map[string]any `json:"links"`
	Attributes map[string]any `json:"attributes"`
}

// NewCollectionHandler returns a handler that pages items by the offset and
// size query parameters. size defaults to the whole collection.
func NewCollectionHandler(objectType string, items []any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		offset, err := queryInt(q, "offset", 0)
		if err != nil || offset < 0 {
			writeError(w, http.StatusBadRequest, 400010, "invalid offset")
			return
		}
		size, err := queryInt(q, "size", len(items))
		if err != nil || size < 0 {
			writeError(w, http.StatusBadRequest, 400011, "invalid size")
			return
		}

		start := min(offset, len(items))
		end := min(start+size, len(items))

		p := page{
			TotalCount: len(items),
			Items:      append([]any{}, items[start:end]...),
			Links: map[string]any{
				"self": map[string]any{"uri": r.URL.RequestURI(), "method": "GET"},
			},
			Attributes: map[string]any{"objectType": objectType},
		}
		if end < len(items) {
			next := *r.URL
			nq := next.Query()
			nq.Set("offset", strconv.Itoa(end))
			next.RawQuery = nq.Encode()
			p.Links["next"] = map[string]any{"uri": next.RequestURI(), "method": "GET"}
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(p)
	}
}

func queryInt(q url.Values, name string, def int) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

// NewJSONResponse creates a standard 200 OK response carrying an ETag.
func NewJSONResponse(data string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       data,
		Headers: map[string]string{
			"ETag":         `"test-etag-123"`,
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewNotFoundResponse creates a 404 response with a Partner Center error body.
func NewNotFoundResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusNotFound,
		Body:       `{"code":600000,"description":"Resource not found"}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewThrottledResponse creates a 429 Too Many Requests response.
func NewThrottledResponse(retryAfter string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       `{"code":429,"description":"Rate limit is exceeded"}`,
		Headers: map[string]string{
			"Retry-After":  retryAfter,
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"code":500,"description":"Internal server error"}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewConditionalHandler creates a handler that responds with 304 when the
// request carries etag in If-None-Match.
func NewConditionalHandler(etag string, data string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(data))
	}
}

// NewFlakyHandler answers the first failures requests with fail and every
// later request with next.
func NewFlakyHandler(failures int, fail MockResponse, next http.HandlerFunc) http.HandlerFunc {
	var calls atomic.Int32
	return func(w http.ResponseWriter, r *http.Request) {
		if int(calls.Add(1)) <= failures {
			for key, value := range fail.Headers {
				w.Header().Set(key, value)
			}
			w.WriteHeader(fail.StatusCode)
			w.Write([]byte(fail.Body))
			return
		}
		next(w, r)
	}
}
