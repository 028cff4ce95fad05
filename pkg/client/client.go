// Package client provides the Partner Center HTTP transport with retry,
// throttle handling, response caching and error classification.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/partner-center-client/pkg/cache"
	"github.com/Sternrassler/partner-center-client/pkg/logging"
	"github.com/Sternrassler/partner-center-client/pkg/metrics"
	"github.com/Sternrassler/partner-center-client/pkg/ratelimit"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultBaseURL is the public Partner Center REST endpoint.
const DefaultBaseURL = "https://api.partnercenter.microsoft.com"

// Partner Center request headers.
const (
	HeaderRequestID     = "MS-RequestId"
	HeaderCorrelationID = "MS-CorrelationId"
	HeaderApplication   = "MS-PartnerCenter-Application"
	HeaderLocale        = "X-Locale"
)

// Prometheus metrics for Partner Center requests.
var (
	requestsTotal = promauto.With(metrics.Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "partnercenter_requests_total",
		Help: "Total Partner Center requests by operation and status",
	}, []string{"operation", "status"})

	requestDuration = promauto.With(metrics.Registry).NewHistogramVec(prometheus.HistogramOpts{
		Name:    "partnercenter_request_duration_seconds",
		Help:    "Partner Center request duration in seconds by operation",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"operation"})

	errorsTotal = promauto.With(metrics.Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "partnercenter_errors_total",
		Help: "Total Partner Center errors by class",
	}, []string{"class"})
)

// Config holds the client configuration.
type Config struct {
	// BaseURL defaults to DefaultBaseURL.
	BaseURL string

	// UserAgent is sent on every request (REQUIRED).
	UserAgent string

	// Locale is sent as X-Locale, e.g. "en-US".
	Locale string

	// ApplicationName is sent as MS-PartnerCenter-Application.
	ApplicationName string

	// Tokens supplies the bearer token (REQUIRED).
	Tokens TokenProvider

	// Redis enables the shared throttle state and the response cache.
	// Without it throttling is tracked in memory and caching is off.
	Redis *redis.Client

	// CacheScope separates cached entries of different partner tenants.
	// Usually the partner tenant id. Clients left without a scope share
	// cache.DefaultScope.
	CacheScope string

	// CacheTTL bounds how long a cached response is kept.
	CacheTTL time.Duration

	// Timeout applies to a single HTTP attempt.
	Timeout time.Duration

	Retry RetryConfig
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(tokens TokenProvider, userAgent string) Config {
	return Config{
		BaseURL:         DefaultBaseURL,
		UserAgent:       userAgent,
		Locale:          "en-US",
		ApplicationName: "partner-center-client",
		Tokens:          tokens,
		CacheTTL:        cache.DefaultTTL,
		Timeout:         30 * time.Second,
		Retry:           DefaultRetryConfig(),
	}
}

// Client is the Partner Center HTTP client. It is safe for concurrent use.
type Client struct {
	httpClient    *http.Client
	baseURL       *url.URL
	throttle      *ratelimit.Tracker
	cache         *cache.Manager
	config        Config
	correlationID string
	logger        zerolog.Logger
}

// New creates a new Partner Center client.
func New(cfg Config) (*Client, error) {
	if cfg.Tokens == nil {
		return nil, fmt.Errorf("token provider is required")
	}
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url must be absolute (got %q)", cfg.BaseURL)
	}
	if cfg.Retry.MaxRetries < 0 {
		return nil, fmt.Errorf("max_retries must be >= 0 (got %d)", cfg.Retry.MaxRetries)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	correlationID := uuid.NewString()
	logger := logging.NewLogger("client")

	var cacheManager *cache.Manager
	if cfg.Redis != nil {
		cacheManager, err = cache.NewManager(cfg.Redis, cache.Options{
			Scope: cfg.CacheScope,
			TTL:   cfg.CacheTTL,
		})
		if err != nil {
			return nil, err
		}
		if cfg.CacheScope == "" {
			logger.Warn().
				Str("scope", cacheManager.Scope()).
				Msg("Response cache has no scope, entries are shared with every unscoped client on this Redis")
		}
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL:       base,
		throttle:      ratelimit.NewTracker(cfg.Redis, logger),
		cache:         cacheManager,
		config:        cfg,
		correlationID: correlationID,
		logger:        logger,
	}, nil
}

// NewRequest builds a request for path relative to the base URL. A non-nil
// body is encoded as JSON.
func (c *Client) NewRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// Do sends req with throttle handling, caching and retries.
//
// Responses with status >= 400 are returned as *PartnerError; the response
// body has then been consumed. Server errors, 429 and network failures are
// retried. A 304 for a cached GET is answered from the cache.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	operation := OperationFrom(ctx)
	requestID := uuid.NewString()
	logger := logging.WithRequest(c.logger, requestID, c.correlationID).With().
		Str("operation", operation).
		Logger()

	startTime := time.Now()
	defer func() {
		requestDuration.WithLabelValues(operation).Observe(time.Since(startTime).Seconds())
	}()

	cacheKey, cachedEntry := c.lookupCache(req, logger)

	var resp *http.Response
	err := retryWithBackoff(ctx, c.config.Retry, logger, func(attempt int) (ErrorClass, error) {
		if err := c.throttle.Wait(ctx); err != nil {
			return ErrorClassThrottled, err
		}

		attemptReq, err := c.prepare(req, requestID, cachedEntry)
		if err != nil {
			return ErrorClassClient, err
		}

		logger.Debug().
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Int("attempt", attempt).
			Msg("Executing Partner Center request")

		r, err := c.httpClient.Do(attemptReq)
		if err != nil {
			errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
			requestsTotal.WithLabelValues(operation, "network_error").Inc()
			logger.Warn().Err(err).Msg("HTTP request failed")
			return ErrorClassNetwork, err
		}

		requestsTotal.WithLabelValues(operation, strconv.Itoa(r.StatusCode)).Inc()

		if r.StatusCode < 400 {
			resp = r
			return "", nil
		}

		perr := newPartnerError(r, requestID)
		r.Body.Close()
		errorsTotal.WithLabelValues(string(perr.ErrorClass)).Inc()

		if perr.ErrorClass == ErrorClassThrottled {
			if _, err := c.throttle.RecordThrottle(ctx, r.Header); err != nil {
				logger.Warn().Err(err).Msg("Failed to record throttle state")
			}
		}

		event := logger.Warn()
		if perr.ErrorClass == ErrorClassNotFound {
			event = logger.Debug()
		}
		event.
			Int("status", perr.StatusCode).
			Int("code", perr.Code).
			Str("error_class", string(perr.ErrorClass)).
			Msg("Partner Center request error")

		return perr.ErrorClass, perr
	})
	if err != nil {
		if cachedEntry != nil && IsNotFound(err) {
			if err := c.cache.Invalidate(ctx, cacheKey); err != nil {
				logger.Warn().Err(err).Msg("Failed to drop cache entry of missing resource")
			}
		}
		return nil, err
	}

	if resp.StatusCode == http.StatusNotModified && cachedEntry != nil {
		resp.Body.Close()
		cache.NotModifiedResponses.Inc()
		if err := c.cache.Revalidate(ctx, cacheKey, cachedEntry); err != nil {
			logger.Warn().Err(err).Msg("Failed to refresh cache entry")
		}
		logger.Debug().Msg("304 Not Modified - using cache")
		return cache.EntryToResponse(cachedEntry, req), nil
	}

	c.storeCache(ctx, cacheKey, resp, logger)

	return resp, nil
}

// prepare clones req for one attempt and sets the Partner Center headers.
func (c *Client) prepare(req *http.Request, requestID string, cached *cache.Entry) (*http.Request, error) {
	ctx := req.Context()
	token, err := c.config.Tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("get access token: %w", err)
	}
	if token == "" {
		return nil, ErrNoToken
	}

	r := req.Clone(ctx)
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("rewind request body: %w", err)
		}
		r.Body = body
	}

	r.Header.Set("Authorization", "Bearer "+token)
	r.Header.Set("Accept", "application/json")
	r.Header.Set("User-Agent", c.config.UserAgent)
	r.Header.Set(HeaderRequestID, requestID)
	r.Header.Set(HeaderCorrelationID, c.correlationID)
	if c.config.Locale != "" {
		r.Header.Set(HeaderLocale, c.config.Locale)
	}
	if c.config.ApplicationName != "" {
		r.Header.Set(HeaderApplication, c.config.ApplicationName)
	}

	if cache.ShouldMakeConditionalRequest(cached) {
		cache.AddConditionalHeaders(r, cached)
		cache.ConditionalRequestsSent.Inc()
	}

	return r, nil
}

func (c *Client) lookupCache(req *http.Request, logger zerolog.Logger) (cache.Key, *cache.Entry) {
	if c.cache == nil || req.Method != http.MethodGet {
		return cache.Key{}, nil
	}

	key := c.cache.KeyFor(req)
	entry, err := c.cache.Lookup(req.Context(), key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			logger.Warn().Err(err).Msg("Cache get error")
		}
		return key, nil
	}
	logger.Debug().
		Dur("age", entry.Age()).
		Str("etag", entry.ETag).
		Msg("Cached response found")
	return key, entry
}

func (c *Client) storeCache(ctx context.Context, key cache.Key, resp *http.Response, logger zerolog.Logger) {
	if c.cache == nil || resp.Request == nil || resp.Request.Method != http.MethodGet {
		return
	}

	entry, err := c.cache.Store(ctx, key, resp)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to cache response")
		return
	}
	if entry != nil {
		logger.Debug().Dur("ttl", entry.TTL()).Msg("Cached response")
	}
}

// GetJSON performs a GET on path and decodes the JSON body into out.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	req, err := c.NewRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decodeJSON(resp.Body, out)
}

// PostJSON sends body as JSON to path and decodes the response into out.
// out may be nil when the response body is not needed.
func (c *Client) PostJSON(ctx context.Context, path string, body, out any) error {
	req, err := c.NewRequest(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return err
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return decodeJSON(resp.Body, out)
}

// Head performs a HEAD request on path. A 404 is returned as a
// *PartnerError; use IsNotFound to test for it.
func (c *Client) Head(ctx context.Context, path string) error {
	req, err := c.NewRequest(ctx, http.MethodHead, path, nil, nil)
	if err != nil {
		return err
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func decodeJSON(r io.Reader, out any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	// Partner Center prefixes some payloads with a UTF-8 byte order mark.
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// BaseURL returns the base URL requests are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// CorrelationID returns the MS-CorrelationId sent with every request.
func (c *Client) CorrelationID() string {
	return c.correlationID
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
