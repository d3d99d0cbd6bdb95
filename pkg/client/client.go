// Package client fetches single pages of a JSON HTTP API, with optional
// response caching and request tracing.
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
	"os"
	"strconv"
	"time"

	"github.com/Sternrassler/unpage/pkg/cache"
	"github.com/Sternrassler/unpage/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// factory registers on the shared unpage registry.
var factory = promauto.With(metrics.Registry)

// Prometheus metrics for page requests.
var (
	requestsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "unpage_requests_total",
		Help: "Total page requests by HTTP status",
	}, []string{"status"})

	requestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "unpage_request_duration_seconds",
		Help:    "Page request duration in seconds by host",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"host"})

	errorsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "unpage_errors_total",
		Help: "Total page request errors by class",
	}, []string{"class"})
)

// Page is one decoded API response.
type Page struct {
	// URL is the final request URL, after redirects.
	URL string

	// StatusCode of the response (the cached status for revalidated pages).
	StatusCode int

	// Header holds the response headers.
	Header http.Header

	// Body is the decoded JSON document. Numbers are json.Number.
	Body any

	// FromCache is true when the body was served from the cache after a
	// 304 Not Modified.
	FromCache bool
}

// Config holds the client configuration.
type Config struct {
	// UserAgent header sent with every request (REQUIRED)
	UserAgent string

	// Header is added to every request. Accept defaults to application/json.
	Header http.Header

	// Timeout per request, 0 disables the client timeout.
	Timeout time.Duration

	// Debug enables the request/response trace.
	Debug bool

	// TraceOutput receives the trace (default: os.Stderr).
	TraceOutput io.Writer

	// Cache enables conditional requests backed by Redis. Optional.
	Cache *cache.Manager

	// Transport overrides http.DefaultTransport.
	Transport http.RoundTripper
}

// DefaultConfig returns a configuration with no timeout, no cache and no trace.
func DefaultConfig(userAgent string) Config {
	return Config{
		UserAgent:   userAgent,
		Header:      http.Header{},
		TraceOutput: os.Stderr,
	}
}

// Client performs page fetches. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	cache      *cache.Manager
	config     Config
	logger     zerolog.Logger
}

// New creates a client.
func New(cfg Config) (*Client, error) {
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("timeout must be >= 0 (got %s)", cfg.Timeout)
	}
	if cfg.TraceOutput == nil {
		cfg.TraceOutput = os.Stderr
	}

	transport := cfg.Transport
	if cfg.Debug {
		transport = newTraceTransport(transport, cfg.TraceOutput)
	}

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		cache:  cfg.Cache,
		config: cfg,
		logger: log.With().Str("component", "client").Logger(),
	}, nil
}

// BuildURL sets params on the query of rawURL, replacing existing values
// of the same name. The query is left untouched when params is empty.
func BuildURL(rawURL string, params url.Values) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url %q: %w", rawURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("url %q is not absolute", rawURL)
	}

	if len(params) > 0 {
		query := u.Query()
		for name, values := range params {
			query[name] = append([]string(nil), values...)
		}
		u.RawQuery = query.Encode()
	}

	return u, nil
}

// Fetch performs one GET against rawURL with params merged into its query.
// Non-2xx statuses return a *FetchError, undecodable bodies a *DecodeError.
func (c *Client) Fetch(ctx context.Context, rawURL string, params url.Values) (*Page, error) {
	target, err := BuildURL(rawURL, params)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for name, values := range c.config.Header {
		for _, value := range values {
			req.Header.Add(name, value)
		}
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	req.Header.Set("User-Agent", c.config.UserAgent)

	cacheKey := cache.NewKey(target, req.Header)
	var cached *cache.Entry
	if c.cache != nil {
		entry, err := c.cache.Get(ctx, cacheKey)
		switch {
		case err == nil:
			cached = entry
			cache.AddConditionalHeaders(req, cached)
		case !errors.Is(err, cache.ErrCacheMiss):
			c.logger.Warn().Err(err).Str("url", target.String()).Msg("Cache get error")
		}
	}

	c.logger.Debug().
		Str("url", target.String()).
		Bool("conditional", cached.CanRevalidate()).
		Msg("Fetching page")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	requestDuration.WithLabelValues(target.Host).Observe(time.Since(start).Seconds())
	if err != nil {
		errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		requestsTotal.WithLabelValues("network_error").Inc()
		return nil, &FetchError{URL: target.String(), Class: ErrorClassNetwork, Err: err}
	}
	defer resp.Body.Close()

	requestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()
	finalURL := resp.Request.URL.String()

	if resp.StatusCode == http.StatusNotModified && cached != nil {
		cache.NotModifiedResponses.Inc()
		c.refresh(ctx, cacheKey, cached, resp.Header)
		c.logger.Debug().Str("url", finalURL).Msg("304 Not Modified - using cache")

		page, err := decodePage(finalURL, cached.StatusCode, cached.Header, cached.Body)
		if err != nil {
			return nil, err
		}
		page.FromCache = true
		return page, nil
	}

	if class := classifyStatus(resp.StatusCode); class != "" {
		_, _ = io.Copy(io.Discard, resp.Body)
		errorsTotal.WithLabelValues(string(class)).Inc()

		c.logger.Warn().
			Str("url", finalURL).
			Int("status", resp.StatusCode).
			Str("error_class", string(class)).
			Msg("Page request error")

		return nil, &FetchError{
			URL:        finalURL,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Class:      class,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		return nil, &FetchError{URL: finalURL, Class: ErrorClassNetwork, Err: fmt.Errorf("read body: %w", err)}
	}

	page, err := decodePage(finalURL, resp.StatusCode, resp.Header, body)
	if err != nil {
		errorsTotal.WithLabelValues(string(ErrorClassDecode)).Inc()
		return nil, err
	}

	if c.cache != nil && resp.StatusCode == http.StatusOK {
		entry := cache.NewEntry(resp, body, c.cache.FallbackTTL())
		if err := c.cache.Set(ctx, cacheKey, entry); err != nil {
			c.logger.Warn().Err(err).Str("url", finalURL).Msg("Failed to cache page")
		}
	}

	return page, nil
}

// refresh extends a revalidated cache entry using the Expires header of
// the 304 response, if any.
func (c *Client) refresh(ctx context.Context, key cache.Key, entry *cache.Entry, header http.Header) {
	var expires time.Time
	if raw := header.Get("Expires"); raw != "" {
		if t, err := http.ParseTime(raw); err == nil {
			expires = t
		}
	}
	if err := c.cache.Refresh(ctx, key, entry, expires); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to refresh cached page")
	}
}

// decodePage parses body as a single JSON document.
func decodePage(rawURL string, status int, header http.Header, body []byte) (*Page, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, &DecodeError{URL: rawURL, Err: err}
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, &DecodeError{URL: rawURL, Err: fmt.Errorf("unexpected data after JSON value")}
	}

	return &Page{
		URL:        rawURL,
		StatusCode: status,
		Header:     header,
		Body:       doc,
	}, nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
