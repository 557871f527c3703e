// Package content provides the museum content API client: paginated reads
// for posts, images and videos, the SVG map asset, CMS user administration,
// and mutations that invalidate the affected cache scopes.
package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/daklak-museum/content-client/pkg/cache"
	"github.com/daklak-museum/content-client/pkg/readthrough"
)

// Prometheus metrics for content API operations.
var (
	apiRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "museum_api_requests_total",
		Help: "Total content API requests by endpoint and status",
	}, []string{"endpoint", "status"})

	apiRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "museum_api_request_duration_seconds",
		Help:    "Content API request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	apiErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "museum_api_errors_total",
		Help: "Total content API errors by class",
	}, []string{"class"})
)

// MapAssetPath is the path of the country map SVG asset.
const MapAssetPath = "/vietnam_map_detailed.svg"

// Config holds the client configuration.
type Config struct {
	// BaseURL of the content API, e.g. "http://localhost:9090".
	BaseURL string

	// Token is the bearer token for CMS endpoints; empty for public reads.
	Token string

	// HTTPClient overrides the default HTTP client (for testing).
	HTTPClient *http.Client

	// Retry controls backoff for server and network errors.
	Retry RetryConfig

	// Invalidator drops cache scopes after successful mutations. Optional;
	// without it mutations simply skip invalidation (uncached setups).
	Invalidator *readthrough.Resolver
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL: baseURL,
		Retry:   DefaultRetryConfig(),
	}
}

// Client is the content API client.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	token       string
	retry       RetryConfig
	invalidator *readthrough.Resolver
	logger      zerolog.Logger
}

// New creates a content API client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	retry := cfg.Retry
	if retry.MaxAttempts <= 0 {
		retry = DefaultRetryConfig()
	}

	return &Client{
		httpClient:  httpClient,
		baseURL:     cfg.BaseURL,
		token:       cfg.Token,
		retry:       retry,
		invalidator: cfg.Invalidator,
		logger:      log.With().Str("component", "content-client").Logger(),
	}, nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// SetToken replaces the bearer token after login.
func (c *Client) SetToken(token string) {
	c.token = token
}

// do executes one HTTP request with retry, classification and metrics.
// Responses with status >= 400 become *APIError; bodies are fully read.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	endpoint := path
	start := time.Now()
	defer func() {
		apiRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var result []byte
	attempt := func() error {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, u, reader)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			apiErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
			apiRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
			return &APIError{Class: ErrorClassNetwork, Message: "request failed", Err: err}
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			apiErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
			return &APIError{Class: ErrorClassNetwork, Message: "read response body", Err: err}
		}

		apiRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

		if resp.StatusCode >= 400 {
			class := classifyStatus(resp.StatusCode)
			apiErrorsTotal.WithLabelValues(string(class)).Inc()
			c.logger.Warn().
				Str("endpoint", endpoint).
				Int("status", resp.StatusCode).
				Str("error_class", string(class)).
				Msg("Content API request error")
			return &APIError{StatusCode: resp.StatusCode, Class: class, Message: resp.Status}
		}

		result = data
		return nil
	}

	err := retryWithBackoff(ctx, c.retry, attempt, func(err error) ErrorClass {
		if apiErr, ok := err.(*APIError); ok {
			return apiErr.Class
		}
		return ErrorClassNetwork
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// getPage fetches a paginated endpoint and normalizes the envelope.
func (c *Client) getPage(ctx context.Context, path string, query url.Values) (*Page, error) {
	raw, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	return NormalizePage(raw)
}

func pagingParams(q cache.Query, defaultSize int) url.Values {
	q = q.Normalize()
	if q.Size == 0 {
		q.Size = defaultSize
	}
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("size", strconv.Itoa(q.Size))
	return v
}

// FetchPosts returns one page of posts, optionally filtered by search text,
// category and language.
func (c *Client) FetchPosts(ctx context.Context, q cache.Query) (*Page, error) {
	params := pagingParams(q, cache.PostsPageSize)
	params.Set("language", q.Normalize().Language)
	if s := q.NormalizedSearch(); s != "" {
		params.Set("q", s)
	}
	if q.Category != "" {
		params.Set("category", q.Category)
	}
	return c.getPage(ctx, "/api/posts", params)
}

// FetchImages returns one page of images for an ethnic group.
func (c *Client) FetchImages(ctx context.Context, q cache.Query) (*Page, error) {
	params := pagingParams(q, cache.DefaultPageSize)
	params.Set("language", q.Normalize().Language)
	if q.Ethnic != "" {
		params.Set("ethnic", q.Ethnic)
	}
	if s := q.NormalizedSearch(); s != "" {
		params.Set("search", s)
	}
	return c.getPage(ctx, "/api/images", params)
}

// FetchVideos returns one page of videos.
func (c *Client) FetchVideos(ctx context.Context, q cache.Query) (*Page, error) {
	return c.getPage(ctx, "/api/videos", pagingParams(q, cache.DefaultPageSize))
}

// ListUsers returns one page of CMS user accounts. User listings are
// volatile and admin-only, so they are never cached.
func (c *Client) ListUsers(ctx context.Context, q cache.Query) (*Page, error) {
	params := pagingParams(q, cache.DefaultPageSize)
	if s := q.NormalizedSearch(); s != "" {
		params.Set("q", s)
	}
	return c.getPage(ctx, "/api/admin/users", params)
}

// FetchMapSVG returns the raw country map SVG text.
func (c *Client) FetchMapSVG(ctx context.Context) ([]byte, error) {
	return c.do(ctx, http.MethodGet, MapAssetPath, nil, nil)
}

// pageFetcher adapts a page method into the read-through FetchFunc shape,
// re-encoding the normalized envelope so the cache only ever holds the
// canonical form.
func pageFetcher(fetch func(ctx context.Context, q cache.Query) (*Page, error)) readthrough.FetchFunc {
	return func(ctx context.Context, q cache.Query) (json.RawMessage, error) {
		page, err := fetch(ctx, q)
		if err != nil {
			return nil, err
		}
		return page.Encode()
	}
}

// PostsFetcher returns the FetchFunc for the posts namespace.
func (c *Client) PostsFetcher() readthrough.FetchFunc { return pageFetcher(c.FetchPosts) }

// ImagesFetcher returns the FetchFunc for the images namespace.
func (c *Client) ImagesFetcher() readthrough.FetchFunc { return pageFetcher(c.FetchImages) }

// VideosFetcher returns the FetchFunc for the videos namespace.
func (c *Client) VideosFetcher() readthrough.FetchFunc { return pageFetcher(c.FetchVideos) }

// UsersFetcher returns the FetchFunc for uncached user listings.
func (c *Client) UsersFetcher() readthrough.FetchFunc { return pageFetcher(c.ListUsers) }

// SVGFetcher returns the FetchFunc for the map asset.
func (c *Client) SVGFetcher() readthrough.FetchFunc {
	return func(ctx context.Context, _ cache.Query) (json.RawMessage, error) {
		svg, err := c.FetchMapSVG(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(string(svg))
	}
}

// invalidate drops a cache scope after a successful mutation. Invalidation
// failures are logged, never surfaced: a stale page serves until its TTL.
func (c *Client) invalidate(ctx context.Context, ns cache.Namespace, scope cache.Scope) {
	if c.invalidator == nil {
		return
	}
	if err := c.invalidator.Invalidate(ctx, ns, scope); err != nil {
		c.logger.Warn().
			Err(err).
			Str("namespace", string(ns)).
			Msg("Cache invalidation after mutation failed")
	}
}

// CreatePost creates a post and drops all cached post listings.
func (c *Client) CreatePost(ctx context.Context, payload any) (json.RawMessage, error) {
	data, err := c.do(ctx, http.MethodPost, "/api/posts", nil, payload)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, cache.NamespacePosts, cache.ScopeAll)
	return data, nil
}

// UpdatePost updates a post and drops all cached post listings.
func (c *Client) UpdatePost(ctx context.Context, id int64, payload any) (json.RawMessage, error) {
	data, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/posts/%d", id), nil, payload)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, cache.NamespacePosts, cache.ScopeAll)
	return data, nil
}

// DeletePost deletes a post and drops all cached post listings.
func (c *Client) DeletePost(ctx context.Context, id int64) error {
	if _, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/posts/%d", id), nil, nil); err != nil {
		return err
	}
	c.invalidate(ctx, cache.NamespacePosts, cache.ScopeAll)
	return nil
}

// UpdateImage updates an image and drops the ethnic group's cached pages.
// Editing one group's images must not discard other groups' pages.
func (c *Client) UpdateImage(ctx context.Context, id int64, payload any, ethnic string) (json.RawMessage, error) {
	data, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/images/%d", id), nil, payload)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, cache.NamespaceImages, cache.Scope{Ethnic: ethnic})
	return data, nil
}

// DeleteImage deletes an image and drops the ethnic group's cached pages.
func (c *Client) DeleteImage(ctx context.Context, id int64, ethnic string) error {
	if _, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/images/%d", id), nil, nil); err != nil {
		return err
	}
	c.invalidate(ctx, cache.NamespaceImages, cache.Scope{Ethnic: ethnic})
	return nil
}

// DeleteImagesBulk deletes a set of images, which may span groups, and
// drops the whole images namespace.
func (c *Client) DeleteImagesBulk(ctx context.Context, ids []int64) error {
	if _, err := c.do(ctx, http.MethodDelete, "/api/images/bulk", nil, ids); err != nil {
		return err
	}
	c.invalidate(ctx, cache.NamespaceImages, cache.ScopeAll)
	return nil
}

// DeleteVideo deletes a video and drops all cached video pages.
func (c *Client) DeleteVideo(ctx context.Context, id int64) error {
	if _, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/videos/%d", id), nil, nil); err != nil {
		return err
	}
	c.invalidate(ctx, cache.NamespaceVideos, cache.ScopeAll)
	return nil
}

// CreateUser creates a CMS manager account. User listings are uncached, so
// no invalidation applies.
func (c *Client) CreateUser(ctx context.Context, payload any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "/api/admin/users", nil, payload)
}

// UpdateUser updates a CMS user account.
func (c *Client) UpdateUser(ctx context.Context, id int64, payload any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/admin/users/%d", id), nil, payload)
}

// DeleteUser deletes a CMS user account.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", id), nil, nil)
	return err
}
