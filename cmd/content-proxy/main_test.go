package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/daklak-museum/content-client/internal/testutil"
	"github.com/daklak-museum/content-client/pkg/cache"
	"github.com/daklak-museum/content-client/pkg/content"
	"github.com/daklak-museum/content-client/pkg/readthrough"
)

// setupProxy wires a resolver and content client against a mock backend API
// with an in-memory SQLite cache, mirroring main's wiring.
func setupProxy(t *testing.T) (*testutil.MockContentAPI, *readthrough.Resolver, *content.Client) {
	t.Helper()

	mock := testutil.NewMockContentAPI()
	t.Cleanup(mock.Close)

	backend, err := cache.NewGormBackend(":memory:")
	if err != nil {
		t.Fatalf("Failed to open SQLite backend: %v", err)
	}
	t.Cleanup(func() { backend.Close() })

	resolver := readthrough.NewResolver(
		cache.NewStore(cache.NamespacePosts, backend),
		cache.NewStore(cache.NamespaceSVG, backend),
	)

	cfg := content.DefaultConfig(mock.URL())
	cfg.Invalidator = resolver
	client, err := content.New(cfg)
	if err != nil {
		t.Fatalf("Failed to create content client: %v", err)
	}

	return mock, resolver, client
}

func TestHealthEndpoint(t *testing.T) {
	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	healthHandler(w, req)

	resp := w.Result()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	if string(body) != "OK" {
		t.Errorf("Expected body 'OK', got %s", string(body))
	}
}

func TestQueryFromRequest(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want cache.Query
	}{
		{
			name: "paging_and_language",
			url:  "/api/posts?page=2&size=5&language=en",
			want: cache.Query{Page: 2, Size: 5, Language: "en"},
		},
		{
			name: "q_param",
			url:  "/api/posts?q=gong",
			want: cache.Query{Search: "gong"},
		},
		{
			name: "search_param_fallback",
			url:  "/api/images?search=basket&ethnic=EDE",
			want: cache.Query{Search: "basket", Ethnic: "EDE"},
		},
		{
			name: "category",
			url:  "/api/posts?category=festivals",
			want: cache.Query{Category: "festivals"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.url, nil)
			got := queryFromRequest(req)
			if got != tt.want {
				t.Errorf("queryFromRequest() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPageHandler_ReadThrough(t *testing.T) {
	mock, resolver, client := setupProxy(t)
	mock.SetResponse("/api/posts", testutil.MockResponse{
		Body: testutil.PostsPage([]string{"Gong culture"}, 1, 0),
	})

	handler := pageHandler(resolver, cache.NamespacePosts, client.PostsFetcher())

	// First request goes upstream.
	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest("GET", "/api/posts?page=0&size=5", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected application/json, got %s", ct)
	}
	if !strings.Contains(w.Body.String(), "Gong culture") {
		t.Errorf("Expected post content in response, got %s", w.Body.String())
	}
	if got := mock.Requests("/api/posts"); got != 1 {
		t.Fatalf("Expected 1 upstream request, got %d", got)
	}

	// Second identical request is served from the cache.
	w = httptest.NewRecorder()
	handler(w, httptest.NewRequest("GET", "/api/posts?page=0&size=5", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if got := mock.Requests("/api/posts"); got != 1 {
		t.Errorf("Expected cached response, but upstream saw %d requests", got)
	}
}

func TestPageHandler_NoCacheParam(t *testing.T) {
	mock, resolver, client := setupProxy(t)
	mock.SetResponse("/api/posts", testutil.MockResponse{
		Body: testutil.PostsPage([]string{"Gong culture"}, 1, 0),
	})

	handler := pageHandler(resolver, cache.NamespacePosts, client.PostsFetcher())

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		handler(w, httptest.NewRequest("GET", "/api/posts?page=0&nocache=1", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
	}

	if got := mock.Requests("/api/posts"); got != 2 {
		t.Errorf("Expected nocache to bypass the cache, upstream saw %d requests", got)
	}
}

func TestPageHandler_UpstreamError(t *testing.T) {
	mock, resolver, client := setupProxy(t)
	mock.SetResponse("/api/posts", testutil.MockResponse{
		StatusCode: http.StatusNotFound,
		Body:       `{"error":"not found"}`,
	})

	handler := pageHandler(resolver, cache.NamespacePosts, client.PostsFetcher())

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest("GET", "/api/posts", nil))

	if w.Code != http.StatusBadGateway {
		t.Errorf("Expected status 502, got %d", w.Code)
	}
}

func TestSVGHandler(t *testing.T) {
	mock, resolver, client := setupProxy(t)
	const svg = `<svg xmlns="http://www.w3.org/2000/svg"><path id="daklak"/></svg>`
	mock.SetResponse(content.MapAssetPath, testutil.MockResponse{
		Body:    svg,
		Headers: map[string]string{"Content-Type": "image/svg+xml"},
	})

	handler := svgHandler(resolver, client)

	// First request fetches and caches, second is served from cache.
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		handler(w, httptest.NewRequest("GET", "/assets/map.svg", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
		if ct := w.Header().Get("Content-Type"); ct != "image/svg+xml" {
			t.Errorf("Expected image/svg+xml, got %s", ct)
		}
		if w.Body.String() != svg {
			t.Errorf("Expected raw SVG body, got %s", w.Body.String())
		}
	}

	if got := mock.Requests(content.MapAssetPath); got != 1 {
		t.Errorf("Expected the SVG to be fetched once, upstream saw %d requests", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	// Exercise the cache once so the museum metrics are registered and
	// populated.
	mock, resolver, client := setupProxy(t)
	mock.SetResponse("/api/posts", testutil.MockResponse{
		Body: testutil.PostsPage([]string{"Gong culture"}, 1, 0),
	})
	handler := pageHandler(resolver, cache.NamespacePosts, client.PostsFetcher())
	handler(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/posts", nil))

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(w, req)

	resp := w.Result()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	bodyStr := string(body)
	if !strings.Contains(bodyStr, "# HELP") || !strings.Contains(bodyStr, "# TYPE") {
		t.Error("Expected Prometheus format metrics output")
	}
	if !strings.Contains(bodyStr, "museum_cache_misses_total") {
		t.Error("Expected metrics output to contain museum_cache_misses_total")
	}
}
