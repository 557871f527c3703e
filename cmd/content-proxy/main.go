// content-proxy is a caching proxy in front of the museum content API.
// It serves the paginated content listings and the map asset through the
// read-through cache, backed by Redis when REDIS_URL is set and by an
// embedded SQLite database otherwise.
//
// Configuration (environment):
//
//	API_BASE_URL  upstream content API (default http://localhost:9090)
//	REDIS_URL     Redis address, e.g. localhost:6379 (optional)
//	SQLITE_PATH   SQLite cache file when Redis is absent (default content-cache.db)
//	PORT          listen port (default 8080)
//	LOG_LEVEL     debug, info, warn or error (default info)
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/daklak-museum/content-client/pkg/cache"
	"github.com/daklak-museum/content-client/pkg/content"
	"github.com/daklak-museum/content-client/pkg/logging"
	"github.com/daklak-museum/content-client/pkg/readthrough"
)

func main() {
	baseURL := getEnv("API_BASE_URL", "http://localhost:9090")
	redisURL := os.Getenv("REDIS_URL")
	sqlitePath := getEnv("SQLITE_PATH", "content-cache.db")
	port := getEnv("PORT", "8080")

	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(getEnv("LOG_LEVEL", "info")),
		Output: os.Stderr,
	})

	backend, err := newBackend(redisURL, sqlitePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open cache backend")
	}
	defer backend.Close()

	stores := []*cache.Store{
		cache.NewStore(cache.NamespacePosts, backend),
		cache.NewStore(cache.NamespaceImages, backend),
		cache.NewStore(cache.NamespaceVideos, backend),
		cache.NewStore(cache.NamespaceSVG, backend),
	}
	resolver := readthrough.NewResolver(stores...)

	cfg := content.DefaultConfig(baseURL)
	cfg.Invalidator = resolver
	client, err := content.New(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create content client")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/api/posts", pageHandler(resolver, cache.NamespacePosts, client.PostsFetcher()))
	mux.HandleFunc("/api/images", pageHandler(resolver, cache.NamespaceImages, client.ImagesFetcher()))
	mux.HandleFunc("/api/videos", pageHandler(resolver, cache.NamespaceVideos, client.VideosFetcher()))
	mux.HandleFunc("/assets/map.svg", svgHandler(resolver, client))

	addr := ":" + port
	logger.Info().
		Str("addr", addr).
		Str("upstream", baseURL).
		Bool("redis", redisURL != "").
		Msg("Starting content proxy")

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}
}

// newBackend prefers Redis and falls back to the embedded SQLite cache.
func newBackend(redisURL, sqlitePath string) (cache.Backend, error) {
	if redisURL == "" {
		return cache.NewGormBackend(sqlitePath)
	}
	client := redis.NewClient(&redis.Options{Addr: redisURL})
	return cache.NewRedisBackend(client), nil
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

// queryFromRequest maps the request parameters onto a content query.
func queryFromRequest(r *http.Request) cache.Query {
	params := r.URL.Query()
	page, _ := strconv.Atoi(params.Get("page"))
	size, _ := strconv.Atoi(params.Get("size"))

	search := params.Get("q")
	if search == "" {
		search = params.Get("search")
	}

	return cache.Query{
		Category: params.Get("category"),
		Ethnic:   params.Get("ethnic"),
		Search:   search,
		Language: params.Get("language"),
		Page:     page,
		Size:     size,
	}
}

func pageHandler(resolver *readthrough.Resolver, ns cache.Namespace, fetch readthrough.FetchFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := queryFromRequest(r)
		useCache := readthrough.ShouldCache(q) && r.URL.Query().Get("nocache") == ""

		data, err := resolver.Resolve(r.Context(), ns, q, fetch, 0, useCache)
		if err != nil {
			http.Error(w, fmt.Sprintf("content request failed: %v", err), http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}
}

func svgHandler(resolver *readthrough.Resolver, client *content.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := resolver.Resolve(r.Context(), cache.NamespaceSVG, cache.Query{}, client.SVGFetcher(), 0, true)
		if err != nil {
			http.Error(w, fmt.Sprintf("asset request failed: %v", err), http.StatusBadGateway)
			return
		}

		// the cache stores the SVG as a JSON string
		var svg string
		if err := json.Unmarshal(data, &svg); err != nil {
			http.Error(w, "corrupt cached asset", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/svg+xml")
		fmt.Fprint(w, svg)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
