// Command list-proxy exposes paged upstream list endpoints as single
// aggregated responses. GET /list/<resource> walks every page of the
// upstream resource and returns the combined record list.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/paged-api-client/pkg/client"
	"github.com/Sternrassler/paged-api-client/pkg/logging"
	"github.com/Sternrassler/paged-api-client/pkg/paginator"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Configuration from environment
	upstreamURL := getEnv("UPSTREAM_URL", "")
	redisURL := getEnv("REDIS_URL", "localhost:6379")
	port := getEnv("PORT", "8080")
	token := getEnv("API_TOKEN", "")
	userAgent := getEnv("USER_AGENT", "paged-api-client/0.1.0")

	logging.Setup(logging.Config{
		Level:  logging.LogLevel(getEnv("LOG_LEVEL", "info")),
		Pretty: getEnv("LOG_PRETTY", "") == "true",
		Output: os.Stderr,
	})
	logger := logging.NewLogger("list-proxy")

	if upstreamURL == "" {
		logger.Fatal().Msg("UPSTREAM_URL is required")
	}

	// Setup Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr: redisURL,
	})

	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Str("redis", redisURL).Msg("Failed to connect to Redis")
	}
	logger.Info().Str("redis", redisURL).Msg("Connected to Redis")

	// Create API client
	cfg := client.DefaultConfig(redisClient, upstreamURL, userAgent)
	cfg.Token = token
	apiClient, err := client.New(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create API client")
	}
	defer apiClient.Close()

	// HTTP Server
	http.HandleFunc("/health", healthHandler)
	http.HandleFunc("/ready", readyHandler(redisClient))
	http.Handle("/metrics", promhttp.Handler())
	http.HandleFunc("/list/", listHandler(apiClient))

	addr := ":" + port
	logger.Info().
		Str("addr", addr).
		Str("upstream", upstreamURL).
		Str("user_agent", userAgent).
		Msg("Starting list proxy")

	if err := http.ListenAndServe(addr, nil); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK")
}

// readyHandler reports readiness based on the Redis connection.
func readyHandler(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			http.Error(w, fmt.Sprintf("redis unavailable: %v", err), http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK")
	}
}

// listHandler aggregates all pages of an upstream resource.
// Example: /list/projects/42/issues?per_page=50 walks every page of
// /projects/42/issues and returns the combined JSON array.
func listHandler(apiClient *client.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		trimmed := strings.Trim(strings.TrimPrefix(r.URL.Path, "/list/"), "/")
		if trimmed == "" {
			http.Error(w, "missing resource path", http.StatusBadRequest)
			return
		}

		segments := strings.Split(trimmed, "/")
		method := segments[0]
		args := segments[1:]

		params := make(map[string]string)
		for key, values := range r.URL.Query() {
			if len(values) > 0 {
				params[key] = values[0]
			}
		}

		pager, err := paginator.New(method, apiClient.Fetcher(method), args, params)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
		defer cancel()

		records, err := pager.All(ctx)
		if err != nil {
			status := http.StatusBadGateway
			var apiErr *client.APIError
			if errors.As(err, &apiErr) && apiErr.ErrorClass == client.ErrorClassClient {
				status = apiErr.StatusCode
			}
			http.Error(w, fmt.Sprintf("upstream request failed: %v", err), status)
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("X-Total-Count", strconv.Itoa(len(records)))
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(records); err != nil {
			logger := logging.NewLogger("list-proxy")
			logger.Warn().Err(err).Msg("Failed to write response")
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
