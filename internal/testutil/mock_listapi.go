// Package testutil provides test servers for paged list API clients.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockAPI is a configurable mock list API server for testing.
type MockAPI struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	RequestCount      int
	ConditionalCount  int
	LastRequestHeader http.Header
}

// NewMockAPI creates a new mock list API server.
func NewMockAPI() *MockAPI {
	mock := &MockAPI{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.LastRequestHeader = r.Header.Clone()

		// Track conditional requests
		if r.Header.Get("If-None-Match") != "" || r.Header.Get("If-Modified-Since") != "" {
			mock.ConditionalCount++
		}
		mock.mu.Unlock()

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockAPI) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockAPI) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.ConditionalCount = 0
	m.LastRequestHeader = nil
}

// SetHandler sets a custom handler for a specific path.
func (m *MockAPI) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a simple response for a path.
func (m *MockAPI) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}

		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// ServeOffsetList serves the given JSON records on path with offset paging.
// Requests select their slice via the page and per_page query parameters.
func (m *MockAPI) ServeOffsetList(path string, records []string) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		page := queryInt(r, "page", 1)
		perPage := queryInt(r, "per_page", 20)

		start := (page - 1) * perPage
		if start < 0 || start > len(records) {
			start = len(records)
		}
		end := start + perPage
		if end > len(records) {
			end = len(records)
		}

		WriteQuotaHeaders(w)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("[" + strings.Join(records[start:end], ",") + "]"))
	})
}

// ServeKeysetList serves the given JSON records on path with keyset paging.
// The continuation is carried in a cursor query parameter, advertised to the
// client via a Link header with rel="next" on every non-final page.
func (m *MockAPI) ServeKeysetList(path string, records []string) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		start := queryInt(r, "cursor", 0)
		perPage := queryInt(r, "per_page", 20)

		if start < 0 || start > len(records) {
			start = len(records)
		}
		end := start + perPage
		if end > len(records) {
			end = len(records)
		}

		WriteQuotaHeaders(w)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		if end < len(records) {
			next := fmt.Sprintf("<http://%s%s?cursor=%d&per_page=%d>; rel=\"next\"",
				r.Host, path, end, perPage)
			w.Header().Set("Link", next)
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte("[" + strings.Join(records[start:end], ",") + "]"))
	})
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockAPI) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetConditionalCount returns the number of conditional requests.
func (m *MockAPI) GetConditionalCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ConditionalCount
}

// defaultHandler provides a default list API response.
func (m *MockAPI) defaultHandler(w http.ResponseWriter, r *http.Request) {
	WriteQuotaHeaders(w)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	if r.Header.Get("If-None-Match") != "" {
		w.Header().Set("Expires", time.Now().Add(5*time.Minute).Format(http.TimeFormat))
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", `"default-etag"`)
	w.Header().Set("Expires", time.Now().Add(5*time.Minute).Format(http.TimeFormat))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`[]`))
}

// WriteQuotaHeaders sets healthy upstream rate limit headers on a response.
func WriteQuotaHeaders(w http.ResponseWriter) {
	w.Header().Set("RateLimit-Remaining", "100")
	w.Header().Set("RateLimit-Reset", strconv.FormatInt(time.Now().Add(60*time.Second).Unix(), 10))
}

// queryInt reads an integer query parameter with a fallback default.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// NewHealthyResponse creates a standard 200 OK response with quota headers.
func NewHealthyResponse(data string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       data,
		Headers: map[string]string{
			"RateLimit-Remaining": "100",
			"RateLimit-Reset":     strconv.FormatInt(time.Now().Add(60*time.Second).Unix(), 10),
			"ETag":                `"test-etag-123"`,
			"Expires":             time.Now().Add(5 * time.Minute).Format(http.TimeFormat),
			"Content-Type":        "application/json; charset=utf-8",
		},
	}
}

// NewNotModifiedResponse creates a 304 Not Modified response.
func NewNotModifiedResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusNotModified,
		Headers: map[string]string{
			"RateLimit-Remaining": "100",
			"RateLimit-Reset":     strconv.FormatInt(time.Now().Add(60*time.Second).Unix(), 10),
			"Expires":             time.Now().Add(5 * time.Minute).Format(http.TimeFormat),
		},
	}
}

// NewRateLimitResponse creates a 429 Too Many Requests response.
func NewRateLimitResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       `{"error": "Rate limit exceeded"}`,
		Headers: map[string]string{
			"RateLimit-Remaining": "5",
			"RateLimit-Reset":     strconv.FormatInt(time.Now().Add(30*time.Second).Unix(), 10),
			"Content-Type":        "application/json; charset=utf-8",
		},
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": "Internal server error"}`,
		Headers: map[string]string{
			"RateLimit-Remaining": "95",
			"RateLimit-Reset":     strconv.FormatInt(time.Now().Add(60*time.Second).Unix(), 10),
			"Content-Type":        "application/json; charset=utf-8",
		},
	}
}

// NewConditionalHandler creates a handler that responds with 304 when the
// client presents the matching ETag.
func NewConditionalHandler(etag string, data string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteQuotaHeaders(w)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		if r.Header.Get("If-None-Match") == etag {
			w.Header().Set("Expires", time.Now().Add(5*time.Minute).Format(http.TimeFormat))
			w.WriteHeader(http.StatusNotModified)
			return
		}

		w.Header().Set("ETag", etag)
		w.Header().Set("Expires", time.Now().Add(5*time.Minute).Format(http.TimeFormat))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(data))
	}
}
