package cache

import (
	"net/http"
	"time"
)

// Entry represents a cached list page response.
type Entry struct {
	// Body is the response body (the JSON record array)
	Body []byte `json:"body"`

	// ETag for conditional requests (If-None-Match)
	ETag string `json:"etag"`

	// Expires is when the entry becomes stale (from the Expires header)
	Expires time.Time `json:"expires"`

	// LastModified is from the Last-Modified response header
	LastModified time.Time `json:"last_modified"`

	// StatusCode is the HTTP status code of the cached response
	StatusCode int `json:"status_code"`

	// Headers are the response headers; the Link header is kept so a cached
	// page still yields its keyset continuation
	Headers http.Header `json:"headers"`

	// CachedAt is when the response was cached
	CachedAt time.Time `json:"cached_at"`
}

// IsExpired returns true if the entry has expired.
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.Expires)
}

// TTL returns the time until expiration.
// Returns 0 if already expired.
func (e *Entry) TTL() time.Duration {
	ttl := time.Until(e.Expires)
	if ttl < 0 {
		return 0
	}
	return ttl
}
