package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// PageKey identifies one cached page of a list endpoint. Two requests for
// the same path with different query parameters (page, per_page, cursor, …)
// are distinct pages and get distinct keys.
type PageKey struct {
	// Path is the endpoint path (e.g. "/api/v4/projects")
	Path string

	// Query are the request query parameters
	Query url.Values
}

// String generates a deterministic cache key string.
// Format: listapi:path:query1=val1:query2=val2
//
// Example:
//
//	listapi:api/v4/projects:page=2:per_page=20
func (k PageKey) String() string {
	parts := []string{"listapi"}

	path := strings.Trim(k.Path, "/")
	if path != "" {
		parts = append(parts, path)
	}

	// Query params sorted for determinism
	if len(k.Query) > 0 {
		keys := make([]string, 0, len(k.Query))
		for key := range k.Query {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			parts = append(parts, fmt.Sprintf("%s=%s", key, k.Query.Get(key)))
		}
	}

	return strings.Join(parts, ":")
}
