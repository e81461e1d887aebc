// Package cache provides a Redis-backed cache for list endpoint responses.
//
// List pages are cached by endpoint path and query parameters, so every page
// of a paginated listing gets its own entry. Response headers are stored
// alongside the body; this matters for keyset pagination, where the Link
// header of a cached page still carries the continuation for the next one.
//
// Features:
//
//   - TTL from the upstream Expires header, short fallback for list data
//   - ETag support for conditional requests (If-None-Match)
//   - Last-Modified support (If-Modified-Since)
//   - Prometheus metrics for observability
//   - Deterministic cache key generation
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	manager := cache.NewManager(redisClient)
//
//	key := cache.PageKey{
//		Path:  "/api/v4/projects",
//		Query: url.Values{"page": []string{"2"}, "per_page": []string{"20"}},
//	}
//
//	entry, err := manager.Get(ctx, key)
//	if err == cache.ErrCacheMiss {
//		// fetch from the upstream API
//	}
//
// # HTTP Response Caching
//
//	entry, err := cache.ResponseToEntry(resp)
//	if err != nil {
//		return err
//	}
//	if err := manager.Set(ctx, key, entry); err != nil {
//		return err
//	}
//
// # Conditional Requests
//
//	if cache.ShouldMakeConditionalRequest(entry) {
//		cache.AddConditionalHeaders(req, entry)
//		// the upstream returns 304 if the page is unchanged
//	}
package cache
