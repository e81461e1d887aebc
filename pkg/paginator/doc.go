// Package paginator implements a dual-mode pagination cursor for list
// endpoints of a paged REST API.
//
// The backing API exposes two incompatible pagination strategies:
//
//   - Offset pagination: explicit page number plus page size
//     (page / per_page request parameters).
//   - Keyset pagination: opaque continuation parameters that the server
//     hands back in the Link response header (rel="next") and that must be
//     echoed on the following request.
//
// A Paginator wraps a single "fetch one page" operation and exposes it as
// full-page retrieval (FetchPage), single-record iteration (Next), and a
// fetch-everything convenience (All). The mode is decided per request from
// the request parameters and the target method name; some endpoints force
// keyset pagination server-side regardless of what the caller asked for.
//
// Example usage:
//
//	p, err := paginator.New("projects", client.Fetcher("projects"), nil,
//		map[string]string{"per_page": "50"})
//	if err != nil {
//		return err
//	}
//	for {
//		rec, ok, err := p.Next(ctx)
//		if err != nil {
//			return err
//		}
//		if !ok {
//			break
//		}
//		handle(rec)
//	}
//
// A Paginator is not safe for concurrent use; callers needing shared access
// must synchronize externally.
package paginator
