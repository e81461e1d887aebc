package paginator

import "strings"

// ParseNextLink extracts keyset continuation parameters from a Link response
// header value. It looks for a comma-delimited segment of the form
// `<URL>; rel="next"` and returns the URL's query parameters as a map.
//
// Query pairs are split on `&` and on the first `=`; values are kept raw
// with no percent-decoding, since they are echoed back to the server
// verbatim. A missing header, a header without a next relation, or a next
// URL without a query string all report no continuation.
func ParseNextLink(header string) (map[string]string, bool) {
	if header == "" {
		return nil, false
	}

	for _, segment := range strings.Split(header, ",") {
		segment = strings.TrimSpace(segment)

		end := strings.Index(segment, ">")
		if !strings.HasPrefix(segment, "<") || end < 0 {
			continue
		}
		if !strings.Contains(segment[end+1:], `rel="next"`) {
			continue
		}

		return parseRawQuery(segment[1:end])
	}

	return nil, false
}

// parseRawQuery splits the query string of a next-link URL into raw
// key/value pairs.
func parseRawQuery(rawURL string) (map[string]string, bool) {
	q := strings.Index(rawURL, "?")
	if q < 0 || q == len(rawURL)-1 {
		return nil, false
	}

	params := make(map[string]string)
	for _, pair := range strings.Split(rawURL[q+1:], "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		if key == "" {
			continue
		}
		params[key] = value
	}

	if len(params) == 0 {
		return nil, false
	}
	return params, true
}
