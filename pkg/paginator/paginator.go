package paginator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for paginator operations.
var (
	pagesFetchedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "listapi_pages_fetched_total",
		Help: "Total pages fetched by method and pagination mode",
	}, []string{"method", "mode"})

	recordsFetchedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "listapi_records_fetched_total",
		Help: "Total records fetched by method",
	}, []string{"method"})
)

// DefaultPerPage is the page size used when the caller does not request one.
const DefaultPerPage = 20

// ErrInvalidResponse is returned when the fetch operation reports success
// but yields no record list (nil slice with nil error). The in-progress call
// fails; previously committed cursor state is left intact.
var ErrInvalidResponse = errors.New("fetch returned no record list")

// forcedKeyset lists methods for which the backing API ignores page numbers
// and always paginates by keyset, even when the caller did not request it.
// Add new server-side exceptions here rather than in the fetch path.
var forcedKeyset = map[string]bool{
	"users": true,
}

// FetchFunc performs one page request against the backing API. It receives
// the fixed positional arguments and the fully merged request parameters for
// this page, and returns the response headers (carrying the Link header when
// a keyset continuation is available) together with the decoded records.
//
// Implementations must return a non-nil record slice on success; a nil slice
// with a nil error is treated as ErrInvalidResponse. Transport and API
// errors pass through to the caller untranslated, and any retry policy
// belongs to the implementation, not the Paginator.
type FetchFunc[T any] func(ctx context.Context, args []string, params map[string]string) (http.Header, []T, error)

// Paginator is a cursor over a paged list endpoint. Records are opaque;
// ordering is whatever the backing API returns.
//
// A Paginator has no internal locking and must not be shared between
// goroutines without external synchronization.
type Paginator[T any] struct {
	method string
	fetch  FetchFunc[T]
	args   []string
	params map[string]string

	cursor    map[string]string
	page      int
	exhausted bool
	buffer    []T

	logger zerolog.Logger
}

// New creates a Paginator for the given method. args are passed unchanged to
// every fetch call; params are the caller's base request parameters, copied
// defensively before each request.
func New[T any](method string, fetch FetchFunc[T], args []string, params map[string]string) (*Paginator[T], error) {
	if method == "" {
		return nil, fmt.Errorf("method is required")
	}
	if fetch == nil {
		return nil, fmt.Errorf("fetch operation is required")
	}

	return &Paginator[T]{
		method: method,
		fetch:  fetch,
		args:   args,
		params: params,
		logger: log.With().Str("component", "paginator").Str("method", method).Logger(),
	}, nil
}

// FetchPage fetches the next page of records. A nil slice with a nil error
// signals end of stream; once the stream is exhausted, further calls return
// end of stream without contacting the backing API.
func (p *Paginator[T]) FetchPage(ctx context.Context) ([]T, error) {
	if p.exhausted {
		return nil, nil
	}

	params := make(map[string]string, len(p.params)+4)
	for k, v := range p.params {
		params[k] = v
	}
	// Continuation values are only ever derived from a prior response;
	// callers cannot inject one directly.
	delete(params, "cursor")

	keyset := params["pagination"] == "keyset" || forcedKeyset[p.method]
	perPage := requestedPerPage(params)

	var page int
	if keyset {
		req := map[string]string{
			"order_by": "id",
			"sort":     "asc",
			"per_page": strconv.Itoa(perPage),
		}
		for k, v := range params {
			req[k] = v
		}
		req["pagination"] = "keyset"
		for k, v := range p.cursor {
			req[k] = v
		}
		params = req
	} else {
		page = p.page + 1
		params["page"] = strconv.Itoa(page)
		params["per_page"] = strconv.Itoa(perPage)
	}

	headers, records, err := p.fetch(ctx, p.args, params)
	if err != nil {
		return nil, err
	}
	if records == nil {
		return nil, ErrInvalidResponse
	}

	mode := "offset"
	if keyset {
		mode = "keyset"
		if next, ok := ParseNextLink(headers.Get("link")); ok {
			p.cursor = next
		}
	} else {
		p.page = page
	}

	if len(records) < perPage {
		// Short (or empty) page is the only end-of-stream signal; the
		// backing API never says "no more pages" explicitly.
		p.exhausted = true
	}

	p.buffer = append([]T(nil), records...)

	pagesFetchedTotal.WithLabelValues(p.method, mode).Inc()
	recordsFetchedTotal.WithLabelValues(p.method).Add(float64(len(records)))

	p.logger.Debug().
		Str("mode", mode).
		Int("page", page).
		Int("records", len(records)).
		Bool("exhausted", p.exhausted).
		Msg("Fetched page")

	if len(records) == 0 {
		return nil, nil
	}
	return records, nil
}

// Next returns the next single record, fetching a new page when the current
// one is drained. ok is false once the stream is exhausted.
func (p *Paginator[T]) Next(ctx context.Context) (rec T, ok bool, err error) {
	if len(p.buffer) == 0 {
		if p.exhausted {
			return rec, false, nil
		}
		if _, err := p.FetchPage(ctx); err != nil {
			return rec, false, err
		}
		if len(p.buffer) == 0 {
			return rec, false, nil
		}
	}

	rec = p.buffer[0]
	p.buffer = p.buffer[1:]
	return rec, true, nil
}

// All restarts from the first page and returns the complete listing in
// order. Records already consumed via Next or FetchPage are fetched again.
func (p *Paginator[T]) All(ctx context.Context) ([]T, error) {
	p.Reset()

	var all []T
	for {
		page, err := p.FetchPage(ctx)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			return all, nil
		}
		all = append(all, page...)
	}
}

// Reset returns the Paginator to its state as of construction: offset mode
// restarts from the first page, keyset mode from no continuation. No I/O.
func (p *Paginator[T]) Reset() {
	p.buffer = nil
	p.page = 0
	p.cursor = nil
	p.exhausted = false
}

// requestedPerPage resolves the effective page size from the request
// parameters, falling back to DefaultPerPage. This value is also the
// threshold for exhaustion detection.
func requestedPerPage(params map[string]string) int {
	if raw := params["per_page"]; raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return DefaultPerPage
}
