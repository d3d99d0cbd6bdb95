// Package testutil provides a mock paginated JSON API for tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// LinkStyle selects how a paged collection advertises its other pages.
type LinkStyle int

const (
	// LinkNext sends a Link header with rel="next" only.
	LinkNext LinkStyle = iota

	// LinkNextLast sends a Link header with rel="next" and rel="last".
	LinkNextLast

	// BodyLinks embeds meta.next and meta.last in the JSON body.
	BodyLinks

	// NoLinks sends no pagination hints at all.
	NoLinks
)

// Paged describes a paginated collection served by MockAPI.
type Paged struct {
	// Pages holds the entries of page 1, 2, ... in order.
	Pages [][]any

	// Style of the pagination hints.
	Style LinkStyle

	// ParamPage is the page query parameter (default "page").
	ParamPage string

	// DataKey wraps entries in an object under this key. BodyLinks uses
	// "items" when empty.
	DataKey string

	// RelativeLinks emits "/path?page=N" instead of absolute URLs.
	RelativeLinks bool

	// Delay per page number.
	Delay map[int]time.Duration

	// Status per page number, overriding 200.
	Status map[int]int
}

// MockResponse defines a fixed response for a path.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockAPI is a configurable mock API server.
type MockAPI struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]http.HandlerFunc

	requestCount      int
	conditionalCount  int
	pageHits          map[int]int
	lastRequestHeader http.Header
}

// NewMockAPI starts a mock server.
func NewMockAPI() *MockAPI {
	mock := &MockAPI{
		handlers: make(map[string]http.HandlerFunc),
		pageHits: make(map[int]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.requestCount++
		mock.lastRequestHeader = r.Header.Clone()
		if r.Header.Get("If-None-Match") != "" || r.Header.Get("If-Modified-Since") != "" {
			mock.conditionalCount++
		}
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		if !exists {
			http.NotFound(w, r)
			return
		}
		handler(w, r)
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
	m.requestCount = 0
	m.conditionalCount = 0
	m.pageHits = make(map[int]int)
	m.lastRequestHeader = nil
}

// SetHandler sets a custom handler for a specific path.
func (m *MockAPI) SetHandler(path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a fixed response for a path.
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

// SetPaged serves a paginated collection at path.
func (m *MockAPI) SetPaged(path string, paged Paged) {
	if paged.ParamPage == "" {
		paged.ParamPage = "page"
	}
	if paged.Style == BodyLinks && paged.DataKey == "" {
		paged.DataKey = "items"
	}

	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		page := 1
		if raw := r.URL.Query().Get(paged.ParamPage); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				http.Error(w, `{"error":"bad page"}`, http.StatusBadRequest)
				return
			}
			page = n
		}

		m.mu.Lock()
		m.pageHits[page]++
		m.mu.Unlock()

		if d := paged.Delay[page]; d > 0 {
			time.Sleep(d)
		}
		if status := paged.Status[page]; status != 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			fmt.Fprintf(w, `{"error":"status %d"}`, status)
			return
		}

		entries := []any{}
		if page <= len(paged.Pages) && paged.Pages[page-1] != nil {
			entries = paged.Pages[page-1]
		}

		link := func(n int) string {
			u := *r.URL
			q := u.Query()
			q.Set(paged.ParamPage, strconv.Itoa(n))
			u.RawQuery = q.Encode()
			if paged.RelativeLinks {
				return u.RequestURI()
			}
			return (&url.URL{Scheme: "http", Host: r.Host, Path: u.Path, RawQuery: u.RawQuery}).String()
		}

		var next any
		if page < len(paged.Pages) {
			next = link(page + 1)
		}
		last := link(len(paged.Pages))

		switch paged.Style {
		case LinkNext, LinkNextLast:
			var rels []string
			if next != nil {
				rels = append(rels, fmt.Sprintf(`<%s>; rel="next"`, next))
			}
			if paged.Style == LinkNextLast {
				rels = append(rels, fmt.Sprintf(`<%s>; rel="last"`, last))
			}
			if len(rels) > 0 {
				w.Header().Set("Link", strings.Join(rels, ", "))
			}
		}

		var body any = entries
		switch {
		case paged.Style == BodyLinks:
			body = map[string]any{
				paged.DataKey: entries,
				"meta":        map[string]any{"next": next, "last": last},
			}
		case paged.DataKey != "":
			body = map[string]any{paged.DataKey: entries}
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("ETag", fmt.Sprintf(`"page-%d"`, page))
		if r.Header.Get("If-None-Match") == fmt.Sprintf(`"page-%d"`, page) {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		json.NewEncoder(w).Encode(body)
	})
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockAPI) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requestCount
}

// GetConditionalCount returns the number of conditional requests.
func (m *MockAPI) GetConditionalCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.conditionalCount
}

// GetPageHits returns how often each page number of a paged collection
// was requested.
func (m *MockAPI) GetPageHits() map[int]int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	hits := make(map[int]int, len(m.pageHits))
	for page, n := range m.pageHits {
		hits[page] = n
	}
	return hits
}

// GetLastRequestHeader returns the headers of the most recent request.
func (m *MockAPI) GetLastRequestHeader() http.Header {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastRequestHeader.Clone()
}

// Numbered builds pages of sequential integers: Numbered(2, 3) returns
// [[1 2 3] [4 5 6]].
func Numbered(pages, perPage int) [][]any {
	out := make([][]any, pages)
	n := 1
	for p := range out {
		out[p] = make([]any, perPage)
		for i := range out[p] {
			out[p][i] = n
			n++
		}
	}
	return out
}
