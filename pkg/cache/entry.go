package cache

import (
	"net/http"
	"time"
)

// Entry is a cached page response.
type Entry struct {
	// Body is the raw response body.
	Body []byte `json:"body"`

	// ETag for If-None-Match.
	ETag string `json:"etag,omitempty"`

	// LastModified for If-Modified-Since.
	LastModified time.Time `json:"last_modified"`

	// Expires is when the entry becomes stale.
	Expires time.Time `json:"expires"`

	// StatusCode of the cached response
	StatusCode int `json:"status_code"`

	// Header holds the response headers, Link included.
	Header http.Header `json:"header"`

	// StoredAt is when the entry was written.
	StoredAt time.Time `json:"stored_at"`
}

// IsExpired returns true if the entry has expired.
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.Expires)
}

// TTL returns the time until expiration, 0 if already expired.
func (e *Entry) TTL() time.Duration {
	ttl := time.Until(e.Expires)
	if ttl < 0 {
		return 0
	}
	return ttl
}

// CanRevalidate reports whether the entry carries a validator usable in a
// conditional request.
func (e *Entry) CanRevalidate() bool {
	return e != nil && (e.ETag != "" || !e.LastModified.IsZero())
}
