package cache

import (
	"net/http"
	"time"
)

// DefaultTTL is the fallback TTL when a response carries no usable Expires header.
const DefaultTTL = 5 * time.Minute

// NewEntry builds an Entry from a response whose body has already been read.
func NewEntry(resp *http.Response, body []byte, fallbackTTL time.Duration) *Entry {
	if fallbackTTL <= 0 {
		fallbackTTL = DefaultTTL
	}

	entry := &Entry{
		Body:       body,
		ETag:       resp.Header.Get("ETag"),
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		StoredAt:   time.Now(),
		Expires:    expiresAt(resp.Header, fallbackTTL),
	}

	if lastMod := resp.Header.Get("Last-Modified"); lastMod != "" {
		if t, err := http.ParseTime(lastMod); err == nil {
			entry.LastModified = t
		}
	}

	return entry
}

// expiresAt returns the Expires header time, or now+fallback when the
// header is missing, unparsable or already in the past.
func expiresAt(header http.Header, fallback time.Duration) time.Time {
	now := time.Now()

	raw := header.Get("Expires")
	if raw == "" {
		return now.Add(fallback)
	}

	expires, err := http.ParseTime(raw)
	if err != nil || !expires.After(now) {
		return now.Add(fallback)
	}

	return expires
}

// AddConditionalHeaders sets If-None-Match or If-Modified-Since on req.
// ETag wins when both validators are known.
func AddConditionalHeaders(req *http.Request, entry *Entry) {
	if req == nil || !entry.CanRevalidate() {
		return
	}

	if entry.ETag != "" {
		req.Header.Set("If-None-Match", entry.ETag)
	} else {
		req.Header.Set("If-Modified-Since", entry.LastModified.UTC().Format(http.TimeFormat))
	}
}
