package cache

import (
	"net/http"
	"testing"
	"time"
)

func TestNewEntry(t *testing.T) {
	expires := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	lastMod := time.Now().Add(-time.Hour).UTC().Truncate(time.Second)

	resp := &http.Response{
		StatusCode: http.StatusOK,
		Header: http.Header{
			"Expires":       []string{expires.Format(http.TimeFormat)},
			"Last-Modified": []string{lastMod.Format(http.TimeFormat)},
			"Etag":          []string{`"abc123"`},
			"Link":          []string{`<https://api.example.com/items?page=2>; rel="next"`},
		},
	}
	body := []byte(`[1,2,3]`)

	entry := NewEntry(resp, body, time.Minute)

	if string(entry.Body) != string(body) {
		t.Errorf("Body = %s, want %s", entry.Body, body)
	}
	if entry.ETag != `"abc123"` {
		t.Errorf("ETag = %q", entry.ETag)
	}
	if !entry.Expires.Equal(expires) {
		t.Errorf("Expires = %v, want %v", entry.Expires, expires)
	}
	if !entry.LastModified.Equal(lastMod) {
		t.Errorf("LastModified = %v, want %v", entry.LastModified, lastMod)
	}
	if entry.Header.Get("Link") == "" {
		t.Error("Link header should be kept in the entry")
	}

	resp.Header.Set("Link", "changed")
	if entry.Header.Get("Link") == "changed" {
		t.Error("entry headers must be a copy")
	}
}

func TestExpiresAt(t *testing.T) {
	fallback := 10 * time.Minute

	tests := []struct {
		name       string
		header     string
		wantAround time.Duration
	}{
		{"missing", "", fallback},
		{"invalid", "not a date", fallback},
		{"past", time.Now().Add(-time.Hour).Format(http.TimeFormat), fallback},
		{"future", time.Now().Add(2 * time.Hour).Format(http.TimeFormat), 2 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.header != "" {
				header.Set("Expires", tt.header)
			}

			got := time.Until(expiresAt(header, fallback))
			diff := got - tt.wantAround
			if diff < -2*time.Second || diff > 2*time.Second {
				t.Errorf("expiresAt() in %v, want about %v", got, tt.wantAround)
			}
		})
	}
}

func TestNewEntry_DefaultTTL(t *testing.T) {
	resp := &http.Response{StatusCode: http.StatusOK, Header: http.Header{}}

	entry := NewEntry(resp, nil, 0)

	ttl := entry.TTL()
	if ttl <= DefaultTTL-2*time.Second || ttl > DefaultTTL {
		t.Errorf("TTL() = %v, want about %v", ttl, DefaultTTL)
	}
}
