package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// Key identifies a cached page.
type Key struct {
	// URL is the request URL without its query string.
	URL string

	// Query holds the effective query parameters of the request.
	Query url.Values

	// Header holds the request headers that shape the response
	// (Accept, Authorization, ...).
	Header http.Header
}

// NewKey builds a Key from a fully prepared request URL and its headers.
func NewKey(u *url.URL, header http.Header) Key {
	base := *u
	base.RawQuery = ""
	base.Fragment = ""
	return Key{
		URL:    base.String(),
		Query:  u.Query(),
		Header: header,
	}
}

// String generates a deterministic cache key string. Query names and
// values are query-escaped, so ":" "," and "=" inside them stay unambiguous.
//
// Example:
//
//	unpage:api.example.com/v1/items:page=2:per_page=50:h=3f2a9c01d4e5b6a7
func (k Key) String() string {
	parts := []string{"unpage"}

	target := k.URL
	if i := strings.Index(target, "://"); i >= 0 {
		target = target[i+3:]
	}
	target = strings.TrimSuffix(target, "/")
	if target != "" {
		parts = append(parts, target)
	}

	if len(k.Query) > 0 {
		names := make([]string, 0, len(k.Query))
		for name := range k.Query {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			values := make([]string, len(k.Query[name]))
			for i, v := range k.Query[name] {
				values[i] = url.QueryEscape(v)
			}
			parts = append(parts, fmt.Sprintf("%s=%s", url.QueryEscape(name), strings.Join(values, ",")))
		}
	}

	if len(k.Header) > 0 {
		parts = append(parts, "h="+headerDigest(k.Header))
	}

	return strings.Join(parts, ":")
}

// headerDigest hashes the canonicalised headers; raw credentials never end
// up in Redis key names.
func headerDigest(header http.Header) string {
	names := make([]string, 0, len(header))
	for name := range header {
		names = append(names, http.CanonicalHeaderKey(name))
	}
	sort.Strings(names)

	h := sha256.New()
	for _, name := range names {
		fmt.Fprintf(h, "%s:%s\n", name, strings.Join(header.Values(name), ","))
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
