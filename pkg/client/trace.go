package client

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
)

// traceTransport writes a curl-style dump of every request and response.
// It is installed only when Config.Debug is set and never alters the
// response seen by the caller.
type traceTransport struct {
	next http.RoundTripper
	out  io.Writer
	mu   sync.Mutex
}

func newTraceTransport(next http.RoundTripper, out io.Writer) *traceTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &traceTransport{next: next, out: out}
}

// RoundTrip implements http.RoundTripper.
func (t *traceTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return resp, err
	}

	body, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		resp.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), errReader{readErr}))
	} else {
		resp.Body = io.NopCloser(bytes.NewReader(body))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "> %s %s %s\n", req.Method, req.URL, resp.Proto)
	writeHeaders(&b, ">", req.Header)
	fmt.Fprintf(&b, "< %s %d\n", resp.Proto, resp.StatusCode)
	writeHeaders(&b, "<", resp.Header)
	fmt.Fprintf(&b, "< %s\n", body)

	t.mu.Lock()
	_, _ = io.WriteString(t.out, b.String())
	t.mu.Unlock()

	return resp, nil
}

func writeHeaders(b *strings.Builder, prefix string, header http.Header) {
	names := make([]string, 0, len(header))
	for name := range header {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, value := range header[name] {
			fmt.Fprintf(b, "%s %s: %s\n", prefix, name, value)
		}
	}
}

// errReader replays a body read error after the bytes that were read.
type errReader struct {
	err error
}

func (r errReader) Read([]byte) (int, error) {
	return 0, r.err
}
