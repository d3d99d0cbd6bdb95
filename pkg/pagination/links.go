package pagination

import (
	"net/http"

	"github.com/tomnomnom/linkheader"
)

// hasLinkHeader reports whether the response carried any Link header.
func hasLinkHeader(header http.Header) bool {
	return len(header.Values("Link")) > 0
}

// linkRel returns the URL of the first link with relation rel.
func linkRel(header http.Header, rel string) (string, bool) {
	links := linkheader.ParseMultiple(header.Values("Link")).FilterByRel(rel)
	if len(links) == 0 {
		return "", false
	}
	return links[0].URL, true
}
