package pagination

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/Sternrassler/unpage/pkg/client"
	"github.com/Sternrassler/unpage/pkg/keypath"
)

// DefaultParamPage is the page number query parameter used when
// Options.ParamPage is empty.
const DefaultParamPage = "page"

// Options configures pagination.
type Options struct {
	// ParamPage names the page number query parameter (default "page").
	ParamPage string

	// DataKey selects the entries inside each page body. Empty means the
	// whole body.
	DataKey string

	// NextKey and LastKey are dotted key paths to next/last links inside
	// the first page body. Both must be set to take effect, and only when
	// the response has no Link header.
	NextKey string
	LastKey string

	// MaxConcurrency caps concurrent page fetches of a numeric range.
	// 0 means no cap.
	MaxConcurrency int
}

func (o Options) paramPage() string {
	if o.ParamPage == "" {
		return DefaultParamPage
	}
	return o.ParamPage
}

// Resolve inspects the first page and selects the pagination strategy.
// requestURL is the URL the first page was requested with; it is the base
// for links starting with "/".
func Resolve(first *client.Page, requestURL string, opts Options) (State, error) {
	var nextLink, lastLink string

	switch {
	case hasLinkHeader(first.Header):
		nextLink, _ = linkRel(first.Header, "next")
		lastLink, _ = linkRel(first.Header, "last")

	case opts.NextKey != "" && opts.LastKey != "":
		var err error
		if nextLink, err = linkAt(first.Body, "next-key", opts.NextKey); err != nil {
			return State{}, err
		}
		if lastLink, err = linkAt(first.Body, "last-key", opts.LastKey); err != nil {
			return State{}, err
		}
	}

	if lastLink != "" {
		lastPage, err := pageNumber(absoluteURL(lastLink, requestURL), opts.paramPage())
		if err != nil {
			return State{}, err
		}
		return State{Strategy: StrategyNumericRange, LastPage: lastPage}, nil
	}

	if nextLink != "" {
		return State{Strategy: StrategyLinkChain, NextURL: nextLink}, nil
	}

	return State{Strategy: StrategyExhausted}, nil
}

// linkAt reads a link from body at the dotted path. JSON null means no link.
func linkAt(body any, field, path string) (string, error) {
	value, err := keypath.Parse(path).Get(body)
	if err != nil {
		return "", &ConfigError{Field: field, Value: path, Err: err}
	}

	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		return "", &ConfigError{Field: field, Value: path, Err: fmt.Errorf("link is a %T, want string", value)}
	}
}

// absoluteURL prefixes links starting with "/" with the scheme and host of
// requestURL. Other links are returned unchanged.
func absoluteURL(link, requestURL string) string {
	if !strings.HasPrefix(link, "/") {
		return link
	}
	base, err := url.Parse(requestURL)
	if err != nil {
		return link
	}
	return base.Scheme + "://" + base.Host + link
}

// pageNumber reads the integer value of param from the query of link.
func pageNumber(link, param string) (int, error) {
	u, err := url.Parse(link)
	if err != nil {
		return 0, &ConfigError{Field: "last-link", Value: link, Err: err}
	}

	values, ok := u.Query()[param]
	if !ok || len(values) == 0 {
		return 0, &ConfigError{
			Field: "param-page",
			Value: param,
			Err:   fmt.Errorf("parameter missing from last link %s", link),
		}
	}

	n, err := strconv.Atoi(values[0])
	if err != nil {
		return 0, &ConfigError{
			Field: "param-page",
			Value: param,
			Err:   fmt.Errorf("non-numeric value %q in last link %s: %w", values[0], link, err),
		}
	}
	return n, nil
}
