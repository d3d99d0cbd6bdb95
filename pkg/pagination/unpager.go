package pagination

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/Sternrassler/unpage/pkg/client"
	"github.com/Sternrassler/unpage/pkg/keypath"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// PageFetcher fetches a single page. *client.Client implements it.
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string, params url.Values) (*client.Page, error)
}

// Unpager drives the fetch loop for one pagination configuration. It holds
// no per-run state and may be reused concurrently.
type Unpager struct {
	fetcher PageFetcher
	opts    Options
	logger  zerolog.Logger
}

// New creates an Unpager.
func New(fetcher PageFetcher, opts Options) *Unpager {
	if opts.MaxConcurrency < 0 {
		opts.MaxConcurrency = 0
	}
	opts.ParamPage = opts.paramPage()

	return &Unpager{
		fetcher: fetcher,
		opts:    opts,
		logger:  log.With().Str("component", "unpager").Logger(),
	}
}

// Unpage fetches rawURL and all following pages and returns their entries
// in page order.
func (u *Unpager) Unpage(ctx context.Context, rawURL string, params url.Values) ([]any, error) {
	start := time.Now()

	first, err := u.fetcher.Fetch(ctx, rawURL, params)
	if err != nil {
		return nil, fmt.Errorf("fetch first page: %w", err)
	}

	entries, err := u.project(first.Body)
	if err != nil {
		return nil, fmt.Errorf("first page: %w", err)
	}
	entries = append(make([]any, 0, len(entries)), entries...)

	state, err := Resolve(first, rawURL, u.opts)
	if err != nil {
		return nil, err
	}

	runsTotal.WithLabelValues(state.Strategy.String()).Inc()
	pagesFetchedTotal.WithLabelValues(state.Strategy.String()).Inc()

	u.logger.Info().
		Str("url", rawURL).
		Str("strategy", state.Strategy.String()).
		Int("last_page", state.LastPage).
		Str("next_url", state.NextURL).
		Msg("Pagination resolved")

	var rest []any
	switch state.Strategy {
	case StrategyNumericRange:
		rest, err = u.fetchRange(ctx, rawURL, params, state.LastPage)
	case StrategyLinkChain:
		rest, err = u.followLinks(ctx, rawURL, params, state.NextURL)
	}
	if err != nil {
		return nil, err
	}
	entries = append(entries, rest...)

	entriesTotal.Add(float64(len(entries)))
	u.logger.Info().
		Str("url", rawURL).
		Int("entries", len(entries)).
		Dur("duration", time.Since(start)).
		Msg("Fetch complete")

	return entries, nil
}

// fetchRange fetches pages 2..lastPage concurrently. Each goroutine writes
// only its own slot of results, which are joined in page order.
func (u *Unpager) fetchRange(ctx context.Context, rawURL string, params url.Values, lastPage int) ([]any, error) {
	if lastPage < 2 {
		return nil, nil
	}

	u.logger.Info().
		Int("total_pages", lastPage).
		Int("max_concurrency", u.opts.MaxConcurrency).
		Msg("Starting parallel page fetch")

	results := make([][]any, lastPage-1)

	g, gctx := errgroup.WithContext(ctx)
	if u.opts.MaxConcurrency > 0 {
		g.SetLimit(u.opts.MaxConcurrency)
	}

	for page := 2; page <= lastPage; page++ {
		g.Go(func() error {
			pageParams := cloneValues(params)
			pageParams.Set(u.opts.ParamPage, strconv.Itoa(page))

			p, err := u.fetcher.Fetch(gctx, rawURL, pageParams)
			if err != nil {
				return fmt.Errorf("fetch page %d: %w", page, err)
			}
			entries, err := u.project(p.Body)
			if err != nil {
				return fmt.Errorf("page %d: %w", page, err)
			}

			results[page-2] = entries
			pagesFetchedTotal.WithLabelValues(StrategyNumericRange.String()).Inc()

			u.logger.Debug().
				Int("page", page).
				Int("entries", len(entries)).
				Msg("Page fetched")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		u.logger.Warn().Err(err).Int("total_pages", lastPage).Msg("Parallel page fetch failed")
		return nil, err
	}

	var out []any
	for _, entries := range results {
		out = append(out, entries...)
	}
	return out, nil
}

// followLinks fetches next links one by one. Only Link headers continue
// the chain; a response without one is the last page.
func (u *Unpager) followLinks(ctx context.Context, rawURL string, params url.Values, next string) ([]any, error) {
	var out []any

	for page := 2; next != ""; page++ {
		target := absoluteURL(next, rawURL)

		p, err := u.fetcher.Fetch(ctx, target, params)
		if err != nil {
			return nil, fmt.Errorf("fetch page %d (%s): %w", page, target, err)
		}
		entries, err := u.project(p.Body)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		out = append(out, entries...)
		pagesFetchedTotal.WithLabelValues(StrategyLinkChain.String()).Inc()

		u.logger.Debug().
			Int("page", page).
			Str("url", target).
			Int("entries", len(entries)).
			Msg("Page fetched")

		if !hasLinkHeader(p.Header) {
			break
		}
		next, _ = linkRel(p.Header, "next")
	}

	return out, nil
}

// project returns the entries of a page body: the DataKey member when set,
// array elements, nothing for null, or the value itself.
func (u *Unpager) project(body any) ([]any, error) {
	value := body
	if key := u.opts.DataKey; key != "" {
		obj, ok := body.(map[string]any)
		if !ok {
			return nil, &ConfigError{
				Field: "data-key",
				Value: key,
				Err:   fmt.Errorf("%w: page body is a %s, not an object", keypath.ErrPathNotFound, jsonKind(body)),
			}
		}
		member, ok := obj[key]
		if !ok {
			return nil, &ConfigError{
				Field: "data-key",
				Value: key,
				Err:   fmt.Errorf("%w: no member %q in page body", keypath.ErrPathNotFound, key),
			}
		}
		value = member
	}

	switch v := value.(type) {
	case []any:
		return v, nil
	case nil:
		return nil, nil
	default:
		return []any{v}, nil
	}
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	case string:
		return "string"
	case bool:
		return "boolean"
	default:
		return "number"
	}
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v)+1)
	for name, values := range v {
		out[name] = append([]string(nil), values...)
	}
	return out
}
