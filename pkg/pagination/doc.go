// Package pagination fetches every page of a paginated JSON API and
// concatenates the entries in page order.
//
// The first response decides the strategy:
//
//   - a Link header with rel="last", or a last link found under
//     Options.LastKey, selects a numeric range: the page number is read from
//     the last link's Options.ParamPage parameter and pages 2..N are fetched
//     concurrently
//   - otherwise a rel="next" link (or Options.NextKey) selects a link chain,
//     followed sequentially through the Link headers of each response
//   - otherwise only the first page exists
//
// A known last page always wins over a next link, since it allows the
// remaining pages to be fetched in parallel. Key paths are only read from
// the first response; later pages continue a chain through Link headers
// alone.
//
// Example usage:
//
//	c, _ := client.New(client.DefaultConfig("unpage/0.1.0"))
//	u := pagination.New(c, pagination.Options{DataKey: "items"})
//	entries, err := u.Unpage(ctx, "https://api.example.com/v1/items", nil)
//
// Results are ordered page 1, 2, 3, ... regardless of the order in which
// concurrent fetches complete. The first failing page aborts the whole run
// and no partial result is returned.
package pagination
