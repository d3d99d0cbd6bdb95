package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Sternrassler/unpage/pkg/cache"
	"github.com/Sternrassler/unpage/pkg/logging"
	"github.com/Sternrassler/unpage/pkg/pagination"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for unpage.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unpage URL",
		Short: "Fetch all pages of a paginated JSON API",
		Long: `unpage fetches every page of a paginated JSON API and prints the
concatenated entries to stdout as a single JSON array.

Pagination is detected from the first response:
  - a Link header with rel="last" fetches pages 2..last concurrently
  - a Link header with rel="next" only is followed page by page
  - --next-key/--last-key read the links from the JSON body instead

Every flag can also be set from the environment with the UNPAGE_ prefix,
for example UNPAGE_REDIS_URL. UNPAGE_HEADERS takes one "Key: Value" per
line and is ignored when -H is given. Set DEBUG to trace requests and
responses on stderr.`,
		Version:       getVersion(),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runUnpage,
	}

	flags := cmd.Flags()
	flags.StringArrayP("headers", "H", nil, `Request header as "Key: Value" (repeatable)`)
	flags.StringP("param-page", "P", pagination.DefaultParamPage, "Query parameter holding the page number")
	flags.StringP("data-key", "D", "", "Top-level key holding the entries of each response body")
	flags.StringP("next-key", "N", "", "Key path to the next page link in the first response body")
	flags.StringP("last-key", "L", "", "Key path to the last page link in the first response body")
	flags.Int("max-concurrency", 0, "Maximum concurrent page fetches (0 = unbounded)")
	flags.Duration("timeout", 0, "Per-request timeout (0 = none)")
	flags.String("redis-url", "", "Redis URL or host:port enabling the response cache")
	flags.Duration("cache-ttl", cache.DefaultTTL, "Cache lifetime for responses without an Expires header")
	flags.String("pushgateway", "", "Prometheus Pushgateway URL to push run metrics to")
	flags.String("log-level", string(logging.LevelWarn), "Log level (debug, info, warn, error, disabled)")
	flags.Bool("pretty", false, "Human-readable log output")

	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command and exits 1 on failure or interrupt.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := NewRootCmd().ExecuteContext(ctx)
	interrupted := ctx.Err() != nil
	stop()

	if err != nil {
		if !interrupted {
			fmt.Fprintln(os.Stderr, "unpage:", err)
		}
		os.Exit(1)
	}
	if interrupted {
		os.Exit(1)
	}
}
