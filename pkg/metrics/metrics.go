// Package metrics documents the Prometheus metrics exported by unpage and
// pushes them to a Pushgateway at the end of a run.
//
// All metrics are defined in their respective packages (client, cache,
// pagination) and registered on Registry via promauto.With.
package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Registry is the registerer all unpage metrics are registered on.
var Registry = prometheus.DefaultRegisterer

// Gatherer is what Push collects from.
var Gatherer prometheus.Gatherer = prometheus.DefaultGatherer

// DefaultJob is the Pushgateway job name used by the CLI.
const DefaultJob = "unpage"

// Push sends the current value of every registered metric to the
// Pushgateway at gatewayURL, replacing the previous push for job.
func Push(ctx context.Context, gatewayURL, job string) error {
	if gatewayURL == "" {
		return fmt.Errorf("pushgateway url is required")
	}
	if job == "" {
		job = DefaultJob
	}

	if err := push.New(gatewayURL, job).Gatherer(Gatherer).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", gatewayURL, err)
	}
	return nil
}

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - unpage_requests_total{status} (Counter): Page requests by HTTP status
//   - unpage_request_duration_seconds{host} (Histogram): Request duration by host
//   - unpage_errors_total{class} (Counter): Errors by class (redirect, client, server, other, network, decode)
//
// Pagination Metrics (pkg/pagination):
//   - unpage_runs_total{strategy} (Counter): Runs by resolved strategy
//   - unpage_pages_fetched_total{strategy} (Counter): Pages fetched, first page included
//   - unpage_entries_total (Counter): Entries returned
//
// Cache Metrics (pkg/cache):
//   - unpage_cache_hits_total (Counter): Cache hits
//   - unpage_cache_misses_total (Counter): Cache misses
//   - unpage_304_responses_total (Counter): 304 Not Modified responses served from cache
//   - unpage_cache_errors_total{operation} (Counter): Cache operation errors
//
// Example Prometheus Queries:
//
//   # Pages per run
//   sum(rate(unpage_pages_fetched_total[1h])) / sum(rate(unpage_runs_total[1h]))
//
//   # Cache Hit Rate
//   sum(rate(unpage_cache_hits_total[5m])) /
//   (sum(rate(unpage_cache_hits_total[5m])) + sum(rate(unpage_cache_misses_total[5m])))
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(unpage_request_duration_seconds_bucket[5m]))
