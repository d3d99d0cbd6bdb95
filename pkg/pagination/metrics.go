package pagination

import (
	"github.com/Sternrassler/unpage/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// factory registers on the shared unpage registry.
var factory = promauto.With(metrics.Registry)

var (
	runsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "unpage_runs_total",
		Help: "Total unpage runs by resolved strategy",
	}, []string{"strategy"})

	pagesFetchedTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "unpage_pages_fetched_total",
		Help: "Total pages fetched by strategy",
	}, []string{"strategy"})

	entriesTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "unpage_entries_total",
		Help: "Total entries returned across all runs",
	})
)
