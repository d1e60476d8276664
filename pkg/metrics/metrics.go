// Package metrics defines the Prometheus collectors shared by the GitHub
// client and the search engine. Keeping them in one place avoids duplicate
// registrations when both packages are linked into the same binary.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the Prometheus registerer used by gistapi.
// All collectors below are registered against it via promauto.
var Registry = prometheus.DefaultRegisterer

var (
	// GithubRequestsTotal counts outbound GitHub requests by endpoint and status.
	// Endpoint is a fixed label ("gists" or "raw"), not the URL path, to keep
	// cardinality bounded.
	GithubRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gistapi_github_requests_total",
		Help: "Total GitHub requests by endpoint and status",
	}, []string{"endpoint", "status"})

	// GithubRequestDuration observes outbound request duration by endpoint.
	GithubRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gistapi_github_request_duration_seconds",
		Help:    "GitHub request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	// GithubErrorsTotal counts outbound request failures by class.
	GithubErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gistapi_github_errors_total",
		Help: "Total GitHub errors by class",
	}, []string{"class"})

	// ScansTotal counts gist scans by outcome (match, no_match, error).
	ScansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gistapi_scans_total",
		Help: "Total gist scans by outcome",
	}, []string{"outcome"})

	// ScanCancellationsTotal counts in-flight file fetches abandoned because a
	// sibling resolved the scan first.
	ScanCancellationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gistapi_scan_cancellations_total",
		Help: "Total file fetches abandoned after a sibling resolved the scan",
	})

	// SearchesTotal counts completed searches by status (success, error).
	SearchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gistapi_searches_total",
		Help: "Total searches by status",
	}, []string{"status"})
)

// Example Prometheus Queries:
//
//   # GitHub request error rate
//   rate(gistapi_github_errors_total[5m])
//
//   # P95 raw file fetch latency
//   histogram_quantile(0.95, rate(gistapi_github_request_duration_seconds_bucket{endpoint="raw"}[5m]))
//
//   # Share of scans resolved early by a match
//   rate(gistapi_scans_total{outcome="match"}[5m]) / rate(gistapi_scans_total[5m])
//
//   # Fetches saved by early cancellation
//   rate(gistapi_scan_cancellations_total[5m])
