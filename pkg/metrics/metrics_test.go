package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestRegistry(t *testing.T) {
	if Registry == nil {
		t.Error("Registry should not be nil")
	}

	if Registry != prometheus.DefaultRegisterer {
		t.Error("Registry should be the default Prometheus registerer")
	}
}

func TestCollectorsRegistered(t *testing.T) {
	// Touch each collector once so it shows up in the gathered output.
	GithubRequestsTotal.WithLabelValues("gists", "200").Add(0)
	GithubRequestDuration.WithLabelValues("raw").Observe(0)
	GithubErrorsTotal.WithLabelValues("client").Add(0)
	ScansTotal.WithLabelValues("match").Add(0)
	ScanCancellationsTotal.Add(0)
	SearchesTotal.WithLabelValues("success").Add(0)

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}

	found := make(map[string]bool)
	for _, fam := range families {
		found[fam.GetName()] = true
	}

	for _, name := range []string{
		"gistapi_github_requests_total",
		"gistapi_github_request_duration_seconds",
		"gistapi_github_errors_total",
		"gistapi_scans_total",
		"gistapi_scan_cancellations_total",
		"gistapi_searches_total",
	} {
		if !found[name] {
			t.Errorf("Expected metric %q to be registered", name)
		}
	}
}
