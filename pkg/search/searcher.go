package search

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/gistapi/gistapi/pkg/github"
	"github.com/gistapi/gistapi/pkg/logging"
	"github.com/gistapi/gistapi/pkg/metrics"
)

// GistLister lists all gist metadata for a user. *github.Client implements it.
type GistLister interface {
	GistsForUser(ctx context.Context, username string) ([]github.Gist, error)
}

// StatusSuccess is the status reported on a completed search.
const StatusSuccess = "success"

// Result is the outcome of one search. Matches holds the URLs of matching
// gists in the order they were scanned, which follows the remote pagination
// order.
type Result struct {
	Status   string   `json:"status"`
	Username string   `json:"username"`
	Pattern  string   `json:"pattern"`
	Matches  []string `json:"matches"`
}

// Searcher drives a full search: list every gist of a user, scan them one at
// a time, and collect the URLs of the gists with at least one matching file.
//
// Gists are scanned sequentially, only files within a gist are fetched
// concurrently. This bounds total outstanding connections to one gist's file
// count instead of the cross-product of all gists and all files.
type Searcher struct {
	lister  GistLister
	scanner *Scanner
	logger  zerolog.Logger
}

// NewSearcher creates a searcher over the given lister and scanner.
func NewSearcher(lister GistLister, scanner *Scanner) *Searcher {
	return &Searcher{
		lister:  lister,
		scanner: scanner,
		logger:  logging.NewLogger("searcher"),
	}
}

// Search compiles pattern, lists username's gists and scans each of them.
// It fails with *InvalidPatternError before any network activity when the
// pattern does not compile, and aborts on the first remote error without
// scanning the remaining gists.
func (s *Searcher) Search(ctx context.Context, username, pattern string) (*Result, error) {
	p, err := Compile(pattern)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	startTime := time.Now()

	gists, err := s.lister.GistsForUser(ctx, username)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	matches := make([]string, 0, len(gists))
	for _, gist := range gists {
		found, err := s.scanner.Scan(ctx, gist, p)
		if err != nil {
			metrics.SearchesTotal.WithLabelValues("error").Inc()
			return nil, err
		}
		if found {
			matches = append(matches, gist.URL)
		}
	}

	s.logger.Info().
		Str("username", username).
		Int("gists", len(gists)).
		Int("matches", len(matches)).
		Dur("duration", time.Since(startTime)).
		Msg("Search complete")
	metrics.SearchesTotal.WithLabelValues(StatusSuccess).Inc()

	return &Result{
		Status:   StatusSuccess,
		Username: username,
		Pattern:  pattern,
		Matches:  matches,
	}, nil
}
