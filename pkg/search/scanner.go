package search

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/gistapi/gistapi/pkg/github"
	"github.com/gistapi/gistapi/pkg/logging"
	"github.com/gistapi/gistapi/pkg/metrics"
)

// FileFetcher retrieves the raw content of a single remote file.
// *github.Client implements it.
type FileFetcher interface {
	FetchRawFile(ctx context.Context, rawURL string) (string, error)
}

// fileResult is the outcome of one fetch-and-test task.
type fileResult struct {
	matched bool
	err     error
}

// Scanner determines whether any file of a gist matches a pattern, fetching
// as little as possible. One Scan is a single bounded concurrent operation;
// no state is retained between invocations.
type Scanner struct {
	fetcher     FileFetcher
	concurrency int
	logger      zerolog.Logger
}

// NewScanner creates a scanner over the given fetcher. concurrency bounds
// the number of in-flight fetches per gist; zero means one slot per file,
// which is the historical behavior.
func NewScanner(fetcher FileFetcher, concurrency int) *Scanner {
	return &Scanner{
		fetcher:     fetcher,
		concurrency: concurrency,
		logger:      logging.NewLogger("scanner"),
	}
}

// Scan fetches every file of the gist concurrently and reports whether any
// content matches p.
//
// The three outcomes race, and whichever resolves first wins:
//   - a match resolves the scan to true and cancels the sibling fetches;
//   - a fetch error resolves the scan to that error and cancels the siblings;
//   - all tasks completing with neither resolves the scan to false.
//
// Cancellation is cooperative: in-flight requests are abandoned through the
// scan context and their results discarded, but the scan does not wait for
// them to unwind. Sibling errors surfacing after a match are suppressed.
func (s *Scanner) Scan(ctx context.Context, gist github.Gist, p *Pattern) (bool, error) {
	// A gist with zero files never matches, and no fetch is performed.
	if len(gist.Files) == 0 {
		metrics.ScansTotal.WithLabelValues("no_match").Inc()
		return false, nil
	}

	scanCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	limit := s.concurrency
	if limit <= 0 || limit > len(gist.Files) {
		limit = len(gist.Files)
	}
	slots := make(chan struct{}, limit)

	// Buffered to the file count so abandoned tasks can always deliver
	// their result and exit without anyone reading it.
	results := make(chan fileResult, len(gist.Files))

	for _, file := range gist.Files {
		go func(f github.GistFile) {
			select {
			case slots <- struct{}{}:
			case <-scanCtx.Done():
				metrics.ScanCancellationsTotal.Inc()
				results <- fileResult{err: scanCtx.Err()}
				return
			}
			defer func() { <-slots }()

			content, err := s.fetcher.FetchRawFile(scanCtx, f.RawURL)
			if err != nil {
				if scanCtx.Err() != nil && ctx.Err() == nil {
					metrics.ScanCancellationsTotal.Inc()
				}
				results <- fileResult{err: err}
				return
			}

			results <- fileResult{matched: p.Match(content)}
		}(file)
	}

	for pending := len(gist.Files); pending > 0; pending-- {
		res := <-results

		if res.err != nil {
			cancel()
			metrics.ScansTotal.WithLabelValues("error").Inc()
			s.logger.Debug().
				Err(res.err).
				Str("gist_id", gist.ID).
				Int("files", len(gist.Files)).
				Msg("Scan aborted by fetch error")
			return false, res.err
		}

		if res.matched {
			cancel()
			metrics.ScansTotal.WithLabelValues("match").Inc()
			s.logger.Debug().
				Str("gist_id", gist.ID).
				Int("files", len(gist.Files)).
				Int("outstanding", pending-1).
				Msg("Scan resolved by match, cancelling siblings")
			return true, nil
		}
	}

	metrics.ScansTotal.WithLabelValues("no_match").Inc()
	return false, nil
}
