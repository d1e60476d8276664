// Package search implements the gist search engine: pattern compilation,
// the concurrent per-gist scanner, and the orchestrator driving a full
// search for one user.
package search

import (
	"errors"
	"regexp"
	"regexp/syntax"
)

// InvalidPatternError reports a pattern string that failed to compile as a
// regular expression. Its message carries the underlying syntax diagnostic
// and is safe to show to API callers.
type InvalidPatternError struct {
	Expr string
	Err  error
}

// Error implements the error interface.
func (e *InvalidPatternError) Error() string {
	var parseErr *syntax.Error
	if errors.As(e.Err, &parseErr) {
		return "Invalid pattern, " + string(parseErr.Code) + ": `" + parseErr.Expr + "`"
	}
	return "Invalid pattern, " + e.Err.Error()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *InvalidPatternError) Unwrap() error {
	return e.Err
}

// Pattern is a compiled search pattern. Matching is anchored at the start of
// the content and `.` matches newlines, so multi-line files are searched as
// a single string.
type Pattern struct {
	expr string
	re   *regexp.Regexp
}

// Compile compiles a user-supplied pattern string in dot-all mode.
// It returns an *InvalidPatternError when the string is not a valid
// regular expression.
func Compile(expr string) (*Pattern, error) {
	re, err := regexp.Compile("(?s)" + expr)
	if err != nil {
		return nil, &InvalidPatternError{Expr: expr, Err: err}
	}

	return &Pattern{expr: expr, re: re}, nil
}

// Match reports whether the pattern matches starting at the first byte of
// content. A match further into the content does not count.
func (p *Pattern) Match(content string) bool {
	loc := p.re.FindStringIndex(content)
	return loc != nil && loc[0] == 0
}

// String returns the pattern as originally submitted.
func (p *Pattern) String() string {
	return p.expr
}
