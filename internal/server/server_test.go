package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gistapi/gistapi/internal/config"
	"github.com/gistapi/gistapi/pkg/github"
	"github.com/gistapi/gistapi/pkg/search"
)

// stubSearcher returns a canned result or error and records invocations.
type stubSearcher struct {
	result *search.Result
	err    error
	calls  int
}

func (s *stubSearcher) Search(ctx context.Context, username, pattern string) (*search.Result, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func newTestServer(searcher Searcher) *Server {
	return New(&config.Config{
		HttpHost:       "127.0.0.1",
		HttpPort:       "0",
		MetricsEnabled: false,
	}, searcher)
}

func doRequest(srv *Server, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestPing(t *testing.T) {
	srv := newTestServer(&stubSearcher{})

	rec := doRequest(srv, http.MethodGet, "/ping", "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "pong", rec.Body.String())
}

func TestHealthcheck(t *testing.T) {
	srv := newTestServer(&stubSearcher{})

	rec := doRequest(srv, http.MethodGet, "/healthcheck", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"gistapi":"ok"`)
}

func TestSearch_Success(t *testing.T) {
	stub := &stubSearcher{result: &search.Result{
		Status:   "success",
		Username: "testuser",
		Pattern:  "import",
		Matches:  []string{"https://api.github.com/gists/abc"},
	}}
	srv := newTestServer(stub)

	rec := doRequest(srv, http.MethodPost, "/api/v1/search",
		`{"username": "testuser", "pattern": "import"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"status": "success",
		"username": "testuser",
		"pattern": "import",
		"matches": ["https://api.github.com/gists/abc"]
	}`, rec.Body.String())
	assert.Equal(t, 1, stub.calls)
}

func TestSearch_Validation(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantError  string
		wantStatus int
	}{
		{
			name:       "missing pattern",
			body:       `{"username": "testuser"}`,
			wantError:  "'pattern' is a required property",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing username",
			body:       `{"pattern": "import"}`,
			wantError:  "'username' is a required property",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown key rejected",
			body:       `{"username": "testuser", "pattern": "x", "page": 2}`,
			wantError:  `unknown field "page"`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed json",
			body:       `{"username": `,
			wantError:  "Invalid request body",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubSearcher{}
			srv := newTestServer(stub)

			rec := doRequest(srv, http.MethodPost, "/api/v1/search", tt.body)

			require.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
			assert.Contains(t, rec.Body.String(), tt.wantError)
			assert.Zero(t, stub.calls, "validation failures must not reach the searcher")
		})
	}
}

func TestSearch_InvalidPattern(t *testing.T) {
	_, compileErr := search.Compile("[")
	require.Error(t, compileErr)

	srv := newTestServer(&stubSearcher{err: compileErr})

	rec := doRequest(srv, http.MethodPost, "/api/v1/search",
		`{"username": "testuser", "pattern": "["}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid pattern, ")
}

func TestSearch_RemoteErrorHiddenFromCaller(t *testing.T) {
	srv := newTestServer(&stubSearcher{err: &github.APIError{
		StatusCode: http.StatusForbidden,
		ErrorClass: github.ErrorClassClient,
		Payload:    map[string]any{"message": "API rate limit exceeded for 1.2.3.4"},
	}})

	rec := doRequest(srv, http.MethodPost, "/api/v1/search",
		`{"username": "testuser", "pattern": "import"}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error": "Internal error. Please contact technical support."}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "rate limit", "remote details must never leak")
}

func TestSearch_UnclassifiedErrorIsGeneric500(t *testing.T) {
	srv := newTestServer(&stubSearcher{err: context.DeadlineExceeded})

	rec := doRequest(srv, http.MethodPost, "/api/v1/search",
		`{"username": "testuser", "pattern": "import"}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error": "Internal error. Please contact technical support."}`, rec.Body.String())
}

func TestUnknownRouteIsJSON(t *testing.T) {
	srv := newTestServer(&stubSearcher{})

	rec := doRequest(srv, http.MethodGet, "/nope", "")

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
}
