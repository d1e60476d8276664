// Package testutil provides testing utilities for gistapi.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockGist mirrors the gist listing schema, with only the fields gistapi
// reads plus a couple of extras to exercise unknown-field tolerance.
type MockGist struct {
	ID          string              `json:"id"`
	URL         string              `json:"url"`
	Description string              `json:"description,omitempty"`
	Public      bool                `json:"public"`
	Files       map[string]MockFile `json:"files"`
}

// MockFile mirrors a single file entry of a gist record.
type MockFile struct {
	Filename string `json:"filename"`
	RawURL   string `json:"raw_url"`
	Size     int    `json:"size,omitempty"`
	Language string `json:"language,omitempty"`
}

// MockGitHub is a configurable mock GitHub API server covering the gists
// listing endpoint and raw file content URLs.
type MockGitHub struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)
	pages    map[string][][]MockGist

	// Tracking
	requestCount int
	pathCounts   map[string]int
}

// NewMockGitHub creates a new mock GitHub server.
func NewMockGitHub() *MockGitHub {
	mock := &MockGitHub{
		handlers:   make(map[string]func(w http.ResponseWriter, r *http.Request)),
		pages:      make(map[string][][]MockGist),
		pathCounts: make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.requestCount++
		mock.pathCounts[r.URL.Path]++
		mock.mu.Unlock()

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		pages, hasPages := mock.pages[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		if hasPages {
			mock.servePage(w, r, pages)
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message": "Not Found"}`))
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockGitHub) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockGitHub) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockGitHub) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount = 0
	m.pathCounts = make(map[string]int)
}

// SetHandler sets a custom handler for a specific path.
func (m *MockGitHub) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a fixed response for a path.
func (m *MockGitHub) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
		}

		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// SetGistPages configures the paginated gists listing for a username.
// Page numbers past the configured pages return an empty array, matching
// the end-of-pagination contract.
func (m *MockGitHub) SetGistPages(username string, pages [][]MockGist) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[fmt.Sprintf("/users/%s/gists", username)] = pages
}

// SetRawFile serves content at path, for use as a gist file raw_url target.
func (m *MockGitHub) SetRawFile(path, content string) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(content))
	})
}

// RawFileURL returns the absolute raw_url for a path on this server.
func (m *MockGitHub) RawFileURL(path string) string {
	return m.server.URL + path
}

// RequestCount returns the total number of requests made to the server.
func (m *MockGitHub) RequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requestCount
}

// RequestsFor returns the number of requests made to a specific path.
func (m *MockGitHub) RequestsFor(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pathCounts[path]
}

// servePage answers one page of a configured gists listing.
func (m *MockGitHub) servePage(w http.ResponseWriter, r *http.Request, pages [][]MockGist) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	if page > len(pages) {
		w.Write([]byte("[]"))
		return
	}

	json.NewEncoder(w).Encode(pages[page-1])
}

// NewErrorResponse creates a GitHub-style JSON error response.
func NewErrorResponse(status int, message string) MockResponse {
	return MockResponse{
		StatusCode: status,
		Body:       fmt.Sprintf(`{"message": %q, "documentation_url": "https://docs.github.com/rest"}`, message),
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// SingleFileGist builds a one-file gist record pointing at rawURL.
func SingleFileGist(id, url, filename, rawURL string) MockGist {
	return MockGist{
		ID:     id,
		URL:    url,
		Public: true,
		Files: map[string]MockFile{
			filename: {Filename: filename, RawURL: rawURL},
		},
	}
}
