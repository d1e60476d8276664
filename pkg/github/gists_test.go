package github

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gistapi/gistapi/internal/testutil"
)

func TestGistsForUser_Pagination(t *testing.T) {
	mock := testutil.NewMockGitHub()
	defer mock.Close()

	// 3 gists spread over 3 pages of size 1: expect ceil(3/1)+1 = 4 page
	// requests, the last one observing the empty page.
	mock.SetGistPages("octocat", [][]testutil.MockGist{
		{testutil.SingleFileGist("g1", "https://api.github.com/gists/g1", "a.txt", mock.RawFileURL("/raw/g1/a.txt"))},
		{testutil.SingleFileGist("g2", "https://api.github.com/gists/g2", "b.txt", mock.RawFileURL("/raw/g2/b.txt"))},
		{testutil.SingleFileGist("g3", "https://api.github.com/gists/g3", "c.txt", mock.RawFileURL("/raw/g3/c.txt"))},
	})

	client := newTestClient(t, mock.URL())

	gists, err := client.GistsForUser(context.Background(), "octocat")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(gists) != 3 {
		t.Fatalf("Expected 3 gists, got %d", len(gists))
	}

	// Page order is preserved.
	for i, id := range []string{"g1", "g2", "g3"} {
		if gists[i].ID != id {
			t.Errorf("Expected gist %d to be %s, got %s", i, id, gists[i].ID)
		}
	}

	if n := mock.RequestsFor("/users/octocat/gists"); n != 4 {
		t.Errorf("Expected 4 page requests, got %d", n)
	}
}

func TestGistsForUser_NoGists(t *testing.T) {
	mock := testutil.NewMockGitHub()
	defer mock.Close()

	mock.SetGistPages("ghost", [][]testutil.MockGist{})

	client := newTestClient(t, mock.URL())

	gists, err := client.GistsForUser(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(gists) != 0 {
		t.Errorf("Expected no gists, got %d", len(gists))
	}
	if n := mock.RequestsFor("/users/ghost/gists"); n != 1 {
		t.Errorf("Expected 1 page request, got %d", n)
	}
}

func TestGistsForUser_RemoteError(t *testing.T) {
	mock := testutil.NewMockGitHub()
	defer mock.Close()

	mock.SetResponse("/users/blocked/gists", testutil.NewErrorResponse(http.StatusForbidden, "Forbidden"))

	client := newTestClient(t, mock.URL())

	_, err := client.GistsForUser(context.Background(), "blocked")
	if err == nil {
		t.Fatal("Expected error, got nil")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", apiErr.StatusCode)
	}
}

func TestGistsForUser_IgnoresUnknownFields(t *testing.T) {
	mock := testutil.NewMockGitHub()
	defer mock.Close()

	mock.SetHandler("/users/rich/gists", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page") == "1" {
			w.Write([]byte(`[{
				"id": "g1",
				"url": "https://api.github.com/gists/g1",
				"node_id": "MDQ6R2lzdA==",
				"comments": 12,
				"files": {
					"hello.py": {"filename": "hello.py", "raw_url": "https://gist.example/raw", "language": "Python", "size": 42}
				}
			}]`))
			return
		}
		w.Write([]byte("[]"))
	})

	client := newTestClient(t, mock.URL())

	gists, err := client.GistsForUser(context.Background(), "rich")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(gists) != 1 {
		t.Fatalf("Expected 1 gist, got %d", len(gists))
	}

	file, ok := gists[0].Files["hello.py"]
	if !ok {
		t.Fatal("Expected hello.py file entry")
	}
	if file.RawURL != "https://gist.example/raw" {
		t.Errorf("Unexpected raw_url: %q", file.RawURL)
	}
}
