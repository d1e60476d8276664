package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Gist is one gist metadata record from the listing endpoint. Only the
// fields the engine reads are modeled; unknown JSON fields are ignored.
type Gist struct {
	ID    string              `json:"id"`
	URL   string              `json:"url"`
	Files map[string]GistFile `json:"files"`
}

// GistFile is a pointer to one file's raw content within a gist.
type GistFile struct {
	Filename string `json:"filename"`
	RawURL   string `json:"raw_url"`
}

// GistsForUser lists all gist metadata for a user.
//
// The listing endpoint is paginated: pages are requested sequentially
// starting at 1 until an empty page is returned. A non-success page response
// fails the whole listing immediately, no partial results are returned.
// Note the Gists API returns at most 3000 gists per user.
func (c *Client) GistsForUser(ctx context.Context, username string) ([]Gist, error) {
	var gists []Gist

	for page := 1; ; page++ {
		pageURL := fmt.Sprintf("%s/users/%s/gists?page=%d",
			c.config.BaseURL, url.PathEscape(username), page)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}

		body, err := c.get(req, endpointGists)
		if err != nil {
			return nil, err
		}

		var batch []Gist
		if err := json.Unmarshal(body, &batch); err != nil {
			return nil, fmt.Errorf("decode gists page %d: %w", page, err)
		}

		// Empty page means there are no more pages to fetch.
		if len(batch) == 0 {
			break
		}

		gists = append(gists, batch...)

		c.logger.Debug().
			Str("username", username).
			Int("page", page).
			Int("gists", len(gists)).
			Msg("Fetched gists page")
	}

	c.logger.Info().
		Str("username", username).
		Int("gists", len(gists)).
		Msg("Listed gists")

	return gists, nil
}

// FetchRawFile retrieves the raw content of a single gist file.
func (c *Client) FetchRawFile(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	body, err := c.get(req, endpointRaw)
	if err != nil {
		return "", err
	}

	return string(body), nil
}
