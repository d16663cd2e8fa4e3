// Package integrations holds outbound publishing targets. Each target is an
// opaque REST service: send request, await JSON, parse.
package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// WordPressSite holds the connection details for one user-configured site.
// Authentication uses a WordPress application password.
type WordPressSite struct {
	URL         string
	Username    string
	AppPassword string
}

type wordPressPostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Status  string `json:"status"`
	Slug    string `json:"slug,omitempty"`
}

type wordPressPostResponse struct {
	ID   int    `json:"id"`
	Link string `json:"link"`
}

var wordpressHTTPClient = &http.Client{Timeout: 30 * time.Second}

// PublishToWordPress creates a published post on the site and returns its URL.
func PublishToWordPress(ctx context.Context, site WordPressSite, title, contentHTML, slug string) (string, error) {
	if site.URL == "" || site.Username == "" || site.AppPassword == "" {
		return "", fmt.Errorf("wordpress site URL, username, and application password are required")
	}

	body, err := json.Marshal(wordPressPostRequest{
		Title:   title,
		Content: contentHTML,
		Status:  "publish",
		Slug:    slug,
	})
	if err != nil {
		return "", err
	}

	endpoint := strings.TrimSuffix(site.URL, "/") + "/wp-json/wp/v2/posts"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(site.Username, site.AppPassword)
	req.Header.Set("Content-Type", "application/json")

	resp, err := wordpressHTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("wordpress request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("wordpress returned status %d", resp.StatusCode)
	}

	var post wordPressPostResponse
	if err := json.NewDecoder(resp.Body).Decode(&post); err != nil {
		return "", fmt.Errorf("failed to decode wordpress response: %w", err)
	}

	return post.Link, nil
}
