// Package brave wraps the Brave web-search API. Its results feed the
// AI search command.
package brave

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// DefaultBaseURL is the Brave search API root.
const DefaultBaseURL = "https://api.search.brave.com/res/v1"

// Result is one web search hit.
type Result struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// Client calls the Brave search API with a subscription token.
type Client struct {
	http   *http.Client
	base   string
	apiKey string
}

// New creates a client; returns nil when no API key is configured so callers
// can wire the absence through.
func New(apiKey string) *Client {
	if apiKey == "" {
		return nil
	}
	return &Client{
		http:   &http.Client{Timeout: 15 * time.Second},
		base:   DefaultBaseURL,
		apiKey: apiKey,
	}
}

// NewWithBaseURL creates a client against a custom root, used in tests.
func NewWithBaseURL(apiKey, base string) *Client {
	c := New(apiKey)
	if c != nil {
		c.base = base
	}
	return c
}

// Search runs a web search and returns up to count results.
func (c *Client) Search(ctx context.Context, query string, count int) ([]Result, error) {
	endpoint := fmt.Sprintf("%s/web/search?q=%s&count=%d", c.base, url.QueryEscape(query), count)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build search request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "brave search request failed")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("brave search returned %s", resp.Status)
	}

	var body struct {
		Web struct {
			Results []Result `json:"results"`
		} `json:"web"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.Wrap(err, "failed to decode search response")
	}
	return body.Web.Results, nil
}

// FormatResults renders results as a plain-text block suitable for feeding
// into an AI prompt.
func FormatResults(results []Result, query string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Search results for: %q\n\n", query)
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s\n%s\n%s\n\n", i+1, r.Title, r.URL, r.Description)
	}
	return b.String()
}
