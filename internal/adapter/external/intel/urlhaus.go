package intel

import (
	"context"
	"fmt"
	"time"
)

// URLhausClient pulls the abuse.ch URLhaus recent-additions feed.
// The feed endpoint is public; no Auth-Key is needed for the recent dump.
type URLhausClient struct {
	baseURL string
	rest    *restClient
}

// URLhausConfig holds URLhaus client configuration
type URLhausConfig struct {
	Timeout time.Duration
}

// URLhausRecentResponse represents the recent URLs feed
type URLhausRecentResponse struct {
	QueryStatus string       `json:"query_status"`
	URLs        []URLhausURL `json:"urls"`
}

// URLhausURL represents a malicious URL entry
type URLhausURL struct {
	ID          string   `json:"id"`
	URL         string   `json:"url"`
	Host        string   `json:"host"`
	URLStatus   string   `json:"url_status"`
	DateAdded   string   `json:"date_added"`
	Threat      string   `json:"threat"`
	Tags        []string `json:"tags"`
	URLhausLink string   `json:"urlhaus_link"`
	Reporter    string   `json:"reporter"`
}

// NewURLhausClient creates a new URLhaus client
func NewURLhausClient(cfg URLhausConfig) *URLhausClient {
	return &URLhausClient{
		baseURL: "https://urlhaus-api.abuse.ch/v1",
		rest:    newRESTClient("URLhaus", cfg.Timeout),
	}
}

// RecentURLs fetches the latest malicious URL additions.
func (c *URLhausClient) RecentURLs(ctx context.Context, limit int) ([]URLhausURL, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	var resp URLhausRecentResponse
	url := fmt.Sprintf("%s/urls/recent/limit/%d/", c.baseURL, limit)
	if err := c.rest.getJSON(ctx, url, &resp); err != nil {
		return nil, err
	}

	if resp.QueryStatus != "ok" {
		return []URLhausURL{}, nil
	}
	return resp.URLs, nil
}

// GetProviderName returns the provider name
func (c *URLhausClient) GetProviderName() string {
	return "URLhaus"
}

// IsConfigured returns true; the recent feed needs no credential.
func (c *URLhausClient) IsConfigured() bool {
	return true
}
