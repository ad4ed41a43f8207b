package intel

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// GoogleCSEClient handles communication with the Google Custom Search
// JSON API. Unlike the threat intel providers, a missing key or engine
// id is a hard configuration error: the search endpoints fail closed.
type GoogleCSEClient struct {
	apiKey   string
	engineID string
	baseURL  string
	rest     *restClient
}

// GoogleCSEConfig holds the search provider configuration
type GoogleCSEConfig struct {
	APIKey   string
	EngineID string
	Timeout  time.Duration
}

// SearchOptions are the caller-supplied passthrough filters
type SearchOptions struct {
	Start        int
	Num          int
	Site         string
	DateRestrict string
	Country      string
	Language     string
}

// GoogleCSEResponse is the provider-shaped search response forwarded
// (field-filtered) to the dashboard.
type GoogleCSEResponse struct {
	SearchInformation struct {
		TotalResults string  `json:"totalResults"`
		SearchTime   float64 `json:"searchTime"`
	} `json:"searchInformation"`
	Items []GoogleCSEItem `json:"items"`
}

// GoogleCSEItem is one search hit
type GoogleCSEItem struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	DisplayLink string `json:"displayLink"`
	Snippet     string `json:"snippet"`
}

// NewGoogleCSEClient creates a new Custom Search client
func NewGoogleCSEClient(cfg GoogleCSEConfig) *GoogleCSEClient {
	return &GoogleCSEClient{
		apiKey:   cfg.APIKey,
		engineID: cfg.EngineID,
		baseURL:  "https://www.googleapis.com/customsearch/v1",
		rest:     newRESTClient("Google CSE", cfg.Timeout),
	}
}

// Search runs one query. Each call is attempted once.
func (c *GoogleCSEClient) Search(ctx context.Context, query string, opts SearchOptions) (*GoogleCSEResponse, error) {
	if !c.IsConfigured() {
		return nil, fmt.Errorf("google cse search: %w", ErrNotConfigured)
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("cx", c.engineID)
	params.Set("q", query)
	if opts.Start > 0 {
		params.Set("start", strconv.Itoa(opts.Start))
	}
	if opts.Num > 0 && opts.Num <= 10 {
		params.Set("num", strconv.Itoa(opts.Num))
	}
	if opts.Site != "" {
		params.Set("siteSearch", opts.Site)
	}
	if opts.DateRestrict != "" {
		params.Set("dateRestrict", opts.DateRestrict)
	}
	if opts.Country != "" {
		params.Set("gl", opts.Country)
	}
	if opts.Language != "" {
		params.Set("lr", opts.Language)
	}

	var resp GoogleCSEResponse
	searchURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())
	if err := c.rest.getJSON(ctx, searchURL, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetProviderName returns the provider name
func (c *GoogleCSEClient) GetProviderName() string {
	return "Google CSE"
}

// IsConfigured returns true if both the key and engine id are set
func (c *GoogleCSEClient) IsConfigured() bool {
	return c.apiKey != "" && c.engineID != ""
}
