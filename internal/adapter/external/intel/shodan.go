package intel

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// ShodanClient handles communication with the Shodan REST API for
// host/service search.
type ShodanClient struct {
	apiKey  string
	baseURL string
	rest    *restClient
}

// ShodanConfig holds Shodan client configuration
type ShodanConfig struct {
	APIKey  string
	Timeout time.Duration
}

// NewShodanClient creates a new Shodan client
func NewShodanClient(cfg ShodanConfig) *ShodanClient {
	return &ShodanClient{
		apiKey:  cfg.APIKey,
		baseURL: "https://api.shodan.io",
		rest:    newRESTClient("Shodan", cfg.Timeout),
	}
}

// ShodanSearchResponse represents the host search response
type ShodanSearchResponse struct {
	Total   int                      `json:"total"`
	Matches []ShodanMatch            `json:"matches"`
	Facets  map[string][]ShodanFacet `json:"facets"`
}

// ShodanMatch is one banner hit
type ShodanMatch struct {
	IPStr     string         `json:"ip_str"`
	Port      int            `json:"port"`
	Transport string         `json:"transport"`
	Product   string         `json:"product"`
	Org       string         `json:"org"`
	ASN       string         `json:"asn"`
	OS        string         `json:"os"`
	Hostnames []string       `json:"hostnames"`
	Timestamp string         `json:"timestamp"`
	Data      string         `json:"data"`
	Location  ShodanLocation `json:"location"`
}

// ShodanLocation holds geolocation fields of a match
type ShodanLocation struct {
	CountryName string `json:"country_name"`
	City        string `json:"city"`
}

// ShodanFacet is one facet bucket
type ShodanFacet struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

// ShodanCountResponse represents the count endpoint response
type ShodanCountResponse struct {
	Total  int                      `json:"total"`
	Facets map[string][]ShodanFacet `json:"facets"`
}

// Search runs a paged host search. Facets is a Shodan facet expression
// like "country:5,port:5" and may be empty.
func (c *ShodanClient) Search(ctx context.Context, query string, page int, facets string) (*ShodanSearchResponse, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("shodan search: %w", ErrNotConfigured)
	}
	if page <= 0 {
		page = 1
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("query", query)
	params.Set("page", fmt.Sprintf("%d", page))
	if facets != "" {
		params.Set("facets", facets)
	}

	var resp ShodanSearchResponse
	searchURL := fmt.Sprintf("%s/shodan/host/search?%s", c.baseURL, params.Encode())
	if err := c.rest.getJSON(ctx, searchURL, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Count runs a count-only query, optionally faceted. Cheaper than Search
// because no banners are returned.
func (c *ShodanClient) Count(ctx context.Context, query string, facets string) (*ShodanCountResponse, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("shodan count: %w", ErrNotConfigured)
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("query", query)
	if facets != "" {
		params.Set("facets", facets)
	}

	var resp ShodanCountResponse
	countURL := fmt.Sprintf("%s/shodan/host/count?%s", c.baseURL, params.Encode())
	if err := c.rest.getJSON(ctx, countURL, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetProviderName returns the provider name
func (c *ShodanClient) GetProviderName() string {
	return "Shodan"
}

// IsConfigured returns true if the client has an API key
func (c *ShodanClient) IsConfigured() bool {
	return c.apiKey != ""
}
