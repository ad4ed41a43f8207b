package intel

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// CensysClient handles communication with the Censys Search v2 API.
// Authentication is HTTP basic with the API ID/secret pair.
type CensysClient struct {
	apiID   string
	baseURL string
	rest    *restClient
}

// CensysConfig holds Censys client configuration
type CensysConfig struct {
	APIID     string
	APISecret string
	Timeout   time.Duration
}

// NewCensysClient creates a new Censys client
func NewCensysClient(cfg CensysConfig) *CensysClient {
	rest := newRESTClient("Censys", cfg.Timeout)
	if cfg.APIID != "" || cfg.APISecret != "" {
		rest.setBasicAuth(cfg.APIID, cfg.APISecret)
	}

	return &CensysClient{
		apiID:   cfg.APIID,
		baseURL: "https://search.censys.io/api",
		rest:    rest,
	}
}

// CensysSearchResponse wraps the v2 search envelope
type CensysSearchResponse struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Result struct {
		Query string       `json:"query"`
		Total int64        `json:"total"`
		Hits  []CensysHost `json:"hits"`
		Links struct {
			Next string `json:"next"`
			Prev string `json:"prev"`
		} `json:"links"`
	} `json:"result"`
}

// CensysHost is one host hit
type CensysHost struct {
	IP       string `json:"ip"`
	Services []struct {
		Port        int    `json:"port"`
		ServiceName string `json:"service_name"`
		Transport   string `json:"transport_protocol"`
	} `json:"services"`
	Location struct {
		Country string `json:"country"`
		City    string `json:"city"`
	} `json:"location"`
	AutonomousSystem struct {
		ASN         int    `json:"asn"`
		Description string `json:"description"`
	} `json:"autonomous_system"`
	LastUpdated string `json:"last_updated_at"`
}

// CensysAccountResponse represents the account/quota endpoint
type CensysAccountResponse struct {
	Email string `json:"email"`
	Login string `json:"login"`
	Quota struct {
		Used      int    `json:"used"`
		Allowance int    `json:"allowance"`
		ResetsAt  string `json:"resets_at"`
	} `json:"quota"`
}

// SearchHosts runs a paged host search. The provider pages with opaque
// cursors, so the client walks the cursor chain page-1 times to reach the
// requested page. A query with fewer pages than requested yields its last
// page.
func (c *CensysClient) SearchHosts(ctx context.Context, query string, page int) (*CensysSearchResponse, error) {
	if c.apiID == "" {
		return nil, fmt.Errorf("censys host search: %w", ErrNotConfigured)
	}
	if page <= 0 {
		page = 1
	}

	var resp CensysSearchResponse
	cursor := ""
	for p := 1; ; p++ {
		params := url.Values{}
		params.Set("q", query)
		params.Set("per_page", "25")
		if cursor != "" {
			params.Set("cursor", cursor)
		}

		resp = CensysSearchResponse{}
		searchURL := fmt.Sprintf("%s/v2/hosts/search?%s", c.baseURL, params.Encode())
		if err := c.rest.getJSON(ctx, searchURL, &resp); err != nil {
			return nil, err
		}
		if p == page {
			break
		}
		cursor = resp.Result.Links.Next
		if cursor == "" {
			break
		}
	}
	return &resp, nil
}

// Account fetches plan and quota information for the configured key pair.
func (c *CensysClient) Account(ctx context.Context) (*CensysAccountResponse, error) {
	if c.apiID == "" {
		return nil, fmt.Errorf("censys account: %w", ErrNotConfigured)
	}

	var resp CensysAccountResponse
	if err := c.rest.getJSON(ctx, c.baseURL+"/v1/account", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetProviderName returns the provider name
func (c *CensysClient) GetProviderName() string {
	return "Censys"
}

// IsConfigured returns true if the client has an API ID
func (c *CensysClient) IsConfigured() bool {
	return c.apiID != ""
}
