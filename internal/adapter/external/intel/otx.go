package intel

import (
	"context"
	"fmt"
	"time"
)

// OTXClient handles communication with the AlienVault OTX API.
// Pulses are community threat reports; each carries a set of raw
// indicators (IPs, domains, hashes) the dashboard renders as IOCs.
type OTXClient struct {
	apiKey  string
	baseURL string
	rest    *restClient
}

// OTXConfig holds OTX client configuration
type OTXConfig struct {
	APIKey  string
	Timeout time.Duration
}

// NewOTXClient creates a new AlienVault OTX client
func NewOTXClient(cfg OTXConfig) *OTXClient {
	rest := newRESTClient("AlienVault OTX", cfg.Timeout)
	if cfg.APIKey != "" {
		rest.setHeader("X-OTX-API-KEY", cfg.APIKey)
	}

	return &OTXClient{
		apiKey:  cfg.APIKey,
		baseURL: "https://otx.alienvault.com/api/v1",
		rest:    rest,
	}
}

// OTXPulseList represents the paged pulse feed response
type OTXPulseList struct {
	Count   int        `json:"count"`
	Results []OTXPulse `json:"results"`
}

// OTXPulse represents a single threat feed entry
type OTXPulse struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	Created         string         `json:"created"`
	Modified        string         `json:"modified"`
	AuthorName      string         `json:"author_name"`
	Tags            []string       `json:"tags"`
	TLP             string         `json:"TLP"`
	Adversary       string         `json:"adversary"`
	MalwareFamilies []string       `json:"malware_families"`
	Indicators      []OTXIndicator `json:"indicators"`
}

// OTXIndicator is one raw IOC inside a pulse
type OTXIndicator struct {
	ID          int64  `json:"id"`
	Indicator   string `json:"indicator"`
	Type        string `json:"type"`
	Created     string `json:"created"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// GetActivityPulses fetches the most recent pulses from the subscribed
// activity feed.
func (c *OTXClient) GetActivityPulses(ctx context.Context, limit int) ([]OTXPulse, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("otx pulse feed: %w", ErrNotConfigured)
	}
	if limit <= 0 {
		limit = 10
	}

	var list OTXPulseList
	url := fmt.Sprintf("%s/pulses/activity?limit=%d", c.baseURL, limit)
	if err := c.rest.getJSON(ctx, url, &list); err != nil {
		return nil, err
	}

	return list.Results, nil
}

// GetProviderName returns the provider name
func (c *OTXClient) GetProviderName() string {
	return "AlienVault OTX"
}

// IsConfigured returns true if the client has an API key
func (c *OTXClient) IsConfigured() bool {
	return c.apiKey != ""
}
