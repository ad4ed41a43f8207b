package intel

import (
	"context"
	"fmt"
	"time"
)

// GreyNoiseClient handles communication with the GreyNoise Community API.
// GreyNoise identifies IPs that are mass-scanning the internet and flags
// known benign services (RIOT dataset).
type GreyNoiseClient struct {
	apiKey  string
	baseURL string
	rest    *restClient
}

// GreyNoiseConfig holds GreyNoise client configuration
type GreyNoiseConfig struct {
	APIKey  string
	Timeout time.Duration
}

// NewGreyNoiseClient creates a new GreyNoise client
func NewGreyNoiseClient(cfg GreyNoiseConfig) *GreyNoiseClient {
	rest := newRESTClient("GreyNoise", cfg.Timeout)
	if cfg.APIKey != "" {
		rest.setHeader("key", cfg.APIKey)
	}

	return &GreyNoiseClient{
		apiKey:  cfg.APIKey,
		baseURL: "https://api.greynoise.io/v3/community",
		rest:    rest,
	}
}

// GreyNoiseResponse represents the Community API response
type GreyNoiseResponse struct {
	IP             string `json:"ip"`
	Noise          bool   `json:"noise"`
	Riot           bool   `json:"riot"`
	Classification string `json:"classification"` // "benign", "malicious", "unknown"
	Name           string `json:"name"`
	Link           string `json:"link"`
	LastSeen       string `json:"last_seen"`
	Message        string `json:"message"`
}

// GreyNoiseResult represents the processed result
type GreyNoiseResult struct {
	IP             string `json:"ip"`
	Noise          bool   `json:"noise"`
	Riot           bool   `json:"riot"`
	Classification string `json:"classification"`
	Name           string `json:"name"`
	LastSeen       string `json:"last_seen"`
	Message        string `json:"message"`
	IsBenign       bool   `json:"is_benign"`
}

// CheckIP queries GreyNoise for IP information.
func (c *GreyNoiseClient) CheckIP(ctx context.Context, ip string) (*GreyNoiseResult, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("greynoise lookup: %w", ErrNotConfigured)
	}

	var apiResp GreyNoiseResponse
	err := c.rest.getJSON(ctx, fmt.Sprintf("%s/%s", c.baseURL, ip), &apiResp)
	if err != nil {
		// 404 means the IP was never observed by GreyNoise - normal, not an error
		if statusOf(err) == 404 {
			return &GreyNoiseResult{
				IP:             ip,
				Classification: "unknown",
				Message:        "IP not observed by GreyNoise",
			}, nil
		}
		return nil, err
	}

	return &GreyNoiseResult{
		IP:             apiResp.IP,
		Noise:          apiResp.Noise,
		Riot:           apiResp.Riot,
		Classification: normalizeClassification(apiResp.Classification),
		Name:           apiResp.Name,
		LastSeen:       apiResp.LastSeen,
		Message:        apiResp.Message,
		IsBenign:       apiResp.Riot || apiResp.Classification == "benign",
	}, nil
}

// normalizeClassification clamps provider classifications to the closed
// set {malicious, benign, unknown}.
func normalizeClassification(classification string) string {
	switch classification {
	case "malicious", "benign":
		return classification
	default:
		return "unknown"
	}
}

// GetProviderName returns the provider name
func (c *GreyNoiseClient) GetProviderName() string {
	return "GreyNoise"
}

// IsConfigured returns true if the client has an API key
func (c *GreyNoiseClient) IsConfigured() bool {
	return c.apiKey != ""
}
