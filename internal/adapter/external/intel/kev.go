package intel

import (
	"context"
	"time"
)

// KEVClient pulls the CISA Known Exploited Vulnerabilities catalog.
// Public JSON feed, no credential.
type KEVClient struct {
	catalogURL string
	rest       *restClient
}

// KEVConfig holds KEV client configuration
type KEVConfig struct {
	Timeout time.Duration
}

// KEVCatalog represents the catalog envelope
type KEVCatalog struct {
	Title           string     `json:"title"`
	CatalogVersion  string     `json:"catalogVersion"`
	DateReleased    string     `json:"dateReleased"`
	Count           int        `json:"count"`
	Vulnerabilities []KEVEntry `json:"vulnerabilities"`
}

// KEVEntry is one known-exploited vulnerability
type KEVEntry struct {
	CVEID             string `json:"cveID"`
	VendorProject     string `json:"vendorProject"`
	Product           string `json:"product"`
	VulnerabilityName string `json:"vulnerabilityName"`
	DateAdded         string `json:"dateAdded"`
	ShortDescription  string `json:"shortDescription"`
	RequiredAction    string `json:"requiredAction"`
	DueDate           string `json:"dueDate"`
	KnownRansomware   string `json:"knownRansomwareCampaignUse"`
}

// NewKEVClient creates a new CISA KEV client
func NewKEVClient(cfg KEVConfig) *KEVClient {
	return &KEVClient{
		catalogURL: "https://www.cisa.gov/sites/default/files/feeds/known_exploited_vulnerabilities.json",
		rest:       newRESTClient("CISA KEV", cfg.Timeout),
	}
}

// Catalog fetches the full KEV catalog. The feed is a single ~2MB JSON
// document; callers are expected to cache it.
func (c *KEVClient) Catalog(ctx context.Context) (*KEVCatalog, error) {
	var catalog KEVCatalog
	if err := c.rest.getJSON(ctx, c.catalogURL, &catalog); err != nil {
		return nil, err
	}
	return &catalog, nil
}

// GetProviderName returns the provider name
func (c *KEVClient) GetProviderName() string {
	return "CISA KEV"
}

// IsConfigured returns true; the catalog needs no credential.
func (c *KEVClient) IsConfigured() bool {
	return true
}
