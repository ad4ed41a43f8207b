package feeds

import (
	"context"
	"log/slog"
	"time"

	"github.com/isolationbox11-cyber/isolationbox-sub001/internal/adapter/external/intel"
	"github.com/isolationbox11-cyber/isolationbox-sub001/internal/entity"
	"github.com/isolationbox11-cyber/isolationbox-sub001/internal/metrics"
)

// Caps applied to every feed regardless of how much the provider
// returned.
const (
	maxRecentThreats     = 10
	maxPulses            = 5
	defaultIndicatorLim  = 20
	maxIndicatorLim      = 100
	maxThreatListEntries = 25
	maxVulnListEntries   = 20
)

// PulseProvider is the OTX dependency
type PulseProvider interface {
	GetActivityPulses(ctx context.Context, limit int) ([]intel.OTXPulse, error)
	IsConfigured() bool
}

// URLFeedProvider is the URLhaus dependency
type URLFeedProvider interface {
	RecentURLs(ctx context.Context, limit int) ([]intel.URLhausURL, error)
}

// VulnProvider is the CISA KEV dependency
type VulnProvider interface {
	Catalog(ctx context.Context) (*intel.KEVCatalog, error)
}

// Service aggregates the threat feed endpoints. These endpoints run in
// mask mode: any provider failure degrades to deterministic fallback
// data and the dashboard always gets HTTP 200 with a well-typed array.
type Service struct {
	pulses PulseProvider
	urls   URLFeedProvider
	vulns  VulnProvider
	cache  *feedCache
	now    func() time.Time
}

// NewService creates a feeds service. cacheTTL bounds how long the bulk
// public feeds (URLhaus, KEV) are memoized; per-request results are
// never cached.
func NewService(pulses PulseProvider, urls URLFeedProvider, vulns VulnProvider, cacheTTL time.Duration) *Service {
	return &Service{
		pulses: pulses,
		urls:   urls,
		vulns:  vulns,
		cache:  newFeedCache(cacheTTL),
		now:    time.Now,
	}
}

// ThreatFeed is the recent-threats envelope. Threats is never nil.
type ThreatFeed struct {
	Threats []entity.ThreatItem `json:"threats"`
	Source  string              `json:"source"`
}

// PulseFeed is the threat-pulses envelope. Threats is never nil.
type PulseFeed struct {
	Threats []entity.ThreatItem `json:"threats"`
}

// IndicatorExport is the IOC export envelope. Indicators is never nil.
type IndicatorExport struct {
	Indicators []entity.IndicatorItem `json:"indicators"`
}

// ThreatListEntry is one row of the alternate-provider threat list
type ThreatListEntry struct {
	Host      string   `json:"host"`
	URL       string   `json:"url"`
	Threat    string   `json:"threat"`
	Status    string   `json:"status"`
	Severity  string   `json:"severity"`
	Tags      []string `json:"tags"`
	DateAdded string   `json:"dateAdded"`
	Reporter  string   `json:"reporter"`
}

// VulnListEntry is one row of the vulnerability list
type VulnListEntry struct {
	CVE         string `json:"cve"`
	Vendor      string `json:"vendor"`
	Product     string `json:"product"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	DateAdded   string `json:"dateAdded"`
	DueDate     string `json:"dueDate"`
}

// RecentThreats returns the dashboard's recent-threats feed. It never
// fails: a missing key yields the demo fallback, a provider or
// normalization failure yields the error fallback.
func (s *Service) RecentThreats(ctx context.Context) *ThreatFeed {
	if !s.pulses.IsConfigured() {
		metrics.FallbackServed.WithLabelValues("threats_recent").Inc()
		return &ThreatFeed{Threats: fallbackThreats(), Source: entity.SourceFallback}
	}

	pulses, err := s.pulses.GetActivityPulses(ctx, maxRecentThreats)
	if err != nil {
		slog.Warn("Recent threats fetch failed, serving fallback", "error", err)
		metrics.FallbackServed.WithLabelValues("threats_recent").Inc()
		return &ThreatFeed{Threats: fallbackThreats(), Source: entity.SourceErrorFallback}
	}

	threats := s.normalizePulses(pulses, maxRecentThreats)
	if len(threats) == 0 {
		metrics.FallbackServed.WithLabelValues("threats_recent").Inc()
		return &ThreatFeed{Threats: fallbackThreats(), Source: entity.SourceErrorFallback}
	}

	return &ThreatFeed{Threats: threats, Source: entity.SourceLive}
}

// Pulses returns at most maxPulses normalized pulse records. limit
// bounds how many pulses are requested upstream (default 10).
func (s *Service) Pulses(ctx context.Context, limit int) *PulseFeed {
	if limit <= 0 {
		limit = 10
	}

	if !s.pulses.IsConfigured() {
		metrics.FallbackServed.WithLabelValues("threats_pulses").Inc()
		return &PulseFeed{Threats: fallbackPulse()}
	}

	pulses, err := s.pulses.GetActivityPulses(ctx, limit)
	if err != nil {
		slog.Warn("Pulse feed fetch failed, serving fallback", "error", err)
		metrics.FallbackServed.WithLabelValues("threats_pulses").Inc()
		return &PulseFeed{Threats: fallbackPulse()}
	}

	threats := s.normalizePulses(pulses, maxPulses)
	if len(threats) == 0 {
		metrics.FallbackServed.WithLabelValues("threats_pulses").Inc()
		return &PulseFeed{Threats: fallbackPulse()}
	}

	return &PulseFeed{Threats: threats}
}

// Indicators returns up to limit IOC rows extracted from recent pulses.
func (s *Service) Indicators(ctx context.Context, limit int) *IndicatorExport {
	if limit <= 0 {
		limit = defaultIndicatorLim
	}
	if limit > maxIndicatorLim {
		limit = maxIndicatorLim
	}

	if !s.pulses.IsConfigured() {
		metrics.FallbackServed.WithLabelValues("indicators").Inc()
		return &IndicatorExport{Indicators: fallbackIndicators()}
	}

	pulses, err := s.pulses.GetActivityPulses(ctx, maxRecentThreats)
	if err != nil {
		slog.Warn("Indicator export fetch failed, serving fallback", "error", err)
		metrics.FallbackServed.WithLabelValues("indicators").Inc()
		return &IndicatorExport{Indicators: fallbackIndicators()}
	}

	indicators := s.normalizeIndicators(pulses, limit)
	if len(indicators) == 0 {
		metrics.FallbackServed.WithLabelValues("indicators").Inc()
		return &IndicatorExport{Indicators: fallbackIndicators()}
	}

	return &IndicatorExport{Indicators: indicators}
}

// ThreatList returns the alternate-provider threat list (URLhaus). The
// handler maps an error to 500 with an empty array; no fallback data is
// substituted for this endpoint.
func (s *Service) ThreatList(ctx context.Context) ([]ThreatListEntry, error) {
	if cached, ok := s.cache.getThreatList(); ok {
		return cached, nil
	}

	urls, err := s.urls.RecentURLs(ctx, 100)
	if err != nil {
		return nil, err
	}

	list := s.normalizeThreatList(urls, maxThreatListEntries)
	s.cache.setThreatList(list)
	return list, nil
}

// VulnList returns the most recently cataloged known-exploited
// vulnerabilities.
func (s *Service) VulnList(ctx context.Context) ([]VulnListEntry, error) {
	if cached, ok := s.cache.getVulnList(); ok {
		return cached, nil
	}

	catalog, err := s.vulns.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	list := s.normalizeVulnList(catalog, maxVulnListEntries)
	s.cache.setVulnList(list)
	return list, nil
}
