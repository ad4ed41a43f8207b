package reputation

import (
	"context"
	"fmt"

	"github.com/isolationbox11-cyber/isolationbox-sub001/internal/adapter/external/intel"
	"github.com/isolationbox11-cyber/isolationbox-sub001/internal/entity"
)

// Provider is the reputation lookup dependency, implemented by the
// GreyNoise client.
type Provider interface {
	CheckIP(ctx context.Context, ip string) (*intel.GreyNoiseResult, error)
	IsConfigured() bool
}

// Service orchestrates IP reputation lookups. This endpoint runs in
// surface mode: provider failures propagate to the handler with their
// upstream status instead of being masked by fallback data.
type Service struct {
	provider Provider
}

// NewService creates a reputation service
func NewService(provider Provider) *Service {
	return &Service{provider: provider}
}

// Lookup is the dashboard-shaped reputation payload
type Lookup struct {
	IP             string `json:"ip"`
	IsNoisy        bool   `json:"isNoisy"`
	IsRiot         bool   `json:"isRiot"`
	Classification string `json:"classification"`
	ThreatLevel    string `json:"threatLevel"`
	Name           string `json:"name,omitempty"`
	LastSeen       string `json:"lastSeen"`
	Message        string `json:"message"`
	Source         string `json:"source"`
}

// CheckIP looks up one IP. The caller must have validated the IPv4
// format already; no network call happens on invalid input.
func (s *Service) CheckIP(ctx context.Context, ip string) (*Lookup, error) {
	// No key is a valid state: answer with an advisory unknown record
	// rather than failing the dashboard panel.
	if !s.provider.IsConfigured() {
		return &Lookup{
			IP:             ip,
			Classification: "unknown",
			ThreatLevel:    entity.SeverityLow,
			LastSeen:       "never",
			Message:        "Reputation provider not configured - add an API key for live verdicts",
			Source:         entity.SourceFallback,
		}, nil
	}

	result, err := s.provider.CheckIP(ctx, ip)
	if err != nil {
		return nil, fmt.Errorf("reputation lookup for %s: %w", ip, err)
	}

	return &Lookup{
		IP:             result.IP,
		IsNoisy:        result.Noise,
		IsRiot:         result.Riot,
		Classification: result.Classification,
		ThreatLevel:    threatLevel(result),
		Name:           result.Name,
		LastSeen:       entity.OrDefault(result.LastSeen, "never"),
		Message:        entity.Truncate(result.Message),
		Source:         entity.SourceLive,
	}, nil
}

// threatLevel converts a classification verdict to the dashboard's
// severity scale.
func threatLevel(result *intel.GreyNoiseResult) string {
	switch {
	case result.Classification == "malicious":
		return entity.SeverityHigh
	case result.IsBenign:
		return entity.SeverityLow
	case result.Noise:
		return entity.SeverityMedium
	default:
		return entity.SeverityLow
	}
}
