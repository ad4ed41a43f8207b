package feeds

import (
	"github.com/google/uuid"

	"github.com/isolationbox11-cyber/isolationbox-sub001/internal/entity"
)

// Fallback suppliers return fixed, well-formed substitute records so the
// dashboard stays renderable when a provider is unreachable. The source
// values are distinguishable from live data on the client side. These
// functions must never fail.

// Stable namespace for the synthetic indicator id so the fallback row is
// identical across requests.
var fallbackIndicatorID = uuid.NewSHA1(uuid.NameSpaceOID, []byte("indicator-fallback")).String()

func fallbackThreats() []entity.ThreatItem {
	return []entity.ThreatItem{
		{
			Name:        "Mirai Botnet Variant Scanning",
			Severity:    entity.SeverityHigh,
			Description: "IoT botnet activity probing for exposed telnet and SSH services. Live feed unavailable - showing representative data.",
			FirstSeen:   "2h ago",
			Source:      "Demo Data",
			Tag:         "botnet",
		},
		{
			Name:        "Credential Stuffing Campaign",
			Severity:    entity.SeverityMedium,
			Description: "Distributed login attempts against common web panels reported by community sensors.",
			FirstSeen:   "6h ago",
			Source:      "Demo Data",
			Tag:         "bruteforce",
		},
		{
			Name:        "Phishing Kit Deployment Wave",
			Severity:    entity.SeverityMedium,
			Description: "Newly registered domains hosting cloned login pages for common SaaS providers.",
			FirstSeen:   "1d ago",
			Source:      "Demo Data",
			Tag:         "phishing",
		},
	}
}

func fallbackPulse() []entity.ThreatItem {
	return []entity.ThreatItem{
		{
			Name:        "Threat Pulse Feed Unavailable",
			Severity:    entity.SeverityLow,
			Description: "The pulse provider could not be reached. This placeholder keeps the panel populated; verdicts resume automatically.",
			FirstSeen:   "just now",
			Source:      "System Alert",
			Tag:         "status",
		},
	}
}

func fallbackIndicators() []entity.IndicatorItem {
	return []entity.IndicatorItem{
		{
			Indicator:   fallbackIndicatorID,
			Type:        entity.IndicatorUnknown,
			Description: "Indicator export unavailable - provider unreachable or no API key configured",
			Created:     "1970-01-01T00:00:00Z",
			Severity:    entity.SeverityLow,
			Source:      "System Alert",
		},
	}
}
