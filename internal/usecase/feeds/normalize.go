package feeds

import (
	"sort"
	"strings"
	"time"

	"github.com/isolationbox11-cyber/isolationbox-sub001/internal/adapter/external/intel"
	"github.com/isolationbox11-cyber/isolationbox-sub001/internal/entity"
)

// normalizePulses maps raw OTX pulses onto ThreatItem records: only the
// allow-listed fields cross the boundary, every optional field gets a
// default, long text is truncated, and the array is capped.
func (s *Service) normalizePulses(pulses []intel.OTXPulse, limit int) []entity.ThreatItem {
	threats := make([]entity.ThreatItem, 0, limit)
	now := s.now()

	for _, pulse := range pulses {
		if len(threats) >= limit {
			break
		}
		if strings.TrimSpace(pulse.Name) == "" {
			continue
		}

		threats = append(threats, entity.ThreatItem{
			Name:              entity.TruncateN(pulse.Name, 120),
			Severity:          pulseSeverity(pulse),
			Description:       entity.Truncate(entity.OrDefault(pulse.Description, "No description provided")),
			FirstSeen:         entity.RelativeTime(parsePulseTime(pulse.Created), now),
			Source:            entity.OrDefault(pulse.AuthorName, "AlienVault OTX"),
			Tag:               pulseTag(pulse),
			RawIndicatorCount: len(pulse.Indicators),
		})
	}

	return threats
}

// normalizeIndicators flattens pulse indicators into IOC rows, newest
// pulses first, capped at limit.
func (s *Service) normalizeIndicators(pulses []intel.OTXPulse, limit int) []entity.IndicatorItem {
	indicators := make([]entity.IndicatorItem, 0, limit)

	for _, pulse := range pulses {
		for _, ind := range pulse.Indicators {
			if len(indicators) >= limit {
				return indicators
			}
			if strings.TrimSpace(ind.Indicator) == "" {
				continue
			}

			description := entity.OrDefault(ind.Description, pulse.Name)
			indicators = append(indicators, entity.IndicatorItem{
				Indicator:   entity.TruncateN(ind.Indicator, 120),
				Type:        entity.NormalizeIndicatorType(ind.Type),
				Description: entity.Truncate(description),
				Created:     entity.OrDefault(ind.Created, pulse.Created),
				Severity:    pulseSeverity(pulse),
				Source:      "AlienVault OTX",
			})
		}
	}

	return indicators
}

// normalizeThreatList maps URLhaus rows onto the dashboard threat list.
func (s *Service) normalizeThreatList(urls []intel.URLhausURL, limit int) []ThreatListEntry {
	list := make([]ThreatListEntry, 0, limit)

	for _, u := range urls {
		if len(list) >= limit {
			break
		}

		list = append(list, ThreatListEntry{
			Host:      entity.OrDefault(u.Host, "Unknown"),
			URL:       entity.Truncate(u.URL),
			Threat:    entity.OrDefault(u.Threat, "malware_download"),
			Status:    entity.OrDefault(u.URLStatus, "unknown"),
			Severity:  threatListSeverity(u),
			Tags:      nonNilTags(u.Tags),
			DateAdded: u.DateAdded,
			Reporter:  entity.OrDefault(u.Reporter, "Unknown"),
		})
	}

	return list
}

// normalizeVulnList returns the newest KEV entries first.
func (s *Service) normalizeVulnList(catalog *intel.KEVCatalog, limit int) []VulnListEntry {
	entries := make([]intel.KEVEntry, len(catalog.Vulnerabilities))
	copy(entries, catalog.Vulnerabilities)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].DateAdded > entries[j].DateAdded
	})

	list := make([]VulnListEntry, 0, limit)
	for _, e := range entries {
		if len(list) >= limit {
			break
		}

		severity := entity.SeverityHigh
		if strings.EqualFold(e.KnownRansomware, "known") {
			severity = entity.SeverityCritical
		}

		list = append(list, VulnListEntry{
			CVE:         e.CVEID,
			Vendor:      entity.OrDefault(e.VendorProject, "Unknown"),
			Product:     entity.OrDefault(e.Product, "Unknown"),
			Name:        entity.TruncateN(e.VulnerabilityName, 120),
			Description: entity.Truncate(e.ShortDescription),
			Severity:    severity,
			DateAdded:   e.DateAdded,
			DueDate:     e.DueDate,
		})
	}

	return list
}

// Tags that escalate a pulse to critical regardless of indicator volume.
var criticalTags = map[string]bool{
	"ransomware": true,
	"apt":        true,
	"c2":         true,
	"botnet_cc":  true,
	"zero-day":   true,
	"zeroday":    true,
}

func pulseSeverity(pulse intel.OTXPulse) string {
	for _, tag := range pulse.Tags {
		if criticalTags[strings.ToLower(tag)] {
			return entity.SeverityCritical
		}
	}
	if pulse.Adversary != "" {
		return entity.SeverityHigh
	}
	return entity.SeverityFromIndicatorCount(len(pulse.Indicators))
}

func pulseTag(pulse intel.OTXPulse) string {
	if len(pulse.Tags) > 0 {
		return entity.TruncateN(strings.ToLower(pulse.Tags[0]), 40)
	}
	if pulse.Adversary != "" {
		return entity.TruncateN(strings.ToLower(pulse.Adversary), 40)
	}
	return "intel"
}

func threatListSeverity(u intel.URLhausURL) string {
	if strings.EqualFold(u.URLStatus, "online") {
		return entity.SeverityHigh
	}
	return entity.SeverityMedium
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

// parsePulseTime accepts the timestamp shapes OTX emits.
func parsePulseTime(raw string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05.999999", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
