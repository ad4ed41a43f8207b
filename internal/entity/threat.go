package entity

import (
	"fmt"
	"strings"
	"time"
)

// Severity levels allowed to leave the server boundary. Anything a
// provider sends that is not in this set maps to SeverityMedium.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Feed source markers so the dashboard can distinguish live data from
// substitute data.
const (
	SourceLive          = "live"
	SourceFallback      = "fallback"
	SourceErrorFallback = "error_fallback"
)

// ThreatItem is a display-oriented threat record built per-request from
// provider data or a fallback table. It is never stored.
type ThreatItem struct {
	Name              string `json:"name"`
	Severity          string `json:"severity"`
	Description       string `json:"description"`
	FirstSeen         string `json:"firstSeen"`
	Source            string `json:"source"`
	Tag               string `json:"tag"`
	RawIndicatorCount int    `json:"rawIndicatorCount,omitempty"`
}

// NormalizeSeverity clamps a provider-supplied severity string to the
// closed enumeration, defaulting to medium.
func NormalizeSeverity(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case SeverityLow:
		return SeverityLow
	case SeverityMedium:
		return SeverityMedium
	case SeverityHigh:
		return SeverityHigh
	case SeverityCritical:
		return SeverityCritical
	default:
		return SeverityMedium
	}
}

// SeverityFromIndicatorCount derives a severity from how many raw
// indicators a pulse carries.
func SeverityFromIndicatorCount(count int) string {
	switch {
	case count >= 100:
		return SeverityCritical
	case count >= 25:
		return SeverityHigh
	case count >= 5:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// RelativeTime renders a timestamp as the dashboard-friendly "2h ago"
// form. Zero or future times render as "just now".
func RelativeTime(t time.Time, now time.Time) string {
	if t.IsZero() || !t.Before(now) {
		return "just now"
	}

	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}
