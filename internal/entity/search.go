package entity

import (
	"net"
	"regexp"
	"strings"
)

// MaxPreviewLength is the hard cap on banner/preview text leaving the
// server boundary.
const MaxPreviewLength = 200

// SearchResultItem is one host/service hit reshaped for the dashboard.
type SearchResultItem struct {
	IP           string `json:"ip"`
	Port         int    `json:"port"`
	Organization string `json:"organization"`
	OS           string `json:"os"`
	Country      string `json:"country"`
	City         string `json:"city"`
	Timestamp    string `json:"timestamp"`
	Preview      string `json:"preview"`
}

// HostMatch is one row of the paged, faceted host search view.
type HostMatch struct {
	IP        string   `json:"ip"`
	Port      int      `json:"port"`
	Transport string   `json:"transport"`
	Product   string   `json:"product"`
	Org       string   `json:"org"`
	ASN       string   `json:"asn"`
	Hostnames []string `json:"hostnames"`
	Location  Location `json:"location"`
	Data      string   `json:"data"`
}

type Location struct {
	Country string `json:"country"`
	City    string `json:"city"`
}

// TagStat is the per-query result of the multi-tag statistics fan-out.
// A failed sub-query keeps its entry with Count 0 and empty Stats.
type TagStat struct {
	Query string         `json:"query"`
	Count int            `json:"count"`
	Stats map[string]int `json:"stats"`
}

// Truncate cuts s to MaxPreviewLength runes, appending an ellipsis when
// anything was dropped.
func Truncate(s string) string {
	return TruncateN(s, MaxPreviewLength)
}

// TruncateN cuts s to at most n runes including the ellipsis.
func TruncateN(s string, n int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// OrDefault substitutes def when a provider field came back empty.
func OrDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

var ipv4Pattern = regexp.MustCompile(`^(\d{1,3})\.(\d{1,3})\.(\d{1,3})\.(\d{1,3})$`)

// ValidIPv4 reports whether s is a well-formed dotted-quad IPv4 address.
// Shapes like "999.1.1.1" match the pattern but fail the octet check.
func ValidIPv4(s string) bool {
	if !ipv4Pattern.MatchString(s) {
		return false
	}
	ip := net.ParseIP(s)
	return ip != nil && ip.To4() != nil
}
