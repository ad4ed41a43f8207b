package entity

import "strings"

// Indicator types recognized by the dashboard. Provider values outside
// this set map to IndicatorUnknown.
const (
	IndicatorIPv4     = "IPv4"
	IndicatorIPv6     = "IPv6"
	IndicatorDomain   = "domain"
	IndicatorHostname = "hostname"
	IndicatorURL      = "URL"
	IndicatorSHA256   = "FileHash-SHA256"
	IndicatorSHA1     = "FileHash-SHA1"
	IndicatorMD5      = "FileHash-MD5"
	IndicatorCVE      = "CVE"
	IndicatorUnknown  = "unknown"
)

// IndicatorItem is a single IOC row for the dashboard export view.
type IndicatorItem struct {
	Indicator   string `json:"indicator"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Created     string `json:"created"`
	Severity    string `json:"severity"`
	Source      string `json:"source"`
}

var indicatorTypes = map[string]string{
	"ipv4":             IndicatorIPv4,
	"ipv6":             IndicatorIPv6,
	"domain":           IndicatorDomain,
	"hostname":         IndicatorHostname,
	"url":              IndicatorURL,
	"filehash-sha256":  IndicatorSHA256,
	"sha256":           IndicatorSHA256,
	"filehash-sha1":    IndicatorSHA1,
	"sha1":             IndicatorSHA1,
	"filehash-md5":     IndicatorMD5,
	"md5":              IndicatorMD5,
	"cve":              IndicatorCVE,
}

// NormalizeIndicatorType maps a provider indicator type onto the closed set.
func NormalizeIndicatorType(t string) string {
	if mapped, ok := indicatorTypes[strings.ToLower(strings.TrimSpace(t))]; ok {
		return mapped
	}
	return IndicatorUnknown
}
