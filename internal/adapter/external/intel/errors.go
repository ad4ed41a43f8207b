package intel

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotConfigured marks a provider call attempted without its required
// credential. Callers distinguish it from network failures because the
// fallback policy differs per endpoint.
var ErrNotConfigured = errors.New("provider credential not configured")

// ProviderError carries the upstream HTTP status so surface-mode
// endpoints can propagate it.
type ProviderError struct {
	Provider string
	Status   int
	Message  string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.Status, e.Message)
}

// IsCredentialError reports whether err looks like an authentication
// failure (missing key, 401/403 upstream). The faceted host search
// endpoint maps these to 401 instead of 500.
func IsCredentialError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotConfigured) {
		return true
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		if pe.Status == 401 || pe.Status == 403 {
			return true
		}
		msg := strings.ToLower(pe.Message)
		return strings.Contains(msg, "unauthorized") || strings.Contains(msg, "invalid api key") || strings.Contains(msg, "access denied")
	}
	return false
}

// UpstreamStatus extracts the provider status from err, or 500 when the
// failure was not an upstream HTTP error.
func UpstreamStatus(err error) int {
	var pe *ProviderError
	if errors.As(err, &pe) && pe.Status >= 400 {
		return pe.Status
	}
	return 500
}
