package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Provider-level counters. Labels carry the provider name only; never
// the query, and never a credential.
var (
	ProviderRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "isolationbox_provider_requests_total",
		Help: "Outbound requests per threat intel provider.",
	}, []string{"provider"})

	ProviderErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "isolationbox_provider_errors_total",
		Help: "Failed outbound requests per threat intel provider.",
	}, []string{"provider"})

	FallbackServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "isolationbox_fallback_served_total",
		Help: "Responses answered from the fallback supplier, per endpoint.",
	}, []string{"endpoint"})
)
