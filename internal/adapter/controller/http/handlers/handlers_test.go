package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isolationbox11-cyber/isolationbox-sub001/internal/adapter/external/intel"
	"github.com/isolationbox11-cyber/isolationbox-sub001/internal/usecase/feeds"
	"github.com/isolationbox11-cyber/isolationbox-sub001/internal/usecase/hostsearch"
	"github.com/isolationbox11-cyber/isolationbox-sub001/internal/usecase/reputation"
	"github.com/isolationbox11-cyber/isolationbox-sub001/internal/usecase/websearch"
)

// =============================================================================
// Stub Providers - minimal implementations of the usecase interfaces
// =============================================================================

type stubReputation struct {
	result     *intel.GreyNoiseResult
	err        error
	configured bool
}

func (s *stubReputation) CheckIP(ctx context.Context, ip string) (*intel.GreyNoiseResult, error) {
	return s.result, s.err
}
func (s *stubReputation) IsConfigured() bool { return s.configured }

type stubPulses struct {
	pulses     []intel.OTXPulse
	err        error
	configured bool
}

func (s *stubPulses) GetActivityPulses(ctx context.Context, limit int) ([]intel.OTXPulse, error) {
	return s.pulses, s.err
}
func (s *stubPulses) IsConfigured() bool { return s.configured }

type stubURLFeed struct {
	urls []intel.URLhausURL
	err  error
}

func (s *stubURLFeed) RecentURLs(ctx context.Context, limit int) ([]intel.URLhausURL, error) {
	return s.urls, s.err
}

type stubVulns struct {
	catalog *intel.KEVCatalog
	err     error
}

func (s *stubVulns) Catalog(ctx context.Context) (*intel.KEVCatalog, error) {
	return s.catalog, s.err
}

type stubHosts struct {
	searchResp *intel.ShodanSearchResponse
	searchErr  error
	countResp  *intel.ShodanCountResponse
	countErr   error
	configured bool
}

func (s *stubHosts) Search(ctx context.Context, query string, page int, facets string) (*intel.ShodanSearchResponse, error) {
	return s.searchResp, s.searchErr
}
func (s *stubHosts) Count(ctx context.Context, query string, facets string) (*intel.ShodanCountResponse, error) {
	return s.countResp, s.countErr
}
func (s *stubHosts) IsConfigured() bool { return s.configured }

type stubAlt struct {
	searchResp  *intel.CensysSearchResponse
	searchErr   error
	accountResp *intel.CensysAccountResponse
	accountErr  error
	configured  bool
}

func (s *stubAlt) SearchHosts(ctx context.Context, query string, page int) (*intel.CensysSearchResponse, error) {
	return s.searchResp, s.searchErr
}
func (s *stubAlt) Account(ctx context.Context) (*intel.CensysAccountResponse, error) {
	return s.accountResp, s.accountErr
}
func (s *stubAlt) IsConfigured() bool { return s.configured }

type stubSearch struct {
	resp *intel.GoogleCSEResponse
	err  error
}

func (s *stubSearch) Search(ctx context.Context, query string, opts intel.SearchOptions) (*intel.GoogleCSEResponse, error) {
	return s.resp, s.err
}
func (s *stubSearch) IsConfigured() bool { return s.err == nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// =============================================================================
// Reputation Handler Tests
// =============================================================================

func TestReputationHandler(t *testing.T) {
	t.Run("invalid IP format returns 400", func(t *testing.T) {
		h := NewReputationHandler(reputation.NewService(&stubReputation{}), testLogger())

		for _, ip := range []string{"999.1.1.1", "not-an-ip", "", "1.2.3", "::1"} {
			req := httptest.NewRequest(http.MethodGet, "/api/reputation?ip="+ip, nil)
			rec := httptest.NewRecorder()
			h.CheckIP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code, "ip=%q", ip)
			body := decodeBody(t, rec)
			assert.Equal(t, "Invalid IP address format", body["error"])
		}
	})

	t.Run("keyless lookup returns advisory verdict", func(t *testing.T) {
		h := NewReputationHandler(reputation.NewService(&stubReputation{configured: false}), testLogger())

		req := httptest.NewRequest(http.MethodGet, "/api/reputation?ip=8.8.8.8", nil)
		rec := httptest.NewRecorder()
		h.CheckIP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "unknown", body["classification"])
		assert.Equal(t, "fallback", body["source"])
	})

	t.Run("provider failure surfaces upstream status", func(t *testing.T) {
		provider := &stubReputation{
			configured: true,
			err:        &intel.ProviderError{Provider: "GreyNoise", Status: 429, Message: "rate limited"},
		}
		h := NewReputationHandler(reputation.NewService(provider), testLogger())

		req := httptest.NewRequest(http.MethodGet, "/api/reputation?ip=203.0.113.9", nil)
		rec := httptest.NewRecorder()
		h.CheckIP(rec, req)

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		body := decodeBody(t, rec)
		assert.NotEmpty(t, body["error"])
	})

	t.Run("live verdict passes through", func(t *testing.T) {
		provider := &stubReputation{
			configured: true,
			result: &intel.GreyNoiseResult{
				IP:             "203.0.113.5",
				Noise:          true,
				Classification: "malicious",
			},
		}
		h := NewReputationHandler(reputation.NewService(provider), testLogger())

		req := httptest.NewRequest(http.MethodGet, "/api/reputation?ip=203.0.113.5", nil)
		rec := httptest.NewRecorder()
		h.CheckIP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "malicious", body["classification"])
		assert.Equal(t, "high", body["threatLevel"])
	})
}

// =============================================================================
// Feeds Handler Tests
// =============================================================================

func newFeedsHandler(pulses *stubPulses, urls *stubURLFeed, vulns *stubVulns) *FeedsHandler {
	return NewFeedsHandler(feeds.NewService(pulses, urls, vulns, 0), testLogger())
}

func TestFeedsHandler(t *testing.T) {
	t.Run("recent threats always answers 200", func(t *testing.T) {
		h := newFeedsHandler(&stubPulses{err: errors.New("down"), configured: true}, &stubURLFeed{}, &stubVulns{})

		req := httptest.NewRequest(http.MethodGet, "/api/threats/recent", nil)
		rec := httptest.NewRecorder()
		h.RecentThreats(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "error_fallback", body["source"])
		threats, ok := body["threats"].([]interface{})
		require.True(t, ok)
		assert.NotEmpty(t, threats)
	})

	t.Run("indicators always answers 200 with non-nil array", func(t *testing.T) {
		h := newFeedsHandler(&stubPulses{configured: false}, &stubURLFeed{}, &stubVulns{})

		req := httptest.NewRequest(http.MethodGet, "/api/indicators?limit=5", nil)
		rec := httptest.NewRecorder()
		h.Indicators(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		_, ok := body["indicators"].([]interface{})
		assert.True(t, ok)
	})

	t.Run("threat list failure returns 500 with empty data array", func(t *testing.T) {
		h := newFeedsHandler(&stubPulses{}, &stubURLFeed{err: errors.New("offline")}, &stubVulns{})

		req := httptest.NewRequest(http.MethodGet, "/api/intel/threats", nil)
		rec := httptest.NewRecorder()
		h.ThreatList(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, false, body["success"])
		data, ok := body["data"].([]interface{})
		require.True(t, ok)
		assert.Empty(t, data)
		assert.NotEmpty(t, body["timestamp"])
	})

	t.Run("vulnerability list success envelope", func(t *testing.T) {
		vulns := &stubVulns{catalog: &intel.KEVCatalog{
			Vulnerabilities: []intel.KEVEntry{{CVEID: "CVE-2024-1234", DateAdded: "2024-06-01"}},
		}}
		h := newFeedsHandler(&stubPulses{}, &stubURLFeed{}, vulns)

		req := httptest.NewRequest(http.MethodGet, "/api/intel/vulnerabilities", nil)
		rec := httptest.NewRecorder()
		h.VulnList(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, true, body["success"])
		data, ok := body["data"].([]interface{})
		require.True(t, ok)
		assert.Len(t, data, 1)
	})
}

// =============================================================================
// Host Search Handler Tests
// =============================================================================

func newHostsHandler(hosts *stubHosts, alt *stubAlt) *HostSearchHandler {
	return NewHostSearchHandler(hostsearch.NewService(hosts, alt), testLogger())
}

func TestHostSearchHandler(t *testing.T) {
	t.Run("missing query returns 400", func(t *testing.T) {
		h := newHostsHandler(&stubHosts{}, &stubAlt{})

		req := httptest.NewRequest(http.MethodPost, "/api/hosts/search", strings.NewReader(`{"query":"  "}`))
		rec := httptest.NewRecorder()
		h.Search(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Query is required", body["error"])
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		h := newHostsHandler(&stubHosts{}, &stubAlt{})

		req := httptest.NewRequest(http.MethodPost, "/api/hosts/search", strings.NewReader(`{broken`))
		rec := httptest.NewRecorder()
		h.Search(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("keyless search answers 200 with demo data", func(t *testing.T) {
		h := newHostsHandler(&stubHosts{configured: false}, &stubAlt{})

		req := httptest.NewRequest(http.MethodPost, "/api/hosts/search", strings.NewReader(`{"query":"camera"}`))
		rec := httptest.NewRecorder()
		h.Search(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.NotEmpty(t, body["note"])
		results, ok := body["results"].([]interface{})
		require.True(t, ok)
		assert.NotEmpty(t, results)
	})

	t.Run("faceted query credential failure returns 401", func(t *testing.T) {
		hosts := &stubHosts{searchErr: &intel.ProviderError{Provider: "Shodan", Status: 401, Message: "Invalid API key"}}
		h := newHostsHandler(hosts, &stubAlt{})

		req := httptest.NewRequest(http.MethodGet, "/api/hosts/query?q=port:22", nil)
		rec := httptest.NewRecorder()
		h.Query(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("faceted query non-credential failure returns 500", func(t *testing.T) {
		hosts := &stubHosts{searchErr: &intel.ProviderError{Provider: "Shodan", Status: 502, Message: "bad gateway"}}
		h := newHostsHandler(hosts, &stubAlt{})

		req := httptest.NewRequest(http.MethodGet, "/api/hosts/query?q=port:22", nil)
		rec := httptest.NewRecorder()
		h.Query(rec, req)

		// the upstream 502 is not forwarded, only reputation does that
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("faceted query missing q returns 400", func(t *testing.T) {
		h := newHostsHandler(&stubHosts{}, &stubAlt{})

		req := httptest.NewRequest(http.MethodGet, "/api/hosts/query", nil)
		rec := httptest.NewRecorder()
		h.Query(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("stats answers 200 even when every branch fails", func(t *testing.T) {
		hosts := &stubHosts{configured: true, countErr: errors.New("down")}
		h := newHostsHandler(hosts, &stubAlt{})

		req := httptest.NewRequest(http.MethodGet, "/api/hosts/stats", nil)
		rec := httptest.NewRecorder()
		h.Stats(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		stats, ok := body["stats"].([]interface{})
		require.True(t, ok)
		assert.Len(t, stats, len(hostsearch.DefaultStatsTags))
	})

	t.Run("alt search invalid type returns 400", func(t *testing.T) {
		h := newHostsHandler(&stubHosts{}, &stubAlt{})

		req := httptest.NewRequest(http.MethodPost, "/api/censys/search", strings.NewReader(`{"query":"x","type":"dns"}`))
		rec := httptest.NewRecorder()
		h.AltSearch(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("alt search defaults to host type", func(t *testing.T) {
		alt := &stubAlt{configured: true, searchResp: &intel.CensysSearchResponse{}}
		h := newHostsHandler(&stubHosts{}, alt)

		req := httptest.NewRequest(http.MethodPost, "/api/censys/search", strings.NewReader(`{"query":"services.port=22"}`))
		rec := httptest.NewRecorder()
		h.AltSearch(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		metadata, ok := body["metadata"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "host", metadata["type"])
	})

	t.Run("alt search provider failure returns 500", func(t *testing.T) {
		alt := &stubAlt{configured: true, searchErr: &intel.ProviderError{Provider: "Censys", Status: 502, Message: "bad gateway"}}
		h := newHostsHandler(&stubHosts{}, alt)

		req := httptest.NewRequest(http.MethodPost, "/api/censys/search", strings.NewReader(`{"query":"services.port=22"}`))
		rec := httptest.NewRecorder()
		h.AltSearch(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("account success wraps the data envelope", func(t *testing.T) {
		alt := &stubAlt{
			configured: true,
			accountResp: &intel.CensysAccountResponse{
				Email: "analyst@example.com",
				Login: "analyst",
			},
		}
		h := newHostsHandler(&stubHosts{}, alt)

		req := httptest.NewRequest(http.MethodGet, "/api/censys/account", nil)
		rec := httptest.NewRecorder()
		h.Account(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, true, body["success"])
		data, ok := body["data"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "analyst@example.com", data["email"])
	})

	t.Run("account failure returns 500", func(t *testing.T) {
		alt := &stubAlt{accountErr: &intel.ProviderError{Provider: "Censys", Status: 403, Message: "forbidden"}}
		h := newHostsHandler(&stubHosts{}, alt)

		req := httptest.NewRequest(http.MethodGet, "/api/censys/account", nil)
		rec := httptest.NewRecorder()
		h.Account(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

// =============================================================================
// Web Search Handler Tests
// =============================================================================

func newSearchHandler(stub *stubSearch) *WebSearchHandler {
	return NewWebSearchHandler(websearch.NewService(stub), testLogger())
}

func TestWebSearchHandler(t *testing.T) {
	t.Run("GET without query returns 400", func(t *testing.T) {
		h := newSearchHandler(&stubSearch{resp: &intel.GoogleCSEResponse{}})

		req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
		rec := httptest.NewRecorder()
		h.Search(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody(t, rec)
		assert.NotEmpty(t, body["error"])
	})

	t.Run("POST without query returns 400", func(t *testing.T) {
		h := newSearchHandler(&stubSearch{resp: &intel.GoogleCSEResponse{}})

		req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(`{"num":5}`))
		rec := httptest.NewRecorder()
		h.Search(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("GET accepts q or query parameter", func(t *testing.T) {
		h := newSearchHandler(&stubSearch{resp: &intel.GoogleCSEResponse{}})

		for _, target := range []string{"/api/search?q=ransomware", "/api/search?query=ransomware"} {
			req := httptest.NewRequest(http.MethodGet, target, nil)
			rec := httptest.NewRecorder()
			h.Search(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code, target)
			body := decodeBody(t, rec)
			assert.Equal(t, "ransomware", body["query"])
		}
	})

	t.Run("provider failure returns 500 not fabricated results", func(t *testing.T) {
		h := newSearchHandler(&stubSearch{err: intel.ErrNotConfigured})

		req := httptest.NewRequest(http.MethodGet, "/api/search?q=breach", nil)
		rec := httptest.NewRecorder()
		h.Search(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decodeBody(t, rec)
		assert.NotEmpty(t, body["error"])
	})

	t.Run("upstream status is not forwarded", func(t *testing.T) {
		h := newSearchHandler(&stubSearch{err: &intel.ProviderError{Provider: "GoogleCSE", Status: 429, Message: "quota exceeded"}})

		req := httptest.NewRequest(http.MethodGet, "/api/search?q=breach", nil)
		rec := httptest.NewRecorder()
		h.Search(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("security search reports the original query", func(t *testing.T) {
		h := newSearchHandler(&stubSearch{resp: &intel.GoogleCSEResponse{}})

		req := httptest.NewRequest(http.MethodGet, "/api/search/security?q=acme+corp", nil)
		rec := httptest.NewRecorder()
		h.SecuritySearch(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "acme corp", body["query"])
	})
}
