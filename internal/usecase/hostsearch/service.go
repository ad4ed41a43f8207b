package hostsearch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/isolationbox11-cyber/isolationbox-sub001/internal/adapter/external/intel"
	"github.com/isolationbox11-cyber/isolationbox-sub001/internal/entity"
	"github.com/isolationbox11-cyber/isolationbox-sub001/internal/metrics"
)

const (
	defaultLimit = 10
	maxLimit     = 10
)

// DefaultStatsTags are queried when the stats endpoint is called without
// an explicit tag list.
var DefaultStatsTags = []string{"malware", "botnet", "proxy", "camera"}

// HostProvider is the Shodan dependency
type HostProvider interface {
	Search(ctx context.Context, query string, page int, facets string) (*intel.ShodanSearchResponse, error)
	Count(ctx context.Context, query string, facets string) (*intel.ShodanCountResponse, error)
	IsConfigured() bool
}

// AltProvider is the Censys dependency
type AltProvider interface {
	SearchHosts(ctx context.Context, query string, page int) (*intel.CensysSearchResponse, error)
	Account(ctx context.Context) (*intel.CensysAccountResponse, error)
	IsConfigured() bool
}

// Service orchestrates host/service search across both providers.
type Service struct {
	hosts HostProvider
	alt   AltProvider
}

// NewService creates a host search service
func NewService(hosts HostProvider, alt AltProvider) *Service {
	return &Service{hosts: hosts, alt: alt}
}

// SearchResult is the mock-capable host search envelope. Results is
// never nil; Note is set when substitute data was served.
type SearchResult struct {
	Results []entity.SearchResultItem `json:"results"`
	Total   int                       `json:"total"`
	Query   string                    `json:"query"`
	Page    int                       `json:"page"`
	Limit   int                       `json:"limit"`
	Note    string                    `json:"note,omitempty"`
}

// FacetedResult is the paged/faceted host search envelope. Matches and
// Facets are never nil.
type FacetedResult struct {
	Total   int                           `json:"total"`
	Matches []entity.HostMatch            `json:"matches"`
	Facets  map[string][]intel.ShodanFacet `json:"facets"`
}

// Search runs the mock-capable host search. A missing credential or a
// provider failure degrades to the deterministic mock dataset so the
// explorer panel always renders.
func (s *Service) Search(ctx context.Context, query string, limit, page int) *SearchResult {
	if limit <= 0 || limit > maxLimit {
		limit = defaultLimit
	}
	if page <= 0 {
		page = 1
	}

	if !s.hosts.IsConfigured() {
		metrics.FallbackServed.WithLabelValues("hosts_search").Inc()
		results := mockHosts(query, limit)
		return &SearchResult{
			Results: results,
			Total:   len(results),
			Query:   query,
			Page:    page,
			Limit:   limit,
			Note:    "Demo results - configure a Shodan API key for live data",
		}
	}

	resp, err := s.hosts.Search(ctx, query, page, "")
	if err != nil {
		slog.Warn("Host search failed, serving mock dataset", "error", err)
		metrics.FallbackServed.WithLabelValues("hosts_search").Inc()
		results := mockHosts(query, limit)
		return &SearchResult{
			Results: results,
			Total:   len(results),
			Query:   query,
			Page:    page,
			Limit:   limit,
			Note:    "Live search unavailable - showing demo results",
		}
	}

	results := make([]entity.SearchResultItem, 0, limit)
	for _, match := range resp.Matches {
		if len(results) >= limit {
			break
		}
		results = append(results, normalizeMatch(match))
	}

	return &SearchResult{
		Results: results,
		Total:   resp.Total,
		Query:   query,
		Page:    page,
		Limit:   limit,
	}
}

// Query runs the paged, faceted host search. This endpoint surfaces
// provider errors (401 for credential problems, 500 otherwise), so the
// error is returned instead of masked.
func (s *Service) Query(ctx context.Context, q string, page int, facets string) (*FacetedResult, error) {
	resp, err := s.hosts.Search(ctx, q, page, facets)
	if err != nil {
		return nil, fmt.Errorf("faceted host search: %w", err)
	}

	matches := make([]entity.HostMatch, 0, len(resp.Matches))
	for _, match := range resp.Matches {
		matches = append(matches, entity.HostMatch{
			IP:        match.IPStr,
			Port:      match.Port,
			Transport: entity.OrDefault(match.Transport, "tcp"),
			Product:   entity.OrDefault(match.Product, "Unknown"),
			Org:       entity.OrDefault(match.Org, "Unknown"),
			ASN:       entity.OrDefault(match.ASN, "Unknown"),
			Hostnames: nonNilHostnames(match.Hostnames),
			Location: entity.Location{
				Country: entity.OrDefault(match.Location.CountryName, "Unknown"),
				City:    entity.OrDefault(match.Location.City, "Unknown"),
			},
			Data: entity.Truncate(match.Data),
		})
	}

	result := &FacetedResult{
		Total:   resp.Total,
		Matches: matches,
		Facets:  resp.Facets,
	}
	if result.Facets == nil {
		result.Facets = map[string][]intel.ShodanFacet{}
	}
	return result, nil
}

// TagStats fans out one count query per tag. Each branch fails
// independently: a failed sub-query keeps its slot with the defined
// default instead of rejecting the batch or cancelling siblings.
func (s *Service) TagStats(ctx context.Context, tags []string) []entity.TagStat {
	if len(tags) == 0 {
		tags = DefaultStatsTags
	}

	stats := make([]entity.TagStat, len(tags))

	var wg sync.WaitGroup
	for i, tag := range tags {
		wg.Add(1)
		go func(i int, tag string) {
			defer wg.Done()

			query := "tag:" + tag
			stats[i] = entity.TagStat{Query: query, Count: 0, Stats: map[string]int{}}

			resp, err := s.hosts.Count(ctx, query, "country:3")
			if err != nil {
				slog.Warn("Tag stat query failed", "tag", tag, "error", err)
				return
			}

			stats[i].Count = resp.Total
			for _, bucket := range resp.Facets["country"] {
				stats[i].Stats[bucket.Value] = int(bucket.Count)
			}
		}(i, tag)
	}
	wg.Wait()

	return stats
}

func normalizeMatch(match intel.ShodanMatch) entity.SearchResultItem {
	return entity.SearchResultItem{
		IP:           match.IPStr,
		Port:         match.Port,
		Organization: entity.OrDefault(match.Org, "Unknown"),
		OS:           entity.OrDefault(match.OS, "Unknown"),
		Country:      entity.OrDefault(match.Location.CountryName, "Unknown"),
		City:         entity.OrDefault(match.Location.City, "Unknown"),
		Timestamp:    match.Timestamp,
		Preview:      entity.Truncate(match.Data),
	}
}

func nonNilHostnames(hostnames []string) []string {
	if hostnames == nil {
		return []string{}
	}
	return hostnames
}

// matchesQuery is the filter the mock dataset applies: case-insensitive
// substring over the searchable fields.
func matchesQuery(item entity.SearchResultItem, query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	haystack := strings.ToLower(strings.Join([]string{
		item.IP, item.Organization, item.OS, item.Country, item.City, item.Preview,
	}, " "))
	for _, term := range strings.Fields(query) {
		if strings.Contains(haystack, term) {
			return true
		}
	}
	return false
}
