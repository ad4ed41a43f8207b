package websearch

import (
	"context"
	"fmt"

	"github.com/isolationbox11-cyber/isolationbox-sub001/internal/adapter/external/intel"
	"github.com/isolationbox11-cyber/isolationbox-sub001/internal/entity"
)

const maxItems = 10

// securityAugment is appended to every security-filtered query so plain
// searches skew toward threat reporting.
const securityAugment = "(cybersecurity OR vulnerability OR \"data breach\" OR exploit OR CVE)"

// Provider is the web search dependency
type Provider interface {
	Search(ctx context.Context, query string, opts intel.SearchOptions) (*intel.GoogleCSEResponse, error)
	IsConfigured() bool
}

// Service runs generic and security-filtered web searches. Unlike every
// other endpoint, search has no fallback: a missing credential or
// provider failure surfaces to the caller.
type Service struct {
	provider Provider
}

// NewService creates a web search service
func NewService(provider Provider) *Service {
	return &Service{provider: provider}
}

// Result is the normalized search envelope. Items is never nil.
type Result struct {
	Query        string  `json:"query"`
	TotalResults string  `json:"totalResults"`
	SearchTime   float64 `json:"searchTime"`
	Items        []Item  `json:"items"`
}

// Item is one allow-listed search hit
type Item struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	DisplayLink string `json:"displayLink"`
	Snippet     string `json:"snippet"`
}

// Search runs a generic web search.
func (s *Service) Search(ctx context.Context, query string, opts intel.SearchOptions) (*Result, error) {
	return s.run(ctx, query, query, opts)
}

// SecuritySearch runs a web search with the query auto-augmented with
// security keywords. The reported query stays the caller's original.
func (s *Service) SecuritySearch(ctx context.Context, query string, opts intel.SearchOptions) (*Result, error) {
	augmented := fmt.Sprintf("%s %s", query, securityAugment)
	return s.run(ctx, augmented, query, opts)
}

func (s *Service) run(ctx context.Context, effective, reported string, opts intel.SearchOptions) (*Result, error) {
	resp, err := s.provider.Search(ctx, effective, opts)
	if err != nil {
		return nil, fmt.Errorf("web search: %w", err)
	}

	items := make([]Item, 0, maxItems)
	for _, raw := range resp.Items {
		if len(items) >= maxItems {
			break
		}
		items = append(items, Item{
			Title:       entity.TruncateN(raw.Title, 120),
			Link:        raw.Link,
			DisplayLink: raw.DisplayLink,
			Snippet:     entity.Truncate(raw.Snippet),
		})
	}

	return &Result{
		Query:        reported,
		TotalResults: entity.OrDefault(resp.SearchInformation.TotalResults, "0"),
		SearchTime:   resp.SearchInformation.SearchTime,
		Items:        items,
	}, nil
}
