package hostsearch

import (
	"context"
	"fmt"

	"github.com/isolationbox11-cyber/isolationbox-sub001/internal/entity"
)

// Search types accepted by the alternate-provider endpoint.
const (
	SearchTypeHost = "host"
	SearchTypeWeb  = "web"
)

// AltSearchResult is the alternate-provider envelope
type AltSearchResult struct {
	Success  bool                      `json:"success"`
	Data     []entity.SearchResultItem `json:"data"`
	Message  string                    `json:"message"`
	Metadata AltSearchMetadata         `json:"metadata"`
}

// AltSearchMetadata describes the query that produced the data
type AltSearchMetadata struct {
	Query    string `json:"query"`
	Type     string `json:"type"`
	Page     int    `json:"page"`
	Total    int64  `json:"total"`
	Provider string `json:"provider"`
}

// AccountInfo is the account/quota envelope data
type AccountInfo struct {
	Plan      string `json:"plan"`
	Resources string `json:"resources"`
	Quota     Quota  `json:"quota"`
	Email     string `json:"email"`
}

type Quota struct {
	Used      int    `json:"used"`
	Allowance int    `json:"allowance"`
	ResetsAt  string `json:"resetsAt"`
}

// ValidSearchType reports whether t is an accepted search type.
func ValidSearchType(t string) bool {
	return t == SearchTypeHost || t == SearchTypeWeb
}

// AltSearch runs a host or web search against the alternate provider.
// Web searches are host searches constrained to HTTP services; the
// provider has no separate web index.
func (s *Service) AltSearch(ctx context.Context, query string, page int, searchType string) (*AltSearchResult, error) {
	effective := query
	if searchType == SearchTypeWeb {
		effective = fmt.Sprintf("(%s) and services.service_name=`HTTP`", query)
	}

	resp, err := s.alt.SearchHosts(ctx, effective, page)
	if err != nil {
		return nil, fmt.Errorf("alternate host search: %w", err)
	}

	data := make([]entity.SearchResultItem, 0, len(resp.Result.Hits))
	for _, hit := range resp.Result.Hits {
		port := 0
		if len(hit.Services) > 0 {
			port = hit.Services[0].Port
		}
		preview := ""
		for i, svc := range hit.Services {
			if i > 0 {
				preview += ", "
			}
			preview += fmt.Sprintf("%d/%s %s", svc.Port, svc.Transport, svc.ServiceName)
		}

		data = append(data, entity.SearchResultItem{
			IP:           hit.IP,
			Port:         port,
			Organization: entity.OrDefault(hit.AutonomousSystem.Description, "Unknown"),
			OS:           "Unknown",
			Country:      entity.OrDefault(hit.Location.Country, "Unknown"),
			City:         entity.OrDefault(hit.Location.City, "Unknown"),
			Timestamp:    hit.LastUpdated,
			Preview:      entity.Truncate(preview),
		})
	}

	return &AltSearchResult{
		Success: true,
		Data:    data,
		Message: fmt.Sprintf("%d hosts matched", resp.Result.Total),
		Metadata: AltSearchMetadata{
			Query:    query,
			Type:     searchType,
			Page:     page,
			Total:    resp.Result.Total,
			Provider: "Censys",
		},
	}, nil
}

// AccountStatus fetches plan and quota for the configured credential.
func (s *Service) AccountStatus(ctx context.Context) (*AccountInfo, error) {
	resp, err := s.alt.Account(ctx)
	if err != nil {
		return nil, fmt.Errorf("account status: %w", err)
	}

	return &AccountInfo{
		Plan:      "search",
		Resources: "hosts",
		Quota: Quota{
			Used:      resp.Quota.Used,
			Allowance: resp.Quota.Allowance,
			ResetsAt:  resp.Quota.ResetsAt,
		},
		Email: entity.OrDefault(resp.Email, resp.Login),
	}, nil
}
