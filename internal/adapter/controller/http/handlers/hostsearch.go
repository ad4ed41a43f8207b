package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/isolationbox11-cyber/isolationbox-sub001/internal/adapter/external/intel"
	"github.com/isolationbox11-cyber/isolationbox-sub001/internal/usecase/hostsearch"
)

// HostSearchHandler serves the internet-wide host search endpoints.
// The basic search masks provider failure behind the demo dataset; the
// faceted query answers 401 for credential failures and 500 for
// anything else, and the alternate-provider routes answer 500.
type HostSearchHandler struct {
	service *hostsearch.Service
	logger  *slog.Logger
}

func NewHostSearchHandler(service *hostsearch.Service, logger *slog.Logger) *HostSearchHandler {
	return &HostSearchHandler{service: service, logger: logger}
}

// hostSearchRequest is the POST /api/hosts/search body
type hostSearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
	Page  int    `json:"page"`
}

// Search handles POST /api/hosts/search
func (h *HostSearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req hostSearchRequest
	if err := DecodeJSON(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		JSONResponse(w, http.StatusBadRequest, map[string]interface{}{
			"error": "Query is required",
		})
		return
	}

	JSONResponse(w, http.StatusOK, h.service.Search(r.Context(), req.Query, req.Limit, req.Page))
}

// Query handles GET /api/hosts/query with optional facets
func (h *HostSearchHandler) Query(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if strings.TrimSpace(q) == "" {
		JSONResponse(w, http.StatusBadRequest, map[string]interface{}{
			"error": "Query parameter q is required",
		})
		return
	}
	page := queryInt(r, "page", 1)
	facets := r.URL.Query().Get("facets")

	result, err := h.service.Query(r.Context(), q, page, facets)
	if err != nil {
		h.logger.Error("faceted host query failed", "query", q, "error", err)
		if intel.IsCredentialError(err) {
			ErrorResponse(w, http.StatusUnauthorized, "Search provider rejected the API key", err)
			return
		}
		ErrorResponse(w, http.StatusInternalServerError, "Host query failed", err)
		return
	}

	JSONResponse(w, http.StatusOK, result)
}

// Stats handles GET /api/hosts/stats
func (h *HostSearchHandler) Stats(w http.ResponseWriter, r *http.Request) {
	tags := hostsearch.DefaultStatsTags
	if raw := r.URL.Query().Get("tags"); raw != "" {
		tags = splitTags(raw)
	}

	JSONResponse(w, http.StatusOK, map[string]interface{}{
		"stats": h.service.TagStats(r.Context(), tags),
	})
}

// altSearchRequest is the POST /api/censys/search body
type altSearchRequest struct {
	Query string `json:"query"`
	Page  int    `json:"page"`
	Type  string `json:"type"`
}

// AltSearch handles POST /api/censys/search
func (h *HostSearchHandler) AltSearch(w http.ResponseWriter, r *http.Request) {
	var req altSearchRequest
	if err := DecodeJSON(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		JSONResponse(w, http.StatusBadRequest, map[string]interface{}{
			"error": "Query is required",
		})
		return
	}
	if req.Type == "" {
		req.Type = hostsearch.SearchTypeHost
	}
	if !hostsearch.ValidSearchType(req.Type) {
		JSONResponse(w, http.StatusBadRequest, map[string]interface{}{
			"error": "Invalid search type, expected host or web",
		})
		return
	}

	result, err := h.service.AltSearch(r.Context(), req.Query, req.Page, req.Type)
	if err != nil {
		h.logger.Error("alternate host search failed", "query", req.Query, "error", err)
		ErrorResponse(w, http.StatusInternalServerError, "Alternate search failed", err)
		return
	}

	JSONResponse(w, http.StatusOK, result)
}

// Account handles GET /api/censys/account
func (h *HostSearchHandler) Account(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.AccountStatus(r.Context())
	if err != nil {
		h.logger.Error("account status fetch failed", "error", err)
		ErrorResponse(w, http.StatusInternalServerError, "Account status unavailable", err)
		return
	}

	JSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    info,
	})
}

// splitTags parses a comma-separated tag list, dropping empty entries.
func splitTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	if len(tags) == 0 {
		return hostsearch.DefaultStatsTags
	}
	return tags
}
