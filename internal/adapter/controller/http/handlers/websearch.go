package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/isolationbox11-cyber/isolationbox-sub001/internal/adapter/external/intel"
	"github.com/isolationbox11-cyber/isolationbox-sub001/internal/usecase/websearch"
)

// WebSearchHandler serves the web search endpoints. These fail closed:
// an unconfigured or failing provider surfaces as an error instead of
// fabricated search results.
type WebSearchHandler struct {
	service *websearch.Service
	logger  *slog.Logger
}

func NewWebSearchHandler(service *websearch.Service, logger *slog.Logger) *WebSearchHandler {
	return &WebSearchHandler{service: service, logger: logger}
}

// webSearchRequest is the POST body for both search routes
type webSearchRequest struct {
	Query        string `json:"query"`
	Start        int    `json:"start"`
	Num          int    `json:"num"`
	Site         string `json:"site"`
	DateRestrict string `json:"dateRestrict"`
	Country      string `json:"country"`
	Language     string `json:"language"`
}

// Search handles GET and POST /api/search
func (h *WebSearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query, opts, ok := h.parseRequest(w, r)
	if !ok {
		return
	}

	result, err := h.service.Search(r.Context(), query, opts)
	if err != nil {
		h.respondError(w, query, err)
		return
	}
	JSONResponse(w, http.StatusOK, result)
}

// SecuritySearch handles GET and POST /api/search/security
func (h *WebSearchHandler) SecuritySearch(w http.ResponseWriter, r *http.Request) {
	query, opts, ok := h.parseRequest(w, r)
	if !ok {
		return
	}

	result, err := h.service.SecuritySearch(r.Context(), query, opts)
	if err != nil {
		h.respondError(w, query, err)
		return
	}
	JSONResponse(w, http.StatusOK, result)
}

// parseRequest pulls the query and options from either a GET query
// string or a POST JSON body. Writes a 400 and returns ok=false when
// the query is missing.
func (h *WebSearchHandler) parseRequest(w http.ResponseWriter, r *http.Request) (string, intel.SearchOptions, bool) {
	var query string
	var opts intel.SearchOptions

	if r.Method == http.MethodPost {
		var req webSearchRequest
		if err := DecodeJSON(r, &req); err != nil {
			ErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
			return "", opts, false
		}
		query = req.Query
		opts = intel.SearchOptions{
			Start:        req.Start,
			Num:          req.Num,
			Site:         req.Site,
			DateRestrict: req.DateRestrict,
			Country:      req.Country,
			Language:     req.Language,
		}
	} else {
		q := r.URL.Query()
		query = q.Get("q")
		if query == "" {
			query = q.Get("query")
		}
		opts = intel.SearchOptions{
			Start:        queryInt(r, "start", 0),
			Num:          queryInt(r, "num", 0),
			Site:         q.Get("site"),
			DateRestrict: q.Get("dateRestrict"),
			Country:      q.Get("country"),
			Language:     q.Get("language"),
		}
	}

	if strings.TrimSpace(query) == "" {
		JSONResponse(w, http.StatusBadRequest, map[string]interface{}{
			"error": "Query is required",
		})
		return "", opts, false
	}
	return query, opts, true
}

func (h *WebSearchHandler) respondError(w http.ResponseWriter, query string, err error) {
	h.logger.Error("web search failed", "query", query, "error", err)
	ErrorResponse(w, http.StatusInternalServerError, "Web search failed", err)
}
