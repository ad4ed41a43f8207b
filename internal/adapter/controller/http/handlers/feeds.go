package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/isolationbox11-cyber/isolationbox-sub001/internal/usecase/feeds"
)

// FeedsHandler serves the threat feed endpoints. The recent/pulses/
// indicators routes run with PolicyMask (the service already degrades
// to fallback data, so they always answer 200); the intel list routes
// run with PolicyEmpty.
type FeedsHandler struct {
	service    *feeds.Service
	listPolicy Policy
	logger     *slog.Logger
}

func NewFeedsHandler(service *feeds.Service, logger *slog.Logger) *FeedsHandler {
	return &FeedsHandler{
		service:    service,
		listPolicy: PolicyEmpty,
		logger:     logger,
	}
}

// RecentThreats handles GET /api/threats/recent
func (h *FeedsHandler) RecentThreats(w http.ResponseWriter, r *http.Request) {
	JSONResponse(w, http.StatusOK, h.service.RecentThreats(r.Context()))
}

// Pulses handles GET /api/threats/pulses
func (h *FeedsHandler) Pulses(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 10)
	JSONResponse(w, http.StatusOK, h.service.Pulses(r.Context(), limit))
}

// Indicators handles GET /api/indicators
func (h *FeedsHandler) Indicators(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 0)
	JSONResponse(w, http.StatusOK, h.service.Indicators(r.Context(), limit))
}

// ThreatList handles GET /api/intel/threats
func (h *FeedsHandler) ThreatList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ThreatList(r.Context())
	if err != nil {
		h.logger.Error("threat list fetch failed", "error", err)
		h.writeListFailure(w, []feeds.ThreatListEntry{})
		return
	}
	JSONResponse(w, http.StatusOK, listEnvelope{
		Success:   true,
		Data:      list,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// VulnList handles GET /api/intel/vulnerabilities
func (h *FeedsHandler) VulnList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.VulnList(r.Context())
	if err != nil {
		h.logger.Error("vulnerability list fetch failed", "error", err)
		h.writeListFailure(w, []feeds.VulnListEntry{})
		return
	}
	JSONResponse(w, http.StatusOK, listEnvelope{
		Success:   true,
		Data:      list,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// listEnvelope wraps the intel list payloads
type listEnvelope struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
}

func (h *FeedsHandler) writeListFailure(w http.ResponseWriter, empty interface{}) {
	status := http.StatusInternalServerError
	if h.listPolicy == PolicyMask {
		status = http.StatusOK
	}
	JSONResponse(w, status, listEnvelope{
		Success:   false,
		Data:      empty,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// queryInt reads an integer query parameter, falling back to def on
// absent or malformed input.
func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
