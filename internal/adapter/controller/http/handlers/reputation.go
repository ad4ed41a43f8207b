package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/isolationbox11-cyber/isolationbox-sub001/internal/adapter/external/intel"
	"github.com/isolationbox11-cyber/isolationbox-sub001/internal/entity"
	"github.com/isolationbox11-cyber/isolationbox-sub001/internal/usecase/reputation"
)

// ReputationHandler serves IP reputation lookups. Runs with
// PolicySurface: upstream failures keep their status code.
type ReputationHandler struct {
	service *reputation.Service
	logger  *slog.Logger
}

func NewReputationHandler(service *reputation.Service, logger *slog.Logger) *ReputationHandler {
	return &ReputationHandler{
		service: service,
		logger:  logger,
	}
}

// CheckIP handles GET /api/reputation/{ip} and GET /api/reputation?ip=
func (h *ReputationHandler) CheckIP(w http.ResponseWriter, r *http.Request) {
	ip := chi.URLParam(r, "ip")
	if ip == "" {
		ip = r.URL.Query().Get("ip")
	}

	if !entity.ValidIPv4(ip) {
		JSONResponse(w, http.StatusBadRequest, map[string]interface{}{
			"error": "Invalid IP address format",
		})
		return
	}

	lookup, err := h.service.CheckIP(r.Context(), ip)
	if err != nil {
		h.logger.Error("reputation lookup failed", "ip", ip, "error", err)
		JSONResponse(w, intel.UpstreamStatus(err), map[string]interface{}{
			"error":   "The threat oracle is not answering",
			"details": err.Error(),
			"ip":      ip,
		})
		return
	}

	JSONResponse(w, http.StatusOK, lookup)
}
