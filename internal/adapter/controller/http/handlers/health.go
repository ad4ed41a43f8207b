package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/isolationbox11-cyber/isolationbox-sub001/internal/config"
)

var startTime = time.Now()

// HealthResponse represents the health check response
type HealthResponse struct {
	Status      string          `json:"status"`
	Version     string          `json:"version"`
	Uptime      string          `json:"uptime"`
	Environment string          `json:"environment"`
	Timestamp   time.Time       `json:"timestamp"`
	Providers   map[string]bool `json:"providers"`
	System      SystemInfo      `json:"system"`
}

// SystemInfo represents system information
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumCPU       int    `json:"num_cpu"`
	NumGoroutine int    `json:"num_goroutine"`
	MemAllocMB   uint64 `json:"mem_alloc_mb"`
}

// HealthCheck returns a handler for health check endpoint. The service
// is healthy even with zero provider keys; the providers map just tells
// operators which panels will serve live data.
func HealthCheck(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		providers := map[string]bool{
			"greynoise": cfg.GreyNoise.APIKey != "",
			"otx":       cfg.OTX.APIKey != "",
			"shodan":    cfg.Shodan.APIKey != "",
			"censys":    cfg.Censys.APIID != "" && cfg.Censys.APISecret != "",
			"search":    cfg.Search.Key != "" && cfg.Search.EngineID != "",
		}

		response := HealthResponse{
			Status:      "healthy",
			Version:     "1.0.0",
			Uptime:      time.Since(startTime).Round(time.Second).String(),
			Environment: cfg.App.Env,
			Timestamp:   time.Now().UTC(),
			Providers:   providers,
			System: SystemInfo{
				GoVersion:    runtime.Version(),
				NumCPU:       runtime.NumCPU(),
				NumGoroutine: runtime.NumGoroutine(),
				MemAllocMB:   m.Alloc / 1024 / 1024,
			},
		}

		JSONResponse(w, http.StatusOK, response)
	}
}
