package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/isolationbox11-cyber/isolationbox-sub001/internal/adapter/controller/http/handlers"
	"github.com/isolationbox11-cyber/isolationbox-sub001/internal/adapter/controller/http/middleware"
	"github.com/isolationbox11-cyber/isolationbox-sub001/internal/adapter/controller/ws"
	"github.com/isolationbox11-cyber/isolationbox-sub001/internal/adapter/external/intel"
	"github.com/isolationbox11-cyber/isolationbox-sub001/internal/config"
	"github.com/isolationbox11-cyber/isolationbox-sub001/internal/usecase/feeds"
	"github.com/isolationbox11-cyber/isolationbox-sub001/internal/usecase/hostsearch"
	"github.com/isolationbox11-cyber/isolationbox-sub001/internal/usecase/reputation"
	"github.com/isolationbox11-cyber/isolationbox-sub001/internal/usecase/websearch"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup logger
	logger := config.SetupLogger(cfg)
	logger.Info("Starting Isolation Box API",
		"env", cfg.App.Env,
		"port", cfg.App.Port,
	)

	// Provider clients
	greynoise := intel.NewGreyNoiseClient(intel.GreyNoiseConfig{
		APIKey:  cfg.GreyNoise.APIKey,
		Timeout: cfg.GreyNoise.Timeout,
	})
	otx := intel.NewOTXClient(intel.OTXConfig{
		APIKey:  cfg.OTX.APIKey,
		Timeout: cfg.OTX.Timeout,
	})
	shodan := intel.NewShodanClient(intel.ShodanConfig{
		APIKey:  cfg.Shodan.APIKey,
		Timeout: cfg.Shodan.Timeout,
	})
	censys := intel.NewCensysClient(intel.CensysConfig{
		APIID:     cfg.Censys.APIID,
		APISecret: cfg.Censys.APISecret,
		Timeout:   cfg.Censys.Timeout,
	})
	cse := intel.NewGoogleCSEClient(intel.GoogleCSEConfig{
		APIKey:   cfg.Search.Key,
		EngineID: cfg.Search.EngineID,
		Timeout:  cfg.Search.Timeout,
	})
	urlhaus := intel.NewURLhausClient(intel.URLhausConfig{Timeout: cfg.OTX.Timeout})
	kev := intel.NewKEVClient(intel.KEVConfig{Timeout: cfg.OTX.Timeout})

	// Use cases
	reputationSvc := reputation.NewService(greynoise)
	feedsSvc := feeds.NewService(otx, urlhaus, kev, cfg.Feeds.CacheTTL)
	hostsSvc := hostsearch.NewService(shodan, censys)
	searchSvc := websearch.NewService(cse)

	// Handlers
	reputationH := handlers.NewReputationHandler(reputationSvc, logger)
	feedsH := handlers.NewFeedsHandler(feedsSvc, logger)
	hostsH := handlers.NewHostSearchHandler(hostsSvc, logger)
	searchH := handlers.NewWebSearchHandler(searchSvc, logger)

	// WebSocket hub with a background feed refresher
	hub := ws.NewHub(logger)
	go hub.Run()
	go refreshFeeds(hub, feedsSvc, cfg.Feeds.RefreshInterval, logger)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Rate limiting
	r.Use(httprate.LimitByIP(100, time.Minute))

	// Health and metrics
	r.Get("/health", handlers.HealthCheck(cfg))
	r.Handle("/metrics", promhttp.Handler())

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/reputation", reputationH.CheckIP)
		r.Get("/reputation/{ip}", reputationH.CheckIP)

		r.Route("/threats", func(r chi.Router) {
			r.Get("/recent", feedsH.RecentThreats)
			r.Get("/pulses", feedsH.Pulses)
		})
		r.Get("/indicators", feedsH.Indicators)

		r.Route("/intel", func(r chi.Router) {
			r.Get("/threats", feedsH.ThreatList)
			r.Get("/vulnerabilities", feedsH.VulnList)
		})

		r.Route("/hosts", func(r chi.Router) {
			r.Post("/search", hostsH.Search)
			r.Get("/query", hostsH.Query)
			r.Get("/stats", hostsH.Stats)
		})

		r.Route("/censys", func(r chi.Router) {
			r.Post("/search", hostsH.AltSearch)
			r.Get("/account", hostsH.Account)
		})

		r.Route("/search", func(r chi.Router) {
			r.Get("/", searchH.Search)
			r.Post("/", searchH.Search)
			r.Get("/security", searchH.SecuritySearch)
			r.Post("/security", searchH.SecuritySearch)
		})
	})

	// WebSocket endpoint
	r.Get("/ws", hub.ServeWS)

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server stopped")
}

// refreshFeeds pushes the recent-threats feed and the vulnerability list
// to connected dashboards on a fixed interval. Fallback data is pushed
// like live data, so the dashboard stays populated even with no keys
// configured.
func refreshFeeds(hub *ws.Hub, svc *feeds.Service, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		if hub.ClientCount() == 0 {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		feed := svc.RecentThreats(ctx)
		vulns, vulnErr := svc.VulnList(ctx)
		cancel()

		hub.BroadcastToTopic("threats", "feed_refresh", feed)
		if vulnErr != nil {
			logger.Debug("vulnerability refresh skipped", "error", vulnErr)
		} else {
			hub.BroadcastToTopic("vulnerabilities", "vuln_refresh", map[string]interface{}{
				"vulnerabilities": vulns,
			})
		}
		logger.Debug("feed refresh broadcast", "threats", len(feed.Threats), "clients", hub.ClientCount())
	}
}
