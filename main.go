package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio-gallery/internal/gallery"
	"portfolio-gallery/internal/handlers"
	"portfolio-gallery/internal/logging"
	"portfolio-gallery/internal/media"
	"portfolio-gallery/internal/memory"
	"portfolio-gallery/internal/metrics"
	"portfolio-gallery/internal/middleware"
	"portfolio-gallery/internal/startup"

	"github.com/gorilla/mux"
)

const (
	sessionCleanupInterval = 10 * time.Minute
	metricsInterval        = 30 * time.Second
)

func main() {
	startTime := time.Now()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	memory.ApplyLimit(config.MemoryLimit, config.MemoryRatio)

	metrics.InitializeMetrics()
	metrics.AppInfo.WithLabelValues(startup.Version, startup.Commit, startup.GoVersion).Set(1)

	// Initial catalog scan
	scanner := media.NewScanner(config.ImageDir)
	scanStart := time.Now()
	cat, err := scanner.Scan(context.Background())
	if err != nil {
		startup.LogFatal("Failed to scan image directory: %v", err)
	}
	startup.LogGalleryInit(len(cat), time.Since(scanStart))

	normalizer, err := media.NewNormalizer(config.Thumbnails)
	if err != nil {
		startup.LogFatal("Failed to initialize thumbnails: %v", err)
	}

	// Release cached thumbnails when the heap nears the memory limit
	monitor := memory.NewMonitor(memory.DefaultMonitorConfig(), normalizer.Purge)
	monitor.Start()

	// Directory watcher keeps the catalog and thumbnail cache current
	var watcher *media.Watcher
	if config.WatchEnabled {
		watcher, err = media.NewWatcher(scanner, normalizer)
		if err == nil {
			watcher.Start()
		}
	}
	startup.LogWatcherInit(config.WatchEnabled, err)

	sessions := gallery.NewSessionStore(config.SessionTTL, config.DefaultSettings)
	stopCleanup := make(chan struct{})
	go cleanSessions(sessions, stopCleanup)

	collector := metrics.NewCollector(metrics.StatsFunc(func() metrics.Stats {
		return metrics.Stats{
			CatalogEntries:   scanner.Len(),
			CachedThumbnails: normalizer.Len(),
			CachedBytes:      normalizer.CachedBytes(),
			ActiveSessions:   sessions.Len(),
		}
	}), metricsInterval)
	collector.Start()

	// Initialize handlers
	h := handlers.New(scanner, normalizer, sessions, config)

	// Setup router
	router := setupRouter(h)

	// Log routes dynamically
	startup.LogHTTPRoutes(router, config.LogStaticFiles, config.LogHealthChecks)

	// Apply compression, metrics and logging middleware, outermost last
	handler := middleware.Compression(middleware.DefaultCompressionConfig())(router)
	if config.MetricsEnabled {
		handler = middleware.Metrics(middleware.DefaultMetricsConfig())(handler)
	}
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = config.LogStaticFiles
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	handler = middleware.Logger(loggingConfig)(handler)

	// Create server
	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	var metricsSrv *http.Server
	if config.MetricsEnabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", h.MetricsHandler())
		metricsSrv = &http.Server{
			Addr:              ":" + config.MetricsPort,
			Handler:           metricsMux,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	// Start graceful shutdown handler
	go handleShutdown(srv, metricsSrv, watcher, monitor, collector, stopCleanup)

	// Start server
	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		startup.LogFatal("Server error: %v", err)
	}
}

func setupRouter(h *handlers.Handlers) *mux.Router {
	r := mux.NewRouter()

	// Health check and version routes
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	// Gallery page and its forms
	r.HandleFunc("/", h.GalleryPage).Methods("GET")
	r.HandleFunc("/nav/{action}", h.NavigatePage).Methods("POST")
	r.HandleFunc("/settings", h.SettingsPage).Methods("POST")

	// JSON API
	r.HandleFunc("/api/gallery", h.GetGallery).Methods("GET")
	r.HandleFunc("/api/gallery/settings", h.UpdateSettings).Methods("PUT")
	r.HandleFunc("/api/gallery/{action}", h.NavigateGallery).Methods("POST")
	r.HandleFunc("/api/catalog", h.GetCatalog).Methods("GET")
	r.HandleFunc("/api/settings/options", h.GetSettingsOptions).Methods("GET")
	r.HandleFunc("/api/rescan", h.TriggerRescan).Methods("POST")
	r.HandleFunc("/api/ws", h.GalleryWebSocket).Methods("GET")

	// Images, resolved against the catalog
	r.HandleFunc("/api/thumbnail/{name}", h.GetThumbnail).Methods("GET")
	r.HandleFunc("/api/file/{name}", h.GetFile).Methods("GET")
	r.HandleFunc("/api/download/{name}", h.DownloadFile).Methods("GET")

	// Static files
	r.PathPrefix("/static/").Handler(h.StaticFiles())

	return r
}

func cleanSessions(sessions *gallery.SessionStore, stop <-chan struct{}) {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sessions.Cleanup()
		case <-stop:
			return
		}
	}
}

func handleShutdown(srv, metricsSrv *http.Server, watcher *media.Watcher, monitor *memory.Monitor, collector *metrics.Collector, stopCleanup chan struct{}) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if watcher != nil {
		startup.LogShutdownStep("Stopping directory watcher")
		if err := watcher.Stop(); err != nil {
			logging.Warn("Watcher shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Directory watcher stopped")
		}
	}

	startup.LogShutdownStep("Stopping background tasks")
	close(stopCleanup)
	collector.Stop()
	monitor.Stop()
	startup.LogShutdownStepComplete("Background tasks stopped")

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	if metricsSrv != nil {
		startup.LogShutdownStep("Shutting down metrics server")
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	startup.LogShutdownComplete()
}
