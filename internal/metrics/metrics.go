package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_gallery_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portfolio_gallery_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "portfolio_gallery_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Catalog scanner metrics
var (
	ScannerOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_gallery_scanner_operations_total",
			Help: "Total number of catalog scanner operations",
		},
		[]string{"operation", "status"},
	)

	ScannerOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portfolio_gallery_scanner_operation_duration_seconds",
			Help:    "Catalog scanner operation duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"operation"},
	)

	ScannerFilesScanned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portfolio_gallery_scanner_files_scanned_total",
			Help: "Total number of directory entries examined by the scanner",
		},
	)

	CatalogEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "portfolio_gallery_catalog_entries",
			Help: "Number of images in the current catalog",
		},
	)

	ScannerWatcherEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_gallery_scanner_watcher_events_total",
			Help: "Total number of file system events received by the watcher",
		},
		[]string{"event"},
	)

	ScannerWatcherErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portfolio_gallery_scanner_watcher_errors_total",
			Help: "Total number of file watcher errors",
		},
	)
)

// Thumbnail metrics
var (
	ThumbnailGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_gallery_thumbnail_generations_total",
			Help: "Total number of thumbnail normalizations",
		},
		[]string{"status"},
	)

	ThumbnailGenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portfolio_gallery_thumbnail_generation_duration_seconds",
			Help:    "Thumbnail generation duration in seconds, by phase",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"phase"}, // "decode", "compose", "encode"
	)

	ThumbnailCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portfolio_gallery_thumbnail_cache_hits_total",
			Help: "Total number of thumbnail cache hits",
		},
	)

	ThumbnailCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portfolio_gallery_thumbnail_cache_misses_total",
			Help: "Total number of thumbnail cache misses",
		},
	)

	ThumbnailCacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portfolio_gallery_thumbnail_cache_evictions_total",
			Help: "Total number of thumbnails evicted from the cache to respect its size bound",
		},
	)

	ThumbnailCacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_gallery_thumbnail_cache_invalidations_total",
			Help: "Total number of thumbnails dropped because the source changed",
		},
		[]string{"reason"}, // "modified", "watcher", "purge"
	)

	ThumbnailCacheCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "portfolio_gallery_thumbnail_cache_count",
			Help: "Number of thumbnails in the cache",
		},
	)

	ThumbnailCacheBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "portfolio_gallery_thumbnail_cache_bytes",
			Help: "Bytes held by decoded thumbnail canvases",
		},
	)
)

// Gallery and session metrics
var (
	NavigationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_gallery_navigation_total",
			Help: "Total number of navigation actions",
		},
		[]string{"action", "result"}, // result: "moved", "ignored", "reset"
	)

	GalleryRendersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_gallery_renders_total",
			Help: "Total number of gallery view renders",
		},
		[]string{"state"}, // "page", "empty"
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "portfolio_gallery_active_sessions",
			Help: "Number of active gallery sessions",
		},
	)

	SessionsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portfolio_gallery_sessions_created_total",
			Help: "Total number of gallery sessions created",
		},
	)

	WebsocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "portfolio_gallery_websocket_connections",
			Help: "Number of open websocket navigation connections",
		},
	)

	WebsocketMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_gallery_websocket_messages_total",
			Help: "Total number of websocket navigation messages by action",
		},
		[]string{"action"},
	)

	OriginalsServedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_gallery_originals_served_total",
			Help: "Total number of original images served",
		},
		[]string{"disposition"}, // "inline", "attachment"
	)
)

// Filesystem retry metrics
var (
	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_gallery_filesystem_retry_attempts_total",
			Help: "Total number of filesystem operation retries",
		},
		[]string{"operation"},
	)

	FilesystemRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_gallery_filesystem_retry_success_total",
			Help: "Total number of filesystem operations that succeeded after retrying",
		},
		[]string{"operation"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_gallery_filesystem_retry_failures_total",
			Help: "Total number of filesystem operations that failed after all retries",
		},
		[]string{"operation"},
	)

	FilesystemTransientErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_gallery_filesystem_transient_errors_total",
			Help: "Total number of transient filesystem errors (ESTALE, EIO, EAGAIN)",
		},
		[]string{"operation"},
	)

	FilesystemRetryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portfolio_gallery_filesystem_operation_duration_seconds",
			Help:    "Duration of filesystem operations including retries",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
		},
		[]string{"operation"},
	)
)

// Memory metrics
var (
	MemoryUsageRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "portfolio_gallery_memory_usage_ratio",
			Help: "Heap allocation as a fraction of the Go memory limit",
		},
	)

	MemoryPressureTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portfolio_gallery_memory_pressure_total",
			Help: "Total number of times heap usage crossed the critical mark and caches were released",
		},
	)

	MemoryUnderPressure = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "portfolio_gallery_memory_under_pressure",
			Help: "Whether heap usage is currently above the critical mark (1) or not (0)",
		},
	)
)

// Application info
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "portfolio_gallery_app_info",
			Help: "Application build information",
		},
		[]string{"version", "commit", "go_version"},
	)
)
