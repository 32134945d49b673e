// Package metrics provides Prometheus instrumentation for the portfolio gallery.
//
// All metrics are registered with promauto at package init and are prefixed
// with "portfolio_gallery_". They are served by promhttp on METRICS_PORT.
//
// # Metric Categories
//
// ## HTTP Metrics
//
//   - HTTPRequestsTotal: requests by method, normalized path and status
//   - HTTPRequestDuration: request duration by method and path
//   - HTTPRequestsInFlight: currently processing requests
//
// ## Catalog Metrics
//
//   - ScannerOperationsTotal / ScannerOperationDuration: directory scans
//   - ScannerFilesScanned: directory entries examined
//   - CatalogEntries: images in the current catalog
//   - ScannerWatcherEventsTotal / ScannerWatcherErrors: fsnotify activity
//
// ## Thumbnail Metrics
//
//   - ThumbnailGenerationsTotal: normalizations by status
//   - ThumbnailGenerationDuration: decode, compose and encode phases
//   - ThumbnailCacheHits / ThumbnailCacheMisses / ThumbnailCacheEvictions
//   - ThumbnailCacheInvalidations: entries dropped because the source changed
//   - ThumbnailCacheCount: entries currently cached
//   - ThumbnailCacheBytes: bytes held by cached canvases
//
// ## Gallery Metrics
//
//   - NavigationTotal: next/previous/settings transitions and their result
//   - GalleryRendersTotal: view renders, split into page and empty states
//   - ActiveSessions / SessionsCreatedTotal
//   - WebsocketConnections / WebsocketMessagesTotal
//   - OriginalsServedTotal: zoom (inline) and download (attachment) requests
//
// ## Filesystem Metrics
//
//   - FilesystemRetryAttempts / FilesystemRetrySuccess / FilesystemRetryFailures
//   - FilesystemTransientErrors / FilesystemRetryDuration
//
// # Collector
//
// Gauges that describe totals (catalog size, cache size, sessions) are refreshed
// by a Collector that polls a StatsProvider on an interval:
//
//	c := metrics.NewCollector(metrics.StatsFunc(stats), time.Minute)
//	c.Start()
//	defer c.Stop()
package metrics
