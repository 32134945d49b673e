// Package startup handles application initialization, configuration loading,
// and startup/shutdown logging.
//
// # Configuration
//
// Configuration is resolved by viper from, in increasing priority: built-in
// defaults, the YAML/TOML/JSON file named by CONFIG_FILE, and environment
// variables. Invalid values are logged and replaced by their defaults.
//
//   - IMAGE_DIR: Directory of gallery images, created when missing (default: images)
//   - PORT: HTTP server port (default: 8080)
//   - METRICS_PORT: Prometheus metrics server port (default: 9090)
//   - METRICS_ENABLED: Enable or disable metrics server (default: true)
//   - SITE_TITLE: Heading shown above the gallery (default: Portfolio)
//   - DEFAULT_COLUMNS: Grid columns for new sessions, 1-5 (default: 3)
//   - DEFAULT_PAGE_SIZE: Images per page for new sessions, one of 3,6,9,12,15,20,50 (default: 12)
//   - THUMBNAIL_BACKGROUND: Letterbox canvas colour (default: #0e1117)
//   - THUMBNAIL_FLATTEN: background or decoder (default: background)
//   - THUMBNAIL_CACHE_ENTRIES: Thumbnails kept in memory (default: 256)
//   - THUMBNAIL_REVALIDATE: Re-normalize sources whose mtime or size changed (default: true)
//   - THUMBNAIL_SIZE: Maximum side of served thumbnails, 0 for full size (default: 0)
//   - THUMBNAIL_QUALITY: JPEG quality of served thumbnails (default: 85)
//   - WATCH_ENABLED: Watch the image directory for changes (default: true)
//   - SESSION_TTL: Idle time before a viewer session is dropped (default: 24h)
//   - MEMORY_LIMIT: Container memory budget in bytes, 0 when unknown (default: 0)
//   - MEMORY_RATIO: Share of MEMORY_LIMIT given to GOMEMLIMIT (default: 0.85)
//   - LOG_LEVEL: Logging level - debug, info, warn, error (default: info)
//   - LOG_FORMAT: text or json (default: text)
//   - LOG_STATIC_FILES: Log static file requests (default: false)
//   - LOG_HEALTH_CHECKS: Log health check requests (default: true)
//
// [NewViper] and [FromViper] are exported so the galleryctl command can bind
// its own flags on top of the same keys.
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo]:
//   - Version: Application version
//   - Commit: Git commit hash
//   - BuildTime: Build timestamp
//   - GoVersion: Go compiler version
//
// # Lifecycle Logging
//
//   - [LogGalleryInit]: Initial catalog scan
//   - [LogWatcherInit]: Directory watcher status
//   - [LogHTTPRoutes]: Registered HTTP routes (debug level)
//   - [LogServerStarted]: Server endpoints and startup duration
//   - [LogShutdownInitiated]: Graceful shutdown start
//   - [LogShutdownComplete]: Shutdown completion
package startup
