// Package main provides the entry point for the portfolio gallery server.
//
// The gallery serves a single page of images from one directory: square
// letterboxed thumbnails in a configurable number of columns, paged with
// Previous/Next controls, each opening the original image with a download
// link.
//
// # Application Lifecycle
//
//  1. Configuration Loading: environment variables and optional CONFIG_FILE
//  2. Memory Limit: GOMEMLIMIT derived from MEMORY_LIMIT and MEMORY_RATIO
//  3. Catalog Scan: the image directory is created if missing and listed
//  4. Component Initialization:
//     - Thumbnail Normalizer with its bounded in-memory cache
//     - Memory Monitor that purges the cache under pressure
//     - Directory Watcher (if enabled) that invalidates catalog and cache
//     - Session Store with periodic expiry
//     - Metrics Collector
//  5. HTTP Server Setup: routes, logging/metrics/compression middleware
//  6. Graceful Shutdown: SIGINT/SIGTERM stop every component in order
//
// # HTTP Server
//
// The application runs two HTTP servers:
//
//  1. Main Server (default port 8080):
//     - Gallery page, navigation and settings forms
//     - JSON gallery API and websocket navigation
//     - Thumbnails, originals and downloads
//     - Health, readiness and version endpoints
//
//  2. Metrics Server (default port 9090, optional):
//     - Prometheus metrics endpoint (/metrics)
//
// # Environment Variables
//
//   - IMAGE_DIR: Directory containing the images (default: images)
//   - PORT: Main HTTP server port (default: 8080)
//   - METRICS_PORT: Metrics server port (default: 9090)
//   - METRICS_ENABLED: Enable metrics server (default: true)
//   - SITE_TITLE: Page heading and title (default: Portfolio)
//   - DEFAULT_COLUMNS, DEFAULT_PAGE_SIZE: Layout for new sessions (3, 12)
//   - THUMBNAIL_BACKGROUND: Letterbox colour (default: #0e1117)
//   - THUMBNAIL_FLATTEN: background or decoder alpha handling
//   - THUMBNAIL_CACHE_ENTRIES, THUMBNAIL_REVALIDATE, THUMBNAIL_SIZE, THUMBNAIL_QUALITY
//   - WATCH_ENABLED: Watch the image directory (default: true)
//   - SESSION_TTL: Idle session lifetime (default: 24h)
//   - MEMORY_LIMIT, MEMORY_RATIO: Container memory budget for GOMEMLIMIT
//   - LOG_LEVEL: Logging level (debug/info/warn/error)
//
// # Graceful Shutdown
//
// On SIGINT or SIGTERM the watcher is stopped first so no invalidations race
// the shutdown, then background tasks, then the HTTP servers with a 30 second
// drain timeout.
package main
