// Package handlers provides the HTTP surface of the gallery.
//
// It includes handlers for:
//   - The server-rendered gallery page, its navigation and settings forms
//   - The JSON gallery API and the websocket navigation channel
//   - Thumbnails, original images and downloads, resolved through the catalog
//   - Health checks, version information and Prometheus metrics
//
// Each viewer's page and layout live in a gallery.SessionStore keyed by the
// gallery_session cookie.
package handlers
