// Package middleware provides HTTP middleware for the gallery server.
//
// It includes:
//   - Request logging in W3C Extended Log Format
//   - Prometheus request metrics with bounded path cardinality
//   - gzip compression of HTML and JSON responses
//
// Every wrapper keeps http.Hijacker reachable so the websocket endpoint
// can upgrade through the full chain.
package middleware
