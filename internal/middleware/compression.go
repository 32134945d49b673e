package middleware

import (
	"compress/gzip"
	"io"
	"mime"
	"net/http"
	"slices"
	"strings"
	"sync"
)

// CompressionConfig holds configuration for the compression middleware
type CompressionConfig struct {
	// MinSize is the smallest body, in bytes, worth compressing.
	MinSize int
	// Level is the gzip compression level (gzip.BestSpeed to gzip.BestCompression).
	Level int
	// CompressibleTypes lists media types eligible for compression.
	CompressibleTypes []string
	// SkipPrefixes are request paths that are never compressed, such as
	// image routes whose bodies are already compressed.
	SkipPrefixes []string
}

// DefaultCompressionConfig compresses the page, its assets and JSON, and
// leaves image routes alone.
func DefaultCompressionConfig() CompressionConfig {
	return CompressionConfig{
		MinSize: 1024,
		Level:   gzip.DefaultCompression,
		CompressibleTypes: []string{
			"text/html",
			"text/css",
			"text/plain",
			"text/javascript",
			"application/json",
			"application/javascript",
			"image/svg+xml",
		},
		SkipPrefixes: []string{
			"/api/thumbnail/",
			"/api/file/",
			"/api/download/",
		},
	}
}

// gzipPools holds one writer pool per compression level.
var gzipPools sync.Map

func gzipPool(level int) *sync.Pool {
	if p, ok := gzipPools.Load(level); ok {
		return p.(*sync.Pool)
	}
	p, _ := gzipPools.LoadOrStore(level, &sync.Pool{
		New: func() any {
			w, err := gzip.NewWriterLevel(io.Discard, level)
			if err != nil {
				w = gzip.NewWriter(io.Discard)
			}
			return w
		},
	})
	return p.(*sync.Pool)
}

type compressMode int

const (
	modeUndecided compressMode = iota
	modeGzip
	modePlain
)

// gzipResponseWriter holds back the first MinSize bytes so the decision to
// compress can look at both the body size and the final Content-Type.
type gzipResponseWriter struct {
	http.ResponseWriter
	config  CompressionConfig
	pool    *sync.Pool
	gz      *gzip.Writer
	pending []byte
	status  int
	mode    compressMode
}

func newGzipResponseWriter(w http.ResponseWriter, config CompressionConfig) *gzipResponseWriter {
	return &gzipResponseWriter{
		ResponseWriter: w,
		config:         config,
		pool:           gzipPool(config.Level),
		pending:        make([]byte, 0, config.MinSize+1),
		status:         http.StatusOK,
	}
}

// WriteHeader records the status until the compression decision is made.
func (g *gzipResponseWriter) WriteHeader(status int) {
	if g.mode != modeUndecided {
		return
	}
	g.status = status
	if !bodyAllowed(status) {
		g.decide()
	}
}

func (g *gzipResponseWriter) Write(data []byte) (int, error) {
	switch g.mode {
	case modeGzip:
		return g.gz.Write(data)
	case modePlain:
		return g.ResponseWriter.Write(data)
	}

	g.pending = append(g.pending, data...)
	if len(g.pending) > g.config.MinSize {
		if err := g.decide(); err != nil {
			return 0, err
		}
	}
	return len(data), nil
}

// eligible reports whether a response whose buffered body is size bytes may
// be gzipped.
func (g *gzipResponseWriter) eligible(size int) bool {
	h := g.Header()
	if size < g.config.MinSize || !bodyAllowed(g.status) {
		return false
	}
	if h.Get("Content-Encoding") != "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(h.Get("Content-Type"))
	if err != nil {
		return false
	}
	return slices.Contains(g.config.CompressibleTypes, strings.ToLower(mediaType))
}

// decide commits the headers and flushes anything held back.
func (g *gzipResponseWriter) decide() error {
	if g.mode != modeUndecided {
		return nil
	}

	pending := g.pending
	g.pending = nil

	if !g.eligible(len(pending)) {
		g.mode = modePlain
		g.ResponseWriter.WriteHeader(g.status)
		if len(pending) == 0 {
			return nil
		}
		_, err := g.ResponseWriter.Write(pending)
		return err
	}

	g.mode = modeGzip
	h := g.Header()
	h.Del("Content-Length")
	h.Set("Content-Encoding", "gzip")
	h.Add("Vary", "Accept-Encoding")

	g.gz = g.pool.Get().(*gzip.Writer)
	g.gz.Reset(g.ResponseWriter)
	g.ResponseWriter.WriteHeader(g.status)
	_, err := g.gz.Write(pending)
	return err
}

// Close completes the response and returns the gzip writer to its pool.
func (g *gzipResponseWriter) Close() error {
	err := g.decide()
	if g.gz == nil {
		return err
	}
	if cerr := g.gz.Close(); err == nil {
		err = cerr
	}
	g.pool.Put(g.gz)
	g.gz = nil
	return err
}

// Flush implements http.Flusher
func (g *gzipResponseWriter) Flush() {
	_ = g.decide()
	if g.gz != nil {
		_ = g.gz.Flush()
	}
	if flusher, ok := g.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func bodyAllowed(status int) bool {
	return status >= 200 && status != http.StatusNoContent && status != http.StatusNotModified
}

// skipCompression reports requests whose responses must pass through as is.
func skipCompression(r *http.Request, config CompressionConfig) bool {
	switch {
	case !acceptsGzip(r.Header.Get("Accept-Encoding")):
		return true
	case r.Method == http.MethodHead:
		return true
	case r.Header.Get("Upgrade") != "":
		// websocket handshakes need the raw connection
		return true
	case r.Header.Get("Range") != "":
		// byte ranges of originals must keep their offsets
		return true
	}
	for _, prefix := range config.SkipPrefixes {
		if strings.HasPrefix(r.URL.Path, prefix) {
			return true
		}
	}
	return false
}

// acceptsGzip parses an Accept-Encoding header, honouring q=0.
func acceptsGzip(header string) bool {
	for _, part := range strings.Split(header, ",") {
		coding, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if !strings.EqualFold(strings.TrimSpace(coding), "gzip") && strings.TrimSpace(coding) != "*" {
			continue
		}
		q := strings.ReplaceAll(strings.TrimSpace(params), " ", "")
		return q != "q=0" && q != "q=0.0" && q != "q=0.00" && q != "q=0.000"
	}
	return false
}

// Compression returns a middleware that gzips text responses for clients
// that accept it.
func Compression(config CompressionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skipCompression(r, config) {
				next.ServeHTTP(w, r)
				return
			}

			gzw := newGzipResponseWriter(w, config)
			defer gzw.Close()
			next.ServeHTTP(gzw, r)
		})
	}
}
