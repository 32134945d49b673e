package middleware

import (
	"bufio"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"portfolio-gallery/internal/logging"
)

// accessFields is the W3C #Fields directive describing each access line.
const accessFields = "date time c-ip cs-method cs-uri-stem cs-uri-query sc-status sc-bytes time-taken sc(Content-Encoding) x-session cs(User-Agent) cs(Referer)"

// sessionIDPrefix is how much of a session id an access line shows.
const sessionIDPrefix = 8

// accessRecorder captures the status and body size of a response.
type accessRecorder struct {
	http.ResponseWriter
	status      int
	bytes       int64
	wroteHeader bool
}

func newAccessRecorder(w http.ResponseWriter) *accessRecorder {
	return &accessRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (rw *accessRecorder) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.status = code
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *accessRecorder) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += int64(n)
	return n, err
}

func (rw *accessRecorder) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Hijack lets the websocket upgrader take over the connection.
func (rw *accessRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	rw.wroteHeader = true
	rw.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (rw *accessRecorder) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// LoggingConfig holds configuration for the logging middleware
type LoggingConfig struct {
	SkipPaths []string
	// StaticPrefix is where page assets are served. Requests below it are
	// only logged with LogStaticFiles.
	StaticPrefix    string
	LogStaticFiles  bool
	LogHealthChecks bool
	// SessionCookie names the cookie whose value identifies a viewer.
	SessionCookie string
}

// DefaultLoggingConfig returns the configuration used by the server.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		StaticPrefix:    "/static/",
		LogHealthChecks: true,
		SessionCookie:   "gallery_session",
	}
}

var healthCheckPaths = map[string]bool{
	"/health":  true,
	"/healthz": true,
	"/livez":   true,
	"/readyz":  true,
}

// Logger returns middleware writing one W3C Extended Log Format line per request.
func Logger(config LoggingConfig) func(http.Handler) http.Handler {
	var header sync.Once

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if shouldSkip(r.URL.Path, config) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := newAccessRecorder(w)
			next.ServeHTTP(rec, r)

			header.Do(func() {
				logging.Access("#Fields: " + accessFields)
			})
			logging.Access(accessLine(r, rec, config, start))
		})
	}
}

// accessLine formats one request. Every request-controlled value passes
// through field, which strips control characters and fills blanks with "-".
func accessLine(r *http.Request, rec *accessRecorder, config LoggingConfig, start time.Time) string {
	now := time.Now().UTC()

	encoding := rec.Header().Get("Content-Encoding")

	fields := []string{
		now.Format("2006-01-02"),
		now.Format("15:04:05"),
		field(clientIP(r)),
		field(r.Method),
		field(r.URL.Path),
		field(r.URL.RawQuery),
		strconv.Itoa(rec.status),
		strconv.FormatInt(rec.bytes, 10),
		strconv.FormatInt(time.Since(start).Milliseconds(), 10),
		field(encoding),
		field(sessionID(r, config.SessionCookie)),
		escapeW3CField(field(r.UserAgent())),
		field(r.Referer()),
	}
	return strings.Join(fields, " ")
}

func field(s string) string {
	s = sanitizeLogField(s)
	if s == "" {
		return "-"
	}
	return s
}

// sessionID returns the start of the viewer's session id, if any.
func sessionID(r *http.Request, cookie string) string {
	if cookie == "" {
		return ""
	}
	c, err := r.Cookie(cookie)
	if err != nil {
		return ""
	}
	id := c.Value
	if len(id) > sessionIDPrefix {
		id = id[:sessionIDPrefix]
	}
	return id
}

// sanitizeLogField drops control characters that could forge log lines or
// inject terminal escapes. Line breaks become spaces; tabs are kept.
func sanitizeLogField(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\r':
			return ' '
		case r == '\t':
			return r
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
}

func shouldSkip(path string, config LoggingConfig) bool {
	for _, prefix := range config.SkipPaths {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	if !config.LogHealthChecks && healthCheckPaths[path] {
		return true
	}

	if !config.LogStaticFiles {
		if path == "/favicon.ico" {
			return true
		}
		if config.StaticPrefix != "" && strings.HasPrefix(path, config.StaticPrefix) {
			return true
		}
	}

	return false
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the
// peer address.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// escapeW3CField quotes values containing spaces, doubling inner quotes.
func escapeW3CField(s string) string {
	if !strings.ContainsAny(s, " \t\"") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
