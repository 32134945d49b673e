package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"portfolio-gallery/internal/gallery"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wsReply struct {
	gallery.View
	Error string `json:"error"`
}

func dialGallery(t *testing.T, h *Handlers, header http.Header) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(testRouter(h))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readReply(t *testing.T, conn *websocket.Conn) wsReply {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var reply wsReply
	require.NoError(t, conn.ReadJSON(&reply))
	return reply
}

func TestGalleryWebSocketNavigation(t *testing.T) {
	h, _ := newTestHandlers(t, imageNames(15)...)
	conn := dialGallery(t, h, nil)

	initial := readReply(t, conn)
	assert.Empty(t, initial.Error)
	assert.Equal(t, 0, initial.Page)
	assert.Equal(t, 15, initial.Total)

	require.NoError(t, conn.WriteJSON(galleryRequest{Action: "next"}))
	next := readReply(t, conn)
	assert.Equal(t, 1, next.Page)
	assert.Equal(t, "Page 2 of 2", next.Label)

	require.NoError(t, conn.WriteJSON(galleryRequest{Action: "next"}))
	assert.Equal(t, 1, readReply(t, conn).Page)

	require.NoError(t, conn.WriteJSON(galleryRequest{Action: "previous"}))
	assert.Equal(t, 0, readReply(t, conn).Page)
}

func TestGalleryWebSocketSettings(t *testing.T) {
	h, _ := newTestHandlers(t, imageNames(15)...)
	conn := dialGallery(t, h, nil)
	readReply(t, conn)

	require.NoError(t, conn.WriteJSON(galleryRequest{Action: "settings", Columns: 2, PageSize: 3}))
	reply := readReply(t, conn)
	require.Empty(t, reply.Error)
	assert.Equal(t, gallery.Settings{Columns: 2, PageSize: 3}, reply.Settings)
	assert.Equal(t, 5, reply.PageCount)

	require.NoError(t, conn.WriteJSON(galleryRequest{Action: "settings", Columns: 8}))
	reply = readReply(t, conn)
	assert.Contains(t, reply.Error, "invalid gallery settings")

	require.NoError(t, conn.WriteJSON(galleryRequest{Action: "refresh"}))
	reply = readReply(t, conn)
	assert.Equal(t, gallery.Settings{Columns: 2, PageSize: 3}, reply.Settings, "rejected settings are not stored")
}

func TestGalleryWebSocketErrors(t *testing.T) {
	h, _ := newTestHandlers(t, "a.png")
	conn := dialGallery(t, h, nil)
	readReply(t, conn)

	require.NoError(t, conn.WriteJSON(galleryRequest{Action: "jump"}))
	assert.Contains(t, readReply(t, conn).Error, "unknown action")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	assert.Equal(t, "invalid message", readReply(t, conn).Error)

	// The connection survives bad messages.
	require.NoError(t, conn.WriteJSON(galleryRequest{}))
	assert.Equal(t, 1, readReply(t, conn).Total)
}

func TestGalleryWebSocketSharesSessionWithHTTP(t *testing.T) {
	h, _ := newTestHandlers(t, imageNames(15)...)
	c := newClient(t, h)
	c.do(http.MethodPost, "/api/gallery/next", http.NoBody, "")
	require.NotNil(t, c.cookie)

	header := http.Header{}
	header.Set("Cookie", c.cookie.Name+"="+c.cookie.Value)
	conn := dialGallery(t, h, header)

	assert.Equal(t, 1, readReply(t, conn).Page)

	require.NoError(t, conn.WriteJSON(galleryRequest{Action: "previous"}))
	assert.Equal(t, 0, readReply(t, conn).Page)

	assert.Equal(t, 0, decodeView(t, c.get("/api/gallery").Body.String()).Page)
}

func TestGalleryWebSocketRejectsForeignOrigin(t *testing.T) {
	h, _ := newTestHandlers(t)
	srv := httptest.NewServer(testRouter(h))
	defer srv.Close()

	header := http.Header{}
	header.Set("Origin", "https://evil.example")

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestSameOrigin(t *testing.T) {
	tests := []struct {
		name     string
		origin   string
		host     string
		expected bool
	}{
		{"no origin", "", "gallery.local", true},
		{"same host", "http://gallery.local", "gallery.local", true},
		{"same host and port", "http://localhost:8080", "localhost:8080", true},
		{"other host", "http://evil.example", "gallery.local", false},
		{"other port", "http://localhost:9999", "localhost:8080", false},
		{"malformed", "://", "gallery.local", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/ws", http.NoBody)
			req.Host = tt.host
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.expected, sameOrigin(req))
		})
	}
}
