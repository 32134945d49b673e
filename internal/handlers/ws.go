package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"portfolio-gallery/internal/gallery"
	"portfolio-gallery/internal/logging"
	"portfolio-gallery/internal/metrics"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 8
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     sameOrigin,
}

// sameOrigin accepts requests without an Origin header (non-browser
// clients) and browser requests from the page's own host.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}

// wsClient is one websocket connection bound to a gallery session.
type wsClient struct {
	h         *Handlers
	conn      *websocket.Conn
	sessionID string
	send      chan []byte
}

// GalleryWebSocket upgrades to a websocket that accepts galleryRequest
// messages and answers each with the resulting View, or {"error": ...}.
// The current page is sent as soon as the connection opens.
func (h *Handlers) GalleryWebSocket(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)

	header := http.Header{}
	header.Set("Set-Cookie", h.sessionCookie(sess.ID).String())

	conn, err := upgrader.Upgrade(w, r, header)
	if err != nil {
		// Upgrade has already replied with an HTTP error.
		logging.Warn("WebSocket upgrade failed: %v", err)
		return
	}

	metrics.WebsocketConnections.Inc()
	logging.Debug("WebSocket opened for session %s", sess.ID)

	c := &wsClient{
		h:         h,
		conn:      conn,
		sessionID: sess.ID,
		send:      make(chan []byte, sendBuffer),
	}

	go c.writePump()
	c.handle(r.Context(), galleryRequest{})
	c.readPump(r.Context())
}

// readPump handles requests until the connection fails or closes.
func (c *wsClient) readPump(ctx context.Context) {
	defer func() {
		close(c.send)
		metrics.WebsocketConnections.Dec()
		logging.Debug("WebSocket closed for session %s", c.sessionID)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Warn("WebSocket error: %v", err)
			}
			return
		}

		var req galleryRequest
		if err := json.Unmarshal(message, &req); err != nil {
			metrics.WebsocketMessagesTotal.WithLabelValues("invalid").Inc()
			c.reply(map[string]string{"error": "invalid message"})
			continue
		}
		c.handle(ctx, req)
	}
}

func (c *wsClient) handle(ctx context.Context, req galleryRequest) {
	label := req.Action
	if label == "" {
		label = "render"
	}
	switch label {
	case "render", "refresh", "settings", string(gallery.ActionNext), string(gallery.ActionPrevious):
	default:
		label = "invalid"
	}
	metrics.WebsocketMessagesTotal.WithLabelValues(label).Inc()

	sess, ok := c.h.sessions.Get(c.sessionID)
	if !ok {
		sess, _ = c.h.sessions.GetOrCreate(c.sessionID)
		c.sessionID = sess.ID
	}

	view, err := c.h.apply(ctx, sess.ID, req)
	if err != nil {
		if errorStatus(err) == http.StatusInternalServerError {
			logging.Error("WebSocket request failed: %v", err)
		}
		c.reply(map[string]string{"error": err.Error()})
		return
	}
	c.reply(view)
}

func (c *wsClient) reply(v any) {
	msg, err := json.Marshal(v)
	if err != nil {
		logging.Error("Failed to marshal websocket reply: %v", err)
		return
	}
	select {
	case c.send <- msg:
	default:
		logging.Warn("WebSocket send buffer full for session %s, dropping reply", c.sessionID)
	}
}

// writePump writes replies and keeps the connection alive with pings. It
// owns all data writes on the connection.
func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
