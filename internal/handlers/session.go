package handlers

import (
	"net/http"
	"time"

	"portfolio-gallery/internal/gallery"
)

// SessionCookieName identifies the viewer's gallery session.
const SessionCookieName = "gallery_session"

// session returns the caller's gallery session, starting a new one when the
// request carried no cookie or an expired one. The cookie is re-sent on
// every call so its expiry slides with the server-side TTL.
func (h *Handlers) session(w http.ResponseWriter, r *http.Request) gallery.Session {
	var id string
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		id = cookie.Value
	}

	sess, _ := h.sessions.GetOrCreate(id)
	http.SetCookie(w, h.sessionCookie(sess.ID))
	return sess
}

func (h *Handlers) sessionCookie(id string) *http.Cookie {
	cookie := &http.Cookie{
		Name:     SessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if h.sessionTTL > 0 {
		cookie.Expires = time.Now().Add(h.sessionTTL)
	}
	return cookie
}
