package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGalleryPageRendersFirstPage(t *testing.T) {
	h, _ := newTestHandlers(t, "b.png", "a.png", "c.png")
	c := newClient(t, h)

	w := c.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.Contains(t, body, "<title>Test Portfolio</title>")
	assert.Contains(t, body, "Page 1 of 1")
	assert.Equal(t, 2, strings.Count(body, "Page 1 of 1"), "navigation is rendered above and below the grid")
	assert.Contains(t, body, "Total works: <strong>3</strong>")
	assert.Contains(t, body, `src="/api/thumbnail/a.png"`)
	assert.Contains(t, body, "--canvas: #0e1117")

	// Sorted order puts a.png first.
	assert.Less(t, strings.Index(body, "/api/thumbnail/a.png"), strings.Index(body, "/api/thumbnail/b.png"))
}

func TestGalleryPageEmpty(t *testing.T) {
	h, _ := newTestHandlers(t)
	c := newClient(t, h)

	w := c.get("/")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "The gallery is empty")
	assert.NotContains(t, body, "Page ")
	assert.NotContains(t, body, `action="/nav/next"`)
}

func TestGalleryPageDisablesUnavailableNavigation(t *testing.T) {
	h, _ := newTestHandlers(t, "a.png")
	c := newClient(t, h)

	body := c.get("/").Body.String()
	assert.Equal(t, 4, strings.Count(body, "disabled>"), "both buttons disabled in both nav bars")
}

func TestGalleryPageBrokenImagePlaceholder(t *testing.T) {
	h, _ := newTestHandlers(t, "a.png", "z.broken.png")
	c := newClient(t, h)

	w := c.get("/")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "Could not load z.broken.png")
	assert.Contains(t, body, `src="/api/thumbnail/a.png"`)
	assert.NotContains(t, body, `src="/api/thumbnail/z.broken.png"`)
}

func TestGalleryPageRoundRobinColumns(t *testing.T) {
	h, _ := newTestHandlers(t, "a.png", "b.png", "c.png", "d.png")
	c := newClient(t, h)
	c.get("/")

	w := c.postForm("/settings", "columns=2&pageSize=12")
	require.Equal(t, http.StatusSeeOther, w.Code)

	body := c.get("/").Body.String()
	cols := strings.Split(body, `<div class="column">`)
	require.Len(t, cols, 3)
	assert.Contains(t, cols[1], "a.png")
	assert.Contains(t, cols[1], "c.png")
	assert.Contains(t, cols[2], "b.png")
	assert.Contains(t, cols[2], "d.png")
}

func TestGalleryPageZoom(t *testing.T) {
	h, _ := newTestHandlers(t, "a.png", "b.png")
	c := newClient(t, h)

	w := c.get("/?zoom=b.png")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `class="modal"`)
	assert.Contains(t, body, `src="/api/file/b.png"`)
	assert.Contains(t, body, `href="/api/download/b.png"`)
	assert.Contains(t, body, "8 × 4 px")
}

func TestGalleryPageZoomUnknownImage(t *testing.T) {
	h, _ := newTestHandlers(t, "a.png")
	c := newClient(t, h)

	w := c.get("/?zoom=missing.png")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Could not find missing.png")
	assert.NotContains(t, w.Body.String(), `class="modal"`)
}

func TestGalleryPageZoomDoesNotMoveSession(t *testing.T) {
	h, _ := newTestHandlers(t, imageNames(15)...)
	c := newClient(t, h)
	c.get("/")
	c.postForm("/nav/next", "")

	body := c.get("/?zoom=imgaa.png").Body.String()
	assert.Contains(t, body, "Page 2 of 2")
}

func TestNavigatePage(t *testing.T) {
	h, _ := newTestHandlers(t, imageNames(15)...)
	c := newClient(t, h)
	c.get("/")

	w := c.postForm("/nav/next", "")
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Contains(t, c.get("/").Body.String(), "Page 2 of 2")

	// Next on the last page is ignored.
	c.postForm("/nav/next", "")
	assert.Contains(t, c.get("/").Body.String(), "Page 2 of 2")

	c.postForm("/nav/previous", "")
	assert.Contains(t, c.get("/").Body.String(), "Page 1 of 2")
}

func TestNavigatePageUnknownAction(t *testing.T) {
	h, _ := newTestHandlers(t, "a.png")
	c := newClient(t, h)

	w := c.postForm("/nav/sideways", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSettingsPage(t *testing.T) {
	tests := []struct {
		name   string
		form   string
		status int
	}{
		{"valid", "columns=4&pageSize=6", http.StatusSeeOther},
		{"columns too high", "columns=6&pageSize=6", http.StatusBadRequest},
		{"columns zero", "columns=0&pageSize=6", http.StatusBadRequest},
		{"page size not an option", "columns=3&pageSize=7", http.StatusBadRequest},
		{"not a number", "columns=three&pageSize=6", http.StatusBadRequest},
		{"missing fields", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandlers(t, "a.png")
			c := newClient(t, h)

			w := c.postForm("/settings", tt.form)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestSettingsPageResetsOutOfRangePage(t *testing.T) {
	h, _ := newTestHandlers(t, imageNames(15)...)
	c := newClient(t, h)
	c.get("/")
	c.postForm("/nav/next", "")

	c.postForm("/settings", "columns=3&pageSize=20")

	body := c.get("/").Body.String()
	assert.Contains(t, body, "Page 1 of 1")
	assert.Contains(t, body, `<option value="20" selected>`)
}

func TestStaticFiles(t *testing.T) {
	h, _ := newTestHandlers(t)
	c := newClient(t, h)

	w := c.get("/static/gallery.css")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/css")

	w = c.get("/static/missing.css")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
