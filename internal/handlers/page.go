package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"image/color"
	"io/fs"
	"net/http"
	"strconv"

	"portfolio-gallery/internal/gallery"
	"portfolio-gallery/internal/logging"
	"portfolio-gallery/internal/media"

	"github.com/gorilla/mux"
)

//go:embed web/templates/*.html
var templateFS embed.FS

//go:embed web/static
var staticFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "web/templates/gallery.html"))

// pageData feeds web/templates/gallery.html.
type pageData struct {
	Title       string
	View        gallery.View
	Columns     [][]gallery.Tile
	Options     gallery.Options
	Zoom        *media.ImageEntry
	ZoomSize    string
	ZoomMissing string
	// Canvas is the colour thumbnails are letterboxed on.
	Canvas template.CSS
}

// GalleryPage renders the caller's current page. ?zoom=<name> additionally
// opens the original image of a catalog entry with a download link.
func (h *Handlers) GalleryPage(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	view, err := h.apply(r.Context(), sess.ID, galleryRequest{})
	if err != nil {
		logging.Error("GalleryPage failed: %v", err)
		http.Error(w, "Failed to render gallery", http.StatusInternalServerError)
		return
	}

	data := pageData{
		Title:   h.siteTitle,
		View:    view,
		Columns: view.Columns(),
		Options: gallery.SettingsOptions(h.sessions.Defaults()),
		Canvas:  canvasColor(h.thumbnails.Background()),
	}

	status := http.StatusOK
	if name := r.URL.Query().Get("zoom"); name != "" {
		cat, err := h.catalog.Catalog(r.Context())
		if err != nil {
			logging.Error("GalleryPage failed to load catalog for zoom: %v", err)
			http.Error(w, "Failed to render gallery", http.StatusInternalServerError)
			return
		}
		if entry, ok := cat.Lookup(name); ok {
			data.Zoom = &entry
			if dims, err := media.ReadDimensions(entry.Path); err == nil {
				data.ZoomSize = dims.String()
			} else {
				logging.Debug("No dimensions for %s: %v", entry.Name, err)
			}
		} else {
			data.ZoomMissing = name
			status = http.StatusNotFound
		}
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		logging.Error("Failed to execute gallery template: %v", err)
		http.Error(w, "Failed to render gallery", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logging.Debug("Failed to write gallery page: %v", err)
	}
}

// NavigatePage handles the Previous and Next form buttons.
func (h *Handlers) NavigatePage(w http.ResponseWriter, r *http.Request) {
	action, err := gallery.ParseAction(mux.Vars(r)["action"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	sess := h.session(w, r)
	if _, err := h.apply(r.Context(), sess.ID, galleryRequest{Action: string(action)}); err != nil {
		h.formError(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// SettingsPage handles the settings form.
func (h *Handlers) SettingsPage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	columns, err := strconv.Atoi(r.PostForm.Get("columns"))
	if err != nil {
		http.Error(w, "Invalid column count", http.StatusBadRequest)
		return
	}
	pageSize, err := strconv.Atoi(r.PostForm.Get("pageSize"))
	if err != nil {
		http.Error(w, "Invalid page size", http.StatusBadRequest)
		return
	}

	if err := (gallery.Settings{Columns: columns, PageSize: pageSize}).Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sess := h.session(w, r)
	req := galleryRequest{Action: "settings", Columns: columns, PageSize: pageSize}
	if _, err := h.apply(r.Context(), sess.ID, req); err != nil {
		h.formError(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handlers) formError(w http.ResponseWriter, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		logging.Error("Gallery form request failed: %v", err)
		http.Error(w, "Failed to update gallery", status)
		return
	}
	http.Error(w, err.Error(), status)
}

// StaticFiles serves the stylesheet and script embedded in the binary.
func (h *Handlers) StaticFiles() http.Handler {
	sub, err := fs.Sub(staticFS, "web/static")
	if err != nil {
		panic(fmt.Sprintf("embedded static assets: %v", err))
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

func canvasColor(c color.NRGBA) template.CSS {
	return template.CSS(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}
