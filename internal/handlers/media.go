package handlers

import (
	"bytes"
	"mime"
	"net/http"
	"os"

	"portfolio-gallery/internal/filesystem"
	"portfolio-gallery/internal/logging"
	"portfolio-gallery/internal/media"
	"portfolio-gallery/internal/metrics"

	"github.com/gorilla/mux"
)

// lookup resolves the {name} route variable against the catalog. Names are
// never joined onto the image directory, so only listed files are reachable.
func (h *Handlers) lookup(w http.ResponseWriter, r *http.Request) (media.ImageEntry, bool) {
	name := mux.Vars(r)["name"]
	if name == "" {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return media.ImageEntry{}, false
	}

	cat, err := h.catalog.Catalog(r.Context())
	if err != nil {
		logging.Error("Failed to load catalog for %s: %v", name, err)
		http.Error(w, "Failed to list images", http.StatusInternalServerError)
		return media.ImageEntry{}, false
	}

	entry, ok := cat.Lookup(name)
	if !ok {
		logging.Debug("Image not in catalog: %s", name)
		http.Error(w, "Image not found", http.StatusNotFound)
		return media.ImageEntry{}, false
	}
	return entry, true
}

// GetThumbnail serves the letterboxed JPEG preview of one image.
func (h *Handlers) GetThumbnail(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.lookup(w, r)
	if !ok {
		return
	}

	thumb, err := h.thumbnails.JPEG(entry.Path)
	if err != nil {
		if media.IsDecodeError(err) {
			logging.Warn("Thumbnail: cannot decode %s: %v", entry.Name, err)
			http.Error(w, "Image cannot be decoded", http.StatusUnprocessableEntity)
			return
		}
		logging.Error("Thumbnail: generation failed for %s: %v", entry.Name, err)
		http.Error(w, "Failed to generate thumbnail", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeContent(w, r, entry.Name, entry.ModTime, bytes.NewReader(thumb))
}

// GetFile serves the original image for the zoom view.
func (h *Handlers) GetFile(w http.ResponseWriter, r *http.Request) {
	h.serveOriginal(w, r, "inline")
}

// DownloadFile serves the original image as an attachment under its own name.
func (h *Handlers) DownloadFile(w http.ResponseWriter, r *http.Request) {
	h.serveOriginal(w, r, "attachment")
}

func (h *Handlers) serveOriginal(w http.ResponseWriter, r *http.Request, disposition string) {
	entry, ok := h.lookup(w, r)
	if !ok {
		return
	}

	f, err := filesystem.OpenWithRetry(entry.Path, h.retry)
	if err != nil {
		if os.IsNotExist(err) {
			http.Error(w, "Image not found", http.StatusNotFound)
			return
		}
		logging.Error("Failed to open %s: %v", entry.Path, err)
		http.Error(w, "Failed to read image", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		logging.Error("Failed to stat %s: %v", entry.Path, err)
		http.Error(w, "Failed to read image", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", entry.MimeType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": entry.Name}))
	metrics.OriginalsServedTotal.WithLabelValues(disposition).Inc()

	http.ServeContent(w, r, entry.Name, info.ModTime(), f)
}
