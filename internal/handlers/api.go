package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"portfolio-gallery/internal/gallery"
	"portfolio-gallery/internal/logging"
	"portfolio-gallery/internal/media"

	"github.com/gorilla/mux"
)

const maxRequestBody = 4 << 10

var errUnknownAction = errors.New("unknown action")

// galleryRequest is a navigation or layout change. The JSON API and the
// websocket channel both decode into it. Zero Columns or PageSize keep the
// session's current value.
type galleryRequest struct {
	Action   string `json:"action"`
	Columns  int    `json:"columns,omitempty"`
	PageSize int    `json:"pageSize,omitempty"`
}

// CatalogResponse is the full image listing.
type CatalogResponse struct {
	Total   int           `json:"total"`
	Entries media.Catalog `json:"entries"`
}

// apply runs req against session id through the controller and stores the
// result. Requests on one session are applied in order; the session is left
// untouched when the controller rejects the request.
func (h *Handlers) apply(ctx context.Context, id string, req galleryRequest) (gallery.View, error) {
	var view gallery.View
	err := h.sessions.Update(id, func(sess *gallery.Session) error {
		var (
			state    gallery.State
			err      error
			settings = sess.Settings
		)

		switch req.Action {
		case "", "render":
			state, view, err = h.controller.Render(ctx, sess.State, settings)
		case "refresh":
			state, view, err = h.controller.Refresh(ctx, sess.State, settings)
		case "settings":
			if req.Columns != 0 {
				settings.Columns = req.Columns
			}
			if req.PageSize != 0 {
				settings.PageSize = req.PageSize
			}
			state, view, err = h.controller.ChangeSettings(ctx, sess.State, settings)
		default:
			action, parseErr := gallery.ParseAction(req.Action)
			if parseErr != nil {
				return fmt.Errorf("%w: %q", errUnknownAction, req.Action)
			}
			state, view, err = h.controller.Navigate(ctx, action, sess.State, settings)
		}
		if err != nil {
			return err
		}

		sess.State = state
		sess.Settings = settings
		return nil
	})
	if err != nil {
		return gallery.View{}, err
	}
	return view, nil
}

func (h *Handlers) writeView(w http.ResponseWriter, view gallery.View, err error) {
	if err != nil {
		status := errorStatus(err)
		if status == http.StatusInternalServerError {
			logging.Error("Gallery request failed: %v", err)
		}
		writeJSONError(w, err.Error(), status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	writeJSON(w, view)
}

// GetGallery returns the caller's current page.
func (h *Handlers) GetGallery(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	view, err := h.apply(r.Context(), sess.ID, galleryRequest{})
	h.writeView(w, view, err)
}

// NavigateGallery moves the caller's page forwards or backwards.
func (h *Handlers) NavigateGallery(w http.ResponseWriter, r *http.Request) {
	action, err := gallery.ParseAction(mux.Vars(r)["action"])
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusNotFound)
		return
	}

	sess := h.session(w, r)
	view, err := h.apply(r.Context(), sess.ID, galleryRequest{Action: string(action)})
	h.writeView(w, view, err)
}

// UpdateSettings changes the caller's column count and page size.
func (h *Handlers) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var body gallery.Settings
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&body); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	sess := h.session(w, r)
	view, err := h.apply(r.Context(), sess.ID, galleryRequest{
		Action:   "settings",
		Columns:  body.Columns,
		PageSize: body.PageSize,
	})
	h.writeView(w, view, err)
}

// GetCatalog returns every image in the gallery in display order.
func (h *Handlers) GetCatalog(w http.ResponseWriter, r *http.Request) {
	cat, err := h.catalog.Catalog(r.Context())
	if err != nil {
		logging.Error("GetCatalog failed: %v", err)
		writeJSONError(w, "Failed to list images", http.StatusInternalServerError)
		return
	}
	if cat == nil {
		cat = media.Catalog{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	writeJSON(w, CatalogResponse{Total: len(cat), Entries: cat})
}

// GetSettingsOptions lists the allowed column counts and page sizes.
func (h *Handlers) GetSettingsOptions(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, gallery.SettingsOptions(h.sessions.Defaults()))
}

// TriggerRescan drops the cached listing and scans the image directory again.
func (h *Handlers) TriggerRescan(w http.ResponseWriter, r *http.Request) {
	h.catalog.Invalidate()

	cat, err := h.catalog.Catalog(r.Context())
	if err != nil {
		logging.Error("Rescan failed: %v", err)
		writeJSONError(w, "Rescan failed", http.StatusInternalServerError)
		return
	}

	logging.Info("Rescan complete: %d images", len(cat))
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]any{
		"status": "rescanned",
		"total":  len(cat),
	})
}
