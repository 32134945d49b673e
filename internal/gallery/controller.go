package gallery

import (
	"context"
	"fmt"
	"image"

	"portfolio-gallery/internal/logging"
	"portfolio-gallery/internal/media"
	"portfolio-gallery/internal/metrics"
)

// CatalogSource provides the current image listing. *media.Scanner
// implements it.
type CatalogSource interface {
	Catalog(ctx context.Context) (media.Catalog, error)
}

// ThumbnailSource normalizes a source image. *media.Normalizer implements it.
type ThumbnailSource interface {
	Normalize(path string) (image.Image, error)
}

// Controller renders gallery pages. It holds no per-viewer state; callers
// pass State and Settings in and keep what comes back.
type Controller struct {
	catalog    CatalogSource
	thumbnails ThumbnailSource
}

// NewController creates a Controller.
func NewController(catalog CatalogSource, thumbnails ThumbnailSource) *Controller {
	return &Controller{catalog: catalog, thumbnails: thumbnails}
}

// Render clamps state to the current catalog and builds the page it points at.
func (c *Controller) Render(ctx context.Context, state State, settings Settings) (State, View, error) {
	cat, err := c.load(ctx, settings)
	if err != nil {
		return state, View{}, err
	}
	next, view := c.render(cat, state, settings)
	return next, view, nil
}

// Refresh re-renders after an external change (a rescan), recording whether
// the page had to be reset.
func (c *Controller) Refresh(ctx context.Context, state State, settings Settings) (State, View, error) {
	next, view, err := c.Render(ctx, state, settings)
	if err != nil {
		return state, View{}, err
	}
	metrics.NavigationTotal.WithLabelValues("refresh", resetResult(state, next)).Inc()
	return next, view, nil
}

// Navigate applies action and renders the resulting page. Actions that are
// not enabled leave the state unchanged.
func (c *Controller) Navigate(ctx context.Context, action Action, state State, settings Settings) (State, View, error) {
	cat, err := c.load(ctx, settings)
	if err != nil {
		return state, View{}, err
	}

	pageCount := PageCount(len(cat), settings.PageSize)
	current := Clamp(state, pageCount)

	var next State
	switch action {
	case ActionNext:
		next = Next(current, pageCount)
	case ActionPrevious:
		next = Previous(current, pageCount)
	default:
		return state, View{}, fmt.Errorf("unknown navigation action %q", action)
	}

	result := "moved"
	if next == current {
		result = "ignored"
	}
	metrics.NavigationTotal.WithLabelValues(string(action), result).Inc()
	logging.Debug("Navigate %s: page %d -> %d of %d", action, current.Page, next.Page, pageCount)

	next, view := c.render(cat, next, settings)
	return next, view, nil
}

// ChangeSettings validates updated and renders with it, resetting the page
// when it no longer exists.
func (c *Controller) ChangeSettings(ctx context.Context, state State, updated Settings) (State, View, error) {
	if err := updated.Validate(); err != nil {
		return state, View{}, err
	}
	next, view, err := c.Render(ctx, state, updated)
	if err != nil {
		return state, View{}, err
	}
	metrics.NavigationTotal.WithLabelValues("settings", resetResult(state, next)).Inc()
	return next, view, nil
}

func (c *Controller) load(ctx context.Context, settings Settings) (media.Catalog, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	cat, err := c.catalog.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return cat, nil
}

func (c *Controller) render(cat media.Catalog, state State, settings Settings) (State, View) {
	page := Paginate(cat, settings.PageSize, state.Page)
	state = State{Page: page.Page}

	view := View{
		Page:        page.Page,
		PageCount:   page.PageCount,
		Total:       page.Total,
		Settings:    settings,
		Tiles:       make([]Tile, 0, len(page.Items)),
		HasPrevious: CanPrevious(state, page.PageCount),
		HasNext:     CanNext(state, page.PageCount),
		Empty:       page.PageCount == 0,
		Label:       PageLabel(page.Page, page.PageCount),
	}

	offset := page.Page * settings.PageSize
	for i, entry := range page.Items {
		view.Tiles = append(view.Tiles, c.tile(offset+i, i%settings.Columns, entry))
	}

	if view.Empty {
		metrics.GalleryRendersTotal.WithLabelValues("empty").Inc()
	} else {
		metrics.GalleryRendersTotal.WithLabelValues("page").Inc()
	}

	return state, view
}

// tile normalizes one entry. A decode failure becomes a placeholder and
// never aborts the page.
func (c *Controller) tile(index, column int, entry media.ImageEntry) Tile {
	t := Tile{
		Index:       index,
		Name:        entry.Name,
		Column:      column,
		Size:        entry.Size,
		ModTime:     entry.ModTime,
		MimeType:    entry.MimeType,
		OriginalURL: entry.OriginalURL,
		DownloadURL: entry.DownloadURL,
	}

	img, err := c.thumbnails.Normalize(entry.Path)
	if err != nil {
		logging.Debug("Placeholder for %s: %v", entry.Name, err)
		t.Error = err.Error()
		return t
	}

	t.Thumbnail = img
	t.ThumbnailURL = entry.ThumbnailURL
	return t
}

func resetResult(before, after State) string {
	if before != after {
		return "reset"
	}
	return "ignored"
}
