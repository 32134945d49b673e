package handlers

import (
	"image/color"
	"time"

	"portfolio-gallery/internal/filesystem"
	"portfolio-gallery/internal/gallery"
	"portfolio-gallery/internal/startup"
)

// Catalog is the image listing the handlers serve from. *media.Scanner
// implements it.
type Catalog interface {
	gallery.CatalogSource
	Invalidate()
	Len() int
}

// Thumbnails produces letterboxed previews. *media.Normalizer implements it.
type Thumbnails interface {
	gallery.ThumbnailSource
	JPEG(path string) ([]byte, error)
	// Background is the canvas colour thumbnails are letterboxed on.
	Background() color.NRGBA
	Len() int
}

type Handlers struct {
	catalog    Catalog
	thumbnails Thumbnails
	controller *gallery.Controller
	sessions   *gallery.SessionStore
	siteTitle  string
	sessionTTL time.Duration
	retry      filesystem.RetryConfig
	startTime  time.Time
}

func New(catalog Catalog, thumbnails Thumbnails, sessions *gallery.SessionStore, config *startup.Config) *Handlers {
	return &Handlers{
		catalog:    catalog,
		thumbnails: thumbnails,
		controller: gallery.NewController(catalog, thumbnails),
		sessions:   sessions,
		siteTitle:  config.SiteTitle,
		sessionTTL: config.SessionTTL,
		retry:      filesystem.DefaultRetryConfig(),
		startTime:  time.Now(),
	}
}
