package media

import (
	"net/url"
	"sort"
	"time"
)

// ImageEntry is one listed image: its file name (display label and download
// name) and where it lives on disk.
type ImageEntry struct {
	Name         string    `json:"name"`
	Path         string    `json:"-"`
	Size         int64     `json:"size"`
	ModTime      time.Time `json:"modTime"`
	MimeType     string    `json:"mimeType"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	OriginalURL  string    `json:"originalUrl"`
	DownloadURL  string    `json:"downloadUrl"`
}

// Catalog is the image listing sorted by file name. Names are unique.
type Catalog []ImageEntry

// Lookup finds an entry by exact file name.
func (c Catalog) Lookup(name string) (ImageEntry, bool) {
	i := sort.Search(len(c), func(i int) bool { return c[i].Name >= name })
	if i < len(c) && c[i].Name == name {
		return c[i], true
	}
	return ImageEntry{}, false
}

func newEntry(name, path string, size int64, modTime time.Time, mimeType string) ImageEntry {
	escaped := url.PathEscape(name)
	return ImageEntry{
		Name:         name,
		Path:         path,
		Size:         size,
		ModTime:      modTime,
		MimeType:     mimeType,
		ThumbnailURL: "/api/thumbnail/" + escaped,
		OriginalURL:  "/api/file/" + escaped,
		DownloadURL:  "/api/download/" + escaped,
	}
}
