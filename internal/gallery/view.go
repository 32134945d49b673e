package gallery

import (
	"fmt"
	"image"
	"time"
)

// Tile is one grid cell: a catalog entry and its thumbnail, or the reason
// the thumbnail could not be produced.
type Tile struct {
	Index        int         `json:"index"`
	Name         string      `json:"name"`
	Column       int         `json:"column"`
	Size         int64       `json:"size"`
	ModTime      time.Time   `json:"modTime"`
	MimeType     string      `json:"mimeType"`
	ThumbnailURL string      `json:"thumbnailUrl,omitempty"`
	OriginalURL  string      `json:"originalUrl"`
	DownloadURL  string      `json:"downloadUrl"`
	Error        string      `json:"error,omitempty"`
	Thumbnail    image.Image `json:"-"`
}

// Failed reports whether the tile is an error placeholder.
func (t Tile) Failed() bool {
	return t.Error != ""
}

// View is a complete snapshot of one rendered page. A View is never
// modified after Render returns it.
type View struct {
	Page        int      `json:"page"`
	PageCount   int      `json:"pageCount"`
	Total       int      `json:"total"`
	Settings    Settings `json:"settings"`
	Tiles       []Tile   `json:"tiles"`
	HasPrevious bool     `json:"hasPrevious"`
	HasNext     bool     `json:"hasNext"`
	Empty       bool     `json:"empty"`
	Label       string   `json:"label"`
}

// PageLabel formats the 1-based "Page X of Y" label. Empty galleries have none.
func PageLabel(page, pageCount int) string {
	if pageCount == 0 {
		return ""
	}
	return fmt.Sprintf("Page %d of %d", page+1, pageCount)
}

// Columns distributes tiles round-robin into Settings.Columns columns.
func (v View) Columns() [][]Tile {
	n := max(v.Settings.Columns, 1)
	cols := make([][]Tile, n)
	for i, t := range v.Tiles {
		cols[i%n] = append(cols[i%n], t)
	}
	return cols
}

// Rows groups tiles into rows of Settings.Columns, in catalog order.
func (v View) Rows() [][]Tile {
	n := max(v.Settings.Columns, 1)
	var rows [][]Tile
	for start := 0; start < len(v.Tiles); start += n {
		rows = append(rows, v.Tiles[start:min(start+n, len(v.Tiles))])
	}
	return rows
}

// Failures counts error placeholder tiles.
func (v View) Failures() int {
	n := 0
	for _, t := range v.Tiles {
		if t.Failed() {
			n++
		}
	}
	return n
}
