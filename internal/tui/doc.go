// Package tui implements the interactive terminal gallery browser used by
// "galleryctl browse". It renders the same pages as the web viewer through
// gallery.Controller, showing each tile as its file name or an error
// placeholder.
package tui
