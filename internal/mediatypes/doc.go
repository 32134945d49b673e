// Package mediatypes holds the image extension allow-list and MIME type
// lookups shared by the catalog scanner, the HTTP handlers and galleryctl.
//
// It has no dependencies beyond the standard library so that any package can
// import it without creating cycles.
//
// # Extension Detection
//
// Extensions are compared case-insensitively:
//
//	mediatypes.IsImage("Sunset.JPG")   // true
//	mediatypes.IsImage("notes.txt")    // false
//
// # MIME Types
//
// Use MimeTypeFor when serving originals:
//
//	w.Header().Set("Content-Type", mediatypes.MimeTypeFor(name)) // e.g. "image/webp"
package mediatypes
