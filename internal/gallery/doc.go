// Package gallery holds the paging and navigation logic of the gallery.
//
// Paginate slices any ordered list into fixed-size pages. State and Settings
// describe where a viewer is and how the grid is laid out; Previous, Next and
// Clamp are pure transitions over State. A Controller combines a catalog
// source and a thumbnail normalizer to turn (State, Settings) into an
// immutable View for whichever front end renders it: the HTML page, the JSON
// API, the websocket channel or the terminal browser.
//
// SessionStore keeps one State and Settings pair per browser session.
package gallery
