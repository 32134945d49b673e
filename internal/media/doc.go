// Package media lists gallery images and turns them into thumbnails.
//
// A Scanner reads the image directory into a Catalog sorted by file name.
// A Normalizer decodes a source image and centres it on a square canvas of
// side max(width, height) filled with the background colour, memoizing the
// result per absolute path in a bounded LRU. A Watcher keeps both fresh when
// files in the directory change.
package media
