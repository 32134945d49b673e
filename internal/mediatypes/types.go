package mediatypes

import (
	"path/filepath"
	"strings"
)

// Format identifies one of the image formats the gallery lists.
type Format string

const (
	// FormatJPEG covers both .jpg and .jpeg.
	FormatJPEG Format = "jpeg"
	// FormatPNG is a PNG image.
	FormatPNG Format = "png"
	// FormatWebP is a WebP image.
	FormatWebP Format = "webp"
	// FormatUnknown is returned for anything outside the allow-list.
	FormatUnknown Format = ""
)

// ImageExtensions maps lowercase extensions to the format they carry.
// Only these extensions are listed in the catalog.
var ImageExtensions = map[string]Format{
	".webp": FormatWebP,
	".png":  FormatPNG,
	".jpg":  FormatJPEG,
	".jpeg": FormatJPEG,
}

// MimeTypes maps file extensions to their MIME types.
var MimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// Ext returns the lowercase extension of name, including the leading dot.
func Ext(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

// GetFormat returns the Format for a given file extension.
// The extension is matched case-insensitively and must include the leading dot.
func GetFormat(ext string) Format {
	return ImageExtensions[strings.ToLower(ext)]
}

// IsImage reports whether name carries one of the listed image extensions.
func IsImage(name string) bool {
	return GetFormat(Ext(name)) != FormatUnknown
}

// GetMimeType returns the MIME type for a given file extension.
// Returns "application/octet-stream" if the extension is not recognized.
func GetMimeType(ext string) string {
	if mime, ok := MimeTypes[strings.ToLower(ext)]; ok {
		return mime
	}
	return "application/octet-stream"
}

// MimeTypeFor returns the MIME type for a file name.
func MimeTypeFor(name string) string {
	return GetMimeType(Ext(name))
}
