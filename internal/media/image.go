package media

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"portfolio-gallery/internal/logging"

	// Image format decoders
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // WebP format support
)

// DecodeError reports an image that could not be opened or decoded. It is
// scoped to one catalog entry; callers render a placeholder and move on.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode %s: %v", filepath.Base(e.Path), e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsDecodeError reports whether err is, or wraps, a *DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// DecodeImage opens and decodes path at full resolution, applying EXIF
// orientation.
func DecodeImage(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return img, nil
}

// Dimensions is an image's stored pixel size.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%d × %d px", d.Width, d.Height)
}

// ReadDimensions reads only the image header of path. EXIF orientation is
// not applied. Errors are *DecodeError.
func ReadDimensions(path string) (Dimensions, error) {
	file, err := os.Open(path)
	if err != nil {
		return Dimensions{}, &DecodeError{Path: path, Err: err}
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.Warn("failed to close image file %s: %v", path, err)
		}
	}()

	config, _, err := image.DecodeConfig(file)
	if err != nil {
		return Dimensions{}, &DecodeError{Path: path, Err: err}
	}
	return Dimensions{Width: config.Width, Height: config.Height}, nil
}
