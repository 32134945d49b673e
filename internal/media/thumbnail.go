package media

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"portfolio-gallery/internal/filesystem"
	"portfolio-gallery/internal/logging"
	"portfolio-gallery/internal/metrics"

	"github.com/disintegration/imaging"
)

// FlattenMode selects how transparent pixels reach the opaque canvas.
type FlattenMode string

const (
	// FlattenBackground composites the image over the canvas colour, so
	// transparent regions show the background.
	FlattenBackground FlattenMode = "background"
	// FlattenDecoder drops the alpha channel and keeps whatever colour the
	// file stores under transparent pixels.
	FlattenDecoder FlattenMode = "decoder"
)

// DefaultBackground is the dark gallery canvas colour, RGB (14,17,23).
var DefaultBackground = color.NRGBA{R: 14, G: 17, B: 23, A: 255}

const (
	DefaultCacheEntries = 256
	DefaultJPEGQuality  = 85
)

// DefaultCacheBytes bounds the decoded canvases held by the cache.
const DefaultCacheBytes int64 = 256 << 20

// ParseFlattenMode parses a THUMBNAIL_FLATTEN value.
func ParseFlattenMode(s string) (FlattenMode, error) {
	switch FlattenMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", FlattenBackground:
		return FlattenBackground, nil
	case FlattenDecoder:
		return FlattenDecoder, nil
	}
	return "", fmt.Errorf("unknown flatten mode %q (want background or decoder)", s)
}

// ParseColor parses "#rrggbb", "rrggbb" or "#rgb" into an opaque colour.
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// Letterbox centres img on a square canvas of side max(w,h) filled with bg.
// Offsets use floor division, so odd leftovers go to the right/bottom edge.
func Letterbox(img image.Image, bg color.Color, mode FlattenMode) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	side := max(w, h)

	canvas := imaging.New(side, side, bg)
	pos := image.Pt((side-w)/2, (side-h)/2)

	if mode == FlattenDecoder {
		return imaging.Paste(canvas, opaque(img), pos)
	}
	return imaging.Overlay(canvas, img, pos, 1.0)
}

// opaque forces every pixel's alpha to 255, keeping the stored colour.
func opaque(img image.Image) *image.NRGBA {
	dst := imaging.Clone(img)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 255
	}
	return dst
}

// NormalizerOptions configures a Normalizer. Zero values pick defaults.
type NormalizerOptions struct {
	Background   color.NRGBA
	Flatten      FlattenMode
	CacheEntries int
	// CacheBytes caps the memory held by cached canvases. The least recently
	// used entries are dropped first; the newest entry is always kept.
	CacheBytes int64
	// Revalidate re-stats cached sources and re-normalizes changed files.
	Revalidate bool
	// Size downsizes encoded thumbnails whose side is larger. 0 keeps full size.
	Size    int
	Quality int
}

// DefaultNormalizerOptions returns the options used when nothing is configured.
func DefaultNormalizerOptions() NormalizerOptions {
	return NormalizerOptions{
		Background:   DefaultBackground,
		Flatten:      FlattenBackground,
		CacheEntries: DefaultCacheEntries,
		CacheBytes:   DefaultCacheBytes,
		Revalidate:   true,
		Quality:      DefaultJPEGQuality,
	}
}

// Normalizer turns source images into square letterboxed thumbnails and
// memoizes the result per source path.
type Normalizer struct {
	opts   NormalizerOptions
	cache  *memoCache
	retry  filesystem.RetryConfig
	decode func(path string) (image.Image, error)
}

// NewNormalizer creates a Normalizer. A zero Background means DefaultBackground.
func NewNormalizer(opts NormalizerOptions) (*Normalizer, error) {
	if opts.Background == (color.NRGBA{}) {
		opts.Background = DefaultBackground
	}
	if opts.Flatten == "" {
		opts.Flatten = FlattenBackground
	}
	if opts.CacheEntries <= 0 {
		opts.CacheEntries = DefaultCacheEntries
	}
	if opts.CacheBytes <= 0 {
		opts.CacheBytes = DefaultCacheBytes
	}
	if opts.Quality <= 0 || opts.Quality > 100 {
		opts.Quality = DefaultJPEGQuality
	}
	if opts.Size < 0 {
		opts.Size = 0
	}

	cache, err := newMemoCache(opts.CacheEntries, opts.CacheBytes)
	if err != nil {
		return nil, fmt.Errorf("create thumbnail cache: %w", err)
	}

	logging.Debug("Normalizer: background=%v flatten=%s cache=%d/%d bytes revalidate=%v size=%d quality=%d",
		opts.Background, opts.Flatten, opts.CacheEntries, opts.CacheBytes, opts.Revalidate, opts.Size, opts.Quality)

	return &Normalizer{
		opts:   opts,
		cache:  cache,
		retry:  filesystem.DefaultRetryConfig(),
		decode: DecodeImage,
	}, nil
}

// Background returns the canvas colour.
func (n *Normalizer) Background() color.NRGBA {
	return n.opts.Background
}

// Normalize returns the letterboxed canvas for path. Errors are *DecodeError.
func (n *Normalizer) Normalize(path string) (image.Image, error) {
	e, err := n.entry(path)
	if err != nil {
		return nil, err
	}
	return e.img, nil
}

// JPEG returns the encoded thumbnail for path, resized when Size is set.
func (n *Normalizer) JPEG(path string) ([]byte, error) {
	e, err := n.entry(path)
	if err != nil {
		return nil, err
	}

	e.encodeOnce.Do(func() {
		start := time.Now()
		var img image.Image = e.img
		if n.opts.Size > 0 && img.Bounds().Dx() > n.opts.Size {
			img = imaging.Resize(img, n.opts.Size, n.opts.Size, imaging.Lanczos)
		}
		var buf bytes.Buffer
		e.encodeErr = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(n.opts.Quality))
		e.encoded = buf.Bytes()
		metrics.ThumbnailGenerationDuration.WithLabelValues("encode").Observe(time.Since(start).Seconds())
	})

	if e.encodeErr != nil {
		return nil, fmt.Errorf("encode thumbnail for %s: %w", filepath.Base(path), e.encodeErr)
	}
	return e.encoded, nil
}

// Invalidate drops the memoized thumbnail for path.
func (n *Normalizer) Invalidate(path string) {
	if n.cache.remove(absPath(path)) {
		metrics.ThumbnailCacheInvalidations.WithLabelValues("watcher").Inc()
	}
}

// Purge drops every memoized thumbnail.
func (n *Normalizer) Purge() {
	n.cache.purge()
	metrics.ThumbnailCacheInvalidations.WithLabelValues("purge").Inc()
}

// Len returns the number of memoized thumbnails.
func (n *Normalizer) Len() int {
	return n.cache.len()
}

// CachedBytes returns the memory held by memoized canvases.
func (n *Normalizer) CachedBytes() int64 {
	return n.cache.held()
}

func (n *Normalizer) entry(path string) (*cacheEntry, error) {
	key := absPath(path)

	if e, ok := n.cache.get(key); ok {
		if !n.opts.Revalidate || n.unchanged(key, e) {
			metrics.ThumbnailCacheHits.Inc()
			return e, nil
		}
		n.cache.remove(key)
		metrics.ThumbnailCacheInvalidations.WithLabelValues("modified").Inc()
		logging.Debug("Thumbnail source changed, re-normalizing %s", key)
	}
	metrics.ThumbnailCacheMisses.Inc()

	return n.cache.load(key, func() (*cacheEntry, error) {
		return n.generate(key)
	})
}

func (n *Normalizer) unchanged(key string, e *cacheEntry) bool {
	info, err := filesystem.StatWithRetry(key, n.retry)
	if err != nil {
		return false
	}
	return info.Size() == e.size && info.ModTime().Equal(e.modTime)
}

func (n *Normalizer) generate(path string) (*cacheEntry, error) {
	start := time.Now()

	info, err := filesystem.StatWithRetry(path, n.retry)
	if err != nil {
		metrics.ThumbnailGenerationsTotal.WithLabelValues("error_decode").Inc()
		return nil, &DecodeError{Path: path, Err: err}
	}

	img, err := n.decode(path)
	metrics.ThumbnailGenerationDuration.WithLabelValues("decode").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ThumbnailGenerationsTotal.WithLabelValues("error_decode").Inc()
		logging.Warn("Failed to decode %s: %v", path, err)
		if !IsDecodeError(err) {
			err = &DecodeError{Path: path, Err: err}
		}
		return nil, err
	}

	composeStart := time.Now()
	canvas := Letterbox(img, n.opts.Background, n.opts.Flatten)
	metrics.ThumbnailGenerationDuration.WithLabelValues("compose").Observe(time.Since(composeStart).Seconds())
	metrics.ThumbnailGenerationsTotal.WithLabelValues("success").Inc()

	logging.Debug("Normalized %s (%dx%d -> %d square) in %v",
		filepath.Base(path), img.Bounds().Dx(), img.Bounds().Dy(), canvas.Bounds().Dx(), time.Since(start))

	return &cacheEntry{
		img:     canvas,
		modTime: info.ModTime(),
		size:    info.Size(),
	}, nil
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
