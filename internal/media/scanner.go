package media

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"portfolio-gallery/internal/filesystem"
	"portfolio-gallery/internal/logging"
	"portfolio-gallery/internal/mediatypes"
	"portfolio-gallery/internal/metrics"
)

// Scanner lists the image directory into a Catalog.
//
// Without a watcher every Catalog call rescans the directory. Once a Watcher
// is attached the last scan is reused until the watcher reports a change.
type Scanner struct {
	imageDir string
	retry    filesystem.RetryConfig
	readDir  func(path string, config filesystem.RetryConfig) ([]os.DirEntry, error)

	mu      sync.RWMutex
	cached  Catalog
	valid   bool
	caching bool
	// gen counts invalidations. A scan only marks the cache valid when no
	// invalidation arrived while it ran.
	gen uint64
}

// NewScanner creates a new Scanner instance.
func NewScanner(imageDir string) *Scanner {
	return &Scanner{
		imageDir: imageDir,
		retry:    filesystem.DefaultRetryConfig(),
		readDir:  filesystem.ReadDirWithRetry,
	}
}

// Dir returns the directory being listed.
func (s *Scanner) Dir() string {
	return s.imageDir
}

// Catalog returns the current listing, rescanning unless a watcher keeps the
// cached copy fresh.
func (s *Scanner) Catalog(ctx context.Context) (Catalog, error) {
	s.mu.RLock()
	if s.caching && s.valid {
		cat := s.cached
		s.mu.RUnlock()
		return cat, nil
	}
	gen := s.gen
	s.mu.RUnlock()

	cat, err := s.Scan(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cached = cat
	s.valid = s.gen == gen
	s.mu.Unlock()

	return cat, nil
}

// Len returns the size of the last successful scan.
func (s *Scanner) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cached)
}

// Invalidate forces the next Catalog call to rescan.
func (s *Scanner) Invalidate() {
	s.mu.Lock()
	s.valid = false
	s.gen++
	s.mu.Unlock()
}

func (s *Scanner) enableCaching(enabled bool) {
	s.mu.Lock()
	s.caching = enabled
	s.valid = false
	s.gen++
	s.mu.Unlock()
}

// Scan reads the image directory and returns the sorted catalog. A missing
// directory is an empty catalog, not an error.
func (s *Scanner) Scan(ctx context.Context) (Catalog, error) {
	start := time.Now()
	var err error
	defer func() {
		status := "success"
		if err != nil {
			status = "error"
		}
		metrics.ScannerOperationsTotal.WithLabelValues("scan", status).Inc()
		metrics.ScannerOperationDuration.WithLabelValues("scan").Observe(time.Since(start).Seconds())
	}()

	if err = ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := s.readDir(s.imageDir, s.retry)
	if err != nil {
		if os.IsNotExist(err) {
			logging.Warn("Image directory %s does not exist, catalog is empty", s.imageDir)
			err = nil
			metrics.CatalogEntries.Set(0)
			return Catalog{}, nil
		}
		return nil, err
	}

	metrics.ScannerFilesScanned.Add(float64(len(entries)))

	cat := make(Catalog, 0, len(entries))
	for _, entry := range entries {
		item, ok := s.entryToImage(entry)
		if ok {
			cat = append(cat, item)
		}
	}

	slices.SortFunc(cat, func(a, b ImageEntry) int {
		return strings.Compare(a.Name, b.Name)
	})

	metrics.CatalogEntries.Set(float64(len(cat)))
	logging.Debug("Scanned %s: %d images out of %d entries in %v",
		s.imageDir, len(cat), len(entries), time.Since(start))

	return cat, nil
}

// entryToImage converts a directory entry to an ImageEntry, skipping hidden
// files, directories and anything outside the extension allow-list.
func (s *Scanner) entryToImage(entry os.DirEntry) (ImageEntry, bool) {
	name := entry.Name()
	if strings.HasPrefix(name, ".") || !mediatypes.IsImage(name) {
		return ImageEntry{}, false
	}

	fullPath := filepath.Join(s.imageDir, name)

	var info fs.FileInfo
	var err error
	if entry.Type()&fs.ModeSymlink != 0 {
		info, err = os.Stat(fullPath)
	} else {
		info, err = entry.Info()
	}
	if err != nil {
		logging.Debug("Skipping %s: %v", fullPath, err)
		return ImageEntry{}, false
	}
	if !info.Mode().IsRegular() {
		return ImageEntry{}, false
	}

	return newEntry(name, fullPath, info.Size(), info.ModTime(), mediatypes.MimeTypeFor(name)), true
}
