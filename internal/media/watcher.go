package media

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"portfolio-gallery/internal/logging"
	"portfolio-gallery/internal/mediatypes"
	"portfolio-gallery/internal/metrics"

	"github.com/fsnotify/fsnotify"
)

// Invalidator drops derived state for source files. *Normalizer implements it.
type Invalidator interface {
	Invalidate(path string)
	Purge()
}

// Watcher keeps a Scanner's cached catalog and any Invalidators in step with
// the image directory.
type Watcher struct {
	scanner      *Scanner
	invalidators []Invalidator
	watcher      *fsnotify.Watcher
	done         chan struct{}
	stopOnce     sync.Once
}

// NewWatcher starts watching the scanner's directory. Call Start to begin
// processing events.
func NewWatcher(scanner *Scanner, invalidators ...Invalidator) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		metrics.ScannerWatcherErrors.Inc()
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := fw.Add(scanner.Dir()); err != nil {
		metrics.ScannerWatcherErrors.Inc()
		if closeErr := fw.Close(); closeErr != nil {
			logging.Error("failed to close file watcher: %v", closeErr)
		}
		return nil, fmt.Errorf("watch %s: %w", scanner.Dir(), err)
	}

	return &Watcher{
		scanner:      scanner,
		invalidators: invalidators,
		watcher:      fw,
		done:         make(chan struct{}),
	}, nil
}

// Start enables catalog caching on the scanner and processes events in the
// background until Stop is called.
func (w *Watcher) Start() {
	w.scanner.enableCaching(true)
	logging.Debug("Watcher started on %s", w.scanner.Dir())
	go w.processEvents()
}

// Stop closes the underlying watcher and reverts the scanner to rescanning
// on every Catalog call.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		err = w.watcher.Close()
		<-w.done
		w.scanner.enableCaching(false)
	})
	return err
}

func (w *Watcher) processEvents() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Events may have been dropped; nothing cached can be trusted.
			logging.Error("Watcher error: %v", err)
			metrics.ScannerWatcherErrors.Inc()
			w.scanner.Invalidate()
			for _, inv := range w.invalidators {
				inv.Purge()
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") || !mediatypes.IsImage(name) {
		return
	}

	metrics.ScannerWatcherEventsTotal.WithLabelValues(eventType(event.Op)).Inc()

	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	logging.Debug("Watcher: %s %s", event.Op, name)
	w.scanner.Invalidate()

	for _, inv := range w.invalidators {
		inv.Invalidate(event.Name)
	}
}

// eventType returns a string representation of the fsnotify operation
func eventType(op fsnotify.Op) string {
	switch {
	case op&fsnotify.Create != 0:
		return "create"
	case op&fsnotify.Write != 0:
		return "write"
	case op&fsnotify.Remove != 0:
		return "remove"
	case op&fsnotify.Rename != 0:
		return "rename"
	case op&fsnotify.Chmod != 0:
		return "chmod"
	default:
		return "unknown"
	}
}
