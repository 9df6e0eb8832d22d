package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/croptrack/internal/catalog"
	"git.home.luguber.info/inful/croptrack/internal/logfields"
)

// CatalogWatcher monitors the catalog file and swaps a freshly loaded
// catalog into the tracker when it changes.
type CatalogWatcher struct {
	catalogPath  string
	guard        *Guard
	watcher      *fsnotify.Watcher
	reloadChan   chan struct{}
	debounceTime time.Duration
}

// NewCatalogWatcher creates a watcher for the given catalog file.
func NewCatalogWatcher(catalogPath string, guard *Guard) (*CatalogWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	// Resolve absolute path for consistent watching
	absPath, err := filepath.Abs(catalogPath)
	if err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("resolve catalog path: %w", err)
	}

	return &CatalogWatcher{
		catalogPath:  absPath,
		guard:        guard,
		watcher:      watcher,
		reloadChan:   make(chan struct{}, 1),
		debounceTime: 2 * time.Second, // Debounce rapid file changes
	}, nil
}

// Start begins monitoring the catalog file until ctx is canceled.
func (cw *CatalogWatcher) Start(ctx context.Context) error {
	// Watch the directory containing the catalog (more reliable than
	// watching the file directly; editors replace files on save).
	dir := filepath.Dir(cw.catalogPath)
	if err := cw.watcher.Add(dir); err != nil {
		return fmt.Errorf("watch catalog directory %s: %w", dir, err)
	}

	slog.Info("Starting catalog watcher", logfields.Path(cw.catalogPath))

	go cw.watchLoop(ctx)
	go cw.reloadLoop(ctx)

	return nil
}

// Stop closes the underlying file system watcher.
func (cw *CatalogWatcher) Stop() error {
	return cw.watcher.Close()
}

func (cw *CatalogWatcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if event.Name != cw.catalogPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			// Coalesce bursts; reloadLoop drains at most one pending signal.
			select {
			case cw.reloadChan <- struct{}{}:
			default:
			}
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Catalog watcher error", logfields.Error(err))
		}
	}
}

func (cw *CatalogWatcher) reloadLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-cw.reloadChan:
			timer := time.NewTimer(cw.debounceTime)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
			cw.reload()
		}
	}
}

func (cw *CatalogWatcher) reload() {
	cat, err := catalog.Load(cw.catalogPath)
	if err != nil {
		// Keep serving the previous catalog; a half-written file must not
		// take the tracker down.
		slog.Error("Catalog reload failed", logfields.Path(cw.catalogPath), logfields.Error(err))
		return
	}
	cw.guard.ReplaceCatalog(cat)
	slog.Info("Catalog reloaded", logfields.Path(cw.catalogPath))
}
