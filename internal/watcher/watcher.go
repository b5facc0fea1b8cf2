package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/caption-digest/internal/logger"
)

var videoExtensions = []string{".mp4", ".mov", ".avi", ".mkv", ".webm", ".m4v", ".flv"}

type implWatcher struct {
	cfg     Config
	handler EventHandler
	logger  logger.Logger
	watcher *fsnotify.Watcher
	seen    map[string]bool
}

// Start begins monitoring the input directory for new video files
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "File watcher started. Monitoring: %s", w.cfg.InputDir)
	w.logger.Info(ctx, "Supported formats: %s", strings.Join(videoExtensions, ", "))

	if w.cfg.ScanExisting {
		if err := w.scan(ctx); err != nil {
			w.logger.Warn(ctx, "Scan of %s failed: %v", w.cfg.InputDir, err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "File watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			// Only process CREATE events
			if event.Op&fsnotify.Create != fsnotify.Create {
				continue
			}
			if !isVideoFile(event.Name) {
				w.logger.Debug(ctx, "Ignoring non-video file: %s", event.Name)
				continue
			}

			w.logger.Info(ctx, "New video detected: %s", event.Name)
			if w.cfg.Settle > 0 {
				select {
				case <-time.After(w.cfg.Settle):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			w.dispatch(ctx, event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

func (w *implWatcher) dispatch(ctx context.Context, path string) {
	if w.seen[path] {
		w.logger.Debug(ctx, "Already dispatched: %s", path)
		return
	}
	w.seen[path] = true

	if err := w.handler(ctx, path); err != nil {
		w.logger.Error(ctx, "Failed to handle %s: %v", path, err)
	}
}

// scan dispatches the videos already present, in name order.
func (w *implWatcher) scan(ctx context.Context) error {
	entries, err := os.ReadDir(w.cfg.InputDir)
	if err != nil {
		return err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || !isVideoFile(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		w.dispatch(ctx, filepath.Join(w.cfg.InputDir, name))
	}
	return nil
}

// isVideoFile checks if the file has a supported video extension
func isVideoFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range videoExtensions {
		if ext == format {
			return true
		}
	}
	return false
}
