package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/caption-digest/internal/logger"
)

// Config tunes a Watcher
type Config struct {
	InputDir string
	// Settle is how long to wait after a create event before handling the
	// file, so the writer can finish
	Settle time.Duration
	// ScanExisting dispatches videos already in InputDir on Start
	ScanExisting bool
}

// New creates a new Watcher instance
func New(cfg Config, handler EventHandler, log logger.Logger) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(cfg.InputDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if cfg.Settle < 0 {
		cfg.Settle = 0
	}

	return &implWatcher{
		cfg:     cfg,
		handler: handler,
		logger:  log,
		watcher: watcher,
		seen:    make(map[string]bool),
	}, nil
}
