package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"safecalc/internal/settings"
)

// Watcher reloads a settings file whenever it is written, created or
// replaced. The parent directory is watched so editors that save through
// rename are picked up too.
type Watcher struct {
	path     string
	onChange func(settings.Settings)
	logger   *zap.Logger
	watcher  *fsnotify.Watcher
}

// NewWatcher prepares a watcher for path. onChange receives every
// successfully parsed version of the file.
func NewWatcher(path string, onChange func(settings.Settings), logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create settings watcher: %w", err)
	}
	if err := fsWatcher.Add(dir); err != nil {
		_ = fsWatcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	return &Watcher{
		path:     filepath.Clean(path),
		onChange: onChange,
		logger:   logger,
		watcher:  fsWatcher,
	}, nil
}

// Run delivers reloads until ctx is cancelled, then releases the watcher.
func (watcher *Watcher) Run(ctx context.Context) error {
	defer func() {
		_ = watcher.watcher.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != watcher.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			watcher.reload()
		case err, ok := <-watcher.watcher.Errors:
			if !ok {
				return nil
			}
			watcher.logger.Warn("settings watcher error", zap.Error(err))
		}
	}
}

func (watcher *Watcher) reload() {
	prefs, err := LoadFile(watcher.path)
	if err != nil {
		watcher.logger.Warn("settings reload failed", zap.String("path", watcher.path), zap.Error(err))
		return
	}
	if err := prefs.Validate(); err != nil {
		watcher.logger.Warn("settings reload rejected", zap.String("path", watcher.path), zap.Error(err))
		return
	}
	watcher.logger.Info("settings reloaded", zap.String("path", watcher.path))
	if watcher.onChange != nil {
		watcher.onChange(prefs)
	}
}
