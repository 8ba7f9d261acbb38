package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Logger defines the logging interface needed by the config watcher.
type Logger interface {
	Infof(string, ...any)
	Errorf(string, ...any)
}

const debounce = 500 * time.Millisecond

// WatchFile watches a single config file for changes and reloads it into the Store.
// On successful reload, the store is updated; on error, the old config is kept.
// Settings given on the command line are re-applied by override after each reload.
// Returns a stop function to cleanly shut down the watcher, or an error if setup fails.
func WatchFile(path string, store *Store, override func(*Config), logger Logger) (stop func(), err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	// Editors replace files by rename, which drops a watch on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch file: %w", err)
	}
	target := filepath.Clean(path)

	done := make(chan struct{})

	go func() {
		defer watcher.Close()

		var pending <-chan time.Time
		for {
			select {
			case <-done:
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					logger.Infof("config file change detected: %s", ev.Name)
					pending = time.After(debounce)
				}
			case <-pending:
				pending = nil
				cfg, err := Load(path)
				if err != nil {
					logger.Errorf("failed to reload config: %v", err)
					continue
				}
				if override != nil {
					override(cfg)
					if err := Validate(cfg); err != nil {
						logger.Errorf("failed to reload config: %v", err)
						continue
					}
				}
				store.Update(cfg)
				logger.Infof("config reloaded successfully (format=%q)", cfg.Parser.Format)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Errorf("config watcher error: %v", err)
			}
		}
	}()

	return func() { close(done) }, nil
}
