package config

import (
	"context"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// debounceDuration is the quiescence window the hot-reload watcher waits
// for before acting on a burst of filesystem events.
const debounceDuration = 100 * time.Millisecond

// Watch starts a filesystem watcher on the config directory and returns
// once it is installed. It runs its event loop on a dedicated goroutine
// until ctx is canceled, collapsing bursts of create/write/remove events
// on *.toml files into a single reload after debounceDuration of
// quiescence.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(s.paths.Dir()); err != nil {
		watcher.Close()
		return err
	}

	go s.watchLoop(ctx, watcher)
	return nil
}

func (s *Store) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()

	timer := time.NewTimer(debounceDuration)
	timer.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(event.Name, ".toml") {
				continue
			}
			if !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)) {
				continue
			}
			pending = true
			timer.Reset(debounceDuration)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			if s.logger != nil {
				s.logger.Warn("config watcher error", zap.Error(err))
			}

		case <-timer.C:
			if !pending {
				continue
			}
			pending = false
			s.reloadFromDisk()
		}
	}
}

func (s *Store) reloadFromDisk() {
	doc, err := LoadWithImports(s.paths.MainConfig())
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("config hot reload failed", zap.Error(err), zap.String("path", s.paths.MainConfig()))
		}
		return
	}
	if err := s.reload(doc.table); err != nil {
		if s.logger != nil {
			s.logger.Warn("config hot reload apply failed", zap.Error(err))
		}
	}
}
