package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/libris/pkg/core"
)

// Watch reports changes of the data file made by other processes. Writes done
// through this Store are recognised by content and not reported. The channel
// is closed when ctx is done.
func (s *Store) Watch(ctx context.Context) (<-chan core.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	// The file itself is replaced on every save, so watch its directory.
	dir := filepath.Dir(s.Path)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	events := make(chan core.Event)
	s.setWatcherActive(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(events)
		defer s.setWatcherActive(false)
		defer watcher.Close()
		return s.watchLoop(ctx, watcher, events)
	}, lifecycle.WithErrorHandler(func(err error) {
		s.logError("data file watcher stopped", "error", err)
	}))

	return events, nil
}

func (s *Store) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, events chan<- core.Event) error {
	var lastSeen []byte
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}

			s.logDebug("event received", "name", event.Name, "op", event.Op.String())
			if s.shouldIgnore(event.Name) {
				continue
			}

			eType := mapEventType(event)
			if eType == "" {
				continue
			}

			if eType != core.EventDelete {
				data, err := os.ReadFile(s.Path)
				if err != nil {
					continue
				}
				if s.ownContent(data) || string(data) == string(lastSeen) {
					continue
				}
				lastSeen = data
			} else {
				lastSeen = nil
			}

			select {
			case events <- core.Event{Type: eType, Path: s.Path, Timestamp: time.Now().Unix()}:
			case <-ctx.Done():
				return nil
			}

		case wErr, ok := <-watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			s.logError("fsnotify error", "error", wErr)
		}
	}
}

// shouldIgnore filters out everything but the data file itself: temporary
// siblings of atomic writes, unrelated files in the directory and any
// configured ignore pattern.
func (s *Store) shouldIgnore(name string) bool {
	base := filepath.Base(name)
	patterns := append([]string{"*" + tempSuffix + "*"}, s.config.IgnorePatterns...)
	for _, p := range patterns {
		matched, err := doublestar.Match(p, base)
		if err != nil {
			s.logWarn("invalid ignore pattern", "pattern", p, "error", err)
			continue
		}
		if matched {
			return true
		}
	}
	return base != filepath.Base(s.Path)
}

func mapEventType(event fsnotify.Event) core.EventType {
	switch {
	case event.Has(fsnotify.Create):
		return core.EventCreate
	case event.Has(fsnotify.Write):
		return core.EventModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return core.EventDelete
	default:
		return ""
	}
}

func (s *Store) setWatcherActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watcherActive = active
}

var _ core.Watchable = (*Store)(nil)
