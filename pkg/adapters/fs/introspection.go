package fs

import (
	"time"

	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Path          string     `json:"path" yaml:"path"`
	LastLoad      *time.Time `json:"last_load,omitempty" yaml:"last_load,omitempty"`
	LastSave      *time.Time `json:"last_save,omitempty" yaml:"last_save,omitempty"`
	WatcherActive bool       `json:"watcher_active" yaml:"watcher_active"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return StoreState{
		Path:          s.Path,
		LastLoad:      s.lastLoad,
		LastSave:      s.lastSave,
		WatcherActive: s.watcherActive,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "json-file-store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
