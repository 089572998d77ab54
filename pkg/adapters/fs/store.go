package fs

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/libris/pkg/core"
)

// DefaultFileName is appended when the configured path names a directory.
const DefaultFileName = "library_data.json"

// Store implements core.Repository on a single JSON document.
type Store struct {
	Path   string
	config Config

	mu            sync.RWMutex
	lastDigest    [sha256.Size]byte
	lastLoad      *time.Time
	lastSave      *time.Time
	watcherActive bool
}

// Config holds the configuration for the file store.
type Config struct {
	Path           string
	Perm           os.FileMode // defaults to 0644
	Logger         *slog.Logger
	IgnorePatterns []string // extra doublestar patterns the watcher skips, e.g. editor swap files
}

// NewStore creates a store for the given path.
func NewStore(config Config) *Store {
	if config.Perm == 0 {
		config.Perm = 0644
	}
	return &Store{
		Path:   ResolvePath(config.Path),
		config: config,
	}
}

// ResolvePath appends DefaultFileName when path names an existing directory.
func ResolvePath(path string) string {
	if path == "" {
		return DefaultFileName
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return filepath.Join(path, DefaultFileName)
	}
	return path
}

// Load reads the document. A missing file is a fresh library; a broken one is
// reported and replaced by an empty state.
func (s *Store) Load(ctx context.Context) (core.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return core.Snapshot{}, err
	}

	data, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		s.logDebug("no data file yet, starting fresh", "path", s.Path)
		s.recordLoad(nil)
		return core.Snapshot{}, nil
	}
	if err != nil {
		s.logWarn("failed to open data file", "path", s.Path, "error", err)
		return core.Snapshot{}, fmt.Errorf("%w: failed to read %s: %w", core.ErrPersistence, s.Path, err)
	}

	snap, err := decodeSnapshot(data)
	if err != nil {
		s.logWarn("failed to parse data file", "path", s.Path, "error", err)
		return core.Snapshot{}, fmt.Errorf("%w: failed to parse %s: %w", core.ErrPersistence, s.Path, err)
	}

	s.recordLoad(data)
	return snap, nil
}

// Save writes the whole snapshot through a temporary sibling and an atomic
// rename.
func (s *Store) Save(ctx context.Context, snap core.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := encodeSnapshot(snap)
	if err != nil {
		return fmt.Errorf("%w: failed to encode library: %w", core.ErrPersistence, err)
	}

	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		s.logError("failed to create data directory", "path", s.Path, "error", err)
		return fmt.Errorf("%w: failed to create directory: %w", core.ErrPersistence, err)
	}

	// The digest is recorded before the rename so the watcher never mistakes
	// our own write for a foreign one.
	s.mu.Lock()
	previous := s.lastDigest
	s.lastDigest = sha256.Sum256(data)
	s.mu.Unlock()

	if err := writeFileAtomic(s.Path, data, s.config.Perm); err != nil {
		s.mu.Lock()
		s.lastDigest = previous
		s.mu.Unlock()
		s.logError("failed to save data file", "path", s.Path, "error", err)
		return fmt.Errorf("%w: %w", core.ErrPersistence, err)
	}

	s.mu.Lock()
	now := time.Now()
	s.lastSave = &now
	s.mu.Unlock()

	s.logDebug("library saved", "path", s.Path, "bytes", len(data))
	return nil
}

func (s *Store) recordLoad(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if data != nil {
		s.lastDigest = sha256.Sum256(data)
	}
	now := time.Now()
	s.lastLoad = &now
}

// ownContent reports whether data is what this process last loaded or saved.
func (s *Store) ownContent(data []byte) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sha256.Sum256(data) == s.lastDigest
}

func (s *Store) logDebug(msg string, args ...any) {
	if s.config.Logger != nil {
		s.config.Logger.Debug(msg, args...)
	}
}

func (s *Store) logWarn(msg string, args ...any) {
	if s.config.Logger != nil {
		s.config.Logger.Warn(msg, args...)
	}
}

func (s *Store) logError(msg string, args ...any) {
	if s.config.Logger != nil {
		s.config.Logger.Error(msg, args...)
	}
}

var _ core.Repository = (*Store)(nil)
