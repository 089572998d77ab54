package libris

import (
	"log/slog"
	"time"

	"github.com/aretw0/libris/internal/platform"
	"github.com/aretw0/libris/pkg/core"
)

// --- Types ---

// Service is the engine facade.
type Service = core.Service

// Policy holds the lending rules.
type Policy = core.Policy

// Config is the content of the optional YAML configuration file.
type Config = platform.Config

// --- Configuration ---

// Option defines a functional option for configuring the library.
type Option = platform.Option

// WithLogger sets the logger for the service and the store.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRepository allows injecting a custom storage adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithPolicy overrides the lending rules.
func WithPolicy(p Policy) Option {
	return platform.WithPolicy(p)
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return platform.WithClock(now)
}

// WithWatchIgnore adds patterns the data file watcher skips.
func WithWatchIgnore(patterns ...string) Option {
	return platform.WithWatchIgnore(patterns...)
}

// WithConfig applies a loaded configuration file.
func WithConfig(cfg Config) Option {
	return platform.WithConfig(cfg)
}

// LoadConfig reads a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	return platform.LoadConfig(path)
}

// ResolveDataPath picks the data file from the environment, the configuration
// and the command line, in that order.
func ResolveDataPath(cfg Config, argPath string) string {
	return platform.ResolveDataPath(cfg, argPath)
}

// --- Factory ---

// New creates a new library Service backed by the data file at path.
func New(path string, opts ...Option) (*Service, error) {
	return platform.New(path, opts...)
}
