package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/libris/pkg/core"
)

// options holds the internal configuration for the library service.
type options struct {
	repository     core.Repository
	logger         *slog.Logger
	policy         *core.Policy
	clock          func() time.Time
	ignorePatterns []string
}

// Option defines a functional option for configuring the library.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{}
}

// WithLogger sets the logger for the service and the store.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRepository allows injecting a custom storage adapter (e.g. a mock).
// If provided, the default JSON file store is skipped.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithPolicy overrides the lending rules.
func WithPolicy(p core.Policy) Option {
	return func(o *options) {
		o.policy = &p
	}
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.clock = now
	}
}

// WithWatchIgnore adds doublestar patterns the data file watcher skips.
func WithWatchIgnore(patterns ...string) Option {
	return func(o *options) {
		o.ignorePatterns = append(o.ignorePatterns, patterns...)
	}
}

// WithConfig applies every setting of a loaded configuration file.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		p := cfg.Policy
		o.policy = &p
		o.ignorePatterns = append(o.ignorePatterns, cfg.WatchIgnore...)
	}
}
