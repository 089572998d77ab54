// Package lifecycle exposes data-file changes made by other processes as a
// lifecycle.Source.
package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/libris/pkg/core"
)

// DefaultQuietPeriod is how long the source waits for more filesystem events
// before reporting a change.
const DefaultQuietPeriod = 250 * time.Millisecond

// ChangeEvent reports that the data file was rewritten or removed by another
// process. One external save usually produces several filesystem events
// (create, write, rename); they are merged into a single ChangeEvent.
type ChangeEvent struct {
	Path   string
	Type   core.EventType // type of the last merged event
	At     time.Time
	Merged int
}

// Removed reports whether the data file is gone.
func (e ChangeEvent) Removed() bool {
	return e.Type == core.EventDelete
}

func (e ChangeEvent) String() string {
	if e.Removed() {
		return fmt.Sprintf("data file %s was removed", e.Path)
	}
	return fmt.Sprintf("data file %s was rewritten (%d event(s))", e.Path, e.Merged)
}

// Option configures the source.
type Option func(*changeSource)

// WithQuietPeriod overrides DefaultQuietPeriod.
func WithQuietPeriod(d time.Duration) Option {
	return func(s *changeSource) {
		if d > 0 {
			s.quiet = d
		}
	}
}

type changeSource struct {
	events <-chan core.Event
	out    chan lifecycle.Event
	quiet  time.Duration
}

// NewSource wraps the channel returned by Service.Watch.
func NewSource(events <-chan core.Event, opts ...Option) lifecycle.Source {
	s := &changeSource{
		events: events,
		out:    make(chan lifecycle.Event),
		quiet:  DefaultQuietPeriod,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *changeSource) Events() <-chan lifecycle.Event {
	return s.out
}

// Start merges and forwards events until ctx ends or the watch channel
// closes. A change still pending when the watch channel closes is delivered
// first. The output channel is closed in both cases.
func (s *changeSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)

		var (
			pending *ChangeEvent
			timer   *time.Timer
			fire    <-chan time.Time
		)
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()

		flush := func() bool {
			select {
			case s.out <- *pending:
				pending = nil
				fire = nil
				return true
			case <-ctx.Done():
				return false
			}
		}

		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					if pending != nil {
						flush()
					}
					return nil
				}
				if pending == nil {
					pending = &ChangeEvent{Path: e.Path}
				}
				pending.Type = e.Type
				pending.At = time.Unix(e.Timestamp, 0)
				pending.Merged++

				if timer == nil {
					timer = time.NewTimer(s.quiet)
				} else {
					timer.Reset(s.quiet)
				}
				fire = timer.C
			case <-fire:
				if !flush() {
					return nil
				}
			}
		}
	})
	return nil
}
