package lifecycle

import (
	"context"
	"testing"
	"time"

	golifecycle "github.com/aretw0/lifecycle"
	"github.com/aretw0/libris/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, events <-chan golifecycle.Event) ChangeEvent {
	t.Helper()
	select {
	case e, ok := <-events:
		require.True(t, ok, "channel closed before an event arrived")
		change, ok := e.(ChangeEvent)
		require.True(t, ok, "unexpected event type %T", e)
		return change
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a change")
	}
	return ChangeEvent{}
}

func TestSource_MergesBurst(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan core.Event)
	src := NewSource(in, WithQuietPeriod(50*time.Millisecond))
	require.NoError(t, src.Start(ctx))

	in <- core.Event{Type: core.EventCreate, Path: "library_data.json", Timestamp: 1}
	in <- core.Event{Type: core.EventModify, Path: "library_data.json", Timestamp: 2}
	in <- core.Event{Type: core.EventModify, Path: "library_data.json", Timestamp: 3}

	change := receive(t, src.Events())
	assert.Equal(t, "library_data.json", change.Path)
	assert.Equal(t, core.EventModify, change.Type)
	assert.Equal(t, 3, change.Merged)
	assert.Equal(t, time.Unix(3, 0), change.At)
	assert.False(t, change.Removed())
	assert.Contains(t, change.String(), "rewritten")

	// A later change is reported on its own.
	in <- core.Event{Type: core.EventDelete, Path: "library_data.json", Timestamp: 9}
	change = receive(t, src.Events())
	assert.Equal(t, 1, change.Merged)
	assert.True(t, change.Removed())
	assert.Contains(t, change.String(), "removed")
}

func TestSource_FlushesPendingOnClose(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan core.Event, 1)
	src := NewSource(in, WithQuietPeriod(time.Hour))
	require.NoError(t, src.Start(ctx))

	in <- core.Event{Type: core.EventModify, Path: "library_data.json", Timestamp: 1}
	close(in)

	change := receive(t, src.Events())
	assert.Equal(t, 1, change.Merged)

	select {
	case _, ok := <-src.Events():
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("output not closed after input closed")
	}
}

func TestSource_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := NewSource(make(chan core.Event))
	require.NoError(t, src.Start(ctx))

	cancel()
	select {
	case _, ok := <-src.Events():
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("output not closed after cancel")
	}
}
