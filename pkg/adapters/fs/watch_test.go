package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/libris/pkg/adapters/fs"
	"github.com/aretw0/libris/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_WatchReportsForeignWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "library_data.json")
	store := newStore(t, path)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, store.Save(ctx, sampleSnapshot()))

	events, err := store.Watch(ctx)
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return store.State().(fs.StoreState).WatcherActive
	}, time.Second, 10*time.Millisecond)

	// Our own saves and unrelated files stay silent.
	require.NoError(t, store.Save(ctx, core.Snapshot{}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0644))
	select {
	case e := <-events:
		t.Fatalf("unexpected event for own write: %v", e)
	case <-time.After(300 * time.Millisecond):
	}

	// Another process rewrites the file.
	require.NoError(t, os.WriteFile(path, []byte(`{"book_list": []}`), 0644))
	select {
	case e := <-events:
		assert.Equal(t, path, e.Path)
		assert.Contains(t, []core.EventType{core.EventCreate, core.EventModify}, e.Type)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for foreign write event")
	}

	cancel()
	require.Eventually(t, func() bool {
		for {
			select {
			case _, ok := <-events:
				if !ok {
					return true
				}
			default:
				return false
			}
		}
	}, 3*time.Second, 20*time.Millisecond, "events channel should close after cancel")
}

func TestStore_WatchMissingDirectory(t *testing.T) {
	store := newStore(t, filepath.Join(t.TempDir(), "missing", "library_data.json"))
	_, err := store.Watch(context.Background())
	assert.Error(t, err)
}

func TestService_WatchDelegatesToStore(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := core.NewService(newStore(t, filepath.Join(t.TempDir(), "library_data.json")))
	events, err := svc.Watch(ctx)
	require.NoError(t, err)
	assert.NotNil(t, events)
}
