package fs_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/libris/pkg/adapters/fs"
	"github.com/aretw0/libris/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, path string) *fs.Store {
	t.Helper()
	return fs.NewStore(fs.Config{
		Path:   path,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func sampleSnapshot() core.Snapshot {
	borrowed := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)
	returned := borrowed.AddDate(0, 0, 16)
	return core.Snapshot{
		Books: []core.Book{
			{ID: 1, Name: "Dune", Price: 20, Available: true},
			{ID: 2, Name: "Emma", Price: 15, Available: false},
		},
		Students: []core.Student{
			{RegID: 100, Name: "Ann"},
			{RegID: 101, Name: "Bob"},
		},
		Loans: []core.Loan{
			{ID: 1, BookID: 1, StudentRegID: 100, BorrowedAt: borrowed, DueAt: borrowed.AddDate(0, 0, 14), ReturnedAt: &returned},
			{ID: 2, BookID: 2, StudentRegID: 101, BorrowedAt: borrowed, DueAt: borrowed.AddDate(0, 0, 14)},
		},
	}
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "library_data.json")
	store := newStore(t, path)

	want := sampleSnapshot()
	require.NoError(t, store.Save(ctx, want))

	got, err := newStore(t, path).Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, want.Books, got.Books)
	assert.Equal(t, want.Students, got.Students)
	require.Len(t, got.Loans, len(want.Loans))
	for i := range want.Loans {
		w, g := want.Loans[i], got.Loans[i]
		assert.Equal(t, w.ID, g.ID)
		assert.Equal(t, w.BookID, g.BookID)
		assert.Equal(t, w.StudentRegID, g.StudentRegID)
		assert.True(t, w.BorrowedAt.Equal(g.BorrowedAt), "borrowed_at of loan %d", w.ID)
		assert.True(t, w.DueAt.Equal(g.DueAt), "due_at of loan %d", w.ID)
		if w.ReturnedAt == nil {
			assert.Nil(t, g.ReturnedAt)
		} else {
			require.NotNil(t, g.ReturnedAt)
			assert.True(t, w.ReturnedAt.Equal(*g.ReturnedAt))
		}
	}
}

func TestStore_MissingFileIsFresh(t *testing.T) {
	store := newStore(t, filepath.Join(t.TempDir(), "nope.json"))

	snap, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Books)
	assert.Empty(t, snap.Students)
	assert.Empty(t, snap.Loans)
}

func TestStore_MalformedFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"Truncated", `{"book_list": [{"book_id": 1, "na`},
		{"Trailing Garbage", `{"book_list": [{"book_id": 1, "name": "Dune", "price": 20}]} garbage`},
		{"Second Document", `{"book_list": []}{"book_list": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "library_data.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			snap, err := newStore(t, path).Load(context.Background())
			assert.ErrorIs(t, err, core.ErrPersistence)
			assert.Empty(t, snap.Books)
			assert.Empty(t, snap.Students)
			assert.Empty(t, snap.Loans)
		})
	}
}

func TestStore_DirectoryPathGetsFileName(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := newStore(t, dir)
	assert.Equal(t, filepath.Join(dir, fs.DefaultFileName), store.Path)

	require.NoError(t, store.Save(ctx, sampleSnapshot()))
	_, err := os.Stat(filepath.Join(dir, fs.DefaultFileName))
	assert.NoError(t, err)
}

func TestStore_SaveCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "library_data.json")
	require.NoError(t, newStore(t, path).Save(context.Background(), sampleSnapshot()))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestStore_FailedSaveKeepsPreviousFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "library_data.json")
	store := newStore(t, path)

	require.NoError(t, store.Save(ctx, sampleSnapshot()))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	// Replace the file by a non-empty directory so the rename must fail.
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.Mkdir(path, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(path, "keep"), before, 0644))

	err = store.Save(ctx, core.Snapshot{})
	assert.ErrorIs(t, err, core.ErrPersistence)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.Contains(e.Name(), ".tmp-"), "temp file left behind: %s", e.Name())
	}
	kept, err := os.ReadFile(filepath.Join(path, "keep"))
	require.NoError(t, err)
	assert.Equal(t, before, kept)
}

func TestStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := newStore(t, filepath.Join(t.TempDir(), "library_data.json"))
	assert.ErrorIs(t, store.Save(ctx, sampleSnapshot()), context.Canceled)
	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_State(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, filepath.Join(t.TempDir(), "library_data.json"))

	state := store.State().(fs.StoreState)
	assert.Nil(t, state.LastSave)

	require.NoError(t, store.Save(ctx, sampleSnapshot()))
	state = store.State().(fs.StoreState)
	assert.NotNil(t, state.LastSave)
	assert.Equal(t, store.Path, state.Path)
	assert.False(t, state.WatcherActive)
	assert.Equal(t, "json-file-store", store.ComponentType())
}

func TestStore_WithService(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "library_data.json")

	svc := core.NewService(newStore(t, path))
	require.NoError(t, svc.Load(ctx))
	_, err := svc.AddBook(1, "Dune", 20)
	require.NoError(t, err)
	_, err = svc.RegisterStudent(100, "Ann")
	require.NoError(t, err)
	_, err = svc.Borrow(100, 1)
	require.NoError(t, err)
	require.NoError(t, svc.Save(ctx))

	again := core.NewService(newStore(t, path))
	require.NoError(t, again.Load(ctx))
	book, err := again.FindBook(1)
	require.NoError(t, err)
	assert.False(t, book.Available)
	assert.Len(t, again.ActiveLoans(), 1)
	assert.Empty(t, again.Verify())
}
