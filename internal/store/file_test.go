package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	require.NoError(t, err)

	_, ok := fs.Get(KeyTasks)
	assert.False(t, ok, "absent document reports ok=false")

	require.NoError(t, fs.Set(KeyTasks, `[{"id":"t1"}]`))
	got, ok := fs.Get(KeyTasks)
	require.True(t, ok)
	assert.Equal(t, `[{"id":"t1"}]`, got)

	// Documents land as per-key JSON files.
	_, err = os.Stat(filepath.Join(dir, KeyTasks+".json"))
	assert.NoError(t, err)
}

func TestFileStoreBacksTaskStore(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	require.NoError(t, err)

	ts := New(fs, testLogger())
	created := ts.UpsertTask(TaskPatch{Name: strptr("read paper"), HoursNeeded: intptr(3)})
	require.NoError(t, ts.SetScheduleHours(created.ID, "2026-03-02", 2))

	fresh, err := NewFileStore(dir)
	require.NoError(t, err)
	reloaded := New(fresh, testLogger())
	reloaded.Load()

	assert.Equal(t, ts.Tasks(), reloaded.Tasks())
	assert.Equal(t, ts.Config(), reloaded.Config())
}

func TestNewFileStoreCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "store")

	_, err := NewFileStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
