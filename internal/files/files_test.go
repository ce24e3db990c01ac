package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordercli/internal/config"
)

func testManager(t *testing.T) (*Manager, *config.Paths) {
	t.Helper()
	paths := config.PathsFromBase(t.TempDir())
	require.NoError(t, paths.EnsureDirectories())
	return NewManager(paths, nil), paths
}

func writeFile(t *testing.T, dir, name string, modTime time.Time) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("ref;qty\n"), 0o644))
	if !modTime.IsZero() {
		require.NoError(t, os.Chtimes(path, modTime, modTime))
	}
}

func TestManager_ListDownloads(t *testing.T) {
	m, paths := testManager(t)

	older := time.Now().Add(-2 * time.Hour)
	writeFile(t, paths.DownloadsDir, "old.csv", older)
	writeFile(t, paths.DownloadsDir, "new.xlsx", time.Now())
	writeFile(t, paths.DownloadsDir, "notes.txt", time.Time{})

	files, err := m.ListDownloads()
	require.NoError(t, err)
	require.Len(t, files, 2)

	// newest first, non order files filtered out
	assert.Equal(t, "new.xlsx", files[0].Name)
	assert.Equal(t, "old.csv", files[1].Name)
}

func TestManager_ListExportsEmpty(t *testing.T) {
	m, _ := testManager(t)
	files, err := m.ListExports()
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestManager_ListMissingDirectory(t *testing.T) {
	paths := config.PathsFromBase(t.TempDir())
	m := NewManager(paths, nil)

	files, err := m.ListDownloads()
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestManager_RemoveExport(t *testing.T) {
	m, paths := testManager(t)
	writeFile(t, paths.ExportsDir, "honda_15-01-25.csv", time.Time{})

	require.NoError(t, m.RemoveExport("honda_15-01-25.csv"))
	_, err := os.Stat(filepath.Join(paths.ExportsDir, "honda_15-01-25.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestManager_RemoveExportRejectsPaths(t *testing.T) {
	m, _ := testManager(t)

	assert.Error(t, m.RemoveExport("../suppliers.db"))
	assert.Error(t, m.RemoveExport("sub/evil.csv"))
	assert.Error(t, m.RemoveExport(""))
}

func TestManager_RemoveExportMissing(t *testing.T) {
	m, _ := testManager(t)
	assert.Error(t, m.RemoveExport("nothing.csv"))
}

func TestManager_PruneDownloads(t *testing.T) {
	m, paths := testManager(t)

	writeFile(t, paths.DownloadsDir, "stale.csv", time.Now().Add(-72*time.Hour))
	writeFile(t, paths.DownloadsDir, "fresh.csv", time.Now())

	removed, err := m.PruneDownloads(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	files, err := m.ListDownloads()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "fresh.csv", files[0].Name)
}
