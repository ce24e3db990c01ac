package http

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordercli/internal/config"
	"ordercli/internal/files"
)

func exportsFixture(t *testing.T) (*ExportsHandler, *config.Paths) {
	t.Helper()
	paths := config.PathsFromBase(t.TempDir())
	require.NoError(t, paths.EnsureDirectories())
	return NewExportsHandler(files.NewManager(paths, testLogger()), testLogger()), paths
}

func TestExportsHandler_List(t *testing.T) {
	handler, paths := exportsFixture(t)

	require.NoError(t, os.WriteFile(filepath.Join(paths.ExportsDir, "honda_15-01-25.csv"), []byte("100;2\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(paths.ExportsDir, "yamaha_15-01-25.xlsx"), []byte("x"), 0o644))

	rec := doRequest(t, handler.Routes(), http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(2), body["count"])
}

func TestExportsHandler_Remove(t *testing.T) {
	handler, paths := exportsFixture(t)
	target := filepath.Join(paths.ExportsDir, "honda_15-01-25.csv")
	require.NoError(t, os.WriteFile(target, []byte("100;2\n"), 0o644))

	rec := doRequest(t, handler.Routes(), http.MethodDelete, "/honda_15-01-25.csv", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	_, err := os.Stat(target)
	assert.True(t, os.IsNotExist(err))
}

func TestExportsHandler_RemoveMissing(t *testing.T) {
	handler, _ := exportsFixture(t)

	rec := doRequest(t, handler.Routes(), http.MethodDelete, "/nothing.csv", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
