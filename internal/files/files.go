// Package files manages the local staging areas: downloaded source
// files wait under the downloads directory and rendered outputs land
// in the exports directory. It knows nothing about the remote server.
package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"ordercli/internal/config"
)

// FileInfo describes one file in a staging area
type FileInfo struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// orderExtensions are the file types the staging areas deal with
var orderExtensions = map[string]bool{
	".csv":  true,
	".xlsx": true,
	".xls":  true,
}

// Manager provides staging area operations
type Manager struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewManager creates a new staging area manager
func NewManager(paths *config.Paths, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		paths:  paths,
		logger: logger.With(slog.String("component", "files")),
	}
}

// ListDownloads returns the staged source files, newest first
func (m *Manager) ListDownloads() ([]FileInfo, error) {
	return listDir(m.paths.DownloadsDir)
}

// ListExports returns the rendered outputs, newest first
func (m *Manager) ListExports() ([]FileInfo, error) {
	return listDir(m.paths.ExportsDir)
}

// RemoveExport deletes one rendered output by name. The name must not
// escape the exports directory.
func (m *Manager) RemoveExport(name string) error {
	if filepath.Base(name) != name || name == "." || name == "" {
		return fmt.Errorf("invalid export name %q", name)
	}

	path := m.paths.GetExportPath(name)
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove export %s: %w", name, err)
	}

	m.logger.Info("export removed", slog.String("name", name))
	return nil
}

// PruneDownloads deletes staged source files older than maxAge and
// returns how many were removed. Staged files are copies of the remote
// originals, so pruning never loses data.
func (m *Manager) PruneDownloads(maxAge time.Duration) (int, error) {
	files, err := listDir(m.paths.DownloadsDir)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, file := range files {
		if file.ModTime.After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(m.paths.DownloadsDir, file.Name)); err != nil {
			m.logger.Warn("prune failed",
				slog.String("name", file.Name),
				slog.String("error", err.Error()))
			continue
		}
		removed++
	}

	if removed > 0 {
		m.logger.Info("downloads pruned",
			slog.Int("removed", removed),
			slog.Duration("max_age", maxAge))
	}
	return removed, nil
}

func listDir(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !orderExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ModTime.After(files[j].ModTime)
	})
	return files, nil
}
