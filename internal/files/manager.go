package files

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	apierrors "github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/errors"
)

// Manager stores files inside a single directory
type Manager struct {
	dir    string
	logger *slog.Logger
}

// NewManager creates a new file manager rooted at dir
func NewManager(dir string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{dir: dir, logger: logger.With(slog.String("component", "file_manager"))}
}

// Dir returns the managed directory
func (m *Manager) Dir() string {
	return m.dir
}

// FileExists checks if a non-empty file exists at the given path
func (m *Manager) FileExists(name string) bool {
	fullPath := m.resolvePath(name)
	info, err := os.Stat(fullPath)
	exists := err == nil && !info.IsDir() && info.Size() > 0

	m.logger.Debug("FileExists check",
		slog.String("path", name),
		slog.String("full_path", fullPath),
		slog.Bool("exists", exists))

	return exists
}

// EnsureDirectory creates the managed directory if it doesn't exist
func (m *Manager) EnsureDirectory() error {
	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return apierrors.NewStorageError("failed to create directory", err).WithContext("path", m.dir)
	}
	return nil
}

// Save copies r into name. The content goes to a temporary file first and
// is renamed into place, so a failed download never leaves a partial file
// that FileExists would later accept.
func (m *Manager) Save(name string, r io.Reader) (int64, error) {
	fullPath := m.resolvePath(name)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return 0, apierrors.NewStorageError("failed to create directory", err).WithContext("path", fullPath)
	}

	tmp, err := os.CreateTemp(filepath.Dir(fullPath), ".partial-*")
	if err != nil {
		return 0, apierrors.NewStorageError("failed to create temporary file", err).WithContext("path", fullPath)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	n, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return n, fmt.Errorf("failed to copy file content: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return n, apierrors.NewStorageError("failed to sync file", err)
	}
	if err := tmp.Close(); err != nil {
		return n, apierrors.NewStorageError("failed to close file", err)
	}
	if err := os.Rename(tmpName, fullPath); err != nil {
		return n, apierrors.NewStorageError("failed to move file into place", err).WithContext("path", fullPath)
	}

	m.logger.Info("Saved file",
		slog.String("path", name),
		slog.String("full_path", fullPath),
		slog.Int64("size_bytes", n))
	return n, nil
}

// resolvePath keeps absolute paths and places the rest in the managed
// directory. Only the base name of a relative path is used.
func (m *Manager) resolvePath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(m.dir, filepath.Base(name))
}
