// Package adapter contains infrastructure adapters for the pyrig CLI.
package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	m "pyrig.dev/pkg/pyrig/internal/model"
)

const (
	buildDirName   = "build"
	toxDirName     = ".tox"
	defaultDirPerm = 0o750
)

// ProjectFSAdapter abstracts the filesystem checks the workflow performs on a
// Python project and its tox work directory, so the domain layer can be tested
// without touching the disk.
//
//nolint:interfacebloat // A richer interface keeps workflow logic decoupled from os/fs.
type ProjectFSAdapter interface {
	// Getwd returns the current working directory.
	Getwd() (m.Path, error)

	// IsPackage reports whether dir contains setup.py or pyproject.toml.
	IsPackage(dir m.Path) (bool, error)

	// WorkDir returns <root>/<basename(cwd)>. An empty root means ~/.tox.
	WorkDir(root, cwd m.Path) (m.Path, error)

	// RemoveBuildDir deletes <dir>/build when it is a directory and returns
	// the deleted path. It does nothing when the directory is absent.
	RemoveBuildDir(dir m.Path) (m.Path, bool, error)

	// ListDir returns the entry names of dir.
	ListDir(dir m.Path) ([]string, error)

	// Exists reports whether path exists.
	Exists(path m.Path) bool

	// IsDir reports whether path exists and is a directory.
	IsDir(path m.Path) bool

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// WriteFile writes content to a file, creating parent directories.
	WriteFile(path m.Path, content []byte, perm os.FileMode) error

	// CreateTempDir creates a temporary directory.
	CreateTempDir(pattern string) (m.Path, error)

	// RemoveAll removes a directory and all its contents.
	RemoveAll(path m.Path) error

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.Path
}

// LocalProjectFSAdapter implements ProjectFSAdapter on the local disk.
type LocalProjectFSAdapter struct {
	homeDir func() (string, error)
}

// NewLocalProjectFSAdapter constructs a LocalProjectFSAdapter.
func NewLocalProjectFSAdapter() *LocalProjectFSAdapter {
	return &LocalProjectFSAdapter{homeDir: os.UserHomeDir}
}

// Getwd returns the current working directory.
func (a *LocalProjectFSAdapter) Getwd() (m.Path, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to resolve working directory: %w", err)
	}

	return m.Path(wd), nil
}

// IsPackage checks the directory listing for packaging metadata files.
func (a *LocalProjectFSAdapter) IsPackage(dir m.Path) (bool, error) {
	names, err := a.ListDir(dir)
	if err != nil {
		return false, err
	}

	for _, marker := range m.PackageMarkers {
		if slices.Contains(names, marker) {
			return true, nil
		}
	}

	return false, nil
}

// WorkDir computes the per-project tox work directory.
func (a *LocalProjectFSAdapter) WorkDir(root, cwd m.Path) (m.Path, error) {
	if root == "" {
		home, err := a.homeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}

		root = m.Path(filepath.Join(home, toxDirName))
	}

	return m.Path(filepath.Join(string(root), filepath.Base(string(cwd)))), nil
}

// RemoveBuildDir removes the build directory under dir if present.
func (a *LocalProjectFSAdapter) RemoveBuildDir(dir m.Path) (m.Path, bool, error) {
	buildPath := filepath.Join(string(dir), buildDirName)

	if !a.IsDir(m.Path(buildPath)) {
		return m.Path(buildPath), false, nil
	}

	if err := os.RemoveAll(buildPath); err != nil {
		return m.Path(buildPath), false, fmt.Errorf("failed to delete build directory %s: %w", buildPath, err)
	}

	return m.Path(buildPath), true, nil
}

// ListDir returns the names of the entries in dir.
func (a *LocalProjectFSAdapter) ListDir(dir m.Path) ([]string, error) {
	entries, err := os.ReadDir(string(dir))
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}

	return names, nil
}

// Exists reports whether path exists.
func (a *LocalProjectFSAdapter) Exists(path m.Path) bool {
	_, err := os.Stat(string(path))
	return err == nil
}

// IsDir reports whether path is an existing directory.
func (a *LocalProjectFSAdapter) IsDir(path m.Path) bool {
	info, err := os.Stat(string(path))
	return err == nil && info.IsDir()
}

// ReadFile loads file contents from disk.
func (a *LocalProjectFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// WriteFile writes content to a file with the given permissions.
func (a *LocalProjectFSAdapter) WriteFile(path m.Path, content []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(string(path)), defaultDirPerm); err != nil {
		return err
	}

	return os.WriteFile(string(path), content, perm)
}

// CreateTempDir creates a temporary directory.
func (a *LocalProjectFSAdapter) CreateTempDir(pattern string) (m.Path, error) {
	tmpDir, err := os.MkdirTemp("", pattern)
	if err != nil {
		return "", err
	}

	return m.Path(tmpDir), nil
}

// RemoveAll removes a directory and all its contents.
func (a *LocalProjectFSAdapter) RemoveAll(path m.Path) error {
	return os.RemoveAll(string(path))
}

// JoinPath joins path elements into a single path.
func (a *LocalProjectFSAdapter) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}
