// Package fsext wraps the afero file systems typedview reads scripts, configs
// and fixtures from, so tests can swap in an in-memory one.
package fsext

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// Fs represents a file system
type Fs = afero.Fs

// FilePathSeparator is the FilePathSeparator to be used within a file system
const FilePathSeparator = afero.FilePathSeparator

// NewMemMapFs returns a Fs that is in memory
func NewMemMapFs() Fs {
	return afero.NewMemMapFs()
}

// NewOsFs returns a new wrapps os.Fs
func NewOsFs() Fs {
	return afero.NewOsFs()
}

// NewReadOnlyFs returns a Fs wrapping the provided one and returning error on any not read operation.
func NewReadOnlyFs(fsys Fs) Fs {
	return afero.NewReadOnlyFs(fsys)
}

// WriteFile writes the provided data to the provided fs in the provided filename
func WriteFile(fsys Fs, filename string, data []byte, perm fs.FileMode) error {
	return afero.WriteFile(fsys, filename, data, perm)
}

// ReadFile reads the whole file from the filesystem
func ReadFile(fsys Fs, filename string) ([]byte, error) {
	return afero.ReadFile(fsys, filename)
}

// OpenAppend opens filename for appending, creating it when it is missing.
func OpenAppend(fsys Fs, filename string) (afero.File, error) {
	return fsys.OpenFile(filename, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
}

// Exists checks if the provided path exists on the filesystem
func Exists(fsys Fs, path string) (bool, error) {
	return afero.Exists(fsys, path)
}

// IsDir checks if the provided path is a directory
func IsDir(fsys Fs, path string) (bool, error) {
	return afero.IsDir(fsys, path)
}

// Abs returns an absolute representation of path, joining it with root when
// it is relative. The root path is assumed to be a directory.
func Abs(root, path string) string {
	if path == "" {
		return filepath.Clean(root)
	}
	if path[0] != '/' && path[0] != '\\' && !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	return filepath.Clean(path)
}

// Glob returns the regular files under dir whose name has the given suffix,
// sorted by path. Subdirectories are walked recursively.
func Glob(fsys Fs, dir, suffix string) ([]string, error) {
	var files []string
	err := afero.Walk(fsys, dir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(info.Name(), suffix) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
