package filesystem

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/vertextoedge/course-archiver/internal/port"
)

// tempSuffix marks in-progress writes. A file carrying it is never a
// finished asset.
const tempSuffix = ".downloading"

// Manager handles output-directory filesystem operations
type Manager struct {
	rootDir    string
	bufferSize int
}

// Ensure Manager implements port.FileSystem
var _ port.FileSystem = (*Manager)(nil)

// NewManager creates a new filesystem manager rooted at rootDir
func NewManager(rootDir string) (*Manager, error) {
	return NewManagerWithBufferSize(rootDir, 8*1024*1024) // 8MB default
}

// NewManagerWithBufferSize creates a new filesystem manager with custom buffer size
func NewManagerWithBufferSize(rootDir string, bufferSize int) (*Manager, error) {
	// Ensure root directory exists
	if err := os.MkdirAll(rootDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output root dir: %w", err)
	}

	if bufferSize <= 0 {
		bufferSize = 8 * 1024 * 1024 // 8MB default
	}

	return &Manager{
		rootDir:    rootDir,
		bufferSize: bufferSize,
	}, nil
}

// RootDir returns the output root directory
func (m *Manager) RootDir() string {
	return m.rootDir
}

// Path returns the absolute path of a location under the root
func (m *Manager) Path(rel string) string {
	return filepath.Join(m.rootDir, rel)
}

// EnsureDir creates a directory and its parents under the root
func (m *Manager) EnsureDir(rel string) error {
	return os.MkdirAll(m.Path(rel), 0755)
}

// FileExists checks if a file exists under the root
func (m *Manager) FileExists(rel string) bool {
	_, err := os.Stat(m.Path(rel))
	return err == nil
}

// WriteStream streams reader content into a file under the root. The
// content goes to a temp file first and is renamed into place only
// when the copy completed, so the target path never holds a partial
// write. A failed copy removes the temp file.
func (m *Manager) WriteStream(rel string, reader io.Reader) (int64, error) {
	target := m.Path(rel)

	// Ensure parent directory exists
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return 0, fmt.Errorf("failed to create parent dir: %w", err)
	}

	tempPath := target + tempSuffix
	f, err := os.Create(tempPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}

	// Use configurable buffer for better performance on high-speed networks
	buf := make([]byte, m.bufferSize)
	written, err := io.CopyBuffer(f, reader, buf)
	if err != nil {
		f.Close()
		os.Remove(tempPath)
		return 0, fmt.Errorf("failed to write file: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tempPath)
		return 0, fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tempPath, target); err != nil {
		os.Remove(tempPath)
		return 0, fmt.Errorf("failed to rename temp file: %w", err)
	}

	return written, nil
}

// DeleteFile removes a file under the root; absent files are not an error
func (m *Manager) DeleteFile(rel string) error {
	if err := os.Remove(m.Path(rel)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// CleanStaleTempFiles removes temp files older than the specified
// duration, left behind by an interrupted run
func (m *Manager) CleanStaleTempFiles(olderThan time.Duration) (int, error) {
	count := 0
	threshold := time.Now().Add(-olderThan)

	err := filepath.Walk(m.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == tempSuffix {
			if info.ModTime().Before(threshold) {
				if removeErr := os.Remove(path); removeErr == nil {
					count++
				}
			}
		}
		return nil
	})
	return count, err
}
