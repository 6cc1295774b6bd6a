package port

import (
	"io"
	"time"
)

// FileSystem defines the interface for output-directory operations.
// All paths are relative to the output root.
type FileSystem interface {
	// RootDir returns the output root directory
	RootDir() string

	// Path returns the absolute path of a location under the root
	Path(rel string) string

	// EnsureDir creates a directory and its parents under the root
	EnsureDir(rel string) error

	// FileExists checks if a file exists under the root
	FileExists(rel string) bool

	// WriteStream streams reader content into a file, writing through a
	// temporary file that is renamed into place on success and removed
	// on failure. The target path never holds a partial write.
	// Returns: bytes written, error
	WriteStream(rel string, reader io.Reader) (int64, error)

	// DeleteFile removes a file; absent files are not an error
	DeleteFile(rel string) error

	// CleanStaleTempFiles removes temporary files left behind by an
	// interrupted run, older than the given age
	// Returns the number of files deleted
	CleanStaleTempFiles(olderThan time.Duration) (int, error)
}
