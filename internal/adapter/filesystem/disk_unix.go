//go:build !windows
// +build !windows

package filesystem

import (
	"fmt"
	"syscall"
)

// DiskUsage reports capacity of the filesystem holding the output root
type DiskUsage struct {
	Total uint64
	Used  uint64
	Free  uint64
}

// GetDiskUsage returns disk usage for the output directory
func (m *Manager) GetDiskUsage() (*DiskUsage, error) {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(m.rootDir, &stat); err != nil {
		return nil, fmt.Errorf("failed to get disk stats: %w", err)
	}

	total := stat.Blocks * uint64(stat.Bsize)
	free := stat.Bavail * uint64(stat.Bsize)

	return &DiskUsage{
		Total: total,
		Used:  total - free,
		Free:  free,
	}, nil
}
