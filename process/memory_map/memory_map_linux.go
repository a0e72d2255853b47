//go:build linux

package memory_map

import (
	"fmt"
	"os"
)

// LinuxMemoryMap reads /proc/<pid>/maps
type LinuxMemoryMap struct{}

func NewLinuxMemoryMap() *LinuxMemoryMap {
	return &LinuxMemoryMap{}
}

func (l *LinuxMemoryMap) ReadMemoryMap(pid int) ([]MemoryMapItem, error) {
	f, err := os.Open(fmt.Sprintf("/proc/%d/maps", pid))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	items, err := ParseMaps(f)
	if err != nil {
		return nil, fmt.Errorf("maps of pid %d: %w", pid, err)
	}
	return items, nil
}
