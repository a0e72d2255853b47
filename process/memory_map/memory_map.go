package memory_map

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// MemoryMapItem represents a memory region in a process's address space
type MemoryMapItem struct {
	Address  uint64 // The starting address of the memory region
	Size     uint   // The size of the memory region in bytes
	Perms    string // Permissions (e.g., "r-xp" for read, execute, private)
	Pathname string // Backing file, empty for anonymous mappings
}

// String returns a string representation of the memory map item
func (mmItem MemoryMapItem) String() string {
	return fmt.Sprintf("Address: %x, Size: %d, Perms: %s, Path: %s", mmItem.Address, mmItem.Size, mmItem.Perms, mmItem.Pathname)
}

func (mmItem MemoryMapItem) End() uint64 {
	return mmItem.Address + uint64(mmItem.Size)
}

func (mmItem MemoryMapItem) IsReadable() bool {
	return len(mmItem.Perms) > 0 && mmItem.Perms[0] == 'r'
}

func (mmItem MemoryMapItem) IsWritable() bool {
	return len(mmItem.Perms) > 1 && mmItem.Perms[1] == 'w'
}

// MemoryMap defines the interface for operations related to a process's memory map
type MemoryMap interface {
	// ReadMemoryMap reads and parses the memory map for a process
	ReadMemoryMap(pid int) ([]MemoryMapItem, error)
}

// RegionOf finds the region containing addr; memoryMap must be sorted by address
func RegionOf(addr uint64, memoryMap []MemoryMapItem) *MemoryMapItem {
	i := sort.Search(len(memoryMap), func(i int) bool {
		return memoryMap[i].End() > addr
	})
	if i < len(memoryMap) && memoryMap[i].Address <= addr {
		return &memoryMap[i]
	}

	return nil
}

// ImageSpan returns the address range covered by every mapping of the file
// whose base name (or full path) equals name. The image starts at its lowest
// mapping and ends at its highest; gaps between sections are included.
func ImageSpan(name string, memoryMap []MemoryMapItem) (start, end uint64, ok bool) {
	for _, item := range memoryMap {
		if item.Pathname == "" {
			continue
		}
		if item.Pathname != name && filepath.Base(item.Pathname) != name {
			continue
		}
		if !ok || item.Address < start {
			start = item.Address
		}
		if !ok || item.End() > end {
			end = item.End()
		}
		ok = true
	}
	return start, end, ok
}

// ParseMapsLine parses one line of /proc/[pid]/maps, e.g.
// "00400000-0040b000 r-xp 00000000 08:02 173521 /usr/bin/dbus-daemon"
func ParseMapsLine(line string) (MemoryMapItem, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return MemoryMapItem{}, false
	}

	addrRange := strings.Split(fields[0], "-")
	if len(addrRange) != 2 {
		return MemoryMapItem{}, false
	}

	startAddr, err := strconv.ParseUint(addrRange[0], 16, 64)
	if err != nil {
		return MemoryMapItem{}, false
	}

	endAddr, err := strconv.ParseUint(addrRange[1], 16, 64)
	if err != nil || endAddr < startAddr {
		return MemoryMapItem{}, false
	}

	item := MemoryMapItem{
		Address: startAddr,
		Size:    uint(endAddr - startAddr),
		Perms:   fields[1],
	}

	// Pathname may contain spaces; it is everything after the inode column
	if len(fields) >= 6 {
		item.Pathname = strings.Join(fields[5:], " ")
	}

	return item, true
}

// ParseMaps reads a whole maps listing, skipping lines it cannot parse.
// The kernel lists regions in address order, which RegionOf relies on.
func ParseMaps(r io.Reader) ([]MemoryMapItem, error) {
	var items []MemoryMapItem
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if item, ok := ParseMapsLine(sc.Text()); ok {
			items = append(items, item)
		}
	}
	return items, sc.Err()
}
