package process

import (
	"fmt"
)

// ResolvePointerChain walks a chain of dereferences starting at base.
// For every offset it reads the pointer stored at the current address and
// adds the offset to it. A failed read or a null pointer ends the walk with
// ErrNotFound; nothing past the broken link is read.
//
// Example:
//
//	// base -> *base + 0x8 -> *(...) + 0x10A8 -> *(...) + 0xFC
//	addr, err := process.ResolvePointerChain(mem, outfitBase, 0x8, 0x10A8, 0xFC)
func ResolvePointerChain(mem Memory, base ProcessMemoryAddress, offsets ...ProcessMemorySize) (ProcessMemoryAddress, error) {
	current := base

	for i, off := range offsets {
		ptr, err := ReadPointer(mem, current)
		if err != nil {
			return 0, fmt.Errorf("pointer chain step %d (addr=%#x): %w: %w", i, uint64(current), ErrNotFound, err)
		}
		if ptr == 0 {
			return 0, fmt.Errorf("pointer chain step %d (addr=%#x) is null: %w", i, uint64(current), ErrNotFound)
		}
		current = ptr + ProcessMemoryAddress(off)
	}

	return current, nil
}
