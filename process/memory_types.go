package process

import (
	"fmt"
)

// ProcessMemoryAddress represents a memory address within a process
type ProcessMemoryAddress uint64

func (pma ProcessMemoryAddress) ToString() string {
	return fmt.Sprintf("0x%X", uint64(pma))
}

// ProcessMemorySize represents a size of memory region
type ProcessMemorySize uint

func (pms ProcessMemorySize) ToString() string {
	return fmt.Sprintf("%d bytes", uint(pms))
}

// AOB (Array of Bytes) represents a pattern to search for in memory
type AOB struct {
	Pattern []byte // The byte pattern to search for
	Mask    []byte // 0xFF means exact match and 0x00 means wildcard
}

// IsValid checks if the AOB pattern is valid
func (aob AOB) IsValid() bool {
	return len(aob.Pattern) == len(aob.Mask)
}

// Len returns the number of bytes the pattern spans
func (aob AOB) Len() int {
	return len(aob.Pattern)
}

// String renders the pattern back into signature form, wildcards as "?"
func (aob AOB) String() string {
	out := make([]byte, 0, len(aob.Pattern)*3)
	for i, b := range aob.Pattern {
		if i > 0 {
			out = append(out, ' ')
		}
		if i < len(aob.Mask) && aob.Mask[i] == 0 {
			out = append(out, '?')
			continue
		}
		out = fmt.Appendf(out, "%02X", b)
	}
	return string(out)
}

func NewAOB(pattern, mask []byte) (AOB, error) {
	if len(pattern) != len(mask) {
		return AOB{}, fmt.Errorf("pattern and mask must be of the same length")
	}
	return AOB{Pattern: pattern, Mask: mask}, nil
}

// Module describes the mapped image of a loaded executable or library
type Module struct {
	Name string
	Base ProcessMemoryAddress
	Size ProcessMemorySize
}

// Contains reports whether addr falls inside the module image
func (m Module) Contains(addr ProcessMemoryAddress) bool {
	return addr >= m.Base && uint64(addr) < uint64(m.Base)+uint64(m.Size)
}

func (m Module) String() string {
	return fmt.Sprintf("%s [%s +%s]", m.Name, m.Base.ToString(), m.Size.ToString())
}
