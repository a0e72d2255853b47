// Package search walks pointer graphs looking for a known value, so that
// layout offsets can be relearned after the target binary changes.
package search

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"outfitmem/process"
)

// Searcher holds configuration for the search
type Searcher struct {
	MaxStructSize uint
	MaxDepth      int
	MinAlignment  uint
	MaxResults    int
	SearchFor     func([]byte) bool
	IsPointer     func(process.ProcessMemoryAddress) bool
}

// Option is a function that configures a Searcher
type Option func(*Searcher)

func WithMaxStructSize(size uint) Option {
	return func(s *Searcher) {
		s.MaxStructSize = size
	}
}

func WithMaxDepth(depth int) Option {
	return func(s *Searcher) {
		s.MaxDepth = depth
	}
}

func WithMinAlignment(align uint) Option {
	return func(s *Searcher) {
		s.MinAlignment = align
	}
}

// WithMaxResults stops the walk once n paths have been found, 0 is unlimited
func WithMaxResults(n int) Option {
	return func(s *Searcher) {
		s.MaxResults = n
	}
}

// WithPointerFilter replaces the user-space range check used to decide
// whether an 8-byte value is worth following
func WithPointerFilter(fn func(process.ProcessMemoryAddress) bool) Option {
	return func(s *Searcher) {
		s.IsPointer = fn
	}
}

func WithSearchForType[T any](val T) Option {
	return func(s *Searcher) {
		s.SearchFor = func(data []byte) bool {
			if len(data) < int(unsafe.Sizeof(val)) {
				return false
			}
			// POD, little endian
			valBytes := unsafe.Slice((*byte)(unsafe.Pointer(&val)), int(unsafe.Sizeof(val)))
			for i := 0; i < len(valBytes); i++ {
				if data[i] != valBytes[i] {
					return false
				}
			}
			return true
		}
	}
}

// WithSearchForString matches a NUL-terminated string
func WithSearchForString(val string) Option {
	want := append([]byte(val), 0)
	return func(s *Searcher) {
		s.SearchFor = func(data []byte) bool {
			if len(data) < len(want) {
				return false
			}
			for i := range want {
				if data[i] != want[i] {
					return false
				}
			}
			return true
		}
	}
}

// SearchResult represents a found path to the target. The first offset is
// added to the search base, then every following offset is added to the
// pointer read at the current address.
type SearchResult struct {
	Path []process.ProcessMemorySize
}

func (r SearchResult) String() string {
	parts := make([]string, len(r.Path))
	for i, off := range r.Path {
		parts[i] = fmt.Sprintf("+0x%X", uint(off))
	}
	return strings.Join(parts, " -> ")
}

// ErrNotChain is returned for paths that start inside the base struct
// rather than at the pointer stored at the base itself
var ErrNotChain = errors.New("path is not expressible as a pointer chain")

// Chain converts the path to the offsets process.ResolvePointerChain walks,
// which dereferences the base before adding the first offset. Only paths
// whose first step reads the pointer at offset 0 convert.
func (r SearchResult) Chain() ([]process.ProcessMemorySize, bool) {
	if len(r.Path) < 2 || r.Path[0] != 0 {
		return nil, false
	}
	return append([]process.ProcessMemorySize(nil), r.Path[1:]...), true
}

// ChainString formats the chain the way a layout profile lists name_chain
func (r SearchResult) ChainString() string {
	chain, ok := r.Chain()
	if !ok {
		return ""
	}
	parts := make([]string, len(chain))
	for i, off := range chain {
		parts[i] = fmt.Sprintf("0x%X", uint(off))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Resolve walks the chain form of r from base and returns the address it
// lands on
func (r SearchResult) Resolve(mem process.Memory, base process.ProcessMemoryAddress) (process.ProcessMemoryAddress, error) {
	chain, ok := r.Chain()
	if !ok {
		return 0, fmt.Errorf("%s: %w", r.String(), ErrNotChain)
	}
	return process.ResolvePointerChain(mem, base, chain...)
}

func userSpacePointer(addr process.ProcessMemoryAddress) bool {
	return addr > 0x10000 && addr <= 0x7FFFFFFFFFFF
}

// Search performs a recursive search for the target value
func Search(mem process.Memory, base process.ProcessMemoryAddress, options ...Option) ([]SearchResult, error) {
	s := &Searcher{
		MaxStructSize: 256,
		MaxDepth:      3,
		MinAlignment:  4,
		IsPointer:     userSpacePointer,
	}

	for _, opt := range options {
		opt(s)
	}

	if s.SearchFor == nil {
		return nil, fmt.Errorf("no search target specified")
	}
	if s.MinAlignment == 0 {
		return nil, fmt.Errorf("alignment must be positive")
	}

	var results []SearchResult
	visited := make(map[process.ProcessMemoryAddress]bool)

	full := func() bool {
		return s.MaxResults > 0 && len(results) >= s.MaxResults
	}

	var searchRecursive func(addr process.ProcessMemoryAddress, depth int, path []process.ProcessMemorySize)
	searchRecursive = func(addr process.ProcessMemoryAddress, depth int, path []process.ProcessMemorySize) {
		if depth > s.MaxDepth || visited[addr] || full() {
			return
		}
		visited[addr] = true

		// unreadable structs are skipped, not fatal
		data, err := mem.ReadMemory(addr, process.ProcessMemorySize(s.MaxStructSize))
		if err != nil {
			return
		}

		for offset := uint(0); offset < s.MaxStructSize; offset += s.MinAlignment {
			if offset+s.MinAlignment > uint(len(data)) || full() {
				break
			}

			if s.SearchFor(data[offset:]) {
				newPath := make([]process.ProcessMemorySize, len(path), len(path)+1)
				copy(newPath, path)
				newPath = append(newPath, process.ProcessMemorySize(offset))

				results = append(results, SearchResult{Path: newPath})
			}

			if offset%8 == 0 && depth < s.MaxDepth && offset+8 <= uint(len(data)) {
				ptrVal := process.ProcessMemoryAddress(binary.LittleEndian.Uint64(data[offset:]))
				if ptrVal != 0 && s.IsPointer(ptrVal) {
					newPath := make([]process.ProcessMemorySize, len(path), len(path)+1)
					copy(newPath, path)
					newPath = append(newPath, process.ProcessMemorySize(offset))

					searchRecursive(ptrVal, depth+1, newPath)
				}
			}
		}
	}

	searchRecursive(base, 0, []process.ProcessMemorySize{})

	return results, nil
}
