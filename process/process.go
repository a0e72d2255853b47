// Package process defines the capability interfaces used to reach into a
// foreign process: finding it, opening it and copying typed values in and
// out of its address space.
package process

import "errors"

var (
	// ErrAddressNotMapped is returned when a memory address is not found within any mapped region of a process.
	ErrAddressNotMapped = errors.New("address not mapped")

	// ErrProcessNotOpen is returned when an operation requiring an open process is attempted
	// before the process has been successfully opened or after it has been closed.
	ErrProcessNotOpen = errors.New("process not open")

	ErrInvalidPointer = errors.New("invalid pointer read")

	// ErrNotFound covers every lookup that came up empty: process, module,
	// signature or a pointer chain that hit a null link.
	ErrNotFound = errors.New("not found")

	// ErrPartialCopy is returned when the OS copied fewer bytes than requested.
	ErrPartialCopy = errors.New("partial copy")
)

// Memory is the narrow, safe surface everything above the platform layer
// works against: copy len bytes out of, or into, the target address space.
type Memory interface {
	// ReadMemory reads exactly size bytes at addr
	ReadMemory(addr ProcessMemoryAddress, size ProcessMemorySize) ([]byte, error)

	// WriteMemory writes all of data at addr
	WriteMemory(addr ProcessMemoryAddress, data []byte) error
}

// Process is an opened handle on a running process
type Process interface {
	Memory

	// GetPID returns the process ID
	GetPID() ProcessID

	// Name returns the image name the process was opened by
	Name() string

	// MainModule returns the primary executable image of the process
	MainModule() (Module, error)

	// Close releases the handle; calling it twice is harmless
	Close() error
}

// ProcessFinder enumerates running processes
type ProcessFinder interface {
	// FindProcessByName finds processes by their image name (exact, case-sensitive match)
	FindProcessByName(name string) ([]ProcessInfo, error)
}

// ProcessOpener opens processes for memory access
type ProcessOpener interface {
	// OpenProcessByName opens the first process whose image name equals name
	OpenProcessByName(name string) (Process, error)
}
