package process

import (
	"fmt"
	"unsafe"
)

// PointerSize is the width of a pointer in the target address space
const PointerSize = ProcessMemorySize(8)

// SizeOf returns the number of bytes a T occupies in the target
func SizeOf[T any]() ProcessMemorySize {
	var t T
	return ProcessMemorySize(unsafe.Sizeof(t))
}

// Read copies exactly sizeof(T) bytes at addr into a T.
// T must be plain data (integers, floats, fixed arrays of them).
func Read[T any](mem Memory, addr ProcessMemoryAddress) (T, error) {
	var t T
	if addr == 0 {
		return t, fmt.Errorf("read at 0x0: %w", ErrInvalidPointer)
	}

	size := SizeOf[T]()
	if size == 0 {
		return t, nil
	}

	data, err := mem.ReadMemory(addr, size)
	if err != nil {
		return t, err
	}

	if len(data) < int(size) {
		return t, fmt.Errorf("read %d of %d bytes at %s: %w", len(data), size, addr.ToString(), ErrPartialCopy)
	}

	copyTo(&t, data)
	return t, nil
}

// Write copies the sizeof(T) bytes of v to addr
func Write[T any](mem Memory, addr ProcessMemoryAddress, v T) error {
	if addr == 0 {
		return fmt.Errorf("write at 0x0: %w", ErrInvalidPointer)
	}

	size := int(unsafe.Sizeof(v))
	if size == 0 {
		return nil
	}

	src := unsafe.Slice((*byte)(unsafe.Pointer(&v)), size)
	out := make([]byte, size)
	copy(out, src)

	return mem.WriteMemory(addr, out)
}

// ReadPointer reads a pointer-sized value at addr
func ReadPointer(mem Memory, addr ProcessMemoryAddress) (ProcessMemoryAddress, error) {
	ptr, err := Read[uint64](mem, addr)
	if err != nil {
		return 0, err
	}
	return ProcessMemoryAddress(ptr), nil
}

// ReadNTS reads a null-terminated string from the specified address with a maximum length
func ReadNTS(mem Memory, addr ProcessMemoryAddress, maxLength ProcessMemorySize) (string, error) {
	if maxLength == 0 {
		return "", nil
	}
	if addr == 0 {
		return "", fmt.Errorf("read at 0x0: %w", ErrInvalidPointer)
	}

	data, err := mem.ReadMemory(addr, maxLength)
	if err != nil {
		return "", err
	}

	for i, b := range data {
		if b == 0 {
			return string(data[:i]), nil
		}
	}

	// If no null terminator found, return the whole buffer as string
	return string(data), nil
}

// WriteNTS writes s followed by a terminating zero byte
func WriteNTS(mem Memory, addr ProcessMemoryAddress, s string) error {
	if addr == 0 {
		return fmt.Errorf("write at 0x0: %w", ErrInvalidPointer)
	}
	buf := make([]byte, len(s)+1)
	copy(buf, s)
	return mem.WriteMemory(addr, buf)
}

// copyTo copies bytes to *T
func copyTo[T any](dst *T, src []byte) {
	size := int(unsafe.Sizeof(*dst))
	if len(src) < size {
		return
	}

	dstBytes := unsafe.Slice((*byte)(unsafe.Pointer(dst)), size)
	copy(dstBytes, src)
}
