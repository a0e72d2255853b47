package process_test

import (
	"errors"
	"testing"

	"outfitmem/process"
	"outfitmem/process_blob"
)

// shortMemory returns at most n bytes from every read
type shortMemory struct {
	process.Memory
	n int
}

func (m shortMemory) ReadMemory(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) ([]byte, error) {
	data, err := m.Memory.ReadMemory(addr, size)
	if err != nil {
		return nil, err
	}
	if len(data) > m.n {
		data = data[:m.n]
	}
	return data, nil
}

func TestReadShortCopy(t *testing.T) {
	blob := process_blob.NewProcessBlob(base, make([]byte, 0x100))
	if err := process.Write(blob, base+0x10, uint64(0x1122334455667788)); err != nil {
		t.Fatal(err)
	}

	got, err := process.Read[uint64](shortMemory{Memory: blob, n: 8}, base+0x10)
	if err != nil || got != 0x1122334455667788 {
		t.Fatalf("full read = %#x, %v", got, err)
	}

	got, err = process.Read[uint64](shortMemory{Memory: blob, n: 3}, base+0x10)
	if !errors.Is(err, process.ErrPartialCopy) {
		t.Fatalf("short read err = %v, want ErrPartialCopy", err)
	}
	if got != 0 {
		t.Errorf("short read returned %#x, want zero value", got)
	}

	if _, err := process.ReadPointer(shortMemory{Memory: blob, n: 4}, base+0x10); !errors.Is(err, process.ErrPartialCopy) {
		t.Errorf("short pointer read err = %v, want ErrPartialCopy", err)
	}
}

func TestReadNullAddress(t *testing.T) {
	blob := process_blob.NewProcessBlob(base, make([]byte, 0x10))
	if _, err := process.Read[uint32](blob, 0); !errors.Is(err, process.ErrInvalidPointer) {
		t.Errorf("Read(0) err = %v, want ErrInvalidPointer", err)
	}
}
