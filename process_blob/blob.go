package process_blob

import (
	"fmt"

	"outfitmem/process"
)

// ProcessBlob is a byte slice pretending to be mapped at baseaddress.
// It backs offline scans of saved module images and stands in for a
// live process in tests.
type ProcessBlob struct {
	name        string
	baseaddress process.ProcessMemoryAddress
	data        []byte
}

var _ process.Process = (*ProcessBlob)(nil)

func NewProcessBlob(baseAddress process.ProcessMemoryAddress, data []byte) *ProcessBlob {
	return &ProcessBlob{
		baseaddress: baseAddress,
		data:        data,
	}
}

// NewNamedProcessBlob is NewProcessBlob with a module name reported by Name and MainModule
func NewNamedProcessBlob(name string, baseAddress process.ProcessMemoryAddress, data []byte) *ProcessBlob {
	return &ProcessBlob{
		name:        name,
		baseaddress: baseAddress,
		data:        data,
	}
}

func (p *ProcessBlob) Data() []byte {
	return p.data
}

func (p *ProcessBlob) Base() process.ProcessMemoryAddress {
	return p.baseaddress
}

func (p *ProcessBlob) bounds(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) (uint64, error) {
	end := uint64(p.baseaddress) + uint64(len(p.data))
	if addr < p.baseaddress || uint64(addr)+uint64(size) > end || uint64(addr)+uint64(size) < uint64(addr) {
		return 0, fmt.Errorf("%s+%d outside blob [%s, 0x%X): %w", addr.ToString(), size, p.baseaddress.ToString(), end, process.ErrAddressNotMapped)
	}
	return uint64(addr - p.baseaddress), nil
}

func (p *ProcessBlob) ReadMemory(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) ([]byte, error) {
	offset, err := p.bounds(addr, size)
	if err != nil {
		return nil, err
	}
	out := make([]byte, size)
	copy(out, p.data[offset:offset+uint64(size)])
	return out, nil
}

func (p *ProcessBlob) WriteMemory(addr process.ProcessMemoryAddress, data []byte) error {
	offset, err := p.bounds(addr, process.ProcessMemorySize(len(data)))
	if err != nil {
		return err
	}
	copy(p.data[offset:], data)
	return nil
}

// GetPID is always zero, a blob has no backing process
func (p *ProcessBlob) GetPID() process.ProcessID {
	return 0
}

func (p *ProcessBlob) Name() string {
	return p.name
}

// MainModule reports the whole blob as the image
func (p *ProcessBlob) MainModule() (process.Module, error) {
	if len(p.data) == 0 {
		return process.Module{}, fmt.Errorf("empty blob: %w", process.ErrNotFound)
	}
	return process.Module{
		Name: p.name,
		Base: p.baseaddress,
		Size: process.ProcessMemorySize(len(p.data)),
	}, nil
}

func (p *ProcessBlob) Close() error {
	return nil
}
