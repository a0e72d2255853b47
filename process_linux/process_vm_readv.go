//go:build linux

package process_linux

import (
	"fmt"

	"outfitmem/process"

	"golang.org/x/sys/unix"
)

// readRemote copies size bytes at addr out of pid with one process_vm_readv call
func readRemote(pid process.ProcessID, addr process.ProcessMemoryAddress, size process.ProcessMemorySize) ([]byte, error) {
	buf := make([]byte, size)
	local := []unix.Iovec{{Base: &buf[0]}}
	local[0].SetLen(len(buf))
	remote := []unix.RemoteIovec{{Base: uintptr(addr), Len: len(buf)}}

	n, err := unix.ProcessVMReadv(int(pid), local, remote, 0)
	if err != nil {
		return nil, fmt.Errorf("process_vm_readv: %w", err)
	}
	if n != len(buf) {
		return nil, fmt.Errorf("read %d of %d bytes: %w", n, len(buf), process.ErrPartialCopy)
	}
	return buf, nil
}

// ReadMemory rejects addresses outside a readable mapping before touching the target
func (p *LinuxProcess) ReadMemory(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) ([]byte, error) {
	if size == 0 {
		return []byte{}, nil
	}

	p.mu.Lock()
	pid := p.pid
	region := p.regionInternal(addr)
	p.mu.Unlock()

	if pid == 0 {
		return nil, process.ErrProcessNotOpen
	}
	if region == nil || !region.IsReadable() {
		return nil, fmt.Errorf("read at %s: %w", addr.ToString(), process.ErrAddressNotMapped)
	}

	data, err := readRemote(pid, addr, size)
	if err != nil {
		return nil, fmt.Errorf("read at %s: %w", addr.ToString(), err)
	}
	return data, nil
}
