//go:build linux

package process_linux

import (
	"fmt"

	"outfitmem/process"

	"golang.org/x/sys/unix"
)

// writeRemote copies data into pid at addr with one process_vm_writev call
func writeRemote(pid process.ProcessID, addr process.ProcessMemoryAddress, data []byte) (int, error) {
	local := []unix.Iovec{{Base: &data[0]}}
	local[0].SetLen(len(data))
	remote := []unix.RemoteIovec{{Base: uintptr(addr), Len: len(data)}}

	n, err := unix.ProcessVMWritev(int(pid), local, remote, 0)
	if err != nil {
		return 0, fmt.Errorf("process_vm_writev: %w", err)
	}
	return n, nil
}

// WriteMemory writes data at addr. The target region must be mapped writable;
// protections are never changed.
func (p *LinuxProcess) WriteMemory(addr process.ProcessMemoryAddress, data []byte) error {
	if len(data) == 0 {
		return nil
	}

	p.mu.Lock()
	pid := p.pid
	region := p.regionInternal(addr)
	p.mu.Unlock()

	if pid == 0 {
		return process.ErrProcessNotOpen
	}
	if region == nil {
		return fmt.Errorf("write at %s: %w", addr.ToString(), process.ErrAddressNotMapped)
	}
	if !region.IsWritable() {
		return fmt.Errorf("memory region at %s is not writable", addr.ToString())
	}

	// the caller may reuse data while the syscall runs
	buf := append([]byte(nil), data...)

	written, err := writeRemote(pid, addr, buf)
	if err != nil {
		return fmt.Errorf("write at %s: %w", addr.ToString(), err)
	}
	if written != len(buf) {
		return fmt.Errorf("wrote %d of %d bytes: %w", written, len(buf), process.ErrPartialCopy)
	}
	return nil
}
