//go:build windows

package process_windows

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"outfitmem/process"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
	"golang.org/x/sys/windows"
)

// WindowsProcess implements the process.Process interface for Windows systems
type WindowsProcess struct {
	pid    process.ProcessID
	name   string
	handle windows.Handle
	log    *logger.Logger
	mu     sync.Mutex
}

var _ process.Process = (*WindowsProcess)(nil)

// New creates a new, unopened WindowsProcess instance
func New() *WindowsProcess {
	return &WindowsProcess{
		log: logger.NewLogger(coloransi.Color(coloransi.Red, coloransi.ColorOrange, "process-not-open")),
	}
}

// NewWithPID creates a new WindowsProcess instance and opens it with the given PID
func NewWithPID(pid process.ProcessID, name string) (*WindowsProcess, error) {
	p := New()
	if err := p.Open(pid, name); err != nil {
		return nil, err
	}
	return p, nil
}

// Open obtains a full-access handle on pid
func (p *WindowsProcess) Open(pid process.ProcessID, name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	handle, err := windows.OpenProcess(windows.PROCESS_ALL_ACCESS, false, uint32(pid))
	if err != nil {
		return fmt.Errorf("OpenProcess(%d) failed: %w", pid, err)
	}

	p.pid = pid
	p.name = name
	p.handle = handle
	p.log = logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, fmt.Sprintf("process-%d", pid)))

	p.log.Infoln("Process opened", name)
	return nil
}

func (p *WindowsProcess) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.handle == 0 {
		return nil
	}

	err := windows.CloseHandle(p.handle)
	p.handle = 0
	p.pid = 0
	p.log.Infoln("Process closed")
	p.log = logger.NewLogger(coloransi.Color(coloransi.Red, coloransi.ColorOrange, "process-not-open"))

	if err != nil {
		return fmt.Errorf("CloseHandle failed: %w", err)
	}
	return nil
}

func (p *WindowsProcess) GetPID() process.ProcessID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pid
}

func (p *WindowsProcess) Name() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.name
}

// MainModule returns the first module EnumProcessModules reports, which is
// always the executable image.
func (p *WindowsProcess) MainModule() (process.Module, error) {
	p.mu.Lock()
	handle := p.handle
	name := p.name
	p.mu.Unlock()

	if handle == 0 {
		return process.Module{}, process.ErrProcessNotOpen
	}

	var module windows.Handle
	var needed uint32
	if err := windows.EnumProcessModules(handle, &module, uint32(unsafe.Sizeof(module)), &needed); err != nil {
		return process.Module{}, fmt.Errorf("EnumProcessModules: %w: %w", process.ErrNotFound, err)
	}

	var info windows.ModuleInfo
	if err := windows.GetModuleInformation(handle, module, &info, uint32(unsafe.Sizeof(info))); err != nil {
		return process.Module{}, fmt.Errorf("GetModuleInformation: %w: %w", process.ErrNotFound, err)
	}

	return process.Module{
		Name: name,
		Base: process.ProcessMemoryAddress(info.BaseOfDll),
		Size: process.ProcessMemorySize(info.SizeOfImage),
	}, nil
}

func (p *WindowsProcess) ReadMemory(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) ([]byte, error) {
	if size == 0 {
		return []byte{}, nil
	}

	p.mu.Lock()
	handle := p.handle
	p.mu.Unlock()

	if handle == 0 {
		return nil, process.ErrProcessNotOpen
	}

	buf := make([]byte, size)
	var bytesRead uintptr
	err := windows.ReadProcessMemory(handle, uintptr(addr), &buf[0], uintptr(size), &bytesRead)
	if err != nil {
		if errors.Is(err, windows.ERROR_PARTIAL_COPY) {
			return nil, fmt.Errorf("ReadProcessMemory at %s: %w", addr.ToString(), process.ErrPartialCopy)
		}
		return nil, fmt.Errorf("ReadProcessMemory at %s failed: %w", addr.ToString(), err)
	}

	if bytesRead != uintptr(size) {
		return nil, fmt.Errorf("read %d of %d bytes: %w", bytesRead, size, process.ErrPartialCopy)
	}

	return buf, nil
}

func (p *WindowsProcess) WriteMemory(addr process.ProcessMemoryAddress, data []byte) error {
	if len(data) == 0 {
		return nil
	}

	p.mu.Lock()
	handle := p.handle
	p.mu.Unlock()

	if handle == 0 {
		return process.ErrProcessNotOpen
	}

	var written uintptr
	err := windows.WriteProcessMemory(handle, uintptr(addr), &data[0], uintptr(len(data)), &written)
	if err != nil {
		if errors.Is(err, windows.ERROR_PARTIAL_COPY) {
			return fmt.Errorf("WriteProcessMemory at %s: %w", addr.ToString(), process.ErrPartialCopy)
		}
		return fmt.Errorf("WriteProcessMemory at %s failed: %w", addr.ToString(), err)
	}

	if written != uintptr(len(data)) {
		return fmt.Errorf("wrote %d of %d bytes: %w", written, len(data), process.ErrPartialCopy)
	}

	return nil
}
