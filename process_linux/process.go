//go:build linux

package process_linux

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"outfitmem/process"
	"outfitmem/process/memory_map"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

// LinuxProcess implements the process.Process interface for Linux systems
type LinuxProcess struct {
	pid  process.ProcessID
	name string
	exe  string
	log  *logger.Logger
	mm   []memory_map.MemoryMapItem
	mu   sync.Mutex
}

var _ process.Process = (*LinuxProcess)(nil)

// New creates a new, unopened LinuxProcess instance
func New() *LinuxProcess {
	return &LinuxProcess{
		log: logger.NewLogger(coloransi.Color(coloransi.Red, coloransi.ColorOrange, "process-not-open")),
	}
}

// NewWithPID creates a new LinuxProcess instance and opens it with the given PID
func NewWithPID(pid process.ProcessID, name string) (*LinuxProcess, error) {
	p := New()
	if err := p.Open(pid, name); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *LinuxProcess) Open(pid process.ProcessID, name string) error {
	procPath := fmt.Sprintf("/proc/%d", pid)
	if _, err := os.Stat(procPath); os.IsNotExist(err) {
		return fmt.Errorf("process with PID %d does not exist: %w", pid, process.ErrNotFound)
	}

	exe, _ := os.Readlink(filepath.Join(procPath, "exe"))

	p.mu.Lock()
	p.pid = pid
	p.name = name
	p.exe = exe
	p.log = logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, fmt.Sprintf("process-%d", pid)))
	p.mu.Unlock()

	if err := p.UpdateMemoryMap(); err != nil {
		p.Close()
		return fmt.Errorf("failed to initialize memory map: %w", err)
	}

	p.log.Infoln("Process opened", name)

	return nil
}

func (p *LinuxProcess) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pid == 0 {
		return nil
	}

	p.pid = 0
	p.mm = nil
	p.log.Infoln("Process closed")
	p.log = logger.NewLogger(coloransi.Color(coloransi.Red, coloransi.ColorOrange, "process-not-open"))

	return nil
}

// GetPID returns the process ID
func (p *LinuxProcess) GetPID() process.ProcessID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pid
}

func (p *LinuxProcess) Name() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.name
}

func (p *LinuxProcess) UpdateMemoryMap() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pid == 0 {
		return process.ErrProcessNotOpen
	}

	mm, err := memory_map.NewLinuxMemoryMap().ReadMemoryMap(int(p.pid))
	if err != nil {
		return fmt.Errorf("failed to read memory map: %w", err)
	}

	// RegionOf requires the memory map to be sorted by address
	sort.Slice(mm, func(i, j int) bool {
		return mm[i].Address < mm[j].Address
	})

	p.mm = mm
	return nil
}

// MainModule returns the span of the executable image. Under Wine the image
// is mapped from the .exe file, natively from /proc/<pid>/exe.
func (p *LinuxProcess) MainModule() (process.Module, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pid == 0 {
		return process.Module{}, process.ErrProcessNotOpen
	}

	for _, name := range []string{p.name, p.exe} {
		if name == "" {
			continue
		}
		if start, end, ok := memory_map.ImageSpan(name, p.mm); ok {
			return process.Module{
				Name: filepath.Base(name),
				Base: process.ProcessMemoryAddress(start),
				Size: process.ProcessMemorySize(end - start),
			}, nil
		}
	}

	return process.Module{}, fmt.Errorf("main module %q: %w", p.name, process.ErrNotFound)
}

// Internal helper function that assumes the mutex is already locked
func (p *LinuxProcess) regionInternal(addr process.ProcessMemoryAddress) *memory_map.MemoryMapItem {
	if addr <= 0x10000 {
		return nil
	}

	if addr > 0x7FFFFFFFFFFF {
		return nil
	}

	return memory_map.RegionOf(uint64(addr), p.mm)
}
