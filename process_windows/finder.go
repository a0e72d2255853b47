//go:build windows

package process_windows

import (
	"errors"
	"fmt"
	"unsafe"

	"outfitmem/process"

	"golang.org/x/sys/windows"
)

// WindowsProcessFinder walks a Toolhelp process snapshot
type WindowsProcessFinder struct{}

func NewProcessFinder() *WindowsProcessFinder {
	return &WindowsProcessFinder{}
}

// FindProcessByName returns processes whose image file name equals name exactly
func (f *WindowsProcessFinder) FindProcessByName(name string) ([]process.ProcessInfo, error) {
	if name == "" {
		return nil, errors.New("empty name")
	}

	snapshot, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return nil, fmt.Errorf("CreateToolhelp32Snapshot: %w", err)
	}
	defer windows.CloseHandle(snapshot)

	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))

	var out []process.ProcessInfo
	for err = windows.Process32First(snapshot, &entry); err == nil; err = windows.Process32Next(snapshot, &entry) {
		exe := windows.UTF16ToString(entry.ExeFile[:])
		if exe != name {
			continue
		}
		out = append(out, process.ProcessInfo{
			PID:  process.ProcessID(entry.ProcessID),
			PPID: process.ProcessID(entry.ParentProcessID),
			Name: exe,
		})
	}

	if !errors.Is(err, windows.ERROR_NO_MORE_FILES) {
		return out, fmt.Errorf("Process32Next: %w", err)
	}

	return out, nil
}

// WindowsProcessHelper implements the process.ProcessOpener interface
type WindowsProcessHelper struct {
	Finder process.ProcessFinder
}

func NewHelper() *WindowsProcessHelper {
	return &WindowsProcessHelper{Finder: NewProcessFinder()}
}

// OpenProcessByName opens the first process, in snapshot order, named name
func (h *WindowsProcessHelper) OpenProcessByName(name string) (process.Process, error) {
	processes, err := h.Finder.FindProcessByName(name)
	if err != nil {
		return nil, err
	}

	if len(processes) == 0 {
		return nil, fmt.Errorf("no process found with name '%s': %w", name, process.ErrNotFound)
	}

	return NewWithPID(processes[0].PID, name)
}
