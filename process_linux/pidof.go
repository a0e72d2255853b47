//go:build linux

package process_linux

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"outfitmem/process"
)

// LinuxProcessFinder implements the process.ProcessFinder interface over /proc
type LinuxProcessFinder struct {
	Root string // procfs mount point, "/proc" unless overridden
}

// NewProcessFinder creates a new LinuxProcessFinder
func NewProcessFinder() *LinuxProcessFinder {
	return &LinuxProcessFinder{Root: "/proc"}
}

// FindProcessByName returns all processes whose comm, exe basename or argv[0]
// basename equals name. The match is case-sensitive (like pidof). argv[0] is
// checked with both separators so Wine hosted images ("C:\...\GTA5.exe") match.
// Results are ordered by ascending PID.
func (f *LinuxProcessFinder) FindProcessByName(name string) ([]process.ProcessInfo, error) {
	if name == "" {
		return nil, errors.New("empty name")
	}

	entries, err := os.ReadDir(f.Root)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Root, err)
	}

	selfPID := os.Getpid()
	var out []process.ProcessInfo

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(e.Name())
		if err != nil || pid <= 0 {
			continue // not a PID dir
		}
		if pid == selfPID {
			continue
		}

		dir := filepath.Join(f.Root, e.Name())
		exe, _ := os.Readlink(filepath.Join(dir, "exe"))

		if matchesName(dir, exe, name) {
			out = append(out, process.ProcessInfo{
				PID:  process.ProcessID(pid),
				PPID: readPPID(dir),
				Name: name,
				Exe:  exe,
			})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].PID < out[j].PID })

	return out, nil
}

func matchesName(dir, exe, name string) bool {
	comm, _ := os.ReadFile(filepath.Join(dir, "comm"))
	if string(bytesTrimNL(comm)) == name {
		return true
	}

	// Resolve /proc/<pid>/exe symlink; may fail if zombie or permission
	if exe != "" && filepath.Base(exe) == name {
		return true
	}

	cmdline, _ := os.ReadFile(filepath.Join(dir, "cmdline"))
	if len(cmdline) == 0 {
		return false
	}
	argv0 := string(cmdline)
	if i := strings.IndexByte(argv0, 0); i >= 0 {
		argv0 = argv0[:i]
	}
	if i := strings.LastIndexAny(argv0, `/\`); i >= 0 {
		argv0 = argv0[i+1:]
	}
	return argv0 == name
}

func readPPID(dir string) process.ProcessID {
	status, err := os.ReadFile(filepath.Join(dir, "status"))
	if err != nil {
		return 0
	}
	for _, line := range strings.Split(string(status), "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok || strings.TrimSpace(key) != "PPid" {
			continue
		}
		ppid, _ := strconv.Atoi(strings.TrimSpace(value))
		return process.ProcessID(ppid)
	}
	return 0
}

func bytesTrimNL(b []byte) []byte {
	// Trim trailing '\n' if present (comm has a newline).
	for len(b) > 0 {
		switch b[len(b)-1] {
		case '\n', '\r', ' ', '\t':
			b = b[:len(b)-1]
		default:
			return b
		}
	}
	return b
}
