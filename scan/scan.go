// Package scan locates byte signatures inside the main module of a process
// and turns RIP-relative operands into absolute addresses.
package scan

import (
	"fmt"

	"outfitmem/process"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

var log = logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "scan"))

// FindFirst returns the offset of the lowest window in data matching aob.
// A mask byte of 0x00 matches anything.
func FindFirst(data []byte, aob process.AOB) (int, bool) {
	n := aob.Len()
	if n == 0 || !aob.IsValid() || len(data) < n {
		return 0, false
	}

	for i := 0; i <= len(data)-n; i++ {
		if matchAt(data[i:i+n], aob) {
			return i, true
		}
	}

	return 0, false
}

// FindAll returns every matching offset in ascending order
func FindAll(data []byte, aob process.AOB) []int {
	n := aob.Len()
	if n == 0 || !aob.IsValid() || len(data) < n {
		return nil
	}

	var out []int
	for i := 0; i <= len(data)-n; i++ {
		if matchAt(data[i:i+n], aob) {
			out = append(out, i)
		}
	}
	return out
}

func matchAt(window []byte, aob process.AOB) bool {
	for j, b := range aob.Pattern {
		if aob.Mask[j] != 0 && window[j] != b {
			return false
		}
	}
	return true
}

// Module copies the whole main module of proc in one read and returns the
// absolute address of the first match. Every failure, including a short
// read and no match, is reported as process.ErrNotFound.
func Module(proc process.Process, aob process.AOB) (process.ProcessMemoryAddress, error) {
	if aob.Len() == 0 || !aob.IsValid() {
		return 0, fmt.Errorf("empty or malformed signature: %w", process.ErrNotFound)
	}

	mod, err := proc.MainModule()
	if err != nil {
		return 0, fmt.Errorf("main module: %w: %w", process.ErrNotFound, err)
	}

	data, err := proc.ReadMemory(mod.Base, mod.Size)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w: %w", mod.String(), process.ErrNotFound, err)
	}
	if len(data) < int(mod.Size) {
		return 0, fmt.Errorf("read %d of %d bytes of %s: %w: %w", len(data), mod.Size, mod.String(), process.ErrNotFound, process.ErrPartialCopy)
	}

	offset, ok := FindFirst(data, aob)
	if !ok {
		log.Debugln("signature not found in", mod.String(), aob.String())
		return 0, fmt.Errorf("signature %q in %s: %w", aob.String(), mod.Name, process.ErrNotFound)
	}

	addr := mod.Base + process.ProcessMemoryAddress(offset)
	log.Debugln("signature matched at", addr.ToString(), aob.String())
	return addr, nil
}

// ResolveRelative decodes a RIP-relative operand: the signed 32-bit
// displacement stored at insn+dispOffset is added to the address of the
// next instruction, insn+insnLen.
func ResolveRelative(mem process.Memory, insn process.ProcessMemoryAddress, dispOffset, insnLen process.ProcessMemorySize) (process.ProcessMemoryAddress, error) {
	disp, err := process.Read[int32](mem, insn+process.ProcessMemoryAddress(dispOffset))
	if err != nil {
		return 0, fmt.Errorf("displacement at %s+%d: %w", insn.ToString(), dispOffset, err)
	}

	next := int64(insn) + int64(insnLen)
	return process.ProcessMemoryAddress(next + int64(disp)), nil
}
