//go:build !linux && !windows

package main

import (
	"fmt"
	"runtime"

	"outfitmem/process"
)

type unsupportedOpener struct{}

func (unsupportedOpener) OpenProcessByName(name string) (process.Process, error) {
	return nil, fmt.Errorf("open %s: live memory access is not supported on %s: %w", name, runtime.GOOS, process.ErrNotFound)
}

func newOpener() process.ProcessOpener {
	return unsupportedOpener{}
}
