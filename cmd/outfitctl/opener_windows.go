package main

import (
	"outfitmem/process"
	"outfitmem/process_windows"
)

func newOpener() process.ProcessOpener {
	return process_windows.NewHelper()
}
