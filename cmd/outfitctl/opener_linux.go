package main

import (
	"outfitmem/process"
	"outfitmem/process_linux"
)

func newOpener() process.ProcessOpener {
	return process_linux.NewHelper()
}
