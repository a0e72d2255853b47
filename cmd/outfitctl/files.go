package main

import (
	"flag"
	"fmt"
	"os"

	"outfitmem/formats"
	"outfitmem/session"
)

func runDetect(args []string) error {
	fs := flag.NewFlagSet("detect", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("detect needs at least one file")
	}

	for _, path := range fs.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %s\n", path, formats.DetectFormat(data))
	}
	return nil
}

func runConvert(args []string) error {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	toFlag := fs.String("to", "", "Target format: cherax, yimmenu, lexis, stand")
	outFlag := fs.String("o", "", "Output file (default stdout)")
	fs.Parse(args)

	if fs.NArg() != 1 || *toFlag == "" {
		fs.Usage()
		return fmt.Errorf("convert needs -to and one input file")
	}

	to, err := formats.ParseFormat(*toFlag)
	if err != nil {
		return fmt.Errorf("-to %q: %w", *toFlag, err)
	}

	o, from, err := session.LoadFile(fs.Arg(0))
	if err != nil {
		return err
	}

	if *outFlag == "" {
		data, err := session.Export(o, to)
		if err != nil {
			return err
		}
		os.Stdout.Write(data)
		return nil
	}

	if err := session.ExportFile(o, to, *outFlag); err != nil {
		return err
	}
	fmt.Printf("Converted %s (%s) to %s (%s)\n", fs.Arg(0), from, *outFlag, to)
	return nil
}
