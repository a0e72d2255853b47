package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"outfitmem/hexdump"
	"outfitmem/layout"
	"outfitmem/process"
	"outfitmem/process_blob"
	"outfitmem/scan"
	"outfitmem/search"
)

// openTarget opens the live process named by the layout, or a saved image
func openTarget(l *layout.Layout, imageDir string) (process.Process, error) {
	if imageDir != "" {
		blob, err := process_blob.Load(imageDir)
		if err != nil {
			return nil, err
		}
		return blob, nil
	}
	return newOpener().OpenProcessByName(l.ProcessName)
}

func runScan(args []string) error {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	configPath := configFlag(fs)
	imageFlag := fs.String("image", "", "Scan a saved module image instead of the live process")
	sigFlag := fs.String("sig", "", "Signature to scan for (default: the layout's world and outfit signatures)")
	maxFlag := fs.Int("max", 8, "Maximum matches to print per signature")
	fs.Parse(args)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	l, err := cfg.LoadLayout()
	if err != nil {
		return err
	}

	proc, err := openTarget(l, *imageFlag)
	if err != nil {
		return err
	}
	defer proc.Close()

	mod, err := proc.MainModule()
	if err != nil {
		return err
	}
	fmt.Printf("Module %s\n", mod.String())

	data, err := proc.ReadMemory(mod.Base, mod.Size)
	if err != nil {
		return fmt.Errorf("read %s: %w", mod.String(), err)
	}

	type signature struct{ name, sig string }
	sigs := []signature{{"world", l.WorldSignature}, {"outfit", l.OutfitSignature}}
	if *sigFlag != "" {
		sigs = []signature{{"custom", *sigFlag}}
	}

	for _, s := range sigs {
		aob := scan.ParseSignature(s.sig)
		matches := scan.FindAll(data, aob)
		fmt.Printf("\n%s signature %s: %d matches\n", s.name, aob.String(), len(matches))

		for i, off := range matches {
			if i >= *maxFlag {
				fmt.Printf("... %d more\n", len(matches)-i)
				break
			}

			addr := mod.Base + process.ProcessMemoryAddress(off)
			fmt.Printf("Match at %s", addr.ToString())
			if target, err := scan.ResolveRelative(proc, addr, process.ProcessMemorySize(l.RelativeDisplacement), process.ProcessMemorySize(l.RelativeInstructionLength)); err == nil {
				fmt.Printf(" -> %s", target.ToString())
			}
			fmt.Println()

			window, start, err := hexdump.Around(proc, mod, addr, 16, 32)
			if err != nil {
				continue
			}
			opts := hexdump.DefaultOptions()
			opts.Base = start
			opts.Modules = []process.Module{mod}
			opts.Highlight = []hexdump.Span{{Offset: int(addr - start), Mask: aob.Mask}}
			hexdump.DumpToWriter(os.Stdout, window, opts)
		}
	}
	return nil
}

func runDump(args []string) error {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	configPath := configFlag(fs)
	outputFlag := fs.String("o", "", "Output directory for the module image")
	fs.Parse(args)

	if *outputFlag == "" {
		fs.Usage()
		return fmt.Errorf("-o is required")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	l, err := cfg.LoadLayout()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(*outputFlag, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	proc, err := openTarget(l, "")
	if err != nil {
		return err
	}
	defer proc.Close()

	fmt.Printf("Attached to %s (pid %d)\n", proc.Name(), proc.GetPID())

	blob, err := process_blob.SaveModule(proc, *outputFlag)
	if err != nil {
		return err
	}
	fmt.Printf("Saved %d bytes at %s to %s\n", len(blob.Data()), blob.Base().ToString(), *outputFlag)
	return nil
}

// runProbe attaches, prints what the layout resolves to, and optionally
// searches from the outfit base to relearn offsets after a target update
func runProbe(args []string) error {
	fs := flag.NewFlagSet("probe", flag.ExitOnError)
	configPath := configFlag(fs)
	imageFlag := fs.String("image", "", "Probe a saved module image instead of the live process")
	findStringFlag := fs.String("find-string", "", "Search pointer paths from the outfit base to this NUL-terminated string")
	findIntFlag := fs.Int("find-int32", 0, "Search the outfit block for this int32 value")
	depthFlag := fs.Int("depth", 3, "Pointer depth for -find-string")
	fs.Parse(args)

	e, err := newEnv(*configPath, false)
	if err != nil {
		return err
	}
	defer e.close()

	if err := e.attach(context.Background(), *imageFlag); err != nil {
		return err
	}

	bases, err := e.sess.Binder().Bases()
	if err != nil {
		return err
	}
	proc := e.sess.Binder().Process()
	fmt.Printf("Process %s (pid %d)\n", proc.Name(), proc.GetPID())
	fmt.Printf("World base  %s\n", bases.World.ToString())
	fmt.Printf("Outfit base %s\n", bases.Outfit.ToString())

	m := e.sess.Mapper()
	if model, err := m.Model(); err == nil {
		fmt.Printf("Model       0x%08X\n", model)
	} else {
		fmt.Printf("Model       unreadable: %v\n", err)
	}
	if name, err := m.OutfitName(); err == nil {
		fmt.Printf("Name        %q\n", name)
	} else {
		fmt.Printf("Name        unreadable: %v\n", err)
	}

	if *findStringFlag != "" {
		results, err := search.Search(proc, bases.Outfit,
			search.WithSearchForString(*findStringFlag),
			search.WithMaxStructSize(0x1200),
			search.WithMaxDepth(*depthFlag),
			search.WithMinAlignment(4),
			search.WithMaxResults(32),
		)
		if err != nil {
			return err
		}
		fmt.Printf("\n%d paths to %q:\n", len(results), *findStringFlag)
		for _, r := range results {
			addr, err := r.Resolve(proc, bases.Outfit)
			if err != nil {
				fmt.Printf("  outfit %s (no name_chain: %v)\n", r.String(), err)
				continue
			}
			got, err := process.ReadNTS(proc, addr, process.ProcessMemorySize(len(*findStringFlag)+1))
			if err != nil || got != *findStringFlag {
				fmt.Printf("  outfit %s (chain resolves to %s, string mismatch)\n", r.String(), addr.ToString())
				continue
			}
			fmt.Printf("  name_chain = %s\n", r.ChainString())
		}
	}

	if *findIntFlag != 0 {
		results, err := search.Search(proc, bases.Outfit,
			search.WithSearchForType(int32(*findIntFlag)),
			search.WithMaxStructSize(0x6000),
			search.WithMaxDepth(0),
			search.WithMaxResults(64),
		)
		if err != nil {
			return err
		}
		fmt.Printf("\n%d fields holding %d:\n", len(results), *findIntFlag)
		for _, r := range results {
			fmt.Printf("  outfit %s\n", r.String())
		}
	}
	return nil
}
