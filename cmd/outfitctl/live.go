package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"outfitmem/formats"
	"outfitmem/outfit"
	"outfitmem/session"
	"outfitmem/wardrobe"
)

func runRead(args []string) error {
	fs := flag.NewFlagSet("read", flag.ExitOnError)
	configPath := configFlag(fs)
	formatFlag := fs.String("format", "yimmenu", "Output format")
	outFlag := fs.String("o", "", "Output file (default stdout)")
	fs.Parse(args)

	f, err := formats.ParseFormat(*formatFlag)
	if err != nil {
		return fmt.Errorf("-format %q: %w", *formatFlag, err)
	}

	e, err := openLive(*configPath, false)
	if err != nil {
		return err
	}
	defer e.close()

	o, err := e.sess.Read()
	if err != nil {
		return err
	}

	if *outFlag != "" {
		if err := session.ExportFile(o, f, *outFlag); err != nil {
			return err
		}
		fmt.Printf("Saved live outfit to %s\n", *outFlag)
		return nil
	}

	data, err := session.Export(o, f)
	if err != nil {
		return err
	}
	os.Stdout.Write(data)
	return nil
}

func runWrite(args []string) error {
	fs := flag.NewFlagSet("write", flag.ExitOnError)
	configPath := configFlag(fs)
	fs.Parse(args)

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("write needs one outfit file")
	}

	o, f, err := session.LoadFile(fs.Arg(0))
	if err != nil {
		return err
	}

	e, err := openLive(*configPath, true)
	if err != nil {
		return err
	}
	defer e.close()

	if err := e.sess.Write(o); err != nil {
		return err
	}
	fmt.Printf("Applied %s (%s, %d components, %d props)\n", fs.Arg(0), f, len(o.Components), len(o.Props))
	return nil
}

func runName(args []string) error {
	fs := flag.NewFlagSet("name", flag.ExitOnError)
	configPath := configFlag(fs)
	setFlag := fs.String("set", "", "New outfit name")
	fs.Parse(args)

	e, err := openLive(*configPath, false)
	if err != nil {
		return err
	}
	defer e.close()

	m := e.sess.Mapper()
	if *setFlag != "" {
		if err := m.SetOutfitName(*setFlag); err != nil {
			return err
		}
	}

	name, err := m.OutfitName()
	if err != nil {
		return err
	}
	fmt.Println(name)
	return nil
}

func runBackup(args []string) error {
	fs := flag.NewFlagSet("backup", flag.ExitOnError)
	configPath := configFlag(fs)
	nameFlag := fs.String("name", "manual backup", "Name for the stored outfit")
	fs.Parse(args)

	e, err := openLive(*configPath, true)
	if err != nil {
		return err
	}
	defer e.close()

	entry, err := e.sess.Backup(*nameFlag)
	if err != nil {
		return err
	}
	fmt.Printf("Saved %s as %s\n", entry.Name, entry.ID)
	return nil
}

func runRestore(args []string) error {
	fs := flag.NewFlagSet("restore", flag.ExitOnError)
	configPath := configFlag(fs)
	idFlag := fs.String("id", "", "Wardrobe entry to restore (default newest backup)")
	fs.Parse(args)

	e, err := openLive(*configPath, true)
	if err != nil {
		return err
	}
	defer e.close()

	entry, err := e.sess.Restore(*idFlag)
	if err != nil {
		return err
	}
	fmt.Printf("Restored %s (%s, %s)\n", entry.ID, entry.Name, entry.CreatedAt.Local().Format(time.DateTime))
	return nil
}

// runBackups works on the wardrobe alone and never attaches
func runBackups(args []string) error {
	fs := flag.NewFlagSet("backups", flag.ExitOnError)
	configPath := configFlag(fs)
	kindFlag := fs.String("kind", "", "Only list backup or saved entries")
	deleteFlag := fs.String("delete", "", "Delete the entry with this id")
	pruneFlag := fs.Int("prune", -1, "Keep only the newest N automatic backups")
	fs.Parse(args)

	e, err := newEnv(*configPath, true)
	if err != nil {
		return err
	}
	defer e.close()

	if e.store == nil {
		return session.ErrNoWardrobe
	}

	if *deleteFlag != "" {
		if err := e.store.Delete(*deleteFlag); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", *deleteFlag)
	}
	if *pruneFlag >= 0 {
		n, err := e.store.Prune(wardrobe.KindBackup, *pruneFlag)
		if err != nil {
			return err
		}
		fmt.Printf("Pruned %d backups\n", n)
	}

	entries, err := e.store.List(wardrobe.Kind(*kindFlag))
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKIND\tMODEL\tCREATED\tNAME")
	for _, entry := range entries {
		model := formats.ModelHashToName(entry.Model)
		if entry.Model != outfit.ModelFreemodeMale && entry.Model != outfit.ModelFreemodeFemale {
			model = fmt.Sprintf("0x%08X", entry.Model)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", entry.ID, entry.Kind, model, entry.CreatedAt.Local().Format(time.DateTime), entry.Name)
	}
	return tw.Flush()
}
