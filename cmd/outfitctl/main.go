package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
)

type command struct {
	usage string
	run   func(args []string) error
}

var commands = map[string]command{
	"detect":  {"detect FILE...", runDetect},
	"convert": {"convert -to FORMAT [-o OUT] FILE", runConvert},
	"read":    {"read [-format FORMAT] [-o OUT]", runRead},
	"write":   {"write FILE", runWrite},
	"name":    {"name [-set NAME]", runName},
	"backup":  {"backup [-name NAME]", runBackup},
	"backups": {"backups [-kind backup|saved] [-delete ID] [-prune N]", runBackups},
	"restore": {"restore [-id ID]", runRestore},
	"scan":    {"scan [-image DIR] [-sig SIGNATURE]", runScan},
	"dump":    {"dump -o DIR", runDump},
	"probe":   {"probe [-image DIR] [-find-string S] [-find-int32 N]", runProbe},
	"serve":   {"serve [-listen ADDR]", runServe},
}

func usage() {
	fmt.Println("usage: outfitctl COMMAND [flags]")
	fmt.Println()

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  outfitctl %s\n", commands[name].usage)
	}
	fmt.Println()
	fmt.Println("Every command accepts -config FILE (default $OUTFITCTL_CONFIG).")
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(1)
	}

	cmd, ok := commands[flag.Arg(0)]
	if !ok {
		fmt.Printf("Error: unknown command %q\n", flag.Arg(0))
		usage()
		os.Exit(1)
	}

	if err := cmd.run(flag.Args()[1:]); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
