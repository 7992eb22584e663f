// Package main implements the nescore demo executable: load a ROM, run
// it through the core, and present it with the ebiten-backed frontend.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"nescore/internal/config"
	"nescore/internal/frontend"
	"nescore/internal/rom"
	"nescore/internal/scheduler"
	"nescore/internal/version"
)

func main() {
	var (
		romFile     = flag.String("rom", "", "path to an iNES/NES 2.0 ROM image")
		region      = flag.String("region", "ntsc", "console timing: ntsc, pal, or dendy")
		statesDir   = flag.String("states", "states", "directory for save-state slots")
		undocOps    = flag.Bool("unstable-ops", false, "enable undocumented 6502 opcodes")
		scale       = flag.Int("scale", 3, "window scale factor")
		showVersion = flag.Bool("version", false, "print version information and exit")
	)
	flag.Parse()

	if *showVersion {
		version.PrintBuildInfo()
		os.Exit(0)
	}

	if *romFile == "" {
		fmt.Fprintln(os.Stderr, "usage: nescore -rom <file.nes> [-region ntsc|pal|dendy] [-scale N]")
		os.Exit(2)
	}

	opts := config.Default()
	opts.CPUUndocumented = *undocOps
	switch *region {
	case "pal":
		opts.Region = config.PAL
	case "dendy":
		opts.Region = config.Dendy
	case "ntsc", "":
		opts.Region = config.NTSC
	default:
		log.Fatalf("unknown region %q: must be ntsc, pal, or dendy", *region)
	}

	cart, err := rom.Load(*romFile)
	if err != nil {
		log.Fatalf("loading rom: %v", err)
	}

	sched := scheduler.New(opts, cart, nil)
	sched.Reset()

	game, err := frontend.NewGame(sched, *romFile, *statesDir)
	if err != nil {
		log.Fatalf("starting frontend: %v", err)
	}

	ebiten.SetWindowSize(256*(*scale), 240*(*scale))
	ebiten.SetWindowTitle(fmt.Sprintf("nescore — %s", *romFile))
	if err := ebiten.RunGame(game); err != nil {
		log.Fatalf("run failed: %v", err)
	}
}
