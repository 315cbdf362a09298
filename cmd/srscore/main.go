// srscore is the CLI surface of the SRS core: subcommands dispatch on a
// store's persisted "kind" string to pick a modality, the way the
// teacher's goclode binary dispatched on flags to pick a provider. The
// core itself (store, scheduler, comparator, session loop) does the
// real work; this file is thin glue, per spec.md §1.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hazyhaar/srscore/internal/freeformmodality"
	"github.com/hazyhaar/srscore/internal/midi"
	"github.com/hazyhaar/srscore/internal/midimodality"
	"github.com/hazyhaar/srscore/internal/modality"
	"github.com/hazyhaar/srscore/internal/notify"
	"github.com/hazyhaar/srscore/internal/scheduler"
	"github.com/hazyhaar/srscore/internal/sessionrunner"
	"github.com/hazyhaar/srscore/internal/stenomodality"
	"github.com/hazyhaar/srscore/internal/store"
)

const version = "0.1.0"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `srscore v%s - spaced-repetition learning engine

Usage:
  srscore create <path> <kind>     Create a new store (kind: midi, steno, freeform)
  srscore run <path>               Run a learning session against an existing store

Options:
`, version)
		flag.PrintDefaults()
	}

	debug := flag.Bool("debug", false, "attach a console sink that prints every emitted event")
	midiPort := flag.String("midi-port", "", "MIDI input port name (midi kind only)")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		os.Exit(1)
	}

	var err error
	switch args[0] {
	case "create":
		err = runCreate(args[1:])
	case "run":
		err = runSession(args[1:], *debug, *midiPort)
	default:
		flag.Usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runCreate(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: srscore create <path> <kind>")
	}
	path, kind := args[0], args[1]

	s, err := store.Create(path, kind)
	if err != nil {
		return err
	}
	defer s.Close()

	fmt.Printf("created %s store at %s\n", kind, filepath.Clean(path))
	return nil
}

func runSession(args []string, debug bool, midiPort string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: srscore run <path>")
	}
	path := args[0]

	s, err := store.Open(path)
	if err != nil {
		return err
	}
	defer s.Close()

	if debug {
		s.Bus().Attach(notify.ConsoleSink{Out: os.Stdout})
	}
	sink := notify.ConsoleSink{Out: os.Stdout}

	m, cleanup, err := buildModality(s.GetKind(), midiPort, path)
	if err != nil {
		return err
	}
	defer cleanup()

	runner := sessionrunner.New(s, m, scheduler.NewSystemRand(time.Now().UnixNano()), sink)
	scored, err := runner.Run()
	if err != nil {
		return err
	}
	fmt.Printf("\nscored %d problem(s)\n", scored)
	return nil
}

func buildModality(kind, midiPort, storePath string) (modality.Modality, func() error, error) {
	noop := func() error { return nil }

	switch kind {
	case "midi":
		port, err := midi.OpenPort(midiPort)
		if err != nil {
			return nil, noop, err
		}
		return midimodality.New(port), port.Close, nil

	case "steno":
		// Device I/O for the steno machine is an external collaborator;
		// wiring a real driver is deferred until one is available. Strokes
		// are read from stdin in the meantime, newline-delimited.
		return stenomodality.New(stenomodality.NewReaderSource(os.Stdin)), noop, nil

	case "freeform":
		historyFile := filepath.Join(filepath.Dir(storePath), ".srscore_history")
		m, err := freeformmodality.New(historyFile)
		if err != nil {
			return nil, noop, err
		}
		return m, m.Close, nil

	default:
		return nil, noop, fmt.Errorf("unrecognized store kind %q", kind)
	}
}
