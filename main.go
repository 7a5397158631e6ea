package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chinzhiweiblank/custom-debugger/config"
	"github.com/chinzhiweiblank/custom-debugger/debugger"
	"github.com/chinzhiweiblank/custom-debugger/debugger/terminal"
	"github.com/chinzhiweiblank/custom-debugger/logger"
	"github.com/chinzhiweiblank/custom-debugger/tracee"
)

func main() {
	os.Exit(run())
}

// run wires argument parsing, tracee spawning, and the command loop, and
// returns the process exit code: -1 if no program path was given, 1 if the
// tracee or the terminal could not be set up, otherwise the exit code of the
// final command-loop read.
func run() int {
	code := -1

	root := &cobra.Command{
		Use:           "debugger <program-path> [program-args...]",
		Short:         "a source-level debugger for DWARF-annotated x86-64 Linux executables",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code = runSession(args[0], args[1:])
			return nil
		},
	}

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return -1
	}
	return code
}

// runSession spawns the tracee, builds the debugger session, and drives the
// command loop to completion.
func runSession(path string, args []string) int {
	seedDefaultPreferences()

	prefs, err := config.Load()
	if err != nil {
		logger.Logf("main", "load preferences: %v", err)
		prefs = config.Preferences{ContextLines: 2, Color: true}
	}

	h, err := tracee.Spawn(path, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer h.Kill()

	dbg := debugger.New(h, prefs)

	term, err := terminal.New(prefs.Color)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer term.Close()

	return term.Run(dbg)
}

// seedDefaultPreferences writes a default $HOME/.dbgrc.yaml on first run, so
// a user who wants to tweak a preference has something to edit instead of
// reverse-engineering the defaults from source. A missing $HOME (unusual,
// but possible under some container/init setups) just means config.Load
// falls back to its own built-in defaults; it's not fatal here.
func seedDefaultPreferences() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	if err := config.WriteDefault(filepath.Join(home, ".dbgrc.yaml")); err != nil {
		logger.Logf("main", "write default preferences: %v", err)
	}
}
