package terminal

import (
	"errors"
	"io"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/chinzhiweiblank/custom-debugger/curated"
	"github.com/chinzhiweiblank/custom-debugger/debugger"
)

// Dispatcher is the subset of *debugger.Debugger the terminal drives. A
// narrow interface keeps this package testable without a live tracee.
type Dispatcher interface {
	Dispatch(line string) (exit bool, err error)
}

// Terminal is a readline-backed command loop.
type Terminal struct {
	rl    *readline.Instance
	color bool
}

// New builds a terminal prompting with debugger.Prompt, with history kept
// in-process only (no history file -- a session never outlives its
// process). color enables ANSI-coloured error output.
func New(color bool) (*Terminal, error) {
	rl, err := readline.New(debugger.Prompt + " ")
	if err != nil {
		return nil, curated.Wrap(curated.BadCommand, err, "initialise terminal")
	}
	return &Terminal{rl: rl, color: color}, nil
}

// Close releases the underlying line editor.
func (t *Terminal) Close() error {
	return t.rl.Close()
}

// errColor renders text in red. It is built once at package initialisation;
// formatError applies it only when colour is enabled.
var errColor = color.New(color.FgRed).SprintFunc()

// Run reads lines until the dispatcher reports exit, the user interrupts
// (Ctrl-D / Ctrl-C), or the line editor itself fails. It returns the process
// exit code the CLI should use: 0 on clean termination, 1 if the read loop
// ended on an editor error.
func (t *Terminal) Run(d Dispatcher) int {
	for {
		line, err := t.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				return 0
			}
			return 1
		}

		exit, err := d.Dispatch(line)
		if err != nil {
			t.printError(err)
		}
		if exit {
			return 0
		}
	}
}

func (t *Terminal) printError(err error) {
	io.WriteString(t.rl.Stderr(), formatError(err, t.color)+"\n")
}

// formatError renders err as "Kind: message" for curated errors, plainly
// otherwise, coloured red when color is true.
func formatError(err error, color bool) string {
	msg := err.Error()
	if kind, ok := curated.KindOf(err); ok {
		msg = kind.String() + ": " + msg
	}
	if color {
		msg = errColor(msg)
	}
	return msg
}
