package debugger

import (
	"fmt"
	"io"
	"os"

	"github.com/chinzhiweiblank/custom-debugger/config"
	"github.com/chinzhiweiblank/custom-debugger/logger"
	"github.com/chinzhiweiblank/custom-debugger/tracee"
)

// Debugger is the top-level session: a tracee, the controller that drives
// it, and the ambient preferences that shape dispatcher output.
type Debugger struct {
	tracee     *tracee.Handle
	controller *Controller
	prefs      config.Preferences
	out        io.Writer
}

// New builds a session around an already-spawned tracee.
func New(h *tracee.Handle, prefs config.Preferences) *Debugger {
	return &Debugger{
		tracee:     h,
		controller: NewController(h),
		prefs:      prefs,
		out:        os.Stdout,
	}
}

// Prompt is the literal prompt string every front-end shows the user.
const Prompt = "dbg>"

// reportStop writes a human-readable account of reason to the debugger's
// output, per the signal-handler classification table: breakpoint stops
// print source context, step completions are silent, and everything else
// prints the raw signal/code.
func (d *Debugger) reportStop(reason StopReason) {
	switch reason.Kind {
	case StopBreakpoint:
		d.printCurrentSource()
	case StopStep:
		// single-step completion: silent by design
	case StopTrapOther:
		fmt.Fprintf(d.out, "%d\n", reason.SiCode)
		logger.Logf("debugger", "trap, code %d", reason.SiCode)
	case StopSegv:
		fmt.Fprintf(d.out, "segfault: %d\n", reason.SiCode)
		logger.Logf("debugger", "segfault: %d", reason.SiCode)
	case StopOtherSignal:
		fmt.Fprintf(d.out, "Unknown signal: %d\n", reason.SiCode)
		logger.Logf("debugger", "Unknown signal: %d", reason.SiCode)
	}
}

func (d *Debugger) printCurrentSource() {
	pc, err := d.controller.rip()
	if err != nil {
		logger.Logf("debugger", "read rip: %v", err)
		return
	}
	le, err := d.tracee.DWARF.LineAt(d.tracee.ToDWARF(pc))
	if err != nil {
		io.WriteString(d.out, "stopped (no line information)\n")
		return
	}
	PrintSource(d.out, le, d.prefs.ContextLines)
}
