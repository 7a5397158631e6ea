package debugger

import (
	"golang.org/x/sys/unix"

	"github.com/chinzhiweiblank/custom-debugger/curated"
	"github.com/chinzhiweiblank/custom-debugger/dwarf"
	"github.com/chinzhiweiblank/custom-debugger/registers"
	"github.com/chinzhiweiblank/custom-debugger/tracee"
)

// Controller drives one tracee through continue/step/breakpoint operations.
// It holds no state of its own beyond the handle it was built on; every
// operation reads and writes the handle directly so that the dispatcher can
// interleave controller calls with register/memory inspection freely.
type Controller struct {
	h *tracee.Handle
}

// NewController returns a controller bound to h.
func NewController(h *tracee.Handle) *Controller {
	return &Controller{h: h}
}

func (c *Controller) rip() (uint64, error) {
	return c.h.Regs.Read(registers.Rip)
}

func (c *Controller) setRip(addr uint64) error {
	return c.h.Regs.Write(registers.Rip, addr)
}

// ContinueExecution resumes the tracee, first stepping over a breakpoint at
// the current PC if one is armed there, then issues PTRACE_CONT and waits.
func (c *Controller) ContinueExecution() (StopReason, error) {
	if err := c.StepOverBreakpointAtPC(); err != nil {
		return StopReason{}, err
	}
	if err := unix.PtraceCont(c.h.Pid, 0); err != nil {
		return StopReason{}, curated.Wrap(curated.TraceeIO, err, "continue pid %d", c.h.Pid)
	}
	return c.waitAndReport()
}

// StepOverBreakpointAtPC is step_over_breakpoint: if PC sits on an enabled
// breakpoint, disable it, single-step past it, wait, then re-enable it. The
// breakpoint stays logically installed for the next traversal.
func (c *Controller) StepOverBreakpointAtPC() error {
	pc, err := c.rip()
	if err != nil {
		return err
	}
	return c.h.Breakpoints.StepOverIfArmed(pc, func() error {
		if err := unix.PtraceSingleStep(c.h.Pid); err != nil {
			return curated.Wrap(curated.TraceeIO, err, "single-step pid %d", c.h.Pid)
		}
		_, err := waitForSignal(c.h.Pid)
		return err
	})
}

// SingleStep issues a raw single-step and waits. Callers must know PC is not
// currently on a breakpoint; SingleStepSafe is the general-purpose version.
func (c *Controller) SingleStep() (StopReason, error) {
	if err := unix.PtraceSingleStep(c.h.Pid); err != nil {
		return StopReason{}, curated.Wrap(curated.TraceeIO, err, "single-step pid %d", c.h.Pid)
	}
	return c.waitAndReport()
}

// SingleStepSafe steps one instruction regardless of whether PC sits on a
// breakpoint.
func (c *Controller) SingleStepSafe() (StopReason, error) {
	pc, err := c.rip()
	if err != nil {
		return StopReason{}, err
	}
	if bp, ok := c.h.Breakpoints.Get(pc); ok && bp.Enabled() {
		var reason StopReason
		err := c.h.Breakpoints.StepOverIfArmed(pc, func() error {
			if err := unix.PtraceSingleStep(c.h.Pid); err != nil {
				return curated.Wrap(curated.TraceeIO, err, "single-step pid %d", c.h.Pid)
			}
			r, err := waitForSignal(c.h.Pid)
			reason = r
			return err
		})
		return reason, err
	}
	return c.SingleStep()
}

func (c *Controller) waitAndReport() (StopReason, error) {
	reason, err := waitForSignal(c.h.Pid)
	if err != nil {
		return reason, err
	}
	if reason.Kind == StopBreakpoint {
		if err := c.rewindPastTrap(); err != nil {
			return reason, err
		}
	}
	return reason, nil
}

// rewindPastTrap decrements PC by one: the trap opcode has already executed
// and the CPU advanced past it by the time the signal is delivered. Rewinding
// restores the illusion that execution stopped at the instrumented
// instruction.
func (c *Controller) rewindPastTrap() error {
	pc, err := c.rip()
	if err != nil {
		return err
	}
	return c.setRip(pc - 1)
}

// currentFunction resolves the DWARF-space function enclosing the current
// PC. Every stepping operation that needs the enclosing function's range
// goes through this.
func (c *Controller) currentFunction() (dwarf.Function, error) {
	pc, err := c.rip()
	if err != nil {
		return dwarf.Function{}, err
	}
	return c.h.DWARF.FunctionAt(c.h.ToDWARF(pc))
}

func (c *Controller) currentLine() (dwarf.LineEntry, error) {
	pc, err := c.rip()
	if err != nil {
		return dwarf.LineEntry{}, err
	}
	return c.h.DWARF.LineAt(c.h.ToDWARF(pc))
}

// StepIn samples the current line, then single-steps until the line entry at
// the new PC differs from the sample. Because the single-step lands on the
// callee's first instruction when PC sits on a call, this crosses function
// boundaries naturally -- no special-casing of call instructions is needed.
func (c *Controller) StepIn() (StopReason, error) {
	if _, err := c.currentFunction(); err != nil {
		return StopReason{}, err
	}
	start, err := c.currentLine()
	if err != nil {
		return StopReason{}, err
	}

	for {
		reason, err := c.SingleStepSafe()
		if err != nil {
			return reason, err
		}
		line, err := c.currentLine()
		if err != nil {
			// No line entry at the new PC (eg. stepped into unannotated
			// library code): report the step as complete anyway.
			return reason, nil
		}
		if line.Address != start.Address {
			return reason, nil
		}
	}
}

// frameReturnAddress reads the return address from *(rbp + 8), the standard
// x86-64 frame layout: rbp points at the saved caller rbp, and the return
// address sits in the word immediately above it.
func (c *Controller) frameReturnAddress() (uint64, error) {
	rbp, err := c.h.Regs.Read(registers.Rbp)
	if err != nil {
		return 0, err
	}
	return c.h.Mem.ReadWord(rbp + 8)
}

// StepOver computes the enclosing function's range, installs a guard at
// every line-table address in that range other than the current line
// (skipping any already instrumented), installs a guard at the dynamic
// return address, resumes execution, and removes every temporary guard once
// the tracee stops -- whether or not it was the guard that was hit.
//
// Guards are installed, then execution is continued, and only then removed.
// An earlier draft of this tried to build its list of temporaries and tear
// them down in the same pass that installed them, before ever resuming the
// tracee; that left no guard standing by the time continue ran. This does it
// in the order that actually lets the tracee run to one of them.
func (c *Controller) StepOver() (StopReason, error) {
	fn, err := c.currentFunction()
	if err != nil {
		return StopReason{}, err
	}
	curLine, err := c.currentLine()
	if err != nil {
		return StopReason{}, err
	}

	lines, err := c.h.DWARF.LinesInFunction(fn)
	if err != nil {
		return StopReason{}, err
	}

	guards := make([]uint64, 0, len(lines)+1)
	for _, le := range lines {
		if le.Address == curLine.Address {
			continue
		}
		runtimeAddr := c.h.ToRuntime(le.Address)
		if c.h.Breakpoints.Has(runtimeAddr) {
			continue
		}
		guards = append(guards, runtimeAddr)
	}

	retAddr, err := c.frameReturnAddress()
	if err != nil {
		return StopReason{}, err
	}
	if !c.h.Breakpoints.Has(retAddr) {
		guards = append(guards, retAddr)
	}

	for _, addr := range guards {
		if _, err := c.h.Breakpoints.Set(addr); err != nil {
			c.removeGuards(guards)
			return StopReason{}, err
		}
	}

	reason, contErr := c.ContinueExecution()
	c.removeGuards(guards)
	return reason, contErr
}

// StepOut installs a guard at the return address (unless one is already
// instrumented there), continues, and removes the guard once the tracee
// stops.
func (c *Controller) StepOut() (StopReason, error) {
	retAddr, err := c.frameReturnAddress()
	if err != nil {
		return StopReason{}, err
	}

	installed := false
	if !c.h.Breakpoints.Has(retAddr) {
		if _, err := c.h.Breakpoints.Set(retAddr); err != nil {
			return StopReason{}, err
		}
		installed = true
	}

	reason, contErr := c.ContinueExecution()
	if installed {
		c.h.Breakpoints.Remove(retAddr)
	}
	return reason, contErr
}

// removeGuards tears down every temporary guard from a step-over, regardless
// of the outcome of the continue that preceded the call -- the success path
// and the error path both leave the breakpoint table matching reality in the
// tracee.
func (c *Controller) removeGuards(addrs []uint64) {
	for _, addr := range addrs {
		c.h.Breakpoints.Remove(addr)
	}
}
