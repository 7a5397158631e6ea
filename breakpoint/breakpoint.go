package breakpoint

import (
	"github.com/chinzhiweiblank/custom-debugger/curated"
)

// trapOpcode is the one-byte x86 software trap instruction (INT3).
const trapOpcode = 0xcc

// wordIO is the memory access a breakpoint needs to patch the tracee's
// text. dbgmem.IO satisfies this.
type wordIO interface {
	ReadWord(addr uint64) (uint64, error)
	WriteWord(addr uint64, value uint64) error
}

// Breakpoint owns one (address, saved byte, enabled) tuple. When enabled,
// the byte at Addr in the tracee is the trap opcode and the original byte is
// held in savedByte; when disabled, the original byte is back in place and
// savedByte is meaningless.
type Breakpoint struct {
	mem       wordIO
	addr      uint64
	savedByte byte
	enabled   bool
}

// Addr returns the runtime address this breakpoint patches.
func (b *Breakpoint) Addr() uint64 {
	return b.addr
}

// Enabled reports whether the trap opcode is currently installed.
func (b *Breakpoint) Enabled() bool {
	return b.enabled
}

// Enable reads the word at Addr, preserves its low byte, and writes it back
// with the low byte replaced by the trap opcode.
func (b *Breakpoint) Enable() error {
	if b.enabled {
		return nil
	}
	word, err := b.mem.ReadWord(b.addr)
	if err != nil {
		return err
	}
	b.savedByte = byte(word & 0xff)
	patched := (word &^ 0xff) | trapOpcode
	if err := b.mem.WriteWord(b.addr, patched); err != nil {
		return err
	}
	b.enabled = true
	return nil
}

// Disable reads the current word, splices the saved byte back into its low
// byte, and writes it back.
func (b *Breakpoint) Disable() error {
	if !b.enabled {
		return nil
	}
	word, err := b.mem.ReadWord(b.addr)
	if err != nil {
		return err
	}
	restored := (word &^ 0xff) | uint64(b.savedByte)
	if err := b.mem.WriteWord(b.addr, restored); err != nil {
		return err
	}
	b.enabled = false
	return nil
}

// Table is the exclusive owner of every installed breakpoint, keyed by
// runtime address.
type Table struct {
	mem wordIO
	bps map[uint64]*Breakpoint
}

// NewTable returns an empty breakpoint table that patches memory through
// mem.
func NewTable(mem wordIO) *Table {
	return &Table{mem: mem, bps: make(map[uint64]*Breakpoint)}
}

// Set installs an enabled breakpoint at addr. If one already exists there
// (the table's one-per-address invariant) Set is a no-op and returns the
// existing breakpoint.
func (t *Table) Set(addr uint64) (*Breakpoint, error) {
	if bp, ok := t.bps[addr]; ok {
		return bp, nil
	}
	bp := &Breakpoint{mem: t.mem, addr: addr}
	if err := bp.Enable(); err != nil {
		return nil, err
	}
	t.bps[addr] = bp
	return bp, nil
}

// Remove disables and forgets the breakpoint at addr, if any.
func (t *Table) Remove(addr uint64) error {
	bp, ok := t.bps[addr]
	if !ok {
		return nil
	}
	if err := bp.Disable(); err != nil {
		return err
	}
	delete(t.bps, addr)
	return nil
}

// Get returns the breakpoint at addr, if any.
func (t *Table) Get(addr uint64) (*Breakpoint, bool) {
	bp, ok := t.bps[addr]
	return bp, ok
}

// Has reports whether a breakpoint is installed at addr.
func (t *Table) Has(addr uint64) bool {
	_, ok := t.bps[addr]
	return ok
}

// EnabledAddrs returns the runtime addresses of every currently enabled
// breakpoint, in no particular order. Comparing it before and after a
// stepping operation shows whether its temporary guards left any trace.
func (t *Table) EnabledAddrs() []uint64 {
	var addrs []uint64
	for addr, bp := range t.bps {
		if bp.Enabled() {
			addrs = append(addrs, addr)
		}
	}
	return addrs
}

// StepOverIfArmed disables the breakpoint at addr for the duration of fn
// (typically a single-step), then re-enables it. If no breakpoint sits at
// addr, or it is already disabled, fn still runs. This is the breakpoint
// table's half of the controller's step-over-breakpoint sequence; the
// single-step and wait themselves belong to the controller, which knows how
// to wait for the tracee to stop.
func (t *Table) StepOverIfArmed(addr uint64, fn func() error) error {
	bp, ok := t.bps[addr]
	if !ok || !bp.Enabled() {
		return fn()
	}
	if err := bp.Disable(); err != nil {
		return err
	}
	stepErr := fn()
	if err := bp.Enable(); err != nil {
		if stepErr != nil {
			return curated.Wrap(curated.TraceeIO, stepErr, "re-enable breakpoint at %#x after step failed: %v", addr, err)
		}
		return err
	}
	return stepErr
}
