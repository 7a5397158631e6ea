package dbgmem

import (
	"encoding/binary"

	"golang.org/x/sys/unix"

	"github.com/chinzhiweiblank/custom-debugger/curated"
)

// wordSize is the native machine word width this package reads and writes.
const wordSize = 8

// IO is word-wide read/write access to one tracee's address space.
type IO struct {
	pid int
}

// New returns a memory I/O handle bound to the tracee with the given pid.
func New(pid int) *IO {
	return &IO{pid: pid}
}

// ReadWord reads one 8-byte word at addr in the tracee's address space.
func (m *IO) ReadWord(addr uint64) (uint64, error) {
	var buf [wordSize]byte
	n, err := unix.PtracePeekData(m.pid, uintptr(addr), buf[:])
	if err != nil {
		return 0, curated.Wrap(curated.TraceeIO, err, "peek at %#x", addr)
	}
	if n != wordSize {
		return 0, curated.New(curated.TraceeIO, "peek at %#x: short read (%d of %d bytes)", addr, n, wordSize)
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// WriteWord writes value as one 8-byte word at addr in the tracee's address
// space.
func (m *IO) WriteWord(addr uint64, value uint64) error {
	var buf [wordSize]byte
	binary.LittleEndian.PutUint64(buf[:], value)
	n, err := unix.PtracePokeData(m.pid, uintptr(addr), buf[:])
	if err != nil {
		return curated.Wrap(curated.TraceeIO, err, "poke at %#x", addr)
	}
	if n != wordSize {
		return curated.New(curated.TraceeIO, "poke at %#x: short write (%d of %d bytes)", addr, n, wordSize)
	}
	return nil
}
