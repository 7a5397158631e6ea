package registers

import (
	"fmt"
	"reflect"

	"golang.org/x/sys/unix"

	"github.com/chinzhiweiblank/custom-debugger/curated"
)

// ID identifies one architectural register. The zero value is Rax.
type ID int

const (
	Rax ID = iota
	Rbx
	Rcx
	Rdx
	Rdi
	Rsi
	Rbp
	Rsp
	R8
	R9
	R10
	R11
	R12
	R13
	R14
	R15
	Rip
	Eflags
	Cs
	Ss
	Ds
	Es
	Fs
	Gs
	OrigRax
	FsBase
	GsBase
)

// noDwarfID marks a register that has no place in the DWARF register-number
// convention (it is never the target of a CFI rule or location expression).
const noDwarfID = -1

// descriptor binds a register's name and DWARF number to the field of
// unix.PtraceRegs that holds its value.
type descriptor struct {
	id      ID
	name    string
	dwarfID int
	field   string // field name in golang.org/x/sys/unix.PtraceRegs
}

// table is the fixed, ordered register descriptor table. Its order is the
// canonical dump order. Numbering follows the System V AMD64 ABI's DWARF
// register-number assignment.
var table = []descriptor{
	{Rax, "rax", 0, "Rax"},
	{Rdx, "rdx", 1, "Rdx"},
	{Rcx, "rcx", 2, "Rcx"},
	{Rbx, "rbx", 3, "Rbx"},
	{Rsi, "rsi", 4, "Rsi"},
	{Rdi, "rdi", 5, "Rdi"},
	{Rbp, "rbp", 6, "Rbp"},
	{Rsp, "rsp", 7, "Rsp"},
	{R8, "r8", 8, "R8"},
	{R9, "r9", 9, "R9"},
	{R10, "r10", 10, "R10"},
	{R11, "r11", 11, "R11"},
	{R12, "r12", 12, "R12"},
	{R13, "r13", 13, "R13"},
	{R14, "r14", 14, "R14"},
	{R15, "r15", 15, "R15"},
	{Rip, "rip", 16, "Rip"},
	{Eflags, "eflags", 49, "Eflags"},
	{Es, "es", 50, "Es"},
	{Cs, "cs", 51, "Cs"},
	{Ss, "ss", 52, "Ss"},
	{Ds, "ds", 53, "Ds"},
	{Fs, "fs", 54, "Fs"},
	{Gs, "gs", 55, "Gs"},
	{FsBase, "fs_base", 58, "Fs_base"},
	{GsBase, "gs_base", 59, "Gs_base"},
	{OrigRax, "orig_rax", noDwarfID, "Orig_rax"},
}

func descriptorByID(id ID) (descriptor, bool) {
	for _, d := range table {
		if d.id == id {
			return d, true
		}
	}
	return descriptor{}, false
}

// ByName finds a register by its exact architectural name.
func ByName(name string) (ID, error) {
	for _, d := range table {
		if d.name == name {
			return d.id, nil
		}
	}
	return 0, curated.New(curated.UnknownRegister, "unknown register %q", name)
}

// ByDwarfID finds a register by its DWARF register number.
func ByDwarfID(dwarfID int) (ID, error) {
	for _, d := range table {
		if d.dwarfID == dwarfID {
			return d.id, nil
		}
	}
	return 0, curated.New(curated.UnknownRegister, "unknown DWARF register number %d", dwarfID)
}

// Name returns the architectural name of id.
func Name(id ID) string {
	d, ok := descriptorByID(id)
	if !ok {
		return fmt.Sprintf("reg(%d)", int(id))
	}
	return d.name
}

// DwarfID returns the DWARF register number of id, or false if id has none.
func DwarfID(id ID) (int, bool) {
	d, ok := descriptorByID(id)
	if !ok || d.dwarfID == noDwarfID {
		return 0, false
	}
	return d.dwarfID, true
}

// File is the tracee's register block, addressed via a single
// PTRACE_GETREGS/PTRACE_SETREGS round trip per operation.
type File struct {
	pid int
}

// NewFile returns a register file bound to the tracee with the given pid.
func NewFile(pid int) *File {
	return &File{pid: pid}
}

func (f *File) fetch() (unix.PtraceRegs, error) {
	var regs unix.PtraceRegs
	if err := unix.PtraceGetRegs(f.pid, &regs); err != nil {
		return regs, curated.Wrap(curated.TraceeIO, err, "get registers")
	}
	return regs, nil
}

func (f *File) store(regs *unix.PtraceRegs) error {
	if err := unix.PtraceSetRegs(f.pid, regs); err != nil {
		return curated.Wrap(curated.TraceeIO, err, "set registers")
	}
	return nil
}

func field(regs *unix.PtraceRegs, name string) reflect.Value {
	return reflect.ValueOf(regs).Elem().FieldByName(name)
}

// Read fetches the whole register block and returns the value of id.
func (f *File) Read(id ID) (uint64, error) {
	d, ok := descriptorByID(id)
	if !ok {
		return 0, curated.New(curated.UnknownRegister, "unknown register id %d", int(id))
	}
	regs, err := f.fetch()
	if err != nil {
		return 0, err
	}
	return field(&regs, d.field).Uint(), nil
}

// Write fetches the whole register block, overwrites the slot for id, and
// writes the block back.
func (f *File) Write(id ID, value uint64) error {
	d, ok := descriptorByID(id)
	if !ok {
		return curated.New(curated.UnknownRegister, "unknown register id %d", int(id))
	}
	regs, err := f.fetch()
	if err != nil {
		return err
	}
	field(&regs, d.field).SetUint(value)
	return f.store(&regs)
}

// DumpEntry is one row of a register dump, in canonical table order.
type DumpEntry struct {
	Name  string
	Value uint64
}

// Dump fetches the register block once and returns every register in
// canonical order.
func (f *File) Dump() ([]DumpEntry, error) {
	regs, err := f.fetch()
	if err != nil {
		return nil, err
	}
	out := make([]DumpEntry, 0, len(table))
	for _, d := range table {
		out = append(out, DumpEntry{Name: d.name, Value: field(&regs, d.field).Uint()})
	}
	return out, nil
}
