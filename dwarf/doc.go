// Package dwarf is the address <-> source-line <-> function resolver. It
// wraps the standard library's debug/dwarf and debug/elf packages, which
// between them expose everything the spec's resolver needs: compilation
// units, DIE trees with low_pc/high_pc/name/tag attributes, and line tables
// iterable by compilation unit with address/line/file/is_stmt fields.
//
// Every lookup here consumes DWARF-space addresses, and FunctionAt, LineAt
// and LinesInFunction return DWARF-space addresses. ResolveFunction and
// ResolveSource return runtime-space addresses: the caller passes in the
// conversion function (see the tracee package's LoadBias), rather than this
// package knowing anything about load bias itself.
package dwarf
