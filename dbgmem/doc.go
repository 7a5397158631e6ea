// Package dbgmem is the tracee's word-wide memory I/O, built directly on the
// kernel's data-peek and data-poke tracing operations. There is no partial-
// read semantics and no alignment transformation: a read or write always
// moves one native machine word.
package dbgmem
