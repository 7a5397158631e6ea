// Package registers enumerates the x86-64 general-purpose and segment
// registers the kernel exposes through PTRACE_GETREGS/PTRACE_SETREGS,
// mapping each one to its architectural name and its DWARF register number
// (the numbering CFI and location expressions use). The kernel hands back
// the whole register block in one call, so File.Dump is no more expensive
// than reading a single register. Read and Dump fetch the block once; Write
// fetches it, modifies one slot and stores it back.
package registers
