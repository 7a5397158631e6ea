// Package tracee owns the single child process a debugger session
// controls: its pid, its ELF/DWARF image, and its load bias. It is
// responsible for spawning the child with address-space randomization
// disabled and PTRACE_TRACEME armed before the child's image is replaced,
// and for computing the load bias once the child reaches its initial stop.
package tracee
