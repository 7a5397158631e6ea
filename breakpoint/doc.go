// Package breakpoint implements transparent software breakpoints: a
// breakpoint owns one (address, saved byte, enabled) tuple and installs or
// removes the trap instruction by patching the tracee's text segment.
// Table owns the complete set of installed breakpoints, keyed by runtime
// address, and enforces that at most one breakpoint exists per address.
package breakpoint
