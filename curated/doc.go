// Package curated is a helper package for the plain Go language error type.
//
// Curated errors carry a Kind, one of a small fixed taxonomy (TraceeIO,
// NoFunction, NoLineEntry, UnknownRegister, BadCommand, TraceeGone). The
// dispatcher tells these apart with Is(), rather than matching against
// formatted message text, so that the command loop can decide whether an
// error is merely worth reporting (most kinds) or fatal to the session
// (TraceeGone).
//
// Errors are created with New() and may wrap an underlying error (typically
// a syscall errno from a ptrace peek/poke) which is preserved for Unwrap().
package curated
