// Package debugger is the interactive core: it turns dispatcher commands
// into tracing operations against a tracee.Handle, waits for the tracee to
// stop, classifies why, and reports the result in terms of source lines.
//
// Everything in this package assumes a single tracee and runs on whichever
// goroutine tracee.Spawn locked to an OS thread; no operation here is safe
// to call concurrently with another.
package debugger
