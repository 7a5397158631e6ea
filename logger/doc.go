// Package logger is a process-wide logging facility. Entries fan out to
// stderr and to a capped in-memory ring buffer that can be inspected with
// Tail(), so that recent diagnostic history can be read back in-process
// without needing to re-run the session with a file redirected. The
// dispatcher's grammar has no command that shows it.
package logger
