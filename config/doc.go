// Package config loads user preferences for the debugger front-end: how
// many lines of source context to print around a stop, whether to colourise
// error output, and a log level (which the logger package does not read; it
// always logs at info level). These are run-wide preferences,
// not tracee session state -- nothing about a breakpoint, a register value
// or a load bias is ever persisted here.
package config
