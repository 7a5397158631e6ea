// Package terminal is the interactive front-end: a readline-backed prompt
// with history, feeding command lines to a debugger.Debugger and rendering
// its errors in colour.
package terminal
