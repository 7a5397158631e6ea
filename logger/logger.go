package logger

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	slogmulti "github.com/samber/slog-multi"
)

// capacity is the number of log lines retained by the ring buffer. Older
// entries are silently dropped once the cap is reached.
const capacity = 500

// ring is a capped, thread-safe buffer of whole lines written by the slog
// text handler. It exists so that Tail() can answer "what just happened"
// without re-reading a log file that may not exist.
type ring struct {
	mu    sync.Mutex
	lines []string
}

func (r *ring) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, line := range strings.SplitAfter(string(p), "\n") {
		if line == "" {
			continue
		}
		r.lines = append(r.lines, line)
	}
	if over := len(r.lines) - capacity; over > 0 {
		r.lines = r.lines[over:]
	}
	return len(p), nil
}

func (r *ring) tail(w io.Writer, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n > len(r.lines) || n <= 0 {
		n = len(r.lines)
	}
	for _, line := range r.lines[len(r.lines)-n:] {
		io.WriteString(w, line)
	}
}

func (r *ring) writeAll(w io.Writer) {
	r.tail(w, -1)
}

var (
	buf = &ring{}
	std = slog.New(slogmulti.Fanout(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo}),
	))
)

// Log writes an entry tagged with the originating component (eg.
// "breakpoint", "dwarf", "controller").
func Log(tag string, v ...interface{}) {
	std.Info(joinArgs(v), "tag", tag)
}

// Logf is the Printf-style equivalent of Log.
func Logf(tag, format string, args ...interface{}) {
	std.Info(fmt.Sprintf(format, args...), "tag", tag)
}

// Tail copies up to the last n log lines to w. Asking for more lines than
// are available is not an error; the full buffer is returned.
func Tail(w io.Writer, n int) {
	buf.tail(w, n)
}

// Write copies the entire retained buffer to w.
func Write(w io.Writer) {
	buf.writeAll(w)
}

func joinArgs(v []interface{}) string {
	var b bytes.Buffer
	for i, a := range v {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch t := a.(type) {
		case error:
			b.WriteString(t.Error())
		case string:
			b.WriteString(t)
		default:
			b.WriteString(fmt.Sprintf("%v", t))
		}
	}
	return b.String()
}
