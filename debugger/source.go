package debugger

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/chinzhiweiblank/custom-debugger/dwarf"
)

// PrintSource writes line le.Line of le.File to w, with contextLines of
// surrounding context above and below, marking the current line with "> ".
// A line entry with no file name degrades to printing the bare address, and
// a source file that can't be opened (stripped build, moved tree) degrades to
// printing file:line with the open error, instead of failing the stop.
func PrintSource(w io.Writer, le dwarf.LineEntry, contextLines int) {
	if le.File == "" {
		fmt.Fprintf(w, "stopped at %#016x (no line information)\n", le.Address)
		return
	}

	f, err := os.Open(le.File)
	if err != nil {
		fmt.Fprintf(w, "stopped at %s:%d (source unavailable: %v)\n", le.File, le.Line, err)
		return
	}
	defer f.Close()

	lo := le.Line - contextLines
	if lo < 1 {
		lo = 1
	}
	hi := le.Line + contextLines

	scanner := bufio.NewScanner(f)
	n := 0
	for scanner.Scan() {
		n++
		if n < lo {
			continue
		}
		if n > hi {
			break
		}
		marker := "  "
		if n == le.Line {
			marker = "> "
		}
		fmt.Fprintf(w, "%s%4d\t%s\n", marker, n, scanner.Text())
	}
}
