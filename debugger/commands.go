package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chinzhiweiblank/custom-debugger/curated"
	"github.com/chinzhiweiblank/custom-debugger/registers"
)

// commandKeywords is the dispatcher's fixed grammar, in priority order: a
// user token that equals a keyword matches it; otherwise it matches the
// first keyword in this list of which it is a non-empty prefix (see
// matchKeyword).
var commandKeywords = []string{
	"continue",
	"break",
	"register",
	"memory",
	"stepi",
	"step",
	"next",
	"finish",
	"symbol",
}

// Dispatch splits line on whitespace, resolves the leading token against
// commandKeywords by prefix match, and runs the corresponding operation. exit
// reports whether the command loop should terminate (only *TraceeGone* ever
// sets it).
func (d *Debugger) Dispatch(line string) (exit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	keyword, ok := matchKeyword(fields[0])
	if !ok {
		return false, curated.New(curated.BadCommand, "unrecognised command %q", fields[0])
	}

	switch keyword {
	case "continue":
		reason, err := d.controller.ContinueExecution()
		if err != nil {
			return curated.Is(err, curated.TraceeGone), err
		}
		d.reportStop(reason)
		return false, nil

	case "break":
		return false, d.cmdBreak(fields[1:])

	case "register":
		return false, d.cmdRegister(fields[1:])

	case "memory":
		return false, d.cmdMemory(fields[1:])

	case "stepi":
		reason, err := d.controller.SingleStepSafe()
		if err != nil {
			return curated.Is(err, curated.TraceeGone), err
		}
		_ = reason
		d.printCurrentSource()
		return false, nil

	case "step":
		reason, err := d.controller.StepIn()
		if err != nil {
			return curated.Is(err, curated.TraceeGone), err
		}
		_ = reason
		d.printCurrentSource()
		return false, nil

	case "next":
		reason, err := d.controller.StepOver()
		if err != nil {
			return curated.Is(err, curated.TraceeGone), err
		}
		_ = reason
		d.printCurrentSource()
		return false, nil

	case "finish":
		reason, err := d.controller.StepOut()
		if err != nil {
			return curated.Is(err, curated.TraceeGone), err
		}
		_ = reason
		d.printCurrentSource()
		return false, nil

	case "symbol":
		return false, d.cmdSymbol(fields[1:])
	}

	return false, curated.New(curated.BadCommand, "unrecognised command %q", fields[0])
}

// matchKeyword finds the keyword token names. An exact match always wins
// (typing "step" must invoke step, not stepi, even though "step" is also a
// proper prefix of "stepi"); short of that, the first keyword in table order
// of which token is a non-empty prefix wins.
func matchKeyword(token string) (string, bool) {
	if token == "" {
		return "", false
	}
	for _, kw := range commandKeywords {
		if kw == token {
			return kw, true
		}
	}
	for _, kw := range commandKeywords {
		if strings.HasPrefix(kw, token) {
			return kw, true
		}
	}
	return "", false
}

func (d *Debugger) cmdBreak(args []string) error {
	if len(args) != 1 {
		return curated.New(curated.BadCommand, "break requires exactly one argument")
	}
	target := args[0]

	var addrs []uint64
	switch {
	case strings.HasPrefix(target, "0x"):
		addr, err := parseHexAddr(target)
		if err != nil {
			return err
		}
		addrs = []uint64{addr}

	case strings.Contains(target, ":"):
		file, lineStr, _ := strings.Cut(target, ":")
		line, err := strconv.Atoi(lineStr)
		if err != nil {
			return curated.New(curated.BadCommand, "break %s: bad line number", target)
		}
		resolved, err := d.tracee.DWARF.ResolveSource(file, line, d.tracee.ToRuntime)
		if err != nil {
			return err
		}
		addrs = resolved

	default:
		resolved, err := d.tracee.DWARF.ResolveFunction(target, d.tracee.ToRuntime)
		if err != nil {
			return err
		}
		addrs = resolved
	}

	for _, addr := range addrs {
		if _, err := d.tracee.Breakpoints.Set(addr); err != nil {
			return err
		}
	}
	return nil
}

func (d *Debugger) cmdRegister(args []string) error {
	if len(args) == 0 {
		return curated.New(curated.BadCommand, "register requires a subcommand")
	}
	switch args[0] {
	case "dump":
		entries, err := d.tracee.Regs.Dump()
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Fprintf(d.out, "%-10s 0x%016x\n", e.Name, e.Value)
		}
		return nil

	case "read":
		if len(args) != 2 {
			return curated.New(curated.BadCommand, "register read requires a register name")
		}
		id, err := registers.ByName(args[1])
		if err != nil {
			return err
		}
		value, err := d.tracee.Regs.Read(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(d.out, "%d\n", value)
		return nil

	case "write":
		if len(args) != 3 {
			return curated.New(curated.BadCommand, "register write requires a name and a 0x-prefixed value")
		}
		id, err := registers.ByName(args[1])
		if err != nil {
			return err
		}
		value, err := parseHexAddr(args[2])
		if err != nil {
			return err
		}
		return d.tracee.Regs.Write(id, value)

	default:
		return curated.New(curated.BadCommand, "unrecognised register subcommand %q", args[0])
	}
}

func (d *Debugger) cmdMemory(args []string) error {
	if len(args) == 0 {
		return curated.New(curated.BadCommand, "memory requires a subcommand")
	}
	switch args[0] {
	case "read":
		if len(args) != 2 {
			return curated.New(curated.BadCommand, "memory read requires a 0x-prefixed address")
		}
		addr, err := parseHexAddr(args[1])
		if err != nil {
			return err
		}
		value, err := d.tracee.Mem.ReadWord(addr)
		if err != nil {
			return err
		}
		fmt.Fprintf(d.out, "%d\n", value)
		return nil

	case "write":
		if len(args) != 3 {
			return curated.New(curated.BadCommand, "memory write requires a 0x-prefixed address and value")
		}
		addr, err := parseHexAddr(args[1])
		if err != nil {
			return err
		}
		value, err := parseHexAddr(args[2])
		if err != nil {
			return err
		}
		return d.tracee.Mem.WriteWord(addr, value)

	default:
		return curated.New(curated.BadCommand, "unrecognised memory subcommand %q", args[0])
	}
}

func (d *Debugger) cmdSymbol(args []string) error {
	if len(args) != 1 {
		return curated.New(curated.BadCommand, "symbol requires exactly one name")
	}
	symbols, err := d.tracee.DWARF.LookupSymbol(args[0])
	if err != nil {
		return err
	}
	for _, s := range symbols {
		fmt.Fprintf(d.out, "%s %s 0x%x\n", s.Name, s.Kind.String(), s.Addr)
	}
	return nil
}

// parseHexAddr requires the literal "0x" prefix the spec's grammar calls
// for; a bare hex string without it is *BadCommand*, not a convenience
// fallback.
func parseHexAddr(s string) (uint64, error) {
	if !strings.HasPrefix(s, "0x") {
		return 0, curated.New(curated.BadCommand, "expected 0x-prefixed hex value, got %q", s)
	}
	v, err := strconv.ParseUint(s[2:], 16, 64)
	if err != nil {
		return 0, curated.New(curated.BadCommand, "malformed hex value %q", s)
	}
	return v, nil
}
