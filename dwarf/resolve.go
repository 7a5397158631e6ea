package dwarf

import (
	stddwarf "debug/dwarf"
	"io"
	"strings"
)

// ResolveFunction returns the post-prologue entry address, translated to
// runtime space by toRuntime, of every DIE named name.
//
// The post-prologue address is computed from the DIE's own low_pc: seek the
// line table to low_pc, then step to the next row. An earlier draft of this
// resolver instead used the line entry for whatever PC happened to be
// current when the lookup ran -- the prologue of whichever function the
// tracee was stopped in, not the function being resolved. That was a bug;
// this computes it fresh from the target DIE every time.
func (r *Resolver) ResolveFunction(name string, toRuntime func(uint64) uint64) ([]uint64, error) {
	var addrs []uint64
	reader := r.data.Reader()
	for {
		entry, err := reader.Next()
		if err != nil {
			return nil, err
		}
		if entry == nil {
			break
		}
		n, ok := entry.Val(stddwarf.AttrName).(string)
		if !ok || n != name {
			continue
		}
		low, ok := entry.Val(stddwarf.AttrLowpc).(uint64)
		if !ok {
			continue
		}
		entryAddr, err := r.postPrologueAddr(low)
		if err != nil {
			continue
		}
		addrs = append(addrs, toRuntime(entryAddr))
	}
	return addrs, nil
}

func (r *Resolver) postPrologueAddr(lowPC uint64) (uint64, error) {
	for _, cu := range r.units {
		if !cu.contains(lowPC) {
			continue
		}
		lr, err := r.data.LineReader(cu.root)
		if err != nil {
			return 0, err
		}
		var le stddwarf.LineEntry
		if err := lr.SeekPC(lowPC, &le); err != nil {
			return 0, err
		}
		if err := lr.Next(&le); err != nil {
			return 0, err
		}
		return le.Address, nil
	}
	return 0, stddwarf.ErrUnknownPC
}

// ResolveSource returns the runtime addresses, translated by toRuntime, of
// every is_stmt line-table entry at line in every compile unit whose root
// name ends with filename (a suffix match, so a bare basename matches a
// unit compiled from a longer path). An empty result is valid: it just
// means no such line exists.
func (r *Resolver) ResolveSource(filename string, line int, toRuntime func(uint64) uint64) ([]uint64, error) {
	var addrs []uint64
	for _, cu := range r.units {
		if !strings.HasSuffix(cu.name, filename) {
			continue
		}
		lr, err := r.data.LineReader(cu.root)
		if err != nil || lr == nil {
			continue
		}
		var le stddwarf.LineEntry
		for {
			err := lr.Next(&le)
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, err
			}
			if le.IsStmt && le.Line == line {
				addrs = append(addrs, toRuntime(le.Address))
			}
		}
	}
	return addrs, nil
}

// LinesInFunction returns every line-table entry between a function's
// low_pc (inclusive) and high_pc (exclusive), in address order. The
// execution controller's step-over uses this to plant a guard breakpoint
// at every source line of the current function.
func (r *Resolver) LinesInFunction(fn Function) ([]LineEntry, error) {
	var out []LineEntry
	for _, cu := range r.units {
		if !cu.contains(fn.Low) {
			continue
		}
		lr, err := r.data.LineReader(cu.root)
		if err != nil || lr == nil {
			return nil, err
		}
		var le stddwarf.LineEntry
		for {
			err := lr.Next(&le)
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, err
			}
			if le.Address < fn.Low || le.Address >= fn.High {
				continue
			}
			out = append(out, toLineEntry(le))
		}
		return out, nil
	}
	return out, nil
}
