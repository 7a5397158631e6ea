package dwarf

import (
	stddwarf "debug/dwarf"
	"debug/elf"
	"fmt"

	"github.com/chinzhiweiblank/custom-debugger/curated"
)

// compileUnit is one compilation unit's root entry, its direct children
// (which is where subprogram DIEs live), and its PC range.
type compileUnit struct {
	root     *stddwarf.Entry
	children []*stddwarf.Entry
	low      uint64
	high     uint64
	name     string
}

func (cu *compileUnit) contains(pc uint64) bool {
	return cu.low != cu.high && cu.low <= pc && pc < cu.high
}

// Function is a resolved subprogram DIE.
type Function struct {
	Name string
	Low  uint64
	High uint64
}

// LineEntry is one row of a DWARF line table.
type LineEntry struct {
	Address uint64
	File    string
	Line    int
	IsStmt  bool
}

// Resolver answers address/line/function/symbol queries against one ELF
// binary's DWARF data. The ELF file stays open for the resolver's lifetime.
type Resolver struct {
	elf   *elf.File
	data  *stddwarf.Data
	units []*compileUnit
}

// New opens path and builds its compilation-unit index. The binary must be
// unstripped and compiled with DWARF debugging information.
func New(path string) (*Resolver, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	d, err := f.DWARF()
	if err != nil {
		return nil, fmt.Errorf("%s has no usable DWARF data: %w", path, err)
	}
	units, err := buildUnits(d)
	if err != nil {
		return nil, fmt.Errorf("reading DWARF compile units: %w", err)
	}
	return &Resolver{elf: f, data: d, units: units}, nil
}

// buildUnits walks the flat DIE stream once, recording each compilation
// unit's root and its direct children (depth == 1 relative to the CU).
// Grandchildren (lexical blocks, parameters, ...) are skipped; function_at
// and resolve_function only ever need a CU's immediate subprogram children.
func buildUnits(d *stddwarf.Data) ([]*compileUnit, error) {
	r := d.Reader()
	var units []*compileUnit
	var cur *compileUnit
	depth := 0

	for {
		entry, err := r.Next()
		if err != nil {
			return nil, err
		}
		if entry == nil {
			break
		}
		if entry.Tag == 0 {
			depth--
			continue
		}

		if depth == 0 && entry.Tag == stddwarf.TagCompileUnit {
			low, high, _ := dieRange(entry)
			name, _ := entry.Val(stddwarf.AttrName).(string)
			cur = &compileUnit{root: entry, low: low, high: high, name: name}
			units = append(units, cur)
		} else if depth == 1 && cur != nil {
			cur.children = append(cur.children, entry)
		}

		if entry.Children {
			depth++
		}
	}
	return units, nil
}

// dieRange reads an entry's low_pc/high_pc attributes. high_pc may be an
// absolute address or, per DWARF4+, an offset from low_pc; both forms are
// handled.
func dieRange(e *stddwarf.Entry) (low, high uint64, ok bool) {
	low, ok = e.Val(stddwarf.AttrLowpc).(uint64)
	if !ok {
		return 0, 0, false
	}
	f := e.AttrField(stddwarf.AttrHighpc)
	if f == nil {
		return 0, 0, false
	}
	switch v := f.Val.(type) {
	case uint64:
		if f.Class == stddwarf.ClassAddress {
			return low, v, true
		}
		return low, low + v, true
	case int64:
		return low, low + uint64(v), true
	default:
		return 0, 0, false
	}
}

// FunctionAt returns the subprogram DIE whose range contains pcDWARF.
// Compile units are scanned in iteration order; each whose range contains
// pcDWARF is searched for a matching subprogram among its direct children.
// When a pc falls in more than one unit's declared range (inlining), the
// first unit in iteration order with a matching subprogram wins, matching
// the underlying parser's traversal order so that lookups are deterministic
// for a fixed compile-unit order.
func (r *Resolver) FunctionAt(pcDWARF uint64) (Function, error) {
	for _, cu := range r.units {
		if !cu.contains(pcDWARF) {
			continue
		}
		for _, child := range cu.children {
			if child.Tag != stddwarf.TagSubprogram {
				continue
			}
			low, high, ok := dieRange(child)
			if !ok || low > pcDWARF || pcDWARF >= high {
				continue
			}
			name, _ := child.Val(stddwarf.AttrName).(string)
			return Function{Name: name, Low: low, High: high}, nil
		}
	}
	return Function{}, curated.New(curated.NoFunction, "no function contains pc %#x", pcDWARF)
}

// LineAt returns the line-table entry for pcDWARF, found within whichever
// compile unit's range contains it.
func (r *Resolver) LineAt(pcDWARF uint64) (LineEntry, error) {
	for _, cu := range r.units {
		if !cu.contains(pcDWARF) {
			continue
		}
		lr, err := r.data.LineReader(cu.root)
		if err != nil || lr == nil {
			continue
		}
		var le stddwarf.LineEntry
		if err := lr.SeekPC(pcDWARF, &le); err != nil {
			if err == stddwarf.ErrUnknownPC {
				continue
			}
			return LineEntry{}, err
		}
		return toLineEntry(le), nil
	}
	return LineEntry{}, curated.New(curated.NoLineEntry, "no line entry for pc %#x", pcDWARF)
}

func toLineEntry(le stddwarf.LineEntry) LineEntry {
	file := ""
	if le.File != nil {
		file = le.File.Name
	}
	return LineEntry{Address: le.Address, File: file, Line: le.Line, IsStmt: le.IsStmt}
}

// Range returns a function's DWARF-space [low, high) range.
func (f Function) Range() (low, high uint64) {
	return f.Low, f.High
}
