package curated

import "fmt"

// Kind identifies the taxonomy of an error without reference to its
// formatted message. Callers should branch on Kind, never on Error() text.
type Kind int

const (
	// TraceeIO indicates a peek/poke/getregs/setregs operation on the
	// tracee failed.
	TraceeIO Kind = iota

	// NoFunction indicates a PC did not fall within any known function.
	NoFunction

	// NoLineEntry indicates a PC had no corresponding DWARF line entry.
	NoLineEntry

	// UnknownRegister indicates a register name or DWARF number did not
	// match any entry in the register descriptor table.
	UnknownRegister

	// BadCommand indicates malformed dispatcher input.
	BadCommand

	// TraceeGone indicates the tracee has exited. This is the only kind
	// that terminates the command loop.
	TraceeGone
)

func (k Kind) String() string {
	switch k {
	case TraceeIO:
		return "TraceeIO"
	case NoFunction:
		return "NoFunction"
	case NoLineEntry:
		return "NoLineEntry"
	case UnknownRegister:
		return "UnknownRegister"
	case BadCommand:
		return "BadCommand"
	case TraceeGone:
		return "TraceeGone"
	default:
		return "Unknown"
	}
}

// Error is a curated error: a Kind plus a human-readable message and an
// optional wrapped cause.
type Error struct {
	Kind  Kind
	msg   string
	cause error
}

// New creates a curated error of the given kind. format/args behave as in
// fmt.Sprintf.
func New(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrap creates a curated error of the given kind that preserves cause for
// Unwrap(), in addition to its own message.
func Wrap(kind Kind, cause error, format string, args ...interface{}) error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...), cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether err is a curated error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	for err != nil {
		if ce, ok := err.(*Error); ok {
			e = ce
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return e != nil && e.Kind == kind
}

// KindOf returns the Kind of err and true if err is a curated error,
// otherwise the zero Kind and false.
func KindOf(err error) (Kind, bool) {
	if ce, ok := err.(*Error); ok {
		return ce.Kind, true
	}
	return 0, false
}
