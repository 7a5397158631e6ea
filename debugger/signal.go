package debugger

import (
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/chinzhiweiblank/custom-debugger/curated"
)

// StopKind classifies why wait_for_signal returned.
type StopKind int

const (
	// StopBreakpoint is a software breakpoint trap (SI_KERNEL or
	// TRAP_BRKPT): the trap instruction fired.
	StopBreakpoint StopKind = iota

	// StopStep is a single-step completion trap (TRAP_TRACE).
	StopStep

	// StopTrapOther is a trap whose si_code the handler doesn't special-case.
	StopTrapOther

	// StopSegv is a segmentation fault; the tracee remains stopped.
	StopSegv

	// StopOtherSignal is any signal other than SIGTRAP/SIGSEGV.
	StopOtherSignal
)

// StopReason is the classified stop. SiSignal and SiCode are the
// si_signo/si_code values the stop carried, for
// StopTrapOther/StopOtherSignal/StopSegv reporting.
type StopReason struct {
	Kind     StopKind
	SiSignal int32
	SiCode   int32
}

// Linux si_code values for SIGTRAP this handler distinguishes, defined in
// asm-generic/siginfo.h.
const (
	siKernel  = 0x80
	trapBrkpt = 1
	trapTrace = 2
)

// linuxSiginfo mirrors the leading fields of Linux's siginfo_t common to
// every signal: si_signo, si_errno, si_code. The remaining union is
// signal-specific and unused here.
type linuxSiginfo struct {
	Signo int32
	Errno int32
	Code  int32
	_     int32 // padding to the union's natural alignment
}

// getSigInfo issues the raw PTRACE_GETSIGINFO request. golang.org/x/sys/unix
// has no portable wrapper for it (siginfo_t's tail is a signal-specific
// union), so this goes straight through the ptrace syscall, mirroring what
// the traced debugger's own C++ original does with ptrace(PTRACE_GETSIGINFO,
// pid, nullptr, &info).
func getSigInfo(pid int) (linuxSiginfo, error) {
	var info linuxSiginfo
	_, _, errno := unix.Syscall6(unix.SYS_PTRACE, uintptr(unix.PTRACE_GETSIGINFO),
		uintptr(pid), 0, uintptr(unsafe.Pointer(&info)), 0, 0)
	if errno != 0 {
		return info, curated.Wrap(curated.TraceeIO, errno, "PTRACE_GETSIGINFO on pid %d", pid)
	}
	return info, nil
}

// waitForSignal blocks until the tracee stops or exits, then classifies the
// stop. A tracee exit (normal or via signal) surfaces as *TraceeGone*; no
// other error kind terminates the command loop.
func waitForSignal(pid int) (StopReason, error) {
	var ws unix.WaitStatus
	if _, err := unix.Wait4(pid, &ws, 0, nil); err != nil {
		return StopReason{}, curated.Wrap(curated.TraceeIO, err, "wait4 pid %d", pid)
	}
	if ws.Exited() || ws.Signaled() {
		return StopReason{}, curated.New(curated.TraceeGone, "tracee %d exited", pid)
	}
	if !ws.Stopped() {
		return StopReason{}, curated.New(curated.TraceeIO, "pid %d: unexpected wait status %v", pid, ws)
	}

	sig := ws.StopSignal()
	if sig != unix.SIGTRAP {
		info, err := getSigInfo(pid)
		if err != nil {
			return StopReason{}, err
		}
		if sig == unix.SIGSEGV {
			return StopReason{Kind: StopSegv, SiSignal: int32(sig), SiCode: info.Code}, nil
		}
		return StopReason{Kind: StopOtherSignal, SiSignal: int32(sig), SiCode: info.Code}, nil
	}

	info, err := getSigInfo(pid)
	if err != nil {
		return StopReason{}, err
	}
	switch info.Code {
	case siKernel, trapBrkpt:
		return StopReason{Kind: StopBreakpoint, SiSignal: int32(sig), SiCode: info.Code}, nil
	case trapTrace:
		return StopReason{Kind: StopStep, SiSignal: int32(sig), SiCode: info.Code}, nil
	default:
		return StopReason{Kind: StopTrapOther, SiSignal: int32(sig), SiCode: info.Code}, nil
	}
}
