package tracee

import (
	"debug/elf"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/chinzhiweiblank/custom-debugger/breakpoint"
	"github.com/chinzhiweiblank/custom-debugger/curated"
	"github.com/chinzhiweiblank/custom-debugger/dbgmem"
	dwarfpkg "github.com/chinzhiweiblank/custom-debugger/dwarf"
	"github.com/chinzhiweiblank/custom-debugger/registers"
)

// Handle is everything a debugger session needs to control and inspect one
// traced child process: its pid, its ELF/DWARF image, its load bias, and the
// register/memory/breakpoint handles bound to that pid.
type Handle struct {
	Pid         int
	Path        string
	Elf         *elf.File
	DWARF       *dwarfpkg.Resolver
	Bias        LoadBias
	Mem         *dbgmem.IO
	Regs        *registers.File
	Breakpoints *breakpoint.Table
}

// ToRuntime translates a DWARF-space address to the address it occupies in
// this tracee's running image.
func (h *Handle) ToRuntime(dwarfAddr uint64) uint64 {
	return h.Bias.ToRuntime(dwarfAddr)
}

// ToDWARF translates one of this tracee's runtime addresses back to DWARF
// space.
func (h *Handle) ToDWARF(runtimeAddr uint64) uint64 {
	return h.Bias.ToDWARF(runtimeAddr)
}

// Spawn launches path as a traced child, stopped at its initial execve trap,
// with address-space layout randomization disabled so that a PIE binary's
// load bias is stable and reproducible across runs.
//
// runtime.LockOSThread is required here: ptrace ties a tracee to the thread
// that attached to it, and every ptrace call this package (and its callers)
// make must originate from that same OS thread for the lifetime of the
// session.
func Spawn(path string, args []string) (*Handle, error) {
	runtime.LockOSThread()

	cmd := exec.Command(path, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Ptrace:    true,
		Pdeathsig: syscall.SIGKILL,
	}

	// Personality flags set in the parent are inherited across fork and
	// survive the child's execve, so ADDR_NO_RANDOMIZE disables ASLR for
	// the child without needing a pre-exec hook Go's exec package doesn't
	// provide.
	oldPersonality, err := unix.Personality(unix.ADDR_NO_RANDOMIZE)
	if err != nil {
		return nil, curated.Wrap(curated.TraceeIO, err, "disable ASLR")
	}
	defer unix.Personality(oldPersonality)

	if err := cmd.Start(); err != nil {
		return nil, curated.Wrap(curated.TraceeIO, err, "start %s", path)
	}

	pid := cmd.Process.Pid
	var ws unix.WaitStatus
	if _, err := unix.Wait4(pid, &ws, 0, nil); err != nil {
		return nil, curated.Wrap(curated.TraceeIO, err, "wait for initial stop of pid %d", pid)
	}
	if !ws.Stopped() {
		return nil, curated.New(curated.TraceeIO, "pid %d did not stop at execve (status %v)", pid, ws)
	}

	ef, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	resolver, err := dwarfpkg.New(path)
	if err != nil {
		ef.Close()
		return nil, err
	}

	bias, err := computeBias(ef, pid)
	if err != nil {
		ef.Close()
		return nil, err
	}

	mem := dbgmem.New(pid)
	return &Handle{
		Pid:         pid,
		Path:        path,
		Elf:         ef,
		DWARF:       resolver,
		Bias:        bias,
		Mem:         mem,
		Regs:        registers.NewFile(pid),
		Breakpoints: breakpoint.NewTable(mem),
	}, nil
}

// Detach releases the tracee, letting it run free of ptrace, and closes the
// handle's open ELF file.
func (h *Handle) Detach() error {
	defer h.Elf.Close()
	if err := unix.PtraceDetach(h.Pid); err != nil {
		return curated.Wrap(curated.TraceeIO, err, "detach pid %d", h.Pid)
	}
	return nil
}

// Kill terminates the tracee outright.
func (h *Handle) Kill() error {
	defer h.Elf.Close()
	if err := unix.Kill(h.Pid, unix.SIGKILL); err != nil {
		return curated.Wrap(curated.TraceeIO, err, "kill pid %d", h.Pid)
	}
	var ws unix.WaitStatus
	unix.Wait4(h.Pid, &ws, 0, nil)
	return nil
}
