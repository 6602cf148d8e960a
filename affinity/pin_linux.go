//go:build linux

// pin_linux.go
//
// Linux binding for sched_setaffinity(2) on the current thread, via
// x/sys/unix.  Errors are surfaced as warnings and swallowed: inside a
// container or a restrictive cgroup the call may return EPERM/EINVAL,
// and the correct fallback is simply "no pin".

package affinity

import (
	"main/debug"

	"golang.org/x/sys/unix"
)

// Pin pins the current OS thread to core.  Out-of-range indices warn
// and no-op.  Callers must hold runtime.LockOSThread.
func Pin(core int) {
	if core < 0 || core >= CPUCount() {
		debug.DropMessage("affinity", "core index out of range, not pinning")
		return
	}
	var set unix.CPUSet
	set.Zero()
	set.Set(core)
	// pid 0 targets the calling thread
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		debug.DropError("affinity: sched_setaffinity", err)
	}
}
