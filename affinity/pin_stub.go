//go:build !linux

// pin_stub.go
//
// Portable fallback: platforms without sched_setaffinity get a warning
// and a no-op, keeping the calling code identical everywhere.

package affinity

import "main/debug"

// Pin warns that pinning is unsupported on this platform and returns.
func Pin(core int) {
	debug.DropMessage("affinity", "thread pinning not supported on this platform")
}
