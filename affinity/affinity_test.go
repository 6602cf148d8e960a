package affinity

import (
	"runtime"
	"testing"
)

// TestCPUCount checks the floor-of-one contract.
func TestCPUCount(t *testing.T) {
	n := CPUCount()
	if n < 1 {
		t.Fatalf("CPUCount = %d, want >= 1", n)
	}
	if n > 4096 {
		t.Fatalf("CPUCount = %d, implausibly large", n)
	}
}

// TestPinDoesNotPanic exercises Pin on the current platform, including the
// out-of-range warning path.  Pinning is best-effort, so the only contract
// to verify is that no input panics or returns.
func TestPinDoesNotPanic(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	Pin(0)
	Pin(-1)
	Pin(1 << 20)
}

// TestPinSatisfiesPinner pins the type identity down so PinnedConsumer and
// the harnesses can take affinity.Pin directly.
func TestPinSatisfiesPinner(t *testing.T) {
	var p Pinner = Pin
	if p == nil {
		t.Fatal("Pin does not satisfy Pinner")
	}
}
