// utils.go — low-level print/format helpers shared by the cold paths.
package utils

import "os"

///////////////////////////////////////////////////////////////////////////////
// Stderr output — bypasses fmt so drop paths stay allocation-light
///////////////////////////////////////////////////////////////////////////////

// PrintWarning writes msg straight to stderr.  No formatting, no locking
// beyond the kernel's own write serialization.
func PrintWarning(msg string) {
	os.Stderr.WriteString(msg)
}

///////////////////////////////////////////////////////////////////////////////
// Integer formatting without strconv's interface churn
///////////////////////////////////////////////////////////////////////////////

// AppendUint appends the base-10 form of v to dst and returns the
// extended slice.  With a pre-sized dst this performs zero allocations.
func AppendUint(dst []byte, v uint64) []byte {
	var tmp [20]byte // enough for 2^64-1
	i := len(tmp)
	for {
		i--
		tmp[i] = byte('0' + v%10)
		v /= 10
		if v == 0 {
			break
		}
	}
	return append(dst, tmp[i:]...)
}
