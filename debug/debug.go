// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: debug.go — hot-adjacent error logging helper (zero-alloc-ish)
//
// Purpose:
//   - Logs infrequent failure paths without pulling a logging framework
//     into packages that sit next to the hot path.
//   - Used only in cold branches: bind errors, pin failures, drop tallies.
//
// Notes:
//   - Avoids fmt entirely; direct string concatenation and a single
//     stderr write.
//   - Structured logging (zap) lives at the CLI layer; this is for the
//     paths where even a zap call site is unwelcome.
//
// ⚠️ Never invoke in hot loops — use only in failure diagnostics.
// ─────────────────────────────────────────────────────────────────────────────

package debug

import "main/utils"

// DropError logs prefix plus the error text, or just the prefix when err
// is nil.
func DropError(prefix string, err error) {
	if err != nil {
		utils.PrintWarning(prefix + ": " + err.Error() + "\n")
	} else {
		utils.PrintWarning(prefix + "\n")
	}
}

// DropMessage logs a prefix/message pair for cold-path diagnostics:
// connection state changes, shutdown notices, unsupported-platform
// warnings.
func DropMessage(prefix, message string) {
	utils.PrintWarning(prefix + ": " + message + "\n")
}

// DropCount logs a prefix with a numeric tally, formatted without fmt.
// Intended for end-of-run summaries of drop/malformed counters.
func DropCount(prefix string, n uint64) {
	buf := make([]byte, 0, len(prefix)+24)
	buf = append(buf, prefix...)
	buf = append(buf, ": "...)
	buf = utils.AppendUint(buf, n)
	buf = append(buf, '\n')
	utils.PrintWarning(string(buf))
}
