package scheduler

import (
	"time"

	"github.com/zjy-dev/evmfuzz/internal/session"
)

// minExecsPerSecond is the stall threshold shared by both termination
// predicates (spec §4.5): "speed < 10 execs/s".
const minExecsPerSecond = 10.0

// PreFuzzDone reports whether the pre-fuzz loop should stop: no uncovered
// predicates remain, the wall clock since the last new path exceeds
// duration, or throughput has collapsed below the stall threshold.
func PreFuzzDone(sess *session.State, duration time.Duration, execsPerSecond float64) bool {
	if sess.NoUncoveredPredicates() {
		return true
	}
	if time.Since(sess.Stat.LastNewPath) > duration {
		return true
	}
	return execsPerSecond < minExecsPerSecond
}

// VulnFuzzDone reports whether the vuln-fuzz loop should stop: the total
// remaining energy has reached zero, the wall clock since start exceeds
// duration, or throughput has collapsed below the stall threshold.
func VulnFuzzDone(sess *session.State, start time.Time, duration time.Duration, execsPerSecond float64) bool {
	if sess.Energies.TotalWeight() == 0 {
		return true
	}
	if time.Since(start) > duration {
		return true
	}
	return execsPerSecond < minExecsPerSecond
}
