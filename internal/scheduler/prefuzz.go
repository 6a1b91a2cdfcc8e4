// Package scheduler picks which branch to fuzz next, implementing the
// pre-fuzz round-robin and vuln-fuzz energy-maximizing policies of spec §4.3.
package scheduler

import (
	"sort"

	"github.com/holiman/uint256"
	"github.com/zjy-dev/evmfuzz/internal/branch"
	"github.com/zjy-dev/evmfuzz/internal/session"
)

// PreFuzz is the round-robin scheduler used while maximizing coverage.
type PreFuzz struct{}

// Pick returns the branch currently at fuzz_stat.idx in the queue.
func (PreFuzz) Pick(sess *session.State) (branch.ID, bool) {
	return sess.Leaders.AtIndex(sess.Stat.Idx)
}

// Advance implements the round-robin step described in spec §4.3: "After
// each leader is fuzzed: idx ← (idx + 1) mod leaders.size(); if wraps to
// zero, queue_cycle++. If the next index points to the same leader we just
// processed and uncovered branches remain, search leaders for any entry
// with fuzzed_count < current.fuzzed_count and positive distance; jump to it."
func (PreFuzz) Advance(sess *session.State, current branch.ID) {
	n := sess.Leaders.Len()
	if n == 0 {
		return
	}

	sess.Stat.Idx = (sess.Stat.Idx + 1) % n
	if sess.Stat.Idx == 0 {
		sess.Stat.QueueCycle++
	}

	next, ok := sess.Leaders.AtIndex(sess.Stat.Idx)
	if !ok || next != current || sess.NoUncoveredPredicates() {
		return
	}

	jumpTo, found := findAntiStallJump(sess, current)
	if !found {
		return
	}
	for i, b := range sess.Leaders.Queue() {
		if b == jumpTo {
			sess.Stat.Idx = i
			return
		}
	}
}

// findAntiStallJump scans leaders for any entry with a strictly lower
// fuzzed_count than current's and a positive distance, preferring the
// lexicographically smallest branch id for a deterministic choice among
// ties (spec §4.3 leaves tie-breaking among candidates unspecified).
func findAntiStallJump(sess *session.State, current branch.ID) (branch.ID, bool) {
	currentLeader, ok := sess.Leaders.Get(current)
	if !ok || currentLeader.Item == nil {
		return "", false
	}
	currentFuzzedCount := currentLeader.Item.FuzzedCount

	candidates := sess.Leaders.All()
	sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })

	for _, b := range candidates {
		l, ok := sess.Leaders.Get(b)
		if !ok || l.Item == nil || l.Distance == nil {
			continue
		}
		if l.Item.FuzzedCount < currentFuzzedCount && l.Distance.Cmp(uint256.NewInt(0)) != 0 {
			return b, true
		}
	}
	return "", false
}
