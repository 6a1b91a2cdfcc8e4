// Package oracle classifies a vuln-fuzz execution's trace against the
// closed 13-member oracle kind enum and records the hits on the session's
// vulnerability counters (spec §3 vulnerabilities vector, §6 oracle kinds).
package oracle

import (
	"github.com/zjy-dev/evmfuzz/internal/branch"
	"github.com/zjy-dev/evmfuzz/internal/session"
)

// regionFamily pairs one of the seven oracle-family pc-sets in
// branch.ValidRegions with the OracleKind it backs.
type regionFamily struct {
	kind branch.OracleKind
	pcs  map[uint64]struct{}
}

// regionFamilies returns the seven region-backed families (spec §6: "seven
// oracle families" alongside the two jumpi sides in valid_regions).
func regionFamilies(regions branch.ValidRegions) []regionFamily {
	return []regionFamily{
		{branch.TimeDependency, regions.Timestamps},
		{branch.NumberDependency, regions.BlockNums},
		{branch.DelegateCall, regions.DelegateCalls},
		{branch.UncheckedCall, regions.UncheckedCalls},
		{branch.TxOrigin, regions.TxOrigin},
		{branch.FalseAssert, regions.Assert},
		{branch.FalseSuicide, regions.Suicide},
	}
}

// DetectAndRecord classifies which oracle kinds this execution's trace
// violates and updates sess.Vulnerabilities/sess.OracleDetails. It is the
// vuln-mode counterpart to interest.SaveIfInterest, driven by the fuzz
// loop right after the interest filter on every execution (not inside the
// filter itself — §2 attributes leader/queue/tracebit/predicate/exception/
// depth bookkeeping to the interest filter specifically, and oracle
// detection is a distinct concern sharing only the TraceResult).
func DetectAndRecord(sess *session.State, result *branch.TraceResult, regions branch.ValidRegions) {
	for b := range result.Tracebits {
		pc, _, ok := b.Split()
		if !ok {
			continue
		}
		for _, fam := range regionFamilies(regions) {
			if _, hit := fam.pcs[pc]; hit {
				record(sess, fam.kind, pc, result.CurrentTestcase)
			}
		}
	}

	if _, timedOut := result.UniqueExceptions[branch.ExceptionOutOfGas]; timedOut {
		record(sess, branch.Gasless, 0, result.CurrentTestcase)
	}

	for kind, count := range result.OracleHits {
		for i := uint16(0); i < count; i++ {
			record(sess, kind, 0, result.CurrentTestcase)
		}
	}
}

func record(sess *session.State, kind branch.OracleKind, pc uint64, testcase string) {
	sess.Vulnerabilities[kind]++
	detail := &sess.OracleDetails[kind]
	if pc != 0 {
		detail.PCs[pc] = struct{}{}
	}
	if testcase != "" {
		detail.TestCases = append(detail.TestCases, testcase)
	}
}
