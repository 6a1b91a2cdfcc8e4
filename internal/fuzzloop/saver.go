package fuzzloop

import (
	"github.com/zjy-dev/evmfuzz/internal/branch"
	"github.com/zjy-dev/evmfuzz/internal/evmexec"
	"github.com/zjy-dev/evmfuzz/internal/fuzzitem"
	"github.com/zjy-dev/evmfuzz/internal/interest"
	"github.com/zjy-dev/evmfuzz/internal/oracle"
	"github.com/zjy-dev/evmfuzz/internal/reporter"
	"github.com/zjy-dev/evmfuzz/internal/session"
)

// sessionSaver implements mutator.Saver by binding one parent leader's
// depth to interest.SaveIfInterest. The mutator fully owns candidate
// construction (including splice crossover against a sampled sibling), so
// is_splice and data0_len are always left at their zero value: hooks for a
// caller that varies them per candidate, but nothing in this fuzz loop
// needs to (the mutator stages that splice have already folded the
// sibling into the candidate bytes before Save is called). currentBranch
// and fuzzedCount, by contrast, are set once per round by the vuln-fuzz
// driver and forwarded on every Save call that round.
type sessionSaver struct {
	sess        *session.State
	executor    evmexec.Executor
	abi         branch.ABIProvider
	regions     branch.ValidRegions
	parentDepth int

	// currentBranch and fuzzedCount, set by the vuln-fuzz driver only, are
	// the branch the scheduler picked this round and that branch's
	// leader's fuzzed_count as of round start — the two parameters the
	// interest filter's vuln-mode reconciliation needs and cannot derive
	// from the TraceResult alone (spec §4.1's vuln-mode variant).
	currentBranch branch.ID
	fuzzedCount   int

	// telemetry, when non-nil, exports one exec_<n>.json record per
	// execution this saver drives (spec §6). Optional.
	telemetry *reporter.TelemetryWriter

	// detectOracles, set by the vuln-fuzz driver only, runs oracle
	// classification against this execution's raw TraceResult right after
	// the interest filter reconciles it (spec §2: oracle detection is a
	// distinct consumer of the TraceResult, not part of the filter).
	detectOracles bool
}

func (s *sessionSaver) Save(candidate []byte) (*fuzzitem.FuzzItem, error) {
	before := len(s.sess.Tracebits)
	opts := interest.Options{TargetBranch: s.currentBranch, FuzzedCount: s.fuzzedCount}
	item, trace, err := interest.SaveIfInterestWithTrace(s.sess, s.executor, s.abi, candidate, s.parentDepth, s.regions, opts)
	if err != nil {
		return nil, err
	}
	if s.detectOracles {
		oracle.DetectAndRecord(s.sess, trace, s.regions)
	}
	if s.telemetry != nil {
		branchesHit := len(s.sess.Tracebits) - before
		s.telemetry.WriteExecution(item.CurrentTestcase, branchesHit)
	}
	return item, nil
}
