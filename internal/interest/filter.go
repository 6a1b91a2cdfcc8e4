// Package interest implements save_if_interest, the decision logic that
// reconciles one execution's TraceResult against the global session state:
// leaders, queues, tracebits, predicates, exceptions, and depth (spec §4.1).
package interest

import (
	"time"

	"github.com/holiman/uint256"
	"github.com/zjy-dev/evmfuzz/internal/branch"
	"github.com/zjy-dev/evmfuzz/internal/evmexec"
	"github.com/zjy-dev/evmfuzz/internal/fuzzitem"
	"github.com/zjy-dev/evmfuzz/internal/session"
)

// staleFuzzedCountThreshold is the vuln-mode tie-break from spec §4.1: a
// leader is also displaced on equal standing if the round's fuzzed_count
// snapshot exceeds 16 (prevents a stale seed from monopolising its branch).
const staleFuzzedCountThreshold = 16

// Options carries the normalisation inputs described in spec §4.1:
// "normalises data (ABI post-process, optional splice trimming to the
// prefix length data0_len when present)", plus the two vuln-mode-only
// parameters its reconciliation needs and that cannot be derived from the
// TraceResult alone.
type Options struct {
	// IsSplice is forwarded to the executor as-is.
	IsSplice bool
	// SpliceLen, when > 0, is the prefix length candidate data is trimmed
	// to before execution (spec's "data0_len").
	SpliceLen int

	// TargetBranch is the branch the scheduler picked for this round
	// (vuln-mode only). A reached_branch hit against it earns hit_rank 1.
	TargetBranch branch.ID
	// FuzzedCount is the targeted leader's fuzzed_count as of round start
	// (vuln-mode only), held constant across every execution the round's
	// stage list drives — not re-read per execution.
	FuzzedCount int
}

// SaveIfInterest is save_if_interest (spec §4.1): normalise data, execute
// once, reconcile the trace against sess, and return the resulting item.
func SaveIfInterest(
	sess *session.State,
	executor evmexec.Executor,
	abi branch.ABIProvider,
	data []byte,
	parentDepth int,
	regions branch.ValidRegions,
	opts Options,
) (*fuzzitem.FuzzItem, error) {
	item, _, err := SaveIfInterestWithTrace(sess, executor, abi, data, parentDepth, regions, opts)
	return item, err
}

// SaveIfInterestWithTrace is SaveIfInterest plus the raw TraceResult the
// execution produced, for callers that need it beyond the leader/queue
// bookkeeping SaveIfInterest already performs — namely vuln-mode's oracle
// detection, a distinct concern sharing only the TraceResult (spec §2).
//
// Pre-fuzz and vuln-fuzz reconcile the trace through entirely separate
// paths (spec §4.1's "vuln-mode variant"): pre-fuzz drives leader
// supersession off tracebits/predicates, vuln-fuzz off reached_branch.
// Neither path reads the other's bookkeeping.
func SaveIfInterestWithTrace(
	sess *session.State,
	executor evmexec.Executor,
	abi branch.ABIProvider,
	data []byte,
	parentDepth int,
	regions branch.ValidRegions,
	opts Options,
) (*fuzzitem.FuzzItem, *branch.TraceResult, error) {
	normalized := abi.PostprocessTestdata(data)
	if opts.SpliceLen > 0 && opts.SpliceLen < len(normalized) {
		normalized = normalized[:opts.SpliceLen]
	}

	result, err := executor.Exec(normalized, opts.IsSplice, regions, sess.Mode)
	if err != nil {
		return nil, nil, err
	}

	item := fuzzitem.New(normalized)
	item.Depth = parentDepth + 1
	item.CurrentTestcase = result.CurrentTestcase

	if sess.Mode == branch.ModeVuln {
		reconcileVulnMode(sess, item, result, opts)
	} else {
		reconcilePreFuzz(sess, item, result)
	}

	for exc := range result.UniqueExceptions {
		sess.UniqueExceptions[exc] = struct{}{}
	}

	sess.Stat.TotalExecs++
	return item, result, nil
}

// reconcilePreFuzz is the pre-fuzz half of spec §4.1: leader supersession
// off tracebits/predicates, hit_rank 0-3, prefix recording.
func reconcilePreFuzz(sess *session.State, item *fuzzitem.FuzzItem, result *branch.TraceResult) {
	rank := -1
	raise := func(v int) {
		if v > rank {
			rank = v
		}
	}
	touchLeader := func() {
		if item.Depth > sess.Stat.MaxDepth {
			sess.Stat.MaxDepth = item.Depth
		}
		sess.Stat.LastNewPath = time.Now()
	}

	for b := range result.Tracebits {
		if _, alreadyCovered := sess.Tracebits[b]; alreadyCovered {
			continue
		}
		if l, ok := sess.Leaders.Get(b); ok && l.Distance != nil && l.Distance.Cmp(uint256.NewInt(0)) != 0 {
			sess.Leaders.Erase(b)
			raise(0)
		} else {
			raise(3)
		}
		sess.Leaders.Install(b, item, uint256.NewInt(0))
		touchLeader()
	}

	for b, dist := range result.Predicates {
		if _, covered := sess.Tracebits[b]; covered {
			continue
		}
		l, exists := sess.Leaders.Get(b)
		switch {
		case !exists:
			sess.Leaders.Install(b, item, dist)
			raise(1)
			touchLeader()
		case l.Distance != nil && l.Distance.Cmp(uint256.NewInt(0)) != 0 && l.Distance.Gt(dist):
			sess.Leaders.Erase(b)
			sess.Leaders.Install(b, item, dist)
			raise(2)
			touchLeader()
		default:
			// incumbent wins (tie-break, spec §4.1)
		}
	}

	if rank >= 0 {
		item.HitRank = fuzzitem.HitRank(rank)
	}

	for b := range result.Tracebits {
		sess.Tracebits[b] = struct{}{}
		delete(sess.Predicates, b)
	}
	for b := range result.Predicates {
		if _, covered := sess.Tracebits[b]; !covered {
			sess.Predicates[b] = struct{}{}
		}
	}
	if len(result.PrefixMap) > 0 {
		sess.PrefixRecords = append(sess.PrefixRecords, session.PrefixEntry{Prefix: result.PrefixMap})
	}
}

// reconcileVulnMode is the vuln-mode variant of spec §4.1: "Uses
// reached_branch instead of tracebits/predicates, updates per-branch
// weight as max(0, weight − hit_count), and tracks cumulative
// branch_hits." It never reads or writes sess.Tracebits/sess.Predicates —
// a leader loaded from a prior pre-fuzz run (Distance == nil, meaning "no
// hit-count on record yet") is treated identically to a freshly-discovered
// branch, so a contract re-entering vuln-fuzz from persisted state needs
// no separate seeding step.
//
// The degenerate branch ":" (spec §4.1, B4: a contract with no
// discoverable runtime branches) bypasses the reached_branch loop
// entirely: its weight is decremented by exactly 1 per round regardless
// of any hit count, and once its leader's fuzzed_count exceeds the
// staleness threshold the leader is replaced by the round's item.
func reconcileVulnMode(sess *session.State, item *fuzzitem.FuzzItem, result *branch.TraceResult, opts Options) {
	if sess.BranchSize == 0 {
		sess.Energies.Drain(branch.Degenerate, 1)
		if opts.FuzzedCount > staleFuzzedCountThreshold {
			sess.Leaders.Erase(branch.Degenerate)
			sess.Leaders.Install(branch.Degenerate, item, nil)
		}
		return
	}

	for b, hitCount := range result.ReachedBranch {
		hit := uint256.NewInt(hitCount)

		if l, exists := sess.Leaders.Get(b); exists {
			standing := l.Distance
			if standing == nil {
				standing = uint256.NewInt(0)
			}
			if standing.Lt(hit) || (standing.Cmp(hit) == 0 && opts.FuzzedCount > staleFuzzedCountThreshold) {
				sess.Leaders.Erase(b)
				sess.Leaders.Install(b, item, hit)
			}
		} else {
			sess.Leaders.Install(b, item, hit)
		}

		if _, seen := sess.BranchHits[b]; !seen {
			sess.BranchHits[b] = 0
		}

		if !sess.Energies.Has(b) {
			continue
		}
		sess.Energies.Drain(b, hitCount)
		sess.BranchHits[b] += hitCount
		if b == opts.TargetBranch {
			item.HitRank = fuzzitem.HitRank1
		}
	}
}
