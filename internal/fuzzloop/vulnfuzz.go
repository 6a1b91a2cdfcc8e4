package fuzzloop

import (
	"fmt"
	"time"

	"github.com/zjy-dev/evmfuzz/internal/reporter"
	"github.com/zjy-dev/evmfuzz/internal/scheduler"
	"github.com/zjy-dev/evmfuzz/internal/session"
)

// RunVulnFuzz drives the oracle-hunting loop of spec §4: pick the
// highest-weight branch with a resident leader, run its stage list,
// classify the resulting trace against the thirteen oracle kinds, drain
// the picked branch's energy, repeat until one of the three vuln-fuzz
// termination predicates fires. On termination it writes the final vuln
// report (spec §6 <contract>_report.json) via writer.
//
// Unlike pre-fuzz, vuln-fuzz never bootstraps its own energy vector from
// scratch: a missing or contract-less branch_msg/weight.json is the hard
// exit of spec §7a, and loading that file (leaders.LoadWeight) is the
// caller's responsibility before RunVulnFuzz is ever invoked. The one
// exception RunVulnFuzz does still own is the degenerate case (spec §4.1,
// B4): a contract with no discoverable branches at all, where Bootstrap
// installs the synthetic ":" branch with weight 128 regardless of what
// weight.json said, since that file cannot possibly carry an entry for it.
func RunVulnFuzz(cfg Config, writer *reporter.Writer) (*Result, error) {
	sess := cfg.Session
	sched := scheduler.VulnFuzz{}

	if cfg.Regions.BranchCount() == 0 && sess.Leaders.Len() == 0 {
		seedSaver := &sessionSaver{sess: sess, executor: cfg.Executor, abi: cfg.ABI, regions: cfg.Regions, telemetry: cfg.Telemetry, detectOracles: true}
		if err := Bootstrap(sess, seedSaver, cfg.ABI, cfg.Regions); err != nil {
			return nil, fmt.Errorf("fuzzloop: vuln-fuzz bootstrap: %w", err)
		}
	}
	sess.BranchSize = cfg.Regions.BranchCount()

	start := time.Now()
	ticker := newSecondTicker()
	reason := ""

	// As in pre-fuzz, the termination predicate is checked after every
	// stage, never before the first one (spec §5).
	for {
		current, ok := sched.Pick(sess)
		if !ok {
			reason = "no weighted branch has a resident leader"
			break
		}
		leader, ok := sess.Leaders.Get(current)
		if !ok || leader.Item == nil {
			continue
		}

		item := leader.Item
		alreadyFuzzed := item.FuzzedCount > 0
		stages := cfg.Mutator.VulnFuzzStages(item, alreadyFuzzed)

		save := &sessionSaver{
			sess: sess, executor: cfg.Executor, abi: cfg.ABI, regions: cfg.Regions,
			parentDepth: item.Depth, currentBranch: current, fuzzedCount: item.FuzzedCount,
			telemetry: cfg.Telemetry, detectOracles: true,
		}
		runStages(sess, stages, save, func() bool {
			eps := execsPerSecond(sess.Stat.TotalExecs, time.Since(start))
			return scheduler.VulnFuzzDone(sess, start, cfg.Duration, eps)
		})
		item.FuzzedCount++

		eps := execsPerSecond(sess.Stat.TotalExecs, time.Since(start))
		renderDashboard(cfg, ticker, start, eps)

		if scheduler.VulnFuzzDone(sess, start, cfg.Duration, eps) {
			reason = vulnFuzzDoneReason(sess, start, cfg.Duration, eps)
			break
		}
	}

	if writer != nil {
		writer.WriteVulnReport(sess)
	}

	return &Result{
		TotalExecs:      sess.Stat.TotalExecs,
		Elapsed:         time.Since(start),
		BranchesCovered: len(sess.Tracebits),
		BranchesTotal:   sess.BranchSize,
		Terminated:      reason,
	}, nil
}

func vulnFuzzDoneReason(sess *session.State, start time.Time, duration time.Duration, eps float64) string {
	switch {
	case sess.Energies.TotalWeight() == 0:
		return "total energy weight reached zero"
	case eps < 10:
		return "throughput collapsed below 10 execs/s"
	default:
		return "duration exceeded"
	}
}
