package fuzzloop

import (
	"fmt"
	"time"

	"github.com/zjy-dev/evmfuzz/internal/branch"
	"github.com/zjy-dev/evmfuzz/internal/leaders"
	"github.com/zjy-dev/evmfuzz/internal/scheduler"
	"github.com/zjy-dev/evmfuzz/internal/session"
)

// RunPreFuzz drives the coverage-maximizing loop of spec §4: pick a leader
// round-robin, run its stage list, let the interest filter reconcile the
// result, advance, repeat until one of the three pre-fuzz termination
// predicates fires. On termination it persists branch_msg/prefix.json and
// branch_msg/leaders.json (spec §4.5) before returning.
func RunPreFuzz(cfg Config) (*Result, error) {
	sess := cfg.Session
	sched := scheduler.PreFuzz{}

	seedSaver := &sessionSaver{sess: sess, executor: cfg.Executor, abi: cfg.ABI, regions: cfg.Regions, telemetry: cfg.Telemetry}
	if sess.Leaders.Len() == 0 {
		if err := Bootstrap(sess, seedSaver, cfg.ABI, cfg.Regions); err != nil {
			return nil, fmt.Errorf("fuzzloop: pre-fuzz bootstrap: %w", err)
		}
	}

	start := time.Now()
	ticker := newSecondTicker()
	reason := ""

	// The termination predicate is checked after every stage (spec §5),
	// never before the first one — a fresh session's eps reading of 0 would
	// otherwise misread as "stalled" before fuzzing has even begun.
	for {
		current, ok := sched.Pick(sess)
		if !ok {
			reason = "no leader available to schedule"
			break
		}
		leader, ok := sess.Leaders.Get(current)
		if !ok || leader.Item == nil {
			sched.Advance(sess, current)
			continue
		}

		item := leader.Item
		alreadyFuzzed := item.FuzzedCount > 0
		stages := cfg.Mutator.PreFuzzStages(item, alreadyFuzzed)

		save := &sessionSaver{
			sess: sess, executor: cfg.Executor, abi: cfg.ABI, regions: cfg.Regions,
			parentDepth: item.Depth, telemetry: cfg.Telemetry,
		}
		runStages(sess, stages, save, func() bool {
			eps := execsPerSecond(sess.Stat.TotalExecs, time.Since(start))
			return scheduler.PreFuzzDone(sess, cfg.Duration, eps)
		})
		item.FuzzedCount++

		sched.Advance(sess, current)

		eps := execsPerSecond(sess.Stat.TotalExecs, time.Since(start))
		renderDashboard(cfg, ticker, start, eps)

		if scheduler.PreFuzzDone(sess, cfg.Duration, eps) {
			reason = preFuzzDoneReason(sess, eps)
			break
		}
	}

	if err := persistPreFuzzState(cfg); err != nil {
		return nil, err
	}

	return &Result{
		TotalExecs:      sess.Stat.TotalExecs,
		Elapsed:         time.Since(start),
		BranchesCovered: len(sess.Tracebits),
		BranchesTotal:   sess.BranchSize,
		Terminated:      reason,
	}, nil
}

func preFuzzDoneReason(sess *session.State, eps float64) string {
	switch {
	case sess.NoUncoveredPredicates():
		return "no uncovered predicates remain"
	case eps < 10:
		return "throughput collapsed below 10 execs/s"
	default:
		return "duration exceeded since last new path"
	}
}

// persistPreFuzzState writes the two stable files spec §4.5 names on
// pre-fuzz termination: one contract's accumulated prefix maps and its
// covered-branch leader inputs, merged into the shared branch_msg/*.json
// documents without disturbing any other contract's entry.
func persistPreFuzzState(cfg Config) error {
	sess := cfg.Session
	prefix := make(map[branch.ID][]int32)
	for _, entry := range sess.PrefixRecords {
		for b, path := range entry.Prefix {
			prefix[b] = path
		}
	}
	rec := leaders.PrefixRecord{
		Prefix:   prefix,
		Code:     sess.Contract,
		Coverage: leaders.CoverageBasisPoints(len(sess.Tracebits), sess.BranchSize),
	}
	if err := leaders.SavePrefix(cfg.BaseDir, sess.Contract, rec); err != nil {
		return fmt.Errorf("fuzzloop: save prefix: %w", err)
	}
	if err := leaders.SaveLeaders(cfg.BaseDir, sess.Contract, sess.Leaders); err != nil {
		return fmt.Errorf("fuzzloop: save leaders: %w", err)
	}
	return nil
}
