// Package fuzzloop wires the scheduler, mutator, executor, and interest
// filter into the two concrete drivers spec §2 calls the fuzz loop: pre-fuzz
// (maximize branch coverage) and vuln-fuzz (maximize oracle hits against a
// fixed energy budget). Shaped after the teacher's fuzz.Engine: a Config
// bundling every collaborator, a Run loop with a periodic save and a final
// summary, save that here "periodic" means "every execution" rather than
// every tenth iteration, since spec §5 treats persistence as something the
// termination predicate triggers rather than a timer.
package fuzzloop

import (
	"time"

	"github.com/zjy-dev/evmfuzz/internal/branch"
	"github.com/zjy-dev/evmfuzz/internal/evmexec"
	"github.com/zjy-dev/evmfuzz/internal/logger"
	"github.com/zjy-dev/evmfuzz/internal/mutator"
	"github.com/zjy-dev/evmfuzz/internal/reporter"
	"github.com/zjy-dev/evmfuzz/internal/session"
)

// Config bundles every collaborator one fuzz-loop run needs. Both RunPreFuzz
// and RunVulnFuzz take the same struct; fields unused by a given mode (e.g.
// Telemetry in a terminal-only run) may be left at their zero value.
type Config struct {
	Session  *session.State
	Executor evmexec.Executor
	ABI      branch.ABIProvider
	Regions  branch.ValidRegions
	Mutator  *mutator.Mutator

	// BaseDir is where branch_msg/*.json and the vuln report are written.
	BaseDir string
	// Duration bounds wall-clock runtime per the termination predicates of
	// spec §4.5.
	Duration time.Duration

	Terminal *session.TerminalUI
	// ReporterMode selects which sinks Report renders to (spec §6's
	// FuzzParam.reporter). The zero value (ModeTerminal) is a safe default.
	ReporterMode reporter.Mode
	// Telemetry, when non-nil, exports one record per execution (spec §6
	// exec_queue/*). Optional: a nil value simply skips the export.
	Telemetry *reporter.TelemetryWriter
}

// Result summarizes one completed fuzz-loop run for the CLI layer's exit
// code and final log line (spec §4.5: pre-fuzz exits status 1 on
// termination; vuln-fuzz's exit status is left to the caller).
type Result struct {
	TotalExecs      uint64
	Elapsed         time.Duration
	BranchesCovered int
	BranchesTotal   int
	Terminated      string // which termination predicate fired, for the summary line
}

// execsPerSecond computes throughput over the run so far, used by both
// termination predicates (spec §4.5's "speed < 10 execs/s").
func execsPerSecond(totalExecs uint64, elapsed time.Duration) float64 {
	seconds := elapsed.Seconds()
	if seconds <= 0 {
		return float64(totalExecs) // avoid a divide-by-zero reading as "stalled" at t=0
	}
	return float64(totalExecs) / seconds
}

// secondTicker implements spec §5's "show stats once per second" guard: a
// set of whole-second timestamps already rendered, so a tight execution
// loop doesn't re-render the dashboard more than once within the same second.
type secondTicker struct {
	seen map[int64]struct{}
}

func newSecondTicker() *secondTicker {
	return &secondTicker{seen: make(map[int64]struct{})}
}

// due reports whether the whole second containing now has not yet been
// rendered, marking it seen as a side effect.
func (t *secondTicker) due(now time.Time) bool {
	sec := now.Unix()
	if _, ok := t.seen[sec]; ok {
		return false
	}
	t.seen[sec] = struct{}{}
	return true
}

// renderDashboard pushes a fresh session.Metrics snapshot to the terminal
// UI when the reporter mode wants terminal output and the per-second guard
// is due. Rendering is best-effort (spec §5): a failure inside Render is
// swallowed by TerminalUI itself, never surfaced here.
func renderDashboard(cfg Config, ticker *secondTicker, start time.Time, execs float64) {
	if cfg.Terminal == nil || !cfg.ReporterMode.WantsTerminal() {
		return
	}
	now := time.Now()
	if !ticker.due(now) {
		return
	}
	sess := cfg.Session
	metrics := &session.Metrics{
		ElapsedSeconds:  now.Sub(start).Seconds(),
		TotalExecs:      sess.Stat.TotalExecs,
		QueueCycle:      sess.Stat.QueueCycle,
		BranchesCovered: len(sess.Tracebits),
		BranchesTotal:   sess.BranchSize,
		PredicatesOpen:  len(sess.Predicates),
		MaxDepth:        sess.Stat.MaxDepth,
		Vulnerabilities: sess.Vulnerabilities,
		ExecsPerSecond:  execs,
	}
	cfg.Terminal.SetMetrics(metrics)
	cfg.Terminal.Render()
}

// runStages drives one leader's stage list against save, recording each
// stage's find delta into fuzz_stat.stage_finds (spec §4.2: "Per-stage find
// counts feed fuzz_stat.stage_finds after each stage"). It stops early, mid
// stage list, the first time done reports true — the finest granularity
// available without the mutator package exposing a per-candidate abort hook
// (spec §5's termination predicate is meant to be evaluated after every
// execution; a stage itself may drive many executions internally, so
// between-stage is as fine as this boundary gets).
func runStages(sess *session.State, stages []mutator.Stage, save *sessionSaver, done func() bool) {
	for _, stage := range stages {
		before := sess.Leaders.Len()
		if err := stage.Run(save); err != nil {
			logger.Debug("fuzzloop: stage %s failed: %v", stage.Name, err)
			continue
		}
		sess.Stat.RecordStageFind(stage.Name, sess.Leaders.Len()-before)
		if done != nil && done() {
			return
		}
	}
}
