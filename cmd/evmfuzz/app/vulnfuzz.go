package app

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zjy-dev/evmfuzz/internal/branch"
	"github.com/zjy-dev/evmfuzz/internal/fuzzitem"
	"github.com/zjy-dev/evmfuzz/internal/fuzzloop"
	"github.com/zjy-dev/evmfuzz/internal/leaders"
	"github.com/zjy-dev/evmfuzz/internal/logger"
	"github.com/zjy-dev/evmfuzz/internal/reporter"
)

// newVulnFuzzCommand creates the "vulnfuzz" subcommand: the oracle-hunting
// loop of spec §4. Unlike pre-fuzz, vuln-fuzz requires branch_msg/weight.json
// to already carry an entry for this contract — a missing file or entry is
// the hard-exit environmental error of spec §7a, except for a contract with
// no discoverable branches at all, where the fuzz loop's own degenerate-case
// bootstrap supplies the energy the missing file otherwise would.
func newVulnFuzzCommand(shared *sharedFlags) *cobra.Command {
	var duration time.Duration
	var execTimeout time.Duration

	cmd := &cobra.Command{
		Use:   "vulnfuzz",
		Short: "Spend a fixed energy budget hunting for oracle hits.",
		Long: `Run the vuln-fuzz loop until one of three predicates fires: total
energy weight reaches zero, wall-clock since start exceeds --duration, or
throughput drops below 10 execs/s.

Requires branch_msg/weight.json (written by a prior prefuzz run via a
weight-seeding step) to carry this contract's energy vector, unless the
contract has no discoverable branches at all.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := setup(shared, branch.ModeVuln, execTimeout)
			if err != nil {
				return err
			}
			s.cfg.Duration = duration

			if err := loadVulnFuzzState(s); err != nil {
				logger.Fatal("vuln-fuzz: %v", err)
			}

			writer := reporter.NewWriter(*shared.baseDir, s.cfg.Session.Contract)
			if s.tgt.Runtime != "" {
				writer.WriteRuntimeBytecode(s.tgt.Runtime)
			}

			result, err := fuzzloop.RunVulnFuzz(s.cfg, writer)
			if err != nil {
				return err
			}

			fmt.Printf(
				"vuln-fuzz terminated: %s (execs=%d, elapsed=%s)\n",
				result.Terminated, result.TotalExecs, result.Elapsed,
			)
			logger.Close()
			return nil
		},
	}

	cmd.Flags().DurationVar(&duration, "duration", time.Hour, "max wall-clock time since start before terminating")
	cmd.Flags().DurationVar(&execTimeout, "exec-timeout", 5*time.Second, "per-execution timeout passed to the executor")

	return cmd
}

// loadVulnFuzzState seeds sess.Energies and sess.Leaders from the persisted
// branch_msg/{weight,leaders}.json documents (spec §8 R2's round-trip), or
// returns the spec §7a hard-exit error for a contract with real branches
// but no weight.json entry. Seeded leaders carry a nil Distance — vuln-mode
// reconciliation treats that as "no hit-count on record yet" and supersedes
// it on the branch's first reached_branch hit, so no separate tracebits
// seeding step is needed here.
func loadVulnFuzzState(s *runSetup) error {
	sess := s.cfg.Session
	contract := sess.Contract

	energies, _, err := leaders.LoadWeight(s.cfg.BaseDir, contract)
	if err != nil {
		if s.regions.BranchCount() == 0 {
			return nil // the degenerate-case bootstrap in fuzzloop.RunVulnFuzz supplies energy instead
		}
		return fmt.Errorf("vuln-fuzz requires %s to carry an entry for %q: %w", leaders.WeightFile, contract, err)
	}
	sess.Energies = energies // coverage is informational only; sess.BranchSize is recomputed from live regions

	seeds, err := leaders.LoadLeaders(s.cfg.BaseDir, contract)
	if err != nil {
		return fmt.Errorf("vuln-fuzz: load %s: %w", leaders.LeadersFile, err)
	}
	for branchID, data := range seeds {
		sess.Leaders.Install(branchID, fuzzitem.New(data), nil)
	}

	return nil
}
