package app

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/zjy-dev/evmfuzz/internal/branch"
	"github.com/zjy-dev/evmfuzz/internal/fuzzloop"
	"github.com/zjy-dev/evmfuzz/internal/logger"
)

// newPreFuzzCommand creates the "prefuzz" subcommand: the coverage-
// maximizing loop of spec §4. Pre-fuzz always terminates — there is no
// separate success/failure distinction, only which predicate fired — so on
// return it reports the termination reason and exits with status 1 (spec
// §4.5), the signal a wrapping campaign script watches for to know this
// contract's pre-fuzz pass is done.
func newPreFuzzCommand(shared *sharedFlags) *cobra.Command {
	var duration time.Duration
	var execTimeout time.Duration

	cmd := &cobra.Command{
		Use:   "prefuzz",
		Short: "Maximize branch coverage against the configured contract.",
		Long: `Run the pre-fuzz loop until one of three predicates fires: no
uncovered predicates remain, wall-clock since the last new path exceeds
--duration, or throughput drops below 10 execs/s.

On termination it persists branch_msg/prefix.json and branch_msg/leaders.json
and exits with status 1 — this is the expected, successful end of a pre-fuzz
run, not an error.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := setup(shared, branch.ModePre, execTimeout)
			if err != nil {
				return err
			}
			s.cfg.Duration = duration

			result, err := fuzzloop.RunPreFuzz(s.cfg)
			if err != nil {
				return err
			}

			fmt.Printf(
				"pre-fuzz terminated: %s (execs=%d, branches=%d/%d, elapsed=%s)\n",
				result.Terminated, result.TotalExecs, result.BranchesCovered, result.BranchesTotal, result.Elapsed,
			)
			logger.Close()
			os.Exit(1)
			return nil
		},
	}

	cmd.Flags().DurationVar(&duration, "duration", time.Hour, "max wall-clock time since the last new path before terminating")
	cmd.Flags().DurationVar(&execTimeout, "exec-timeout", 5*time.Second, "per-execution timeout passed to the executor")

	return cmd
}
