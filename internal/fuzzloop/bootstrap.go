package fuzzloop

import (
	"github.com/zjy-dev/evmfuzz/internal/branch"
	"github.com/zjy-dev/evmfuzz/internal/fuzzitem"
	"github.com/zjy-dev/evmfuzz/internal/session"
)

// degenerateWeight is the fixed energy handed to the synthetic branch when
// a contract has no discoverable runtime branches (spec §4.1, B4).
const degenerateWeight = int32(128)

// Bootstrap seeds sess.Leaders (and, in vuln-mode, sess.Energies) before
// the scheduler's first Pick. Two cases:
//
//   - The contract has at least one real branch (regions.BranchCount() > 0):
//     one random testcase is run through the interest filter, exactly as
//     the teacher's engine.processInitialSeeds primes its corpus with a
//     first execution before the iteration loop starts.
//   - The contract has none: the synthetic degenerate branch ":" is
//     installed directly with a random testcase and, in vuln-mode, a fixed
//     weight of 128, since there is no real execution that could ever
//     populate Tracebits/Predicates for it.
func Bootstrap(sess *session.State, saver *sessionSaver, abi branch.ABIProvider, regions branch.ValidRegions) error {
	sess.BranchSize = regions.BranchCount()

	if regions.BranchCount() == 0 {
		item := fuzzitem.New(abi.PostprocessTestdata(abi.RandomTestcase()))
		sess.Leaders.Install(branch.Degenerate, item, nil)
		if sess.Mode == branch.ModeVuln {
			sess.Energies.Set(branch.Degenerate, degenerateWeight)
		}
		return nil
	}

	_, err := saver.Save(abi.RandomTestcase())
	return err
}
