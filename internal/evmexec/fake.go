package evmexec

import (
	"context"
	"encoding/hex"

	"github.com/zjy-dev/evmfuzz/internal/branch"
)

// ScriptedRaw is a deterministic in-memory Raw used by tests of the
// interest filter, mutator, and fuzz-loop packages that need a stand-in for
// the real EVM: spec §6 requires the executor be "deterministic for fixed
// (data, regions, mode)", so a real contract call is never required to
// exercise those packages' logic.
type ScriptedRaw struct {
	// Script maps a hex encoding of data to the result that input produces.
	// Inputs with no script entry get DefaultResult.
	Script        map[string]*branch.TraceResult
	DefaultResult *branch.TraceResult
	Calls         int
}

// NewScriptedRaw returns an empty script that answers every call with an
// empty TraceResult until entries are added.
func NewScriptedRaw() *ScriptedRaw {
	return &ScriptedRaw{
		Script:        make(map[string]*branch.TraceResult),
		DefaultResult: branch.NewTraceResult(),
	}
}

// On registers the TraceResult to return for the given input.
func (s *ScriptedRaw) On(data []byte, result *branch.TraceResult) {
	s.Script[hex.EncodeToString(data)] = result
}

// Run implements Raw by looking up data in the script, ignoring regions and
// mode (tests that need mode-sensitive behavior script distinct results per
// caller-prepared input instead).
func (s *ScriptedRaw) Run(_ context.Context, data []byte, _ bool, _ branch.ValidRegions, _ branch.Mode) (*branch.TraceResult, error) {
	s.Calls++
	if result, ok := s.Script[hex.EncodeToString(data)]; ok {
		return result, nil
	}
	return s.DefaultResult, nil
}
