// Package evmexec adapts the fuzzing core's Executor contract (spec §6) to
// a concrete, timeout-bounded call into an out-of-process or in-process EVM.
// The EVM interpreter itself is out of scope (spec §1); this package is the
// thin wrapper the spec calls for (~10% of the core's implementation budget).
package evmexec

import (
	"context"
	"fmt"
	"time"

	"github.com/zjy-dev/evmfuzz/internal/branch"
)

// Raw is the minimal collaborator this package wraps: one blocking call
// that runs data against an instrumented EVM and returns a trace. A real
// implementation lives outside the fuzzing core (spec §1); evmexec only
// adds the timeout and determinism contract the core requires.
type Raw interface {
	Run(ctx context.Context, data []byte, isSplice bool, regions branch.ValidRegions, mode branch.Mode) (*branch.TraceResult, error)
}

// Executor is the contract the interest filter and fuzz loop consume
// (spec §6): "exec(data, is_splice, valid_regions, mode) → TraceResult ...
// must be deterministic for fixed (data, regions, mode)".
type Executor interface {
	Exec(data []byte, isSplice bool, regions branch.ValidRegions, mode branch.Mode) (*branch.TraceResult, error)
}

// TimeoutExecutor adapts a Raw collaborator into an Executor, bounding each
// call with a context timeout — the teacher's seed_executor used the same
// context.WithTimeout-around-exec.CommandContext shape to bound a
// subprocess; here the bounded thing is an in-process or RPC call into the
// EVM rather than a child process, but the timeout discipline carries over
// unchanged.
type TimeoutExecutor struct {
	raw     Raw
	timeout time.Duration
}

// NewTimeoutExecutor wraps raw with a per-call timeout. A zero timeout
// disables the bound, matching the teacher's "timeoutSec > 0" guard.
func NewTimeoutExecutor(raw Raw, timeout time.Duration) *TimeoutExecutor {
	return &TimeoutExecutor{raw: raw, timeout: timeout}
}

// Exec runs data through raw, returning a deterministic-or-bust TraceResult.
// A context deadline exceeded surfaces as ExceptionOutOfGas-equivalent
// signal rather than a hard error: a hung EVM call is, from the fuzzer's
// point of view, indistinguishable from an input that burns unbounded gas.
func (e *TimeoutExecutor) Exec(data []byte, isSplice bool, regions branch.ValidRegions, mode branch.Mode) (*branch.TraceResult, error) {
	ctx := context.Background()
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	result, err := e.raw.Run(ctx, data, isSplice, regions, mode)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			timedOut := branch.NewTraceResult()
			timedOut.UniqueExceptions[branch.ExceptionOutOfGas] = struct{}{}
			return timedOut, nil
		}
		return nil, fmt.Errorf("evmexec: run failed: %w", err)
	}
	return result, nil
}
