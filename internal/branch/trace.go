package branch

import "github.com/holiman/uint256"

// ExceptionKind names a revert/exception class surfaced by the executor.
// These are signal, not errors — see spec §7c.
type ExceptionKind string

const (
	ExceptionRevert        ExceptionKind = "REVERT"
	ExceptionOutOfGas      ExceptionKind = "OUT_OF_GAS"
	ExceptionInvalidOpcode ExceptionKind = "INVALID_OPCODE"
	ExceptionStackOverflow ExceptionKind = "STACK_OVERFLOW"
	ExceptionStackUnderflow ExceptionKind = "STACK_UNDERFLOW"
)

// Mode selects which of the two operating modes an execution belongs to.
type Mode bool

const (
	// ModeVuln selects vuln-fuzz (oracle instrumentation, reached_branch counters).
	ModeVuln Mode = false
	// ModePre selects pre-fuzz (coverage maximization).
	ModePre Mode = true
)

// ValidRegions is the fixed-arity tuple of pc-sets consumed by the executor,
// per spec §9 ("not an open map"). Side0/Side1 are always populated; the
// remaining seven oracle-family sets are populated only in vuln-fuzz mode.
type ValidRegions struct {
	Side0          map[uint64]struct{}
	Side1          map[uint64]struct{}
	Timestamps     map[uint64]struct{}
	BlockNums      map[uint64]struct{}
	DelegateCalls  map[uint64]struct{}
	UncheckedCalls map[uint64]struct{}
	TxOrigin       map[uint64]struct{}
	Assert         map[uint64]struct{}
	Suicide        map[uint64]struct{}
}

// BranchCount returns the number of jumpi sides known to the region set,
// i.e. the branch_size used for coverage-percentage reporting.
func (v ValidRegions) BranchCount() int {
	return len(v.Side0) + len(v.Side1)
}

// TraceResult is the structured outcome of one executor.Exec call.
type TraceResult struct {
	// Tracebits holds every branch actually taken during this execution.
	Tracebits map[ID]struct{}

	// Predicates holds, for every branch approached but not taken, the
	// semantic distance between the two operands of the guarding comparison.
	Predicates map[ID]*uint256.Int

	// UniqueExceptions holds every distinct exception kind observed.
	UniqueExceptions map[ExceptionKind]struct{}

	// PrefixMap holds, for each branch hit, the ordered sequence of function
	// indices that preceded it on this execution's path.
	PrefixMap map[ID][]int32

	// ReachedBranch holds per-branch hit counts, used only in vuln-fuzz mode.
	ReachedBranch map[ID]uint64

	// OracleHits carries oracle kinds the executor itself detected through
	// EVM semantics this package does not model structurally (reentrancy
	// guards, balance freezes, checked-arithmetic revert reasons) — the
	// seven families backed by a ValidRegions pc-set are instead derived
	// from Tracebits and need no entry here.
	OracleHits map[OracleKind]uint16

	// CurrentTestcase is the JSON encoding of the executed testcase, kept
	// only for reporting.
	CurrentTestcase string
}

// NewTraceResult returns a TraceResult with all maps initialized empty.
func NewTraceResult() *TraceResult {
	return &TraceResult{
		Tracebits:        make(map[ID]struct{}),
		Predicates:       make(map[ID]*uint256.Int),
		UniqueExceptions: make(map[ExceptionKind]struct{}),
		PrefixMap:        make(map[ID][]int32),
		ReachedBranch:    make(map[ID]uint64),
		OracleHits:       make(map[OracleKind]uint16),
	}
}
