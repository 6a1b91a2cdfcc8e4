package session

import (
	"github.com/zjy-dev/evmfuzz/internal/branch"
	"github.com/zjy-dev/evmfuzz/internal/leaders"
)

// State is the global session structure of spec §3/§5: it exclusively owns
// every "global" the interest filter and scheduler touch. The mutator only
// ever borrows the current item and the dictionaries; the executor only
// ever borrows the input by value — neither ever holds a reference to State.
type State struct {
	Contract string
	Mode     branch.Mode

	Leaders    *leaders.Store
	Tracebits  map[branch.ID]struct{}
	Predicates map[branch.ID]struct{}

	UniqueExceptions map[branch.ExceptionKind]struct{}
	Vulnerabilities  [branch.Total]uint16
	OracleDetails    [branch.Total]OracleDetail

	PrefixRecords []PrefixEntry

	Energies *leaders.Energies

	// BranchHits accumulates, per branch, the running total of hit counts
	// ever observed in reached_branch during vuln-fuzz (spec §4.1's
	// vuln-mode variant's cumulative branch_hits). Initialized to zero the
	// first round a branch is seen; unused in pre-fuzz mode.
	BranchHits map[branch.ID]uint64

	Stat FuzzStat

	// BranchSize is the denominator for coverage-percentage reporting
	// (spec §9): len(Side0)+len(Side1) from the region set loaded at start.
	BranchSize int
}

// PrefixEntry is one accumulated prefix map, appended by the pre-fuzz
// interest filter for each execution that reports a non-empty prefix map
// (spec §3 prefix_records).
type PrefixEntry struct {
	Prefix map[branch.ID][]int32
}

// OracleDetail accumulates the per-oracle detail the vuln-mode report
// table needs beyond a bare count (spec §6: "per-oracle {number,
// instruction distinction: space-separated hex pcs, test cases: [...]}"}).
type OracleDetail struct {
	PCs       map[uint64]struct{}
	TestCases []string
}

// New returns an empty State for contract running in mode.
func New(contract string, mode branch.Mode) *State {
	s := &State{
		Contract:         contract,
		Mode:             mode,
		Leaders:          leaders.NewStore(),
		Tracebits:        make(map[branch.ID]struct{}),
		Predicates:       make(map[branch.ID]struct{}),
		UniqueExceptions: make(map[branch.ExceptionKind]struct{}),
		Energies:         leaders.NewEnergies(),
		BranchHits:       make(map[branch.ID]uint64),
		Stat:             NewFuzzStat(),
	}
	for i := range s.OracleDetails {
		s.OracleDetails[i].PCs = make(map[uint64]struct{})
	}
	return s
}

// CoverageBasisPoints reports current coverage using the §9 persisted
// convention: int((tracebits/branch_size) * 10000).
func (s *State) CoverageBasisPoints() int {
	if s.BranchSize == 0 {
		return 0
	}
	return int(float64(len(s.Tracebits)) / float64(s.BranchSize) * 10000)
}

// NoUncoveredPredicates reports whether the pre-fuzz termination condition
// "no uncovered predicates remain" (spec §4.5 (i)) currently holds.
func (s *State) NoUncoveredPredicates() bool {
	return len(s.Predicates) == 0
}
