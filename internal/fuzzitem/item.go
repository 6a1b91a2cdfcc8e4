// Package fuzzitem defines FuzzItem, the encoded transaction sequence the
// mutator derives and the executor consumes.
package fuzzitem

// HitRank classifies what an execution's result meant for the item that
// produced it, per spec §4.1 and §9's open questions. It is assigned but,
// per spec, not read by the scheduler — it exists for telemetry export and
// downstream analysis.
type HitRank int

const (
	// HitRank3 marks a brand-new branch covered with no prior predicate entry.
	HitRank3 HitRank = 3
	// HitRank2 marks a predicate distance improved over an existing leader.
	HitRank2 HitRank = 2
	// HitRank1 marks the first predicate recorded for a branch.
	HitRank1 HitRank = 1
	// HitRank0 marks a branch flipped that previously had a predicate entry.
	HitRank0 HitRank = 0
)

// FuzzItem is a byte string representing an encoded sequence of
// transactions, plus mutable bookkeeping used by the scheduler and mutator.
type FuzzItem struct {
	// Data is the ABI-post-processed transaction sequence ready for the executor.
	Data []byte

	// Depth counts hops of derivation from the original seed.
	Depth int

	// FuzzedCount counts how many mutation rounds have used this item as a seed.
	FuzzedCount int

	// HitRank records the most recent classification assigned by the interest filter.
	HitRank HitRank

	// CurrentTestcase is the JSON encoding of the executed testcase, carried
	// from TraceResult for the reporter's benefit only (spec §3).
	CurrentTestcase string
}

// New creates a FuzzItem wrapping data with zeroed bookkeeping.
func New(data []byte) *FuzzItem {
	return &FuzzItem{Data: data}
}

// Clone returns a deep copy of the item, used by the mutator before
// deriving a candidate so the parent's bookkeeping is untouched.
func (f *FuzzItem) Clone() *FuzzItem {
	cp := make([]byte, len(f.Data))
	copy(cp, f.Data)
	return &FuzzItem{
		Data:        cp,
		Depth:       f.Depth,
		FuzzedCount: f.FuzzedCount,
		HitRank:     f.HitRank,

		CurrentTestcase: f.CurrentTestcase,
	}
}

// Derive returns a child item one hop deeper than its parent, with data
// replaced by newData.
func (f *FuzzItem) Derive(newData []byte) *FuzzItem {
	return &FuzzItem{
		Data:  newData,
		Depth: f.Depth + 1,
	}
}
