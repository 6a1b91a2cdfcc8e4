package leaders

import "github.com/zjy-dev/evmfuzz/internal/branch"

// Energies is the per-branch weight vector consumed by the vuln-fuzz
// scheduler (spec §3, Energy record). It is non-empty iff the session is in
// vuln-mode and at least one weighted branch was loaded (invariant I5).
type Energies struct {
	weight map[branch.ID]int32
	order  []branch.ID // stable iteration order for cyclic fallback
}

// NewEnergies returns an empty energy vector.
func NewEnergies() *Energies {
	return &Energies{weight: make(map[branch.ID]int32)}
}

// Set installs or overwrites the weight for b.
func (e *Energies) Set(b branch.ID, weight int32) {
	if _, ok := e.weight[b]; !ok {
		e.order = append(e.order, b)
	}
	e.weight[b] = weight
}

// Weight returns the current weight for b.
func (e *Energies) Weight(b branch.ID) int32 {
	return e.weight[b]
}

// Len reports how many branches carry an energy record.
func (e *Energies) Len() int {
	return len(e.weight)
}

// Has reports whether b carries an energy record at all, distinguishing
// "no entry" from "entry present with weight zero".
func (e *Energies) Has(b branch.ID) bool {
	_, ok := e.weight[b]
	return ok
}

// Drain subtracts hitCount from b's weight, flooring at zero, per spec
// §4.1's vuln-mode variant: "weight = max(0, weight − hit_count)".
func (e *Energies) Drain(b branch.ID, hitCount uint64) {
	w := e.weight[b]
	next := w - int32(hitCount)
	if next < 0 {
		next = 0
	}
	e.weight[b] = next
}

// TotalWeight sums every branch's weight, used by the termination predicate
// "sum of energy weights is zero" (spec §4.5).
func (e *Energies) TotalWeight() int64 {
	var total int64
	for _, w := range e.weight {
		total += int64(w)
	}
	return total
}

// MaxWeight returns the branch with the greatest weight, scanning in stable
// insertion order so ties resolve deterministically.
func (e *Energies) MaxWeight() (branch.ID, bool) {
	var best branch.ID
	var bestWeight int32 = -1
	found := false
	for _, b := range e.order {
		w := e.weight[b]
		if w > bestWeight {
			bestWeight = w
			best = b
			found = true
		}
	}
	return best, found
}

// Order returns the stable insertion order used for cyclic fallback when
// the branch with maximum weight has no resident leader.
func (e *Energies) Order() []branch.ID {
	return e.order
}
