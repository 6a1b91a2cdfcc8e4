package scheduler

import (
	"github.com/zjy-dev/evmfuzz/internal/branch"
	"github.com/zjy-dev/evmfuzz/internal/session"
)

// VulnFuzz is the energy-maximizing scheduler used while hunting for
// oracle violations (spec §4.3, vuln-fuzz variant): "pick the branch with
// the highest remaining weight; if its leader is no longer resident, fall
// back to the next branch in energy order that still has one."
type VulnFuzz struct{}

// Pick returns the highest-weight branch with a resident leader.
func (VulnFuzz) Pick(sess *session.State) (branch.ID, bool) {
	best, ok := sess.Energies.MaxWeight()
	if ok {
		if _, resident := sess.Leaders.Get(best); resident {
			return best, true
		}
	}
	return cyclicFallback(sess, best)
}

// cyclicFallback walks the energy order (insertion order, stable)
// cyclically, starting just after from, looking for the first branch whose
// leader is still resident, so a scheduler round never stalls just because
// the top-weighted branch's leader was superseded.
func cyclicFallback(sess *session.State, from branch.ID) (branch.ID, bool) {
	order := sess.Energies.Order()
	start := 0
	for i, b := range order {
		if b == from {
			start = i + 1
			break
		}
	}
	for i := range order {
		b := order[(start+i)%len(order)]
		if _, resident := sess.Leaders.Get(b); resident {
			return b, true
		}
	}
	return "", false
}
