package leaders

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/zjy-dev/evmfuzz/internal/branch"
	"github.com/zjy-dev/evmfuzz/internal/fuzzitem"
)

func TestInstallAppendsQueueOnce(t *testing.T) {
	s := NewStore()
	b := branch.Make(0x42, branch.SideFalse)
	item := fuzzitem.New([]byte{1})

	s.Install(b, item, uint256.NewInt(7))
	s.Install(b, item, uint256.NewInt(3))

	if s.Len() != 1 {
		t.Fatalf("expected 1 leader, got %d", s.Len())
	}
	if len(s.Queue()) != 1 {
		t.Fatalf("expected queue len 1 after re-install of same branch, got %d", len(s.Queue()))
	}
}

func TestEraseThenInstallPreservesQueuePosition(t *testing.T) {
	s := NewStore()
	b1 := branch.Make(1, branch.SideFalse)
	b2 := branch.Make(2, branch.SideFalse)
	item := fuzzitem.New([]byte{1})

	s.Install(b1, item, uint256.NewInt(5))
	s.Install(b2, item, uint256.NewInt(5))

	s.Erase(b1)
	if _, ok := s.Get(b1); ok {
		t.Fatal("expected leader erased")
	}
	if !s.InQueue(b1) {
		t.Fatal("expected queue slot retained across erase (P5: one erase, one insert of the same key)")
	}

	s.Install(b1, item, uint256.NewInt(0))
	if len(s.Queue()) != 2 {
		t.Fatalf("expected queue len 2 after re-install, got %d", len(s.Queue()))
	}
}

func TestLeaderCovered(t *testing.T) {
	covered := &Leader{Distance: uint256.NewInt(0)}
	uncovered := &Leader{Distance: uint256.NewInt(1)}
	if !covered.Covered() {
		t.Fatal("expected zero distance to mean covered")
	}
	if uncovered.Covered() {
		t.Fatal("expected positive distance to mean uncovered")
	}
}

func TestEnergiesDrainFloorsAtZero(t *testing.T) {
	e := NewEnergies()
	b := branch.Make(1, branch.SideTrue)
	e.Set(b, 10)
	e.Drain(b, 6)
	if e.Weight(b) != 4 {
		t.Fatalf("expected weight 4, got %d", e.Weight(b))
	}
	e.Drain(b, 100)
	if e.Weight(b) != 0 {
		t.Fatalf("expected weight floored at 0, got %d", e.Weight(b))
	}
}

func TestEnergiesMaxWeight(t *testing.T) {
	e := NewEnergies()
	a := branch.Make(1, branch.SideFalse)
	b := branch.Make(2, branch.SideFalse)
	e.Set(a, 10)
	e.Set(b, 3)

	best, ok := e.MaxWeight()
	if !ok || best != a {
		t.Fatalf("expected max weight branch %q, got %q (ok=%v)", a, best, ok)
	}

	e.Drain(a, 10)
	e.Drain(b, 3)
	if e.TotalWeight() != 0 {
		t.Fatalf("expected total weight 0 after draining both, got %d", e.TotalWeight())
	}
}
