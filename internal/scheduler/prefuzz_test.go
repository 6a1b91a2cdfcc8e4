package scheduler

import (
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/zjy-dev/evmfuzz/internal/branch"
	"github.com/zjy-dev/evmfuzz/internal/fuzzitem"
	"github.com/zjy-dev/evmfuzz/internal/session"
)

func newTestSession() *session.State {
	return session.New("Target", branch.ModePre)
}

func TestPreFuzzPickReturnsCurrentIdx(t *testing.T) {
	sess := newTestSession()
	a := branch.Make(1, branch.SideFalse)
	b := branch.Make(2, branch.SideFalse)
	sess.Leaders.Install(a, fuzzitem.New([]byte{1}), uint256.NewInt(1))
	sess.Leaders.Install(b, fuzzitem.New([]byte{2}), uint256.NewInt(1))
	sess.Predicates[a] = struct{}{}
	sess.Predicates[b] = struct{}{}

	var sched PreFuzz
	got, ok := sched.Pick(sess)
	if !ok || got != a {
		t.Fatalf("expected %q at idx 0, got %q (ok=%v)", a, got, ok)
	}
}

func TestPreFuzzAdvanceWrapsAndBumpsQueueCycle(t *testing.T) {
	sess := newTestSession()
	a := branch.Make(1, branch.SideFalse)
	b := branch.Make(2, branch.SideFalse)
	sess.Leaders.Install(a, fuzzitem.New([]byte{1}), uint256.NewInt(1))
	sess.Leaders.Install(b, fuzzitem.New([]byte{2}), uint256.NewInt(1))
	sess.Predicates[a] = struct{}{}
	sess.Predicates[b] = struct{}{}

	var sched PreFuzz
	sched.Advance(sess, a) // idx 0 -> 1
	if sess.Stat.Idx != 1 {
		t.Fatalf("expected idx 1, got %d", sess.Stat.Idx)
	}
	if sess.Stat.QueueCycle != 0 {
		t.Fatalf("expected queue_cycle 0, got %d", sess.Stat.QueueCycle)
	}

	sched.Advance(sess, b) // idx 1 -> 0, wraps
	if sess.Stat.Idx != 0 {
		t.Fatalf("expected idx wrapped to 0, got %d", sess.Stat.Idx)
	}
	if sess.Stat.QueueCycle != 1 {
		t.Fatalf("expected queue_cycle incremented to 1, got %d", sess.Stat.QueueCycle)
	}
}

func TestPreFuzzAdvanceWrapsWithoutJumpWhenNextLeaderDiffers(t *testing.T) {
	sess := newTestSession()
	only := branch.Make(1, branch.SideFalse)
	stale := branch.Make(2, branch.SideFalse)

	stuckItem := fuzzitem.New([]byte{1})
	stuckItem.FuzzedCount = 50
	staleItem := fuzzitem.New([]byte{2})
	staleItem.FuzzedCount = 1

	sess.Leaders.Install(only, stuckItem, uint256.NewInt(1))
	sess.Leaders.Install(stale, staleItem, uint256.NewInt(1))
	sess.Predicates[only] = struct{}{}
	sess.Predicates[stale] = struct{}{}

	// With two entries and idx at the last slot, advancing wraps to idx 0,
	// which holds a different leader than the one just processed, so the
	// anti-stall jump does not fire even though the other leader is staler.
	sess.Stat.Idx = 1
	var sched PreFuzz
	sched.Advance(sess, stale) // idx 1 -> 0 (wraps), next==only != stale, no jump expected
	if sess.Stat.Idx != 0 {
		t.Fatalf("expected idx 0, got %d", sess.Stat.Idx)
	}
}

func TestPreFuzzDoneTerminationPredicates(t *testing.T) {
	sess := newTestSession()
	if !PreFuzzDone(sess, time.Hour, 100) {
		t.Fatal("expected done when no uncovered predicates remain")
	}

	sess.Predicates[branch.Make(1, branch.SideFalse)] = struct{}{}
	sess.Stat.LastNewPath = time.Now()
	if PreFuzzDone(sess, time.Hour, 100) {
		t.Fatal("expected not done: predicates remain, fresh last_new_path, healthy speed")
	}

	if !PreFuzzDone(sess, time.Hour, 1) {
		t.Fatal("expected done: speed below stall threshold")
	}

	sess.Stat.LastNewPath = time.Now().Add(-2 * time.Hour)
	if !PreFuzzDone(sess, time.Hour, 100) {
		t.Fatal("expected done: stalled past duration since last new path")
	}
}
