// Package leaders holds the best-input-per-branch store and its ordered
// queue view, adapted from the teacher's corpus manager for branch-keyed
// rather than line-coverage-keyed leaders.
package leaders

import (
	"github.com/holiman/uint256"
	"github.com/zjy-dev/evmfuzz/internal/branch"
	"github.com/zjy-dev/evmfuzz/internal/fuzzitem"
)

// Leader is the best (input, distance) pair recorded for a branch so far.
// A zero Distance means the branch is covered.
type Leader struct {
	Item     *fuzzitem.FuzzItem
	Distance *uint256.Int
}

// Covered reports whether this leader represents a taken branch.
func (l *Leader) Covered() bool {
	return l.Distance == nil || l.Distance.Cmp(uint256.NewInt(0)) == 0
}

// Store is the single-threaded, in-memory map<BranchId, Leader> plus its
// companion queue, matching the teacher's corpus.FileManager structure
// minus the mutex (spec §5: the fuzzer is single-threaded and synchronous).
type Store struct {
	entries map[branch.ID]*Leader
	queue   []branch.ID
	index   map[branch.ID]int // position within queue, for O(1) membership checks
}

// NewStore returns an empty leader store.
func NewStore() *Store {
	return &Store{
		entries: make(map[branch.ID]*Leader),
		queue:   nil,
		index:   make(map[branch.ID]int),
	}
}

// Get returns the leader for b, if any.
func (s *Store) Get(b branch.ID) (*Leader, bool) {
	l, ok := s.entries[b]
	return l, ok
}

// Len returns the number of branches with a recorded leader.
func (s *Store) Len() int {
	return len(s.entries)
}

// Queue returns the current queue order. The returned slice must not be
// mutated by the caller.
func (s *Store) Queue() []branch.ID {
	return s.queue
}

// InQueue reports whether b already has a queue slot (invariant I2 support).
func (s *Store) InQueue(b branch.ID) bool {
	_, ok := s.index[b]
	return ok
}

// enqueue appends b to the queue if it is not already present, preserving I2.
func (s *Store) enqueue(b branch.ID) {
	if s.InQueue(b) {
		return
	}
	s.index[b] = len(s.queue)
	s.queue = append(s.queue, b)
}

// Install replaces (or creates) the leader for b with (item, distance),
// appending b to the queue the first time it is seen. It never merges with
// an existing entry — spec §3: "entries are replaced, never merged".
func (s *Store) Install(b branch.ID, item *fuzzitem.FuzzItem, distance *uint256.Int) {
	s.entries[b] = &Leader{Item: item, Distance: distance}
	s.enqueue(b)
}

// Erase removes the leader for b without touching its queue slot; per spec
// §8 P5 a supersession is "one erase, one insert of the same key", so the
// queue position is left intact and Install immediately re-populates it.
func (s *Store) Erase(b branch.ID) {
	delete(s.entries, b)
}

// All returns every branch identifier with a recorded leader.
func (s *Store) All() []branch.ID {
	out := make([]branch.ID, 0, len(s.entries))
	for b := range s.entries {
		out = append(out, b)
	}
	return out
}

// AtIndex returns the branch id at a queue position, used by the
// round-robin scheduler.
func (s *Store) AtIndex(i int) (branch.ID, bool) {
	if i < 0 || i >= len(s.queue) {
		return "", false
	}
	return s.queue[i], true
}
