package fuzzloop

import (
	"math/rand"

	"github.com/zjy-dev/evmfuzz/internal/leaders"
)

// storeSampler adapts a leaders.Store into the mutator.CorpusSampler a
// splice/prolongate stage needs: a uniformly random sibling item's bytes.
type storeSampler struct {
	store *leaders.Store
	rng   *rand.Rand
}

// NewStoreSampler builds the mutator.CorpusSampler both drivers use to
// sample splice siblings from a session's leader store — exported so a CLI
// wiring together a fuzzloop.Config can build the same mutator.Mutator
// this package's own drivers do, without duplicating the sampling logic.
func NewStoreSampler(store *leaders.Store, rng *rand.Rand) *storeSampler {
	return &storeSampler{store: store, rng: rng}
}

// Sample returns a random leader's data, or ok=false if the store is empty.
func (s *storeSampler) Sample() ([]byte, bool) {
	all := s.store.All()
	if len(all) == 0 {
		return nil, false
	}
	pick := all[s.rng.Intn(len(all))]
	l, ok := s.store.Get(pick)
	if !ok || l.Item == nil {
		return nil, false
	}
	return l.Item.Data, true
}
