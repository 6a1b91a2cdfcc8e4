// Package mutator implements the stage taxonomy of spec §4.2: given a
// leader, each stage emits one or more derived inputs through a
// caller-provided save callback. The mutator holds no global state of its
// own — it only ever borrows the current item, the dictionaries, and a
// corpus sampler for splice/prolongate.
package mutator

import (
	"math/rand"

	"github.com/zjy-dev/evmfuzz/internal/fuzzitem"
)

// Saver is the single-operation capability a stage needs: "consume one
// candidate input, return the resulting FuzzItem" (spec §9's description
// of the save callback). The fuzz loop supplies an implementation that
// wraps interest.SaveIfInterest against the session's global state.
type Saver interface {
	Save(candidate []byte) (*fuzzitem.FuzzItem, error)
}

// Dictionaries holds the token sets the mutator draws from. Construction
// (parsing source/bytecode for literals and addresses) is out of scope
// (spec §1's "dictionary construction from code/addresses" exclusion);
// the mutator only ever consumes the finished token lists.
type Dictionaries struct {
	Code    [][]byte
	Address [][]byte
}

// CorpusSampler lets splice and prolongate draw a sibling input without the
// mutator holding a reference to the leader store itself.
type CorpusSampler interface {
	Sample() ([]byte, bool)
}

// Stage is one named entry in the taxonomy. The fuzz loop drives the stage
// list returned by PreFuzzStages/VulnFuzzStages, measuring Δleaders.size()
// around each call to populate fuzz_stat.stage_finds (spec §4.2).
type Stage struct {
	Name string
	Run  func(save Saver) error
}

// Mutator is configured once per fuzz run with its dictionaries, corpus
// sampler, and an independent random source (spec §4.2's "(current_item,
// (code_dict, address_dict), mode_flag)" configuration tuple minus the
// item itself, which is bound per-call via the stage list builders below).
type Mutator struct {
	rng    *rand.Rand
	dicts  Dictionaries
	corpus CorpusSampler
}

// New returns a mutator seeded deterministically from seed, so that a
// fixed (data, regions, mode, seed) tuple reproduces the same mutation
// sequence — useful for replaying a crashing run.
func New(dicts Dictionaries, corpus CorpusSampler, seed int64) *Mutator {
	return &Mutator{
		rng:    rand.New(rand.NewSource(seed)),
		dicts:  dicts,
		corpus: corpus,
	}
}

// PreFuzzStages returns the ordered stage list for pre-fuzz mode (spec
// §4.2): the full deterministic walking sweep plus havoc for a
// never-fuzzed leader, or the cheaper walking-byte/havoc/splice/prolongate
// sequence once a leader has already gone through its first pass.
func (m *Mutator) PreFuzzStages(item *fuzzitem.FuzzItem, alreadyFuzzed bool) []Stage {
	if !alreadyFuzzed {
		return []Stage{
			{"single_walking_bit", func(save Saver) error { return m.singleWalkingBit(item.Data, save) }},
			{"single_walking_byte", func(save Saver) error { return m.singleWalkingByte(item.Data, save) }},
			{"two_walking_bit", func(save Saver) error { return m.twoWalkingBit(item.Data, save) }},
			{"four_walking_bit", func(save Saver) error { return m.fourWalkingBit(item.Data, save) }},
			{"two_walking_byte", func(save Saver) error { return m.twoWalkingByte(item.Data, save) }},
			{"four_walking_byte", func(save Saver) error { return m.fourWalkingByte(item.Data, save) }},
			{"overwrite_with_address_dictionary", func(save Saver) error { return m.overwriteWithAddressDictionary(item.Data, save) }},
			{"havoc", func(save Saver) error { return m.havoc(item.Data, save, defaultHavocIterations) }},
		}
	}
	return []Stage{
		{"single_walking_byte", func(save Saver) error { return m.singleWalkingByte(item.Data, save) }},
		{"havoc", func(save Saver) error { return m.havoc(item.Data, save, defaultHavocIterations) }},
		{"splice_havoc", func(save Saver) error { return m.spliceThenHavoc(item.Data, save) }},
		{"prolongate", func(save Saver) error { return m.prolongate(item.Data, save) }},
	}
}

// VulnFuzzStages returns the ordered stage list for vuln-fuzz mode (spec
// §4.2): the byte-walking sweep, the classic AFL interesting-value and
// arithmetic sweeps at 1/2/4-byte granularity, dictionary overwrite, and
// havoc for a never-fuzzed leader; walking-byte/havoc/prolongate once
// already fuzzed once.
func (m *Mutator) VulnFuzzStages(item *fuzzitem.FuzzItem, alreadyFuzzed bool) []Stage {
	if !alreadyFuzzed {
		return []Stage{
			{"single_walking_byte", func(save Saver) error { return m.singleWalkingByte(item.Data, save) }},
			{"two_walking_byte", func(save Saver) error { return m.twoWalkingByte(item.Data, save) }},
			{"four_walking_byte", func(save Saver) error { return m.fourWalkingByte(item.Data, save) }},
			{"single_interest", func(save Saver) error { return m.singleInterest(item.Data, save) }},
			{"two_interest", func(save Saver) error { return m.twoInterest(item.Data, save) }},
			{"four_interest", func(save Saver) error { return m.fourInterest(item.Data, save) }},
			{"single_arith", func(save Saver) error { return m.singleArith(item.Data, save) }},
			{"two_arith", func(save Saver) error { return m.twoArith(item.Data, save) }},
			{"four_arith", func(save Saver) error { return m.fourArith(item.Data, save) }},
			{"overwrite_with_address_dictionary", func(save Saver) error { return m.overwriteWithAddressDictionary(item.Data, save) }},
			{"havoc", func(save Saver) error { return m.havoc(item.Data, save, defaultHavocIterations) }},
		}
	}
	return []Stage{
		{"single_walking_byte", func(save Saver) error { return m.singleWalkingByte(item.Data, save) }},
		{"havoc", func(save Saver) error { return m.havoc(item.Data, save, defaultHavocIterations) }},
		{"prolongate", func(save Saver) error { return m.prolongate(item.Data, save) }},
	}
}

// cloneWith returns a copy of base with the byte window [offset, offset+len(patch))
// overwritten by patch.
func cloneWith(base []byte, offset int, patch []byte) []byte {
	out := make([]byte, len(base))
	copy(out, base)
	copy(out[offset:], patch)
	return out
}
