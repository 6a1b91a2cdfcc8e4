package mutator

import (
	"bytes"
	"testing"

	"github.com/zjy-dev/evmfuzz/internal/fuzzitem"
)

type recordingSaver struct {
	candidates [][]byte
}

func (r *recordingSaver) Save(candidate []byte) (*fuzzitem.FuzzItem, error) {
	cp := make([]byte, len(candidate))
	copy(cp, candidate)
	r.candidates = append(r.candidates, cp)
	return fuzzitem.New(cp), nil
}

type fixedCorpus struct {
	data []byte
	ok   bool
}

func (f fixedCorpus) Sample() ([]byte, bool) { return f.data, f.ok }

func countDifferingBytes(a, b []byte) int {
	n := 0
	for i := range a {
		if a[i] != b[i] {
			n++
		}
	}
	return n
}

func TestSingleWalkingBitTouchesEveryBitOnce(t *testing.T) {
	m := New(Dictionaries{}, nil, 1)
	data := []byte{0x00, 0x00}
	saver := &recordingSaver{}
	if err := m.singleWalkingBit(data, saver); err != nil {
		t.Fatal(err)
	}
	if len(saver.candidates) != len(data)*8 {
		t.Fatalf("expected %d candidates, got %d", len(data)*8, len(saver.candidates))
	}
	for _, c := range saver.candidates {
		if countDifferingBytes(data, c) != 1 {
			t.Fatalf("expected exactly one byte to differ, got candidate %v vs base %v", c, data)
		}
	}
}

func TestSingleWalkingByteXorsEachByte(t *testing.T) {
	m := New(Dictionaries{}, nil, 1)
	data := []byte{0x00, 0xFF, 0x10}
	saver := &recordingSaver{}
	if err := m.singleWalkingByte(data, saver); err != nil {
		t.Fatal(err)
	}
	if len(saver.candidates) != len(data) {
		t.Fatalf("expected %d candidates, got %d", len(data), len(saver.candidates))
	}
	if saver.candidates[0][0] != 0xFF {
		t.Fatalf("expected first byte flipped to 0xFF, got %#x", saver.candidates[0][0])
	}
}

func TestOverwriteWithAddressDictionarySkipsOversizedTokens(t *testing.T) {
	m := New(Dictionaries{Address: [][]byte{{0xAA, 0xBB}, make([]byte, 100)}}, nil, 1)
	data := []byte{1, 2, 3, 4}
	saver := &recordingSaver{}
	if err := m.overwriteWithAddressDictionary(data, saver); err != nil {
		t.Fatal(err)
	}
	// token {0xAA,0xBB} fits at offsets 0,1,2 (len(data)-len(token)+1 = 3);
	// the 100-byte token never fits.
	if len(saver.candidates) != 3 {
		t.Fatalf("expected 3 candidates from the fitting token only, got %d", len(saver.candidates))
	}
	if !bytes.Equal(saver.candidates[0][:2], []byte{0xAA, 0xBB}) {
		t.Fatalf("expected token stamped at offset 0, got %v", saver.candidates[0])
	}
}

func TestHavocProducesRequestedIterationCount(t *testing.T) {
	m := New(Dictionaries{Code: [][]byte{{0xDE, 0xAD}}}, nil, 42)
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	saver := &recordingSaver{}
	if err := m.havoc(data, saver, 20); err != nil {
		t.Fatal(err)
	}
	if len(saver.candidates) != 20 {
		t.Fatalf("expected 20 candidates, got %d", len(saver.candidates))
	}
}

func TestSpliceCombinesCurrentAndSampledData(t *testing.T) {
	m := New(Dictionaries{}, fixedCorpus{data: []byte{0xFF, 0xFF, 0xFF, 0xFF}, ok: true}, 7)
	out, ok := m.splice([]byte{0x01, 0x02, 0x03, 0x04})
	if !ok {
		t.Fatal("expected splice to succeed with a sampled sibling")
	}
	if len(out) == 0 {
		t.Fatal("expected non-empty spliced candidate")
	}
}

func TestSpliceFailsWithoutCorpus(t *testing.T) {
	m := New(Dictionaries{}, nil, 7)
	if _, ok := m.splice([]byte{0x01, 0x02}); ok {
		t.Fatal("expected splice to fail with no corpus sampler")
	}
}

func TestProlongateAppendsSampledTail(t *testing.T) {
	m := New(Dictionaries{}, fixedCorpus{data: []byte{0xAA, 0xBB}, ok: true}, 3)
	saver := &recordingSaver{}
	if err := m.prolongate([]byte{0x01, 0x02}, saver); err != nil {
		t.Fatal(err)
	}
	if len(saver.candidates) != 1 {
		t.Fatalf("expected exactly one prolongate candidate, got %d", len(saver.candidates))
	}
	want := []byte{0x01, 0x02, 0xAA, 0xBB}
	if !bytes.Equal(saver.candidates[0], want) {
		t.Fatalf("expected %v, got %v", want, saver.candidates[0])
	}
}

func TestPreFuzzStagesOrderNeverFuzzed(t *testing.T) {
	m := New(Dictionaries{}, nil, 1)
	item := fuzzitem.New([]byte{1, 2, 3, 4})
	stages := m.PreFuzzStages(item, false)
	want := []string{
		"single_walking_bit", "single_walking_byte", "two_walking_bit",
		"four_walking_bit", "two_walking_byte", "four_walking_byte",
		"overwrite_with_address_dictionary", "havoc",
	}
	assertStageNames(t, stages, want)
}

func TestPreFuzzStagesOrderAlreadyFuzzed(t *testing.T) {
	m := New(Dictionaries{}, nil, 1)
	item := fuzzitem.New([]byte{1, 2, 3, 4})
	stages := m.PreFuzzStages(item, true)
	want := []string{"single_walking_byte", "havoc", "splice_havoc", "prolongate"}
	assertStageNames(t, stages, want)
}

func TestVulnFuzzStagesOrderNeverFuzzed(t *testing.T) {
	m := New(Dictionaries{}, nil, 1)
	item := fuzzitem.New([]byte{1, 2, 3, 4})
	stages := m.VulnFuzzStages(item, false)
	want := []string{
		"single_walking_byte", "two_walking_byte", "four_walking_byte",
		"single_interest", "two_interest", "four_interest",
		"single_arith", "two_arith", "four_arith",
		"overwrite_with_address_dictionary", "havoc",
	}
	assertStageNames(t, stages, want)
}

func TestVulnFuzzStagesOrderAlreadyFuzzed(t *testing.T) {
	m := New(Dictionaries{}, nil, 1)
	item := fuzzitem.New([]byte{1, 2, 3, 4})
	stages := m.VulnFuzzStages(item, true)
	want := []string{"single_walking_byte", "havoc", "prolongate"}
	assertStageNames(t, stages, want)
}

func assertStageNames(t *testing.T, stages []Stage, want []string) {
	t.Helper()
	if len(stages) != len(want) {
		t.Fatalf("expected %d stages, got %d", len(want), len(stages))
	}
	for i, name := range want {
		if stages[i].Name != name {
			t.Fatalf("stage %d: expected %q, got %q", i, name, stages[i].Name)
		}
	}
}
