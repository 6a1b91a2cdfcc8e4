package mutator

import "testing"

func TestSingleInterestCoversEveryOffsetAndValue(t *testing.T) {
	m := New(Dictionaries{}, nil, 1)
	data := []byte{0, 0, 0}
	saver := &recordingSaver{}
	if err := m.singleInterest(data, saver); err != nil {
		t.Fatal(err)
	}
	want := len(data) * len(interesting8)
	if len(saver.candidates) != want {
		t.Fatalf("expected %d candidates, got %d", want, len(saver.candidates))
	}
}

func TestTwoArithAddsAndSubtractsAtEveryOffset(t *testing.T) {
	m := New(Dictionaries{}, nil, 1)
	data := []byte{0x10, 0x20, 0x30, 0x40}
	saver := &recordingSaver{}
	if err := m.twoArith(data, saver); err != nil {
		t.Fatal(err)
	}
	offsets := len(data) - 1
	want := offsets * arithMax * 4
	if len(saver.candidates) != want {
		t.Fatalf("expected %d candidates, got %d", want, len(saver.candidates))
	}
}

func TestFourArithProducesExpectedCount(t *testing.T) {
	m := New(Dictionaries{}, nil, 1)
	data := make([]byte, 6)
	saver := &recordingSaver{}
	if err := m.fourArith(data, saver); err != nil {
		t.Fatal(err)
	}
	offsets := len(data) - 3
	want := offsets * arithMax * 4
	if len(saver.candidates) != want {
		t.Fatalf("expected %d candidates, got %d", want, len(saver.candidates))
	}
}
