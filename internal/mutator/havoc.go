package mutator

// defaultHavocIterations bounds the stacked-mutation stage; the spec names
// the stage but leaves its iteration count to the implementation.
const defaultHavocIterations = 64

// maxStackedOps is the upper bound on how many havoc operators are chained
// onto one candidate before it is saved, mirroring AFL's "havoc stack".
const maxStackedOps = 8

type havocOp func(*Mutator, []byte) []byte

var havocOps = []havocOp{
	havocFlipBit,
	havocSetRandomByte,
	havocAddSubByte,
	havocOverwriteWithDictToken,
	havocDeleteBytes,
	havocInsertRandomBytes,
	havocDuplicateChunk,
}

// havoc applies a random-length stack of random operators to data,
// iterations times, saving each resulting candidate (spec §4.2's "havoc"
// stage — the classic AFL catch-all for combinations no deterministic
// stage would try).
func (m *Mutator) havoc(data []byte, save Saver, iterations int) error {
	for n := 0; n < iterations; n++ {
		candidate := make([]byte, len(data))
		copy(candidate, data)

		stackLen := 1 + m.rng.Intn(maxStackedOps)
		for s := 0; s < stackLen && len(candidate) > 0; s++ {
			op := havocOps[m.rng.Intn(len(havocOps))]
			candidate = op(m, candidate)
		}

		if _, err := save.Save(candidate); err != nil {
			return err
		}
	}
	return nil
}

func havocFlipBit(m *Mutator, data []byte) []byte {
	if len(data) == 0 {
		return data
	}
	bit := m.rng.Intn(len(data) * 8)
	data[bit/8] ^= 1 << uint(bit%8)
	return data
}

func havocSetRandomByte(m *Mutator, data []byte) []byte {
	if len(data) == 0 {
		return data
	}
	data[m.rng.Intn(len(data))] = byte(m.rng.Intn(256))
	return data
}

func havocAddSubByte(m *Mutator, data []byte) []byte {
	if len(data) == 0 {
		return data
	}
	delta := byte(1 + m.rng.Intn(arithMax))
	i := m.rng.Intn(len(data))
	if m.rng.Intn(2) == 0 {
		data[i] += delta
	} else {
		data[i] -= delta
	}
	return data
}

func havocOverwriteWithDictToken(m *Mutator, data []byte) []byte {
	tokens := append(append([][]byte{}, m.dicts.Code...), m.dicts.Address...)
	if len(tokens) == 0 || len(data) == 0 {
		return data
	}
	token := tokens[m.rng.Intn(len(tokens))]
	if len(token) == 0 || len(token) > len(data) {
		return data
	}
	offset := m.rng.Intn(len(data) - len(token) + 1)
	copy(data[offset:], token)
	return data
}

func havocDeleteBytes(m *Mutator, data []byte) []byte {
	if len(data) < 2 {
		return data
	}
	deleteLen := 1 + m.rng.Intn(len(data)-1)
	offset := m.rng.Intn(len(data) - deleteLen + 1)
	out := make([]byte, 0, len(data)-deleteLen)
	out = append(out, data[:offset]...)
	out = append(out, data[offset+deleteLen:]...)
	return out
}

func havocInsertRandomBytes(m *Mutator, data []byte) []byte {
	insertLen := 1 + m.rng.Intn(16)
	chunk := make([]byte, insertLen)
	m.rng.Read(chunk)
	offset := m.rng.Intn(len(data) + 1)
	out := make([]byte, 0, len(data)+insertLen)
	out = append(out, data[:offset]...)
	out = append(out, chunk...)
	out = append(out, data[offset:]...)
	return out
}

func havocDuplicateChunk(m *Mutator, data []byte) []byte {
	if len(data) == 0 {
		return data
	}
	chunkLen := 1 + m.rng.Intn(len(data))
	if chunkLen > len(data) {
		chunkLen = len(data)
	}
	start := m.rng.Intn(len(data) - chunkLen + 1)
	chunk := data[start : start+chunkLen]
	insertAt := m.rng.Intn(len(data) + 1)
	out := make([]byte, 0, len(data)+chunkLen)
	out = append(out, data[:insertAt]...)
	out = append(out, chunk...)
	out = append(out, data[insertAt:]...)
	return out
}

// spliceThenHavoc implements splice(corpus) → havoc (spec §4.2): combine
// the current item with a randomly sampled sibling at a random crossover
// point, then run the havoc stage on the result.
func (m *Mutator) spliceThenHavoc(data []byte, save Saver) error {
	spliced, ok := m.splice(data)
	if !ok {
		return nil
	}
	return m.havoc(spliced, save, defaultHavocIterations)
}

// splice returns data crossed over with a sampled corpus entry at a
// random point in the overlapping region, or ok=false if no sibling (or
// no overlapping region) is available.
func (m *Mutator) splice(data []byte) ([]byte, bool) {
	if m.corpus == nil {
		return nil, false
	}
	sibling, ok := m.corpus.Sample()
	if !ok {
		return nil, false
	}
	minLen := len(data)
	if len(sibling) < minLen {
		minLen = len(sibling)
	}
	if minLen < 2 {
		return nil, false
	}
	point := 1 + m.rng.Intn(minLen-1)
	out := make([]byte, 0, point+len(sibling)-point)
	out = append(out, data[:point]...)
	out = append(out, sibling[point:]...)
	return out, true
}

// prolongate(corpus, abi) extends the current item by appending a
// sampled sibling's whole data, simulating calldata growth across leaders (spec
// §4.2). ABI re-encoding of the grown candidate is the executor's
// PostprocessTestdata step, not the mutator's concern.
func (m *Mutator) prolongate(data []byte, save Saver) error {
	if m.corpus == nil {
		return nil
	}
	sibling, ok := m.corpus.Sample()
	if !ok || len(sibling) == 0 {
		return nil
	}
	candidate := make([]byte, 0, len(data)+len(sibling))
	candidate = append(candidate, data...)
	candidate = append(candidate, sibling...)
	_, err := save.Save(candidate)
	return err
}
