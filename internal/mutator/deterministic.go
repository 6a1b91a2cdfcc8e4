package mutator

import "encoding/binary"

// arithMax is AFL's classic bound on the arithmetic stage's add/subtract
// sweep (spec names the stage but not the bound; 35 is the conventional
// value the published algorithm this taxonomy is named after uses).
const arithMax = 35

// interesting8/16/32 are the classic AFL boundary-value sets used by the
// single/two/four_interest stages: values likely to flip a comparison's
// outcome (sign-extension edges, zero, signed/unsigned boundaries).
var interesting8 = []int8{-128, -1, 0, 1, 16, 32, 64, 100, 127}

var interesting16 = []int16{-32768, -129, 128, 255, 256, 512, 1000, 1024, 4096, 32767}

var interesting32 = []int32{-2147483648, -100663046, -32769, 32768, 65535, 65536, 100663045, 2147483647}

func (m *Mutator) singleInterest(data []byte, save Saver) error {
	for i := range data {
		for _, v := range interesting8 {
			candidate := cloneWith(data, i, []byte{byte(v)})
			if _, err := save.Save(candidate); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *Mutator) twoInterest(data []byte, save Saver) error {
	for i := 0; i+2 <= len(data); i++ {
		for _, v := range interesting16 {
			for _, be := range []bool{false, true} {
				patch := make([]byte, 2)
				if be {
					binary.BigEndian.PutUint16(patch, uint16(v))
				} else {
					binary.LittleEndian.PutUint16(patch, uint16(v))
				}
				if _, err := save.Save(cloneWith(data, i, patch)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (m *Mutator) fourInterest(data []byte, save Saver) error {
	for i := 0; i+4 <= len(data); i++ {
		for _, v := range interesting32 {
			for _, be := range []bool{false, true} {
				patch := make([]byte, 4)
				if be {
					binary.BigEndian.PutUint32(patch, uint32(v))
				} else {
					binary.LittleEndian.PutUint32(patch, uint32(v))
				}
				if _, err := save.Save(cloneWith(data, i, patch)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (m *Mutator) singleArith(data []byte, save Saver) error {
	for i := range data {
		for delta := 1; delta <= arithMax; delta++ {
			for _, v := range [2]byte{data[i] + byte(delta), data[i] - byte(delta)} {
				if _, err := save.Save(cloneWith(data, i, []byte{v})); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (m *Mutator) twoArith(data []byte, save Saver) error {
	for i := 0; i+2 <= len(data); i++ {
		orig := binary.LittleEndian.Uint16(data[i : i+2])
		origBE := binary.BigEndian.Uint16(data[i : i+2])
		for delta := 1; delta <= arithMax; delta++ {
			for _, v := range [4]uint16{orig + uint16(delta), orig - uint16(delta), origBE + uint16(delta), origBE - uint16(delta)} {
				patch := make([]byte, 2)
				binary.LittleEndian.PutUint16(patch, v)
				if _, err := save.Save(cloneWith(data, i, patch)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (m *Mutator) fourArith(data []byte, save Saver) error {
	for i := 0; i+4 <= len(data); i++ {
		orig := binary.LittleEndian.Uint32(data[i : i+4])
		origBE := binary.BigEndian.Uint32(data[i : i+4])
		for delta := 1; delta <= arithMax; delta++ {
			for _, v := range [4]uint32{orig + uint32(delta), orig - uint32(delta), origBE + uint32(delta), origBE - uint32(delta)} {
				patch := make([]byte, 4)
				binary.LittleEndian.PutUint32(patch, v)
				if _, err := save.Save(cloneWith(data, i, patch)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
