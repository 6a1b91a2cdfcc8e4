// Package branch defines the identifiers and trace data exchanged between
// the executor adapter and the interest filter.
package branch

import (
	"fmt"
	"strconv"
	"strings"
)

// ID names one side of a conditional jump: "<pc>:<side>" where side is 0 or 1.
// Comparisons between identifiers are string-equal, per the wire format
// persisted in branch_msg/*.json.
type ID string

// Side enumerates the two outcomes of a JUMPI.
type Side uint8

const (
	SideFalse Side = 0
	SideTrue  Side = 1
)

// Make builds the canonical identifier for one side of the jump at pc.
func Make(pc uint64, side Side) ID {
	return ID(fmt.Sprintf("%d:%d", pc, side))
}

// Other returns the identifier for the opposite side of the same jump.
func (b ID) Other() ID {
	pc, side, ok := b.Split()
	if !ok {
		return b
	}
	if side == SideFalse {
		return Make(pc, SideTrue)
	}
	return Make(pc, SideFalse)
}

// Split decomposes the identifier into its program counter and side.
// ok is false for the synthetic degenerate branch ":" or any malformed id.
func (b ID) Split() (pc uint64, side Side, ok bool) {
	s := string(b)
	idx := strings.IndexByte(s, ':')
	if idx < 0 {
		return 0, 0, false
	}
	pcPart, sidePart := s[:idx], s[idx+1:]
	if pcPart == "" || sidePart == "" {
		return 0, 0, false
	}
	pcVal, err := strconv.ParseUint(pcPart, 10, 64)
	if err != nil {
		return 0, 0, false
	}
	sideVal, err := strconv.ParseUint(sidePart, 10, 8)
	if err != nil {
		return 0, 0, false
	}
	return pcVal, Side(sideVal), true
}

// Degenerate is the synthetic branch id seeded when a contract has no
// discoverable runtime branches (spec §4.1, B4).
const Degenerate ID = ":"
