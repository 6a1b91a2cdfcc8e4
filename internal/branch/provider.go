package branch

// InfoProvider is the branch-info collaborator (spec §6): bytecode
// disassembly and jumpi discovery live outside the fuzzing core and are
// consumed through this interface.
type InfoProvider interface {
	// FindValidJumpis returns the two pc-sets for the true/false sides of
	// every conditional jump discovered in the contract's runtime bytecode.
	FindValidJumpis() (side0, side1 map[uint64]struct{})

	FindValidTimestamps() map[uint64]struct{}
	FindValidBlockNums() map[uint64]struct{}
	FindValidDelegateCalls() map[uint64]struct{}
	FindValidUncheckedCalls() map[uint64]struct{}
	FindValidTxOrigin() map[uint64]struct{}
	FindValidAssert() map[uint64]struct{}
	FindValidSuicide() map[uint64]struct{}

	// Snippets maps a pc to the human-readable source snippet at that
	// location, used by the pre-fuzz reachability report.
	Snippets() map[uint64]string
}

// Regions builds the fixed-arity ValidRegions tuple from a provider,
// populating only Side0/Side1 for pre-fuzz mode and all nine sets (the two
// jumpi sides plus seven oracle families) for vuln-fuzz mode.
func Regions(p InfoProvider, mode Mode) ValidRegions {
	side0, side1 := p.FindValidJumpis()
	regions := ValidRegions{Side0: side0, Side1: side1}
	if mode == ModePre {
		return regions
	}
	regions.Timestamps = p.FindValidTimestamps()
	regions.BlockNums = p.FindValidBlockNums()
	regions.DelegateCalls = p.FindValidDelegateCalls()
	regions.UncheckedCalls = p.FindValidUncheckedCalls()
	regions.TxOrigin = p.FindValidTxOrigin()
	regions.Assert = p.FindValidAssert()
	regions.Suicide = p.FindValidSuicide()
	return regions
}

// ABIProvider is the ABI encode/decode collaborator (spec §6): ABI
// post-processing and canonical-testcase generation live outside the core.
type ABIProvider interface {
	// RandomTestcase returns a canonical random testcase as encoded bytes.
	RandomTestcase() []byte

	// PostprocessTestdata normalises sizes and encodings. Must be
	// idempotent: PostprocessTestdata(PostprocessTestdata(x)) == PostprocessTestdata(x).
	PostprocessTestdata(data []byte) []byte
}
