// Package target is the registry seam spec §1 leaves open: "bytecode
// disassembly, ABI encoding, and the EVM interpreter itself are out of
// scope — the core consumes them through InfoProvider, ABIProvider, and
// evmexec.Raw." Nothing in this module can construct a live EVM, so this
// package does what the teacher's internal/oracle/registry.go does for
// pluggable oracles: a name-keyed factory registry that a concrete backend
// (an in-process geth-vm call, an RPC client, anything implementing the
// three interfaces) registers itself into via a blank import, the same way
// database/sql drivers register with sql.Register.
package target

import (
	"fmt"

	"github.com/zjy-dev/evmfuzz/internal/branch"
	"github.com/zjy-dev/evmfuzz/internal/evmexec"
)

// Target bundles the three collaborators a concrete EVM backend supplies.
type Target struct {
	Info     branch.InfoProvider
	ABI      branch.ABIProvider
	Raw      evmexec.Raw
	Runtime  string // hex runtime bytecode, for reporter.Writer.WriteRuntimeBytecode
}

// Factory builds a Target for one contract, given its path/identifier as
// passed on the command line.
type Factory func(contractPath string) (Target, error)

var registry = make(map[string]Factory)

// Register adds a backend factory under name. Intended to be called from
// an init() in the backend's own package, imported for side effect only
// (blank import) by a cmd/evmfuzz build that wants that backend linked in.
func Register(name string, factory Factory) {
	registry[name] = factory
}

// Open builds a Target using the backend registered under name.
func Open(name, contractPath string) (Target, error) {
	factory, ok := registry[name]
	if !ok {
		return Target{}, fmt.Errorf("target: no backend registered under %q (forgot a blank import?)", name)
	}
	return factory(contractPath)
}

// Names lists every backend currently registered, for error messages.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
