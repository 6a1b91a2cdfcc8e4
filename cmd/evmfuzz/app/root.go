package app

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command for the evmfuzz tool.
func NewRootCommand() *cobra.Command {
	var configName string
	var baseDir string
	var backend string

	cmd := &cobra.Command{
		Use:   "evmfuzz",
		Short: "A coverage-guided greybox fuzzer for EVM smart contracts.",
		Long: `evmfuzz drives the fuzzing core's two operating modes over a target
contract: pre-fuzz maximizes branch coverage, vuln-fuzz spends a fixed
energy budget hunting for oracle hits.

The EVM interpreter, bytecode disassembly, and ABI encoding are supplied by
a backend registered into internal/target — link one in with a blank
import in a build of this command, then select it with --backend.`,
	}

	cmd.PersistentFlags().StringVar(&configName, "config", "config", "config file name (without extension), searched under configs/")
	cmd.PersistentFlags().StringVar(&baseDir, "base-dir", ".", "directory holding branch_msg/*.json and report output")
	cmd.PersistentFlags().StringVar(&backend, "backend", "", "registered internal/target backend to use (required; the error for a missing value lists the linked-in backends)")

	shared := &sharedFlags{configName: &configName, baseDir: &baseDir, backend: &backend}

	cmd.AddCommand(newPreFuzzCommand(shared))
	cmd.AddCommand(newVulnFuzzCommand(shared))

	return cmd
}

// sharedFlags carries the persistent root flags down into each subcommand's
// RunE without relying on package-level state.
type sharedFlags struct {
	configName *string
	baseDir    *string
	backend    *string
}
