// Package reporter persists the JSON/bytecode artifacts of spec §6's file
// table beyond the shared branch_msg/* documents (those live in
// internal/leaders/persist.go, which already owns their partial-update
// semantics).
package reporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/zjy-dev/evmfuzz/internal/branch"
	"github.com/zjy-dev/evmfuzz/internal/logger"
	"github.com/zjy-dev/evmfuzz/internal/session"
	"github.com/zjy-dev/evmfuzz/internal/triage"
)

// Writer produces the per-contract artifacts under one base directory.
type Writer struct {
	baseDir      string
	contract     string
	triageClient triage.Client
}

// NewWriter returns a Writer rooted at baseDir for contract.
func NewWriter(baseDir, contract string) *Writer {
	return &Writer{baseDir: baseDir, contract: contract}
}

// SetTriageClient attaches an optional LLM narrator used to fill each
// report row's notes field. A nil client (the default) leaves notes empty.
func (w *Writer) SetTriageClient(client triage.Client) {
	w.triageClient = client
}

// WriteRuntimeBytecode persists <contract>.bin-runtime (spec §6), the
// hex-encoded runtime bytecode handed to the fuzzer by its build pipeline
// collaborator — kept alongside the fuzzer's own artifacts so a report
// bundle is self-contained. File-system errors here are logged at debug
// and swallowed (spec §7d): a report bundle missing this file is still
// useful, and the fuzz loop must never abort because a write failed.
func (w *Writer) WriteRuntimeBytecode(hexRuntime string) {
	path := filepath.Join(w.baseDir, w.contract+".bin-runtime")
	if err := os.WriteFile(path, []byte(hexRuntime), 0o644); err != nil {
		logger.Debug("reporter: failed to write runtime bytecode %s: %v", path, err)
	}
}

// oracleEntry is one row of the vuln-mode final report (spec §6):
// "{number, instruction distinction: space-separated hex pcs, test cases: [...]}".
type oracleEntry struct {
	Number                 int      `json:"number"`
	InstructionDistinction string   `json:"instruction_distinction"`
	TestCases              []string `json:"test_cases"`
	Notes                  string   `json:"notes,omitempty"`
}

type vulnReport struct {
	Total   int                    `json:"total"`
	Oracles map[string]oracleEntry `json:"oracles"`
}

// WriteVulnReport persists <contract>_report.json, the vuln-mode final
// report over every oracle kind with at least one hit.
func (w *Writer) WriteVulnReport(sess *session.State) {
	report := vulnReport{Oracles: make(map[string]oracleEntry)}
	for kind := branch.OracleKind(0); kind < branch.Total; kind++ {
		count := int(sess.Vulnerabilities[kind])
		if count == 0 {
			continue
		}
		testCases := sess.OracleDetails[kind].TestCases
		var notes string
		if w.triageClient != nil && len(testCases) > 0 {
			notes = triage.Enrich(w.triageClient, kind.String(), testCases[0])
		}

		report.Total += count
		report.Oracles[kind.String()] = oracleEntry{
			Number:                 count,
			InstructionDistinction: formatPCs(sess.OracleDetails[kind].PCs),
			TestCases:              testCases,
			Notes:                  notes,
		}
	}

	path := filepath.Join(w.baseDir, w.contract+"_report.json")
	encoded, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		logger.Debug("reporter: failed to encode vuln report: %v", err)
		return
	}
	if err := os.MkdirAll(w.baseDir, 0o755); err != nil {
		logger.Debug("reporter: failed to create report directory %s: %v", w.baseDir, err)
		return
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		logger.Debug("reporter: failed to write vuln report %s: %v", path, err)
	}
}

func formatPCs(pcs map[uint64]struct{}) string {
	sorted := make([]uint64, 0, len(pcs))
	for pc := range pcs {
		sorted = append(sorted, pc)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	out := ""
	for i, pc := range sorted {
		if i > 0 {
			out += " "
		}
		out += fmt.Sprintf("0x%x", pc)
	}
	return out
}
