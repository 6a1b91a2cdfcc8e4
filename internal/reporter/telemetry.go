package reporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/zjy-dev/evmfuzz/internal/logger"
)

// ContractInfo is the one-shot metadata written before telemetry export
// begins (spec §6: exec_queue/<contract-path>/contract_info.json).
type ContractInfo struct {
	Contract     string `json:"contract"`
	RunID        string `json:"run_id"`
	AttackerName string `json:"attacker_name,omitempty"`
	IsPreFuzz    bool   `json:"is_prefuzz"`
}

// Telemetry is one execution's exported record (spec §6:
// exec_queue/<contract-path>/exec_<n>.json).
type Telemetry struct {
	Index       uint64 `json:"index"`
	Testcase    string `json:"testcase"`
	BranchesHit int    `json:"branches_hit"`
}

// TelemetryWriter owns the monotonic exec_<n> counter and the
// contract-path directory exec_queue writes into (spec §6). The counter
// uses go.uber.org/atomic since the fuzz loop may export telemetry from a
// goroutine separate from the synchronous fuzz loop itself (e.g. a
// best-effort async writer), matching the teacher's own preference for
// go.uber.org/atomic counters over a raw sync/atomic uint64.
type TelemetryWriter struct {
	dir     string
	counter atomic.Uint64
	runID   string
}

// NewTelemetryWriter returns a writer for one contract path, generating a
// fresh run id that is recorded in contract_info.json. The exec_<n>.json
// paths do not include the run id, so two runs sharing a base directory and
// contract path write to the same files.
func NewTelemetryWriter(baseDir, contractPath string) *TelemetryWriter {
	return &TelemetryWriter{
		dir:   filepath.Join(baseDir, "exec_queue", contractPath),
		runID: uuid.NewString(),
	}
}

// WriteContractInfo writes the one-shot contract_info.json.
func (t *TelemetryWriter) WriteContractInfo(contract, attackerName string, isPreFuzz bool) {
	info := ContractInfo{
		Contract:     contract,
		RunID:        t.runID,
		AttackerName: attackerName,
		IsPreFuzz:    isPreFuzz,
	}
	t.writeJSON("contract_info.json", info)
}

// WriteExecution allocates the next monotonic index and writes exec_<n>.json
// for one execution's telemetry. A testcase that fails to parse as JSON is
// replaced with a diagnostic string rather than aborting the write (spec
// §7b: parse failures are caught, the offending field becomes a
// diagnostic, and fuzzing continues).
func (t *TelemetryWriter) WriteExecution(testcase string, branchesHit int) {
	n := t.counter.Inc()
	rec := Telemetry{
		Index:       n,
		Testcase:    sanitizeTestcase(testcase),
		BranchesHit: branchesHit,
	}
	t.writeJSON(fmt.Sprintf("exec_%d.json", n), rec)
}

func sanitizeTestcase(raw string) string {
	if raw == "" {
		return raw
	}
	var v interface{}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return fmt.Sprintf("<parse error: %v>", err)
	}
	return raw
}

func (t *TelemetryWriter) writeJSON(name string, v interface{}) {
	if err := os.MkdirAll(t.dir, 0o755); err != nil {
		logger.Debug("reporter: failed to create telemetry directory %s: %v", t.dir, err)
		return
	}
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		logger.Debug("reporter: failed to encode %s: %v", name, err)
		return
	}
	path := filepath.Join(t.dir, name)
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		logger.Debug("reporter: failed to write %s: %v", path, err)
	}
}
