package leaders

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"github.com/zjy-dev/evmfuzz/internal/branch"
)

// These three paths are stable, spec-mandated (spec §6) and shared across
// every contract fuzzed in a session: each is a single JSON document keyed
// by contract short-name, so writing one contract's entry must not disturb
// any other contract's entry already on disk.
const (
	PrefixFile  = "branch_msg/prefix.json"
	LeadersFile = "branch_msg/leaders.json"
	WeightFile  = "branch_msg/weight.json"
)

// PrefixRecord is one contract's worth of accumulated prefix maps plus the
// bookkeeping persisted alongside it (spec §6 prefix.json schema).
type PrefixRecord struct {
	Prefix   map[branch.ID][]int32 `json:"Prefix"`
	Code     string                `json:"Code"`
	Coverage int                   `json:"Coverage"`
}

// WeightRecord is one contract's energy snapshot (spec §6 weight.json schema).
type WeightRecord struct {
	Weight   map[branch.ID]int32 `json:"Weight"`
	Coverage int                 `json:"Coverage"`
}

// CoverageBasisPoints renders covered/total as spec §9's persisted
// integer: "basis points × 100", i.e. int((tracebits/branch_size) * 10000).
func CoverageBasisPoints(covered, total int) int {
	if total == 0 {
		return 0
	}
	return int(float64(covered) / float64(total) * 10000)
}

// readBaseDocument loads path's raw bytes, treating a missing file as an
// empty JSON object — the common case the first time any contract writes
// to one of these shared files.
func readBaseDocument(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return []byte("{}"), nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func writeDocument(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// sjsonPath escapes a contract short-name for use as an sjson/gjson path
// segment: branch identifiers and contract names may contain characters
// (':', '.') that are otherwise path metacharacters.
func sjsonPath(segments ...string) string {
	out := ""
	for i, s := range segments {
		if i > 0 {
			out += "."
		}
		out += gjson.Escape(s)
	}
	return out
}

// SavePrefix merges contract's PrefixRecord into branch_msg/prefix.json,
// touching only that contract's key (tidwall/sjson does targeted updates
// without re-marshaling the whole document, preserving any sibling
// contract entries already written by an earlier run).
func SavePrefix(baseDir, contract string, rec PrefixRecord) error {
	path := filepath.Join(baseDir, PrefixFile)
	base, err := readBaseDocument(path)
	if err != nil {
		return fmt.Errorf("leaders: read %s: %w", path, err)
	}
	recBytes, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("leaders: marshal prefix record: %w", err)
	}
	updated, err := sjson.SetRawBytes(base, sjsonPath(contract), recBytes)
	if err != nil {
		return fmt.Errorf("leaders: set prefix record: %w", err)
	}
	return writeDocument(path, updated)
}

// SaveLeaders merges contract's covered-branch → hex-input map into
// branch_msg/leaders.json. Only branches with comparison_value == 0 are
// persisted, per spec §6.
func SaveLeaders(baseDir, contract string, store *Store) error {
	covered := make(map[branch.ID]string)
	for _, b := range store.All() {
		l, ok := store.Get(b)
		if !ok || !l.Covered() || l.Item == nil {
			continue
		}
		covered[b] = hex.EncodeToString(l.Item.Data)
	}

	path := filepath.Join(baseDir, LeadersFile)
	base, err := readBaseDocument(path)
	if err != nil {
		return fmt.Errorf("leaders: read %s: %w", path, err)
	}
	covBytes, err := json.Marshal(covered)
	if err != nil {
		return fmt.Errorf("leaders: marshal covered map: %w", err)
	}
	updated, err := sjson.SetRawBytes(base, sjsonPath(contract), covBytes)
	if err != nil {
		return fmt.Errorf("leaders: set leaders record: %w", err)
	}
	return writeDocument(path, updated)
}

// LoadLeaders reads back the hex-encoded covered-branch inputs for a single
// contract from branch_msg/leaders.json, used to seed a fresh vuln-mode run
// (spec §8 R2).
func LoadLeaders(baseDir, contract string) (map[branch.ID][]byte, error) {
	path := filepath.Join(baseDir, LeadersFile)
	data, err := readBaseDocument(path)
	if err != nil {
		return nil, fmt.Errorf("leaders: read %s: %w", path, err)
	}
	result := gjson.GetBytes(data, sjsonPath(contract))
	if !result.Exists() {
		return map[branch.ID][]byte{}, nil
	}
	out := make(map[branch.ID][]byte)
	var parseErr error
	result.ForEach(func(key, val gjson.Result) bool {
		decoded, err := hex.DecodeString(val.String())
		if err != nil {
			parseErr = fmt.Errorf("leaders: decode hex input for %s: %w", key.String(), err)
			return false
		}
		out[branch.ID(key.String())] = decoded
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return out, nil
}

// SaveWeight merges contract's WeightRecord into branch_msg/weight.json.
func SaveWeight(baseDir, contract string, energies *Energies, coverage int) error {
	rec := WeightRecord{Weight: make(map[branch.ID]int32), Coverage: coverage}
	for _, b := range energies.Order() {
		rec.Weight[b] = energies.Weight(b)
	}

	path := filepath.Join(baseDir, WeightFile)
	base, err := readBaseDocument(path)
	if err != nil {
		return fmt.Errorf("leaders: read %s: %w", path, err)
	}
	recBytes, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("leaders: marshal weight record: %w", err)
	}
	updated, err := sjson.SetRawBytes(base, sjsonPath(contract), recBytes)
	if err != nil {
		return fmt.Errorf("leaders: set weight record: %w", err)
	}
	return writeDocument(path, updated)
}

// LoadWeight reads contract's persisted energy vector from
// branch_msg/weight.json. A missing file is the hard-exit environmental
// error described in spec §7a and is surfaced to the caller rather than
// silently defaulted.
func LoadWeight(baseDir, contract string) (*Energies, int, error) {
	path := filepath.Join(baseDir, WeightFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("leaders: weight.json missing or unreadable: %w", err)
	}
	result := gjson.GetBytes(data, sjsonPath(contract))
	if !result.Exists() {
		return nil, 0, fmt.Errorf("leaders: no weight entry for contract %q", contract)
	}
	var rec WeightRecord
	if err := json.Unmarshal([]byte(result.Raw), &rec); err != nil {
		return nil, 0, fmt.Errorf("leaders: parse weight entry for %q: %w", contract, err)
	}

	energies := NewEnergies()
	ids := make([]branch.ID, 0, len(rec.Weight))
	for b := range rec.Weight {
		ids = append(ids, b)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, b := range ids {
		energies.Set(b, rec.Weight[b])
	}
	return energies, rec.Coverage, nil
}
