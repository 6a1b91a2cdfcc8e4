package fuzzitem

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Store persists FuzzItem bytes and their Metadata sidecars to a directory,
// adapted from the teacher's seed storage functions: where the teacher
// splits a single ".seed" file into a source section and a JSON testcases
// section with a text separator, a FuzzItem has no source text to carry, so
// the raw Data is written as-is and the Metadata lives in a companion
// ".meta.json" file instead of being inlined.
type Store struct {
	dir   string
	namer NamingStrategy
}

// NewStore returns a Store rooted at dir, creating it if necessary.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("fuzzitem: create store dir: %w", err)
	}
	return &Store{dir: dir, namer: DefaultNamingStrategy{}}, nil
}

func (s *Store) metaPath(itemPath string) string {
	return itemPath + ".meta.json"
}

// Save writes item's bytes and metadata, filling in FilePath/FileSize/ContentHash
// on m as a side effect, mirroring SaveSeedWithMetadata.
func (s *Store) Save(item *FuzzItem, m *Metadata) error {
	m.ContentHash = GenerateContentHash(item.Data)
	m.FuzzedCount = item.FuzzedCount
	m.Depth = item.Depth
	m.HitRank = item.HitRank

	filename := s.namer.GenerateFilename(m)
	fullPath := filepath.Join(s.dir, filename)

	if err := os.WriteFile(fullPath, item.Data, 0o644); err != nil {
		return fmt.Errorf("fuzzitem: write item data: %w", err)
	}
	m.FilePath = fullPath
	m.FileSize = int64(len(item.Data))

	metaBytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("fuzzitem: marshal metadata: %w", err)
	}
	if err := os.WriteFile(s.metaPath(fullPath), metaBytes, 0o644); err != nil {
		return fmt.Errorf("fuzzitem: write metadata: %w", err)
	}
	return nil
}

// Load reads an item and its sidecar metadata back from fullPath.
func (s *Store) Load(fullPath string) (*FuzzItem, *Metadata, error) {
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, nil, fmt.Errorf("fuzzitem: read item data: %w", err)
	}
	metaBytes, err := os.ReadFile(s.metaPath(fullPath))
	if err != nil {
		return nil, nil, fmt.Errorf("fuzzitem: read metadata: %w", err)
	}
	var m Metadata
	if err := json.Unmarshal(metaBytes, &m); err != nil {
		return nil, nil, fmt.Errorf("fuzzitem: unmarshal metadata: %w", err)
	}
	item := &FuzzItem{
		Data:        data,
		Depth:       m.Depth,
		FuzzedCount: m.FuzzedCount,
		HitRank:     m.HitRank,
	}
	return item, &m, nil
}

// LoadAll scans the store directory for item files and returns them
// ordered by ID, mirroring LoadSeedsWithMetadata's recovery-at-startup role.
func (s *Store) LoadAll() ([]*FuzzItem, []*Metadata, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, nil, fmt.Errorf("fuzzitem: read store dir: %w", err)
	}

	type pair struct {
		item *FuzzItem
		meta *Metadata
	}
	var pairs []pair
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if _, _, _, _, ok := s.namer.ParseFilename(name); !ok {
			continue
		}
		item, m, err := s.Load(filepath.Join(s.dir, name))
		if err != nil {
			continue
		}
		pairs = append(pairs, pair{item, m})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].meta.ID < pairs[j].meta.ID })

	items := make([]*FuzzItem, len(pairs))
	metas := make([]*Metadata, len(pairs))
	for i, p := range pairs {
		items[i] = p.item
		metas[i] = p.meta
	}
	return items, metas, nil
}
