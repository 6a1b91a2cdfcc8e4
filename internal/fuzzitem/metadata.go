package fuzzitem

import "time"

// State tracks where an item sits in the leaders/queue lifecycle, mirroring
// a seed's processing state in the teacher's corpus manager.
type State string

const (
	StatePending   State = "pending"
	StateProcessed State = "processed"
	StateCrash     State = "crash"
)

// Metadata is the on-disk sidecar persisted alongside the raw item bytes,
// adapted from the teacher's seed Metadata for the fuzzing-core domain:
// coverage deltas are replaced by the branch hit that produced the item.
type Metadata struct {
	ID          uint64    `json:"id"`
	FilePath    string    `json:"file_path"`
	FileSize    int64     `json:"file_size"`
	CreatedAt   time.Time `json:"created_at"`
	ParentID    uint64    `json:"parent_id"`
	Depth       int       `json:"depth"`
	FuzzedCount int       `json:"fuzzed_count"`
	HitRank     HitRank   `json:"hit_rank"`
	HitBranch   string    `json:"hit_branch"`
	State       State     `json:"state"`
	ContentHash string    `json:"content_hash"`
}

// NewMetadata builds a pending metadata record for a freshly allocated item.
func NewMetadata(id, parentID uint64, depth int) *Metadata {
	return &Metadata{
		ID:        id,
		ParentID:  parentID,
		Depth:     depth,
		State:     StatePending,
		CreatedAt: time.Now(),
	}
}
