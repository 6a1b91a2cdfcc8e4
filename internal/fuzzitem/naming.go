package fuzzitem

import (
	"crypto/sha256"
	"fmt"
	"regexp"
	"strconv"
)

// NamingStrategy encodes and decodes the bookkeeping fields a Metadata
// carries into a single filename, so a directory listing alone is enough
// to rebuild the queue order without reading every sidecar file. Adapted
// from the teacher's seed NamingStrategy.
type NamingStrategy interface {
	GenerateFilename(m *Metadata) string
	ParseFilename(name string) (id, parentID uint64, depth int, hash string, ok bool)
}

// filenamePattern matches id-000001-src-000000-depth-002-a1b2c3d4.item.
var filenamePattern = regexp.MustCompile(`^id-(\d{6})-src-(\d{6})-depth-(\d{3})-([a-f0-9]{8})\.item$`)

// DefaultNamingStrategy is the canonical on-disk naming used by the file-backed store.
type DefaultNamingStrategy struct{}

func (DefaultNamingStrategy) GenerateFilename(m *Metadata) string {
	return fmt.Sprintf("id-%06d-src-%06d-depth-%03d-%s.item",
		m.ID, m.ParentID, m.Depth, m.ContentHash)
}

func (DefaultNamingStrategy) ParseFilename(name string) (id, parentID uint64, depth int, hash string, ok bool) {
	match := filenamePattern.FindStringSubmatch(name)
	if match == nil {
		return 0, 0, 0, "", false
	}
	id, errID := strconv.ParseUint(match[1], 10, 64)
	parentID, errParent := strconv.ParseUint(match[2], 10, 64)
	depthVal, errDepth := strconv.Atoi(match[3])
	if errID != nil || errParent != nil || errDepth != nil {
		return 0, 0, 0, "", false
	}
	return id, parentID, depthVal, match[4], true
}

// GenerateContentHash returns the first four bytes of data's sha256 digest,
// hex-encoded, used as the short disambiguator in a generated filename.
func GenerateContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%x", sum[:4])
}
