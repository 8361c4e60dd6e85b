package domain

// Artifact types carried from the offline training store to model
// construction. All of them are loaded once at startup and treated as
// read-only afterwards.

// EmbeddingSet bundles a dense vector matrix with the mapping from
// external ids to row indices.
type EmbeddingSet struct {
	Vectors [][]float32
	IDMap   map[int64]int
}

// Neighbor is one entry of a precomputed similar-user list. UserID is the
// internal id within the owning segment.
type Neighbor struct {
	UserID     int
	Similarity float64
}

// SegmentData holds everything a single segment sub-model needs: the
// external-to-internal user mapping, similar-user lists indexed by internal
// id, watched item lists keyed by external user id, and the segment's
// item IDF table.
type SegmentData struct {
	SegmentID int
	UserMap   map[int64]int
	Neighbors [][]Neighbor
	Watched   map[int64][]int64
	ItemIDF   map[int64]float64
}
