package model

import (
	"fmt"
	"math"
	"sort"
)

// IndexTimeParams are the build-time parameters of the item index. They
// mirror the knobs of graph-based ANN structures: node degree M, search
// breadth at construction time, and the number of build threads.
type IndexTimeParams struct {
	M              int
	EfConstruction int
	IndexThreadQty int
}

// IndexParams select the index method and the distance space.
type IndexParams struct {
	Method string // "hnsw" | "brute"
	Space  string // "negdotprod" | "cosinesimil" | "l2"
}

// ItemIndex is the k-nearest-neighbor oracle the embedding model queries.
// KNNQuery returns up to k internal item ids in the index's own similarity
// order, closest first.
type ItemIndex interface {
	KNNQuery(query []float32, k int) []int
}

// BruteIndex is an exact in-memory ItemIndex. It stands in for a graph-based
// approximate index behind the same contract; with exact search the
// similarity order is the true order, which an approximate structure only
// approaches as its search breadth grows.
type BruteIndex struct {
	vectors [][]float32
	space   string
	queryEf int // retained from build params; exact search has no use for it
}

// NewItemIndex builds the index over all item vectors at construction time.
// The query-time search breadth is fixed to the construction breadth.
func NewItemIndex(params IndexParams, timeParams IndexTimeParams, vectors [][]float32) (ItemIndex, error) {
	switch params.Space {
	case "negdotprod", "cosinesimil", "l2":
	default:
		return nil, fmt.Errorf("unsupported index space %q", params.Space)
	}
	switch params.Method {
	case "hnsw", "brute":
	default:
		return nil, fmt.Errorf("unsupported index method %q", params.Method)
	}
	return &BruteIndex{
		vectors: vectors,
		space:   params.Space,
		queryEf: timeParams.EfConstruction,
	}, nil
}

func (ix *BruteIndex) KNNQuery(query []float32, k int) []int {
	if k <= 0 || len(ix.vectors) == 0 {
		return nil
	}

	type scored struct {
		id   int
		dist float64
	}
	results := make([]scored, 0, len(ix.vectors))
	for id, vec := range ix.vectors {
		results = append(results, scored{id: id, dist: ix.distance(query, vec)})
	}

	// Closest first, smaller distance wins; ties keep insertion order.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].dist < results[j].dist
	})

	if k > len(results) {
		k = len(results)
	}
	ids := make([]int, k)
	for i := 0; i < k; i++ {
		ids[i] = results[i].id
	}
	return ids
}

func (ix *BruteIndex) distance(a, b []float32) float64 {
	switch ix.space {
	case "negdotprod":
		return -dotProduct(a, b)
	case "cosinesimil":
		return 1 - cosineSimilarity(a, b)
	default: // l2
		return euclideanDistance(a, b)
	}
}

func dotProduct(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot
}

func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func euclideanDistance(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		diff := float64(a[i]) - float64(b[i])
		sum += diff * diff
	}
	return math.Sqrt(sum)
}
