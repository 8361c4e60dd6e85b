package model

import (
	"reflect"
	"testing"

	"github.com/vederko-p/RecService/internal/domain"
)

func buildTestANN(t *testing.T, itemIDMap map[int64]int) *EmbeddingANN {
	t.Helper()
	userEmbeds := &domain.EmbeddingSet{
		Vectors: [][]float32{{1, 0}},
		IDMap:   map[int64]int{42: 0},
	}
	itemEmbeds := &domain.EmbeddingSet{
		Vectors: [][]float32{
			{1, 0}, // internal 0, dot 1
			{3, 0}, // internal 1, dot 3
			{2, 0}, // internal 2, dot 2
		},
		IDMap: itemIDMap,
	}
	m, err := NewEmbeddingANN(
		IndexParams{Method: "hnsw", Space: "negdotprod"},
		IndexTimeParams{M: 10, EfConstruction: 20, IndexThreadQty: 8},
		userEmbeds, itemEmbeds,
		[]int64{500, 501, 502, 503},
	)
	if err != nil {
		t.Fatalf("build embedding model: %v", err)
	}
	return m
}

func TestEmbeddingANNKnownUser(t *testing.T) {
	m := buildTestANN(t, map[int64]int{100: 0, 101: 1, 102: 2})

	got := m.Predict(42, 2)
	want := []int64{101, 102} // nearest by dot product
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestEmbeddingANNUnknownUserFallsBackToPopular(t *testing.T) {
	m := buildTestANN(t, map[int64]int{100: 0, 101: 1, 102: 2})

	got := m.Predict(7, 3)
	want := []int64{500, 501, 502}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected popularity head %v, got %v", want, got)
	}
}

func TestEmbeddingANNDropsUnmappedItems(t *testing.T) {
	// Internal item 1 has no external id: it is dropped from the result.
	m := buildTestANN(t, map[int64]int{100: 0, 102: 2})

	got := m.Predict(42, 3)
	want := []int64{102, 100}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected unmapped item dropped, want %v, got %v", want, got)
	}
}

func TestEmbeddingANNIdempotent(t *testing.T) {
	m := buildTestANN(t, map[int64]int{100: 0, 101: 1, 102: 2})

	first := m.Predict(42, 3)
	second := m.Predict(42, 3)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("predictions differ between calls: %v vs %v", first, second)
	}
}

func TestIDMapRoundTrip(t *testing.T) {
	m := NewIDMap(map[int64]int{10: 0, 20: 1, 30: 2})

	if m.Len() != 3 {
		t.Errorf("expected 3 entries, got %d", m.Len())
	}

	in, ok := m.Forward(20)
	if !ok || in != 1 {
		t.Errorf("Forward(20): expected (1, true), got (%d, %v)", in, ok)
	}
	ext, ok := m.Inverse(1)
	if !ok || ext != 20 {
		t.Errorf("Inverse(1): expected (20, true), got (%d, %v)", ext, ok)
	}

	if _, ok := m.Forward(99); ok {
		t.Error("Forward miss should report absence, not an error")
	}
	if _, ok := m.Inverse(99); ok {
		t.Error("Inverse miss should report absence")
	}
}
