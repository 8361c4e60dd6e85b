package model

import (
	"reflect"
	"testing"

	"github.com/vederko-p/RecService/internal/domain"
)

func buildTestSegmentKNN(t *testing.T) *SegmentKNN {
	t.Helper()
	data := &domain.SegmentData{
		SegmentID: 0,
		UserMap:   map[int64]int{1: 0, 2: 1, 3: 2},
		Neighbors: [][]domain.Neighbor{
			// user 1: self-match, a duplicate scored at the ceiling,
			// then two real neighbors.
			{
				{UserID: 0, Similarity: 1.0},
				{UserID: 1, Similarity: 1.0},
				{UserID: 1, Similarity: 0.9},
				{UserID: 2, Similarity: 0.8},
			},
			{
				{UserID: 1, Similarity: 1.0},
				{UserID: 0, Similarity: 0.9},
				{UserID: 2, Similarity: 0.7},
			},
			// user 3: nothing but the self-match.
			{
				{UserID: 2, Similarity: 1.0},
			},
		},
		Watched: map[int64][]int64{
			1: {13},
			2: {10, 11},
			3: {11, 12},
		},
		// Item 12 is deliberately absent from the IDF table.
		ItemIDF: map[int64]float64{10: 1.0, 11: 2.0, 13: 1.5},
	}
	sub := NewSegmentSubModel(data, 30)

	userSegment := map[int64]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 9}
	pops := []int64{20, 21, 10, 22, 23}
	return NewSegmentKNN(userSegment, map[int]*SegmentSubModel{0: sub}, pops, 10)
}

func TestSegmentKNNPredict(t *testing.T) {
	m := buildTestSegmentKNN(t)

	// Similar users of 1: user 2 at 0.9, user 3 at 0.8 (self and the
	// ceiling-scored duplicate are dropped). Scores: 11 -> 0.9*2.0,
	// 10 -> 0.9*1.0, 12 -> 0.8*0 (missing IDF). Padded from popularity
	// without the already-present 10.
	got := m.Predict(1, 5)
	want := []int64{11, 10, 12, 20, 21}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestSegmentKNNUnsegmentedUserFallsBackToPopular(t *testing.T) {
	m := buildTestSegmentKNN(t)

	got := m.Predict(99, 3)
	want := []int64{20, 21, 10}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected popularity head %v, got %v", want, got)
	}
}

func TestSegmentKNNSegmentWithoutSubModel(t *testing.T) {
	m := buildTestSegmentKNN(t)

	// User 5 is assigned to segment 9 which has no sub-model.
	got := m.Predict(5, 2)
	want := []int64{20, 21}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestSegmentKNNUserMissingFromSegmentUserMap(t *testing.T) {
	m := buildTestSegmentKNN(t)

	// User 4 is assigned to segment 0 but absent from its user map.
	got := m.Predict(4, 2)
	want := []int64{20, 21}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestSegmentKNNEmptySimilarPoolDegradesToPopular(t *testing.T) {
	m := buildTestSegmentKNN(t)

	// User 3 has only the self-match, so the candidate pool is empty.
	got := m.Predict(3, 4)
	want := []int64{20, 21, 10, 22}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestSegmentKNNPaddingHasNoDuplicates(t *testing.T) {
	m := buildTestSegmentKNN(t)

	// Model yields 3 items, popularity adds 4 more (10 is already
	// present): output is min(k, 7).
	got := m.Predict(1, 8)
	if len(got) != 7 {
		t.Fatalf("expected 7 items, got %d: %v", len(got), got)
	}
	seen := make(map[int64]struct{}, len(got))
	for _, id := range got {
		if _, dup := seen[id]; dup {
			t.Errorf("duplicate item %d in %v", id, got)
		}
		seen[id] = struct{}{}
	}
}

func TestSegmentKNNDedupKeepsMostSimilarContributor(t *testing.T) {
	data := &domain.SegmentData{
		SegmentID: 0,
		UserMap:   map[int64]int{1: 0, 2: 1, 3: 2},
		Neighbors: [][]domain.Neighbor{
			{
				{UserID: 0, Similarity: 1.0},
				{UserID: 1, Similarity: 0.9},
				{UserID: 2, Similarity: 0.8},
			},
			{{UserID: 1, Similarity: 1.0}},
			{{UserID: 2, Similarity: 1.0}},
		},
		Watched: map[int64][]int64{
			2: {30},
			3: {30, 31},
		},
		ItemIDF: map[int64]float64{30: 1.0, 31: 1.05},
	}
	sub := NewSegmentSubModel(data, 30)
	m := NewSegmentKNN(map[int64]int{1: 0}, map[int]*SegmentSubModel{0: sub}, nil, 10)

	// Item 30 is watched by both similar users; it must keep the score of
	// the more similar one (0.9*1.0) and outrank 31 (0.8*1.05).
	got := m.Predict(1, 2)
	want := []int64{30, 31}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected first occurrence to win dedup: want %v, got %v", want, got)
	}
}

func TestSegmentKNNIdempotent(t *testing.T) {
	m := buildTestSegmentKNN(t)

	first := m.Predict(1, 5)
	second := m.Predict(1, 5)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("predictions differ between calls: %v vs %v", first, second)
	}
}

func TestSegmentKNNWarmup(t *testing.T) {
	m := buildTestSegmentKNN(t)

	// Warmup mixes segmented, unsegmented and unserved users; none of
	// them may break the batch.
	m.Warmup([]int64{1, 3, 5, 99})

	got := m.Predict(1, 5)
	want := []int64{11, 10, 12, 20, 21}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("warmup changed predictions: want %v, got %v", want, got)
	}
}

func TestPadWithPopular(t *testing.T) {
	pops := []int64{1, 2, 3, 4}

	got := padWithPopular([]int64{2, 9}, pops, 4)
	want := []int64{2, 9, 1, 3}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	// Already full: truncate, no padding.
	got = padWithPopular([]int64{5, 6, 7}, pops, 2)
	want = []int64{5, 6}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
