package model

import (
	"sort"

	"github.com/vederko-p/RecService/internal/domain"
)

// KNNName is the registry key of the segment-similarity model.
const KNNName = "knn_model"

const (
	defaultWarmupK = 10
	defaultNUsers  = 30
)

// UserIndex is the similar-user oracle of a segment sub-model. SimilarUsers
// returns up to n neighbors of the given internal user id in descending
// similarity order. The queried user itself is the first, closest entry.
type UserIndex interface {
	SimilarUsers(internalID, n int) []domain.Neighbor
}

// NeighborTable is a precomputed UserIndex: one neighbor list per internal
// user id, produced by the offline training pipeline.
type NeighborTable [][]domain.Neighbor

func (t NeighborTable) SimilarUsers(internalID, n int) []domain.Neighbor {
	if internalID < 0 || internalID >= len(t) {
		return nil
	}
	neighbors := t[internalID]
	if n > 0 && n < len(neighbors) {
		neighbors = neighbors[:n]
	}
	return neighbors
}

// SegmentSubModel bundles what one segment needs to recommend: the segment's
// user id map, its similar-user index, the watched-item lists of its users
// and the segment's item IDF table.
type SegmentSubModel struct {
	users   *IDMap
	index   UserIndex
	nUsers  int
	watched map[int64][]int64
	itemIDF map[int64]float64
}

// NewSegmentSubModel builds a sub-model from loaded segment artifacts.
// nUsers caps how many similar users a prediction considers.
func NewSegmentSubModel(data *domain.SegmentData, nUsers int) *SegmentSubModel {
	if nUsers <= 0 {
		nUsers = defaultNUsers
	}
	return &SegmentSubModel{
		users:   NewIDMap(data.UserMap),
		index:   NeighborTable(data.Neighbors),
		nUsers:  nUsers,
		watched: data.Watched,
		itemIDF: data.ItemIDF,
	}
}

// SegmentKNN recommends from the watch history of similar users within the
// user's segment, weighted by item IDF. Users without a segment, and users
// whose similar-user pool comes up empty, degrade to the popularity list.
type SegmentKNN struct {
	userSegment map[int64]int
	segments    map[int]*SegmentSubModel
	pops        []int64
	warmupK     int
}

func NewSegmentKNN(
	userSegment map[int64]int,
	segments map[int]*SegmentSubModel,
	pops []int64,
	warmupK int,
) *SegmentKNN {
	if warmupK <= 0 {
		warmupK = defaultWarmupK
	}
	return &SegmentKNN{
		userSegment: userSegment,
		segments:    segments,
		pops:        pops,
		warmupK:     warmupK,
	}
}

func (m *SegmentKNN) Name() string {
	return KNNName
}

func (m *SegmentKNN) Predict(userID int64, k int) []int64 {
	segmentID, ok := m.userSegment[userID]
	if !ok {
		return topPopular(m.pops, k)
	}
	sub, ok := m.segments[segmentID]
	if !ok {
		// Assignment without a sub-model is treated as unsegmented.
		return topPopular(m.pops, k)
	}
	return m.predictBySegment(userID, sub, k)
}

type simUser struct {
	userID int64
	sim    float64
}

// similarUsers resolves the user's neighbors within the segment. The leading
// self-match is dropped and so is every neighbor whose similarity is not
// strictly below 1, which guards against duplicate users scored at the
// ceiling.
func (m *SegmentKNN) similarUsers(inUserID int, sub *SegmentSubModel) []simUser {
	neighbors := sub.index.SimilarUsers(inUserID, sub.nUsers)
	if len(neighbors) == 0 {
		return nil
	}
	neighbors = neighbors[1:]

	sims := make([]simUser, 0, len(neighbors))
	for _, nb := range neighbors {
		if nb.Similarity >= 1 {
			continue
		}
		ext, ok := sub.users.Inverse(nb.UserID)
		if !ok {
			continue
		}
		sims = append(sims, simUser{userID: ext, sim: nb.Similarity})
	}
	return sims
}

func (m *SegmentKNN) predictBySegment(userID int64, sub *SegmentSubModel, k int) []int64 {
	inUserID, ok := sub.users.Forward(userID)
	if !ok {
		// Assigned to the segment but absent from its user map.
		return topPopular(m.pops, k)
	}

	sims := m.similarUsers(inUserID, sub)

	// Candidate pool: watched items of similar users, most similar user
	// first. On a duplicate item the first occurrence wins, so each item
	// keeps the similarity of its most similar contributor.
	type candidate struct {
		item  int64
		score float64
	}
	seen := make(map[int64]struct{})
	cands := make([]candidate, 0)
	for _, su := range sims {
		for _, item := range sub.watched[su.userID] {
			if _, dup := seen[item]; dup {
				continue
			}
			seen[item] = struct{}{}
			// Items missing from the IDF table score zero and rank
			// after every scored candidate.
			cands = append(cands, candidate{
				item:  item,
				score: su.sim * sub.itemIDF[item],
			})
		}
	}

	// Ties keep the candidate-pool order.
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].score > cands[j].score
	})

	n := k
	if n > len(cands) {
		n = len(cands)
	}
	recs := make([]int64, 0, k)
	for _, c := range cands[:n] {
		recs = append(recs, c.item)
	}
	return padWithPopular(recs, m.pops, k)
}

// Warmup predicts once for every given user with the model's warmup k to
// pre-warm lazy structures. Prediction cannot fail, so one user never
// affects the rest of the batch.
func (m *SegmentKNN) Warmup(userIDs []int64) {
	for _, userID := range userIDs {
		m.Predict(userID, m.warmupK)
	}
}
