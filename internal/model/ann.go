package model

import (
	"fmt"

	"github.com/vederko-p/RecService/internal/domain"
)

// HNSWName is the registry key of the embedding-ANN model.
const HNSWName = "hnsw_model"

// EmbeddingANN recommends by nearest-neighbor search in a shared
// user/item embedding space. The item index is built once at construction;
// unknown users fall back to the head of the popularity list.
type EmbeddingANN struct {
	index      ItemIndex
	userEmbeds [][]float32
	userMap    *IDMap
	itemMap    *IDMap
	pops       []int64
}

// NewEmbeddingANN builds the item index over all item vectors and wires the
// id maps and the popularity fallback. Vectors are indexed by internal id,
// so the item map must cover every row of the item matrix.
func NewEmbeddingANN(
	params IndexParams,
	timeParams IndexTimeParams,
	userEmbeds *domain.EmbeddingSet,
	itemEmbeds *domain.EmbeddingSet,
	pops []int64,
) (*EmbeddingANN, error) {
	index, err := NewItemIndex(params, timeParams, itemEmbeds.Vectors)
	if err != nil {
		return nil, fmt.Errorf("build item index: %w", err)
	}
	return &EmbeddingANN{
		index:      index,
		userEmbeds: userEmbeds.Vectors,
		userMap:    NewIDMap(userEmbeds.IDMap),
		itemMap:    NewIDMap(itemEmbeds.IDMap),
		pops:       pops,
	}, nil
}

func (m *EmbeddingANN) Name() string {
	return HNSWName
}

// Predict maps the user into the embedding space and queries the item index
// for the k nearest items, in the index's similarity order. A user missing
// from the map gets the first k popularity items instead. An internal item
// id with no external counterpart is dropped from the result.
func (m *EmbeddingANN) Predict(userID int64, k int) []int64 {
	inUserID, ok := m.userMap.Forward(userID)
	if !ok {
		return topPopular(m.pops, k)
	}

	query := m.userEmbeds[inUserID]
	neighbors := m.index.KNNQuery(query, k)

	items := make([]int64, 0, len(neighbors))
	for _, inItemID := range neighbors {
		itemID, ok := m.itemMap.Inverse(inItemID)
		if !ok {
			continue
		}
		items = append(items, itemID)
	}
	return items
}
