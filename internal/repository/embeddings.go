package repository

import (
	"context"
	"fmt"

	"github.com/vederko-p/RecService/internal/domain"
)

// LoadUserEmbeddings loads the augmented user vectors and the external-to-
// internal user id map.
func (r *Repository) LoadUserEmbeddings(ctx context.Context) (*domain.EmbeddingSet, error) {
	return r.loadEmbeddingSet(ctx, "user_embeddings", "user_id")
}

// LoadItemEmbeddings loads the augmented item vectors and the external-to-
// internal item id map.
func (r *Repository) LoadItemEmbeddings(ctx context.Context) (*domain.EmbeddingSet, error) {
	return r.loadEmbeddingSet(ctx, "item_embeddings", "item_id")
}

func (r *Repository) loadEmbeddingSet(ctx context.Context, table, idColumn string) (*domain.EmbeddingSet, error) {
	rows, err := r.pool.Query(ctx, fmt.Sprintf(
		`SELECT %s, internal_id, embedding FROM %s ORDER BY internal_id`,
		idColumn, table,
	))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	set := &domain.EmbeddingSet{IDMap: make(map[int64]int)}
	for rows.Next() {
		var externalID int64
		var internalID int
		var embedding []float32
		if err := rows.Scan(&externalID, &internalID, &embedding); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", table, err)
		}
		if internalID != len(set.Vectors) {
			return nil, fmt.Errorf("%s: internal ids not dense at %d", table, internalID)
		}
		set.Vectors = append(set.Vectors, embedding)
		set.IDMap[externalID] = internalID
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over %s: %w", table, err)
	}
	return set, nil
}
