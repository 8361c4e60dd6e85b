package repository

import (
	"context"
	"fmt"

	"github.com/vederko-p/RecService/internal/domain"
)

// LoadUserSegments loads the user-to-segment assignment. Users absent from
// the map are unsegmented and served from the popularity fallback.
func (r *Repository) LoadUserSegments(ctx context.Context) (map[int64]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id, segment_id FROM user_segments`,
	)
	if err != nil {
		return nil, fmt.Errorf("query user segments: %w", err)
	}
	defer rows.Close()

	assignment := make(map[int64]int)
	for rows.Next() {
		var userID int64
		var segmentID int
		if err := rows.Scan(&userID, &segmentID); err != nil {
			return nil, fmt.Errorf("scan user segment: %w", err)
		}
		assignment[userID] = segmentID
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over user segments: %w", err)
	}
	return assignment, nil
}

// LoadSegmentData assembles per-segment sub-model artifacts: the segment's
// user id map, precomputed similar-user lists, watched items of the
// segment's users and the segment's item IDF table.
func (r *Repository) LoadSegmentData(ctx context.Context) (map[int]*domain.SegmentData, error) {
	segments := make(map[int]*domain.SegmentData)

	if err := r.loadSegmentUsers(ctx, segments); err != nil {
		return nil, err
	}
	if err := r.loadSegmentNeighbors(ctx, segments); err != nil {
		return nil, err
	}
	if err := r.loadWatchedItems(ctx, segments); err != nil {
		return nil, err
	}
	if err := r.loadItemIDF(ctx, segments); err != nil {
		return nil, err
	}

	return segments, nil
}

func segmentOf(segments map[int]*domain.SegmentData, segmentID int) *domain.SegmentData {
	data, ok := segments[segmentID]
	if !ok {
		data = &domain.SegmentData{
			SegmentID: segmentID,
			UserMap:   make(map[int64]int),
			Watched:   make(map[int64][]int64),
			ItemIDF:   make(map[int64]float64),
		}
		segments[segmentID] = data
	}
	return data
}

func (r *Repository) loadSegmentUsers(ctx context.Context, segments map[int]*domain.SegmentData) error {
	rows, err := r.pool.Query(ctx,
		`SELECT segment_id, user_id, internal_id
		 FROM segment_users
		 ORDER BY segment_id, internal_id`,
	)
	if err != nil {
		return fmt.Errorf("query segment users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var segmentID, internalID int
		var userID int64
		if err := rows.Scan(&segmentID, &userID, &internalID); err != nil {
			return fmt.Errorf("scan segment user: %w", err)
		}
		data := segmentOf(segments, segmentID)
		data.UserMap[userID] = internalID
		// Neighbor lists are indexed by internal id.
		for len(data.Neighbors) <= internalID {
			data.Neighbors = append(data.Neighbors, nil)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate over segment users: %w", err)
	}
	return nil
}

func (r *Repository) loadSegmentNeighbors(ctx context.Context, segments map[int]*domain.SegmentData) error {
	rows, err := r.pool.Query(ctx,
		`SELECT segment_id, internal_id, neighbor_internal_id, similarity
		 FROM segment_neighbors
		 ORDER BY segment_id, internal_id, rank`,
	)
	if err != nil {
		return fmt.Errorf("query segment neighbors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var segmentID, internalID, neighborID int
		var similarity float64
		if err := rows.Scan(&segmentID, &internalID, &neighborID, &similarity); err != nil {
			return fmt.Errorf("scan segment neighbor: %w", err)
		}
		data := segmentOf(segments, segmentID)
		if internalID >= len(data.Neighbors) {
			return fmt.Errorf("segment %d: neighbor list for unknown internal id %d", segmentID, internalID)
		}
		data.Neighbors[internalID] = append(data.Neighbors[internalID], domain.Neighbor{
			UserID:     neighborID,
			Similarity: similarity,
		})
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate over segment neighbors: %w", err)
	}
	return nil
}

func (r *Repository) loadWatchedItems(ctx context.Context, segments map[int]*domain.SegmentData) error {
	rows, err := r.pool.Query(ctx,
		`SELECT w.user_id, w.item_id
		 FROM watched_items w
		 ORDER BY w.user_id, w.ord`,
	)
	if err != nil {
		return fmt.Errorf("query watched items: %w", err)
	}
	defer rows.Close()

	watched := make(map[int64][]int64)
	for rows.Next() {
		var userID, itemID int64
		if err := rows.Scan(&userID, &itemID); err != nil {
			return fmt.Errorf("scan watched item: %w", err)
		}
		watched[userID] = append(watched[userID], itemID)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate over watched items: %w", err)
	}

	// Keep only the watch lists of each segment's own users.
	for _, data := range segments {
		for userID := range data.UserMap {
			if items, ok := watched[userID]; ok {
				data.Watched[userID] = items
			}
		}
	}
	return nil
}

func (r *Repository) loadItemIDF(ctx context.Context, segments map[int]*domain.SegmentData) error {
	rows, err := r.pool.Query(ctx,
		`SELECT segment_id, item_id, idf FROM item_idf`,
	)
	if err != nil {
		return fmt.Errorf("query item idf: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var segmentID int
		var itemID int64
		var idf float64
		if err := rows.Scan(&segmentID, &itemID, &idf); err != nil {
			return fmt.Errorf("scan item idf: %w", err)
		}
		segmentOf(segments, segmentID).ItemIDF[itemID] = idf
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate over item idf: %w", err)
	}
	return nil
}
