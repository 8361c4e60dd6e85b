package seeds

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Synthetic artifact sizes. Small enough to seed in a moment, large enough
// that every prediction path has data behind it.
const (
	numUsers          = 200
	numItems          = 100
	embeddingDim      = 16
	numSegments       = 4
	numEmbeddedUsers  = 150 // users known to the embedding model
	numSegmentedUsers = 160 // users with a segment assignment
	neighborsPerUser  = 10  // per-user neighbor list length, self included
	numWarmupUsers    = 20
)

// Setup seeds every artifact table with deterministic synthetic training
// output: embeddings, id maps, popularity, segments, neighbor lists, watch
// history and IDF tables.
func Setup(ctx context.Context, pool *pgxpool.Pool) error {
	rng := rand.New(rand.NewSource(42))

	// Truncate existing data before insert
	log.Println("[seed] truncating existing data")
	if _, err := pool.Exec(ctx, `
		TRUNCATE user_embeddings, item_embeddings, popular_items,
			user_segments, segment_users, segment_neighbors,
			watched_items, item_idf, warmup_users
	`); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}

	users := makeIDs(100, 3, numUsers)
	items := makeIDs(1000, 7, numItems)
	userVecs := makeVectors(rng, numUsers, embeddingDim)
	itemVecs := makeVectors(rng, numItems, embeddingDim)
	watched := makeWatched(rng, users, items)

	log.Println("[seed] inserting embeddings")
	if err := seedEmbeddings(ctx, pool, "user_embeddings", "user_id", users[:numEmbeddedUsers], userVecs[:numEmbeddedUsers]); err != nil {
		return fmt.Errorf("seed user embeddings: %w", err)
	}
	if err := seedEmbeddings(ctx, pool, "item_embeddings", "item_id", items, itemVecs); err != nil {
		return fmt.Errorf("seed item embeddings: %w", err)
	}

	log.Println("[seed] inserting popularity")
	if err := seedPopularity(ctx, pool, items, watched); err != nil {
		return fmt.Errorf("seed popularity: %w", err)
	}

	log.Println("[seed] inserting segments")
	segmentUsers, err := seedSegments(ctx, pool, rng, users)
	if err != nil {
		return fmt.Errorf("seed segments: %w", err)
	}
	if err := seedNeighbors(ctx, pool, segmentUsers, users, userVecs); err != nil {
		return fmt.Errorf("seed neighbors: %w", err)
	}

	log.Println("[seed] inserting watch history")
	if err := seedWatched(ctx, pool, users, watched); err != nil {
		return fmt.Errorf("seed watched items: %w", err)
	}
	if err := seedIDF(ctx, pool, segmentUsers, watched); err != nil {
		return fmt.Errorf("seed idf: %w", err)
	}

	log.Println("[seed] inserting warmup users")
	if err := seedWarmup(ctx, pool, users); err != nil {
		return fmt.Errorf("seed warmup users: %w", err)
	}

	log.Println("[seed] seeding complete")
	return nil
}

// makeIDs produces non-dense external ids so id-map bugs cannot hide behind
// ids that equal indices.
func makeIDs(start, step int64, n int) []int64 {
	ids := make([]int64, n)
	for i := range ids {
		ids[i] = start + int64(i)*step
	}
	return ids
}

func makeVectors(rng *rand.Rand, n, dim int) [][]float32 {
	vecs := make([][]float32, n)
	for i := range vecs {
		vec := make([]float32, dim)
		for d := range vec {
			vec[d] = float32(rng.Float64()*2 - 1)
		}
		vecs[i] = vec
	}
	return vecs
}

// makeWatched generates per-user watch lists with a popularity skew: items
// with lower indices are watched more often.
func makeWatched(rng *rand.Rand, users, items []int64) map[int64][]int64 {
	watched := make(map[int64][]int64, len(users))
	for _, userID := range users {
		n := 5 + rng.Intn(11)
		seen := make(map[int64]struct{}, n)
		var list []int64
		for len(list) < n {
			idx := int(math.Abs(rng.NormFloat64()) * float64(len(items)) / 3)
			if idx >= len(items) {
				idx = rng.Intn(len(items))
			}
			itemID := items[idx]
			if _, ok := seen[itemID]; ok {
				continue
			}
			seen[itemID] = struct{}{}
			list = append(list, itemID)
		}
		watched[userID] = list
	}
	return watched
}

func seedEmbeddings(ctx context.Context, pool *pgxpool.Pool, table, idColumn string, ids []int64, vecs [][]float32) error {
	rows := []string{}
	args := []any{}

	for i, id := range ids {
		base := i * 3
		rows = append(rows, fmt.Sprintf("($%d, $%d, $%d)", base+1, base+2, base+3))
		args = append(args, id, i, vecs[i])
	}

	if len(rows) == 0 {
		return nil
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s, internal_id, embedding) VALUES %s",
		table, idColumn, strings.Join(rows, ", "),
	)
	_, err := pool.Exec(ctx, query, args...)
	return err
}

func seedPopularity(ctx context.Context, pool *pgxpool.Pool, items []int64, watched map[int64][]int64) error {
	counts := make(map[int64]int, len(items))
	for _, list := range watched {
		for _, itemID := range list {
			counts[itemID]++
		}
	}

	ranked := make([]int64, len(items))
	copy(ranked, items)
	sort.SliceStable(ranked, func(i, j int) bool {
		if counts[ranked[i]] != counts[ranked[j]] {
			return counts[ranked[i]] > counts[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})

	rows := []string{}
	args := []any{}
	for rank, itemID := range ranked {
		base := rank * 2
		rows = append(rows, fmt.Sprintf("($%d, $%d)", base+1, base+2))
		args = append(args, rank, itemID)
	}

	query := "INSERT INTO popular_items (rank, item_id) VALUES " + strings.Join(rows, ", ")
	_, err := pool.Exec(ctx, query, args...)
	return err
}

// seedSegments assigns the first numSegmentedUsers users round-robin-ish to
// segments and returns each segment's member list in internal-id order.
func seedSegments(ctx context.Context, pool *pgxpool.Pool, rng *rand.Rand, users []int64) ([][]int64, error) {
	segmentUsers := make([][]int64, numSegments)

	assignRows := []string{}
	assignArgs := []any{}
	memberRows := []string{}
	memberArgs := []any{}

	for i, userID := range users[:numSegmentedUsers] {
		segmentID := rng.Intn(numSegments)

		base := i * 2
		assignRows = append(assignRows, fmt.Sprintf("($%d, $%d)", base+1, base+2))
		assignArgs = append(assignArgs, userID, segmentID)

		internalID := len(segmentUsers[segmentID])
		segmentUsers[segmentID] = append(segmentUsers[segmentID], userID)

		mbase := len(memberArgs)
		memberRows = append(memberRows, fmt.Sprintf("($%d, $%d, $%d)", mbase+1, mbase+2, mbase+3))
		memberArgs = append(memberArgs, segmentID, userID, internalID)
	}

	query := "INSERT INTO user_segments (user_id, segment_id) VALUES " + strings.Join(assignRows, ", ")
	if _, err := pool.Exec(ctx, query, assignArgs...); err != nil {
		return nil, err
	}

	query = "INSERT INTO segment_users (segment_id, user_id, internal_id) VALUES " + strings.Join(memberRows, ", ")
	if _, err := pool.Exec(ctx, query, memberArgs...); err != nil {
		return nil, err
	}

	return segmentUsers, nil
}

// seedNeighbors precomputes per-user similar-user lists within each segment:
// the user itself first at similarity 1, then the closest others by cosine
// similarity squeezed into (0, 1).
func seedNeighbors(ctx context.Context, pool *pgxpool.Pool, segmentUsers [][]int64, users []int64, userVecs [][]float32) error {
	vecOf := make(map[int64][]float32, len(users))
	for i, userID := range users {
		vecOf[userID] = userVecs[i]
	}

	rows := []string{}
	args := []any{}
	addRow := func(segmentID, internalID, neighborID int, sim float64, rank int) {
		base := len(args)
		rows = append(rows, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5))
		args = append(args, segmentID, internalID, neighborID, sim, rank)
	}

	for segmentID, members := range segmentUsers {
		for internalID, userID := range members {
			type scored struct {
				id  int
				sim float64
			}
			others := make([]scored, 0, len(members)-1)
			for otherID := range members {
				if otherID == internalID {
					continue
				}
				cos := cosine(vecOf[userID], vecOf[members[otherID]])
				others = append(others, scored{id: otherID, sim: 0.5 + 0.49*cos})
			}
			sort.SliceStable(others, func(i, j int) bool {
				return others[i].sim > others[j].sim
			})
			if len(others) > neighborsPerUser-1 {
				others = others[:neighborsPerUser-1]
			}

			addRow(segmentID, internalID, internalID, 1.0, 0)
			for rank, nb := range others {
				addRow(segmentID, internalID, nb.id, nb.sim, rank+1)
			}
		}
	}

	query := "INSERT INTO segment_neighbors (segment_id, internal_id, neighbor_internal_id, similarity, rank) VALUES " +
		strings.Join(rows, ", ")
	_, err := pool.Exec(ctx, query, args...)
	return err
}

func seedWatched(ctx context.Context, pool *pgxpool.Pool, users []int64, watched map[int64][]int64) error {
	rows := []string{}
	args := []any{}
	for _, userID := range users {
		for ord, itemID := range watched[userID] {
			base := len(args)
			rows = append(rows, fmt.Sprintf("($%d, $%d, $%d)", base+1, base+2, base+3))
			args = append(args, userID, itemID, ord)
		}
	}

	query := "INSERT INTO watched_items (user_id, item_id, ord) VALUES " + strings.Join(rows, ", ")
	_, err := pool.Exec(ctx, query, args...)
	return err
}

// seedIDF computes per-segment inverse document frequency over the items the
// segment's users watched: idf = ln(segment size / (1 + watchers)).
func seedIDF(ctx context.Context, pool *pgxpool.Pool, segmentUsers [][]int64, watched map[int64][]int64) error {
	rows := []string{}
	args := []any{}

	for segmentID, members := range segmentUsers {
		counts := make(map[int64]int)
		for _, userID := range members {
			for _, itemID := range watched[userID] {
				counts[itemID]++
			}
		}

		itemIDs := make([]int64, 0, len(counts))
		for itemID := range counts {
			itemIDs = append(itemIDs, itemID)
		}
		sort.Slice(itemIDs, func(i, j int) bool { return itemIDs[i] < itemIDs[j] })

		for _, itemID := range itemIDs {
			idf := math.Log(float64(len(members)) / float64(1+counts[itemID]))
			base := len(args)
			rows = append(rows, fmt.Sprintf("($%d, $%d, $%d)", base+1, base+2, base+3))
			args = append(args, segmentID, itemID, idf)
		}
	}

	query := "INSERT INTO item_idf (segment_id, item_id, idf) VALUES " + strings.Join(rows, ", ")
	_, err := pool.Exec(ctx, query, args...)
	return err
}

func seedWarmup(ctx context.Context, pool *pgxpool.Pool, users []int64) error {
	rows := []string{}
	args := []any{}
	for i, userID := range users[:numWarmupUsers] {
		rows = append(rows, fmt.Sprintf("($%d)", i+1))
		args = append(args, userID)
	}

	query := "INSERT INTO warmup_users (user_id) VALUES " + strings.Join(rows, ", ")
	_, err := pool.Exec(ctx, query, args...)
	return err
}

func cosine(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
