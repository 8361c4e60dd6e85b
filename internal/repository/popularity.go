package repository

import (
	"context"
	"fmt"
)

// LoadPopularItems loads the global popularity list, most popular first.
func (r *Repository) LoadPopularItems(ctx context.Context) ([]int64, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT item_id FROM popular_items ORDER BY rank`,
	)
	if err != nil {
		return nil, fmt.Errorf("query popular items: %w", err)
	}
	defer rows.Close()

	var items []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan popular item: %w", err)
		}
		items = append(items, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over popular items: %w", err)
	}
	return items, nil
}

// LoadWarmupUsers loads the optional warmup user list. An empty table means
// no warmup.
func (r *Repository) LoadWarmupUsers(ctx context.Context) ([]int64, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id FROM warmup_users ORDER BY user_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query warmup users: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan warmup user: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over warmup users: %w", err)
	}
	return ids, nil
}
