package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository loads offline-training artifacts from Postgres. Everything is
// read once at startup; models keep the loaded structures in memory.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}
