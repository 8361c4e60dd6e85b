package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/vederko-p/RecService/internal/auth"
	"github.com/vederko-p/RecService/internal/cache"
	"github.com/vederko-p/RecService/internal/config"
	"github.com/vederko-p/RecService/internal/handler"
	"github.com/vederko-p/RecService/internal/model"
	"github.com/vederko-p/RecService/internal/repository"
	"github.com/vederko-p/RecService/internal/router"
	"github.com/vederko-p/RecService/internal/service"
	"github.com/vederko-p/RecService/seeds"
)

// Embedding index build parameters carried over from the offline training
// runs that produced the artifacts.
const (
	annM          = 10
	annEfC        = 20
	annThreads    = 8
	annMethod     = "hnsw"
	annSpace      = "negdotprod"
	segmentNUsers = 30
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config %v", err)
	}

	ctx := context.Background()

	// ------------ PostgreSQL ---------------
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to parse database config %v", err)
	}
	poolConfig.MaxConns = int32(cfg.DBPoolSize)
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatalf("failed to connect to database %v", err)
	}
	defer pool.Close()

	if err := waitForDB(ctx, pool); err != nil {
		log.Fatalf("database not ready: %v", err)
	}
	log.Println("connected to PostgreSQL")

	// ------------ Run Migrations ---------------
	// for migrate-down using CLI command
	if len(os.Args) > 1 && os.Args[1] == "migrate-down" {
		if err := migrateDown(ctx, pool); err != nil {
			log.Fatalf("failed to migrate down %v", err)
		}
		log.Println("migrations dropped")
		return
	}

	if err := migrateUp(ctx, pool); err != nil {
		log.Fatalf("failed to migrate up %v", err)
	}

	// ------------ Setup Seed Data ---------------
	if err := checkSeed(ctx, pool); err != nil {
		log.Fatalf("failed to check seed %v", err)
	}

	// ------------ Redis ---------------
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to parse redis config %v", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	recoCache := cache.NewCache(redisClient, cfg.CacheTTL)
	if err := recoCache.Ping(ctx); err != nil {
		log.Printf("redis not reachable, serving without cache hits: %v", err)
	} else {
		log.Println("connected to Redis")
	}

	// ------------ Models ---------------
	repo := repository.NewRepository(pool)
	registry, err := buildRegistry(ctx, repo, cfg)
	if err != nil {
		log.Fatalf("failed to build models %v", err)
	}

	// ------------ Auth ---------------
	verifier, err := auth.NewTokenVerifier(cfg.APITokenHash)
	if err != nil {
		log.Fatalf("failed to init token verifier %v", err)
	}

	// ---------------- Server --------------------
	svc := service.NewService(registry, recoCache, cfg.KRecs)
	h := handler.NewHandler(svc)
	r := router.Setup(h, verifier)

	log.Printf("Server running on %s", cfg.Addr())
	log.Fatal(http.ListenAndServe(cfg.Addr(), r))
}

// buildRegistry loads all artifacts, constructs every model once and returns
// the immutable registry. The segment model is warmed up here when enabled.
func buildRegistry(ctx context.Context, repo *repository.Repository, cfg *config.Config) (*model.Registry, error) {
	log.Println("[models] loading embedding artifacts")
	userEmbeds, err := repo.LoadUserEmbeddings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load user embeddings: %w", err)
	}
	itemEmbeds, err := repo.LoadItemEmbeddings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load item embeddings: %w", err)
	}
	pops, err := repo.LoadPopularItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("load popular items: %w", err)
	}

	log.Println("[models] building embedding index")
	annModel, err := model.NewEmbeddingANN(
		model.IndexParams{Method: annMethod, Space: annSpace},
		model.IndexTimeParams{M: annM, EfConstruction: annEfC, IndexThreadQty: annThreads},
		userEmbeds, itemEmbeds, pops,
	)
	if err != nil {
		return nil, fmt.Errorf("build embedding model: %w", err)
	}

	log.Println("[models] loading segment artifacts")
	userSegments, err := repo.LoadUserSegments(ctx)
	if err != nil {
		return nil, fmt.Errorf("load user segments: %w", err)
	}
	segmentData, err := repo.LoadSegmentData(ctx)
	if err != nil {
		return nil, fmt.Errorf("load segment data: %w", err)
	}

	subModels := make(map[int]*model.SegmentSubModel, len(segmentData))
	for segmentID, data := range segmentData {
		subModels[segmentID] = model.NewSegmentSubModel(data, segmentNUsers)
	}
	knnModel := model.NewSegmentKNN(userSegments, subModels, pops, cfg.KRecs)

	if cfg.WarmupEnabled {
		warmupUsers, err := repo.LoadWarmupUsers(ctx)
		if err != nil {
			return nil, fmt.Errorf("load warmup users: %w", err)
		}
		if len(warmupUsers) > 0 {
			log.Printf("[models] warming up segment model with %d users", len(warmupUsers))
			knnModel.Warmup(warmupUsers)
		}
	}

	return model.NewRegistry(model.NewStub(), annModel, knnModel), nil
}

func waitForDB(ctx context.Context, pool *pgxpool.Pool) error {
	for i := 0; i < 30; i++ {
		if err := pool.Ping(ctx); err == nil {
			return nil
		}
		log.Printf("waiting for database... (%d/30)", i+1)
		time.Sleep(1 * time.Second)
	}
	return fmt.Errorf("database connection timeout after 30s")
}

func migrateDown(ctx context.Context, pool *pgxpool.Pool) error {
	sql, err := os.ReadFile("migrations/create_tables.down.sql")
	if err != nil {
		return fmt.Errorf("read migration file: %w", err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("execute migration: %w", err)
	}
	log.Println("migrations dropped successfully")
	return nil
}

func migrateUp(ctx context.Context, pool *pgxpool.Pool) error {
	sql, err := os.ReadFile("migrations/create_tables.up.sql")
	if err != nil {
		return fmt.Errorf("read migration file: %w", err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("execute migration: %w", err)
	}
	log.Println("migrations applied successfully")
	return nil
}

func checkSeed(ctx context.Context, pool *pgxpool.Pool) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM user_embeddings").Scan(&count); err != nil {
		return fmt.Errorf("check embeddings count: %w", err)
	}
	if count > 0 {
		log.Printf("artifacts already seeded (%d user embeddings), skipping", count)
		return nil
	}
	return seeds.Setup(ctx, pool)
}
