package service

import (
	"context"
	"log"

	"github.com/vederko-p/RecService/internal/domain"
	"github.com/vederko-p/RecService/internal/model"
)

// maxKnownUserID is the synthetic bound of the known user universe. Ids above
// it are rejected as unknown before any model is consulted.
const maxKnownUserID = 1_000_000_000

// RecoCache is the read-through prediction cache the service consults before
// invoking a model. Implemented by the redis cache; tests inject a fake.
type RecoCache interface {
	Get(ctx context.Context, modelName string, userID int64, k int) ([]int64, bool, error)
	Set(ctx context.Context, modelName string, userID int64, k int, items []int64) error
}

type Service struct {
	registry *model.Registry
	cache    RecoCache
	kRecs    int
}

func NewService(registry *model.Registry, cache RecoCache, kRecs int) *Service {
	return &Service{
		registry: registry,
		cache:    cache,
		kRecs:    kRecs,
	}
}

// GetReco validates the request, resolves the model and predicts. The result
// size is the process-wide kRecs, never client-supplied. Cache failures are
// logged and the request proceeds without the cache.
func (s *Service) GetReco(ctx context.Context, modelName string, userID int64) (*domain.RecoResult, error) {
	if userID > maxKnownUserID {
		return nil, domain.ErrUserNotFound
	}

	m, ok := s.registry.Resolve(modelName)
	if !ok {
		return nil, domain.ErrModelNotFound
	}

	if cached, hit, err := s.cache.Get(ctx, modelName, userID, s.kRecs); err != nil {
		log.Printf("[service] cache get error for user %d: %v", userID, err)
	} else if hit {
		return &domain.RecoResult{Items: cached, CacheHit: true}, nil
	}

	items := m.Predict(userID, s.kRecs)

	if err := s.cache.Set(ctx, modelName, userID, s.kRecs, items); err != nil {
		log.Printf("[service] cache set error for user %d: %v", userID, err)
	}

	return &domain.RecoResult{Items: items, CacheHit: false}, nil
}
