package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/vederko-p/RecService/internal/domain"
	"github.com/vederko-p/RecService/internal/model"
)

type fakeCache struct {
	entries map[string][]int64
	sets    int
	getErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]int64)}
}

func cacheKey(modelName string, userID int64, k int) string {
	return fmt.Sprintf("%s:%d:%d", modelName, userID, k)
}

func (c *fakeCache) Get(_ context.Context, modelName string, userID int64, k int) ([]int64, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	items, ok := c.entries[cacheKey(modelName, userID, k)]
	return items, ok, nil
}

func (c *fakeCache) Set(_ context.Context, modelName string, userID int64, k int, items []int64) error {
	c.sets++
	c.entries[cacheKey(modelName, userID, k)] = items
	return nil
}

func newTestService(cache RecoCache) *Service {
	return NewService(model.NewRegistry(model.NewStub()), cache, 10)
}

func TestGetReco(t *testing.T) {
	svc := newTestService(newFakeCache())

	result, err := svc.GetReco(context.Background(), model.StubName, 123)
	if err != nil {
		t.Fatalf("GetReco failed: %v", err)
	}
	if result.CacheHit {
		t.Error("first call should not be a cache hit")
	}
	if len(result.Items) != 10 {
		t.Errorf("expected 10 items, got %d", len(result.Items))
	}
}

func TestGetRecoUserOutOfBound(t *testing.T) {
	svc := newTestService(newFakeCache())

	_, err := svc.GetReco(context.Background(), model.StubName, 10_000_000_000)
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}

	// The bound itself is still a valid user.
	if _, err := svc.GetReco(context.Background(), model.StubName, 1_000_000_000); err != nil {
		t.Errorf("expected user at bound to be served, got %v", err)
	}
}

func TestGetRecoUnknownModel(t *testing.T) {
	svc := newTestService(newFakeCache())

	_, err := svc.GetReco(context.Background(), "some_model", 123)
	if !errors.Is(err, domain.ErrModelNotFound) {
		t.Errorf("expected ErrModelNotFound, got %v", err)
	}
}

func TestGetRecoCacheReadThrough(t *testing.T) {
	cache := newFakeCache()
	svc := newTestService(cache)

	first, err := svc.GetReco(context.Background(), model.StubName, 123)
	if err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	if cache.sets != 1 {
		t.Errorf("expected 1 cache set, got %d", cache.sets)
	}

	second, err := svc.GetReco(context.Background(), model.StubName, 123)
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}
	if !second.CacheHit {
		t.Error("second call should hit the cache")
	}
	if !reflect.DeepEqual(first.Items, second.Items) {
		t.Errorf("cached items differ: %v vs %v", first.Items, second.Items)
	}
}

func TestGetRecoSurvivesCacheFailure(t *testing.T) {
	cache := newFakeCache()
	cache.getErr = errors.New("redis down")
	svc := newTestService(cache)

	result, err := svc.GetReco(context.Background(), model.StubName, 123)
	if err != nil {
		t.Fatalf("cache failure should not fail the request: %v", err)
	}
	if len(result.Items) != 10 {
		t.Errorf("expected 10 items, got %d", len(result.Items))
	}
}
