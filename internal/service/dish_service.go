package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/aaleksaaleksic/food-ordering-system/internal/domain"
	"github.com/aaleksaaleksic/food-ordering-system/internal/persistence"
	"github.com/aaleksaaleksic/food-ordering-system/internal/repository"
)

const (
	dishCacheKeyAvailable  = "dishes:available"
	dishCacheKeyAll        = "dishes:all"
	dishCacheKeyCategories = "dishes:categories"
)

// DishService serves the menu. Full listings go through a Redis read-through
// cache; a cache outage degrades to plain Postgres reads.
type DishService struct {
	dishes   repository.DishRepository
	cache    *persistence.Redis
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewDishService builds the service.
func NewDishService(dishes repository.DishRepository, cache *persistence.Redis, cacheTTL time.Duration, logger *zap.Logger) *DishService {
	return &DishService{dishes: dishes, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// ListAvailable returns orderable dishes.
func (s *DishService) ListAvailable(ctx context.Context) ([]domain.Dish, error) {
	return cachedList(ctx, s, dishCacheKeyAvailable, s.dishes.ListAvailable)
}

// ListAll returns the whole menu including unavailable dishes.
func (s *DishService) ListAll(ctx context.Context) ([]domain.Dish, error) {
	return cachedList(ctx, s, dishCacheKeyAll, s.dishes.ListAll)
}

// Get returns one dish.
func (s *DishService) Get(ctx context.Context, id int64) (*domain.Dish, error) {
	return s.dishes.GetByID(ctx, id)
}

// ListByCategory filters by category, optionally hiding unavailable dishes.
func (s *DishService) ListByCategory(ctx context.Context, category string, onlyAvailable bool) ([]domain.Dish, error) {
	return s.dishes.ListByCategory(ctx, category, onlyAvailable)
}

// SearchByName filters by a case-insensitive name fragment.
func (s *DishService) SearchByName(ctx context.Context, name string) ([]domain.Dish, error) {
	return s.dishes.SearchByName(ctx, name)
}

// Categories lists distinct menu categories.
func (s *DishService) Categories(ctx context.Context) ([]string, error) {
	return cachedList(ctx, s, dishCacheKeyCategories, s.dishes.Categories)
}

// SetAvailability toggles a dish and drops the stale cached listings.
func (s *DishService) SetAvailability(ctx context.Context, id int64, available bool) error {
	if err := s.dishes.SetAvailability(ctx, id, available); err != nil {
		return err
	}
	if err := s.cache.DeleteCached(ctx, dishCacheKeyAvailable, dishCacheKeyAll, dishCacheKeyCategories); err != nil {
		s.logger.Warn("dish cache invalidation failed", zap.Error(err))
	}
	return nil
}

// cachedList reads through the Redis cache: serve a hit, otherwise load from
// the repository and cache the JSON payload with the configured TTL.
func cachedList[T any](ctx context.Context, s *DishService, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	if payload, err := s.cache.GetCached(ctx, key); err == nil {
		var cached []T
		if err := json.Unmarshal(payload, &cached); err == nil {
			return cached, nil
		}
		s.logger.Warn("dropping undecodable dish cache entry", zap.String("key", key))
	} else if !persistence.IsCacheMiss(err) {
		s.logger.Warn("dish cache read failed", zap.Error(err))
	}

	items, err := load(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(items); err == nil {
		if err := s.cache.SetCached(ctx, key, payload, s.cacheTTL); err != nil {
			s.logger.Warn("dish cache write failed", zap.Error(err))
		}
	}
	return items, nil
}
