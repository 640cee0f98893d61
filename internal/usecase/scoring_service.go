package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kidmeals/backend/internal/domain"
	"github.com/kidmeals/backend/internal/logger"
)

// ScoringServiceConfig holds configuration for the scoring service
type ScoringServiceConfig struct {
	CacheTTL time.Duration
	Logger   *zap.Logger
}

// ScoringService annotates catalog foods with their scores, caching the
// annotation per food
type ScoringService struct {
	cache    domain.CacheRepository
	catalog  domain.FoodCatalog
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewScoringService creates a new scoring service with dependencies
func NewScoringService(
	cache domain.CacheRepository,
	catalog domain.FoodCatalog,
	config ScoringServiceConfig,
) *ScoringService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 720 * time.Hour // Default 30 days
	}

	log := config.Logger
	if log == nil {
		log = logger.L().Named("scoring")
	}

	return &ScoringService{
		cache:    cache,
		catalog:  catalog,
		cacheTTL: cacheTTL,
		logger:   log,
	}
}

// ScoredFood is a catalog food with its score annotation
type ScoredFood struct {
	Food   domain.FoodItem  `json:"food"`
	Score  domain.FoodScore `json:"score"`
	Source string           `json:"source"` // "computed" or "cache"
}

// GetScoredFood looks up a catalog food and attaches its scores.
// Flow: catalog -> cache -> compute -> cache -> return
func (s *ScoringService) GetScoredFood(ctx context.Context, id string) (*ScoredFood, error) {
	if id == "" {
		return nil, domain.ErrInvalidRequest
	}

	food, err := s.catalog.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	cacheKey := generateCacheKey(food.Key())
	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		return &ScoredFood{Food: *food, Score: *cached, Source: "cache"}, nil
	}

	score, err := s.scoreCatalogFood(ctx, *food)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cacheKey, score, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache food score", zap.String("food_id", food.Key()), zap.Error(err))
	}

	return &ScoredFood{Food: *food, Score: *score, Source: "computed"}, nil
}

// ListScoredFoods returns the catalog foods matching a filter with scores.
func (s *ScoringService) ListScoredFoods(ctx context.Context, filter domain.FoodFilter) ([]ScoredFood, error) {
	foods, err := s.catalog.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.scoreAll(ctx, foods)
}

// SearchScoredFoods searches the catalog and scores the matches.
func (s *ScoringService) SearchScoredFoods(ctx context.Context, query string, limit int) ([]ScoredFood, error) {
	if query == "" {
		return nil, domain.ErrInvalidRequest
	}
	foods, err := s.catalog.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return s.scoreAll(ctx, foods)
}

func (s *ScoringService) scoreAll(ctx context.Context, foods []domain.FoodItem) ([]ScoredFood, error) {
	results := make([]ScoredFood, 0, len(foods))
	for _, food := range foods {
		scored, err := s.GetScoredFood(ctx, food.Key())
		if err != nil {
			return nil, err
		}
		results = append(results, *scored)
	}
	return results, nil
}

// ScoreFood annotates an ad-hoc food, such as a barcode lookup result,
// without touching the cache.
func (s *ScoringService) ScoreFood(food domain.FoodItem) *domain.FoodScore {
	return &domain.FoodScore{
		FoodID:    food.Key(),
		Yuka:      ScoreFood(food),
		Additives: FoodAdditives(food),
	}
}

// scoreCatalogFood computes the annotation, adding the Nutri-Score grade
// when the catalog holds a yearly record for the food.
func (s *ScoringService) scoreCatalogFood(ctx context.Context, food domain.FoodItem) (*domain.FoodScore, error) {
	score := s.ScoreFood(food)

	history, err := s.catalog.NutriScoreHistory(ctx, food.Key())
	if err != nil {
		return nil, fmt.Errorf("loading nutri-score history: %w", err)
	}
	if len(history) > 0 {
		grade, err := ComputeNutriGrade(history)
		switch {
		case err == nil:
			score.NutriGrade = grade
		case errors.Is(err, domain.ErrInvalidInput):
			s.logger.Debug("no usable nutri-score year", zap.String("food_id", food.Key()))
		default:
			return nil, err
		}
	}

	return score, nil
}

// generateCacheKey creates the cache key of a food score.
// Format: "score:{food_key}"
func generateCacheKey(foodKey string) string {
	return fmt.Sprintf("score:%s", foodKey)
}

// getFromCache retrieves a food score from cache
func (s *ScoringService) getFromCache(ctx context.Context, key string) (*domain.FoodScore, error) {
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	switch v := value.(type) {
	case *domain.FoodScore:
		return v, nil
	case domain.FoodScore:
		return &v, nil
	case map[string]interface{}:
		// Stored as generic JSON by the memory cache
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, domain.ErrCacheMiss
		}
		var score domain.FoodScore
		if err := json.Unmarshal(raw, &score); err != nil {
			return nil, domain.ErrCacheMiss
		}
		return &score, nil
	}
	return nil, domain.ErrCacheMiss
}
