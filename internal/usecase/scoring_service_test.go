package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kidmeals/backend/internal/domain"
	"github.com/kidmeals/backend/internal/logger"
)

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	data      map[string]interface{}
	getError  error
	setError  error
	getCalled bool
	setCalled bool
	lastTTL   time.Duration
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		data: make(map[string]interface{}),
	}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) (interface{}, error) {
	m.getCalled = true
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.setCalled = true
	m.lastTTL = ttl
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

// MockFoodCatalog is a mock implementation of domain.FoodCatalog
type MockFoodCatalog struct {
	foods        []domain.FoodItem
	history      map[string]domain.YearlyNutriScoreRecord
	listError    error
	historyError error
	lastQuery    string
}

func NewMockFoodCatalog(foods ...domain.FoodItem) *MockFoodCatalog {
	return &MockFoodCatalog{
		foods:   foods,
		history: make(map[string]domain.YearlyNutriScoreRecord),
	}
}

func (m *MockFoodCatalog) List(ctx context.Context, filter domain.FoodFilter) ([]domain.FoodItem, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	var result []domain.FoodItem
	for _, food := range m.foods {
		if filter.Category != "" && food.Category != filter.Category {
			continue
		}
		if filter.Meal != "" && !food.AllowedFor(filter.Meal) {
			continue
		}
		result = append(result, food)
	}
	return result, nil
}

func (m *MockFoodCatalog) Get(ctx context.Context, id string) (*domain.FoodItem, error) {
	for _, food := range m.foods {
		if food.Key() == id {
			f := food
			return &f, nil
		}
	}
	return nil, domain.ErrFoodNotFound
}

func (m *MockFoodCatalog) Search(ctx context.Context, query string, limit int) ([]domain.FoodItem, error) {
	m.lastQuery = query
	if limit <= 0 || limit > len(m.foods) {
		limit = len(m.foods)
	}
	return m.foods[:limit], nil
}

func (m *MockFoodCatalog) NutriScoreHistory(ctx context.Context, id string) (domain.YearlyNutriScoreRecord, error) {
	if m.historyError != nil {
		return nil, m.historyError
	}
	return m.history[id], nil
}

func TestNewScoringService(t *testing.T) {
	cache := NewMockCacheRepository()
	catalog := NewMockFoodCatalog()

	t.Run("creates service with default values", func(t *testing.T) {
		svc := NewScoringService(cache, catalog, ScoringServiceConfig{})
		require.NotNil(t, svc)
		assert.Equal(t, 720*time.Hour, svc.cacheTTL)
		assert.NotNil(t, svc.logger)
	})

	t.Run("falls back to the global logger", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		logger.Set(zap.New(core))
		t.Cleanup(func() { logger.Set(zap.NewNop()) })

		failing := NewMockCacheRepository()
		failing.setError = errors.New("cache down")
		svc := NewScoringService(failing, NewMockFoodCatalog(apple), ScoringServiceConfig{})

		_, err := svc.GetScoredFood(context.Background(), "apple")
		require.NoError(t, err)
		assert.Equal(t, 1, logs.FilterMessage("failed to cache food score").Len())
	})

	t.Run("creates service with custom values", func(t *testing.T) {
		svc := NewScoringService(cache, catalog, ScoringServiceConfig{CacheTTL: 24 * time.Hour})
		assert.Equal(t, 24*time.Hour, svc.cacheTTL)
	})
}

func TestGetScoredFood(t *testing.T) {
	ctx := context.Background()

	t.Run("returns error for empty id", func(t *testing.T) {
		svc := NewScoringService(NewMockCacheRepository(), NewMockFoodCatalog(), ScoringServiceConfig{})

		_, err := svc.GetScoredFood(ctx, "")
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("returns not found for unknown food", func(t *testing.T) {
		svc := NewScoringService(NewMockCacheRepository(), NewMockFoodCatalog(apple), ScoringServiceConfig{})

		_, err := svc.GetScoredFood(ctx, "pizza")
		if !errors.Is(err, domain.ErrFoodNotFound) {
			t.Errorf("error = %v, want ErrFoodNotFound", err)
		}
	})

	t.Run("computes and caches on miss", func(t *testing.T) {
		cache := NewMockCacheRepository()
		svc := NewScoringService(cache, NewMockFoodCatalog(apple), ScoringServiceConfig{CacheTTL: time.Hour})

		got, err := svc.GetScoredFood(ctx, "apple")
		require.NoError(t, err)

		assert.Equal(t, "computed", got.Source)
		assert.Equal(t, "apple", got.Score.FoodID)
		assert.Equal(t, ScoreFood(apple), got.Score.Yuka)
		assert.Empty(t, got.Score.NutriGrade)
		assert.True(t, cache.setCalled)
		assert.Equal(t, time.Hour, cache.lastTTL)
		assert.Contains(t, cache.data, "score:apple")
	})

	t.Run("returns cached score on hit", func(t *testing.T) {
		cache := NewMockCacheRepository()
		cached := &domain.FoodScore{FoodID: "apple", Yuka: domain.YukaScore{Score: 99, Rating: domain.RatingExcellent}}
		cache.data["score:apple"] = cached
		svc := NewScoringService(cache, NewMockFoodCatalog(apple), ScoringServiceConfig{})

		got, err := svc.GetScoredFood(ctx, "apple")
		require.NoError(t, err)
		assert.Equal(t, "cache", got.Source)
		assert.Equal(t, 99, got.Score.Yuka.Score)
		assert.False(t, cache.setCalled)
	})

	t.Run("decodes generic JSON stored by the cache", func(t *testing.T) {
		cache := NewMockCacheRepository()
		cache.data["score:apple"] = map[string]interface{}{
			"foodId":     "apple",
			"yuka":       map[string]interface{}{"score": 50.0, "rating": "Good"},
			"nutriGrade": "B",
			"additives":  []interface{}{},
		}
		svc := NewScoringService(cache, NewMockFoodCatalog(apple), ScoringServiceConfig{})

		got, err := svc.GetScoredFood(ctx, "apple")
		require.NoError(t, err)
		assert.Equal(t, "cache", got.Source)
		assert.Equal(t, domain.YukaScore{Score: 50, Rating: domain.RatingGood}, got.Score.Yuka)
		assert.Equal(t, domain.GradeB, got.Score.NutriGrade)
	})

	t.Run("ignores unexpected cached values", func(t *testing.T) {
		cache := NewMockCacheRepository()
		cache.data["score:apple"] = "garbage"
		svc := NewScoringService(cache, NewMockFoodCatalog(apple), ScoringServiceConfig{})

		got, err := svc.GetScoredFood(ctx, "apple")
		require.NoError(t, err)
		assert.Equal(t, "computed", got.Source)
	})

	t.Run("cache errors do not fail the request", func(t *testing.T) {
		cache := NewMockCacheRepository()
		cache.getError = errors.New("cache down")
		cache.setError = errors.New("cache down")
		svc := NewScoringService(cache, NewMockFoodCatalog(apple), ScoringServiceConfig{})

		got, err := svc.GetScoredFood(ctx, "apple")
		require.NoError(t, err)
		assert.Equal(t, "computed", got.Source)
	})

	t.Run("adds nutri-score grade from history", func(t *testing.T) {
		yogurt := domain.FoodItem{ID: "yogurt", Name: "Greek Yogurt", Category: domain.CategoryOther}
		catalog := NewMockFoodCatalog(yogurt)
		catalog.history["yogurt"] = domain.YearlyNutriScoreRecord{"2023": {Data: yogurtFacts()}}
		svc := NewScoringService(NewMockCacheRepository(), catalog, ScoringServiceConfig{})

		got, err := svc.GetScoredFood(ctx, "yogurt")
		require.NoError(t, err)
		assert.Equal(t, domain.GradeA, got.Score.NutriGrade)
	})

	t.Run("unusable history leaves grade empty", func(t *testing.T) {
		yogurt := domain.FoodItem{ID: "yogurt", Name: "Greek Yogurt"}
		catalog := NewMockFoodCatalog(yogurt)
		catalog.history["yogurt"] = domain.YearlyNutriScoreRecord{"latest": {Data: yogurtFacts()}}
		svc := NewScoringService(NewMockCacheRepository(), catalog, ScoringServiceConfig{})

		got, err := svc.GetScoredFood(ctx, "yogurt")
		require.NoError(t, err)
		assert.Empty(t, got.Score.NutriGrade)
	})

	t.Run("history errors propagate", func(t *testing.T) {
		catalog := NewMockFoodCatalog(apple)
		catalog.historyError = errors.New("disk error")
		svc := NewScoringService(NewMockCacheRepository(), catalog, ScoringServiceConfig{})

		_, err := svc.GetScoredFood(ctx, "apple")
		assert.Error(t, err)
	})
}

func TestListScoredFoods(t *testing.T) {
	ctx := context.Background()
	svc := NewScoringService(NewMockCacheRepository(), NewMockFoodCatalog(apple, chicken, ranch), ScoringServiceConfig{})

	t.Run("filters by meal", func(t *testing.T) {
		got, err := svc.ListScoredFoods(ctx, domain.FoodFilter{Meal: domain.MealDinner})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "chicken", got[0].Food.ID)
		assert.Equal(t, "ranch", got[1].Food.ID)
	})

	t.Run("second listing is served from cache", func(t *testing.T) {
		got, err := svc.ListScoredFoods(ctx, domain.FoodFilter{Category: domain.CategoryFruits})
		require.NoError(t, err)
		require.Len(t, got, 1)

		again, err := svc.ListScoredFoods(ctx, domain.FoodFilter{Category: domain.CategoryFruits})
		require.NoError(t, err)
		assert.Equal(t, "cache", again[0].Source)
		assert.Equal(t, got[0].Score, again[0].Score)
	})

	t.Run("catalog errors propagate", func(t *testing.T) {
		catalog := NewMockFoodCatalog()
		catalog.listError = domain.ErrInvalidRequest
		svc := NewScoringService(NewMockCacheRepository(), catalog, ScoringServiceConfig{})

		_, err := svc.ListScoredFoods(ctx, domain.FoodFilter{})
		assert.True(t, errors.Is(err, domain.ErrInvalidRequest))
	})
}

func TestSearchScoredFoods(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects empty query", func(t *testing.T) {
		svc := NewScoringService(NewMockCacheRepository(), NewMockFoodCatalog(apple), ScoringServiceConfig{})
		_, err := svc.SearchScoredFoods(ctx, "", 5)
		assert.True(t, errors.Is(err, domain.ErrInvalidRequest))
	})

	t.Run("scores search results", func(t *testing.T) {
		catalog := NewMockFoodCatalog(apple, chicken)
		svc := NewScoringService(NewMockCacheRepository(), catalog, ScoringServiceConfig{})

		got, err := svc.SearchScoredFoods(ctx, "apple", 1)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "apple", catalog.lastQuery)
		assert.Equal(t, "apple", got[0].Score.FoodID)
	})
}

func TestScoringService_ScoreFood(t *testing.T) {
	svc := NewScoringService(NewMockCacheRepository(), NewMockFoodCatalog(), ScoringServiceConfig{})

	got := svc.ScoreFood(domain.FoodItem{Name: "Soda", IngredientsText: "water, sugar, E150d, E211"})
	assert.Equal(t, "Soda", got.FoodID)
	assert.Equal(t, []string{"E150d", "E211"}, got.Additives)
	assert.Equal(t, 34, got.Yuka.Score)
}
