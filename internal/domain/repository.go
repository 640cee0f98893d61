package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// FoodFilter narrows a catalog listing. Zero values match everything.
type FoodFilter struct {
	Category Category
	Meal     MealType
}

// FoodCatalog is the read-only source of foods
type FoodCatalog interface {
	List(ctx context.Context, filter FoodFilter) ([]FoodItem, error)
	Get(ctx context.Context, id string) (*FoodItem, error)
	Search(ctx context.Context, query string, limit int) ([]FoodItem, error)
	// NutriScoreHistory returns the yearly records of a food, if any
	NutriScoreHistory(ctx context.Context, id string) (YearlyNutriScoreRecord, error)
}
