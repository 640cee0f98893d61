package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/kidmeals/backend/internal/domain"
)

//go:embed seed.json
var seedCatalog []byte

// Catalog is a read-only, in-memory food catalog, safe for concurrent use.
// Foods handed out are detached copies.
type Catalog struct {
	foods   []domain.FoodItem
	byID    map[string]int
	history map[string]domain.YearlyNutriScoreRecord
}

// LoadFile reads a catalog from a JSON file
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

// LoadSeed returns the built-in catalog
func LoadSeed() (*Catalog, error) {
	return Parse(seedCatalog)
}

// Parse decodes a catalog document and validates every entry
func Parse(data []byte) (*Catalog, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var file File
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return New(file.Foods)
}

// New builds a catalog from entries, rejecting unnamed foods, unknown
// categories or meals, and duplicate ids
func New(entries []Entry) (*Catalog, error) {
	c := &Catalog{
		foods:   make([]domain.FoodItem, 0, len(entries)),
		byID:    make(map[string]int, len(entries)),
		history: make(map[string]domain.YearlyNutriScoreRecord),
	}

	for i, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("catalog entry %d: name is required", i)
		}
		food := MapToFoodItem(e)
		if !food.Category.Valid() {
			return nil, fmt.Errorf("catalog entry %q: unknown category %q", e.Name, food.Category)
		}
		for _, meal := range food.Meals {
			if !meal.Valid() {
				return nil, fmt.Errorf("catalog entry %q: unknown meal %q", e.Name, meal)
			}
		}
		if _, dup := c.byID[food.ID]; dup {
			return nil, fmt.Errorf("catalog entry %q: duplicate id %s", e.Name, food.ID)
		}

		c.byID[food.ID] = len(c.foods)
		c.foods = append(c.foods, food)
		if len(e.NutriScore) > 0 {
			c.history[food.ID] = e.NutriScore
		}
	}

	return c, nil
}

// Len returns the number of foods in the catalog
func (c *Catalog) Len() int {
	return len(c.foods)
}

// List returns the foods matching filter, sorted by category then name
func (c *Catalog) List(ctx context.Context, filter domain.FoodFilter) ([]domain.FoodItem, error) {
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidRequest, filter.Category)
	}
	if filter.Meal != "" && !filter.Meal.Valid() {
		return nil, fmt.Errorf("%w: unknown meal %q", domain.ErrInvalidRequest, filter.Meal)
	}

	result := make([]domain.FoodItem, 0, len(c.foods))
	for _, food := range c.foods {
		if filter.Category != "" && food.Category != filter.Category {
			continue
		}
		if filter.Meal != "" && !food.AllowedFor(filter.Meal) {
			continue
		}
		result = append(result, food.Clone())
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Category != result[j].Category {
			return categoryRank(result[i].Category) < categoryRank(result[j].Category)
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

// Get returns the food with the given id
func (c *Catalog) Get(ctx context.Context, id string) (*domain.FoodItem, error) {
	i, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrFoodNotFound, id)
	}
	food := c.foods[i].Clone()
	return &food, nil
}

// NutriScoreHistory returns the yearly Nutri-Score records of a food.
// Foods without history return an empty record.
func (c *Catalog) NutriScoreHistory(ctx context.Context, id string) (domain.YearlyNutriScoreRecord, error) {
	if _, ok := c.byID[id]; !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrFoodNotFound, id)
	}
	return c.history[id], nil
}

func categoryRank(cat domain.Category) int {
	for i, known := range domain.Categories {
		if known == cat {
			return i
		}
	}
	return len(domain.Categories)
}
