package catalog

import (
	"github.com/google/uuid"

	"github.com/kidmeals/backend/internal/domain"
)

// USDA FoodData Central nutrient IDs read from catalog entries
const (
	NutrientIDEnergy       = 1008 // Calories (kcal)
	NutrientIDProtein      = 1003 // Protein (g)
	NutrientIDCarbohydrate = 1005 // Carbohydrates (g)
	NutrientIDTotalFat     = 1004 // Total Fat (g)
	NutrientIDSaturatedFat = 1258 // Fatty acids, total saturated (g)
	NutrientIDSugars       = 2000 // Sugars, total (g)
	NutrientIDFiber        = 1079 // Fiber, total dietary (g)
	NutrientIDSodium       = 1093 // Sodium (mg)
)

// idNamespace seeds the stable ids of catalog entries that carry none
var idNamespace = uuid.MustParse("6f1c2b7e-4d0a-5c3e-9b8f-2a1d4e6c8b90")

// Nutrient is one USDA-style nutrient value of a catalog entry
type Nutrient struct {
	NutrientID int     `json:"nutrientId"`
	Name       string  `json:"nutrientName,omitempty"`
	UnitName   string  `json:"unitName,omitempty"`
	Value      float64 `json:"value"`
}

// Entry is one food of a catalog file
type Entry struct {
	ID              string                        `json:"id,omitempty"`
	Name            string                        `json:"name"`
	Category        domain.Category               `json:"category"`
	Meals           []domain.MealType             `json:"meal"`
	ServingSize     float64                       `json:"servingSize,omitempty"`
	ServingSizeUnit string                        `json:"servingSizeUnit,omitempty"`
	Additives       []string                      `json:"additives,omitempty"`
	IsOrganic       bool                          `json:"isOrganic,omitempty"`
	IngredientsText string                        `json:"ingredientsText,omitempty"`
	Nutrients       []Nutrient                    `json:"foodNutrients"`
	NutriScore      domain.YearlyNutriScoreRecord `json:"nutriscore,omitempty"`
}

// File is the top-level shape of a catalog file
type File struct {
	Foods []Entry `json:"foods"`
}

// MapToFoodItem converts a catalog entry to a domain food. Nutrients that
// are not listed stay zero, or nil for the optional ones.
func MapToFoodItem(e Entry) domain.FoodItem {
	food := domain.FoodItem{
		ID:              e.ID,
		Name:            e.Name,
		Category:        e.Category,
		Meals:           e.Meals,
		ServingSize:     e.ServingSize,
		ServingSizeUnit: e.ServingSizeUnit,
		Additives:       e.Additives,
		IsOrganic:       e.IsOrganic,
		IngredientsText: e.IngredientsText,
	}
	if food.ID == "" {
		food.ID = StableID(e.Name)
	}
	if food.Category == "" {
		food.Category = domain.CategoryOther
	}

	for _, n := range e.Nutrients {
		switch n.NutrientID {
		case NutrientIDEnergy:
			food.Calories = n.Value
		case NutrientIDProtein:
			food.Protein = n.Value
		case NutrientIDCarbohydrate:
			food.Carbs = n.Value
		case NutrientIDTotalFat:
			food.Fat = n.Value
		case NutrientIDSaturatedFat:
			food.SaturatedFat = domain.Float(n.Value)
		case NutrientIDSugars:
			food.Sugars = domain.Float(n.Value)
		case NutrientIDFiber:
			food.Fiber = domain.Float(n.Value)
		case NutrientIDSodium:
			food.Sodium = domain.Float(n.Value)
		}
	}

	return food
}

// StableID derives a deterministic id from a food name.
func StableID(name string) string {
	return uuid.NewSHA1(idNamespace, []byte(normalize(name))).String()
}
