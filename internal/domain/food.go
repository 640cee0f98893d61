package domain

import (
	"encoding/json"
	"fmt"
)

// Category is the catalog category of a food
type Category string

const (
	CategoryProteins   Category = "proteins"
	CategoryGrains     Category = "grains"
	CategoryFruits     Category = "fruits"
	CategoryVegetables Category = "vegetables"
	CategoryMilk       Category = "milk"
	CategoryCondiments Category = "condiments"
	CategoryOther      Category = "other"
)

// Categories lists every catalog category in display order.
var Categories = []Category{
	CategoryProteins, CategoryGrains, CategoryFruits, CategoryVegetables,
	CategoryMilk, CategoryCondiments, CategoryOther,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// MealType is one of the four meals of a day
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// MealTypes lists the meals of a day in order.
var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack}

// Valid reports whether m is a known meal type.
func (m MealType) Valid() bool {
	for _, known := range MealTypes {
		if m == known {
			return true
		}
	}
	return false
}

// FoodItem is a catalog food with its base nutrition at one serving
type FoodItem struct {
	ID              string     `json:"id,omitempty"`
	Name            string     `json:"name"`
	Category        Category   `json:"category"`
	Meals           []MealType `json:"meal,omitempty"`
	ServingSize     float64    `json:"servingSize,omitempty"`
	ServingSizeUnit string     `json:"servingSizeUnit,omitempty"`
	Calories        float64    `json:"calories"`
	Protein         float64    `json:"protein"`
	Carbs           float64    `json:"carbs"`
	Fat             float64    `json:"fat"`
	SaturatedFat    *float64   `json:"saturatedFat,omitempty"`
	Sugars          *float64   `json:"sugars,omitempty"`
	Sodium          *float64   `json:"sodium,omitempty"` // milligrams
	Fiber           *float64   `json:"fiber,omitempty"`
	Additives       []string   `json:"additives,omitempty"`
	IsOrganic       bool       `json:"isOrganic,omitempty"`
	IngredientsText string     `json:"ingredientsText,omitempty"`
}

// Key returns the identity of the food: its ID, or its name when it has none.
func (f FoodItem) Key() string {
	if f.ID != "" {
		return f.ID
	}
	return f.Name
}

// Clone returns a copy of f that shares no slices or pointers with it.
func (f FoodItem) Clone() FoodItem {
	if f.Meals != nil {
		f.Meals = append([]MealType(nil), f.Meals...)
	}
	if f.Additives != nil {
		f.Additives = append([]string(nil), f.Additives...)
	}
	f.SaturatedFat = cloneFloat(f.SaturatedFat)
	f.Sugars = cloneFloat(f.Sugars)
	f.Sodium = cloneFloat(f.Sodium)
	f.Fiber = cloneFloat(f.Fiber)
	return f
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return Float(*v)
}

// SameFood reports whether f and other identify the same food.
func (f FoodItem) SameFood(other FoodItem) bool {
	return f.Key() == other.Key()
}

// AllowedFor reports whether the food may be served at the given meal.
func (f FoodItem) AllowedFor(meal MealType) bool {
	for _, m := range f.Meals {
		if m == meal {
			return true
		}
	}
	return false
}

// SelectedFoodItem is a food chosen for a meal slot with its serving count.
// The adjusted values are base values times Servings.
type SelectedFoodItem struct {
	FoodItem
	Servings         float64  `json:"servings"`
	AdjustedCalories *float64 `json:"adjustedCalories,omitempty"`
	AdjustedProtein  *float64 `json:"adjustedProtein,omitempty"`
	AdjustedCarbs    *float64 `json:"adjustedCarbs,omitempty"`
	AdjustedFat      *float64 `json:"adjustedFat,omitempty"`
}

// Slot names a category slot of a meal selection
type Slot string

const (
	SlotProteins   Slot = "proteins"
	SlotGrains     Slot = "grains"
	SlotFruits     Slot = "fruits"
	SlotVegetables Slot = "vegetables"
	SlotMilk       Slot = "milk"
	SlotRanch      Slot = "ranch"
	SlotOther      Slot = "other"
	SlotCondiments Slot = "condiments"
)

// SingleSlots are the slots holding at most one food.
var SingleSlots = []Slot{
	SlotProteins, SlotGrains, SlotFruits, SlotVegetables, SlotMilk, SlotRanch, SlotOther,
}

// requiredSelectionKeys must be present in an encoded meal selection.
// "other" is only used by some clients and may be omitted.
var requiredSelectionKeys = []string{
	"proteins", "grains", "fruits", "vegetables", "milk", "ranch", "condiments",
}

// MealSelection is what a kid eats at one meal of one day
type MealSelection struct {
	Proteins   *SelectedFoodItem  `json:"proteins"`
	Grains     *SelectedFoodItem  `json:"grains"`
	Fruits     *SelectedFoodItem  `json:"fruits"`
	Vegetables *SelectedFoodItem  `json:"vegetables"`
	Milk       *SelectedFoodItem  `json:"milk"`
	Ranch      *SelectedFoodItem  `json:"ranch"`
	Other      *SelectedFoodItem  `json:"other,omitempty"`
	Condiments []SelectedFoodItem `json:"condiments"`
}

// Single returns the food held by a single-food slot.
func (s MealSelection) Single(slot Slot) (*SelectedFoodItem, error) {
	switch slot {
	case SlotProteins:
		return s.Proteins, nil
	case SlotGrains:
		return s.Grains, nil
	case SlotFruits:
		return s.Fruits, nil
	case SlotVegetables:
		return s.Vegetables, nil
	case SlotMilk:
		return s.Milk, nil
	case SlotRanch:
		return s.Ranch, nil
	case SlotOther:
		return s.Other, nil
	}
	return nil, fmt.Errorf("%w: %q is not a single-food slot", ErrMalformedSelection, slot)
}

// WithSingle returns a copy of s with the single-food slot set to item.
func (s MealSelection) WithSingle(slot Slot, item *SelectedFoodItem) (MealSelection, error) {
	switch slot {
	case SlotProteins:
		s.Proteins = item
	case SlotGrains:
		s.Grains = item
	case SlotFruits:
		s.Fruits = item
	case SlotVegetables:
		s.Vegetables = item
	case SlotMilk:
		s.Milk = item
	case SlotRanch:
		s.Ranch = item
	case SlotOther:
		s.Other = item
	default:
		return s, fmt.Errorf("%w: %q is not a single-food slot", ErrMalformedSelection, slot)
	}
	return s, nil
}

type mealSelectionJSON MealSelection

// UnmarshalJSON decodes a meal selection, rejecting objects that lack a
// required category key. A key holding null is a valid empty slot.
func (s *MealSelection) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("%w: selection is null", ErrMalformedSelection)
	}
	for _, key := range requiredSelectionKeys {
		if _, ok := raw[key]; !ok {
			return fmt.Errorf("%w: missing category %q", ErrMalformedSelection, key)
		}
	}

	var decoded mealSelectionJSON
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*s = MealSelection(decoded)
	return nil
}

// DayPlan holds the four meal selections of one kid for one day
type DayPlan struct {
	Breakfast MealSelection `json:"breakfast"`
	Lunch     MealSelection `json:"lunch"`
	Dinner    MealSelection `json:"dinner"`
	Snack     MealSelection `json:"snack"`
}

// Meal returns the selection of the given meal.
func (d DayPlan) Meal(meal MealType) (MealSelection, error) {
	switch meal {
	case MealBreakfast:
		return d.Breakfast, nil
	case MealLunch:
		return d.Lunch, nil
	case MealDinner:
		return d.Dinner, nil
	case MealSnack:
		return d.Snack, nil
	}
	return MealSelection{}, fmt.Errorf("%w: unknown meal %q", ErrMalformedSelection, meal)
}

type dayPlanJSON DayPlan

// UnmarshalJSON decodes a day plan, requiring all four meals.
func (d *DayPlan) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("%w: day is null", ErrMalformedSelection)
	}
	for _, meal := range MealTypes {
		if _, ok := raw[string(meal)]; !ok {
			return fmt.Errorf("%w: missing meal %q", ErrMalformedSelection, meal)
		}
	}

	var decoded dayPlanJSON
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*d = DayPlan(decoded)
	return nil
}

// DailyNutrition is the per-meal and total nutrition of a day
type DailyNutrition struct {
	Meals map[MealType]NutritionSummary `json:"meals"`
	Total NutritionSummary              `json:"total"`
}
