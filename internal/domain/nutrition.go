package domain

import "math"

// NutritionalFacts holds the raw nutrition facts of a food per reference
// serving (usually 100g or the declared serving size).
type NutritionalFacts struct {
	Energy                float64  `json:"energy"`       // kcal
	Sugars                float64  `json:"sugars"`       // grams
	SaturatedFat          float64  `json:"saturatedFat"` // grams
	Sodium                float64  `json:"sodium"`       // milligrams
	Fiber                 float64  `json:"fiber"`        // grams
	Protein               float64  `json:"protein"`      // grams
	FruitVegLegumePercent float64  `json:"fruitVegLegumePercent"`
	Fat                   *float64 `json:"fat,omitempty"`
	Carbs                 *float64 `json:"carbs,omitempty"`
	Additives             []string `json:"additives,omitempty"`
	IsOrganic             bool     `json:"isOrganic,omitempty"`
}

// NutritionSummary is the macro total of a meal or a day
type NutritionSummary struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Add returns the component-wise sum of s and other.
func (s NutritionSummary) Add(other NutritionSummary) NutritionSummary {
	return NutritionSummary{
		Calories: s.Calories + other.Calories,
		Protein:  s.Protein + other.Protein,
		Carbs:    s.Carbs + other.Carbs,
		Fat:      s.Fat + other.Fat,
	}
}

// DailyGoals are the daily macro targets for a kid
type DailyGoals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// NutrientProgress tracks one nutrient against its goal
type NutrientProgress struct {
	Consumed  float64 `json:"consumed"`
	Goal      float64 `json:"goal"`
	Remaining float64 `json:"remaining"`
	Percent   float64 `json:"percent"`
}

// GoalProgress tracks every macro of a day against the daily goals
type GoalProgress struct {
	Calories NutrientProgress `json:"calories"`
	Protein  NutrientProgress `json:"protein"`
	Carbs    NutrientProgress `json:"carbs"`
	Fat      NutrientProgress `json:"fat"`
}

// Num coerces an optional numeric value to a finite number, treating
// missing, NaN and infinite values as 0.
func Num(v *float64) float64 {
	if v == nil {
		return 0
	}
	return Finite(*v)
}

// Finite returns v, or 0 when v is NaN or infinite.
func Finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}
