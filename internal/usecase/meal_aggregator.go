package usecase

import (
	"fmt"
	"math"

	"github.com/kidmeals/backend/internal/domain"
)

// ComputeMealNutrition sums the adjusted nutrition of every food in a meal.
// An empty selection yields a zero summary.
func ComputeMealNutrition(selection domain.MealSelection) domain.NutritionSummary {
	var total domain.NutritionSummary
	for _, slot := range domain.SingleSlots {
		item, _ := selection.Single(slot)
		if item != nil {
			total = total.Add(itemNutrition(*item))
		}
	}
	for _, condiment := range selection.Condiments {
		total = total.Add(itemNutrition(condiment))
	}
	return total
}

// ComputeDailyTotals sums the nutrition of the four meals of a day.
func ComputeDailyTotals(day domain.DayPlan) domain.NutritionSummary {
	return ComputeDailyBreakdown(day).Total
}

// ComputeDailyBreakdown returns each meal's nutrition and the day total.
func ComputeDailyBreakdown(day domain.DayPlan) domain.DailyNutrition {
	result := domain.DailyNutrition{
		Meals: make(map[domain.MealType]domain.NutritionSummary, len(domain.MealTypes)),
	}
	for _, meal := range domain.MealTypes {
		selection, _ := day.Meal(meal)
		summary := ComputeMealNutrition(selection)
		result.Meals[meal] = summary
		result.Total = result.Total.Add(summary)
	}
	return result
}

// itemNutrition uses the adjusted values of a selected food, falling back
// to its base values when they are absent.
func itemNutrition(item domain.SelectedFoodItem) domain.NutritionSummary {
	return domain.NutritionSummary{
		Calories: adjustedOr(item.AdjustedCalories, item.Calories),
		Protein:  adjustedOr(item.AdjustedProtein, item.Protein),
		Carbs:    adjustedOr(item.AdjustedCarbs, item.Carbs),
		Fat:      adjustedOr(item.AdjustedFat, item.Fat),
	}
}

func adjustedOr(adjusted *float64, base float64) float64 {
	if adjusted != nil {
		return domain.Num(adjusted)
	}
	return domain.Finite(base)
}

// AdjustServings returns the food selected at the given serving count with
// its adjusted values recomputed from the base values. Servings must be
// strictly positive; callers remove the selection instead of storing zero.
func AdjustServings(food domain.FoodItem, servings float64) (domain.SelectedFoodItem, error) {
	if math.IsNaN(servings) || math.IsInf(servings, 0) || servings <= 0 {
		return domain.SelectedFoodItem{}, fmt.Errorf("%w: servings must be positive, got %v", domain.ErrValidation, servings)
	}

	scaled := domain.NutritionSummary{
		Calories: domain.Finite(food.Calories) * servings,
		Protein:  domain.Finite(food.Protein) * servings,
		Carbs:    domain.Finite(food.Carbs) * servings,
		Fat:      domain.Finite(food.Fat) * servings,
	}
	for _, v := range []float64{scaled.Calories, scaled.Protein, scaled.Carbs, scaled.Fat} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return domain.SelectedFoodItem{}, fmt.Errorf("%w: %v servings of %s overflow", domain.ErrValidation, servings, food.Name)
		}
	}

	return domain.SelectedFoodItem{
		FoodItem:         food.Clone(),
		Servings:         servings,
		AdjustedCalories: domain.Float(scaled.Calories),
		AdjustedProtein:  domain.Float(scaled.Protein),
		AdjustedCarbs:    domain.Float(scaled.Carbs),
		AdjustedFat:      domain.Float(scaled.Fat),
	}, nil
}

// selectOnce selects a food at one serving.
func selectOnce(food domain.FoodItem) domain.SelectedFoodItem {
	selected, _ := AdjustServings(food, 1)
	return selected
}

// ToggleFoodSelection deselects current when it is the candidate, and
// otherwise selects the candidate at one serving.
func ToggleFoodSelection(current *domain.SelectedFoodItem, candidate domain.FoodItem) *domain.SelectedFoodItem {
	if current != nil && current.SameFood(candidate) {
		return nil
	}
	selected := selectOnce(candidate)
	return &selected
}

// ToggleCondiment removes the candidate from the list when present and
// appends it at one serving otherwise. The input list is left untouched.
func ToggleCondiment(list []domain.SelectedFoodItem, candidate domain.FoodItem) []domain.SelectedFoodItem {
	result := make([]domain.SelectedFoodItem, 0, len(list)+1)
	removed := false
	for _, item := range list {
		if item.SameFood(candidate) {
			removed = true
			continue
		}
		result = append(result, item)
	}
	if !removed {
		result = append(result, selectOnce(candidate))
	}
	return result
}

// ToggleSlot toggles a candidate in one slot of a meal and returns the new
// selection. A candidate being selected must be served at the given meal.
func ToggleSlot(
	selection domain.MealSelection,
	meal domain.MealType,
	slot domain.Slot,
	candidate domain.FoodItem,
) (domain.MealSelection, error) {
	if !meal.Valid() {
		return selection, fmt.Errorf("%w: unknown meal %q", domain.ErrMalformedSelection, meal)
	}
	notAllowed := fmt.Errorf("%w: %s is not served at %s", domain.ErrFoodNotAllowed, candidate.Name, meal)

	// deselecting is always permitted; only new selections must fit the meal
	if slot == domain.SlotCondiments {
		if !containsFood(selection.Condiments, candidate) && !candidate.AllowedFor(meal) {
			return selection, notAllowed
		}
		selection.Condiments = ToggleCondiment(selection.Condiments, candidate)
		return selection, nil
	}

	current, err := selection.Single(slot)
	if err != nil {
		return selection, err
	}
	if (current == nil || !current.SameFood(candidate)) && !candidate.AllowedFor(meal) {
		return selection, notAllowed
	}
	return selection.WithSingle(slot, ToggleFoodSelection(current, candidate))
}

func containsFood(list []domain.SelectedFoodItem, food domain.FoodItem) bool {
	for _, item := range list {
		if item.SameFood(food) {
			return true
		}
	}
	return false
}

// AdjustSlotServings rescales the food identified by foodKey in a slot of
// a meal and returns the new selection.
func AdjustSlotServings(
	selection domain.MealSelection,
	slot domain.Slot,
	foodKey string,
	servings float64,
) (domain.MealSelection, error) {
	if slot == domain.SlotCondiments {
		condiments := make([]domain.SelectedFoodItem, len(selection.Condiments))
		found := false
		for i, item := range selection.Condiments {
			if item.Key() == foodKey && !found {
				adjusted, err := AdjustServings(item.FoodItem, servings)
				if err != nil {
					return selection, err
				}
				condiments[i] = adjusted
				found = true
				continue
			}
			condiments[i] = item
		}
		if !found {
			return selection, fmt.Errorf("%w: %q is not among the condiments", domain.ErrFoodNotFound, foodKey)
		}
		selection.Condiments = condiments
		return selection, nil
	}

	current, err := selection.Single(slot)
	if err != nil {
		return selection, err
	}
	if current == nil || current.Key() != foodKey {
		return selection, fmt.Errorf("%w: %q is not selected in %s", domain.ErrFoodNotFound, foodKey, slot)
	}
	adjusted, err := AdjustServings(current.FoodItem, servings)
	if err != nil {
		return selection, err
	}
	return selection.WithSingle(slot, &adjusted)
}

// ComputeGoalProgress compares day totals against the daily goals. A goal
// of zero reports zero percent.
func ComputeGoalProgress(totals domain.NutritionSummary, goals domain.DailyGoals) domain.GoalProgress {
	return domain.GoalProgress{
		Calories: nutrientProgress(totals.Calories, goals.Calories),
		Protein:  nutrientProgress(totals.Protein, goals.Protein),
		Carbs:    nutrientProgress(totals.Carbs, goals.Carbs),
		Fat:      nutrientProgress(totals.Fat, goals.Fat),
	}
}

func nutrientProgress(consumed, goal float64) domain.NutrientProgress {
	progress := domain.NutrientProgress{
		Consumed:  consumed,
		Goal:      goal,
		Remaining: math.Max(goal-consumed, 0),
	}
	if goal > 0 {
		progress.Percent = math.Round(consumed/goal*1000) / 10
	}
	return progress
}
