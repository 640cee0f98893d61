package usecase

import (
	"fmt"
	"strconv"

	"github.com/kidmeals/backend/internal/domain"
)

// Nutri-Score breakpoint tables. A value scores the index of the first
// breakpoint it does not exceed; a value above every breakpoint scores
// len(table) for negative tables.
var (
	energyBreakpoints       = []float64{335, 670, 1005, 1340, 1675, 2010, 2345, 2680, 3015, 3350}
	sugarBreakpoints        = []float64{4.5, 9, 13.5, 18, 22.5, 27, 31, 36, 40, 45}
	saturatedFatBreakpoints = []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	sodiumBreakpoints       = []float64{0.09, 0.18, 0.27, 0.36, 0.45, 0.54, 0.63, 0.72, 0.81, 0.9} // grams
	fiberBreakpoints        = []float64{0.9, 1.9, 2.8, 3.7, 4.7}
	proteinBreakpoints      = []float64{1.6, 3.2, 4.8, 6.4, 8.0}
)

// ComputeNutriGrade returns the Nutri-Score grade of the most recent year
// of a record. An empty record fails with domain.ErrInvalidInput.
func ComputeNutriGrade(record domain.YearlyNutriScoreRecord) (domain.NutriGrade, error) {
	breakdown, err := ComputeNutriScore(record)
	if err != nil {
		return "", err
	}
	return breakdown.Grade, nil
}

// ComputeNutriScore scores the most recent year of a record and returns
// every point component along with the grade.
func ComputeNutriScore(record domain.YearlyNutriScoreRecord) (*domain.NutriScoreBreakdown, error) {
	year, ok := latestYear(record)
	if !ok {
		return nil, fmt.Errorf("%w: nutri-score record has no year", domain.ErrInvalidInput)
	}

	breakdown := ScoreNutriFacts(record[year].Data)
	breakdown.Year = year
	return breakdown, nil
}

// ScoreNutriFacts computes the Nutri-Score of a single set of facts.
func ScoreNutriFacts(facts domain.NutritionalFacts) *domain.NutriScoreBreakdown {
	b := &domain.NutriScoreBreakdown{
		EnergyPoints:       stepPoints(domain.Finite(facts.Energy), energyBreakpoints),
		SugarPoints:        stepPoints(domain.Finite(facts.Sugars), sugarBreakpoints),
		SaturatedFatPoints: stepPoints(domain.Finite(facts.SaturatedFat), saturatedFatBreakpoints),
		SodiumPoints:       stepPoints(domain.Finite(facts.Sodium)/1000, sodiumBreakpoints),
		FiberPoints:        stepPoints(domain.Finite(facts.Fiber), fiberBreakpoints),
		ProteinPoints:      stepPoints(domain.Finite(facts.Protein), proteinBreakpoints),
		FruitVegPoints:     fruitVegPoints(domain.Finite(facts.FruitVegLegumePercent)),
	}

	b.NegativePoints = b.EnergyPoints + b.SugarPoints + b.SaturatedFatPoints + b.SodiumPoints
	b.PositivePoints = b.FiberPoints + b.ProteinPoints + b.FruitVegPoints
	b.FinalScore = b.NegativePoints - b.PositivePoints
	b.Grade = gradeForScore(b.FinalScore)
	return b
}

// latestYear picks the numerically largest year key. Keys that are not
// integers are skipped.
func latestYear(record domain.YearlyNutriScoreRecord) (string, bool) {
	latest := ""
	latestValue := 0
	for key := range record {
		value, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		if latest == "" || value > latestValue {
			latest = key
			latestValue = value
		}
	}
	return latest, latest != ""
}

// stepPoints returns the index of the first breakpoint v does not exceed,
// or len(breakpoints) when v exceeds them all.
func stepPoints(v float64, breakpoints []float64) int {
	for i, bp := range breakpoints {
		if v <= bp {
			return i
		}
	}
	return len(breakpoints)
}

// fruitVegPoints only ever yields 0, 1, 2 or 5.
func fruitVegPoints(percent float64) int {
	switch {
	case percent <= 40:
		return 0
	case percent <= 60:
		return 1
	case percent <= 80:
		return 2
	default:
		return 5
	}
}

func gradeForScore(score int) domain.NutriGrade {
	switch {
	case score <= -1:
		return domain.GradeA
	case score <= 2:
		return domain.GradeB
	case score <= 10:
		return domain.GradeC
	case score <= 18:
		return domain.GradeD
	default:
		return domain.GradeE
	}
}
