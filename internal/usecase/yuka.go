package usecase

import (
	"math"
	"regexp"

	"github.com/kidmeals/backend/internal/domain"
)

// Descending thresholds for Yuka nutritional points. The first threshold
// a value exceeds awards (maxPoints - index) points.
var (
	yukaEnergyThresholds       = []float64{3350, 3015, 2680, 2345, 2010, 1675, 1340, 1005, 670, 335}
	yukaSaturatedFatThresholds = []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}
	yukaSugarThresholds        = []float64{45, 40, 36, 31, 27, 22.5, 18, 13.5, 9, 4.5}
	yukaSodiumThresholds       = []float64{900, 810, 720, 630, 540, 450, 360, 270, 180, 90} // milligrams
	yukaFiberThresholds        = []float64{4.7, 3.7, 2.8, 1.9, 0.9}
	yukaProteinThresholds      = []float64{8.0, 6.4, 4.8, 3.2, 1.6}
	yukaFruitVegThresholds     = []float64{80, 60, 40}
)

const (
	minNutritionalPoints = -15
	maxNutritionalPoints = 40
	nutritionalScale     = 60.0
	maxAdditiveScore     = 30
	organicBonus         = 10
	maxYukaScore         = 100

	// saturatedFatShare estimates saturated fat from total fat when a
	// catalog food does not declare it
	saturatedFatShare = 0.4
)

// AdditiveRisk is the health risk level of a food additive
type AdditiveRisk int

const (
	RiskNone AdditiveRisk = iota
	RiskLow
	RiskModerate
	RiskHigh
)

// penalty is the number of points an additive of this risk costs.
func (r AdditiveRisk) penalty() int {
	switch r {
	case RiskHigh:
		return 6
	case RiskModerate:
		return 3
	case RiskLow:
		return 1
	default:
		return 0
	}
}

func (r AdditiveRisk) String() string {
	switch r {
	case RiskHigh:
		return "high"
	case RiskModerate:
		return "moderate"
	case RiskLow:
		return "low"
	default:
		return "none"
	}
}

// additiveRisks classifies known E-numbers. Codes not listed carry no penalty.
var additiveRisks = map[string]AdditiveRisk{
	// colourings
	"E102": RiskHigh, "E104": RiskHigh, "E110": RiskHigh, "E122": RiskHigh,
	"E124": RiskHigh, "E129": RiskHigh, "E150c": RiskHigh, "E150d": RiskHigh,
	"E171": RiskHigh,
	// preservatives
	"E211": RiskHigh, "E249": RiskHigh, "E250": RiskHigh, "E251": RiskHigh,
	"E252": RiskHigh, "E220": RiskModerate, "E223": RiskModerate,
	"E202": RiskModerate, "E200": RiskLow,
	// antioxidants
	"E320": RiskHigh, "E321": RiskHigh, "E310": RiskModerate,
	"E300": RiskLow, "E306": RiskLow, "E330": RiskLow,
	// sweeteners
	"E950": RiskModerate, "E951": RiskHigh, "E952": RiskHigh, "E954": RiskHigh,
	"E955": RiskModerate, "E960": RiskLow,
	// emulsifiers, thickeners, stabilisers
	"E407": RiskModerate, "E433": RiskModerate, "E450": RiskModerate,
	"E451": RiskModerate, "E452": RiskModerate, "E466": RiskModerate,
	"E471": RiskLow, "E322": RiskLow, "E412": RiskLow, "E415": RiskLow,
	"E440": RiskLow,
	// flavour enhancers
	"E621": RiskModerate, "E627": RiskModerate, "E631": RiskModerate,
	"E635": RiskModerate,
}

// additivePattern matches E-numbers such as E211 or E150c.
var additivePattern = regexp.MustCompile(`E\d{3,4}[a-z]?`)

// ComputeYukaScore blends nutritional density (0-60), additive risk (0-30)
// and an organic bonus (10) into a 0-100 score.
func ComputeYukaScore(facts domain.NutritionalFacts, additives []string, isOrganic bool) domain.YukaScore {
	normalized := (float64(nutritionalPoints(facts)-minNutritionalPoints) /
		float64(maxNutritionalPoints-minNutritionalPoints)) * nutritionalScale

	total := normalized + float64(additiveScore(additives))
	if isOrganic {
		total += organicBonus
	}

	score := int(math.Round(total))
	if score > maxYukaScore {
		score = maxYukaScore
	}
	if score < 0 {
		score = 0
	}

	return domain.YukaScore{Score: score, Rating: RatingForScore(score)}
}

// RatingForScore maps a Yuka score to its rating.
func RatingForScore(score int) domain.YukaRating {
	switch {
	case score >= 75:
		return domain.RatingExcellent
	case score >= 50:
		return domain.RatingGood
	case score >= 25:
		return domain.RatingMediocre
	default:
		return domain.RatingPoor
	}
}

// nutritionalPoints returns positive minus negative points clamped to [-15, 40].
func nutritionalPoints(facts domain.NutritionalFacts) int {
	negative := descendingPoints(domain.Finite(facts.Energy), yukaEnergyThresholds) +
		descendingPoints(domain.Finite(facts.SaturatedFat), yukaSaturatedFatThresholds) +
		descendingPoints(domain.Finite(facts.Sugars), yukaSugarThresholds) +
		descendingPoints(domain.Finite(facts.Sodium), yukaSodiumThresholds)

	positive := descendingPoints(domain.Finite(facts.Fiber), yukaFiberThresholds) +
		descendingPoints(domain.Finite(facts.Protein), yukaProteinThresholds) +
		descendingPoints(domain.Finite(facts.FruitVegLegumePercent), yukaFruitVegThresholds)

	points := positive - negative
	if points < minNutritionalPoints {
		return minNutritionalPoints
	}
	if points > maxNutritionalPoints {
		return maxNutritionalPoints
	}
	return points
}

// descendingPoints scans thresholds from the highest down and awards
// len(thresholds)-index points for the first one v exceeds.
func descendingPoints(v float64, thresholds []float64) int {
	for i, threshold := range thresholds {
		if v > threshold {
			return len(thresholds) - i
		}
	}
	return 0
}

// additiveScore starts at 30 and subtracts each known additive's penalty.
func additiveScore(additives []string) int {
	score := maxAdditiveScore
	for _, code := range additives {
		score -= AdditiveRiskOf(code).penalty()
	}
	if score < 0 {
		return 0
	}
	return score
}

// AdditiveRiskOf returns the risk level of an E-number.
func AdditiveRiskOf(code string) AdditiveRisk {
	return additiveRisks[code]
}

// ExtractAdditives returns every E-number in an ingredient list, in order
// of appearance, duplicates included.
func ExtractAdditives(ingredientsText string) []string {
	matches := additivePattern.FindAllString(ingredientsText, -1)
	if matches == nil {
		return []string{}
	}
	return matches
}

// FactsFromFood builds scoring facts from a catalog food. It is a
// heuristic: saturated fat defaults to 40% of total fat and only fruits
// and vegetables count as 100% fruit/vegetable content.
func FactsFromFood(food domain.FoodItem) domain.NutritionalFacts {
	facts := domain.NutritionalFacts{
		Energy:    domain.Finite(food.Calories),
		Protein:   domain.Finite(food.Protein),
		Sugars:    domain.Num(food.Sugars),
		Sodium:    domain.Num(food.Sodium),
		Fiber:     domain.Num(food.Fiber),
		Fat:       domain.Float(domain.Finite(food.Fat)),
		Carbs:     domain.Float(domain.Finite(food.Carbs)),
		Additives: food.Additives,
		IsOrganic: food.IsOrganic,
	}

	if food.SaturatedFat != nil {
		facts.SaturatedFat = domain.Num(food.SaturatedFat)
	} else {
		facts.SaturatedFat = domain.Finite(food.Fat) * saturatedFatShare
	}

	if food.Category == domain.CategoryFruits || food.Category == domain.CategoryVegetables {
		facts.FruitVegLegumePercent = 100
	}

	return facts
}

// ScoreFood computes the Yuka score of a catalog food. Declared additives
// take precedence over ones parsed from the ingredient text.
func ScoreFood(food domain.FoodItem) domain.YukaScore {
	return ComputeYukaScore(FactsFromFood(food), FoodAdditives(food), food.IsOrganic)
}

// FoodAdditives returns the declared additives of a food, falling back to
// those found in its ingredient text.
func FoodAdditives(food domain.FoodItem) []string {
	if len(food.Additives) > 0 {
		return food.Additives
	}
	return ExtractAdditives(food.IngredientsText)
}
