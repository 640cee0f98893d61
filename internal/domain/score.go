package domain

// NutriGrade is a Nutri-Score letter grade
type NutriGrade string

const (
	GradeA NutriGrade = "A"
	GradeB NutriGrade = "B"
	GradeC NutriGrade = "C"
	GradeD NutriGrade = "D"
	GradeE NutriGrade = "E"
)

// NutriScoreYear is one yearly entry of a product's Nutri-Score history.
// Only Data is used for scoring; the rest is carried for display.
type NutriScoreYear struct {
	Data       NutritionalFacts `json:"data"`
	Grade      string           `json:"grade,omitempty"`
	Applicable bool             `json:"nutriscore_applicable,omitempty"`
	Computed   bool             `json:"nutriscore_computed,omitempty"`
}

// YearlyNutriScoreRecord maps a year ("2023") to that year's entry
type YearlyNutriScoreRecord map[string]NutriScoreYear

// NutriScoreBreakdown details how a grade was reached
type NutriScoreBreakdown struct {
	Year               string     `json:"year"`
	EnergyPoints       int        `json:"energyPoints"`
	SugarPoints        int        `json:"sugarPoints"`
	SaturatedFatPoints int        `json:"saturatedFatPoints"`
	SodiumPoints       int        `json:"sodiumPoints"`
	FiberPoints        int        `json:"fiberPoints"`
	ProteinPoints      int        `json:"proteinPoints"`
	FruitVegPoints     int        `json:"fruitVegPoints"`
	NegativePoints     int        `json:"negativePoints"`
	PositivePoints     int        `json:"positivePoints"`
	FinalScore         int        `json:"finalScore"`
	Grade              NutriGrade `json:"grade"`
}

// YukaRating is the qualitative rating derived from a Yuka score
type YukaRating string

const (
	RatingExcellent YukaRating = "Excellent"
	RatingGood      YukaRating = "Good"
	RatingMediocre  YukaRating = "Mediocre"
	RatingPoor      YukaRating = "Poor"
)

// YukaScore is a 0-100 score with its rating
type YukaScore struct {
	Score  int        `json:"score"`
	Rating YukaRating `json:"rating"`
}

// FoodScore is the display annotation attached to a catalog food
type FoodScore struct {
	FoodID     string     `json:"foodId"`
	Yuka       YukaScore  `json:"yuka"`
	NutriGrade NutriGrade `json:"nutriGrade,omitempty"`
	Additives  []string   `json:"additives"`
}
