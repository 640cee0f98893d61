package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kidmeals/backend/internal/domain"
	"github.com/kidmeals/backend/internal/logger"
	"github.com/kidmeals/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	scoring *usecase.ScoringService
	goals   domain.DailyGoals
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler. A nil scoring service disables
// the catalog endpoints; the computation endpoints need no dependencies.
func NewHandler(scoring *usecase.ScoringService, goals domain.DailyGoals, log *zap.Logger) *Handler {
	if log == nil {
		log = logger.L().Named("http")
	}
	return &Handler{scoring: scoring, goals: goals, logger: log}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "mealplanner-backend",
		"version": "1.0.0",
	})
}

// ListFoods lists catalog foods with scores, optionally filtered by
// category and meal or searched by name with ?q=
func (h *Handler) ListFoods(c *gin.Context) {
	if h.scoring == nil {
		respondNotConfigured(c)
		return
	}

	ctx := c.Request.Context()
	if q := c.Query("q"); q != "" {
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
		if err != nil {
			h.respondError(c, domain.ErrInvalidRequest)
			return
		}
		foods, err := h.scoring.SearchScoredFoods(ctx, q, limit)
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"foods": foods, "count": len(foods)})
		return
	}

	filter := domain.FoodFilter{
		Category: domain.Category(c.Query("category")),
		Meal:     domain.MealType(c.Query("meal")),
	}
	foods, err := h.scoring.ListScoredFoods(ctx, filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"foods": foods, "count": len(foods)})
}

// GetFood returns one catalog food with its score annotation
func (h *Handler) GetFood(c *gin.Context) {
	if h.scoring == nil {
		respondNotConfigured(c)
		return
	}

	scored, err := h.scoring.GetScoredFood(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	observeFoodScore(scored.Score)
	c.JSON(http.StatusOK, scored)
}

type nutriScoreRequest struct {
	Record domain.YearlyNutriScoreRecord `json:"record"`
}

// ComputeNutriScore grades the most recent year of a Nutri-Score record
func (h *Handler) ComputeNutriScore(c *gin.Context) {
	var req nutriScoreRequest
	if !h.bind(c, &req) {
		return
	}

	breakdown, err := usecase.ComputeNutriScore(req.Record)
	if err != nil {
		h.respondError(c, err)
		return
	}
	nutriGradesTotal.WithLabelValues(string(breakdown.Grade)).Inc()
	c.JSON(http.StatusOK, breakdown)
}

type yukaRequest struct {
	Facts     *domain.NutritionalFacts `json:"facts"`
	Additives []string                 `json:"additives"`
	IsOrganic bool                     `json:"isOrganic"`
	Food      *domain.FoodItem         `json:"food"`
}

// ComputeYukaScore scores raw facts, or a catalog-shaped food
func (h *Handler) ComputeYukaScore(c *gin.Context) {
	var req yukaRequest
	if !h.bind(c, &req) {
		return
	}

	switch {
	case req.Food != nil:
		score := usecase.ScoreFood(*req.Food)
		yukaRatingsTotal.WithLabelValues(string(score.Rating)).Inc()
		c.JSON(http.StatusOK, gin.H{
			"score":     score.Score,
			"rating":    score.Rating,
			"additives": usecase.FoodAdditives(*req.Food),
		})
	case req.Facts != nil:
		additives := req.Additives
		if additives == nil {
			additives = req.Facts.Additives
		}
		score := usecase.ComputeYukaScore(*req.Facts, additives, req.IsOrganic || req.Facts.IsOrganic)
		yukaRatingsTotal.WithLabelValues(string(score.Rating)).Inc()
		c.JSON(http.StatusOK, score)
	default:
		h.respondError(c, fmt.Errorf("%w: either facts or food is required", domain.ErrInvalidRequest))
	}
}

type additivesRequest struct {
	IngredientsText string `json:"ingredientsText"`
}

// ExtractAdditives lists the E-numbers of an ingredient text with risks
func (h *Handler) ExtractAdditives(c *gin.Context) {
	var req additivesRequest
	if !h.bind(c, &req) {
		return
	}

	codes := usecase.ExtractAdditives(req.IngredientsText)
	risks := make(map[string]string, len(codes))
	for _, code := range codes {
		risks[code] = usecase.AdditiveRiskOf(code).String()
	}
	c.JSON(http.StatusOK, gin.H{"additives": codes, "risks": risks})
}

type mealNutritionRequest struct {
	Selection *domain.MealSelection `json:"selection"`
}

// MealNutrition totals the nutrition of one meal selection
func (h *Handler) MealNutrition(c *gin.Context) {
	var req mealNutritionRequest
	if !h.bind(c, &req) {
		return
	}
	if req.Selection == nil {
		h.respondError(c, domain.ErrMalformedSelection)
		return
	}

	c.JSON(http.StatusOK, usecase.ComputeMealNutrition(*req.Selection))
}

type dailyNutritionRequest struct {
	Day   *domain.DayPlan    `json:"day"`
	Goals *domain.DailyGoals `json:"goals"`
}

// DailyNutrition totals a day's meals and compares them with the goals
func (h *Handler) DailyNutrition(c *gin.Context) {
	var req dailyNutritionRequest
	if !h.bind(c, &req) {
		return
	}
	if req.Day == nil {
		h.respondError(c, domain.ErrMalformedSelection)
		return
	}

	goals := h.goals
	if req.Goals != nil {
		goals = *req.Goals
	}

	breakdown := usecase.ComputeDailyBreakdown(*req.Day)
	c.JSON(http.StatusOK, gin.H{
		"meals":    breakdown.Meals,
		"total":    breakdown.Total,
		"goals":    goals,
		"progress": usecase.ComputeGoalProgress(breakdown.Total, goals),
	})
}

type servingsRequest struct {
	Food     *domain.FoodItem `json:"food"`
	Servings float64          `json:"servings"`
}

// AdjustServings rescales a food to a serving count
func (h *Handler) AdjustServings(c *gin.Context) {
	var req servingsRequest
	if !h.bind(c, &req) {
		return
	}
	if req.Food == nil {
		h.respondError(c, domain.ErrInvalidRequest)
		return
	}

	selected, err := usecase.AdjustServings(*req.Food, req.Servings)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, selected)
}

type toggleRequest struct {
	Current   *domain.SelectedFoodItem `json:"current"`
	Candidate *domain.FoodItem         `json:"candidate"`
}

// ToggleFood selects or deselects a food in a single-food slot
func (h *Handler) ToggleFood(c *gin.Context) {
	var req toggleRequest
	if !h.bind(c, &req) {
		return
	}
	if req.Candidate == nil {
		h.respondError(c, domain.ErrInvalidRequest)
		return
	}

	c.JSON(http.StatusOK, gin.H{"selected": usecase.ToggleFoodSelection(req.Current, *req.Candidate)})
}

type condimentToggleRequest struct {
	Condiments []domain.SelectedFoodItem `json:"condiments"`
	Candidate  *domain.FoodItem          `json:"candidate"`
}

// ToggleCondiment adds or removes a condiment from a meal's list
func (h *Handler) ToggleCondiment(c *gin.Context) {
	var req condimentToggleRequest
	if !h.bind(c, &req) {
		return
	}
	if req.Candidate == nil {
		h.respondError(c, domain.ErrInvalidRequest)
		return
	}

	c.JSON(http.StatusOK, gin.H{"condiments": usecase.ToggleCondiment(req.Condiments, *req.Candidate)})
}

type slotToggleRequest struct {
	Selection *domain.MealSelection `json:"selection"`
	Meal      domain.MealType       `json:"meal"`
	Slot      domain.Slot           `json:"slot"`
	Candidate *domain.FoodItem      `json:"candidate"`
}

// ToggleSlot toggles a food in a named slot of a meal and returns the new
// selection with its nutrition
func (h *Handler) ToggleSlot(c *gin.Context) {
	var req slotToggleRequest
	if !h.bind(c, &req) {
		return
	}
	if req.Selection == nil {
		h.respondError(c, domain.ErrMalformedSelection)
		return
	}
	if req.Candidate == nil {
		h.respondError(c, domain.ErrInvalidRequest)
		return
	}

	selection, err := usecase.ToggleSlot(*req.Selection, req.Meal, req.Slot, *req.Candidate)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"selection": selection,
		"nutrition": usecase.ComputeMealNutrition(selection),
	})
}

// bind decodes the JSON body, responding 400 on failure
func (h *Handler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		if !errors.Is(err, domain.ErrMalformedSelection) {
			err = fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
		}
		h.respondError(c, err)
		return false
	}
	return true
}

// respondError maps domain errors to HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrFoodNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrMalformedSelection),
		errors.Is(err, domain.ErrFoodNotAllowed),
		errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

func respondNotConfigured(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"error": "Food catalog not configured",
	})
}

type slotServingsRequest struct {
	Selection *domain.MealSelection `json:"selection"`
	Slot      domain.Slot           `json:"slot"`
	FoodKey   string                `json:"foodKey"`
	Servings  float64               `json:"servings"`
}

// AdjustSlotServings rescales the food held in a slot of a meal
func (h *Handler) AdjustSlotServings(c *gin.Context) {
	var req slotServingsRequest
	if !h.bind(c, &req) {
		return
	}
	if req.Selection == nil {
		h.respondError(c, domain.ErrMalformedSelection)
		return
	}

	selection, err := usecase.AdjustSlotServings(*req.Selection, req.Slot, req.FoodKey, req.Servings)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"selection": selection,
		"nutrition": usecase.ComputeMealNutrition(selection),
	})
}
