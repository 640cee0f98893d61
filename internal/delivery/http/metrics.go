package http

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/kidmeals/backend/internal/domain"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mealplanner_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mealplanner_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	nutriGradesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mealplanner_nutri_grades_total",
			Help: "Nutri-Score grades computed, by grade",
		},
		[]string{"grade"},
	)

	yukaRatingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mealplanner_yuka_ratings_total",
			Help: "Yuka scores computed, by rating",
		},
		[]string{"rating"},
	)

	rateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mealplanner_rate_limited_requests_total",
			Help: "Requests rejected by the per-client rate limiter",
		},
	)
)

// MetricsMiddleware records the count and latency of each request. The
// route template is used as the path label to keep cardinality bounded.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(path, c.Request.Method, status).Inc()
		httpRequestDuration.WithLabelValues(path, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// observeFoodScore counts the scores served for a catalog food
func observeFoodScore(score domain.FoodScore) {
	yukaRatingsTotal.WithLabelValues(string(score.Yuka.Rating)).Inc()
	if score.NutriGrade != "" {
		nutriGradesTotal.WithLabelValues(string(score.NutriGrade)).Inc()
	}
}
