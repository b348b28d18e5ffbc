package ai

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mealplanner_dish_cache_lookups_total",
		Help: "Dish cache lookups by layer and result.",
	}, []string{"layer", "result"})

	resolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mealplanner_ai_resolutions_total",
		Help: "AI resolution outcomes.",
	}, []string{"status"})

	generationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mealplanner_ai_generation_duration_seconds",
		Help:    "Latency of generation backend calls.",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
	})
)
