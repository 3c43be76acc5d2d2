package manager

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	loadsMetric = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storyforge",
			Subsystem: "manager",
			Name:      "model_loads_total",
			Help:      "Model load attempts by outcome (loaded, cached, error)",
		},
		[]string{"outcome"},
	)

	generationsMetric = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storyforge",
			Subsystem: "manager",
			Name:      "generations_total",
			Help:      "Generations by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	generationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "storyforge",
			Subsystem: "manager",
			Name:      "generation_duration_seconds",
			Help:      "Wall-clock duration of engine invocations",
			Buckets:   []float64{1, 5, 10, 20, 30, 60, 90, 120, 180},
		},
		[]string{"mode"},
	)
)

func init() {
	prometheus.MustRegister(loadsMetric, generationsMetric, generationDuration)
}

func observeGeneration(mode string, err error, dur time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	generationsMetric.WithLabelValues(mode, outcome).Inc()
	generationDuration.WithLabelValues(mode).Observe(dur.Seconds())
}
