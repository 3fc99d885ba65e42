package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scoreline_fits_total",
		Help: "Strength table fits completed",
	})

	FitFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scoreline_fit_failures_total",
		Help: "Strength table fits that could not load match records",
	})

	FitDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "scoreline_fit_duration_seconds",
		Help:    "Time spent loading records and fitting strengths",
		Buckets: prometheus.DefBuckets,
	})

	FittedTeams = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "scoreline_fitted_teams",
		Help: "Teams in the published strength table",
	})

	RepositoryHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scoreline_repository_reads_total",
		Help: "Strength repository reads by result",
	}, []string{"result"})

	PredictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scoreline_predictions_total",
		Help: "Predictions served, split by whether league means were used",
	}, []string{"fallback"})
)

// ObserveFit records one successful fit.
func ObserveFit(started time.Time, teams int) {
	FitsTotal.Inc()
	FitDuration.Observe(time.Since(started).Seconds())
	FittedTeams.Set(float64(teams))
}

// ObservePrediction counts one prediction.
func ObservePrediction(fallback bool) {
	PredictionsTotal.WithLabelValues(strconv.FormatBool(fallback)).Inc()
}
