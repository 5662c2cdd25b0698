package libknot

import (
	"time"

	"github.com/2x3systems/goknot/goknot"
	"github.com/2x3systems/goknot/libknot/simplify"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts pipeline activity across any number of Analyzers.  A nil *Metrics records nothing.
type Metrics struct {
	CurvesLoaded     prometheus.Counter
	Crossings        prometheus.Histogram
	Reprojections    prometheus.Counter
	SimplifyMoves    prometheus.Counter
	SimplifyOutcomes *prometheus.CounterVec
	SolveDuration    prometheus.Histogram
	Errors           *prometheus.CounterVec
}

// NewMetrics registers the pipeline collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{}
	m.CurvesLoaded = promauto.With(reg).NewCounter(
		prometheus.CounterOpts{
			Name: "goknot_curves_loaded_total",
			Help: "Total number of curves loaded into analyzers",
		},
	)
	m.Crossings = promauto.With(reg).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "goknot_diagram_crossings",
			Help:    "Number of crossings per derived diagram",
			Buckets: []float64{0, 1, 3, 5, 10, 25, 50, 100, 250},
		},
	)
	m.Reprojections = promauto.With(reg).NewCounter(
		prometheus.CounterOpts{
			Name: "goknot_reprojections_total",
			Help: "Total number of alternate projection directions tried",
		},
	)
	m.SimplifyMoves = promauto.With(reg).NewCounter(
		prometheus.CounterOpts{
			Name: "goknot_simplify_moves_total",
			Help: "Total number of Reidemeister moves applied by the simplifier",
		},
	)
	m.SimplifyOutcomes = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "goknot_simplify_outcomes_total",
			Help: "Simplifications by outcome",
		},
		[]string{"outcome"},
	)
	m.SolveDuration = promauto.With(reg).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "goknot_alexander_duration_seconds",
			Help:    "Alexander polynomial computation duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1.0, 5.0, 30.0},
		},
	)
	m.Errors = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "goknot_errors_total",
			Help: "Pipeline errors by kind",
		},
		[]string{"kind"},
	)
	return m
}

func (m *Metrics) curveLoaded() {
	if m != nil {
		m.CurvesLoaded.Inc()
	}
}

func (m *Metrics) diagramBuilt(crossings, reprojections int) {
	if m != nil {
		m.Crossings.Observe(float64(crossings))
		m.Reprojections.Add(float64(reprojections))
	}
}

func (m *Metrics) simplified(res *simplify.Result) {
	if m == nil {
		return
	}
	m.SimplifyMoves.Add(float64(res.Moves))
	outcome := "stuck"
	switch {
	case res.Terminal():
		outcome = "unknot"
	case res.BudgetExceeded:
		outcome = "budget_exceeded"
	}
	m.SimplifyOutcomes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) solved(elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.SolveDuration.Observe(elapsed.Seconds())
	m.observeError(err)
}

func (m *Metrics) observeError(err error) {
	if m != nil && err != nil {
		m.Errors.WithLabelValues(goknot.KindOf(err).String()).Inc()
	}
}
