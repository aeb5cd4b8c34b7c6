package observability

import (
	"context"
	"errors"

	"github.com/aretw0/moedit/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the editor's Prometheus collectors.
type Metrics struct {
	resolutions  *prometheus.CounterVec
	steps        *prometheus.CounterVec
	stepDuration *prometheus.HistogramVec
	saves        prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moedit_resolutions_total",
				Help: "Path resolutions by outcome",
			},
			[]string{"result"},
		),
		steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moedit_steps_total",
				Help: "Plan steps applied, by operation and outcome",
			},
			[]string{"op", "result"},
		),
		stepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "moedit_step_duration_seconds",
				Help:    "Duration of plan steps",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"op"},
		),
		saves: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "moedit_saves_total",
			Help: "Documents written back to the store",
		}),
	}

	for _, c := range []prometheus.Collector{m.resolutions, m.steps, m.stepDuration, m.saves} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns hooks that update the collectors.
func (m *Metrics) Hooks() domain.Hooks {
	return domain.Hooks{
		OnResolve: func(_ context.Context, e *domain.EditEvent) {
			m.resolutions.WithLabelValues(result(e.Err)).Inc()
		},
		OnStep: func(_ context.Context, e *domain.EditEvent) {
			m.steps.WithLabelValues(e.Op, result(e.Err)).Inc()
			m.stepDuration.WithLabelValues(e.Op).Observe(e.Duration.Seconds())
		},
		OnSave: func(_ context.Context, _ *domain.EditEvent) {
			m.saves.Inc()
		},
	}
}

// result labels an outcome by the sentinel it wraps.
func result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrAnchorNotFound):
		return "anchor_not_found"
	case errors.Is(err, domain.ErrAmbiguous):
		return "ambiguous"
	case errors.Is(err, domain.ErrInvalidPath), errors.Is(err, domain.ErrInvalidArgument):
		return "invalid"
	default:
		return "error"
	}
}
