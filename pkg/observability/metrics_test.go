package observability_test

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/aretw0/moedit/internal/logging"
	"github.com/aretw0/moedit/pkg/domain"
	"github.com/aretw0/moedit/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterValue finds the sample of name whose labels match want.
func counterValue(t *testing.T, reg *prometheus.Registry, name string, want map[string]string) float64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if labelsMatch(m, want) {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func labelsMatch(m *dto.Metric, want map[string]string) bool {
	if len(m.GetLabel()) != len(want) {
		return false
	}
	for _, l := range m.GetLabel() {
		if want[l.GetName()] != l.GetValue() {
			return false
		}
	}
	return true
}

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	hooks := m.Hooks()
	ctx := context.Background()

	domain.Emit(ctx, hooks.OnResolve, &domain.EditEvent{Type: domain.EventResolve})
	domain.Emit(ctx, hooks.OnResolve, &domain.EditEvent{
		Type: domain.EventResolve,
		Err:  domain.NewEditError("resolve", domain.ErrNotFound, "H", ""),
	})
	domain.Emit(ctx, hooks.OnStep, &domain.EditEvent{Type: domain.EventStepApply, Op: "clone", Duration: time.Millisecond})
	domain.Emit(ctx, hooks.OnStep, &domain.EditEvent{
		Type: domain.EventStepApply,
		Op:   "clone",
		Err:  fmt.Errorf("step 1: %w", domain.ErrAmbiguous),
	})
	domain.Emit(ctx, hooks.OnSave, &domain.EditEvent{Type: domain.EventSave})

	assert.Equal(t, 1.0, counterValue(t, reg, "moedit_resolutions_total", map[string]string{"result": "ok"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "moedit_resolutions_total", map[string]string{"result": "not_found"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "moedit_steps_total", map[string]string{"op": "clone", "result": "ok"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "moedit_steps_total", map[string]string{"op": "clone", "result": "ambiguous"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "moedit_saves_total", map[string]string{}))
}

func TestNewMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	_, err = observability.NewMetrics(reg)
	assert.Error(t, err)
}

func TestChain(t *testing.T) {
	var calls []string
	first := domain.Hooks{OnStep: func(context.Context, *domain.EditEvent) { calls = append(calls, "first") }}
	second := domain.Hooks{
		OnStep: func(context.Context, *domain.EditEvent) { calls = append(calls, "second") },
		OnSave: func(context.Context, *domain.EditEvent) { calls = append(calls, "save") },
	}

	chained := observability.Chain(first, second)
	assert.Nil(t, chained.OnResolve)

	ctx := context.Background()
	domain.Emit(ctx, chained.OnStep, &domain.EditEvent{})
	domain.Emit(ctx, chained.OnSave, &domain.EditEvent{})
	assert.Equal(t, []string{"first", "second", "save"}, calls)
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	hooks := observability.LoggingHooks(logging.NewWithWriter(&buf, slog.LevelDebug))

	domain.Emit(context.Background(), hooks.OnStep, &domain.EditEvent{Type: domain.EventStepApply, Op: "clone", Target: "A.B"})
	domain.Emit(context.Background(), hooks.OnResolve, &domain.EditEvent{Type: domain.EventResolve, Err: domain.ErrNotFound})

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG msg=\"edit event\" type=step_apply")
	assert.Contains(t, out, "type=resolve")
	assert.Contains(t, out, "err=\"not found\"")
}
