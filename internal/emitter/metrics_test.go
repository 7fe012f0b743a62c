package emitter_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/typed-emitter/internal/emitter"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := emitter.NewMetrics(reg)
	require.NoError(t, err)

	em := emitter.New(emitter.Config{Metrics: metrics})
	id := emitter.Named("order.created")

	sub, err := em.On(id, func(context.Context, any) (any, error) {
		return nil, stderrors.New("fail")
	}, emitter.Options{SuppressErrors: true})
	require.NoError(t, err)

	_, _ = em.Emit(id, nil)
	_, _ = em.Emit(id, nil)

	assert.Equal(t, 2.0, gathered(t, reg, "typed_emitter_emitted_total"))
	assert.Equal(t, 2.0, gathered(t, reg, "typed_emitter_listener_errors_total"))
	assert.Equal(t, 1.0, gathered(t, reg, "typed_emitter_listeners"))

	require.NoError(t, em.Off(sub))
	assert.Equal(t, 0.0, gathered(t, reg, "typed_emitter_listeners"))
}

func TestMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := emitter.NewMetrics(reg)
	require.NoError(t, err)

	_, err = emitter.NewMetrics(reg)
	assert.Error(t, err)
}

func TestMetrics_NilIsSafe(t *testing.T) {
	em := emitter.New(emitter.Config{})

	_, err := em.On(emitter.Named("a"), func(context.Context, any) (any, error) { return nil, nil }, emitter.Options{})
	require.NoError(t, err)

	ok, err := em.Emit(emitter.Named("a"), nil)
	assert.True(t, ok)
	assert.NoError(t, err)
}

// gathered returns the value of the single series in the named family
func gathered(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		require.Len(t, f.GetMetric(), 1)
		m := f.GetMetric()[0]
		if m.GetGauge() != nil {
			return m.GetGauge().GetValue()
		}
		return m.GetCounter().GetValue()
	}
	t.Fatalf("metric %s not gathered", name)
	return 0
}
