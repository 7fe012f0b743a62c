package emitter

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records emitter activity. A nil *Metrics records nothing.
type Metrics struct {
	emitted        *prometheus.CounterVec
	listenerErrors *prometheus.CounterVec
	listeners      *prometheus.GaugeVec
}

// NewMetrics creates the emitter collectors and registers them with reg
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		emitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "typed_emitter",
				Name:      "emitted_total",
				Help:      "Events emitted by event identifier",
			},
			[]string{"event"},
		),
		listenerErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "typed_emitter",
				Name:      "listener_errors_total",
				Help:      "Listener failures by event identifier, suppressed ones included",
			},
			[]string{"event"},
		),
		listeners: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "typed_emitter",
				Name:      "listeners",
				Help:      "Registered listeners by event pattern",
			},
			[]string{"event"},
		),
	}

	for _, c := range []prometheus.Collector{m.emitted, m.listenerErrors, m.listeners} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Metrics) observeEmit(event string) {
	if m == nil {
		return
	}
	m.emitted.WithLabelValues(event).Inc()
}

func (m *Metrics) observeListenerError(event string) {
	if m == nil {
		return
	}
	m.listenerErrors.WithLabelValues(event).Inc()
}

func (m *Metrics) setListeners(event string, n int) {
	if m == nil {
		return
	}
	m.listeners.WithLabelValues(event).Set(float64(n))
}
