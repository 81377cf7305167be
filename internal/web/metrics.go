package web

import (
	"tasktrack/internal/store"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type serverMetrics struct {
	mutations  *prometheus.CounterVec
	tasks      prometheus.Gauge
	active     prometheus.Gauge
	sseClients prometheus.Gauge
}

func newServerMetrics(reg prometheus.Registerer) *serverMetrics {
	f := promauto.With(reg)
	return &serverMetrics{
		mutations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tasktrack",
			Name:      "mutations_total",
			Help:      "Task mutations requested through the web UI, by operation and outcome.",
		}, []string{"op", "result"}),
		tasks: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "tasktrack",
			Name:      "tasks",
			Help:      "Tasks in the list.",
		}),
		active: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "tasktrack",
			Name:      "tasks_active",
			Help:      "Tasks not yet completed.",
		}),
		sseClients: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "tasktrack",
			Name:      "sse_clients",
			Help:      "Open live-update streams.",
		}),
	}
}

// observe refreshes the list gauges. Callers must hold the server lock.
func (m *serverMetrics) observe(st *store.Store) {
	m.tasks.Set(float64(st.Len()))
	m.active.Set(float64(st.ActiveCount()))
}

// result is one of: changed|unchanged|error.
func (m *serverMetrics) mutation(op, result string) {
	m.mutations.WithLabelValues(op, result).Inc()
}
