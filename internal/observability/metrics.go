// Package observability wires engine lifecycle hooks into Prometheus
// collectors so every run and node visit is measurable.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sunbun/assistant/pkg/domain"
)

// Metrics holds the collectors for the assistant runtime.
type Metrics struct {
	registry *prometheus.Registry

	nodeVisits    *prometheus.CounterVec
	nodeDuration  *prometheus.HistogramVec
	runsTotal     *prometheus.CounterVec
	runNodes      prometheus.Histogram
	activeThreads prometheus.Gauge
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		nodeVisits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sunbun",
			Name:      "node_visits_total",
			Help:      "Number of times each graph node has executed.",
		}, []string{"node", "status"}),
		nodeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sunbun",
			Name:      "node_duration_seconds",
			Help:      "Wall time spent inside each graph node.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"node"}),
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sunbun",
			Name:      "runs_total",
			Help:      "Completed engine runs, partitioned by outcome.",
		}, []string{"outcome"}),
		runNodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sunbun",
			Name:      "run_nodes",
			Help:      "Nodes visited per engine run.",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21},
		}),
		activeThreads: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sunbun",
			Name:      "active_runs",
			Help:      "Engine runs currently in flight.",
		}),
	}

	m.registry.MustRegister(
		m.nodeVisits,
		m.nodeDuration,
		m.runsTotal,
		m.runNodes,
		m.activeThreads,
	)
	return m
}

// Registry exposes the registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Hooks returns lifecycle hooks that feed the collectors. Pass them to the
// engine via graph.WithLifecycleHooks.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeStart: func(threadID, nodeID string) {
			m.activeThreads.Inc()
		},
		OnNodeEnd: func(v domain.NodeVisit) {
			m.activeThreads.Dec()
			status := "ok"
			if v.Err != nil {
				status = "error"
			}
			m.nodeVisits.WithLabelValues(v.NodeID, status).Inc()
			m.nodeDuration.WithLabelValues(v.NodeID).Observe(v.Duration.Seconds())
		},
		OnRunEnd: func(threadID string, visited int, paused bool) {
			outcome := "completed"
			if paused {
				outcome = "paused"
			}
			m.runsTotal.WithLabelValues(outcome).Inc()
			m.runNodes.Observe(float64(visited))
		},
	}
}
