// Package prom exports scope activity as Prometheus metrics. Metrics
// implements the scope.Observer interface.
package prom

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/NetPo4ki/go-refscope/scope"
)

// Metrics is a scope.Observer backed by Prometheus collectors.
type Metrics struct {
	activeTasks     prometheus.Gauge
	tasksStarted    *prometheus.CounterVec
	tasksFinished   prometheus.Counter
	tasksPanicked   prometheus.Counter
	tasksDiscarded  prometheus.Counter
	tasksSuperseded prometheus.Counter
	taskDuration    prometheus.Histogram
	activations     prometheus.Counter
	deactivations   prometheus.Counter
	flushCancelled  prometheus.Counter
	underflows      prometheus.Counter
}

// New builds and registers the collectors on reg. A nil reg falls back to
// the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		activeTasks: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "refscope_active_tasks",
			Help: "Number of task bodies currently running.",
		}),
		tasksStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "refscope_tasks_started_total",
			Help: "Total tasks whose bodies began executing.",
		}, []string{"mode", "priority"}),
		tasksFinished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "refscope_tasks_finished_total",
			Help: "Total task bodies that returned.",
		}),
		tasksPanicked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "refscope_tasks_panicked_total",
			Help: "Total task bodies that panicked.",
		}),
		tasksDiscarded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "refscope_tasks_discarded_total",
			Help: "Total submissions dropped because the scope was unobserved.",
		}),
		tasksSuperseded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "refscope_tasks_superseded_total",
			Help: "Total keyed tasks cancelled by a replacement under the same key.",
		}),
		taskDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "refscope_task_duration_seconds",
			Help:    "Task body execution time in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		activations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "refscope_activations_total",
			Help: "Total observer activations.",
		}),
		deactivations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "refscope_deactivations_total",
			Help: "Total observer deactivations.",
		}),
		flushCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "refscope_flush_cancelled_tasks_total",
			Help: "Total tasks cancelled by scope flushes.",
		}),
		underflows: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "refscope_count_underflows_total",
			Help: "Total deactivations without a matching activation.",
		}),
	}
	reg.MustRegister(
		m.activeTasks, m.tasksStarted, m.tasksFinished, m.tasksPanicked,
		m.tasksDiscarded, m.tasksSuperseded, m.taskDuration,
		m.activations, m.deactivations, m.flushCancelled, m.underflows,
	)
	return m
}

func (m *Metrics) ScopeActivated(_ context.Context, _ int) { m.activations.Inc() }

func (m *Metrics) ScopeDeactivated(_ context.Context, _ int) { m.deactivations.Inc() }

func (m *Metrics) ScopeFlushed(_ context.Context, cancelled int) {
	m.flushCancelled.Add(float64(cancelled))
}

func (m *Metrics) CountUnderflow(_ context.Context) { m.underflows.Inc() }

func (m *Metrics) TaskStarted(_ context.Context, info scope.TaskInfo) {
	m.activeTasks.Inc()
	m.tasksStarted.WithLabelValues(info.Mode.String(), info.Priority.String()).Inc()
}

func (m *Metrics) TaskDiscarded(_ context.Context, _ scope.TaskInfo) { m.tasksDiscarded.Inc() }

func (m *Metrics) TaskSuperseded(_ context.Context, _, _ scope.TaskInfo) { m.tasksSuperseded.Inc() }

func (m *Metrics) TaskFinished(_ context.Context, _ scope.TaskInfo, dur time.Duration, panicked bool) {
	m.activeTasks.Dec()
	m.tasksFinished.Inc()
	if panicked {
		m.tasksPanicked.Inc()
	}
	m.taskDuration.Observe(dur.Seconds())
}
