package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Collector gathers orchestrator metrics. A nil *Collector is a valid
// no-op receiver so callers never need to guard their calls.
type Collector struct {
	taskExecutionsTotal   *prometheus.CounterVec
	taskExecutionDuration *prometheus.HistogramVec
	taskRetriesTotal      *prometheus.CounterVec
	roundsTotal           prometheus.Counter
	tasksInFlight         prometheus.Gauge
	checkpointOpsTotal    *prometheus.CounterVec

	logger *zap.Logger
}

// NewCollector creates a collector registered against reg. Pass nil to use
// the default registerer; tests pass a fresh prometheus.NewRegistry().
func NewCollector(namespace string, reg prometheus.Registerer, logger *zap.Logger) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	factory := promauto.With(reg)

	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	c.taskExecutionsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "task_executions_total",
			Help:      "Total number of task execution attempts",
		},
		[]string{"agent_type", "status"},
	)

	c.taskExecutionDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "task_execution_duration_seconds",
			Help:      "Task execution duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"agent_type"},
	)

	c.taskRetriesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "task_retries_total",
			Help:      "Total number of task retries",
		},
		[]string{"agent_type"},
	)

	c.roundsTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scheduler_rounds_total",
			Help:      "Total number of scheduler rounds executed",
		},
	)

	c.tasksInFlight = factory.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tasks_in_flight",
			Help:      "Number of tasks currently executing",
		},
	)

	c.checkpointOpsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkpoint_operations_total",
			Help:      "Total number of checkpoint save/load operations",
		},
		[]string{"operation", "status"},
	)

	return c
}

// RecordTaskExecution records one task attempt outcome and its duration.
func (c *Collector) RecordTaskExecution(agentType, status string, duration time.Duration) {
	if c == nil {
		return
	}
	c.taskExecutionsTotal.WithLabelValues(agentType, status).Inc()
	c.taskExecutionDuration.WithLabelValues(agentType).Observe(duration.Seconds())
}

// RecordRetry records one retry of a task.
func (c *Collector) RecordRetry(agentType string) {
	if c == nil {
		return
	}
	c.taskRetriesTotal.WithLabelValues(agentType).Inc()
}

// RecordRound records one completed scheduler round.
func (c *Collector) RecordRound() {
	if c == nil {
		return
	}
	c.roundsTotal.Inc()
}

// TaskStarted marks a task entering execution.
func (c *Collector) TaskStarted() {
	if c == nil {
		return
	}
	c.tasksInFlight.Inc()
}

// TaskFinished marks a task leaving execution.
func (c *Collector) TaskFinished() {
	if c == nil {
		return
	}
	c.tasksInFlight.Dec()
}

// RecordCheckpoint records a checkpoint operation outcome.
func (c *Collector) RecordCheckpoint(operation string, err error) {
	if c == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.checkpointOpsTotal.WithLabelValues(operation, status).Inc()
}
