// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Prometheus collector exporting pool statistics. Values are read from a
// fresh api.PoolStats snapshot on every scrape.

package control

import (
	"github.com/momentics/hioload-pool/api"
	"github.com/prometheus/client_golang/prometheus"
)

// PoolCollector implements prometheus.Collector over an api.StatsSource.
type PoolCollector struct {
	source api.StatsSource

	workers     *prometheus.Desc
	busyWorkers *prometheus.Desc
	pending     *prometheus.Desc
	running     *prometheus.Desc
	submitted   *prometheus.Desc
	completed   *prometheus.Desc
	failed      *prometheus.Desc
	executions  *prometheus.Desc
}

var _ prometheus.Collector = (*PoolCollector)(nil)

// NewPoolCollector describes the metrics of source under namespace. The pool
// name and ID become constant labels.
func NewPoolCollector(namespace string, source api.StatsSource) *PoolCollector {
	st := source.Stats()
	labels := prometheus.Labels{"pool": st.Name, "pool_id": st.ID}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, nil, labels)
	}
	return &PoolCollector{
		source:      source,
		workers:     desc("workers", "Number of live workers"),
		busyWorkers: desc("busy_workers", "Number of workers executing a task"),
		pending:     desc("pending_tasks", "Number of queued tasks"),
		running:     desc("running", "1 while the pool accepts work"),
		submitted:   desc("tasks_submitted_total", "Total number of tasks submitted to the pool"),
		completed:   desc("tasks_completed_total", "Total number of tasks that ran every repetition"),
		failed:      desc("tasks_failed_total", "Total number of task faults"),
		executions:  desc("task_executions_total", "Total number of task invocations including repetitions"),
	}
}

// Describe implements prometheus.Collector.
func (c *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.workers
	ch <- c.busyWorkers
	ch <- c.pending
	ch <- c.running
	ch <- c.submitted
	ch <- c.completed
	ch <- c.failed
	ch <- c.executions
}

// Collect implements prometheus.Collector.
func (c *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	st := c.source.Stats()
	running := 0.0
	if st.Running {
		running = 1
	}
	ch <- prometheus.MustNewConstMetric(c.workers, prometheus.GaugeValue, float64(st.Workers))
	ch <- prometheus.MustNewConstMetric(c.busyWorkers, prometheus.GaugeValue, float64(st.BusyWorkers))
	ch <- prometheus.MustNewConstMetric(c.pending, prometheus.GaugeValue, float64(st.Pending))
	ch <- prometheus.MustNewConstMetric(c.running, prometheus.GaugeValue, running)
	ch <- prometheus.MustNewConstMetric(c.submitted, prometheus.CounterValue, float64(st.Submitted))
	ch <- prometheus.MustNewConstMetric(c.completed, prometheus.CounterValue, float64(st.Completed))
	ch <- prometheus.MustNewConstMetric(c.failed, prometheus.CounterValue, float64(st.Failed))
	ch <- prometheus.MustNewConstMetric(c.executions, prometheus.CounterValue, float64(st.Executions))
}
