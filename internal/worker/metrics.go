package worker

import "github.com/prometheus/client_golang/prometheus"

// Task outcomes recorded by the tasks_processed_total counter.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeRetried   = "retried"
	OutcomeDropped   = "dropped"
	OutcomeUnknown   = "unknown_task"
)

// Metrics holds the worker's Prometheus collectors.
type Metrics struct {
	TasksProcessed   *prometheus.CounterVec
	TaskDuration     *prometheus.HistogramVec
	AnnouncementRuns *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TasksProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "conferencecentral",
			Name:      "tasks_processed_total",
			Help:      "Background tasks handled, by task name and outcome.",
		}, []string{"task", "outcome"}),
		TaskDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "conferencecentral",
			Name:      "task_duration_seconds",
			Help:      "Time spent in task handlers.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"task"}),
		AnnouncementRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "conferencecentral",
			Name:      "announcement_runs_total",
			Help:      "Nearly sold out announcement refreshes, by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.TasksProcessed, m.TaskDuration, m.AnnouncementRuns)
	return m
}
