// Package observability holds the process-wide telemetry wiring: Prometheus
// collectors for the reminder pipeline and the OpenTelemetry trace exporter
// setup. HTTP-level metrics live in the router middleware; the collectors
// here cover the background batch work that has no request to instrument.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// remindersDelivered counts delivery attempts by terminal outcome.
	remindersDelivered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_reminders_delivered_total",
			Help: "Total reminder delivery attempts by outcome (sent|failed).",
		},
		[]string{"outcome"},
	)

	// schedulerRuns counts completed batch runs per job.
	schedulerRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_scheduler_runs_total",
			Help: "Completed scheduler batch runs by job (overdue_scan|pending_flush).",
		},
		[]string{"job"},
	)

	// overdueAssignments gauges the overdue backlog seen by the last scan.
	overdueAssignments = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "inventory_overdue_assignments",
			Help: "Overdue assignments found by the most recent daily scan.",
		},
	)
)

func init() {
	prometheus.MustRegister(remindersDelivered, schedulerRuns, overdueAssignments)
}

// ObserveDelivery records one reminder delivery attempt outcome.
func ObserveDelivery(outcome string) {
	remindersDelivered.WithLabelValues(outcome).Inc()
}

// ObserveSchedulerRun records one completed batch run for the named job.
func ObserveSchedulerRun(job string) {
	schedulerRuns.WithLabelValues(job).Inc()
}

// SetOverdueBacklog records the size of the overdue set found by a scan.
func SetOverdueBacklog(n int) {
	overdueAssignments.Set(float64(n))
}
