package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sharesCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "doc_toolbox_shares_created_total",
		Help: "Share links created, by kind.",
	}, []string{"kind"})

	shareResolveTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "doc_toolbox_share_resolve_total",
		Help: "Share lookups, by result (ok, not_found, expired).",
	}, []string{"result"})

	sharesActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "doc_toolbox_shares_active",
		Help: "Share records currently held in memory.",
	})

	janitorRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "doc_toolbox_janitor_runs_total",
		Help: "Retention sweeps executed.",
	})

	janitorDeletedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "doc_toolbox_janitor_deleted_total",
		Help: "Files removed by the retention sweep, by area.",
	}, []string{"area"})

	janitorSkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "doc_toolbox_janitor_skipped_total",
		Help: "Expired files kept by the retention sweep, by reason (open, shared).",
	}, []string{"reason"})

	janitorDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "doc_toolbox_janitor_duration_seconds",
		Help:    "Retention sweep duration.",
		Buckets: prometheus.DefBuckets,
	})

	documentOpsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "doc_toolbox_document_operations_total",
		Help: "Document operations, by operation and result.",
	}, []string{"op", "result"})

	documentOpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "doc_toolbox_document_operation_duration_seconds",
		Help:    "Document operation duration, queue wait included.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"op"})
)
