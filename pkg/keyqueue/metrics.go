package keyqueue

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Keys are chat participants, so no metric is labelled by key.
var (
	submissionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "picturedrive",
			Subsystem: "queue",
			Name:      "submissions_total",
			Help:      "Jobs accepted for execution.",
		},
	)

	queueFullTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "picturedrive",
			Subsystem: "queue",
			Name:      "queue_full_total",
			Help:      "Jobs refused because their key already had a full queue.",
		},
	)

	runDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "picturedrive",
			Subsystem: "queue",
			Name:      "run_duration_seconds",
			Help:      "Job execution latency.",
			Buckets:   prometheus.DefBuckets,
		},
	)

	pendingJobs = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "picturedrive",
			Subsystem: "queue",
			Name:      "pending_jobs",
			Help:      "Jobs accepted but not started yet.",
		},
	)

	activeKeys = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "picturedrive",
			Subsystem: "queue",
			Name:      "active_keys",
			Help:      "Keys with a running worker.",
		},
	)
)
