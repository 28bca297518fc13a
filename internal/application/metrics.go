package application

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "picturedrive",
			Name:      "events_total",
			Help:      "Inbound chat events by platform and classified kind.",
		},
		[]string{"platform", "kind"},
	)

	eventErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "picturedrive",
			Name:      "event_errors_total",
			Help:      "Errors reported to participants, by error kind.",
		},
		[]string{"kind"},
	)

	uploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "picturedrive",
			Name:      "uploads_total",
			Help:      "Upload attempts that reached the blob host, by result.",
		},
		[]string{"result"},
	)
)

const (
	uploadResultStored      = "stored"
	uploadResultUnavailable = "blob_host_unavailable"
	uploadResultRelayFailed = "relay_failed"
	uploadResultOrphaned    = "orphaned"
)
