// Copyright 2025 l3montree UG (haftungsbeschraenkt).
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var EvaluationDaemonEventsReceived = promauto.NewCounter(prometheus.CounterOpts{
	Name: "policyguard_daemon_pipeline_events_received_total",
	Help: "The total number of pipeline completion events received by the evaluation daemon",
})

var EvaluationDaemonEventsDropped = promauto.NewCounter(prometheus.CounterOpts{
	Name: "policyguard_daemon_pipeline_events_dropped_total",
	Help: "The total number of pipeline completion events which could not be decoded",
})

var EvaluationDaemonQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "policyguard_daemon_queue_depth",
	Help: "The number of merge request evaluations waiting for a worker",
})
