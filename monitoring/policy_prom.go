package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var EvaluationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "policyguard_evaluation_duration_seconds",
	Help:    "Duration of a merge request approval evaluation in seconds",
	Buckets: prometheus.DefBuckets,
}, []string{"kind"})

var EvaluationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "policyguard_evaluations_total",
	Help: "The total number of merge request evaluations by outcome",
}, []string{"kind", "outcome"})

var RuleEvaluationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "policyguard_rule_evaluations_total",
	Help: "The total number of evaluated approval rules by report type and result",
}, []string{"report_type", "result"})

var LockWait = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "policyguard_lock_wait_seconds",
	Help:    "Time spent waiting for an advisory lock",
	Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
}, []string{"lock"})

var LockFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "policyguard_lock_failures_total",
	Help: "The total number of times an advisory lock could not be obtained in time",
}, []string{"lock"})

var CommentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "policyguard_comments_total",
	Help: "The total number of policy violation comment mutations by action",
}, []string{"action"})

var LicenseReportCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "policyguard_license_report_cache_total",
	Help: "License report cache lookups by result",
}, []string{"result"})
