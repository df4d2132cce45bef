// Copyright 2025 CompliK Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package metrics exposes Prometheus metrics for compliance checks, the
// evaluators behind them and the external checkers they call.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Request metrics
	ChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "compliance_checks_total",
		Help: "Compliance checks by outcome (published, blocked, rejected, failed)",
	}, []string{"outcome"})

	CheckDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "compliance_check_duration_seconds",
		Help:    "Time taken to produce a compliance report",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 15, 30},
	})

	ReportScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "compliance_report_score",
		Help:    "Distribution of overall compliance scores",
		Buckets: prometheus.LinearBuckets(10, 10, 10),
	})

	ChecksInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "compliance_checks_in_flight",
		Help: "Number of compliance checks currently running",
	})

	// Evaluator metrics
	EvaluatorResultsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "compliance_evaluator_results_total",
		Help: "Evaluator results by evaluator and status",
	}, []string{"evaluator", "status"})

	EvaluatorDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "compliance_evaluator_duration_seconds",
		Help:    "Time taken by each evaluator",
		Buckets: prometheus.DefBuckets,
	}, []string{"evaluator"})

	ViolationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "compliance_violations_total",
		Help: "AdSense violations and warnings by rule and severity",
	}, []string{"rule", "severity"})

	// External checker metrics
	ExternalCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "compliance_external_calls_total",
		Help: "Calls to external checkers by checker and result",
	}, []string{"checker", "result"})

	// Notification metrics
	NotificationsSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "compliance_notifications_sent_total",
		Help: "Total number of notifications sent successfully",
	})

	NotificationsFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "compliance_notifications_failed_total",
		Help: "Total number of notifications that failed to send",
	})

	EventsDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "compliance_events_dropped_total",
		Help: "Report events dropped because a subscriber buffer was full",
	})
)
