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

package metrics

import (
	"time"
)

// Check outcomes
const (
	OutcomePublished = "published"
	OutcomeBlocked   = "blocked"
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
)

// Collector records compliance metrics. A nil *Collector is valid and
// records nothing, so components can be built without metrics in tests.
type Collector struct{}

// NewCollector creates a new metrics collector
func NewCollector() *Collector {
	return &Collector{}
}

// RecordCheckStart marks a check as in flight
func (c *Collector) RecordCheckStart() {
	if c == nil {
		return
	}
	ChecksInFlight.Inc()
}

// RecordCheckComplete records a finished report
func (c *Collector) RecordCheckComplete(score int, canPublish bool, duration time.Duration) {
	if c == nil {
		return
	}
	ChecksInFlight.Dec()
	CheckDurationSeconds.Observe(duration.Seconds())
	ReportScore.Observe(float64(score))
	if canPublish {
		ChecksTotal.WithLabelValues(OutcomePublished).Inc()
	} else {
		ChecksTotal.WithLabelValues(OutcomeBlocked).Inc()
	}
}

// RecordCheckFailed records a check that produced no report
func (c *Collector) RecordCheckFailed() {
	if c == nil {
		return
	}
	ChecksInFlight.Dec()
	ChecksTotal.WithLabelValues(OutcomeFailed).Inc()
}

// RecordRejected records a request rejected before any evaluator ran
func (c *Collector) RecordRejected() {
	if c == nil {
		return
	}
	ChecksTotal.WithLabelValues(OutcomeRejected).Inc()
}

// RecordEvaluator records one evaluator result
func (c *Collector) RecordEvaluator(evaluator, status string, duration time.Duration) {
	if c == nil {
		return
	}
	EvaluatorResultsTotal.WithLabelValues(evaluator, status).Inc()
	EvaluatorDurationSeconds.WithLabelValues(evaluator).Observe(duration.Seconds())
}

// RecordViolation records an AdSense rule hit
func (c *Collector) RecordViolation(rule, severity string) {
	if c == nil {
		return
	}
	ViolationsTotal.WithLabelValues(rule, severity).Inc()
}

// RecordExternalCall records the outcome of a call to an external checker
func (c *Collector) RecordExternalCall(checker string, err error) {
	if c == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	ExternalCallsTotal.WithLabelValues(checker, result).Inc()
}

// RecordNotification records a notification send attempt
func (c *Collector) RecordNotification(success bool) {
	if c == nil {
		return
	}
	if success {
		NotificationsSentTotal.Inc()
	} else {
		NotificationsFailedTotal.Inc()
	}
}

// RecordEventsDropped records report events a subscriber could not buffer
func (c *Collector) RecordEventsDropped(n int) {
	if c == nil || n <= 0 {
		return
	}
	EventsDroppedTotal.Add(float64(n))
}
