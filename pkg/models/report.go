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

package models

import "time"

// Category names the evaluator a recommendation belongs to
type Category string

const (
	CategoryGrammar Category = "grammar"
	CategoryAdSense Category = "adsense"
	CategoryFacts   Category = "facts"
	CategorySEO     Category = "seo"
)

// Priority of a recommendation
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
)

// Checks holds the four evaluator results of a request
type Checks struct {
	Grammar CheckResult `json:"grammar"`
	AdSense CheckResult `json:"adsense"`
	Facts   CheckResult `json:"facts"`
	SEO     CheckResult `json:"seo"`
}

// Recommendation is a human-readable action derived from the checks
type Recommendation struct {
	Category Category `json:"category"`
	Priority Priority `json:"priority"`
	Action   string   `json:"action"`
	Details  []string `json:"details"`
}

// ComplianceReport is the aggregate result of a compliance request
type ComplianceReport struct {
	Score           int              `json:"score"`
	Checks          Checks           `json:"checks"`
	Recommendations []Recommendation `json:"recommendations"`
	CanPublish      bool             `json:"canPublish"`
}

// ReportEvent is published on the event bus after every completed check
type ReportEvent struct {
	RequestID string            `json:"requestId"`
	Title     string            `json:"title"`
	WordCount int               `json:"wordCount"`
	Report    *ComplianceReport `json:"report"`
	CheckedAt time.Time         `json:"checkedAt"`
	Duration  time.Duration     `json:"duration"`
}
