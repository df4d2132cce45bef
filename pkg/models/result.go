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

// Status is the outcome of a single evaluator
type Status string

const (
	StatusPass    Status = "pass"
	StatusWarning Status = "warning"
	StatusFail    Status = "fail"
	StatusError   Status = "error"
	StatusPending Status = "pending"
)

// Severity ranks an issue; critical and high violations are blocking
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Issue is one structured finding. Grammar matches fill Category, Offset,
// Length and Replacements; rule-based findings fill Rule and Severity.
type Issue struct {
	Rule         string   `json:"rule,omitempty"`
	Severity     Severity `json:"severity,omitempty"`
	Message      string   `json:"message"`
	Category     string   `json:"category,omitempty"`
	Offset       int      `json:"offset,omitempty"`
	Length       int      `json:"length,omitempty"`
	Replacements []string `json:"replacements,omitempty"`
}

// ClaimVerification is the fact-check outcome for one extracted claim
type ClaimVerification struct {
	Claim    string  `json:"claim"`
	Verified bool    `json:"verified"`
	Rating   string  `json:"rating"`
	Source   *string `json:"source"`
}

// CheckResult is the output of one evaluator. A nil Score means the
// evaluator failed before it could score the content.
type CheckResult struct {
	Status      Status              `json:"status"`
	Score       *int                `json:"score,omitempty"`
	Message     string              `json:"message,omitempty"`
	Issues      []Issue             `json:"issues,omitempty"`
	Violations  []Issue             `json:"violations,omitempty"`
	Warnings    []Issue             `json:"warnings,omitempty"`
	Suggestions []string            `json:"suggestions,omitempty"`
	Claims      []ClaimVerification `json:"claims,omitempty"`
	Readability *float64            `json:"readability,omitempty"`
	WordCount   int                 `json:"wordCount,omitempty"`
	Credibility *int                `json:"credibility,omitempty"`
}

// Scored reports whether the result carries a numeric score
func (r CheckResult) Scored() bool {
	return r.Score != nil
}

// ScoreValue returns the score, or 0 when unscored
func (r CheckResult) ScoreValue() int {
	if r.Score == nil {
		return 0
	}
	return *r.Score
}

// NewScoredResult builds a result with the given status and score
func NewScoredResult(status Status, score int) CheckResult {
	return CheckResult{Status: status, Score: &score}
}

// NewErrorResult builds an unscored error result
func NewErrorResult(message string) CheckResult {
	return CheckResult{Status: StatusError, Message: message}
}
