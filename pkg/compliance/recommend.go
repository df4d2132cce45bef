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

package compliance

import (
	"strings"

	"github.com/mzansi-pulse/compliance/pkg/models"
)

// Recommendation actions
const (
	ActionGrammar          = "Improve grammar and readability"
	ActionAdSenseViolation = "Resolve AdSense policy violations before publishing"
	ActionAdSenseWarning   = "Review AdSense policy warnings"
	ActionFacts            = "Correct or remove claims rated false by fact-checkers"
	ActionSEO              = "Fix SEO metadata and structure issues"
)

// BuildRecommendations derives the action list from the check results.
// Entries follow the fixed order grammar, adsense violations, adsense
// warnings, facts, seo; they are not sorted by priority.
func BuildRecommendations(checks models.Checks) []models.Recommendation {
	recs := []models.Recommendation{}

	if g := checks.Grammar; g.Status == models.StatusWarning || g.Status == models.StatusFail {
		details := issueMessages(g.Issues)
		details = append(details, g.Suggestions...)
		recs = append(recs, models.Recommendation{
			Category: models.CategoryGrammar,
			Priority: models.PriorityHigh,
			Action:   ActionGrammar,
			Details:  details,
		})
	}

	if v := checks.AdSense.Violations; len(v) > 0 {
		recs = append(recs, models.Recommendation{
			Category: models.CategoryAdSense,
			Priority: models.PriorityCritical,
			Action:   ActionAdSenseViolation,
			Details:  issueMessages(v),
		})
	}
	if w := checks.AdSense.Warnings; len(w) > 0 {
		recs = append(recs, models.Recommendation{
			Category: models.CategoryAdSense,
			Priority: models.PriorityMedium,
			Action:   ActionAdSenseWarning,
			Details:  issueMessages(w),
		})
	}

	if checks.Facts.Status == models.StatusFail {
		details := []string{}
		for _, c := range checks.Facts.Claims {
			if strings.EqualFold(strings.TrimSpace(c.Rating), "false") {
				details = append(details, c.Claim)
			}
		}
		recs = append(recs, models.Recommendation{
			Category: models.CategoryFacts,
			Priority: models.PriorityCritical,
			Action:   ActionFacts,
			Details:  details,
		})
	}

	if issues := checks.SEO.Issues; len(issues) > 0 {
		recs = append(recs, models.Recommendation{
			Category: models.CategorySEO,
			Priority: models.PriorityMedium,
			Action:   ActionSEO,
			Details:  issueMessages(issues),
		})
	}
	return recs
}

func issueMessages(issues []models.Issue) []string {
	out := make([]string, 0, len(issues))
	for _, i := range issues {
		out = append(out, i.Message)
	}
	return out
}
