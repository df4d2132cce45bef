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
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mzansi-pulse/compliance/pkg/models"
)

var _ = Describe("BuildRecommendations", func() {
	clean := func() models.Checks {
		return models.Checks{
			Grammar: models.NewScoredResult(models.StatusPass, 100),
			AdSense: models.NewScoredResult(models.StatusPass, 100),
			Facts:   models.NewScoredResult(models.StatusPass, 100),
			SEO:     models.NewScoredResult(models.StatusPass, 100),
		}
	}

	It("returns an empty list when nothing needs attention", func() {
		Expect(BuildRecommendations(clean())).To(BeEmpty())
	})

	It("keeps the fixed category order regardless of priority", func() {
		checks := clean()
		checks.Grammar = models.NewScoredResult(models.StatusWarning, 70)
		checks.Grammar.Issues = []models.Issue{{Message: "Use 'an' before a vowel"}}
		checks.Grammar.Suggestions = []string{"Shorten long sentences"}
		checks.AdSense = models.NewScoredResult(models.StatusFail, 0)
		checks.AdSense.Violations = []models.Issue{{Rule: "PROHIBITED_CONTENT", Message: "Prohibited content detected: casino"}}
		checks.AdSense.Warnings = []models.Issue{{Rule: "META_DESCRIPTION", Message: "Meta description is missing"}}
		checks.Facts = models.NewScoredResult(models.StatusFail, 0)
		checks.Facts.Claims = []models.ClaimVerification{
			{Claim: "studies show the earth is flat", Verified: true, Rating: " False "},
			{Claim: "according to the city the park opens at nine", Verified: true, Rating: "True"},
		}
		checks.SEO = models.NewScoredResult(models.StatusWarning, 70)
		checks.SEO.Issues = []models.Issue{{Message: "Title is missing"}}

		recs := BuildRecommendations(checks)
		Expect(recs).To(Equal([]models.Recommendation{
			{Category: models.CategoryGrammar, Priority: models.PriorityHigh, Action: ActionGrammar,
				Details: []string{"Use 'an' before a vowel", "Shorten long sentences"}},
			{Category: models.CategoryAdSense, Priority: models.PriorityCritical, Action: ActionAdSenseViolation,
				Details: []string{"Prohibited content detected: casino"}},
			{Category: models.CategoryAdSense, Priority: models.PriorityMedium, Action: ActionAdSenseWarning,
				Details: []string{"Meta description is missing"}},
			{Category: models.CategoryFacts, Priority: models.PriorityCritical, Action: ActionFacts,
				Details: []string{"studies show the earth is flat"}},
			{Category: models.CategorySEO, Priority: models.PriorityMedium, Action: ActionSEO,
				Details: []string{"Title is missing"}},
		}))
	})

	It("ignores errored checks", func() {
		checks := clean()
		checks.Grammar = models.NewErrorResult("Grammar check unavailable")
		checks.Facts = models.NewErrorResult("Claim extraction unavailable")
		Expect(BuildRecommendations(checks)).To(BeEmpty())
	})

	It("skips seo when only suggestions exist", func() {
		checks := clean()
		checks.SEO = models.NewScoredResult(models.StatusWarning, 75)
		checks.SEO.Suggestions = []string{"Add more links"}
		Expect(BuildRecommendations(checks)).To(BeEmpty())
	})
})
