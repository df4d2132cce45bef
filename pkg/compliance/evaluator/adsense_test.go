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

package evaluator

import (
	"context"
	"strings"
	"unicode/utf8"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gstruct"
	"github.com/onsi/gomega/types"

	"github.com/mzansi-pulse/compliance/pkg/config"
	"github.com/mzansi-pulse/compliance/pkg/models"
)

func violationWith(rule string, severity models.Severity) types.GomegaMatcher {
	return MatchFields(IgnoreExtras, Fields{
		"Rule":     Equal(rule),
		"Severity": Equal(severity),
	})
}

var _ = Describe("AdSenseEvaluator", func() {
	var (
		ctx   context.Context
		rules config.AdSenseRules
		req   *models.ComplianceRequest
	)

	BeforeEach(func() {
		ctx = context.Background()
		rules = config.DefaultRules().AdSense
		req = &models.ComplianceRequest{
			Content:         filler(350),
			Title:           "Cape Town hosts its biggest jazz festival yet",
			MetaDescription: strings.Repeat("m", 140),
		}
	})

	evaluate := func(classifier ToxicityClassifier) models.CheckResult {
		return NewAdSenseEvaluator(classifier, rules).Evaluate(ctx, req)
	}

	It("should pass compliant content", func() {
		result := evaluate(nil)
		Expect(result.Status).To(Equal(models.StatusPass))
		Expect(result.ScoreValue()).To(Equal(100))
		Expect(result.Violations).To(BeEmpty())
		Expect(result.Warnings).To(BeEmpty())
		Expect(result.WordCount).To(Equal(350))
	})

	It("should flag short content", func() {
		req.Content = filler(120)
		result := evaluate(nil)
		Expect(result.Violations).To(ContainElement(violationWith(RuleMinWordCount, models.SeverityHigh)))
		Expect(result.Status).To(Equal(models.StatusFail))
		Expect(result.ScoreValue()).To(Equal(30))
	})

	It("should subtract ten per high violation", func() {
		req.Content = filler(120)
		req.Title = ""
		result := evaluate(nil)
		Expect(result.Violations).To(ContainElement(violationWith(RuleTitleRequired, models.SeverityHigh)))
		Expect(result.ScoreValue()).To(Equal(20))
	})

	It("should treat a short title as missing", func() {
		req.Title = "Jazz"
		result := evaluate(nil)
		Expect(result.Violations).To(ConsistOf(violationWith(RuleTitleRequired, models.SeverityHigh)))
		Expect(result.Violations[0].Message).To(ContainSubstring("too short"))
	})

	DescribeTable("prohibited terms force a zero score",
		func(snippet string) {
			req.Content = filler(350) + " " + snippet
			result := evaluate(nil)
			Expect(result.Violations).To(ContainElement(violationWith(RuleProhibitedContent, models.SeverityCritical)))
			Expect(result.Status).To(Equal(models.StatusFail))
			Expect(result.ScoreValue()).To(Equal(0))
		},
		Entry("plain word", "casino"),
		Entry("mixed case", "CaSiNo night"),
		Entry("inside another word", "drugstore"),
		Entry("multi-word term", "no hate speech here"),
	)

	It("should keep the zero score whatever else is wrong", func() {
		req.Content = "casino"
		req.Title = ""
		req.MetaDescription = ""
		result := evaluate(nil)
		Expect(result.ScoreValue()).To(Equal(0))
		Expect(result.Violations[1].Message).To(ContainSubstring("casino"))
	})

	It("should warn on keyword stuffing", func() {
		req.Content = filler(350) + strings.Repeat(" festival", 20)
		result := evaluate(nil)
		Expect(result.Warnings).To(ConsistOf(violationWith(RuleKeywordStuffing, models.SeverityMedium)))
		Expect(result.Warnings[0].Message).To(ContainSubstring("festival"))
		Expect(result.Status).To(Equal(models.StatusPass))
		Expect(result.ScoreValue()).To(Equal(90))
	})

	It("should not count stop words or short words as stuffing", func() {
		req.Content = filler(350) + strings.Repeat(" there", 30) + strings.Repeat(" jazz", 30)
		Expect(evaluate(nil).Warnings).To(BeEmpty())
	})

	It("should warn on a missing meta description", func() {
		req.MetaDescription = ""
		result := evaluate(nil)
		Expect(result.Warnings).To(ConsistOf(violationWith(RuleMetaDescription, models.SeverityMedium)))
		Expect(result.ScoreValue()).To(Equal(90))
	})

	It("should warn once for images without alt text", func() {
		req.Images = []models.Image{{Alt: "Crowd at the festival"}, {Alt: ""}, {Alt: "sax"}}
		result := evaluate(nil)
		Expect(result.Warnings).To(ConsistOf(violationWith(RuleImageAltText, models.SeverityMedium)))
		Expect(result.Warnings[0].Message).To(HavePrefix("2 of 3"))
	})

	It("should drop to warning status after more than two warnings", func() {
		req.Content = filler(350) + strings.Repeat(" festival", 20)
		req.MetaDescription = "short"
		req.Images = []models.Image{{}}
		result := evaluate(nil)
		Expect(result.Warnings).To(HaveLen(3))
		Expect(result.Status).To(Equal(models.StatusWarning))
		Expect(result.ScoreValue()).To(Equal(55))
	})

	Describe("toxicity", func() {
		It("should flag toxic content as critical", func() {
			result := evaluate(&fakeToxicity{scores: &models.ToxicityScores{Toxicity: 0.81}})
			Expect(result.Violations).To(ConsistOf(violationWith(RuleToxicContent, models.SeverityCritical)))
			Expect(result.ScoreValue()).To(Equal(0))
		})

		It("should flag severe toxicity above its own threshold", func() {
			result := evaluate(&fakeToxicity{scores: &models.ToxicityScores{Toxicity: 0.3, SevereToxicity: 0.51}})
			Expect(result.Violations).To(HaveLen(1))
		})

		It("should use strict thresholds", func() {
			result := evaluate(&fakeToxicity{scores: &models.ToxicityScores{Toxicity: 0.7, SevereToxicity: 0.5}})
			Expect(result.Violations).To(BeEmpty())
		})

		It("should fail open when the classifier errors", func() {
			result := evaluate(&fakeToxicity{err: errUnavailable})
			Expect(result.Violations).To(BeEmpty())
			Expect(result.Status).To(Equal(models.StatusPass))
		})

		It("should classify at most the configured prefix of plain text", func() {
			classifier := &fakeToxicity{scores: &models.ToxicityScores{}}
			req.Content = "<p>" + strings.Repeat("word ", 1000) + "</p>"
			evaluate(classifier)
			Expect(utf8.RuneCountInString(classifier.received)).To(Equal(3000))
			Expect(classifier.received).To(HavePrefix("word word"))
		})
	})
})
