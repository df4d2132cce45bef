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
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mzansi-pulse/compliance/pkg/config"
	"github.com/mzansi-pulse/compliance/pkg/models"
)

var _ = Describe("SEOEvaluator", func() {
	var (
		evaluator *SEOEvaluator
		title     string
		meta      string
		body      string
	)

	BeforeEach(func() {
		evaluator = NewSEOEvaluator(config.DefaultRules().SEO)
		title = strings.Repeat("t", 45)
		meta = strings.Repeat("m", 140)
		body = "## Highlights\n" + filler(50) + "\nSee [the programme](https://a.example) and [tickets](https://b.example)."
	})

	It("should pass well-structured content", func() {
		result := evaluator.Evaluate(body, title, meta)
		Expect(result.Status).To(Equal(models.StatusPass))
		Expect(result.ScoreValue()).To(Equal(100))
		Expect(result.Issues).To(BeEmpty())
		Expect(result.Suggestions).To(BeEmpty())
	})

	It("should be deterministic", func() {
		Expect(evaluator.Evaluate("x", "", "")).To(Equal(evaluator.Evaluate("x", "", "")))
	})

	It("should detect HTML headings and anchors", func() {
		html := `<h2 class="lead">Intro</h2><p>Read <a href="/one">one</a> and <a href="/two">two</a>.</p>`
		result := evaluator.Evaluate(html, title, meta)
		Expect(result.Status).To(Equal(models.StatusPass))
	})

	It("should not count Markdown images as links", func() {
		images := "## Gallery\n" + filler(50) + "\n![stage](https://a.example/1.png) ![crowd](https://a.example/2.png)"
		result := evaluator.Evaluate(images, title, meta)
		Expect(result.Status).To(Equal(models.StatusWarning))
		Expect(result.Suggestions).To(ConsistOf(ContainSubstring("found 0")))
	})

	It("should not treat deeper Markdown headings as H2", func() {
		result := evaluator.Evaluate(strings.Replace(body, "## ", "### ", 1), title, meta)
		Expect(result.Issues).To(HaveLen(1))
		Expect(result.Issues[0].Rule).To(Equal(RuleHeadingH2))
	})

	DescribeTable("scoring",
		func(title, meta, body string, status models.Status, score, issues, suggestions int) {
			result := evaluator.Evaluate(body, title, meta)
			Expect(result.Status).To(Equal(status))
			Expect(result.ScoreValue()).To(Equal(score))
			Expect(result.Issues).To(HaveLen(issues))
			Expect(result.Suggestions).To(HaveLen(suggestions))
		},
		Entry("one issue", "Too short", strings.Repeat("m", 140),
			"## H\n[a](b) [c](d)", models.StatusWarning, 70, 1, 0),
		Entry("one suggestion", strings.Repeat("t", 30), strings.Repeat("m", 160),
			"## H\n[a](b)", models.StatusWarning, 75, 0, 1),
		Entry("one of each", strings.Repeat("t", 61), strings.Repeat("m", 120),
			"## H\nno links", models.StatusWarning, 65, 1, 1),
		Entry("two issues", "", "", "## H\n[a](b) [c](d)", models.StatusFail, 40, 2, 0),
		Entry("everything missing", "", "", "plain", models.StatusFail, 25, 3, 1),
	)

	It("should explain length problems", func() {
		result := evaluator.Evaluate(body, "Short", meta)
		Expect(result.Issues[0].Rule).To(Equal(RuleTitleLength))
		Expect(result.Issues[0].Message).To(ContainSubstring("30-60"))

		result = evaluator.Evaluate(body, title, "")
		Expect(result.Issues[0].Rule).To(Equal(RuleMetaMissing))
	})

	It("should never go below zero", func() {
		rules := config.DefaultRules().SEO
		rules.MinLinks = 10
		result := NewSEOEvaluator(rules).Evaluate("x", "", "")
		Expect(result.ScoreValue()).To(BeNumerically(">=", 0))
	})
})
