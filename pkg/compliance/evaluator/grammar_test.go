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

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mzansi-pulse/compliance/pkg/config"
	"github.com/mzansi-pulse/compliance/pkg/models"
)

var _ = Describe("GrammarEvaluator", func() {
	const easyText = "The cat sat. The dog ran."

	var (
		ctx     context.Context
		checker *fakeGrammar
		rules   config.GrammarRules
	)

	BeforeEach(func() {
		ctx = context.Background()
		checker = &fakeGrammar{}
		rules = config.DefaultRules().Grammar
	})

	match := func(category string) models.GrammarMatch {
		return models.GrammarMatch{Category: category, Message: "issue", Offset: 4, Length: 3, Replacements: []string{"fix"}}
	}

	It("should absorb checker failures", func() {
		checker.err = errUnavailable
		result := NewGrammarEvaluator(checker, rules).Evaluate(ctx, easyText)
		Expect(result.Status).To(Equal(models.StatusError))
		Expect(result.Message).To(Equal("Grammar check unavailable"))
		Expect(result.Scored()).To(BeFalse())
	})

	It("should report unavailable without a checker", func() {
		result := NewGrammarEvaluator(nil, rules).Evaluate(ctx, easyText)
		Expect(result.Status).To(Equal(models.StatusError))
	})

	It("should pass clean readable text", func() {
		result := NewGrammarEvaluator(checker, rules).Evaluate(ctx, easyText)
		Expect(result.Status).To(Equal(models.StatusPass))
		Expect(result.ScoreValue()).To(Equal(100))
		Expect(result.Issues).To(BeEmpty())
		Expect(*result.Readability).To(Equal(100.0))
		Expect(result.Suggestions).To(BeEmpty())
	})

	It("should report typo matches without counting them", func() {
		checker.matches = []models.GrammarMatch{match("TYPOS")}
		result := NewGrammarEvaluator(checker, rules).Evaluate(ctx, easyText)
		Expect(result.Status).To(Equal(models.StatusPass))
		Expect(result.ScoreValue()).To(Equal(100))
		Expect(result.Issues).To(HaveLen(1))
		Expect(result.Issues[0].Category).To(Equal("TYPOS"))
	})

	It("should warn on a few issues in readable text", func() {
		checker.matches = []models.GrammarMatch{match("GRAMMAR"), match("TYPOS"), match("STYLE")}
		result := NewGrammarEvaluator(checker, rules).Evaluate(ctx, easyText)
		Expect(result.Status).To(Equal(models.StatusWarning))
		Expect(result.ScoreValue()).To(Equal(70))
		Expect(result.Issues).To(HaveLen(3))
		Expect(result.Issues[0]).To(Equal(models.Issue{
			Category: "GRAMMAR", Message: "issue", Offset: 4, Length: 3, Replacements: []string{"fix"},
		}))
		Expect(result.Suggestions).To(HaveLen(1))
	})

	It("should fail on three or more issues", func() {
		checker.matches = []models.GrammarMatch{match("GRAMMAR"), match("GRAMMAR"), match("PUNCTUATION")}
		result := NewGrammarEvaluator(checker, rules).Evaluate(ctx, easyText)
		Expect(result.Status).To(Equal(models.StatusFail))
		Expect(result.ScoreValue()).To(Equal(40))
		Expect(result.Suggestions).To(HaveLen(1))
	})

	It("should fail unreadable text even without issues", func() {
		dense := strings.Repeat("incomprehensibilities internationalization ", 20)
		result := NewGrammarEvaluator(checker, rules).Evaluate(ctx, dense)
		Expect(result.Status).To(Equal(models.StatusFail))
		Expect(*result.Readability).To(Equal(0.0))
	})

	It("should send markup-free text to the checker", func() {
		NewGrammarEvaluator(checker, rules).Evaluate(ctx, "<p>The cat <b>sat</b>.</p>")
		Expect(checker.received).To(Equal("The cat sat."))
	})
})
