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

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mzansi-pulse/compliance/pkg/compliance/claims"
	"github.com/mzansi-pulse/compliance/pkg/config"
	"github.com/mzansi-pulse/compliance/pkg/models"
)

var _ = Describe("FactsEvaluator", func() {
	var (
		ctx     context.Context
		rules   config.FactsRules
		checker *fakeFacts
	)

	review := func(rating, publisher string) []models.FactReview {
		return []models.FactReview{{TextualRating: rating, Publisher: publisher}}
	}

	BeforeEach(func() {
		ctx = context.Background()
		rules = config.DefaultRules().Facts
		checker = &fakeFacts{
			reviews: map[string][]models.FactReview{},
			errs:    map[string]error{},
			panics:  map[string]bool{},
		}
	})

	evaluate := func(found ...string) models.CheckResult {
		return NewFactsEvaluator(&fakeExtractor{claims: found}, checker, rules).Evaluate(ctx, "content", "title")
	}

	It("should pass content without claims", func() {
		result := evaluate()
		Expect(result.Status).To(Equal(models.StatusPass))
		Expect(result.ScoreValue()).To(Equal(100))
		Expect(result.Claims).To(BeEmpty())
		Expect(checker.queries).To(BeEmpty())
	})

	It("should pass when every claim has a review", func() {
		checker.reviews["a"] = review("True", "Africa Check")
		checker.reviews["b"] = review("Mostly true", "PolitiFact")
		result := evaluate("a", "b")
		Expect(result.Status).To(Equal(models.StatusPass))
		Expect(result.ScoreValue()).To(Equal(100))
		Expect(result.Claims).To(HaveLen(2))
		Expect(result.Claims[0].Verified).To(BeTrue())
		Expect(result.Claims[0].Rating).To(Equal("True"))
		Expect(*result.Claims[0].Source).To(Equal("Africa Check"))
		Expect(result.Credibility).To(BeNil())
	})

	It("should fail when any claim is rated false", func() {
		checker.reviews["a"] = review("True", "x")
		checker.reviews["b"] = review("FALSE", "y")
		result := evaluate("a", "b")
		Expect(result.Status).To(Equal(models.StatusFail))
		Expect(result.ScoreValue()).To(Equal(0))
	})

	It("should warn on partial verification with a rounded credibility", func() {
		checker.reviews["a"] = review("True", "x")
		checker.reviews["b"] = review("Accurate", "y")
		result := evaluate("a", "b", "c")
		Expect(result.Status).To(Equal(models.StatusWarning))
		Expect(result.ScoreValue()).To(Equal(70))
		Expect(*result.Credibility).To(Equal(67))
		Expect(result.Claims[2]).To(Equal(models.ClaimVerification{Claim: "c", Rating: RatingUnverified}))
	})

	It("should degrade failed lookups per claim", func() {
		checker.reviews["a"] = review("True", "x")
		checker.errs["b"] = errUnavailable
		checker.panics["c"] = true
		result := evaluate("a", "b", "c")
		Expect(result.Status).To(Equal(models.StatusWarning))
		Expect(*result.Credibility).To(Equal(33))
		Expect(result.Claims[0].Verified).To(BeTrue())
		Expect(result.Claims[1]).To(Equal(models.ClaimVerification{Claim: "b", Rating: RatingError}))
		Expect(result.Claims[2]).To(Equal(models.ClaimVerification{Claim: "c", Rating: RatingError}))
	})

	It("should rate every claim as an error without a checker", func() {
		result := NewFactsEvaluator(&fakeExtractor{claims: []string{"a"}}, nil, rules).Evaluate(ctx, "", "")
		Expect(result.Status).To(Equal(models.StatusWarning))
		Expect(*result.Credibility).To(Equal(0))
		Expect(result.Claims[0].Rating).To(Equal(RatingError))
	})

	It("should look up no more than the claim limit", func() {
		result := evaluate("1", "2", "3", "4", "5", "6", "7")
		Expect(result.Claims).To(HaveLen(5))
		Expect(checker.queries).To(ConsistOf("1", "2", "3", "4", "5"))
	})

	It("should report extraction failures as an error", func() {
		result := NewFactsEvaluator(&fakeExtractor{err: errUnavailable}, checker, rules).Evaluate(ctx, "", "")
		Expect(result.Status).To(Equal(models.StatusError))
		Expect(result.Scored()).To(BeFalse())
	})

	It("should verify claims found by the regex extractor", func() {
		extractor, err := claims.NewRegexExtractor(rules)
		Expect(err).NotTo(HaveOccurred())
		claim := "According to Stats SA, unemployment fell"
		checker.reviews[claim] = review("Correct", "Stats SA")
		result := NewFactsEvaluator(extractor, checker, rules).Evaluate(ctx, claim+". The end.", "")
		Expect(result.Status).To(Equal(models.StatusPass))
		Expect(checker.queries).To(Equal([]string{claim}))
	})
})
