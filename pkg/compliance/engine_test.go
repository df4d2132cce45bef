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
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gstruct"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mzansi-pulse/compliance/pkg/config"
	"github.com/mzansi-pulse/compliance/pkg/constants"
	"github.com/mzansi-pulse/compliance/pkg/eventbus"
	"github.com/mzansi-pulse/compliance/pkg/logger"
	"github.com/mzansi-pulse/compliance/pkg/metrics"
	"github.com/mzansi-pulse/compliance/pkg/models"
)

var _ = Describe("Engine", func() {
	var (
		grammar *stubGrammar
		engine  *Engine
		req     *models.ComplianceRequest
		ctx     context.Context
	)

	BeforeEach(func() {
		grammar = &stubGrammar{}
		var err error
		engine, err = NewEngine(config.DefaultRules(), Checkers{Grammar: grammar}, WithCollector(metrics.NewCollector()))
		Expect(err).NotTo(HaveOccurred())
		req = &models.ComplianceRequest{
			Content:         article(),
			Title:           articleTitle,
			MetaDescription: articleMeta,
		}
		ctx = context.Background()
	})

	It("passes a well-structured article", func() {
		report, err := engine.Check(ctx, req)
		Expect(err).NotTo(HaveOccurred())

		Expect(report.Checks.SEO.Status).To(Equal(models.StatusPass))
		Expect(report.Checks.SEO.ScoreValue()).To(Equal(100))
		Expect(report.Checks.AdSense.Status).To(Equal(models.StatusPass))
		Expect(report.Checks.AdSense.ScoreValue()).To(BeNumerically(">=", 90))
		Expect(report.Checks.AdSense.Violations).To(BeEmpty())
		Expect(report.Checks.Facts.Status).To(Equal(models.StatusPass))
		Expect(report.Checks.Facts.ScoreValue()).To(Equal(100))
		Expect(report.Checks.Grammar.Status).To(Equal(models.StatusPass))
		Expect(report.Score).To(Equal(100))
		Expect(report.CanPublish).To(BeTrue())
		Expect(report.Recommendations).To(BeEmpty())
	})

	It("rejects blank content before any evaluator runs", func() {
		for _, content := range []string{"", "   \n\t "} {
			req.Content = content
			report, err := engine.Check(ctx, req)
			Expect(report).To(BeNil())
			Expect(err).To(MatchError(models.ErrContentRequired))
		}
		Expect(grammar.calls.Load()).To(BeZero())
	})

	It("zeroes adsense and blocks publishing on a prohibited term", func() {
		req.Content += " Try the new casino tonight."
		report, err := engine.Check(ctx, req)
		Expect(err).NotTo(HaveOccurred())

		Expect(report.Checks.AdSense.ScoreValue()).To(Equal(0))
		Expect(report.Checks.AdSense.Violations).To(ContainElement(MatchFields(IgnoreExtras, Fields{
			"Rule":     Equal("PROHIBITED_CONTENT"),
			"Severity": Equal(models.SeverityCritical),
		})))
		Expect(report.Score).To(Equal(65))
		Expect(report.CanPublish).To(BeFalse())
		Expect(report.Recommendations[0].Priority).To(Equal(models.PriorityCritical))
	})

	It("leaves a failed checker out of the score", func() {
		grammar.err = errors.New("languagetool down")
		report, err := engine.Check(ctx, req)
		Expect(err).NotTo(HaveOccurred())

		Expect(report.Checks.Grammar.Status).To(Equal(models.StatusError))
		Expect(report.Checks.Grammar.Scored()).To(BeFalse())
		Expect(report.Score).To(Equal(100))
		Expect(report.CanPublish).To(BeTrue())
	})

	It("contains a panicking evaluator to its own branch", func() {
		grammar.panics = true
		report, err := engine.Check(ctx, req)
		Expect(err).NotTo(HaveOccurred())

		Expect(report.Checks.Grammar.Status).To(Equal(models.StatusError))
		Expect(report.Checks.Grammar.Message).To(Equal("grammar check failed unexpectedly"))
		Expect(report.Checks.SEO.Status).To(Equal(models.StatusPass))
		Expect(report.Checks.AdSense.Status).To(Equal(models.StatusPass))
	})

	It("counts a check that panics after scoring only as failed", func() {
		engine.log = newExplodingLogger()
		inFlight := testutil.ToFloat64(metrics.ChecksInFlight)
		failed := testutil.ToFloat64(metrics.ChecksTotal.WithLabelValues(metrics.OutcomeFailed))
		published := testutil.ToFloat64(metrics.ChecksTotal.WithLabelValues(metrics.OutcomePublished))

		report, err := engine.Check(ctx, req)
		Expect(report).To(BeNil())
		Expect(err).To(MatchError(ErrCheckFailed))

		Expect(testutil.ToFloat64(metrics.ChecksInFlight)).To(Equal(inFlight))
		Expect(testutil.ToFloat64(metrics.ChecksTotal.WithLabelValues(metrics.OutcomeFailed))).To(Equal(failed + 1))
		Expect(testutil.ToFloat64(metrics.ChecksTotal.WithLabelValues(metrics.OutcomePublished))).To(Equal(published))
	})

	It("treats a request deadline like a checker failure", func(sctx SpecContext) {
		grammar.block = true
		var err error
		engine, err = NewEngine(config.DefaultRules(), Checkers{Grammar: grammar}, WithTimeout(50*time.Millisecond))
		Expect(err).NotTo(HaveOccurred())

		report, err := engine.Check(sctx, req)
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Checks.Grammar.Status).To(Equal(models.StatusError))
		Expect(report.Checks.SEO.Status).To(Equal(models.StatusPass))
	}, SpecTimeout(5*time.Second))

	It("fails a facts check when a claim is rated false", func() {
		facts := &stubFacts{reviews: map[string][]models.FactReview{
			"Studies show the moon is cheese": {{TextualRating: "False", Publisher: "Snopes"}},
		}}
		var err error
		engine, err = NewEngine(config.DefaultRules(), Checkers{Grammar: grammar, Facts: facts})
		Expect(err).NotTo(HaveOccurred())

		req.Content += " Studies show the moon is cheese."
		report, err := engine.Check(ctx, req)
		Expect(err).NotTo(HaveOccurred())

		Expect(report.Checks.Facts.Status).To(Equal(models.StatusFail))
		Expect(report.Score).To(Equal(80))
		Expect(report.Recommendations).To(ContainElement(MatchFields(IgnoreExtras, Fields{
			"Category": Equal(models.CategoryFacts),
			"Details":  ConsistOf("Studies show the moon is cheese"),
		})))
	})

	It("applies new rules to subsequent checks", func() {
		req.Content = "We go out to see the sun."
		report, err := engine.Check(ctx, req)
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Checks.AdSense.Violations).To(ContainElement(HaveField("Rule", "MIN_WORD_COUNT")))

		rules := config.DefaultRules()
		rules.AdSense.MinWordCount = 5
		Expect(engine.UpdateRules(rules)).To(Succeed())
		Expect(engine.Rules().AdSense.MinWordCount).To(Equal(5))

		report, err = engine.Check(ctx, req)
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Checks.AdSense.Violations).NotTo(ContainElement(HaveField("Rule", "MIN_WORD_COUNT")))
	})

	It("refuses rules with an invalid claim pattern", func() {
		rules := config.DefaultRules()
		rules.Facts.ClaimPatterns = []string{"(unclosed"}
		Expect(engine.UpdateRules(rules)).NotTo(Succeed())
		Expect(engine.Rules().Facts.ClaimPatterns).To(Equal(config.DefaultRules().Facts.ClaimPatterns))
	})

	It("publishes a report event with the request id", func() {
		bus := eventbus.NewEventBus(4)
		sub := bus.Subscribe(constants.ComplianceReportTopic)
		var err error
		engine, err = NewEngine(config.DefaultRules(), Checkers{Grammar: grammar}, WithEventBus(bus))
		Expect(err).NotTo(HaveOccurred())

		rctx := context.WithValue(ctx, logger.RequestIDKey, "req-123")
		report, err := engine.Check(rctx, req)
		Expect(err).NotTo(HaveOccurred())

		var event eventbus.Event
		Eventually(sub).Should(Receive(&event))
		payload, ok := event.Payload.(*models.ReportEvent)
		Expect(ok).To(BeTrue())
		Expect(payload.RequestID).To(Equal("req-123"))
		Expect(payload.Title).To(Equal(articleTitle))
		Expect(payload.Report).To(BeIdenticalTo(report))
		Expect(payload.WordCount).To(Equal(report.Checks.AdSense.WordCount))
	})
})
