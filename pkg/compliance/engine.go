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

// Package compliance runs the four evaluators for a request and turns
// their results into a scored report with recommendations.
package compliance

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mzansi-pulse/compliance/pkg/compliance/claims"
	"github.com/mzansi-pulse/compliance/pkg/compliance/evaluator"
	"github.com/mzansi-pulse/compliance/pkg/config"
	"github.com/mzansi-pulse/compliance/pkg/constants"
	"github.com/mzansi-pulse/compliance/pkg/eventbus"
	"github.com/mzansi-pulse/compliance/pkg/logger"
	"github.com/mzansi-pulse/compliance/pkg/metrics"
	"github.com/mzansi-pulse/compliance/pkg/models"
)

// ErrCheckFailed wraps unexpected failures that prevent a report
var ErrCheckFailed = errors.New("compliance check failed")

// Evaluator names used in logs and metrics
const (
	NameGrammar = "grammar"
	NameAdSense = "adsense"
	NameFacts   = "facts"
	NameSEO     = "seo"
)

// ExtractorFactory builds the claim extractor for a facts rule table
type ExtractorFactory func(rules config.FactsRules) (evaluator.ClaimExtractor, error)

// RegexExtractorFactory is the default ExtractorFactory
func RegexExtractorFactory(rules config.FactsRules) (evaluator.ClaimExtractor, error) {
	extractor, err := claims.NewRegexExtractor(rules)
	if err != nil {
		return nil, err
	}
	return extractor, nil
}

// Checkers are the external collaborators shared by every evaluator set.
// Nil checkers degrade their evaluator or sub-check.
type Checkers struct {
	Grammar   evaluator.GrammarChecker
	Toxicity  evaluator.ToxicityClassifier
	Facts     evaluator.FactChecker
	Extractor ExtractorFactory
}

type evaluatorSet struct {
	rules   config.Rules
	grammar *evaluator.GrammarEvaluator
	adsense *evaluator.AdSenseEvaluator
	facts   *evaluator.FactsEvaluator
	seo     *evaluator.SEOEvaluator
}

// Option configures an Engine
type Option func(*Engine)

// WithTimeout bounds each Check; zero disables the deadline
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// WithEventBus publishes every report on constants.ComplianceReportTopic
func WithEventBus(bus *eventbus.EventBus) Option {
	return func(e *Engine) { e.bus = bus }
}

// WithCollector records check metrics
func WithCollector(c *metrics.Collector) Option {
	return func(e *Engine) { e.collector = c }
}

// Engine evaluates compliance requests. It is safe for concurrent use;
// UpdateRules swaps the evaluator set without affecting in-flight checks.
type Engine struct {
	checkers  Checkers
	set       atomic.Pointer[evaluatorSet]
	timeout   time.Duration
	bus       *eventbus.EventBus
	collector *metrics.Collector
	log       logger.Logger
}

// NewEngine builds an engine for rules
func NewEngine(rules config.Rules, checkers Checkers, opts ...Option) (*Engine, error) {
	if checkers.Extractor == nil {
		checkers.Extractor = RegexExtractorFactory
	}
	e := &Engine{
		checkers: checkers,
		log:      logger.GetLogger().WithField("component", "compliance_engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.UpdateRules(rules); err != nil {
		return nil, err
	}
	return e, nil
}

// UpdateRules replaces the rule tables used by subsequent checks
func (e *Engine) UpdateRules(rules config.Rules) error {
	extractor, err := e.checkers.Extractor(rules.Facts)
	if err != nil {
		return fmt.Errorf("failed to build claim extractor: %w", err)
	}
	e.set.Store(&evaluatorSet{
		rules:   rules,
		grammar: evaluator.NewGrammarEvaluator(e.checkers.Grammar, rules.Grammar),
		adsense: evaluator.NewAdSenseEvaluator(e.checkers.Toxicity, rules.AdSense),
		facts:   evaluator.NewFactsEvaluator(extractor, e.checkers.Facts, rules.Facts),
		seo:     evaluator.NewSEOEvaluator(rules.SEO),
	})
	return nil
}

// Rules returns the rule tables currently in use
func (e *Engine) Rules() config.Rules {
	return e.set.Load().rules
}

// Check validates req, runs all four evaluators concurrently and builds the
// report. Evaluator failures are folded into their results; only invalid
// input (models.ErrContentRequired) or ErrCheckFailed is returned.
func (e *Engine) Check(ctx context.Context, req *models.ComplianceRequest) (report *models.ComplianceReport, err error) {
	if err := req.Validate(); err != nil {
		e.collector.RecordRejected()
		return nil, err
	}

	log := e.log.WithContext(ctx)
	start := time.Now()
	e.collector.RecordCheckStart()
	defer func() {
		if r := recover(); r != nil {
			log.Error("Compliance check panicked", logger.Fields{
				"panic":       r,
				"stack_trace": string(debug.Stack()),
			})
			report, err = nil, fmt.Errorf("%w: %v", ErrCheckFailed, r)
		}
		if err != nil {
			e.collector.RecordCheckFailed()
		}
	}()

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	set := e.set.Load()
	checks := e.runEvaluators(ctx, set, req)

	score, canPublish := Aggregate(checks)
	report = &models.ComplianceReport{
		Score:           score,
		Checks:          checks,
		Recommendations: BuildRecommendations(checks),
		CanPublish:      canPublish,
	}

	duration := time.Since(start)
	e.recordIssues(checks)
	e.publish(ctx, req, report, start, duration)

	log.Info("Compliance check completed", logger.Fields{
		"score":       score,
		"can_publish": canPublish,
		"duration_ms": duration.Milliseconds(),
		"grammar":     checks.Grammar.Status,
		"adsense":     checks.AdSense.Status,
		"facts":       checks.Facts.Status,
		"seo":         checks.SEO.Status,
	})
	// last, so a panic above is counted only as a failure
	e.collector.RecordCheckComplete(score, canPublish, duration)
	return report, nil
}

func (e *Engine) runEvaluators(ctx context.Context, set *evaluatorSet, req *models.ComplianceRequest) models.Checks {
	var checks models.Checks
	// branches never return an error, so no branch can cancel its siblings
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		e.run(gctx, NameGrammar, &checks.Grammar, func(ctx context.Context) models.CheckResult {
			return set.grammar.Evaluate(ctx, req.Content)
		})
		return nil
	})
	g.Go(func() error {
		e.run(gctx, NameAdSense, &checks.AdSense, func(ctx context.Context) models.CheckResult {
			return set.adsense.Evaluate(ctx, req)
		})
		return nil
	})
	g.Go(func() error {
		e.run(gctx, NameFacts, &checks.Facts, func(ctx context.Context) models.CheckResult {
			return set.facts.Evaluate(ctx, req.Content, req.Title)
		})
		return nil
	})
	g.Go(func() error {
		e.run(gctx, NameSEO, &checks.SEO, func(context.Context) models.CheckResult {
			return set.seo.Evaluate(req.Content, req.Title, req.MetaDescription)
		})
		return nil
	})
	_ = g.Wait()
	return checks
}

// run evaluates one branch into dst, converting a panic into an error result
func (e *Engine) run(ctx context.Context, name string, dst *models.CheckResult, fn func(context.Context) models.CheckResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			e.log.WithContext(ctx).Error("Evaluator panicked", logger.Fields{
				"evaluator":   name,
				"panic":       r,
				"stack_trace": string(debug.Stack()),
			})
			*dst = models.NewErrorResult(fmt.Sprintf("%s check failed unexpectedly", name))
		}
		e.collector.RecordEvaluator(name, string(dst.Status), time.Since(start))
	}()
	*dst = fn(ctx)
}

func (e *Engine) recordIssues(checks models.Checks) {
	for _, group := range [][]models.Issue{checks.AdSense.Violations, checks.AdSense.Warnings, checks.SEO.Issues} {
		for _, issue := range group {
			e.collector.RecordViolation(issue.Rule, string(issue.Severity))
		}
	}
}

func (e *Engine) publish(ctx context.Context, req *models.ComplianceRequest, report *models.ComplianceReport, start time.Time, duration time.Duration) {
	if e.bus == nil {
		return
	}
	requestID, _ := ctx.Value(logger.RequestIDKey).(string)
	dropped := e.bus.Publish(constants.ComplianceReportTopic, eventbus.Event{
		Payload: &models.ReportEvent{
			RequestID: requestID,
			Title:     req.Title,
			WordCount: report.Checks.AdSense.WordCount,
			Report:    report,
			CheckedAt: start,
			Duration:  duration,
		},
	})
	if dropped > 0 {
		e.collector.RecordEventsDropped(dropped)
		e.log.WithContext(ctx).Warn("Report event dropped for slow subscribers", logger.Fields{"dropped": dropped})
	}
}
