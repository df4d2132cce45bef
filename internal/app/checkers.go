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

package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/mzansi-pulse/compliance/pkg/checkers/factcheck"
	"github.com/mzansi-pulse/compliance/pkg/checkers/gemini"
	"github.com/mzansi-pulse/compliance/pkg/checkers/languagetool"
	"github.com/mzansi-pulse/compliance/pkg/checkers/perspective"
	"github.com/mzansi-pulse/compliance/pkg/compliance"
	"github.com/mzansi-pulse/compliance/pkg/compliance/claims"
	"github.com/mzansi-pulse/compliance/pkg/compliance/evaluator"
	"github.com/mzansi-pulse/compliance/pkg/config"
	"github.com/mzansi-pulse/compliance/pkg/logger"
	"github.com/mzansi-pulse/compliance/pkg/metrics"
)

// BuildCheckers creates the external checker adapters described by cfg.
// Checkers without credentials are left nil so their evaluator degrades.
// The returned cleanup releases any clients that hold connections.
func BuildCheckers(ctx context.Context, cfg config.CheckersConfig, collector *metrics.Collector) (compliance.Checkers, func(), error) {
	log := logger.GetLogger()
	var closers []func() error
	cleanup := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				log.WithError(err).Warn("Failed to release checker client")
			}
		}
	}

	checkers := compliance.Checkers{
		Grammar:   languagetool.NewClient(cfg.LanguageTool, collector),
		Extractor: compliance.RegexExtractorFactory,
	}

	if cfg.Perspective.APIKey != "" {
		client, err := perspective.NewClient(ctx, cfg.Perspective, collector)
		if err != nil {
			return compliance.Checkers{}, cleanup, err
		}
		checkers.Toxicity = client
	} else {
		log.Warn("Perspective API key not configured, toxicity checks disabled")
	}

	if cfg.FactCheck.APIKey != "" {
		client, err := factcheck.NewClient(ctx, cfg.FactCheck, collector)
		if err != nil {
			return compliance.Checkers{}, cleanup, err
		}
		var searcher evaluator.FactChecker = client
		if cfg.Cache.RedisAddr != "" {
			rdb := factcheck.NewRedisClient(cfg.Cache)
			closers = append(closers, rdb.Close)
			searcher = factcheck.NewCachedSearcher(client, rdb, cfg.Cache.TTL)
			log.Info("Fact check cache enabled", logger.Fields{"redis": cfg.Cache.RedisAddr, "ttl": cfg.Cache.TTL.String()})
		}
		checkers.Facts = searcher
	} else {
		log.Warn("Fact check API key not configured, claims will not be verified")
	}

	if cfg.Gemini.Enabled {
		generator, err := gemini.NewModelGenerator(ctx, cfg.Gemini)
		if err != nil {
			return compliance.Checkers{}, cleanup, err
		}
		closers = append(closers, generator.Close)
		checkers.Extractor = geminiExtractorFactory(generator, cfg.Gemini, collector)
		log.Info("Gemini claim extraction enabled", logger.Fields{"model": cfg.Gemini.Model})
	}

	return checkers, cleanup, nil
}

// geminiExtractorFactory pairs the model with a regex fallback built from
// the current rule table
func geminiExtractorFactory(generator gemini.Generator, cfg config.GeminiConfig, collector *metrics.Collector) compliance.ExtractorFactory {
	return func(rules config.FactsRules) (evaluator.ClaimExtractor, error) {
		fallback, err := claims.NewRegexExtractor(rules)
		if err != nil {
			return nil, err
		}
		return gemini.NewExtractor(generator, fallback, rules.MaxClaims, cfg.Timeout, collector), nil
	}
}

// BuildEngine creates the engine and its checkers from cfg
func BuildEngine(ctx context.Context, cfg *config.Config, collector *metrics.Collector, opts ...compliance.Option) (*compliance.Engine, func(), error) {
	if cfg == nil {
		return nil, func() {}, errors.New("configuration is required")
	}
	checkers, cleanup, err := BuildCheckers(ctx, cfg.Checkers, collector)
	if err != nil {
		cleanup()
		return nil, func() {}, fmt.Errorf("failed to initialize checkers: %w", err)
	}
	opts = append([]compliance.Option{
		compliance.WithTimeout(cfg.Server.RequestTimeout),
		compliance.WithCollector(collector),
	}, opts...)
	engine, err := compliance.NewEngine(cfg.Rules, checkers, opts...)
	if err != nil {
		cleanup()
		return nil, func() {}, fmt.Errorf("failed to initialize compliance engine: %w", err)
	}
	return engine, cleanup, nil
}
