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

	"golang.org/x/sync/errgroup"

	"github.com/mzansi-pulse/compliance/pkg/config"
	"github.com/mzansi-pulse/compliance/pkg/logger"
	"github.com/mzansi-pulse/compliance/pkg/models"
)

// Ratings assigned when no published review decides a claim
const (
	RatingUnverified = "unverified"
	RatingError      = "error"
	ratingFalse      = "false"

	MsgNoClaims             = "No verifiable claims found"
	MsgExtractorUnavailable = "Claim extraction unavailable"
)

// FactsEvaluator extracts claims and verifies each one independently
type FactsEvaluator struct {
	extractor ClaimExtractor
	checker   FactChecker
	rules     config.FactsRules
}

// NewFactsEvaluator creates the evaluator; a nil checker makes every lookup
// fail, which rates each claim as an error
func NewFactsEvaluator(extractor ClaimExtractor, checker FactChecker, rules config.FactsRules) *FactsEvaluator {
	return &FactsEvaluator{extractor: extractor, checker: checker, rules: rules}
}

func (e *FactsEvaluator) Evaluate(ctx context.Context, content, title string) models.CheckResult {
	claims, err := e.extractor.Extract(ctx, content, title)
	if err != nil {
		logger.WithContext(ctx).WithError(err).Warn("Claim extraction failed")
		return models.NewErrorResult(MsgExtractorUnavailable)
	}
	if len(claims) > e.rules.MaxClaims {
		claims = claims[:e.rules.MaxClaims]
	}
	if len(claims) == 0 {
		result := models.NewScoredResult(models.StatusPass, 100)
		result.Message = MsgNoClaims
		result.Claims = []models.ClaimVerification{}
		return result
	}

	verifications := e.verifyAll(ctx, claims)

	verified, anyFalse := 0, false
	for _, v := range verifications {
		if v.Verified {
			verified++
		}
		if strings.EqualFold(strings.TrimSpace(v.Rating), ratingFalse) {
			anyFalse = true
		}
	}

	var result models.CheckResult
	switch {
	case anyFalse:
		result = models.NewScoredResult(models.StatusFail, 0)
	case verified == len(verifications):
		result = models.NewScoredResult(models.StatusPass, 100)
	default:
		result = models.NewScoredResult(models.StatusWarning, 70)
		credibility := roundRatio(100*verified, len(verifications))
		result.Credibility = &credibility
	}
	result.Claims = verifications
	return result
}

// verifyAll looks every claim up concurrently. Lookups never return an
// error to the group, so one failure cannot cancel the others.
func (e *FactsEvaluator) verifyAll(ctx context.Context, claims []string) []models.ClaimVerification {
	out := make([]models.ClaimVerification, len(claims))
	g, gctx := errgroup.WithContext(ctx)
	if e.rules.MaxConcurrentLookups > 0 {
		g.SetLimit(e.rules.MaxConcurrentLookups)
	}
	for i, claim := range claims {
		g.Go(func() error {
			out[i] = e.verify(gctx, claim)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (e *FactsEvaluator) verify(ctx context.Context, claim string) (v models.ClaimVerification) {
	v = models.ClaimVerification{Claim: claim, Rating: RatingError}
	defer func() {
		if r := recover(); r != nil {
			logger.WithContext(ctx).Error("Fact lookup panicked", logger.Fields{"claim": claim, "panic": r})
			v = models.ClaimVerification{Claim: claim, Rating: RatingError}
		}
	}()

	if e.checker == nil {
		return v
	}
	reviews, err := e.checker.Search(ctx, claim)
	if err != nil {
		logger.WithContext(ctx).WithError(err).Warn("Fact lookup failed", logger.Fields{"claim": claim})
		return v
	}
	if len(reviews) == 0 {
		v.Rating = RatingUnverified
		return v
	}
	v.Verified = true
	v.Rating = reviews[0].TextualRating
	if publisher := reviews[0].Publisher; publisher != "" {
		v.Source = &publisher
	}
	return v
}

// roundRatio is num/den rounded half up, for non-negative operands
func roundRatio(num, den int) int {
	if den == 0 {
		return 0
	}
	return (2*num + den) / (2 * den)
}
