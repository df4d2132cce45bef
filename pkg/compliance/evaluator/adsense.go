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
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/mzansi-pulse/compliance/pkg/config"
	"github.com/mzansi-pulse/compliance/pkg/logger"
	"github.com/mzansi-pulse/compliance/pkg/models"
	"github.com/mzansi-pulse/compliance/pkg/textutil"
)

// AdSense rule names
const (
	RuleMinWordCount      = "MIN_WORD_COUNT"
	RuleProhibitedContent = "PROHIBITED_CONTENT"
	RuleKeywordStuffing   = "KEYWORD_STUFFING"
	RuleTitleRequired     = "TITLE_REQUIRED"
	RuleMetaDescription   = "META_DESCRIPTION"
	RuleImageAltText      = "IMAGE_ALT_TEXT"
	RuleToxicContent      = "TOXIC_CONTENT"
)

// AdSenseEvaluator approximates the AdSense content policies with fixed
// heuristics plus an optional toxicity classifier
type AdSenseEvaluator struct {
	classifier ToxicityClassifier
	rules      config.AdSenseRules
	stopWords  map[string]bool
	prohibited []string
}

// NewAdSenseEvaluator creates the evaluator; a nil classifier skips the
// toxicity sub-check
func NewAdSenseEvaluator(classifier ToxicityClassifier, rules config.AdSenseRules) *AdSenseEvaluator {
	stop := make(map[string]bool, len(rules.StopWords))
	for _, w := range rules.StopWords {
		stop[strings.ToLower(w)] = true
	}
	prohibited := make([]string, 0, len(rules.ProhibitedTerms))
	for _, t := range rules.ProhibitedTerms {
		prohibited = append(prohibited, strings.ToLower(t))
	}
	return &AdSenseEvaluator{
		classifier: classifier,
		rules:      rules,
		stopWords:  stop,
		prohibited: prohibited,
	}
}

func (e *AdSenseEvaluator) Evaluate(ctx context.Context, req *models.ComplianceRequest) models.CheckResult {
	var violations, warnings []models.Issue
	words := textutil.Words(req.Content)

	if len(words) < e.rules.MinWordCount {
		violations = append(violations, models.Issue{
			Rule:     RuleMinWordCount,
			Severity: models.SeverityHigh,
			Message:  fmt.Sprintf("Content has %d words, at least %d are required", len(words), e.rules.MinWordCount),
		})
	}

	if found := e.prohibitedTerms(req.Content); len(found) > 0 {
		violations = append(violations, models.Issue{
			Rule:     RuleProhibitedContent,
			Severity: models.SeverityCritical,
			Message:  "Prohibited content detected: " + strings.Join(found, ", "),
		})
	}

	if stuffed := e.stuffedKeywords(words); len(stuffed) > 0 {
		warnings = append(warnings, models.Issue{
			Rule:     RuleKeywordStuffing,
			Severity: models.SeverityMedium,
			Message:  "Possible keyword stuffing: " + strings.Join(stuffed, ", "),
		})
	}

	if n := utf8.RuneCountInString(strings.TrimSpace(req.Title)); n < e.rules.MinTitleLength {
		msg := "Title is required"
		if n > 0 {
			msg = fmt.Sprintf("Title is too short (%d characters, at least %d required)", n, e.rules.MinTitleLength)
		}
		violations = append(violations, models.Issue{
			Rule:     RuleTitleRequired,
			Severity: models.SeverityHigh,
			Message:  msg,
		})
	}

	if n := utf8.RuneCountInString(strings.TrimSpace(req.MetaDescription)); n < e.rules.MinMetaDescriptionLength {
		msg := "Meta description is missing"
		if n > 0 {
			msg = fmt.Sprintf("Meta description is too short (%d characters, at least %d recommended)", n, e.rules.MinMetaDescriptionLength)
		}
		warnings = append(warnings, models.Issue{
			Rule:     RuleMetaDescription,
			Severity: models.SeverityMedium,
			Message:  msg,
		})
	}

	if missing := e.imagesMissingAlt(req.Images); missing > 0 {
		warnings = append(warnings, models.Issue{
			Rule:     RuleImageAltText,
			Severity: models.SeverityMedium,
			Message:  fmt.Sprintf("%d of %d images lack descriptive alt text", missing, len(req.Images)),
		})
	}

	if toxic, scores := e.checkToxicity(ctx, req.Content); toxic {
		violations = append(violations, models.Issue{
			Rule:     RuleToxicContent,
			Severity: models.SeverityCritical,
			Message: fmt.Sprintf("Content flagged as toxic (toxicity %.2f, severe toxicity %.2f)",
				scores.Toxicity, scores.SevereToxicity),
		})
	}

	result := scoreAdSense(violations, warnings)
	result.Violations = violations
	result.Warnings = warnings
	result.WordCount = len(words)
	return result
}

func scoreAdSense(violations, warnings []models.Issue) models.CheckResult {
	critical, high := 0, 0
	for _, v := range violations {
		switch v.Severity {
		case models.SeverityCritical:
			critical++
		case models.SeverityHigh:
			high++
		}
	}
	switch {
	case critical > 0:
		return models.NewScoredResult(models.StatusFail, 0)
	case high > 0:
		return models.NewScoredResult(models.StatusFail, max(0, 40-10*high))
	case len(warnings) > 2:
		return models.NewScoredResult(models.StatusWarning, max(0, 70-5*len(warnings)))
	default:
		return models.NewScoredResult(models.StatusPass, 100-10*len(warnings))
	}
}

// prohibitedTerms matches case-insensitive substrings, so a term inside a
// longer word is reported too
func (e *AdSenseEvaluator) prohibitedTerms(content string) []string {
	lower := strings.ToLower(content)
	var found []string
	for _, term := range e.prohibited {
		if term != "" && strings.Contains(lower, term) {
			found = append(found, term)
		}
	}
	return found
}

type keywordDensity struct {
	word    string
	density float64
}

func (e *AdSenseEvaluator) stuffedKeywords(words []string) []string {
	if len(words) == 0 {
		return nil
	}
	freq := make(map[string]int)
	for _, w := range words {
		w = strings.ToLower(w)
		if utf8.RuneCountInString(w) < e.rules.MinKeywordLength || e.stopWords[w] {
			continue
		}
		freq[w]++
	}

	var dense []keywordDensity
	for w, count := range freq {
		density := float64(count) / float64(len(words)) * 100
		if density > e.rules.KeywordDensityThreshold {
			dense = append(dense, keywordDensity{word: w, density: density})
		}
	}
	sort.Slice(dense, func(i, j int) bool {
		if dense[i].density != dense[j].density {
			return dense[i].density > dense[j].density
		}
		return dense[i].word < dense[j].word
	})

	out := make([]string, 0, len(dense))
	for _, d := range dense {
		out = append(out, fmt.Sprintf("%s (%.1f%%)", d.word, d.density))
	}
	return out
}

func (e *AdSenseEvaluator) imagesMissingAlt(images []models.Image) int {
	missing := 0
	for _, img := range images {
		if utf8.RuneCountInString(strings.TrimSpace(img.Alt)) < e.rules.MinAltTextLength {
			missing++
		}
	}
	return missing
}

// checkToxicity fails open: any classifier error counts as not toxic
func (e *AdSenseEvaluator) checkToxicity(ctx context.Context, content string) (bool, *models.ToxicityScores) {
	if e.classifier == nil {
		return false, nil
	}
	text := textutil.Truncate(textutil.PlainText(content), e.rules.ToxicityMaxChars)
	scores, err := e.classifier.Analyze(ctx, text)
	if err != nil || scores == nil {
		logger.WithContext(ctx).Warn("Toxicity check failed, treating content as not toxic", logger.Fields{
			"error": fmt.Sprint(err),
		})
		return false, nil
	}
	toxic := scores.Toxicity > e.rules.ToxicityThreshold || scores.SevereToxicity > e.rules.SevereToxicityThreshold
	return toxic, scores
}
