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

	"github.com/mzansi-pulse/compliance/pkg/config"
	"github.com/mzansi-pulse/compliance/pkg/logger"
	"github.com/mzansi-pulse/compliance/pkg/models"
	"github.com/mzansi-pulse/compliance/pkg/readability"
	"github.com/mzansi-pulse/compliance/pkg/textutil"
)

const (
	MsgGrammarUnavailable = "Grammar check unavailable"

	suggestMinorGrammar = "Fix the flagged grammar issues and shorten long sentences to improve readability"
	suggestMajorGrammar = "Significant grammar and readability improvements are needed before publishing"
)

// GrammarEvaluator scores grammar matches together with Flesch readability
type GrammarEvaluator struct {
	checker GrammarChecker
	rules   config.GrammarRules
	ignored map[string]bool
}

// NewGrammarEvaluator creates the evaluator; a nil checker makes every
// evaluation report the check as unavailable
func NewGrammarEvaluator(checker GrammarChecker, rules config.GrammarRules) *GrammarEvaluator {
	ignored := make(map[string]bool, len(rules.IgnoredCategories))
	for _, c := range rules.IgnoredCategories {
		ignored[c] = true
	}
	return &GrammarEvaluator{checker: checker, rules: rules, ignored: ignored}
}

func (e *GrammarEvaluator) Evaluate(ctx context.Context, content string) models.CheckResult {
	if e.checker == nil {
		return models.NewErrorResult(MsgGrammarUnavailable)
	}
	matches, err := e.checker.Check(ctx, textutil.PlainText(content))
	if err != nil {
		logger.WithContext(ctx).WithError(err).Warn("Grammar checker failed")
		return models.NewErrorResult(MsgGrammarUnavailable)
	}

	// ignored categories are still reported but do not count against the text
	issues := make([]models.Issue, 0, len(matches))
	counted := 0
	for _, m := range matches {
		if !e.ignored[m.Category] {
			counted++
		}
		issues = append(issues, models.Issue{
			Category:     m.Category,
			Message:      m.Message,
			Offset:       m.Offset,
			Length:       m.Length,
			Replacements: m.Replacements,
		})
	}
	score := readability.Score(content)

	var result models.CheckResult
	switch {
	case counted == 0 && score > e.rules.PassReadability:
		result = models.NewScoredResult(models.StatusPass, 100)
	case counted < e.rules.MaxWarnIssues && score > e.rules.WarnReadability:
		result = models.NewScoredResult(models.StatusWarning, 70)
		result.Suggestions = []string{suggestMinorGrammar}
	default:
		result = models.NewScoredResult(models.StatusFail, 40)
		result.Suggestions = []string{suggestMajorGrammar}
	}
	result.Issues = issues
	result.Readability = &score
	return result
}
