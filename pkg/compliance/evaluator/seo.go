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
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/mzansi-pulse/compliance/pkg/config"
	"github.com/mzansi-pulse/compliance/pkg/models"
)

// SEO rule names
const (
	RuleTitleMissing = "TITLE_MISSING"
	RuleTitleLength  = "TITLE_LENGTH"
	RuleMetaMissing  = "META_DESCRIPTION_MISSING"
	RuleMetaLength   = "META_DESCRIPTION_LENGTH"
	RuleHeadingH2    = "H2_HEADING"
)

var (
	markdownH2   = regexp.MustCompile(`(?m)^##\s`)
	markdownLink = regexp.MustCompile(`\[[^\]]+\]\([^)]+\)`)
)

// countMarkdownLinks counts [text](url) links; ![alt](src) images are not links
func countMarkdownLinks(content string) int {
	n := 0
	for _, loc := range markdownLink.FindAllStringIndex(content, -1) {
		if loc[0] > 0 && content[loc[0]-1] == '!' {
			continue
		}
		n++
	}
	return n
}

// SEOEvaluator is a pure function of its input
type SEOEvaluator struct {
	rules config.SEORules
}

func NewSEOEvaluator(rules config.SEORules) *SEOEvaluator {
	return &SEOEvaluator{rules: rules}
}

func (e *SEOEvaluator) Evaluate(content, title, metaDescription string) models.CheckResult {
	var issues []models.Issue
	var suggestions []string

	if issue, ok := lengthIssue(title, "Title", RuleTitleMissing, RuleTitleLength,
		e.rules.TitleMinLength, e.rules.TitleMaxLength); ok {
		issues = append(issues, issue)
	}
	if issue, ok := lengthIssue(metaDescription, "Meta description", RuleMetaMissing, RuleMetaLength,
		e.rules.MetaMinLength, e.rules.MetaMaxLength); ok {
		issues = append(issues, issue)
	}

	structure := scanMarkup(content)
	if !structure.hasH2 && !markdownH2.MatchString(content) {
		issues = append(issues, models.Issue{
			Rule:     RuleHeadingH2,
			Severity: models.SeverityMedium,
			Message:  "Add at least one H2 heading to structure the content",
		})
	}

	links := structure.anchors + countMarkdownLinks(content)
	if links < e.rules.MinLinks {
		suggestions = append(suggestions,
			fmt.Sprintf("Add at least %d internal or external links (found %d)", e.rules.MinLinks, links))
	}

	var result models.CheckResult
	i, s := len(issues), len(suggestions)
	switch {
	case i == 0 && s == 0:
		result = models.NewScoredResult(models.StatusPass, 100)
	case i <= 1 && s <= 1:
		result = models.NewScoredResult(models.StatusWarning, 80-10*i-5*s)
	default:
		result = models.NewScoredResult(models.StatusFail, max(0, 60-10*i-5*s))
	}
	result.Issues = issues
	result.Suggestions = suggestions
	return result
}

func lengthIssue(value, label, missingRule, lengthRule string, minLen, maxLen int) (models.Issue, bool) {
	n := utf8.RuneCountInString(strings.TrimSpace(value))
	if n == 0 {
		return models.Issue{
			Rule:     missingRule,
			Severity: models.SeverityMedium,
			Message:  label + " is missing",
		}, true
	}
	if n < minLen || n > maxLen {
		return models.Issue{
			Rule:     lengthRule,
			Severity: models.SeverityMedium,
			Message:  fmt.Sprintf("%s should be %d-%d characters (currently %d)", label, minLen, maxLen, n),
		}, true
	}
	return models.Issue{}, false
}

type markupStructure struct {
	hasH2   bool
	anchors int
}

// scanMarkup walks the HTML tokens of content; plain text and Markdown
// produce only text tokens
func scanMarkup(content string) markupStructure {
	var s markupStructure
	z := html.NewTokenizer(strings.NewReader(content))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return s
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch atom.Lookup(name) {
			case atom.H2:
				s.hasH2 = true
			case atom.A:
				s.anchors++
			}
		}
	}
}
