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

// Package claims finds claim-like fragments worth fact-checking.
package claims

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/mzansi-pulse/compliance/pkg/config"
)

// RegexExtractor matches a fixed list of patterns against the content.
// Matches are collected pattern by pattern, in document order within each
// pattern, until the limit is reached. A match already covered by an earlier
// claim is skipped.
type RegexExtractor struct {
	patterns []*regexp.Regexp
	limit    int
}

// NewRegexExtractor compiles the claim patterns from rules
func NewRegexExtractor(rules config.FactsRules) (*RegexExtractor, error) {
	patterns := make([]*regexp.Regexp, 0, len(rules.ClaimPatterns))
	for _, p := range rules.ClaimPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid claim pattern %q: %w", p, err)
		}
		patterns = append(patterns, re)
	}
	return &RegexExtractor{patterns: patterns, limit: rules.MaxClaims}, nil
}

// Extract never fails; the error is part of the extractor contract
func (e *RegexExtractor) Extract(_ context.Context, content, _ string) ([]string, error) {
	return e.Find(content), nil
}

// Find returns up to limit trimmed, distinct matches
func (e *RegexExtractor) Find(content string) []string {
	found := []string{}
	var folded []string
	for _, re := range e.patterns {
		for _, m := range re.FindAllString(content, -1) {
			if len(found) >= e.limit {
				return found
			}
			claim := strings.TrimSpace(m)
			key := strings.ToLower(claim)
			if claim == "" || covered(folded, key) {
				continue
			}
			found = append(found, claim)
			folded = append(folded, key)
		}
	}
	return found
}

func covered(claims []string, key string) bool {
	for _, c := range claims {
		if strings.Contains(c, key) {
			return true
		}
	}
	return false
}
