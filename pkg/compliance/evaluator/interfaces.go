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

// Package evaluator implements the four independent compliance checks:
// grammar and readability, AdSense policy, fact verification and SEO.
// Evaluators absorb collaborator failures into their CheckResult and never
// return errors.
package evaluator

import (
	"context"

	"github.com/mzansi-pulse/compliance/pkg/models"
)

// GrammarChecker lints text for grammar and style problems
type GrammarChecker interface {
	Check(ctx context.Context, text string) ([]models.GrammarMatch, error)
}

// ToxicityClassifier scores text for toxic language
type ToxicityClassifier interface {
	Analyze(ctx context.Context, text string) (*models.ToxicityScores, error)
}

// FactChecker looks up published reviews of a claim
type FactChecker interface {
	Search(ctx context.Context, query string) ([]models.FactReview, error)
}

// ClaimExtractor finds claim-like fragments in content
type ClaimExtractor interface {
	Extract(ctx context.Context, content, title string) ([]string, error)
}
