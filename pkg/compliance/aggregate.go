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

import "github.com/mzansi-pulse/compliance/pkg/models"

// PublishThreshold is the minimum overall score that allows publishing
const PublishThreshold = 70

// Evaluator weights in percent
const (
	WeightGrammar = 25
	WeightAdSense = 35
	WeightFacts   = 20
	WeightSEO     = 20
)

// Aggregate combines the scored checks into the overall score. Checks
// without a score are left out and the remaining weights renormalised;
// when nothing was scored the result is 0.
func Aggregate(checks models.Checks) (int, bool) {
	weighted := []struct {
		result models.CheckResult
		weight int
	}{
		{checks.Grammar, WeightGrammar},
		{checks.AdSense, WeightAdSense},
		{checks.Facts, WeightFacts},
		{checks.SEO, WeightSEO},
	}

	sum, total := 0, 0
	for _, w := range weighted {
		if !w.result.Scored() {
			continue
		}
		sum += w.weight * w.result.ScoreValue()
		total += w.weight
	}
	if total == 0 {
		return 0, false
	}

	// round half up on integers to avoid float drift at .5 boundaries
	score := (2*sum + total) / (2 * total)
	return score, score >= PublishThreshold
}
