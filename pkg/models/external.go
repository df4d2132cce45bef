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

package models

// GrammarMatch is one finding returned by a grammar/style linter
type GrammarMatch struct {
	Category     string   `json:"category"`
	Message      string   `json:"message"`
	Offset       int      `json:"offset"`
	Length       int      `json:"length"`
	Replacements []string `json:"replacements"`
}

// ToxicityScores holds the summary probabilities of a toxicity classifier
type ToxicityScores struct {
	Toxicity       float64 `json:"toxicity"`
	SevereToxicity float64 `json:"severeToxicity"`
	Threat         float64 `json:"threat"`
	Insult         float64 `json:"insult"`
	Profanity      float64 `json:"profanity"`
}

// FactReview is a published review of a claim
type FactReview struct {
	TextualRating string `json:"textualRating"`
	Publisher     string `json:"publisher"`
	URL           string `json:"url,omitempty"`
}
