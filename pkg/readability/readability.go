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

// Package readability computes the Flesch Reading Ease score of English text.
//
// Syllables are counted with a vowel-group heuristic rather than a
// dictionary, so scores are approximate.
package readability

import (
	"regexp"
	"strings"
)

var sentenceSplitter = regexp.MustCompile(`[.!?]+`)

// Stats are the raw counts behind a score
type Stats struct {
	Sentences int     `json:"sentences"`
	Words     int     `json:"words"`
	Syllables int     `json:"syllables"`
	Score     float64 `json:"score"`
}

// Score returns the Flesch Reading Ease of text clamped to [0,100]
func Score(text string) float64 {
	return Analyze(text).Score
}

// Analyze counts sentences, words and syllables and computes the score.
// Text without words or sentences scores 0.
func Analyze(text string) Stats {
	stats := Stats{
		Sentences: countSentences(text),
	}
	words := strings.Fields(text)
	stats.Words = len(words)
	for _, w := range words {
		stats.Syllables += Syllables(w)
	}
	if stats.Words == 0 || stats.Sentences == 0 {
		return stats
	}

	wordsPerSentence := float64(stats.Words) / float64(stats.Sentences)
	syllablesPerWord := float64(stats.Syllables) / float64(stats.Words)
	stats.Score = clamp(206.835 - 1.015*wordsPerSentence - 84.6*syllablesPerWord)
	return stats
}

func countSentences(text string) int {
	n := 0
	for _, fragment := range sentenceSplitter.Split(text, -1) {
		if strings.TrimSpace(fragment) != "" {
			n++
		}
	}
	return n
}

// Syllables estimates the syllable count of a single word: one per vowel
// group, minus a trailing silent e, never less than one.
func Syllables(word string) int {
	word = strings.ToLower(word)
	count := 0
	inVowelGroup := false
	lastLetter := rune(0)
	for _, r := range word {
		if r < 'a' || r > 'z' {
			continue
		}
		vowel := isVowel(r)
		if vowel && !inVowelGroup {
			count++
		}
		inVowelGroup = vowel
		lastLetter = r
	}
	if lastLetter == 'e' {
		count--
	}
	if count < 1 {
		count = 1
	}
	return count
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
