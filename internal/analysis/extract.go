package analysis

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	minFallbackSentenceLen = 20
	minKeywordLen          = 3
	maxKeywords            = 10
	maxPainPoints          = 5
)

var nonWordRe = regexp.MustCompile(`[^\w\s]`)

// extractSentence returns the first sentence containing one of keywords,
// else the first sentence longer than minFallbackSentenceLen, else def.
func extractSentence(text string, keywords []string, def string) string {
	sentences := SplitSentences(text)
	for _, s := range sentences {
		if containsAny(Normalize(s), keywords) {
			return s
		}
	}
	for _, s := range sentences {
		if utf8.RuneCountInString(s) > minFallbackSentenceLen {
			return s
		}
	}
	return def
}

// ExtractProblem picks the sentence that best describes the problem.
func ExtractProblem(text string) string {
	return extractSentence(text, problemKeywords, DefaultProblem)
}

// ExtractSolution picks the sentence that best describes the solution.
func ExtractSolution(text string) string {
	return extractSentence(text, solutionKeywords, DefaultSolution)
}

// ExtractKeywords returns up to ten of the most frequent words longer than
// three characters. Punctuation is stripped first; words with equal counts
// keep the order in which they were first seen.
func ExtractKeywords(text string) []string {
	cleaned := nonWordRe.ReplaceAllString(Normalize(text), "")

	counts := make(map[string]int)
	order := make([]string, 0)
	for _, w := range strings.Fields(cleaned) {
		if utf8.RuneCountInString(w) <= minKeywordLen {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > maxKeywords {
		order = order[:maxKeywords]
	}
	return order
}

// ExtractPainPoints returns up to five sentences that describe a pain point.
func ExtractPainPoints(text string) []string {
	var points []string
	for _, s := range SplitSentences(text) {
		if containsAny(Normalize(s), painPointKeywords) {
			points = append(points, s)
			if len(points) == maxPainPoints {
				break
			}
		}
	}
	return points
}
