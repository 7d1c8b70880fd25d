// Package analysis turns a startup-idea conversation into structured fields
// (problem, solution, audience, industry, business model, value proposition)
// and decides whether the conversation is detailed enough for the advisors.
//
// Everything here is pure: no I/O, no shared state, safe for concurrent use.
package analysis

import "strings"

// Normalize lowercases text for case-insensitive keyword matching.
func Normalize(text string) string {
	return strings.ToLower(text)
}

func isSentenceTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// SplitSentences splits text on runs of '.', '!' and '?'. Segments are
// trimmed and whitespace-only segments are dropped. Casing is preserved.
func SplitSentences(text string) []string {
	parts := strings.FieldsFunc(text, isSentenceTerminator)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		sentences = append(sentences, p)
	}
	return sentences
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func countMatches(lower string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			n++
		}
	}
	return n
}
