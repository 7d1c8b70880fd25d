package analysis

// Keyword matching is plain substring search on lowercased text, so short
// keywords hit inside longer words ("ai" in "said"). Callers get a label
// either way; there is no confidence signal.

// ClassifyFirstMatch returns the label of the first category in table with
// any keyword present in text, or def when none match.
func ClassifyFirstMatch(text string, table Table, def string) string {
	lower := Normalize(text)
	for _, c := range table {
		if containsAny(lower, c.Keywords) {
			return c.Label
		}
	}
	return def
}

// ClassifyByCount returns the label of the category with the most distinct
// keywords present in text. Ties go to the earlier category. When no
// keyword matches at all, def is returned.
func ClassifyByCount(text string, table Table, def string) string {
	lower := Normalize(text)
	best, bestScore := def, 0
	for _, c := range table {
		if score := countMatches(lower, c.Keywords); score > bestScore {
			best, bestScore = c.Label, score
		}
	}
	return best
}

// DetectIndustry classifies text into one of the industry labels.
func DetectIndustry(text string) string {
	return ClassifyByCount(text, IndustryTable, DefaultIndustry)
}

// DetectTargetAudience returns the first audience whose keywords appear.
func DetectTargetAudience(text string) string {
	return ClassifyFirstMatch(text, TargetAudienceTable, DefaultTargetAudience)
}

// DetectBusinessModel applies the business model rules in order.
func DetectBusinessModel(text string) string {
	lower := Normalize(text)
	for _, r := range businessModelRules {
		if len(r.Any) > 0 && !containsAny(lower, r.Any) {
			continue
		}
		if len(r.All) > 0 && countMatches(lower, r.All) != len(r.All) {
			continue
		}
		return r.Label
	}
	return DefaultBusinessModel
}

// DetectUniqueValue returns the value proposition of the first matching keyword.
func DetectUniqueValue(text string) string {
	return ClassifyFirstMatch(text, UniqueValueTable, DefaultUniqueValue)
}
