package analysis

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

// Summary restates an analysis as short pitch-style fields.
type Summary struct {
	OneLineSummary    string `json:"one_line_summary"`
	ProblemStatement  string `json:"problem_statement"`
	ProposedSolution  string `json:"proposed_solution"`
	TargetMarket      string `json:"target_market"`
	BusinessModel     string `json:"business_model"`
	KeyDifferentiator string `json:"key_differentiator"`
}

// Summarize builds a Summary from a.
func Summarize(a ConversationAnalysis) Summary {
	return Summary{
		OneLineSummary: fmt.Sprintf("A %s solution for %s that %s",
			a.Industry, a.TargetAudience, strings.ToLower(a.Solution)),
		ProblemStatement:  a.Problem,
		ProposedSolution:  a.Solution,
		TargetMarket:      a.TargetAudience,
		BusinessModel:     a.BusinessModel,
		KeyDifferentiator: a.UniqueValue,
	}
}

var growthIndustries = []string{"ai", "fintech", "healthcare", "saas"}

// OpportunityScore rates an analysis from 50 to 100. Growth industries,
// well-described fields, a rich keyword set and a recurring or marketplace
// business model each add points.
func OpportunityScore(a ConversationAnalysis) int {
	score := 50

	if slices.Contains(growthIndustries, Normalize(a.Industry)) {
		score += 10
	}
	if utf8.RuneCountInString(a.Problem) > 30 {
		score += 5
	}
	if utf8.RuneCountInString(a.Solution) > 30 {
		score += 5
	}
	if utf8.RuneCountInString(a.TargetAudience) > 10 {
		score += 5
	}
	if len(a.Keywords) >= 5 {
		score += 5
	}

	model := Normalize(a.BusinessModel)
	if strings.Contains(model, "subscription") {
		score += 10
	}
	if strings.Contains(model, "marketplace") {
		score += 8
	}

	return min(score, 100)
}
