package agents

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"tinyceo-backend/internal/analysis"
	"tinyceo-backend/internal/models"
)

func TestScoreOpportunity(t *testing.T) {
	sparse := analysis.ConversationAnalysis{
		Industry:       "martech",
		TargetAudience: "Students",
		Problem:        "Too many ads",
		UniqueValue:    "Fast",
	}

	tests := []struct {
		name      string
		analysis  analysis.ConversationAnalysis
		outputs   map[models.AgentType]json.RawMessage
		want      ScoreBreakdown
		wantTotal int
		verdict   string
	}{
		{
			name:     "no reports earns base points only",
			analysis: sparse,
			want: ScoreBreakdown{
				MarketOpportunity:    ScoreComponent{15, 25},
				CompetitivePosition:  ScoreComponent{12, 20},
				BusinessModel:        ScoreComponent{12, 20},
				ExecutionFeasibility: ScoreComponent{12, 20},
				FinancialViability:   ScoreComponent{10, 15},
			},
			wantTotal: 61,
			verdict:   "Strong Opportunity",
		},
		{
			name:     "healthy ratio and long timeline",
			analysis: sparse,
			outputs: map[models.AgentType]json.RawMessage{
				models.AgentFinance:   json.RawMessage(`{"unit_economics":{"ltv_to_cac_ratio":{"ratio":"4.1:1"}},"breakeven":{}}`),
				models.AgentDeveloper: json.RawMessage(`{"timeline":{"total_weeks":16},"mvp_features":[]}`),
				models.AgentCEO:       json.RawMessage(`{"competitive_analysis":[{},{}]}`),
			},
			want: ScoreBreakdown{
				MarketOpportunity:    ScoreComponent{15, 25},
				CompetitivePosition:  ScoreComponent{12, 20},
				BusinessModel:        ScoreComponent{16, 20},
				ExecutionFeasibility: ScoreComponent{12, 20},
				FinancialViability:   ScoreComponent{14, 15},
			},
			wantTotal: 69,
			verdict:   "Strong Opportunity",
		},
		{
			name: "growth industry with string weeks and unparseable ratio",
			analysis: analysis.ConversationAnalysis{
				Industry:       "ai",
				TargetAudience: "Enterprise companies",
				Problem:        "Support teams drown in repetitive tickets every day",
				UniqueValue:    "AI-powered automation and intelligence",
			},
			outputs: map[models.AgentType]json.RawMessage{
				models.AgentFinance:   json.RawMessage(`{"pricing":{"tiers":[{"name":"Pro"}]},"unit_economics":{"ltv_to_cac_ratio":{"ratio":"great"}}}`),
				models.AgentDeveloper: json.RawMessage(`{"timeline":{"total_weeks":"8"},"mvp_features":[{"feature":"Inbox"}]}`),
				models.AgentCEO:       json.RawMessage(`{"competitive_analysis":[{},{},{}]}`),
			},
			want: ScoreBreakdown{
				MarketOpportunity:    ScoreComponent{25, 25},
				CompetitivePosition:  ScoreComponent{20, 20},
				BusinessModel:        ScoreComponent{20, 20},
				ExecutionFeasibility: ScoreComponent{20, 20},
				FinancialViability:   ScoreComponent{10, 15},
			},
			wantTotal: 95,
			verdict:   "Exceptional Opportunity",
		},
		{
			name:     "failed reports earn nothing",
			analysis: sparse,
			outputs: map[models.AgentType]json.RawMessage{
				models.AgentFinance: json.RawMessage(`{"error":true,"message":"Failed to generate finance insights","fallback":{"summary":"x"}}`),
				models.AgentCEO:     json.RawMessage(`not json`),
			},
			want: ScoreBreakdown{
				MarketOpportunity:    ScoreComponent{15, 25},
				CompetitivePosition:  ScoreComponent{12, 20},
				BusinessModel:        ScoreComponent{12, 20},
				ExecutionFeasibility: ScoreComponent{12, 20},
				FinancialViability:   ScoreComponent{10, 15},
			},
			wantTotal: 61,
			verdict:   "Strong Opportunity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreOpportunity(tt.analysis, tt.outputs)
			assert.Equal(t, tt.want, got.Breakdown)
			assert.Equal(t, tt.wantTotal, got.OverallScore)
			assert.Equal(t, 100, got.MaxScore)
			assert.Equal(t, tt.verdict, got.Verdict)
		})
	}
}

func TestVerdict(t *testing.T) {
	tests := map[int]string{
		100: "Exceptional Opportunity",
		80:  "Exceptional Opportunity",
		79:  "Strong Opportunity",
		60:  "Strong Opportunity",
		59:  "Moderate Opportunity",
		40:  "Moderate Opportunity",
		39:  "Weak Opportunity",
		20:  "Weak Opportunity",
		19:  "Poor Opportunity",
		0:   "Poor Opportunity",
	}
	for score, want := range tests {
		got, rec := Verdict(score)
		assert.Equal(t, want, got, score)
		assert.NotEmpty(t, rec)
	}
}

func TestLeadingFloat(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"8.3:1", 8.3, true},
		{"3:1", 3, true},
		{" 12x", 12, true},
		{".5", 0.5, true},
		{"ratio 4:1", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := leadingFloat(tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
		assert.InDelta(t, tt.want, got, 1e-9, tt.in)
	}
}

func TestDetectProductType(t *testing.T) {
	tests := map[string]string{
		"A mobile marketplace for tutors":    ProductMarketplace,
		"An iPhone app for runners":          ProductMobileApp,
		"Mobile-first budgeting":             ProductMobileApp,
		"We use ML to forecast demand":       ProductAI,
		"Invoicing for plumbers, done right": ProductWebApp,
	}
	for text, want := range tests {
		assert.Equal(t, want, DetectProductType(text), text)
	}
}
