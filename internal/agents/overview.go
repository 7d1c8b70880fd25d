package agents

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"tinyceo-backend/internal/analysis"
	"tinyceo-backend/internal/models"
)

const overviewInstructions = `You are the Chief Strategy Officer synthesizing insights from your entire leadership team (CEO, Finance, Marketing, Sales, Developer).
The team reports are under "agent_outputs" in the data above.

Generate a comprehensive executive overview with this EXACT JSON structure:
{
  "executive_summary": {
    "one_sentence_pitch": "string (elevator pitch combining problem, solution, target market)",
    "opportunity_overview": "string (2-3 sentences on market opportunity, business model, and growth potential)",
    "market_context": {"industry": "string", "market_size": "string", "growth_rate": "string", "competitive_position": "string"},
    "financial_highlights": {"year_1_arr": "string", "year_3_arr": "string", "unit_economics": "string", "breakeven": "string"},
    "key_strengths": ["string"],
    "key_challenges": ["string"]
  },
  "next_steps": [
    {"step": "string", "priority": "High|Medium|Low", "owner": "CEO|CTO|CFO|CMO|Sales Lead", "timeline": "This week|This month|Next quarter", "why": "string"}
  ],
  "key_risks": [
    {"risk": "string", "severity": "Critical|High|Medium|Low", "source_team": "string", "mitigation": "string"}
  ],
  "success_metrics": [{"metric": "string", "target": "string", "timeframe": "string", "source": "string"}]
}

NEXT STEPS must be 8-12 specific actions that reference actual insights from the teams.
KEY RISKS must combine risks from ALL teams (technical, market, financial, GTM).
Be specific with numbers, timelines, and concrete actions - not generic advice.`

// Score caps per opportunity dimension.
const (
	maxMarketOpportunity     = 25
	maxCompetitivePosition   = 20
	maxBusinessModel         = 20
	maxExecutionFeasibility  = 20
	maxFinancialViability    = 15
	maxOpportunityScore      = 100
	growthIndustryBonus      = 5
	executionWeeksThreshold  = 12
	excellentLTVCACThreshold = 6
	healthyLTVCACThreshold   = 3
)

var growthIndustryKeys = []string{"ai", "fintech", "healthcare", "saas", "edtech"}

// ScoreComponent is one dimension of the opportunity score.
type ScoreComponent struct {
	Score int `json:"score"`
	Max   int `json:"max"`
}

// ScoreBreakdown lists the five scored dimensions.
type ScoreBreakdown struct {
	MarketOpportunity    ScoreComponent `json:"market_opportunity"`
	CompetitivePosition  ScoreComponent `json:"competitive_position"`
	BusinessModel        ScoreComponent `json:"business_model"`
	ExecutionFeasibility ScoreComponent `json:"execution_feasibility"`
	FinancialViability   ScoreComponent `json:"financial_viability"`
}

// OpportunityScore rates the idea out of 100 using the analysis and the
// other advisors' reports.
type OpportunityScore struct {
	OverallScore   int            `json:"overall_score"`
	MaxScore       int            `json:"max_score"`
	Percentage     string         `json:"percentage"`
	Verdict        string         `json:"verdict"`
	Recommendation string         `json:"recommendation"`
	Breakdown      ScoreBreakdown `json:"breakdown"`
}

// ScoreOpportunity computes the opportunity score. Missing or failed reports
// simply earn no bonus points.
func ScoreOpportunity(a analysis.ConversationAnalysis, outputs map[models.AgentType]json.RawMessage) OpportunityScore {
	ceo := reportOf(outputs, models.AgentCEO)
	finance := reportOf(outputs, models.AgentFinance)
	developer := reportOf(outputs, models.AgentDeveloper)

	b := ScoreBreakdown{
		MarketOpportunity:    ScoreComponent{Score: scoreMarket(a), Max: maxMarketOpportunity},
		CompetitivePosition:  ScoreComponent{Score: scoreCompetition(a, ceo), Max: maxCompetitivePosition},
		BusinessModel:        ScoreComponent{Score: scoreBusinessModel(finance), Max: maxBusinessModel},
		ExecutionFeasibility: ScoreComponent{Score: scoreExecution(developer), Max: maxExecutionFeasibility},
		FinancialViability:   ScoreComponent{Score: scoreFinancials(finance), Max: maxFinancialViability},
	}
	total := b.MarketOpportunity.Score + b.CompetitivePosition.Score + b.BusinessModel.Score +
		b.ExecutionFeasibility.Score + b.FinancialViability.Score

	verdict, recommendation := Verdict(total)
	return OpportunityScore{
		OverallScore:   total,
		MaxScore:       maxOpportunityScore,
		Percentage:     fmt.Sprintf("%d%%", total),
		Verdict:        verdict,
		Recommendation: recommendation,
		Breakdown:      b,
	}
}

// Verdict maps an overall score to a verdict and a recommendation.
func Verdict(score int) (string, string) {
	switch {
	case score >= 80:
		return "Exceptional Opportunity", "Pursue aggressively. Strong product-market fit potential with healthy economics."
	case score >= 60:
		return "Strong Opportunity", "Proceed with confidence. Solid fundamentals with clear path to success."
	case score >= 40:
		return "Moderate Opportunity", "Proceed cautiously. Validate assumptions quickly and be ready to pivot."
	case score >= 20:
		return "Weak Opportunity", "Significant concerns. Consider major pivots or alternative opportunities."
	}
	return "Poor Opportunity", "Not recommended. Fundamental issues with market, model, or execution."
}

func reportOf(outputs map[models.AgentType]json.RawMessage, t models.AgentType) gjson.Result {
	raw, ok := outputs[t]
	if !ok || !gjson.ValidBytes(raw) {
		return gjson.Result{}
	}
	return gjson.ParseBytes(raw)
}

// truthy follows JSON-ish truthiness: absent, null, false, 0 and "" are false.
func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.Number:
		return r.Num != 0
	case gjson.String:
		return r.Str != ""
	}
	return r.Exists()
}

func arrayLen(r gjson.Result) int {
	if !r.IsArray() {
		return 0
	}
	return len(r.Array())
}

var leadingNumber = regexp.MustCompile(`^\s*[-+]?(\d+(\.\d*)?|\.\d+)`)

// leadingFloat parses the numeric prefix of s, so "8.3:1" yields 8.3.
func leadingFloat(s string) (float64, bool) {
	m := leadingNumber.FindString(s)
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(m), 64)
	return f, err == nil
}

func scoreMarket(a analysis.ConversationAnalysis) int {
	score := 15
	industry := strings.ToLower(a.Industry)
	for _, key := range growthIndustryKeys {
		if strings.Contains(industry, key) {
			score += growthIndustryBonus
			break
		}
	}
	if utf8.RuneCountInString(a.TargetAudience) > 15 {
		score += 3
	}
	if utf8.RuneCountInString(a.Problem) > 30 {
		score += 2
	}
	return min(score, maxMarketOpportunity)
}

func scoreCompetition(a analysis.ConversationAnalysis, ceo gjson.Result) int {
	score := 12
	if utf8.RuneCountInString(a.UniqueValue) > 20 {
		score += 4
	}
	if arrayLen(ceo.Get("competitive_analysis")) >= 3 {
		score += 4
	}
	return min(score, maxCompetitivePosition)
}

func scoreBusinessModel(finance gjson.Result) int {
	score := 12
	if truthy(finance.Get("pricing.tiers")) {
		score += 4
	}
	if truthy(finance.Get("unit_economics")) {
		score += 4
	}
	return min(score, maxBusinessModel)
}

func scoreExecution(developer gjson.Result) int {
	score := 12
	if weeks := developer.Get("timeline.total_weeks"); weeks.Exists() && weeks.Type != gjson.Null && weeks.Float() <= executionWeeksThreshold {
		score += 4
	}
	if arrayLen(developer.Get("mvp_features")) > 0 {
		score += 4
	}
	return min(score, maxExecutionFeasibility)
}

func scoreFinancials(finance gjson.Result) int {
	score := 10
	if ratio, ok := leadingFloat(finance.Get("unit_economics.ltv_to_cac_ratio.ratio").String()); ok {
		switch {
		case ratio >= excellentLTVCACThreshold:
			score += 3
		case ratio >= healthyLTVCACThreshold:
			score += 2
		}
	}
	if truthy(finance.Get("breakeven")) {
		score += 2
	}
	return min(score, maxFinancialViability)
}

type marketContext struct {
	Industry            string `json:"industry"`
	MarketSize          string `json:"market_size"`
	GrowthRate          string `json:"growth_rate"`
	CompetitivePosition string `json:"competitive_position"`
}

type financialHighlights struct {
	Year1ARR      string `json:"year_1_arr"`
	Year3ARR      string `json:"year_3_arr"`
	UnitEconomics string `json:"unit_economics"`
	Breakeven     string `json:"breakeven"`
	FundingNeed   string `json:"funding_need"`
}

type executiveSummary struct {
	OneSentencePitch    string              `json:"one_sentence_pitch"`
	OpportunityOverview string              `json:"opportunity_overview"`
	MarketContext       marketContext       `json:"market_context"`
	FinancialHighlights financialHighlights `json:"financial_highlights"`
	KeyStrengths        []string            `json:"key_strengths"`
	KeyChallenges       []string            `json:"key_challenges"`
}

type quickWin struct {
	Win             string `json:"win"`
	Impact          string `json:"impact"`
	Effort          string `json:"effort"`
	Timeline        string `json:"timeline"`
	SuccessCriteria string `json:"success_criteria"`
}

type keyRisk struct {
	Risk       string `json:"risk"`
	Severity   string `json:"severity"`
	SourceTeam string `json:"source_team"`
	Mitigation string `json:"mitigation"`
}

type nextStep struct {
	Step     string `json:"step"`
	Priority string `json:"priority"`
	Owner    string `json:"owner"`
	Timeline string `json:"timeline"`
	Why      string `json:"why"`
}

type milestone struct {
	Milestone       string   `json:"milestone"`
	Timeline        string   `json:"timeline"`
	SuccessCriteria []string `json:"success_criteria"`
}

type decisionFramework struct {
	GoCriteria     []string `json:"go_decision_criteria"`
	NoGoSignals    []string `json:"no_go_signals"`
	PivotTriggers  []string `json:"pivot_triggers"`
	ReviewQuestion []string `json:"monthly_review_questions"`
}

// OverviewReport is the synthesis advisor's template report.
type OverviewReport struct {
	ExecutiveSummary  executiveSummary  `json:"executive_summary"`
	OpportunityScore  OpportunityScore  `json:"opportunity_score"`
	QuickWins         []quickWin        `json:"quick_wins"`
	KeyRisks          []keyRisk         `json:"key_risks"`
	NextSteps         []nextStep        `json:"next_steps"`
	SuccessMilestones []milestone       `json:"success_milestones"`
	DecisionFramework decisionFramework `json:"decision_framework"`
}

// overviewPromptInput sends the analysis fields and the team reports together.
type overviewPromptInput struct {
	analysis.ConversationAnalysis
	AgentOutputs map[models.AgentType]json.RawMessage `json:"agent_outputs"`
}

// NewOverview returns the synthesis advisor. It reads Input.Outputs.
func NewOverview(reports ReportGenerator, logger *zap.Logger) Agent {
	a := newAdvisor(models.AgentOverview, "Overview", "Executive Advisor & Strategy Synthesizer", []string{
		"Executive summary generation",
		"Opportunity scoring",
		"Quick wins identification",
		"Risk prioritization",
		"Action plan creation",
		"Resource allocation",
	}, reports, logger)
	a.instructions = overviewInstructions
	a.promptInput = func(in Input) any {
		return overviewPromptInput{ConversationAnalysis: in.Analysis, AgentOutputs: in.Outputs}
	}
	a.template = func(in Input) any { return overviewTemplate(in) }
	return a
}

// stringOr returns the string at path in r, or def when it is missing or empty.
func stringOr(r gjson.Result, path, def string) string {
	if v := r.Get(path); v.Exists() && v.String() != "" {
		return v.String()
	}
	return def
}

func overviewTemplate(in Input) OverviewReport {
	a := in.Analysis
	finance := reportOf(in.Outputs, models.AgentFinance)
	marketing := reportOf(in.Outputs, models.AgentMarketing)
	developer := reportOf(in.Outputs, models.AgentDeveloper)
	profile := ProfileFor(a.Industry)

	ratio := stringOr(finance, "unit_economics.ltv_to_cac_ratio.ratio", "8:1")
	mvpWeeks := "10-12 weeks"
	if w := developer.Get("timeline.total_weeks"); w.Exists() && w.Int() > 0 {
		mvpWeeks = fmt.Sprintf("%d weeks", w.Int())
	}

	risks := []keyRisk{
		{Risk: "Competition from well-funded incumbents", Severity: "High", SourceTeam: "CEO", Mitigation: "Focus on an underserved niche and move faster than they can respond"},
		{Risk: "Slow customer acquisition or high CAC", Severity: "High", SourceTeam: "Marketing", Mitigation: "Test 2-3 channels early, double down on what converts"},
		{Risk: "Running out of runway before product-market fit", Severity: "Critical", SourceTeam: "Finance", Mitigation: "Keep burn lean, set clear milestones for the next raise"},
	}
	for _, r := range developer.Get("technical_risks").Array() {
		if name := r.Get("risk").String(); name != "" {
			risks = append(risks, keyRisk{
				Risk:       name,
				Severity:   stringOr(r, "impact", stringOr(r, "severity", "Medium")),
				SourceTeam: "Developer",
				Mitigation: stringOr(r, "mitigation.0", stringOr(r, "mitigation", "Review with the technical lead")),
			})
		}
		if len(risks) >= 5 {
			break
		}
	}

	return OverviewReport{
		ExecutiveSummary: executiveSummary{
			OneSentencePitch: fmt.Sprintf("%s for %s in the %s industry", a.Solution, a.TargetAudience, a.Industry),
			OpportunityOverview: fmt.Sprintf("A %s solution targeting %s. The product addresses %s through %s. "+
				"With a clear go-to-market strategy focused on product-led growth and content marketing, combined with strong unit economics "+
				"(%s LTV:CAC ratio), this represents a significant market opportunity with a realistic path to $2M+ ARR by year 3.",
				a.Industry, a.TargetAudience, a.Problem, a.UniqueValue, ratio),
			MarketContext: marketContext{
				Industry:            a.Industry,
				MarketSize:          stringOr(marketing, "market_analysis.market_size.tam", profile.TAM+" total addressable market"),
				GrowthRate:          profile.GrowthRate,
				CompetitivePosition: "Opportunity to differentiate through superior UX and modern technology",
			},
			FinancialHighlights: financialHighlights{
				Year1ARR:      stringOr(finance, "revenue_projections.year_1.realistic.arr", "$210K ARR realistic case"),
				Year3ARR:      stringOr(finance, "revenue_projections.year_3.realistic", "$1.8M ARR realistic case"),
				UnitEconomics: ratio + " LTV:CAC ratio",
				Breakeven:     stringOr(finance, "breakeven.timeline", "Month 16-20"),
				FundingNeed:   "$750K seed round for 18-month runway",
			},
			KeyStrengths: []string{
				"Strong value proposition: " + a.UniqueValue,
				"Large addressable market with clear segmentation",
				"Product-led growth model reduces CAC",
				"Modern tech stack enables rapid iteration",
			},
			KeyChallenges: []string{
				"Competition from established players and emerging startups",
				"Need to prove product-market fit quickly",
				"Building brand awareness in crowded market",
			},
		},
		OpportunityScore: ScoreOpportunity(a, in.Outputs),
		QuickWins: []quickWin{
			{Win: "Launch MVP in " + mvpWeeks, Impact: "Start validating product-market fit with real users", Effort: "High", Timeline: mvpWeeks, SuccessCriteria: "MVP deployed to production, accessible to beta users"},
			{Win: "Recruit 30-50 beta users through direct outreach", Impact: "Early feedback, testimonials, and potential paying customers", Effort: "Medium", Timeline: "2-4 weeks", SuccessCriteria: "30+ active beta users providing weekly feedback"},
			{Win: "Create content foundation (landing page + 5 blog posts)", Impact: "SEO groundwork, credibility, inbound lead generation", Effort: "Low", Timeline: "2-3 weeks", SuccessCriteria: "Published and ranking for target keywords within 3 months"},
			{Win: "Set up analytics and tracking infrastructure", Impact: "Data-driven decisions from day one", Effort: "Low", Timeline: "1 week", SuccessCriteria: "Tracking user behavior, conversion funnel, and key metrics"},
		},
		KeyRisks: risks,
		NextSteps: []nextStep{
			{Step: "Conduct 5 customer development interviews", Priority: "High", Owner: "CEO", Timeline: "This week", Why: "Validate that " + strings.ToLower(a.Problem) + " is a painful, paid-for problem"},
			{Step: "Finalize MVP feature list", Priority: "High", Owner: "CTO", Timeline: "This week", Why: "Keeps the build inside the " + mvpWeeks + " timeline"},
			{Step: "Create landing page with email capture", Priority: "Medium", Owner: "CMO", Timeline: "This week", Why: "Starts building a waitlist before launch"},
			{Step: "Validate pricing with 10 prospects", Priority: "High", Owner: "CFO", Timeline: "This month", Why: "Confirms the unit economics behind the " + ratio + " LTV:CAC ratio"},
			{Step: "Build a list of 100 ICP accounts", Priority: "Medium", Owner: "Sales Lead", Timeline: "This month", Why: "Feeds outbound prospecting for the first paying customers"},
		},
		SuccessMilestones: []milestone{
			{Milestone: "Beta Launch with 30-50 Users", Timeline: "Month 3", SuccessCriteria: []string{"30+ active beta users", ">70% weekly engagement", "NPS >50"}},
			{Milestone: "$10K MRR", Timeline: "Month 6-8", SuccessCriteria: []string{"150-200 paying customers", "Clear product-market fit signals", "Positive unit economics proven"}},
			{Milestone: "$50K MRR", Timeline: "Month 12", SuccessCriteria: []string{"$600K ARR run rate", "15%+ monthly growth", "Proven, repeatable sales process"}},
			{Milestone: "Series A Ready", Timeline: "Month 15-18", SuccessCriteria: []string{"$1M+ ARR", "LTV:CAC >5:1", "Experienced team in place"}},
		},
		DecisionFramework: decisionFramework{
			GoCriteria: []string{
				"Clear, validated customer pain point",
				"Viable path to $10M+ ARR",
				"Differentiated solution",
				"Can build MVP in <6 months",
			},
			NoGoSignals: []string{
				"Unable to validate problem exists after 20+ interviews",
				"Market too small (<$100M TAM)",
				"CAC consistently >5x LTV",
			},
			PivotTriggers: []string{
				"Churn rate >10% monthly for 3+ months",
				"Unable to achieve $5K MRR in 9 months",
				"Consistent negative feedback on core value prop",
			},
			ReviewQuestion: []string{
				"Are we making progress toward key milestones?",
				"What did we learn this month?",
				"Do we need to pivot any part of the strategy?",
			},
		},
	}
}
