package agents

import (
	"fmt"

	"go.uber.org/zap"

	"tinyceo-backend/internal/models"
)

const ceoInstructions = `Generate a comprehensive CEO-level strategic analysis with the following JSON structure:
{
  "competitive_analysis": [
    {"competitor": "string", "strength": "string", "weakness": "string", "recommendation": "string", "threat_level": "High|Medium|Low"}
  ],
  "roadmap": [
    {"phase": "string", "timeline": "string", "milestone": "string", "objectives": ["string"], "success_criteria": "string", "budget": "string"}
  ],
  "fundraising": {
    "recommended_round": "string", "target_valuation": "string", "investor_targets": ["string"],
    "timeline": "string", "use_of_funds": {}, "dilution_expectation": "string", "preparation_checklist": ["string"]
  },
  "pivot_signals": [{"signal": "string", "severity": "string", "action": "string", "timeline": "string"}],
  "key_metrics": [{"metric": "string", "why_it_matters": "string", "target": "string", "how_to_track": "string"}],
  "strategic_recommendations": {
    "immediate_priorities": [{"priority": "string", "description": "string", "impact": "string", "effort": "string"}],
    "competitive_advantages": ["string"],
    "risk_mitigation": [{"risk": "string", "mitigation": "string"}]
  }
}

Base your analysis on the actual startup described. Name real competitors in THIS industry where you can.`

type competitor struct {
	Competitor     string `json:"competitor"`
	Strength       string `json:"strength"`
	Weakness       string `json:"weakness"`
	Recommendation string `json:"recommendation"`
	ThreatLevel    string `json:"threat_level"`
}

type roadmapPhase struct {
	Phase           string   `json:"phase"`
	Timeline        string   `json:"timeline"`
	Milestone       string   `json:"milestone"`
	Objectives      []string `json:"objectives"`
	SuccessCriteria string   `json:"success_criteria"`
	Budget          string   `json:"budget"`
}

type fundAllocation struct {
	Percentage  string `json:"percentage"`
	Description string `json:"description"`
}

type fundraisingPlan struct {
	RecommendedRound     string                    `json:"recommended_round"`
	TargetValuation      string                    `json:"target_valuation"`
	InvestorTargets      []string                  `json:"investor_targets"`
	Timeline             string                    `json:"timeline"`
	UseOfFunds           map[string]fundAllocation `json:"use_of_funds"`
	DilutionExpectation  string                    `json:"dilution_expectation"`
	PreparationChecklist []string                  `json:"preparation_checklist"`
}

type pivotSignal struct {
	Signal   string `json:"signal"`
	Severity string `json:"severity"`
	Action   string `json:"action"`
	Timeline string `json:"timeline"`
}

type keyMetric struct {
	Metric       string `json:"metric"`
	WhyItMatters string `json:"why_it_matters"`
	Target       string `json:"target"`
	HowToTrack   string `json:"how_to_track"`
}

type priority struct {
	Priority    string `json:"priority"`
	Description string `json:"description"`
	Impact      string `json:"impact"`
	Effort      string `json:"effort"`
}

type riskMitigation struct {
	Risk       string `json:"risk"`
	Mitigation string `json:"mitigation"`
}

type strategicRecommendations struct {
	ImmediatePriorities   []priority       `json:"immediate_priorities"`
	CompetitiveAdvantages []string         `json:"competitive_advantages"`
	RiskMitigation        []riskMitigation `json:"risk_mitigation"`
}

// CEOReport is the strategy advisor's template report.
type CEOReport struct {
	CompetitiveAnalysis      []competitor             `json:"competitive_analysis"`
	Roadmap                  []roadmapPhase           `json:"roadmap"`
	Fundraising              fundraisingPlan          `json:"fundraising"`
	PivotSignals             []pivotSignal            `json:"pivot_signals"`
	KeyMetrics               []keyMetric              `json:"key_metrics"`
	StrategicRecommendations strategicRecommendations `json:"strategic_recommendations"`
}

// NewCEO returns the strategy advisor.
func NewCEO(reports ReportGenerator, logger *zap.Logger) Agent {
	a := newAdvisor(models.AgentCEO, "CEO", "Chief Executive Officer & Strategic Advisor", []string{
		"Competitive analysis",
		"Market trend analysis",
		"Fundraising strategy",
		"Growth roadmap",
		"Risk assessment",
		"Pivot signals",
	}, reports, logger)
	a.instructions = ceoInstructions
	a.template = func(in Input) any { return ceoTemplate(in) }
	return a
}

func ceoTemplate(in Input) CEOReport {
	industry := in.Analysis.Industry

	return CEOReport{
		CompetitiveAnalysis: []competitor{
			{
				Competitor:     fmt.Sprintf("Established %s Leader", industry),
				Strength:       "Strong brand recognition, large customer base, comprehensive features",
				Weakness:       "Legacy technology, slow innovation cycles, complex pricing",
				Recommendation: "Position as the modern, user-friendly alternative. Emphasize speed and simplicity.",
				ThreatLevel:    "High",
			},
			{
				Competitor:     "Emerging Startups",
				Strength:       "Innovative features, modern tech stack, aggressive pricing",
				Weakness:       "Limited market presence, fewer integrations, unproven at scale",
				Recommendation: "Move quickly to capture market share. Focus on enterprise features they lack.",
				ThreatLevel:    "Medium",
			},
			{
				Competitor:     "DIY/Manual Solutions",
				Strength:       "Zero cost, full control, familiar to users",
				Weakness:       "Time-consuming, error-prone, doesn't scale, no automation",
				Recommendation: "Emphasize ROI from time savings and reduced errors in your messaging.",
				ThreatLevel:    "Medium",
			},
		},
		Roadmap: []roadmapPhase{
			{
				Phase:     "Phase 1: MVP & Validation",
				Timeline:  "Months 1-3",
				Milestone: "Launch MVP with core features",
				Objectives: []string{
					"Build and deploy MVP with core functionality",
					"Recruit 20-50 beta users from target market",
					"Achieve 70%+ weekly active usage",
					"Gather structured feedback via surveys and interviews",
				},
				SuccessCriteria: "Product-market fit signals: High engagement, positive NPS >50, users referring others",
				Budget:          "$40K-60K",
			},
			{
				Phase:     "Phase 2: Growth & Iteration",
				Timeline:  "Months 4-6",
				Milestone: "Achieve initial traction",
				Objectives: []string{
					"Implement top-requested features from beta feedback",
					"Launch public version with self-service onboarding",
					"Acquire first 200-500 paying customers",
					"Optimize conversion funnel and onboarding",
				},
				SuccessCriteria: "$10K+ MRR, <5% monthly churn, trial-to-paid conversion >15%",
				Budget:          "$80K-120K",
			},
			{
				Phase:     "Phase 3: Scale & Fundraising",
				Timeline:  "Months 7-12",
				Milestone: "Scale to Series A metrics",
				Objectives: []string{
					"Reach $50K+ MRR with consistent 15%+ monthly growth",
					"Build sales and marketing engine",
					"Expand team (2-3 key hires)",
					"Prepare for Series A fundraise",
				},
				SuccessCriteria: "$600K+ ARR, strong unit economics (CAC payback <6 months), clear path to $2M ARR",
				Budget:          "$200K-300K",
			},
		},
		Fundraising: fundraisingPlan{
			RecommendedRound: "Seed round: $750K - $1.5M",
			TargetValuation:  "$4M - $6M pre-money",
			InvestorTargets: []string{
				"Angel investors with experience in " + industry,
				"Early-stage VCs focused on B2B SaaS",
				"Industry-specific accelerators and funds",
			},
			Timeline: "3-6 months",
			UseOfFunds: map[string]fundAllocation{
				"product_engineering": {Percentage: "40%", Description: "Product development, 2 engineers, technical infrastructure"},
				"sales_marketing":     {Percentage: "35%", Description: "Customer acquisition, content marketing, paid ads, first marketing hire"},
				"operations":          {Percentage: "15%", Description: "Cloud infrastructure, tools, legal, accounting"},
				"runway_buffer":       {Percentage: "10%", Description: "Cash reserves for 18-month runway and contingencies"},
			},
			DilutionExpectation: "15-25%",
			PreparationChecklist: []string{
				"Polished pitch deck (10-15 slides)",
				"Financial model with 3-year projections",
				"Product demo showing key features and UX",
				"Customer testimonials and case studies",
				"Competitive analysis and market sizing",
				"Clear ask and use of funds breakdown",
			},
		},
		PivotSignals: []pivotSignal{
			{
				Signal:   "High churn rate (>10% monthly) persisting after iterations",
				Severity: "Critical",
				Action:   "Deep dive into why customers leave. May indicate product-market fit issues.",
				Timeline: "Evaluate after 3 months of data",
			},
			{
				Signal:   "CAC consistently 5x+ higher than LTV",
				Severity: "High",
				Action:   "Reassess target market or acquisition channels. May need to pivot to different customer segment.",
				Timeline: "Evaluate after 6 months",
			},
			{
				Signal:   "Unable to achieve product-market fit after 12+ months",
				Severity: "High",
				Action:   "Consider major product pivot or target market shift based on feedback.",
				Timeline: "12 months",
			},
			{
				Signal:   "Consistent negative feedback on core value proposition",
				Severity: "High",
				Action:   "Value proposition may not resonate. Test alternative messaging or features.",
				Timeline: "Ongoing",
			},
			{
				Signal:   "Market conditions fundamentally change (regulation, technology shift)",
				Severity: "Medium to Critical",
				Action:   "Adapt quickly or pivot to adjacent opportunity.",
				Timeline: "As occurs",
			},
		},
		KeyMetrics: []keyMetric{
			{Metric: "Monthly Recurring Revenue (MRR)", WhyItMatters: "Primary indicator of business growth and health", Target: "$10K by month 6, $50K by month 12", HowToTrack: "Sum of all active subscription revenue normalized to monthly"},
			{Metric: "Customer Acquisition Cost (CAC)", WhyItMatters: "Measures efficiency of customer acquisition", Target: "<$200 for SMB, <$500 for enterprise", HowToTrack: "Total sales & marketing spend / new customers acquired"},
			{Metric: "Lifetime Value (LTV)", WhyItMatters: "Total revenue expected from a customer", Target: "3-5x CAC minimum", HowToTrack: "ARPU / churn rate"},
			{Metric: "Monthly Churn Rate", WhyItMatters: "Indicates product stickiness and satisfaction", Target: "<5% monthly (<60% annually)", HowToTrack: "Customers lost in month / total customers at start of month"},
			{Metric: "Net Promoter Score (NPS)", WhyItMatters: "Measures customer satisfaction and referral likelihood", Target: ">50 (excellent), >30 (good)", HowToTrack: `Survey: "How likely to recommend?" 0-10 scale`},
			{Metric: "Activation Rate", WhyItMatters: "Percentage of signups who experience core value", Target: ">40% of signups", HowToTrack: "Users who complete key action / total signups"},
		},
		StrategicRecommendations: strategicRecommendations{
			ImmediatePriorities: []priority{
				{
					Priority:    "Validate product-market fit",
					Description: "Conduct 20+ customer development interviews. Focus on understanding pain severity and willingness to pay.",
					Impact:      "Critical - determines viability of entire venture",
					Effort:      "Medium",
				},
				{
					Priority:    "Build MVP ruthlessly focused on core value",
					Description: "Resist feature creep. Build only what's needed to solve the #1 pain point.",
					Impact:      "High - faster time to market, lower burn",
					Effort:      "High",
				},
				{
					Priority:    "Establish initial GTM motion",
					Description: "Choose 1-2 acquisition channels to test. Set up tracking and optimization loops.",
					Impact:      "High - begin learning what works",
					Effort:      "Medium",
				},
			},
			CompetitiveAdvantages: []string{
				"First-mover advantage in specific niche",
				"Superior user experience vs legacy solutions",
				"Modern technology stack enabling faster iterations",
				"Focus on underserved market segment",
			},
			RiskMitigation: []riskMitigation{
				{Risk: "Well-funded competitor launches similar product", Mitigation: "Move fast, build community, focus on niche they can't serve well"},
				{Risk: "Longer sales cycles than expected", Mitigation: "Build bottom-up adoption, product-led growth, freemium tier"},
				{Risk: "Key team member leaves", Mitigation: "Document processes, cross-train, vest equity over 4 years"},
			},
		},
	}
}
