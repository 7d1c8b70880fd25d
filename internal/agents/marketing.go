package agents

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"tinyceo-backend/internal/models"
)

const marketingInstructions = `Generate a comprehensive marketing analysis with the following JSON structure:
{
  "market_analysis": {
    "market_size": {"tam": "string", "sam": "string", "som": "string", "methodology": "string"},
    "target_segments": [{"segment": "string", "size": "string", "characteristics": ["string"]}],
    "growth_rate": "string"
  },
  "positioning": {"positioning_statement": "string", "value_propositions": [{"proposition": "string", "why_it_matters": "string"}], "one_liner": "string"},
  "messaging": {"headline": "string", "subheadline": "string", "key_messages": ["string"]},
  "gtm_strategy": {"strategy_overview": "string", "channel_mix": [{"channel": "string", "priority": "string", "budget_allocation": "string", "tactics": ["string"]}]},
  "content_strategy": {"seo_keywords": ["string"], "content_pillars": ["string"]},
  "launch_plan": {"pre_launch": {}, "launch_day": {}, "post_launch": {}}
}

Base your analysis on the actual market and customers described. Size the market for THIS industry and audience.`

type marketSize struct {
	TAM         string   `json:"tam"`
	SAM         string   `json:"sam"`
	SOM         string   `json:"som"`
	Methodology string   `json:"methodology"`
	Assumptions []string `json:"assumptions"`
}

type segment struct {
	Segment         string   `json:"segment"`
	Size            string   `json:"size"`
	Characteristics []string `json:"characteristics"`
	WhenToTarget    string   `json:"when_to_target"`
}

type marketAnalysis struct {
	MarketSize     marketSize      `json:"market_size"`
	TargetSegments []segment       `json:"target_segments"`
	GrowthRate     string          `json:"growth_rate"`
	Benchmarks     IndustryProfile `json:"industry_benchmarks"`
}

type valueProposition struct {
	Proposition  string `json:"proposition"`
	WhyItMatters string `json:"why_it_matters"`
}

type positioning struct {
	PositioningStatement string             `json:"positioning_statement"`
	ValuePropositions    []valueProposition `json:"value_propositions"`
	ElevatorPitch        string             `json:"elevator_pitch"`
	OneLiner             string             `json:"one_liner"`
}

type messaging struct {
	Headline    string   `json:"headline"`
	Subheadline string   `json:"subheadline"`
	CTAPrimary  string   `json:"cta_primary"`
	KeyMessages []string `json:"key_messages"`
}

type channelPlan struct {
	Channel          string   `json:"channel"`
	Priority         string   `json:"priority"`
	BudgetAllocation string   `json:"budget_allocation"`
	Tactics          []string `json:"tactics"`
	ExpectedResults  string   `json:"expected_results"`
}

type gtmStrategy struct {
	StrategyOverview string        `json:"strategy_overview"`
	ChannelMix       []channelPlan `json:"channel_mix"`
	AvoidInitially   []string      `json:"avoid_initially"`
}

type contentStrategy struct {
	SEOKeywords    []string `json:"seo_keywords"`
	ContentPillars []string `json:"content_pillars"`
}

type launchStage struct {
	Timing    string   `json:"timing"`
	Checklist []string `json:"checklist"`
	Goals     string   `json:"goals,omitempty"`
}

type launchPlan struct {
	PreLaunch  launchStage `json:"pre_launch"`
	LaunchDay  launchStage `json:"launch_day"`
	PostLaunch launchStage `json:"post_launch"`
}

// MarketingReport is the marketing advisor's template report.
type MarketingReport struct {
	MarketAnalysis  marketAnalysis  `json:"market_analysis"`
	Positioning     positioning     `json:"positioning"`
	Messaging       messaging       `json:"messaging"`
	GTMStrategy     gtmStrategy     `json:"gtm_strategy"`
	ContentStrategy contentStrategy `json:"content_strategy"`
	LaunchPlan      launchPlan      `json:"launch_plan"`
}

// NewMarketing returns the marketing advisor.
func NewMarketing(reports ReportGenerator, logger *zap.Logger) Agent {
	a := newAdvisor(models.AgentMarketing, "Marketing", "Chief Marketing Officer & Growth Strategist", []string{
		"Market size estimation (TAM, SAM, SOM)",
		"Competitive positioning",
		"Go-to-market strategy",
		"Content marketing",
		"Brand positioning",
		"Channel strategy",
	}, reports, logger)
	a.instructions = marketingInstructions
	a.template = func(in Input) any { return marketingTemplate(in) }
	return a
}

// traditionalAlternative names what the product replaces.
func traditionalAlternative(fullText string) string {
	lower := strings.ToLower(fullText)
	switch {
	case strings.Contains(lower, "spreadsheet"):
		return "spreadsheets and manual processes"
	case strings.Contains(lower, "email"):
		return "email and scattered tools"
	}
	return "traditional, complex software"
}

func marketingTemplate(in Input) MarketingReport {
	a := in.Analysis
	profile := ProfileFor(a.Industry)

	return MarketingReport{
		MarketAnalysis: marketAnalysis{
			MarketSize: marketSize{
				TAM:         fmt.Sprintf("Total Addressable Market - %s global market for %s", profile.TAM, profile.Name),
				SAM:         "Serviceable Addressable Market - 10% of TAM you can realistically reach",
				SOM:         "Serviceable Obtainable Market - 0.5% of TAM you can capture in 3-5 years",
				Methodology: "Top-down industry analysis + bottom-up customer count estimation",
				Assumptions: []string{
					"Target customer: " + a.TargetAudience,
					"Pricing at $58 ARPU",
					"Market penetration: 2-3% of addressable market by year 5",
				},
			},
			TargetSegments: []segment{
				{
					Segment: "Primary: Early Adopters in " + a.Industry,
					Size:    "~50,000 potential customers",
					Characteristics: []string{
						"Tech-savvy, willing to try new tools",
						"Frustrated with current solutions",
						"Budget authority or strong influence",
					},
					WhenToTarget: "Now - fastest path to revenue and testimonials",
				},
				{
					Segment: "Secondary: Mainstream " + a.TargetAudience,
					Size:    "~500,000 potential customers",
					Characteristics: []string{
						"More risk-averse, need social proof",
						"Larger budgets but longer sales cycles",
					},
					WhenToTarget: "After product-market fit with early adopters (6-12 months)",
				},
				{
					Segment: "Future: Enterprise Accounts",
					Size:    "~5,000 large companies",
					Characteristics: []string{
						"Large budgets, multi-year contracts",
						"Require compliance, security, custom features",
					},
					WhenToTarget: "Year 2+ when you have proven product and resources",
				},
			},
			GrowthRate: profile.GrowthRate,
			Benchmarks: profile,
		},
		Positioning: positioning{
			PositioningStatement: fmt.Sprintf("For %s who struggle with %s, our solution is %s that %s, unlike alternatives that are complex and outdated.",
				a.TargetAudience, a.Problem, a.Solution, a.UniqueValue),
			ValuePropositions: []valueProposition{
				{Proposition: a.UniqueValue, WhyItMatters: "Saves time and reduces errors compared to manual approaches"},
				{Proposition: "Modern, intuitive design", WhyItMatters: "No training required, faster adoption across teams"},
				{Proposition: "Built for " + a.TargetAudience, WhyItMatters: "Understands your specific workflow and needs"},
			},
			ElevatorPitch: fmt.Sprintf("We help %s %s through %s. Think of us as the modern alternative to %s - simple, fast, and built for teams that value efficiency.",
				a.TargetAudience, strings.ToLower(a.Solution), strings.ToLower(a.UniqueValue), traditionalAlternative(a.FullText)),
			OneLiner: fmt.Sprintf("%s for %s", a.UniqueValue, a.TargetAudience),
		},
		Messaging: messaging{
			Headline:    a.UniqueValue + " That Actually Works",
			Subheadline: fmt.Sprintf("The modern solution for %s who want to work smarter, not harder", a.TargetAudience),
			CTAPrimary:  "Start Free 14-Day Trial",
			KeyMessages: []string{
				"Save time with " + a.UniqueValue,
				"Built specifically for " + a.TargetAudience,
				"Modern alternative to outdated solutions",
				"Try free for 14 days, no credit card required",
			},
		},
		GTMStrategy: gtmStrategy{
			StrategyOverview: "Product-led growth with content marketing foundation and targeted paid acquisition",
			ChannelMix: []channelPlan{
				{
					Channel: "Content Marketing & SEO", Priority: "High", BudgetAllocation: "25%",
					Tactics: []string{
						"Create 3-4 blog posts per week targeting buyer keywords",
						"Develop comprehensive guides and templates",
						"Guest post on industry publications",
					},
					ExpectedResults: "150-200 qualified leads per month by month 6",
				},
				{
					Channel: "Product-Led Growth", Priority: "High", BudgetAllocation: "10%",
					Tactics: []string{
						"14-day free trial with no credit card",
						"In-app upgrade prompts at friction points",
						"Referral program (give $20, get $20)",
					},
					ExpectedResults: "15-20% trial-to-paid conversion",
				},
				{
					Channel: "Paid Advertising", Priority: "High", BudgetAllocation: "40%",
					Tactics: []string{
						"Google Ads: Intent-based search campaigns",
						"LinkedIn Ads: Job title targeting for B2B",
						"Retargeting: Website visitors",
					},
					ExpectedResults: "CAC under $250 after 3 months of optimization",
				},
			},
			AvoidInitially: []string{
				"TV/Radio: too expensive and hard to track",
				"Outbound sales: better after product-market fit",
				"Events/Conferences: wait until more budget",
			},
		},
		ContentStrategy: contentStrategy{
			SEOKeywords: []string{
				a.Industry + " software",
				"how to " + strings.ToLower(a.Problem),
				strings.ToLower(a.Solution) + " tool",
				"best " + a.Industry + " platform",
				a.Industry + " automation",
			},
			ContentPillars: []string{
				"Educational guides on the core problem",
				"Customer success stories",
				"Industry benchmarks and reports",
			},
		},
		LaunchPlan: launchPlan{
			PreLaunch: launchStage{
				Timing: "30 days before",
				Checklist: []string{
					"Landing page live with email capture",
					"Product Hunt profile created",
					"Beta users lined up for testimonials",
					"Analytics and tracking configured",
				},
			},
			LaunchDay: launchStage{
				Timing: "Launch day (Tuesday-Thursday recommended)",
				Checklist: []string{
					"Product Hunt launch at 12:01 AM PT",
					`Hacker News "Show HN" post`,
					"Email blast to waitlist",
					"Personal network outreach",
				},
				Goals: "Top 3 on Product Hunt, 100+ trial signups",
			},
			PostLaunch: launchStage{
				Timing: "30 days after",
				Checklist: []string{
					"Collect and publish testimonials",
					"Start paid advertising campaigns",
					"Publish first case study",
					"Iterate based on feedback",
				},
			},
		},
	}
}
