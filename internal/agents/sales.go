package agents

import (
	"fmt"

	"go.uber.org/zap"

	"tinyceo-backend/internal/models"
)

const salesInstructions = `Generate a comprehensive sales strategy with the following JSON structure:
{
  "icp": {"title": "string", "company_profile": {}, "qualification_criteria": {"must_have": ["string"], "nice_to_have": ["string"]}},
  "buyer_persona": {"name": "string", "role": "string", "goals": ["string"], "pain_points": ["string"]},
  "lead_gen": {"channels": [{"channel": "string", "tactics": ["string"], "expected_leads": "string"}]},
  "playbook": {"stages": [{"stage": "string", "goal": "string", "actions": ["string"]}]},
  "objection_handling": [{"objection": "string", "response": "string", "follow_up": "string"}],
  "sales_metrics": {"key_metrics": [{"metric": "string", "target": "string"}]}
}

Base your analysis on the actual customers and business model described. Tailor the ICP and playbook to THIS startup.`

type companyProfile struct {
	CompanySize   string `json:"company_size"`
	AnnualRevenue string `json:"annual_revenue"`
	Industry      string `json:"industry"`
	GrowthStage   string `json:"growth_stage"`
}

type qualification struct {
	MustHave   []string `json:"must_have"`
	NiceToHave []string `json:"nice_to_have"`
}

type idealCustomer struct {
	Title                 string         `json:"title"`
	CompanyProfile        companyProfile `json:"company_profile"`
	BehavioralIndicators  []string       `json:"behavioral_indicators"`
	RedFlags              []string       `json:"red_flags"`
	QualificationCriteria qualification  `json:"qualification_criteria"`
}

type buyerPersona struct {
	Name       string   `json:"name"`
	Role       string   `json:"role"`
	Audience   string   `json:"audience"`
	Goals      []string `json:"goals"`
	PainPoints []string `json:"pain_points"`
}

type leadChannel struct {
	Channel       string   `json:"channel"`
	Tactics       []string `json:"tactics"`
	ExpectedLeads string   `json:"expected_leads"`
}

type leadGeneration struct {
	Channels []leadChannel `json:"channels"`
}

type playbookStage struct {
	Stage   string   `json:"stage"`
	Goal    string   `json:"goal"`
	Actions []string `json:"actions"`
}

type playbook struct {
	Stages []playbookStage `json:"stages"`
}

type objection struct {
	Objection string `json:"objection"`
	RootCause string `json:"root_cause"`
	Response  string `json:"response"`
	FollowUp  string `json:"follow_up"`
}

type salesMetric struct {
	Metric       string `json:"metric"`
	Definition   string `json:"definition"`
	Target       string `json:"target"`
	WhyItMatters string `json:"why_it_matters"`
}

type salesMetrics struct {
	KeyMetrics       []salesMetric     `json:"key_metrics"`
	StageConversions map[string]string `json:"stage_conversion_rates"`
}

// SalesReport is the sales advisor's template report.
type SalesReport struct {
	ICP               idealCustomer  `json:"icp"`
	BuyerPersona      buyerPersona   `json:"buyer_persona"`
	LeadGen           leadGeneration `json:"lead_gen"`
	Playbook          playbook       `json:"playbook"`
	ObjectionHandling []objection    `json:"objection_handling"`
	SalesMetrics      salesMetrics   `json:"sales_metrics"`
}

// NewSales returns the sales advisor.
func NewSales(reports ReportGenerator, logger *zap.Logger) Agent {
	a := newAdvisor(models.AgentSales, "Sales", "Chief Revenue Officer & Sales Strategist", []string{
		"Ideal Customer Profile (ICP) definition",
		"Lead generation strategy",
		"Sales playbook creation",
		"Objection handling",
		"Sales metrics and forecasting",
		"Sales process optimization",
	}, reports, logger)
	a.instructions = salesInstructions
	a.template = func(in Input) any { return salesTemplate(in) }
	return a
}

func salesTemplate(in Input) SalesReport {
	a := in.Analysis

	return SalesReport{
		ICP: idealCustomer{
			Title: fmt.Sprintf("Ideal Customer Profile for %s Solution", a.Industry),
			CompanyProfile: companyProfile{
				CompanySize:   "10-500 employees",
				AnnualRevenue: "$1M - $50M",
				Industry:      a.Industry,
				GrowthStage:   "Series A to Series B, growing 20%+ YoY",
			},
			BehavioralIndicators: []string{
				"Recently raised funding (indicates budget and growth)",
				"Posting jobs for operations/growth roles",
				"Active on LinkedIn about scaling challenges",
			},
			RedFlags: []string{
				"Company is downsizing or laying off staff",
				"No clear decision-maker or budget owner",
				"Very price-sensitive with no clear ROI understanding",
			},
			QualificationCriteria: qualification{
				MustHave: []string{
					"Experiences the core problem we solve",
					"Has budget or can allocate budget",
					"Decision-maker engaged or accessible",
					"Timeline to implement (not just exploring)",
				},
				NiceToHave: []string{
					"Currently using competitor (easier to show value)",
					"Growing rapidly (urgent need)",
					"Good brand/logo for case studies",
				},
			},
		},
		BuyerPersona: buyerPersona{
			Name:     "Operations Olivia",
			Role:     "Head of Operations",
			Audience: a.TargetAudience,
			Goals: []string{
				"Hit team targets with fewer manual hours",
				"Adopt tools the whole team actually uses",
				"Show measurable ROI to leadership",
			},
			PainPoints: []string{
				a.Problem,
				"Too much time lost to repetitive work",
				"Existing tools are complex and expensive",
			},
		},
		LeadGen: leadGeneration{
			Channels: []leadChannel{
				{
					Channel:       "Outbound prospecting",
					Tactics:       []string{"Personalized LinkedIn outreach", "3-touch email sequences", "Warm intros from investors and advisors"},
					ExpectedLeads: "20-30 qualified conversations per month",
				},
				{
					Channel:       "Inbound from content",
					Tactics:       []string{"Gated templates and guides", "Webinars on the core problem", "Free tools and calculators"},
					ExpectedLeads: "50-100 MQLs per month by month 6",
				},
				{
					Channel:       "Partnerships",
					Tactics:       []string{"Integration partners", "Agencies and consultants", "Referral program for customers"},
					ExpectedLeads: "10-20 referred leads per month",
				},
			},
		},
		Playbook: playbook{
			Stages: []playbookStage{
				{Stage: "Prospecting", Goal: "Book discovery calls with ICP accounts", Actions: []string{"Research account", "Personalize first touch", "Follow up within 48 hours"}},
				{Stage: "Discovery", Goal: "Qualify pain, budget and timeline", Actions: []string{"Ask pain questions", "Quantify cost of the problem", "Identify decision-maker"}},
				{Stage: "Demo", Goal: "Show the product solving their problem", Actions: []string{"Tailor demo to use case", "Share customer story", "Agree on trial success criteria"}},
				{Stage: "Trial", Goal: "Prove value in 14 days", Actions: []string{"Guided onboarding", "Mid-trial check-in", "Review results against criteria"}},
				{Stage: "Close", Goal: "Convert to paid plan", Actions: []string{"Send proposal", "Handle objections", "Hand off to customer success"}},
			},
		},
		ObjectionHandling: []objection{
			{
				Objection: `"It's too expensive"`,
				RootCause: "Don't see the value or ROI",
				Response:  "I understand budget is important. Let's look at the ROI - if this saves your team even 5 hours per week, the investment pays for itself in less than a month.",
				FollowUp:  "What's your current cost of doing this manually? (time + errors)",
			},
			{
				Objection: `"We're already using [Competitor]"`,
				RootCause: "Happy with current solution or switching cost concern",
				Response:  "That's great you have a solution! What's working well, and what would you improve if you could?",
				FollowUp:  "Would you be open to a side-by-side comparison over a 2-week trial?",
			},
			{
				Objection: `"I need to think about it"`,
				RootCause: "Unclear on value, risk-averse, or not decision-maker",
				Response:  "Of course, this is an important decision. What specific concerns do you have? Let's address those now.",
				FollowUp:  "What would need to be true for this to be a no-brainer yes?",
			},
			{
				Objection: `"We want to build this ourselves"`,
				RootCause: "Engineer-led company",
				Response:  "Is this the best use of your engineering time vs building core product features? Customers deploy us in days instead of months of dev time.",
				FollowUp:  "What would your team build instead if they didn't build this?",
			},
		},
		SalesMetrics: salesMetrics{
			KeyMetrics: []salesMetric{
				{Metric: "Sales Cycle Length", Definition: "Average days from first contact to closed-won", Target: "30-45 days", WhyItMatters: "Shorter cycles mean faster revenue"},
				{Metric: "Win Rate", Definition: "Percentage of qualified opportunities that close", Target: "25-30%", WhyItMatters: "Indicates product-market fit and sales effectiveness"},
				{Metric: "Average Deal Size (ACV)", Definition: "Average annual contract value", Target: "$1,800/year", WhyItMatters: "Determines how many customers are needed to hit revenue goals"},
				{Metric: "Trial-to-Paid Conversion", Definition: "Percentage of trial users who become paying customers", Target: "18-25%", WhyItMatters: "Indicates product value and onboarding effectiveness"},
			},
			StageConversions: map[string]string{
				"mql_to_sql":      "30%",
				"sql_to_demo":     "60%",
				"demo_to_trial":   "70%",
				"trial_to_closed": "20-25%",
			},
		},
	}
}
