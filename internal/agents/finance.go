package agents

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"tinyceo-backend/internal/models"
	"tinyceo-backend/pkg/textutil"
)

const financeInstructions = `Generate a comprehensive financial analysis with the following JSON structure:
{
  "pricing": {
    "strategy": "string",
    "tiers": [{"name": "string", "monthly_price": "string", "target_customer": "string", "features": ["string"]}]
  },
  "revenue_projections": {
    "year_1": {"conservative": {}, "realistic": {}, "optimistic": {}},
    "year_2": {}, "year_3": {}
  },
  "unit_economics": {
    "customer_acquisition_cost": {"cac": "string"},
    "lifetime_value": {"ltv": "string"},
    "ltv_to_cac_ratio": {"ratio": "string (e.g. 5.2:1)", "verdict": "string"},
    "payback_period": {"months": number}
  },
  "budget": {"year_1_expenses": {"total": "string", "monthly_burn": "string", "breakdown": []}},
  "breakeven": {"timeline": "string", "customers_needed": number, "mrr_target": "string"},
  "financial_metrics": [{"metric": "string", "target": "string", "formula": "string"}]
}

Base your analysis on the actual business model and target market. Provide realistic financial projections tailored to THIS startup.`

// Template assumptions shared by the budget and breakeven sections.
const (
	monthlyBurn = 36667.0
	blendedARPU = 58.0
	grossMargin = 0.85
)

type pricingTier struct {
	Name             string   `json:"name"`
	MonthlyPrice     string   `json:"monthly_price"`
	AnnualPrice      string   `json:"annual_price"`
	TargetCustomer   string   `json:"target_customer"`
	Features         []string `json:"features"`
	ExpectedAdoption string   `json:"expected_adoption"`
	Recommended      bool     `json:"recommended,omitempty"`
}

type pricingStrategy struct {
	Strategy     string        `json:"strategy"`
	PricingModel string        `json:"pricing_model"`
	Tiers        []pricingTier `json:"tiers"`
	TrialPolicy  string        `json:"trial_strategy"`
}

type quarter struct {
	Quarter    string `json:"quarter"`
	Customers  int    `json:"customers"`
	MRR        string `json:"mrr"`
	ARRRunRate string `json:"arr_run_rate"`
}

type scenario struct {
	CustomersByEOY     int       `json:"customers_by_eoy"`
	MRR                string    `json:"mrr"`
	ARR                string    `json:"arr"`
	QuarterlyBreakdown []quarter `json:"quarterly_breakdown"`
}

type yearOne struct {
	Conservative scenario `json:"conservative"`
	Realistic    scenario `json:"realistic"`
	Optimistic   scenario `json:"optimistic"`
}

type yearOutlook struct {
	Conservative string `json:"conservative"`
	Realistic    string `json:"realistic"`
	Optimistic   string `json:"optimistic"`
}

type revenueProjections struct {
	Assumptions map[string]string `json:"assumptions"`
	Year1       yearOne           `json:"year_1"`
	Year2       yearOutlook       `json:"year_2"`
	Year3       yearOutlook       `json:"year_3"`
}

type cacDetail struct {
	CAC         string `json:"cac"`
	Calculation string `json:"calculation"`
	Benchmark   string `json:"benchmark"`
}

type ltvDetail struct {
	LTV         string `json:"ltv"`
	Calculation string `json:"calculation"`
	Benchmark   string `json:"benchmark"`
}

type ratioDetail struct {
	Ratio   string `json:"ratio"`
	Verdict string `json:"verdict"`
	Note    string `json:"note"`
}

type paybackDetail struct {
	Months      float64 `json:"months"`
	Calculation string  `json:"calculation"`
	GrossMargin string  `json:"gross_margin"`
}

type unitEconomics struct {
	CustomerAcquisitionCost cacDetail     `json:"customer_acquisition_cost"`
	LifetimeValue           ltvDetail     `json:"lifetime_value"`
	LTVToCACRatio           ratioDetail   `json:"ltv_to_cac_ratio"`
	PaybackPeriod           paybackDetail `json:"payback_period"`
	Optimization            []string      `json:"optimization_opportunities"`
}

type budgetLine struct {
	Category string `json:"category"`
	Annual   string `json:"annual"`
	Monthly  string `json:"monthly"`
	Details  string `json:"details"`
}

type yearExpenses struct {
	Total       string       `json:"total"`
	MonthlyBurn string       `json:"monthly_burn"`
	Breakdown   []budgetLine `json:"breakdown"`
}

type budget struct {
	Year1Expenses       yearExpenses `json:"year_1_expenses"`
	SeedRaise           string       `json:"seed_raise"`
	Runway              string       `json:"runway"`
	CostControlMeasures []string     `json:"cost_control_measures"`
}

type breakevenStep struct {
	Milestone string `json:"milestone"`
	Revenue   string `json:"revenue"`
	Burn      string `json:"burn"`
	Net       string `json:"net"`
}

type breakeven struct {
	Timeline        string          `json:"timeline"`
	CustomersNeeded int             `json:"customers_needed"`
	MRRTarget       string          `json:"mrr_target"`
	ARRTarget       string          `json:"arr_target"`
	PathToBreakeven []breakevenStep `json:"path_to_breakeven"`
	Assumptions     []string        `json:"assumptions"`
}

type financialMetric struct {
	Metric     string `json:"metric"`
	Definition string `json:"definition"`
	Target     string `json:"target"`
	Formula    string `json:"formula"`
}

// FinanceReport is the finance advisor's template report.
type FinanceReport struct {
	Pricing            pricingStrategy    `json:"pricing"`
	RevenueProjections revenueProjections `json:"revenue_projections"`
	UnitEconomics      unitEconomics      `json:"unit_economics"`
	Budget             budget             `json:"budget"`
	Breakeven          breakeven          `json:"breakeven"`
	FinancialMetrics   []financialMetric  `json:"financial_metrics"`
}

// NewFinance returns the finance advisor.
func NewFinance(reports ReportGenerator, logger *zap.Logger) Agent {
	a := newAdvisor(models.AgentFinance, "Finance", "Chief Financial Officer & Financial Analyst", []string{
		"Pricing strategy",
		"Revenue projections",
		"Unit economics (CAC, LTV, payback)",
		"Budget planning",
		"Breakeven analysis",
		"Financial modeling",
	}, reports, logger)
	a.instructions = financeInstructions
	a.template = func(in Input) any { return financeTemplate(in) }
	return a
}

// mrrScenario derives MRR and ARR strings from customer counts at the blended ARPU.
func mrrScenario(customers ...int) scenario {
	s := scenario{QuarterlyBreakdown: make([]quarter, len(customers))}
	for i, c := range customers {
		mrr := float64(c) * blendedARPU
		s.QuarterlyBreakdown[i] = quarter{
			Quarter:    fmt.Sprintf("Q%d", i+1),
			Customers:  c,
			MRR:        textutil.FormatCurrency(mrr),
			ARRRunRate: textutil.FormatCurrency(mrr * 12),
		}
	}
	if n := len(customers); n > 0 {
		last := s.QuarterlyBreakdown[n-1]
		s.CustomersByEOY = last.Customers
		s.MRR = last.MRR
		s.ARR = last.ARRRunRate
	}
	return s
}

func financeTemplate(in Input) FinanceReport {
	customersNeeded := int(math.Ceil(monthlyBurn / (blendedARPU * grossMargin)))

	return FinanceReport{
		Pricing: pricingStrategy{
			Strategy:     "Value-based tiered pricing to maximize revenue across customer segments",
			PricingModel: "SaaS subscription with monthly and annual options",
			Tiers: []pricingTier{
				{
					Name: "Starter", MonthlyPrice: "$29", AnnualPrice: "$24/mo ($288/year)",
					TargetCustomer:   "Individuals and freelancers",
					Features:         []string{"Core features access", "Up to 5 projects", "Email support", "Basic analytics", "1 user seat"},
					ExpectedAdoption: "35-40% of paying customers",
				},
				{
					Name: "Professional", MonthlyPrice: "$79", AnnualPrice: "$66/mo ($792/year)",
					TargetCustomer:   "Small teams (5-20 people)",
					Features:         []string{"All Starter features", "Unlimited projects", "Priority support", "Advanced analytics", "API access"},
					ExpectedAdoption: "45-50% of paying customers",
					Recommended:      true,
				},
				{
					Name: "Business", MonthlyPrice: "$199", AnnualPrice: "$166/mo ($1,992/year)",
					TargetCustomer:   "Growing businesses (20-100 people)",
					Features:         []string{"All Professional features", "Unlimited seats", "Dedicated account manager", "SLA guarantees (99.9% uptime)"},
					ExpectedAdoption: "12-15% of paying customers",
				},
				{
					Name: "Enterprise", MonthlyPrice: "Custom", AnnualPrice: "Custom (starts at $500/mo)",
					TargetCustomer:   "Large organizations (100+ people)",
					Features:         []string{"All Business features", "Custom deployment options", "24/7 phone support", "Custom SLA"},
					ExpectedAdoption: "3-5% of paying customers",
				},
			},
			TrialPolicy: "14-day free trial, no credit card required",
		},
		RevenueProjections: revenueProjections{
			Assumptions: map[string]string{
				"avg_revenue_per_user":     "$58/month (blended across tiers)",
				"annual_churn":             "30% (2.5% monthly)",
				"free_to_paid_conversion":  "3-5%",
				"trial_to_paid_conversion": "18-22%",
			},
			Year1: yearOne{
				Conservative: mrrScenario(30, 70, 120, 180),
				Realistic:    mrrScenario(50, 120, 200, 300),
				Optimistic:   mrrScenario(80, 200, 350, 500),
			},
			Year2: yearOutlook{
				Conservative: "$360K ARR (540 customers)",
				Realistic:    "$625K ARR (900 customers)",
				Optimistic:   "$1.2M ARR (1,500 customers)",
			},
			Year3: yearOutlook{
				Conservative: "$840K ARR (1,200 customers)",
				Realistic:    "$1.8M ARR (2,400 customers)",
				Optimistic:   "$3.5M ARR (4,500 customers)",
			},
		},
		UnitEconomics: unitEconomics{
			CustomerAcquisitionCost: cacDetail{
				CAC:         "$210",
				Calculation: "Total Sales & Marketing Spend / New Customers Acquired",
				Benchmark:   "Target: <$250 for SMB SaaS",
			},
			LifetimeValue: ltvDetail{
				LTV:         "$1,740",
				Calculation: "ARPU ($58) × Average Customer Lifetime (30 months)",
				Benchmark:   "Good LTV for SMB SaaS: $1,500-$3,000",
			},
			LTVToCACRatio: ratioDetail{
				Ratio:   "8.3:1",
				Verdict: "Excellent",
				Note:    "Ratio >6:1 indicates healthy, sustainable growth",
			},
			PaybackPeriod: paybackDetail{
				Months:      3.6,
				Calculation: "CAC / (ARPU × Gross Margin)",
				GrossMargin: "85%",
			},
			Optimization: []string{
				"Test higher-tier upsells to increase ARPU",
				"Implement referral program to reduce CAC",
				"Focus on customer success to reduce churn",
				"Optimize onboarding to improve activation",
			},
		},
		Budget: budget{
			Year1Expenses: yearExpenses{
				Total:       "$440,000",
				MonthlyBurn: textutil.FormatCurrency(monthlyBurn),
				Breakdown: []budgetLine{
					{Category: "Engineering & Product", Annual: "$160,000", Monthly: "$13,333", Details: "2 engineers, 1 part-time product manager/designer, tools"},
					{Category: "Sales & Marketing", Annual: "$120,000", Monthly: "$10,000", Details: "Paid ads, content, tools, events"},
					{Category: "Operations & Infrastructure", Annual: "$60,000", Monthly: "$5,000", Details: "Cloud hosting, software, legal & accounting"},
					{Category: "Founder Salaries", Annual: "$100,000", Monthly: "$8,333", Details: "2 founders at $50K each (below-market to preserve runway)"},
				},
			},
			SeedRaise: "$750,000",
			Runway:    "18 months at $36.7K monthly burn",
			CostControlMeasures: []string{
				"Use contractors for non-core functions",
				"Leverage free tiers and startup credits (AWS, GCP)",
				"Delay non-essential hires until product-market fit",
				"Remote-first to avoid office expenses",
			},
		},
		Breakeven: breakeven{
			Timeline:        "Month 16-20 (realistic scenario)",
			CustomersNeeded: customersNeeded,
			MRRTarget:       textutil.FormatCurrency(monthlyBurn),
			ARRTarget:       textutil.FormatCurrency(monthlyBurn * 12),
			PathToBreakeven: []breakevenStep{
				breakevenAt("Month 6: $10K MRR", 10000, monthlyBurn),
				breakevenAt("Month 12: $25K MRR", 25000, monthlyBurn),
				breakevenAt("Month 18: $40K MRR", 40000, 35000),
			},
			Assumptions: []string{
				"Burn rate decreases slightly as processes optimize",
				"Revenue growth 12-15% monthly",
				"Gross margin maintained at 85%",
			},
		},
		FinancialMetrics: []financialMetric{
			{Metric: "Monthly Recurring Revenue (MRR)", Definition: "Predictable monthly revenue from subscriptions", Target: "$10K by month 6, $50K by month 12", Formula: "Sum of all monthly subscription revenue"},
			{Metric: "Customer Acquisition Cost (CAC)", Definition: "Cost to acquire one new customer", Target: "<$250", Formula: "Total Sales & Marketing Spend / New Customers"},
			{Metric: "Customer Lifetime Value (LTV)", Definition: "Total revenue from a customer over their lifetime", Target: ">$1,500", Formula: "ARPU / Monthly Churn Rate"},
			{Metric: "LTV:CAC Ratio", Definition: "Ratio of lifetime value to acquisition cost", Target: ">5:1", Formula: "LTV / CAC"},
			{Metric: "Gross Margin", Definition: "Revenue minus cost of goods sold", Target: ">80% for SaaS", Formula: "(Revenue - COGS) / Revenue"},
			{Metric: "Monthly Churn Rate", Definition: "Percentage of customers lost per month", Target: "<3% monthly", Formula: "Customers Lost / Total Customers at Start of Month"},
		},
	}
}

func breakevenAt(milestone string, revenue, burn float64) breakevenStep {
	return breakevenStep{
		Milestone: milestone,
		Revenue:   textutil.FormatCurrency(revenue),
		Burn:      textutil.FormatCurrency(burn),
		Net:       textutil.FormatCurrency(revenue - burn),
	}
}
