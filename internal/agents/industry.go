package agents

import (
	"strings"

	"tinyceo-backend/internal/analysis"
)

// IndustryProfile holds rough market benchmarks for an industry.
type IndustryProfile struct {
	Name           string `json:"name"`
	TAM            string `json:"tam"`
	GrowthRate     string `json:"growth_rate"`
	TypicalPricing string `json:"typical_pricing"`
	AvgLTVCAC      string `json:"avg_ltv_cac"`
}

var industryProfiles = map[string]IndustryProfile{
	"saas":       {Name: "B2B SaaS", TAM: "$500B", GrowthRate: "15-20% YoY", TypicalPricing: "$19-$199/mo", AvgLTVCAC: "3-5x"},
	"fintech":    {Name: "FinTech", TAM: "$300B", GrowthRate: "12-18% YoY", TypicalPricing: "Transaction fees 1-3%", AvgLTVCAC: "4-6x"},
	"healthcare": {Name: "Healthcare", TAM: "$400B", GrowthRate: "8-12% YoY", TypicalPricing: "Subscription or per-visit", AvgLTVCAC: "5-8x"},
	"ecommerce":  {Name: "E-Commerce", TAM: "$5T", GrowthRate: "10-15% YoY", TypicalPricing: "Marketplace commission 10-20%", AvgLTVCAC: "2-4x"},
	"ai":         {Name: "AI/ML", TAM: "$200B", GrowthRate: "35-40% YoY", TypicalPricing: "API calls or subscription", AvgLTVCAC: "4-7x"},
	"edtech":     {Name: "Education Technology", TAM: "$250B", GrowthRate: "16-20% YoY", TypicalPricing: "$9-$99/mo per student", AvgLTVCAC: "3-5x"},
	"martech":    {Name: "Marketing Technology", TAM: "$150B", GrowthRate: "12-17% YoY", TypicalPricing: "$49-$499/mo", AvgLTVCAC: "4-6x"},
}

// ProfileFor returns the benchmarks for an industry label, defaulting to SaaS.
func ProfileFor(industry string) IndustryProfile {
	if p, ok := industryProfiles[strings.TrimSpace(analysis.Normalize(industry))]; ok {
		return p
	}
	return industryProfiles[analysis.DefaultIndustry]
}
