package analysis

// TablesVersion identifies the keyword tables below. Bump it whenever a
// category, keyword or label changes so stored analyses can be told apart.
const TablesVersion = "2024.1"

// Category is one labelled row of a keyword table.
type Category struct {
	Label    string
	Keywords []string
}

// Table is an ordered list of categories. Order matters: it decides ties.
type Table []Category

// Labels returned when nothing in the text matches.
const (
	DefaultIndustry       = "saas"
	DefaultTargetAudience = "Small to medium-sized businesses"
	DefaultBusinessModel  = "Subscription-based"
	DefaultUniqueValue    = "Innovative solution designed for efficiency"
	DefaultProblem        = "Solving a key market challenge"
	DefaultSolution       = "An innovative solution"
)

var IndustryTable = Table{
	{Label: "saas", Keywords: []string{"saas", "software", "platform", "cloud", "subscription"}},
	{Label: "fintech", Keywords: []string{"finance", "financial", "payment", "banking", "investment", "money"}},
	{Label: "healthcare", Keywords: []string{"health", "medical", "patient", "doctor", "hospital", "wellness"}},
	{Label: "ecommerce", Keywords: []string{"ecommerce", "e-commerce", "marketplace", "retail", "shop", "store"}},
	{Label: "ai", Keywords: []string{"ai", "artificial intelligence", "machine learning", "ml", "neural"}},
	{Label: "edtech", Keywords: []string{"education", "learning", "student", "teacher", "course", "training"}},
	{Label: "martech", Keywords: []string{"marketing", "advertising", "campaign", "analytics", "seo"}},
}

var TargetAudienceTable = Table{
	{Label: "Small businesses", Keywords: []string{"small business", "smb", "small company"}},
	{Label: "Enterprise companies", Keywords: []string{"enterprise", "large company", "corporation"}},
	{Label: "Individual consumers", Keywords: []string{"consumer", "individual", "personal use"}},
	{Label: "Developers", Keywords: []string{"developer", "engineer", "programmer", "coder"}},
	{Label: "Startups", Keywords: []string{"startup", "early-stage", "founder"}},
	{Label: "Students", Keywords: []string{"student", "university", "college", "education"}},
	{Label: "Professionals", Keywords: []string{"professional", "working", "employee"}},
}

var UniqueValueTable = Table{
	{Label: "AI-powered automation and intelligence", Keywords: []string{"ai"}},
	{Label: "ML-driven insights and predictions", Keywords: []string{"machine learning"}},
	{Label: "Automated workflow and efficiency", Keywords: []string{"automation"}},
	{Label: "User-friendly and intuitive design", Keywords: []string{"simple"}},
	{Label: "Easy to use and implement", Keywords: []string{"easy"}},
	{Label: "Speed and performance", Keywords: []string{"fast"}},
	{Label: "Real-time processing and updates", Keywords: []string{"real-time"}},
	{Label: "Data-driven insights and analytics", Keywords: []string{"analytics"}},
	{Label: "Seamless integrations with existing tools", Keywords: []string{"integration"}},
	{Label: "Mobile-first experience", Keywords: []string{"mobile"}},
	{Label: "Team collaboration features", Keywords: []string{"collaborative"}},
	{Label: "Enterprise-grade security", Keywords: []string{"secure"}},
}

// businessModelRule matches when the text contains any of Any and,
// if set, every keyword in All.
type businessModelRule struct {
	Label string
	Any   []string
	All   []string
}

var businessModelRules = []businessModelRule{
	{Label: "Subscription-based (SaaS)", Any: []string{"subscription", "saas", "monthly"}},
	{Label: "Marketplace (Commission-based)", Any: []string{"marketplace", "commission"}},
	{Label: "Freemium", All: []string{"free", "premium"}},
	{Label: "Transaction fees", Any: []string{"transaction", "fee"}},
}

var (
	problemKeywords   = []string{"problem", "issue", "challenge", "pain", "difficult", "struggle"}
	solutionKeywords  = []string{"solution", "platform", "product", "service", "app", "tool"}
	painPointKeywords = []string{
		"difficult", "hard", "problem", "issue", "challenge",
		"frustrating", "time-consuming", "expensive", "complex",
	}
)
