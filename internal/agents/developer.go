package agents

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"tinyceo-backend/internal/models"
)

const developerInstructions = `Generate a comprehensive technical/developer analysis with the following JSON structure:
{
  "tech_stack": {
    "frontend": ["string (technology names)"],
    "backend": ["string (technology names)"],
    "database": "string",
    "infrastructure": ["string (hosting/deployment platforms)"],
    "rationale": "string (why this stack fits)"
  },
  "architecture": {
    "pattern": "string (e.g., microservices, monolith, serverless)",
    "components": ["string (main system components)"],
    "data_flow": "string (how data flows through system)",
    "scalability": "string (how it scales)"
  },
  "mvp_features": [
    {"feature": "string", "priority": "P0|P1|P2", "complexity": "High|Medium|Low", "description": "string"}
  ],
  "timeline": {
    "total_weeks": number,
    "phases": [{"phase": "string", "duration": "string", "deliverables": ["string"]}]
  },
  "technical_risks": [{"risk": "string", "severity": "High|Medium|Low", "mitigation": "string"}],
  "team_requirements": {"roles": ["string (required roles)"], "ideal_team_size": "string"}
}

Base your analysis on the actual startup product/solution described. Recommend specific technologies that fit THIS use case.`

// Product types recognised by the technical advisor.
const (
	ProductMarketplace = "marketplace"
	ProductMobileApp   = "mobile_app"
	ProductAI          = "ai_product"
	ProductWebApp      = "web_app"
)

type baseStack struct {
	frontend       []string
	backend        []string
	infrastructure []string
}

var techStacks = map[string]baseStack{
	ProductWebApp: {
		frontend:       []string{"React", "Next.js", "TypeScript", "Tailwind CSS"},
		backend:        []string{"Go", "chi", "PostgreSQL", "Redis"},
		infrastructure: []string{"AWS/GCP", "Docker", "GitHub Actions"},
	},
	ProductAI: {
		frontend:       []string{"React", "Next.js", "TypeScript", "Recharts"},
		backend:        []string{"Python", "FastAPI", "PostgreSQL", "Redis", "OpenAI API"},
		infrastructure: []string{"AWS", "Docker", "Kubernetes", "Vector DB"},
	},
	ProductMobileApp: {
		frontend:       []string{"React Native", "Expo", "TypeScript", "NativeWind"},
		backend:        []string{"Go", "chi", "PostgreSQL", "Firebase"},
		infrastructure: []string{"AWS", "App Store/Play Store", "Firebase Cloud"},
	},
	ProductMarketplace: {
		frontend:       []string{"React", "Next.js", "TypeScript", "Stripe Elements"},
		backend:        []string{"Go", "chi", "PostgreSQL", "Redis", "Stripe API"},
		infrastructure: []string{"AWS", "Docker", "CDN", "Payment processing"},
	},
}

// DetectProductType guesses the product shape from free text. Checks run in
// order, so a mobile marketplace is a marketplace.
func DetectProductType(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "marketplace"):
		return ProductMarketplace
	case strings.Contains(lower, "mobile") || strings.Contains(lower, "app"):
		return ProductMobileApp
	case strings.Contains(lower, "ai") || strings.Contains(lower, "ml"):
		return ProductAI
	}
	return ProductWebApp
}

type frontendStack struct {
	Primary    string   `json:"primary"`
	Framework  string   `json:"framework"`
	Language   string   `json:"language"`
	Styling    string   `json:"styling,omitempty"`
	Additional []string `json:"additional"`
	Reasoning  string   `json:"reasoning"`
}

type backendStack struct {
	Runtime    string   `json:"runtime"`
	Framework  string   `json:"framework"`
	Database   string   `json:"database"`
	Caching    string   `json:"caching"`
	Additional []string `json:"additional"`
	Reasoning  string   `json:"reasoning"`
}

type infrastructureStack struct {
	Hosting    string   `json:"hosting"`
	Containers string   `json:"containers"`
	CICD       string   `json:"ci_cd"`
	Monitoring []string `json:"monitoring"`
	Reasoning  string   `json:"reasoning"`
}

type aiStack struct {
	PrimaryProvider string   `json:"primary_provider"`
	Alternatives    []string `json:"alternatives"`
	VectorDB        string   `json:"vector_db"`
	Reasoning       string   `json:"reasoning"`
}

type realtimeStack struct {
	Technology     string   `json:"technology"`
	Alternatives   []string `json:"alternatives"`
	Infrastructure string   `json:"infrastructure"`
	Reasoning      string   `json:"reasoning"`
}

type techStack struct {
	Frontend       frontendStack       `json:"frontend"`
	Backend        backendStack        `json:"backend"`
	Infrastructure infrastructureStack `json:"infrastructure"`
	AIML           *aiStack            `json:"ai_ml"`
	Realtime       *realtimeStack      `json:"realtime"`
}

type component struct {
	Name             string   `json:"name"`
	Technology       string   `json:"technology,omitempty"`
	Responsibilities []string `json:"responsibilities"`
}

type architecture struct {
	Pattern                string      `json:"pattern"`
	Components             []component `json:"components"`
	Communication          string      `json:"communication"`
	ScalabilityPath        string      `json:"scalability_path"`
	SecurityConsiderations []string    `json:"security_considerations"`
}

type mvpFeature struct {
	Feature            string   `json:"feature"`
	Priority           string   `json:"priority"`
	Effort             string   `json:"effort"`
	Description        string   `json:"description"`
	AcceptanceCriteria []string `json:"acceptance_criteria"`
}

type sprint struct {
	Sprint       string   `json:"sprint"`
	Weeks        string   `json:"weeks"`
	Focus        string   `json:"focus"`
	Deliverables []string `json:"deliverables"`
}

type timeline struct {
	TotalWeeks  int      `json:"total_weeks"`
	TotalMonths int      `json:"total_months"`
	Confidence  string   `json:"confidence"`
	Assumptions []string `json:"assumptions"`
	Sprints     []sprint `json:"sprints"`
	PostMVP     string   `json:"post_mvp"`
}

type technicalRisk struct {
	Risk        string   `json:"risk"`
	Probability string   `json:"probability"`
	Impact      string   `json:"impact"`
	Mitigation  []string `json:"mitigation"`
}

type scalingTrigger struct {
	Metric string `json:"metric"`
	Action string `json:"action"`
}

type scalabilityPlan struct {
	CurrentPhase       string            `json:"current_phase"`
	ScalingTriggers    []scalingTrigger  `json:"scaling_triggers"`
	PerformanceTargets map[string]string `json:"performance_targets"`
}

// DeveloperReport is the technical advisor's template report.
type DeveloperReport struct {
	ProductType     string          `json:"product_type"`
	TechStack       techStack       `json:"tech_stack"`
	Architecture    architecture    `json:"architecture"`
	MVPFeatures     []mvpFeature    `json:"mvp_features"`
	Timeline        timeline        `json:"timeline"`
	TechnicalRisks  []technicalRisk `json:"technical_risks"`
	ScalabilityPlan scalabilityPlan `json:"scalability_plan"`
}

// NewDeveloper returns the technical advisor.
func NewDeveloper(reports ReportGenerator, logger *zap.Logger) Agent {
	a := newAdvisor(models.AgentDeveloper, "Developer", "Technical Architect & CTO Advisor", []string{
		"Tech stack recommendations",
		"System architecture design",
		"MVP scoping and prioritization",
		"Development timeline estimation",
		"Technical risk assessment",
		"Scalability planning",
	}, reports, logger)
	a.instructions = developerInstructions
	a.template = func(in Input) any { return developerTemplate(in) }
	return a
}

func developerTemplate(in Input) DeveloperReport {
	lower := strings.ToLower(in.Analysis.FullText)
	productType := DetectProductType(in.Analysis.FullText)
	hasAI := strings.Contains(lower, "ai") || strings.Contains(lower, "machine learning")
	hasRealtime := strings.Contains(lower, "real-time") || strings.Contains(lower, "realtime")

	return DeveloperReport{
		ProductType:     productType,
		TechStack:       recommendTechStack(productType, hasAI, hasRealtime),
		Architecture:    designArchitecture(productType),
		MVPFeatures:     scopeMVPFeatures(in.Analysis.Solution),
		Timeline:        estimateTimeline(productType),
		TechnicalRisks:  technicalRisks(hasAI, hasRealtime),
		ScalabilityPlan: planScalability(),
	}
}

func recommendTechStack(productType string, hasAI, hasRealtime bool) techStack {
	base, ok := techStacks[productType]
	if !ok {
		base = techStacks[ProductWebApp]
	}

	additionalFrontend := []string{"React Query", "SWR"}
	if hasRealtime {
		additionalFrontend = []string{"WebSocket client", "React Query"}
	}
	additionalBackend := []string{}
	if hasAI {
		additionalBackend = []string{"Dedicated AI service", "LLM provider SDK", "Vector DB"}
	}

	stack := techStack{
		Frontend: frontendStack{
			Primary:    base.frontend[0],
			Framework:  base.frontend[1],
			Language:   base.frontend[2],
			Styling:    base.frontend[3],
			Additional: additionalFrontend,
			Reasoning:  "Modern, performant stack with excellent developer experience and ecosystem",
		},
		Backend: backendStack{
			Runtime:    base.backend[0],
			Framework:  base.backend[1],
			Database:   base.backend[2],
			Caching:    base.backend[3],
			Additional: additionalBackend,
			Reasoning:  "Scalable, well-documented, large talent pool",
		},
		Infrastructure: infrastructureStack{
			Hosting:    base.infrastructure[0],
			Containers: base.infrastructure[1],
			CICD:       base.infrastructure[2],
			Monitoring: []string{"DataDog / Sentry", "LogRocket / FullStory"},
			Reasoning:  "Production-ready, scales automatically, good free tiers",
		},
	}
	if hasAI {
		stack.AIML = &aiStack{
			PrimaryProvider: "OpenAI GPT-4",
			Alternatives:    []string{"Anthropic Claude", "Open-source models via HuggingFace"},
			VectorDB:        "Pinecone or Weaviate",
			Reasoning:       "Best-in-class AI capabilities, easy integration",
		}
	}
	if hasRealtime {
		stack.Realtime = &realtimeStack{
			Technology:     "WebSockets",
			Alternatives:   []string{"Server-Sent Events", "WebRTC for P2P"},
			Infrastructure: "Redis for pub/sub",
			Reasoning:      "Reliable, scalable real-time communication",
		}
	}
	return stack
}

var securityConsiderations = []string{
	"HTTPS/TLS for all communications",
	"JWT tokens with short expiry + refresh tokens",
	"Input validation and sanitization",
	"SQL injection prevention (parameterized queries)",
	"Rate limiting to prevent abuse",
	"Regular dependency updates",
}

func designArchitecture(productType string) architecture {
	var arch architecture
	switch productType {
	case ProductAI:
		arch = architecture{
			Pattern: "Microservices (API + AI Service)",
			Components: []component{
				{Name: "Frontend", Technology: "React + Next.js", Responsibilities: []string{"UI/UX", "Real-time updates", "Streaming responses"}},
				{Name: "API Gateway", Technology: "Go + chi", Responsibilities: []string{"Authentication", "Rate limiting", "Request routing"}},
				{Name: "AI Service", Technology: "Python + FastAPI", Responsibilities: []string{"LLM interactions", "Vector embeddings", "Model orchestration"}},
				{Name: "Vector Database", Technology: "Pinecone", Responsibilities: []string{"Embedding storage", "Semantic search", "Context retrieval"}},
				{Name: "Primary Database", Technology: "PostgreSQL", Responsibilities: []string{"User data", "Conversation history", "Metadata"}},
			},
			Communication:   "REST + gRPC for internal services, WebSocket for streaming",
			ScalabilityPath: "Independent scaling of AI service, queue-based job processing for heavy workloads",
		}
	case ProductMarketplace:
		arch = architecture{
			Pattern: "Monolithic with service modules",
			Components: []component{
				{Name: "User Service", Responsibilities: []string{"Authentication", "User profiles", "Permissions"}},
				{Name: "Listing Service", Responsibilities: []string{"Product/service listings", "Search", "Categories"}},
				{Name: "Transaction Service", Responsibilities: []string{"Orders", "Payments", "Escrow", "Disputes"}},
				{Name: "Messaging Service", Responsibilities: []string{"Buyer-seller communication", "Notifications"}},
				{Name: "Payment Integration", Technology: "Stripe Connect", Responsibilities: []string{"Payment processing", "Payouts", "Commission handling"}},
			},
			Communication:   "RESTful API + WebSocket for messaging",
			ScalabilityPath: "Database sharding by geography, CDN for static assets",
		}
	default:
		arch = architecture{
			Pattern: "Monolithic to start, modular internally",
			Components: []component{
				{Name: "Frontend Application", Technology: "React + Next.js", Responsibilities: []string{"User interface", "Client-side routing", "State management", "API calls"}},
				{Name: "API Server", Technology: "Go + chi", Responsibilities: []string{"Business logic", "Authentication", "Data validation", "Database operations"}},
				{Name: "Database", Technology: "PostgreSQL", Responsibilities: []string{"Persistent data storage", "Relational data", "ACID transactions"}},
				{Name: "Cache Layer", Technology: "Redis", Responsibilities: []string{"Session storage", "Caching frequent queries", "Rate limiting"}},
			},
			Communication:   "RESTful API with JSON payloads",
			ScalabilityPath: "Start with single server, add horizontal scaling via load balancer as needed",
		}
	}
	arch.SecurityConsiderations = securityConsiderations
	return arch
}

func firstRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func scopeMVPFeatures(solution string) []mvpFeature {
	return []mvpFeature{
		{
			Feature:     "User Authentication & Onboarding",
			Priority:    "Critical",
			Effort:      "2 weeks",
			Description: "Email/password auth, OAuth options (Google), email verification, guided onboarding flow",
			AcceptanceCriteria: []string{
				"Users can sign up with email/password",
				"Email verification works",
				"Forgot password flow functional",
				"Onboarding completes in <2 minutes",
			},
		},
		{
			Feature:     "Core Value Feature: " + firstRunes(solution, 50),
			Priority:    "Critical",
			Effort:      "3-4 weeks",
			Description: "The primary feature that delivers your unique value proposition to users",
			AcceptanceCriteria: []string{
				"Solves the core problem identified",
				"Works reliably for happy path",
				"Performance acceptable (< 2s response time)",
				"Error states handled gracefully",
			},
		},
		{
			Feature:     "Dashboard & Analytics",
			Priority:    "High",
			Effort:      "1.5 weeks",
			Description: "User dashboard showing key metrics, activity, and insights relevant to their goals",
			AcceptanceCriteria: []string{
				"Dashboard loads in <1 second",
				"Shows 4-6 key metrics",
				"Responsive on mobile",
			},
		},
		{
			Feature:     "Payment Integration",
			Priority:    "High",
			Effort:      "1 week",
			Description: "Stripe integration for subscription billing, handle upgrades/downgrades, invoice generation",
			AcceptanceCriteria: []string{
				"Users can subscribe to paid plans",
				"Webhooks handle subscription events",
				"Failed payments trigger alerts",
			},
		},
		{
			Feature:     "Settings & Preferences",
			Priority:    "Medium",
			Effort:      "1 week",
			Description: "User settings, notification preferences, account management, billing history",
			AcceptanceCriteria: []string{
				"Users can update profile",
				"Can view billing history",
				"Account deletion works",
			},
		},
	}
}

func estimateTimeline(productType string) timeline {
	weeks := 10
	if productType == ProductAI {
		weeks = 12
	}

	return timeline{
		TotalWeeks:  weeks,
		TotalMonths: (weeks + 3) / 4,
		Confidence:  "70% - assumes experienced developers",
		Assumptions: []string{
			"Team of 2 full-time developers",
			"Design work happening in parallel or using templates",
			"Third-party services for auth, payments, etc.",
			"No major scope changes during development",
			"Testing and bug fixing included",
		},
		Sprints: []sprint{
			{
				Sprint: "Sprint 1-2",
				Weeks:  "1-4",
				Focus:  "Foundation & Setup",
				Deliverables: []string{
					"Project structure and repository setup",
					"Database schema design and migrations",
					"Authentication system implemented",
					"Development environment configured",
				},
			},
			{
				Sprint: "Sprint 3-4",
				Weeks:  "5-8",
				Focus:  "Core Features",
				Deliverables: []string{
					"Main product features developed",
					"API integrations completed",
					"Dashboard and analytics implemented",
					"Payment integration configured",
				},
			},
			{
				Sprint: "Sprint 5",
				Weeks:  fmt.Sprintf("9-%d", weeks),
				Focus:  "Polish & Launch",
				Deliverables: []string{
					"Performance optimization",
					"Security audit and fixes",
					"Production deployment",
					"Monitoring and alerting setup",
				},
			},
		},
		PostMVP: "Plan for 2-4 weeks of iteration based on initial user feedback",
	}
}

func technicalRisks(hasAI, hasRealtime bool) []technicalRisk {
	risks := []technicalRisk{
		{
			Risk:        "Scope creep delaying MVP launch",
			Probability: "High",
			Impact:      "High",
			Mitigation: []string{
				"Ruthlessly prioritize must-have vs nice-to-have features",
				"Create clear MVP scope document",
				"Defer all non-essential features to v2",
			},
		},
		{
			Risk:        "Technical debt accumulating in rush to launch",
			Probability: "Medium",
			Impact:      "Medium",
			Mitigation: []string{
				"Follow code review process",
				"Write tests for critical paths",
				"Allocate 20% time for refactoring",
			},
		},
		{
			Risk:        "Third-party API dependencies causing failures",
			Probability: "Medium",
			Impact:      "High",
			Mitigation: []string{
				"Implement retry logic with exponential backoff",
				"Monitor API health and set up alerts",
				"Have fallback options where possible",
			},
		},
		{
			Risk:        "Security vulnerabilities",
			Probability: "Medium",
			Impact:      "Critical",
			Mitigation: []string{
				"Follow OWASP top 10 guidelines",
				"Keep dependencies updated",
				"Implement proper input validation",
			},
		},
	}

	if hasAI {
		risks = append(risks, technicalRisk{
			Risk:        "AI API costs higher than expected",
			Probability: "Medium",
			Impact:      "High",
			Mitigation: []string{
				"Implement aggressive caching",
				"Set rate limits per user",
				"Consider smaller models for simple tasks",
			},
		})
	}
	if hasRealtime {
		risks = append(risks, technicalRisk{
			Risk:        "WebSocket connection issues at scale",
			Probability: "Medium",
			Impact:      "Medium",
			Mitigation: []string{
				"Implement reconnection logic",
				"Load test early",
				"Have fallback to polling",
			},
		})
	}
	return risks
}

func planScalability() scalabilityPlan {
	return scalabilityPlan{
		CurrentPhase: "MVP - Optimized for speed to market",
		ScalingTriggers: []scalingTrigger{
			{Metric: "1,000 active users", Action: "Add caching layer, optimize database queries"},
			{Metric: "10,000 active users", Action: "Horizontal scaling with load balancer, CDN for static assets"},
			{Metric: "100,000 active users", Action: "Database replication, microservices for heavy components"},
		},
		PerformanceTargets: map[string]string{
			"api_response_time": "< 200ms p95",
			"page_load_time":    "< 2 seconds",
			"uptime":            "99.9%",
			"error_rate":        "< 0.1%",
		},
	}
}
