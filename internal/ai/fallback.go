package ai

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"tinyceo-backend/internal/models"
)

// Picker chooses an index in [0, n). *rand.Rand satisfies it.
type Picker interface {
	Intn(n int) int
}

// lockedPicker makes a *rand.Rand safe for concurrent requests.
type lockedPicker struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (p *lockedPicker) Intn(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.r.Intn(n)
}

// NewRandomPicker returns a concurrency-safe Picker seeded with seed.
func NewRandomPicker(seed int64) Picker {
	return &lockedPicker{r: rand.New(rand.NewSource(seed))}
}

func defaultPicker() Picker {
	return NewRandomPicker(time.Now().UnixNano())
}

// ConversationContext summarises the conversation before the incoming message.
type ConversationContext struct {
	MessageCount    int  `json:"message_count"` // user messages so far
	HasProblem      bool `json:"has_problem"`
	HasCustomers    bool `json:"has_customers"`
	HasMonetization bool `json:"has_monetization"`
	HasCompetition  bool `json:"has_competition"`
}

// BuildConversationContext derives the context flags from the stored messages.
// Topic flags look at every message, assistant replies included.
func BuildConversationContext(messages []models.ConversationMessage) ConversationContext {
	cc := ConversationContext{MessageCount: len(models.UserMessages(messages))}
	for _, m := range messages {
		lower := strings.ToLower(m.Content)
		cc.HasProblem = cc.HasProblem || strings.Contains(lower, "problem") || strings.Contains(lower, "solve")
		cc.HasCustomers = cc.HasCustomers || strings.Contains(lower, "customer") || strings.Contains(lower, "target")
		cc.HasMonetization = cc.HasMonetization || strings.Contains(lower, "price") || strings.Contains(lower, "revenue")
		cc.HasCompetition = cc.HasCompetition || strings.Contains(lower, "competitor")
	}
	return cc
}

// Scripted conversation replies.
const (
	ReplyWelcome      = "Welcome! I'm excited to learn about your startup idea. Tell me, what problem are you solving and who are you solving it for?"
	ReplyAskProblem   = "That sounds interesting! Can you tell me more about the specific problem this addresses? What makes this problem worth solving?"
	ReplyAskCustomers = "Great! Who is your ideal customer? Can you describe them - their industry, size, current behavior, and why they need your solution?"
	ReplyAskMoney     = "Excellent insights! How do you plan to make money? What pricing model are you considering and why?"
	ReplyAskCompetit  = "Interesting business model! What alternatives exist today? How will you differentiate from existing solutions?"
	ReplyReady        = "I have a solid understanding of your startup! I can now generate comprehensive insights from 6 specialized AI agents who will analyze your market, competition, financials, technology, marketing, and sales strategy. Click 'Create Startup Space' to get started!"
)

var contextualReplies = []string{
	"That's a valuable insight. Can you elaborate on how this would work in practice?",
	"Interesting approach! What validation have you done so far?",
	"Makes sense. What's your biggest uncertainty or concern about this?",
	"Good point. How does this fit into your overall go-to-market strategy?",
}

// Fallback produces replies without an LLM.
type Fallback struct {
	picker Picker
}

// NewFallback returns a Fallback drawing contextual replies from picker.
// A nil picker gets a time-seeded random source.
func NewFallback(picker Picker) *Fallback {
	if picker == nil {
		picker = defaultPicker()
	}
	return &Fallback{picker: picker}
}

// ConversationReply walks the founder through problem, customers,
// monetization and competition, one topic per message.
func (f *Fallback) ConversationReply(cc ConversationContext) string {
	switch {
	case cc.MessageCount == 0:
		return ReplyWelcome
	case cc.MessageCount == 1 && !cc.HasProblem:
		return ReplyAskProblem
	case cc.MessageCount == 2 && !cc.HasCustomers:
		return ReplyAskCustomers
	case cc.MessageCount == 3 && !cc.HasMonetization:
		return ReplyAskMoney
	case cc.MessageCount == 4 && !cc.HasCompetition:
		return ReplyAskCompetit
	case cc.MessageCount >= 5:
		return ReplyReady
	}
	return contextualReplies[f.picker.Intn(len(contextualReplies))]
}

// AdviceContext carries what the generic advice mentions.
type AdviceContext struct {
	Industry       string
	TargetAudience string
}

// Advice answers a free-form question with canned guidance picked by topic.
func (f *Fallback) Advice(question string, ac AdviceContext) string {
	industry := ac.Industry
	if industry == "" {
		industry = "Technology"
	}
	audience := ac.TargetAudience
	if audience == "" {
		audience = "businesses"
	}

	lower := strings.ToLower(question)
	switch {
	case strings.Contains(lower, "competitor") || strings.Contains(lower, "competition"):
		return fmt.Sprintf("In the %s space, you'll face competition from:\n\n"+
			"1. **Established Players**: They have brand recognition and resources but move slowly\n"+
			"2. **Emerging Startups**: Agile and innovative but limited market presence\n"+
			"3. **DIY Solutions**: Zero cost but time-consuming and inefficient\n\n"+
			"Your advantage: Move fast, focus on superior UX, and target an underserved niche.", industry)
	case strings.Contains(lower, "pricing") || strings.Contains(lower, "revenue"):
		return "For pricing, consider a tiered approach:\n\n" +
			"- **Starter**: $19-29/mo for individuals\n" +
			"- **Professional**: $49-99/mo for small teams (most popular)\n" +
			"- **Business**: $149-299/mo for larger teams\n" +
			"- **Enterprise**: Custom pricing\n\n" +
			"Focus on value-based pricing. Your price should reflect the ROI you deliver, not just your costs."
	case strings.Contains(lower, "tech"):
		return "For your tech stack, I recommend:\n\n" +
			"**Frontend**: React + Next.js + TypeScript (modern, scalable, great ecosystem)\n" +
			"**Backend**: Go + PostgreSQL (reliable, performant)\n" +
			"**Infrastructure**: AWS/Vercel (easy deployment, scales well)\n\n" +
			"This stack allows for rapid development while being production-ready from day one."
	}
	return fmt.Sprintf("Based on your %s startup targeting %s, here's my recommendation:\n\n"+
		"Focus on validating your core value proposition with real customers. Start with a targeted MVP that solves one specific pain point exceptionally well. "+
		"This approach will help you gather feedback quickly and iterate before investing heavily in additional features.",
		industry, audience)
}

// ChatApology is what an advisor says when it cannot produce an answer at all.
func ChatApology(userMessage string) string {
	return fmt.Sprintf("I understand your question about %q. While I'm processing your request, let me share that based on your startup's context, "+
		"my recommendation is to focus on validating your assumptions with real customer feedback. This is crucial for making informed decisions.",
		userMessage)
}
