package analysis

import (
	"math"
	"regexp"
	"strings"

	"tinyceo-backend/internal/models"
)

// Check names reported in MaturityAssessment.Checks.
const (
	CheckSufficientMessages = "hasSufficientMessages"
	CheckSufficientContent  = "hasSufficientContent"
	CheckMentionsProblem    = "mentionsProblem"
	CheckMentionsCustomers  = "mentionsCustomers"
	CheckMentionsSolution   = "mentionsSolution"
	CheckMentionsMonetize   = "mentionsMonetization"
)

const (
	minUserMessages = 2
	minWordCount    = 30
	readyScore      = 3
	maxMaturity     = 6

	RecommendationReady    = "Conversation is ready for agent analysis"
	RecommendationContinue = "Continue conversation to gather more details about your startup idea"
)

var (
	problemTopicRe      = regexp.MustCompile(`problem|issue|challenge|pain|difficult|struggle|solve|help`)
	customerTopicRe     = regexp.MustCompile(`customer|user|client|audience|target|people|artisan|seller|buyer`)
	solutionTopicRe     = regexp.MustCompile(`solution|product|platform|service|app|marketplace|tool|system`)
	monetizationTopicRe = regexp.MustCompile(`price|pricing|revenue|money|pay|subscription|sell|buy|cost`)
)

// MaturityAssessment says whether a conversation carries enough detail for
// the advisors to work with.
type MaturityAssessment struct {
	IsReady            bool            `json:"is_ready"`
	Score              int             `json:"score"`
	MaxScore           int             `json:"max_score"`
	MaturityPercentage int             `json:"maturity_percentage"`
	Checks             map[string]bool `json:"checks"`
	Recommendation     string          `json:"recommendation"`
}

// AssessMaturity scores the user messages of a conversation against six
// checks. A conversation is ready only when at least three checks pass and
// the user has written at least two messages. It never fails.
func AssessMaturity(messages []models.ConversationMessage) MaturityAssessment {
	userMessages := models.UserMessages(messages)
	parts := make([]string, len(userMessages))
	for i, m := range userMessages {
		parts[i] = m.Content
	}
	fullText := Normalize(strings.Join(parts, " "))

	checks := map[string]bool{
		CheckSufficientMessages: len(userMessages) >= minUserMessages,
		CheckSufficientContent:  len(strings.Fields(fullText)) >= minWordCount,
		CheckMentionsProblem:    problemTopicRe.MatchString(fullText),
		CheckMentionsCustomers:  customerTopicRe.MatchString(fullText),
		CheckMentionsSolution:   solutionTopicRe.MatchString(fullText),
		CheckMentionsMonetize:   monetizationTopicRe.MatchString(fullText),
	}

	score := 0
	for _, ok := range checks {
		if ok {
			score++
		}
	}

	ready := score >= readyScore && len(userMessages) >= minUserMessages
	rec := RecommendationContinue
	if ready {
		rec = RecommendationReady
	}

	return MaturityAssessment{
		IsReady:            ready,
		Score:              score,
		MaxScore:           maxMaturity,
		MaturityPercentage: CalculatePercentage(score, maxMaturity),
		Checks:             checks,
		Recommendation:     rec,
	}
}

// CalculatePercentage returns value/total as a rounded percentage.
// A zero total yields zero.
func CalculatePercentage(value, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(value) / float64(total) * 100))
}
