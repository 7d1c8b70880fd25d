package analysis

import (
	"errors"
	"strings"

	"tinyceo-backend/internal/models"
)

// ErrEmptyConversation is returned when a conversation has no user text to analyze.
var ErrEmptyConversation = errors.New("no user messages found in conversation")

// ConversationAnalysis is the structured view of a startup idea derived from
// the user side of a conversation. Every string field is always non-empty.
type ConversationAnalysis struct {
	FullText       string   `json:"full_text"`
	Problem        string   `json:"problem"`
	Solution       string   `json:"solution"`
	TargetAudience string   `json:"target_audience"`
	Industry       string   `json:"industry"`
	BusinessModel  string   `json:"business_model"`
	UniqueValue    string   `json:"unique_value"`
	Keywords       []string `json:"keywords"`
	Metadata       Metadata `json:"metadata"`
}

// Metadata describes the input an analysis was computed from.
type Metadata struct {
	MessageCount  int    `json:"message_count"`
	WordCount     int    `json:"word_count"`
	TablesVersion string `json:"tables_version"`
}

// Analyze extracts a ConversationAnalysis from the user messages. Assistant
// messages are ignored. The input is not modified and the same input always
// yields the same output.
func Analyze(messages []models.ConversationMessage) (ConversationAnalysis, error) {
	userMessages := models.UserMessages(messages)
	parts := make([]string, len(userMessages))
	for i, m := range userMessages {
		parts[i] = m.Content
	}
	fullText := strings.Join(parts, "\n\n")

	if strings.TrimSpace(fullText) == "" {
		return ConversationAnalysis{}, ErrEmptyConversation
	}

	return ConversationAnalysis{
		FullText:       fullText,
		Problem:        ExtractProblem(fullText),
		Solution:       ExtractSolution(fullText),
		TargetAudience: DetectTargetAudience(fullText),
		Industry:       DetectIndustry(fullText),
		BusinessModel:  DetectBusinessModel(fullText),
		UniqueValue:    DetectUniqueValue(fullText),
		Keywords:       ExtractKeywords(fullText),
		Metadata: Metadata{
			MessageCount:  len(messages),
			WordCount:     len(strings.Fields(fullText)),
			TablesVersion: TablesVersion,
		},
	}, nil
}
