package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitSentences(t *testing.T) {
	got := SplitSentences("  First one.  Second?! ... Third  ")
	assert.Equal(t, []string{"First one", "Second", "Third"}, got)
	assert.Empty(t, SplitSentences(" . ! ? "))
}

func TestExtractProblem(t *testing.T) {
	t.Run("keyword sentence", func(t *testing.T) {
		text := "Hi there. Bakeries STRUGGLE to forecast demand! We fix that."
		assert.Equal(t, "Bakeries STRUGGLE to forecast demand", ExtractProblem(text))
	})

	t.Run("long sentence fallback", func(t *testing.T) {
		text := "Hi. Bakeries throw away bread every night. Ok."
		assert.Equal(t, "Bakeries throw away bread every night", ExtractProblem(text))
	})

	t.Run("default", func(t *testing.T) {
		assert.Equal(t, DefaultProblem, ExtractProblem("Hi. Short one."))
	})
}

func TestExtractSolution(t *testing.T) {
	text := "Bakeries waste bread. Our app predicts demand each morning."
	assert.Equal(t, "Our app predicts demand each morning", ExtractSolution(text))
	assert.Equal(t, DefaultSolution, ExtractSolution("Yes. No."))
}

func TestExtractKeywords(t *testing.T) {
	text := "Bread, bread and more bread! Bakers love fresh bakers' bread; fresh is best."

	got := ExtractKeywords(text)
	assert.Equal(t, []string{"bread", "bakers", "fresh", "more", "love", "best"}, got)
}

func TestExtractKeywords_Limit(t *testing.T) {
	text := "alpha bravo charlie delta echoes foxtrot golfer hotel india juliet kilo lima"
	assert.Len(t, ExtractKeywords(text), 10)
	assert.Empty(t, ExtractKeywords("a an the"))
}

func TestExtractPainPoints(t *testing.T) {
	text := "It is hard. It is expensive. It is complex. It is a problem. It is an issue. It is difficult. Fine."
	got := ExtractPainPoints(text)
	assert.Equal(t, []string{"It is hard", "It is expensive", "It is complex", "It is a problem", "It is an issue"}, got)
}
