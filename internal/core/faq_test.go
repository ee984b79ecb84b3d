package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var advisingFAQ = []FAQEntry{
	{
		Question: "How do I find my registration time?",
		Answer:   "Check Registration Eligibility in Self Service.",
		Tags:     []string{"registration time", "ticket", "eligibility", "when can i register"},
	},
	{
		Question: "What should I do if a class is full?",
		Answer:   "Pick a back-up and contact the department for overrides.",
		Tags:     []string{"class full", "closed", "override", "capacity"},
	},
	{
		Question: "Who clears my advising hold?",
		Answer:   "Your advisor clears it after you meet.",
		Tags:     []string{"advising hold", "remove hold", "clear hold"},
	},
	{
		Question: "How do I withdraw from a course?",
		Answer:   "Follow the withdrawal guide. Deadlines apply.",
		Tags:     []string{"withdraw", "drop class", "deadline"},
	},
	{
		Question: "Can you advise my minor?",
		Answer:   "Contact the minor's department.",
		Tags:     []string{"minor advising", "minor questions"},
	},
}

var studyAbroad = FAQEntry{Question: "How do I study abroad?", Answer: "Visit the Global Programs office."}

func TestMatch_Exact(t *testing.T) {
	entries := append([]FAQEntry{studyAbroad}, advisingFAQ...)

	got := Match("How do I study abroad?", entries)

	assert.True(t, got.Found)
	assert.Equal(t, studyAbroad.Answer, got.Answer)
	assert.Equal(t, studyAbroad.Question, got.MatchedQuestion)
	assert.Equal(t, MaxScore, got.Score)
	assert.Equal(t, MatchExact, got.Method)
}

func TestMatch_ShortQuery(t *testing.T) {
	entries := append(append([]FAQEntry{}, advisingFAQ...), studyAbroad)

	got := Match("study abroad", entries)

	assert.True(t, got.Found)
	assert.Equal(t, studyAbroad.Answer, got.Answer)
	assert.GreaterOrEqual(t, got.Score, AcceptThreshold)
}

func TestMatch_NotFound(t *testing.T) {
	got := Match("quantum physics", advisingFAQ)

	assert.False(t, got.Found)
	assert.Empty(t, got.Answer)
	assert.Empty(t, got.MatchedQuestion)
	assert.Equal(t, MatchNone, got.Method)
	assert.Less(t, got.Score, AcceptThreshold)
	assert.Len(t, got.Suggestions, MaxSuggestions)
}

func TestMatch_Tag(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"When can I register?", advisingFAQ[0].Answer},
		{"I need an override", advisingFAQ[1].Answer},
		{"how do I drop a class", advisingFAQ[3].Answer},
		{"please remove hold on my account", advisingFAQ[2].Answer},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := Match(tt.query, advisingFAQ)
			require.True(t, got.Found)
			assert.Equal(t, MatchTag, got.Method)
			assert.Equal(t, MaxScore, got.Score)
			assert.Equal(t, tt.want, got.Answer)
		})
	}
}

func TestMatch_TagNeedsWholeWords(t *testing.T) {
	// "holder" contains "hold" but is a different token.
	got := Match("remove holder", []FAQEntry{{Question: "Lost keys?", Answer: "Front desk.", Tags: []string{"remove hold"}}})
	assert.NotEqual(t, MatchTag, got.Method)
}

func TestMatch_Fuzzy(t *testing.T) {
	got := Match("registration tiem", advisingFAQ)

	require.True(t, got.Found)
	assert.Equal(t, MatchFuzzy, got.Method)
	assert.Equal(t, advisingFAQ[0].Answer, got.Answer)
	assert.Greater(t, got.Score, AcceptThreshold)
	assert.Less(t, got.Score, MaxScore)
	require.NotEmpty(t, got.Suggestions)
	assert.Equal(t, advisingFAQ[0].Question, got.Suggestions[0].Question)
}

func TestMatch_TieBreakPrefersEarlierEntry(t *testing.T) {
	entries := []FAQEntry{
		{Question: "Where is the advising office?", Answer: "first"},
		{Question: "Where is the advising office?", Answer: "second"},
	}
	idx := NewFAQIndex(entries)

	for i := 0; i < 5; i++ {
		got := idx.Match("advising ofice")
		require.True(t, got.Found)
		assert.Equal(t, MatchFuzzy, got.Method)
		assert.Equal(t, "first", got.Answer)
		require.Len(t, got.Suggestions, 2)
		assert.Equal(t, got.Suggestions[0].Score, got.Suggestions[1].Score)
	}
}

func TestMatch_ExactPrefersEarlierEntry(t *testing.T) {
	entries := []FAQEntry{
		{Question: "Advising hold", Answer: "first"},
		{Question: "Who clears my advising hold?", Answer: "second"},
	}

	got := Match("who clears my advising hold", entries)
	assert.Equal(t, "first", got.Answer)
}

func TestMatch_EmptyInput(t *testing.T) {
	assert.False(t, Match("", advisingFAQ).Found)
	assert.False(t, Match("?!", advisingFAQ).Found)
	assert.False(t, Match("registration time", nil).Found)
	assert.Equal(t, MatchNone, Match("", advisingFAQ).Method)
}

func TestMatch_Deterministic(t *testing.T) {
	idx := NewFAQIndex(advisingFAQ)
	first := idx.Match("advising hold removal")
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, idx.Match("advising hold removal"))
	}
}

func TestFAQIndex_QueryNormalization(t *testing.T) {
	idx := NewFAQIndex(advisingFAQ)
	assert.Equal(t, len(advisingFAQ), idx.Len())

	// Case, accents, punctuation and stop words do not affect matching.
	plain := idx.Match("withdraw course")
	noisy := idx.Match("  HOW do I withdráw from a COURSE?? ")
	assert.True(t, noisy.Found)
	assert.Equal(t, plain, noisy)
}
