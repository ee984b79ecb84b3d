package core

import (
	"sort"
	"strings"
)

// MaxSuggestions is the number of ranked candidates kept on fuzzy results.
const MaxSuggestions = 3

type faqItem struct {
	entry  FAQEntry
	tokens []string // content tokens of the question
	text   string   // normalized question
	tags   [][]string
}

// FAQIndex holds FAQ entries with their questions and tags normalized once.
// It is read-only after construction and safe for concurrent use.
type FAQIndex struct {
	items []faqItem
}

// NewFAQIndex builds an index over entries, keeping table order.
func NewFAQIndex(entries []FAQEntry) *FAQIndex {
	idx := &FAQIndex{items: make([]faqItem, 0, len(entries))}
	for _, e := range entries {
		text := NormalizeText(e.Question)
		item := faqItem{
			entry:  e,
			tokens: strings.Fields(text),
			text:   text,
		}
		for _, tag := range e.Tags {
			if t := strings.Fields(NormalizeText(tag)); len(t) > 0 {
				item.tags = append(item.tags, t)
			}
		}
		idx.items = append(idx.items, item)
	}
	return idx
}

// Len returns the number of indexed entries.
func (x *FAQIndex) Len() int {
	return len(x.items)
}

// Match finds the best answer for query with a one-off index.
func Match(query string, entries []FAQEntry) MatchResult {
	return NewFAQIndex(entries).Match(query)
}

// Match returns the best entry for query.
//
// An entry whose question words are all present in the query, or whose tag
// appears in the query as whole words, is returned at once with MaxScore.
// Otherwise every question is scored with Score and the highest wins, the
// earlier entry winning ties. Below AcceptThreshold the result is not found,
// carrying the ranked suggestions.
func (x *FAQIndex) Match(query string) MatchResult {
	qText := NormalizeText(query)
	qTokens := strings.Fields(qText)
	if len(qTokens) == 0 || len(x.items) == 0 {
		return MatchResult{Method: MatchNone}
	}

	qSet := make(map[string]struct{}, len(qTokens))
	for _, t := range qTokens {
		qSet[t] = struct{}{}
	}

	for _, it := range x.items {
		if len(it.tokens) > 0 && containsAll(qSet, it.tokens) {
			return found(it, MaxScore, MatchExact, nil)
		}
	}

	for _, it := range x.items {
		for _, tag := range it.tags {
			if containsRun(qTokens, tag) {
				return found(it, MaxScore, MatchTag, nil)
			}
		}
	}

	type scored struct {
		pos   int
		score float64
	}
	ranked := make([]scored, len(x.items))
	for i, it := range x.items {
		ranked[i] = scored{pos: i, score: Score(qText, it.text)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	n := min(MaxSuggestions, len(ranked))
	suggestions := make([]Suggestion, 0, n)
	for _, s := range ranked[:n] {
		suggestions = append(suggestions, Suggestion{
			Question: x.items[s.pos].entry.Question,
			Score:    s.score,
		})
	}

	best := ranked[0]
	if best.score < AcceptThreshold {
		return MatchResult{Score: best.score, Method: MatchNone, Suggestions: suggestions}
	}
	return found(x.items[best.pos], best.score, MatchFuzzy, suggestions)
}

func found(it faqItem, score float64, method MatchMethod, suggestions []Suggestion) MatchResult {
	return MatchResult{
		Found:           true,
		Answer:          it.entry.Answer,
		Score:           score,
		MatchedQuestion: it.entry.Question,
		Method:          method,
		Suggestions:     suggestions,
	}
}

func containsAll(set map[string]struct{}, tokens []string) bool {
	for _, t := range tokens {
		if _, ok := set[t]; !ok {
			return false
		}
	}
	return true
}

// containsRun reports whether needle occurs in haystack as consecutive tokens.
func containsRun(haystack, needle []string) bool {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return false
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j, t := range needle {
			if haystack[i+j] != t {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
