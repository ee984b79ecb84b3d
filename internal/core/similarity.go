package core

// similarity.go scores how close a free-text question is to a stored one.
//
// The score blends two signals:
//   - SequenceRatio: Ratcliff/Obershelp character matching, tolerant of typos
//   - Jaccard: overlap of the word sets, tolerant of reordering
//
// Both inputs are expected to be normalized with NormalizeText first.

import "strings"

// Scoring weights and acceptance threshold. Fixed at build time.
const (
	SequenceWeight = 0.6
	TokenWeight    = 0.4

	// AcceptThreshold is the lowest blended score returned as an answer.
	AcceptThreshold = 0.45

	// MaxScore is reported for exact and tag matches.
	MaxScore = 1.0
)

// stopWords are dropped from questions unless that would leave nothing.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "is": {}, "are": {}, "am": {}, "was": {}, "be": {},
	"do": {}, "does": {}, "did": {}, "i": {}, "me": {}, "my": {}, "to": {}, "of": {},
	"in": {}, "on": {}, "at": {}, "for": {}, "and": {}, "or": {}, "if": {}, "it": {},
	"can": {}, "could": {}, "should": {}, "would": {}, "will": {}, "you": {}, "your": {},
	"how": {}, "what": {}, "when": {}, "where": {}, "who": {}, "why": {},
	"this": {}, "that": {}, "with": {}, "from": {},
}

// contentTokens removes stop words, keeping the original tokens when every
// token is a stop word.
func contentTokens(tokens []string) []string {
	kept := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, stop := stopWords[t]; !stop {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		return tokens
	}
	return kept
}

// NormalizeText lowercases, folds accents, strips punctuation and drops stop
// words: "How do I Study Abroad?" -> "study abroad".
func NormalizeText(s string) string {
	return strings.Join(contentTokens(wordTokens(s)), " ")
}

// Score blends SequenceRatio and Jaccard for two normalized strings.
// The result is in [0, 1].
func Score(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	return SequenceWeight*SequenceRatio(a, b) + TokenWeight*Jaccard(strings.Fields(a), strings.Fields(b))
}

// Jaccard returns |A ∩ B| / |A ∪ B| over the distinct tokens. Two empty sets score 0.
func Jaccard(a, b []string) float64 {
	setA := make(map[string]struct{}, len(a))
	for _, t := range a {
		setA[t] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, t := range b {
		setB[t] = struct{}{}
	}

	inter := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// SequenceRatio returns 2*M/T where M is the number of characters in the
// matching blocks found by Ratcliff/Obershelp and T the total length of both
// strings. Identical strings score 1; two empty strings also score 1.
func SequenceRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	return 2 * float64(matchingChars(ra, 0, len(ra), rb, 0, len(rb))) / float64(total)
}

// matchingChars finds the longest common block in a[alo:ahi] and b[blo:bhi],
// then recurses on the pieces to its left and right.
func matchingChars(a []rune, alo, ahi int, b []rune, blo, bhi int) int {
	i, j, k := longestBlock(a, alo, ahi, b, blo, bhi)
	if k == 0 {
		return 0
	}
	return k +
		matchingChars(a, alo, i, b, blo, j) +
		matchingChars(a, i+k, ahi, b, j+k, bhi)
}

// longestBlock returns the start positions and length of the longest common
// substring. Ties keep the block that starts earliest in a, then in b.
func longestBlock(a []rune, alo, ahi int, b []rune, blo, bhi int) (besti, bestj, bestk int) {
	besti, bestj = alo, blo
	if alo >= ahi || blo >= bhi {
		return besti, bestj, 0
	}

	// prev[n] is the length of the match ending at a[i-1], b[blo+n-1].
	width := bhi - blo + 1
	prev := make([]int, width)
	cur := make([]int, width)
	for i := alo; i < ahi; i++ {
		for j := blo; j < bhi; j++ {
			n := j - blo + 1
			if a[i] != b[j] {
				cur[n] = 0
				continue
			}
			k := prev[n-1] + 1
			cur[n] = k
			if k > bestk {
				besti, bestj, bestk = i-k+1, j-k+1, k
			}
		}
		prev, cur = cur, prev
	}
	return besti, bestj, bestk
}
