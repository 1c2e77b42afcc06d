package service

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/kaizenloop/kaizen/internal/domain/model/snapshot"
)

// RelevanceRanker orders past learning entries by relevance to a goal
// description. Implementations must produce a total order so that query
// results are deterministic for the same log state.
type RelevanceRanker interface {
	Rank(entries []*snapshot.LearningEntry, goalDescription string) []*snapshot.LearningEntry
}

// RecencyRanker orders entries most recent first. It is the default ranker.
type RecencyRanker struct{}

// NewRecencyRanker creates the default recency-based ranker
func NewRecencyRanker() *RecencyRanker {
	return &RecencyRanker{}
}

// Rank returns entries ordered newest first; ties keep log order reversed
// so later appends win
func (r *RecencyRanker) Rank(entries []*snapshot.LearningEntry, _ string) []*snapshot.LearningEntry {
	ranked := make([]*snapshot.LearningEntry, len(entries))
	copy(ranked, entries)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[j].RecordedAt.Before(ranked[i].RecordedAt)
	})
	// SliceStable keeps append order for equal timestamps; reverse those
	// runs so the later append ranks first
	for lo := 0; lo < len(ranked); {
		hi := lo + 1
		for hi < len(ranked) && ranked[hi].RecordedAt.Equal(ranked[lo].RecordedAt) {
			hi++
		}
		for l, r := lo, hi-1; l < r; l, r = l+1, r-1 {
			ranked[l], ranked[r] = ranked[r], ranked[l]
		}
		lo = hi
	}
	return ranked
}

// KeywordRanker scores entries by token overlap between the goal
// description and the entry's goal description, breaking ties by recency.
// Tokens are NFKC-normalized and lowercased so that width and case
// variants compare equal.
type KeywordRanker struct{}

// NewKeywordRanker creates a keyword-overlap ranker
func NewKeywordRanker() *KeywordRanker {
	return &KeywordRanker{}
}

// Rank returns entries ordered by descending overlap score, then recency
func (r *KeywordRanker) Rank(entries []*snapshot.LearningEntry, goalDescription string) []*snapshot.LearningEntry {
	queryTokens := tokenize(goalDescription)

	type scored struct {
		entry *snapshot.LearningEntry
		score int
		index int
	}

	scoredEntries := make([]scored, len(entries))
	for i, e := range entries {
		scoredEntries[i] = scored{
			entry: e,
			score: overlap(queryTokens, tokenize(e.GoalDesc)),
			index: i,
		}
	}

	sort.SliceStable(scoredEntries, func(i, j int) bool {
		if scoredEntries[i].score != scoredEntries[j].score {
			return scoredEntries[i].score > scoredEntries[j].score
		}
		if !scoredEntries[i].entry.RecordedAt.Equal(scoredEntries[j].entry.RecordedAt) {
			return scoredEntries[j].entry.RecordedAt.Before(scoredEntries[i].entry.RecordedAt)
		}
		return scoredEntries[i].index > scoredEntries[j].index
	})

	ranked := make([]*snapshot.LearningEntry, len(scoredEntries))
	for i, s := range scoredEntries {
		ranked[i] = s.entry
	}
	return ranked
}

// tokenize splits a description into normalized lowercase word tokens
func tokenize(s string) map[string]struct{} {
	normalized := norm.NFKC.String(strings.ToLower(s))
	tokens := make(map[string]struct{})
	for _, word := range strings.FieldsFunc(normalized, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	}) {
		tokens[word] = struct{}{}
	}
	return tokens
}

func overlap(a, b map[string]struct{}) int {
	count := 0
	for token := range a {
		if _, ok := b[token]; ok {
			count++
		}
	}
	return count
}
