package wordlist

import (
	"cmp"
	"slices"
	"unicode/utf8"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// MaxSuggestions caps the number of suggestions returned for a word.
const MaxSuggestions = 10

// maxEditDistance is the largest Levenshtein distance a suggestion may
// have from the misspelled word.
const maxEditDistance = 2

type candidate struct {
	word     string
	distance int
	score    float64
}

// ranker collects dictionary words close to a misspelling. Candidates are
// ordered by edit distance, then by Jaro-Winkler similarity, which favors
// words sharing a prefix.
type ranker struct {
	target string
	runes  int
	lev    *metrics.Levenshtein
	jw     *metrics.JaroWinkler
	found  []candidate
	seen   map[string]bool
}

func newRanker(target string) *ranker {
	return &ranker{
		target: target,
		runes:  utf8.RuneCountInString(target),
		lev:    metrics.NewLevenshtein(),
		jw:     metrics.NewJaroWinkler(),
		seen:   make(map[string]bool),
	}
}

// consider scores word, whose folded form is folded.
func (r *ranker) consider(word, folded string) {
	if folded == r.target || r.seen[word] {
		return
	}
	n := utf8.RuneCountInString(folded)
	if n-r.runes > maxEditDistance || r.runes-n > maxEditDistance {
		return
	}
	dist := r.lev.Distance(r.target, folded)
	if dist > maxEditDistance {
		return
	}
	r.seen[word] = true
	r.found = append(r.found, candidate{
		word:     word,
		distance: dist,
		score:    strutil.Similarity(r.target, folded, r.jw),
	})
}

func (r *ranker) best(n int) []string {
	slices.SortFunc(r.found, func(a, b candidate) int {
		if c := cmp.Compare(a.distance, b.distance); c != 0 {
			return c
		}
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}
		return cmp.Compare(a.word, b.word)
	})
	out := make([]string, 0, min(n, len(r.found)))
	for _, c := range r.found {
		if len(out) == n {
			break
		}
		out = append(out, c.word)
	}
	return out
}
