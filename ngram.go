package ngramsearch

import "sort"

// gramTuple is a fixed-capacity ordered tuple of up to 8 grams, zero-padded
// beyond the corpus arity. Arrays are natively comparable in Go, so
// gramTuple works directly as a map key without a custom hash function,
// regardless of whether G is byte or rune.
type gramTuple[G Gram] [8]G

// ngramCount pairs a distinct ngram with its occurrence count within a key.
type ngramCount[G Gram] struct {
	gram  gramTuple[G]
	count int
}

// compareGramTuple lexicographically orders two ngrams over their first
// arity grams. Slots beyond arity are zero in both operands and never
// inspected.
func compareGramTuple[G Gram](a, b gramTuple[G], arity int) int {
	for i := 0; i < arity; i++ {
		if a[i] < b[i] {
			return -1
		}
		if a[i] > b[i] {
			return 1
		}
	}
	return 0
}

// ngramsAndCounts slides a window of the given arity over units and returns
// the distinct ngrams in ascending order together with their occurrence
// counts within this key. Keys shorter than arity contribute no ngrams.
func ngramsAndCounts[G Gram](units []G, arity int) []ngramCount[G] {
	if len(units) < arity {
		return nil
	}

	counts := make(map[gramTuple[G]]int, len(units)-arity+1)
	order := make([]gramTuple[G], 0, len(units)-arity+1)
	for i := 0; i <= len(units)-arity; i++ {
		var t gramTuple[G]
		copy(t[:arity], units[i:i+arity])
		if _, seen := counts[t]; !seen {
			order = append(order, t)
		}
		counts[t]++
	}

	sort.Slice(order, func(i, j int) bool {
		return compareGramTuple(order[i], order[j], arity) < 0
	})

	out := make([]ngramCount[G], len(order))
	for i, t := range order {
		out[i] = ngramCount[G]{gram: t, count: counts[t]}
	}
	return out
}

// searchNgramID returns the index of g in the sorted distinct-ngram
// dictionary dict, or (-1, false) if g is not present.
func searchNgramID[G Gram](dict []gramTuple[G], g gramTuple[G], arity int) (int, bool) {
	i := sort.Search(len(dict), func(i int) bool {
		return compareGramTuple(dict[i], g, arity) >= 0
	})
	if i < len(dict) && compareGramTuple(dict[i], g, arity) == 0 {
		return i, true
	}
	return -1, false
}
