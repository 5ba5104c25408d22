package ngramsearch

// QueryHashmap is the query-side counterpart of a key's ngram multiset:
// the ngrams present in the corpus as sorted, aligned (id,count) vectors,
// plus the total occurrence count over every query ngram including ones
// absent from the corpus.
type QueryHashmap[G Gram] struct {
	ids        []int
	counts     []int
	totalCount int
}

// buildQuery normalizes and extracts the query's ngrams the same way keys
// were normalized and extracted at build time, then resolves each ngram
// against the corpus dictionary. Ngrams absent from the corpus contribute
// to totalCount but are dropped from ids/counts: they can never contribute
// a shared-gram term to a merge-join.
func buildQuery[G Gram](c *Corpus[G], query string) *QueryHashmap[G] {
	units := unitsFromString[G](query)
	if c.normalize != nil {
		units = c.normalize(units)
	}
	if c.padding {
		units = padUnits(units, c.arity)
	}
	ngrams := ngramsAndCounts(units, c.arity)

	q := &QueryHashmap[G]{
		ids:    make([]int, 0, len(ngrams)),
		counts: make([]int, 0, len(ngrams)),
	}
	for _, nc := range ngrams {
		q.totalCount += nc.count
		if id, ok := c.ngramID(nc.gram); ok {
			q.ids = append(q.ids, id)
			q.counts = append(q.counts, nc.count)
		}
	}
	return q
}

// IDs returns the query's known ngram ids, ascending.
func (q *QueryHashmap[G]) IDs() []int { return q.ids }

// Counts returns the per-id occurrence counts, aligned with IDs().
func (q *QueryHashmap[G]) Counts() []int { return q.counts }

// TotalCount is the sum of counts over every query ngram, known or not.
func (q *QueryHashmap[G]) TotalCount() int { return q.totalCount }

// CountAt returns the occurrence count for the id at index i in IDs().
func (q *QueryHashmap[G]) CountAt(i int) int { return q.counts[i] }
