package ngramsearch

import (
	"runtime"
	"sync"
)

// ParallelSearch chunks the outer query-ngram loop across workers
// goroutines (0 means runtime.GOMAXPROCS(0)). Each worker keeps its own
// bounded top-K heap; the dedup check stays correct per-worker because it
// only ever looks at the immutable prefix q.ids[:k] for its own k, which
// is unaffected by how the outer loop is partitioned. Local heaps are
// merged into one at the end, giving the same set and order as Search.
func (c *Corpus[G]) ParallelSearch(query string, cfg SearchConfig, scorer SimilarityFunc[G], workers int) []SearchResult {
	q := buildQuery(c, query)
	degreeCap := cfg.resolveDegreeCap(c.NumKeys())

	n := len(q.ids)
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}
	if workers <= 0 {
		return drainHeap(&resultMinHeap{}, c.keys)
	}

	localHeaps := make([]resultMinHeap, workers)
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		if start >= n {
			break
		}
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(w, start, end int) {
			defer wg.Done()
			h := &localHeaps[w]
			for k := start; k < end; k++ {
				g := q.ids[k]
				if c.graph.DstDegree(g) > degreeCap {
					continue
				}
				for _, keyID := range c.graph.SrcsFromDst(g) {
					keyIDs := c.graph.DstsFromSrc(keyID)
					if containsAnyNgram(keyIDs, q.ids[:k]) {
						continue
					}
					keyCounts := c.graph.WeightsFromSrc(keyID)
					score := scorer(q, keyIDs, keyCounts)
					if score >= cfg.Threshold {
						pushTopK(h, searchHeapItem{keyID: keyID, score: score}, cfg.MaxResults)
					}
				}
			}
		}(w, start, end)
	}
	wg.Wait()

	final := &resultMinHeap{}
	for _, lh := range localHeaps {
		for _, item := range lh {
			pushTopK(final, item, cfg.MaxResults)
		}
	}
	return drainHeap(final, c.keys)
}
