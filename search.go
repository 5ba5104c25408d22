package ngramsearch

import (
	"container/heap"
	"sort"
)

// SearchResult is one match: the candidate key id, its text, and its score
// under whichever SimilarityFunc drove the search.
type SearchResult struct {
	KeyID int
	Key   string
	Score float64
}

type searchHeapItem struct {
	keyID int
	score float64
}

// lessForHeap orders items by how eagerly they should be evicted from a
// bounded top-K heap: lowest score first, and among equal scores, highest
// key id first (the mirror of the final output's ascending-key-id tie
// break, so ties resolve toward keeping the smaller key id).
func lessForHeap(a, b searchHeapItem) bool {
	if a.score != b.score {
		return a.score < b.score
	}
	return a.keyID > b.keyID
}

// resultMinHeap is a container/heap.Interface over searchHeapItem whose
// root is always the next item to evict when the heap is at capacity.
type resultMinHeap []searchHeapItem

func (h resultMinHeap) Len() int            { return len(h) }
func (h resultMinHeap) Less(i, j int) bool  { return lessForHeap(h[i], h[j]) }
func (h resultMinHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *resultMinHeap) Push(x interface{}) { *h = append(*h, x.(searchHeapItem)) }
func (h *resultMinHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// pushTopK inserts item into h if h has not yet reached capacity k, or if
// item would survive over the current eviction candidate (the heap root).
func pushTopK(h *resultMinHeap, item searchHeapItem, k int) {
	if k <= 0 {
		return
	}
	if h.Len() < k {
		heap.Push(h, item)
		return
	}
	if lessForHeap((*h)[0], item) {
		(*h)[0] = item
		heap.Fix(h, 0)
	}
}

// drainHeap copies every item out of h (leaving h unchanged) and sorts the
// result by score descending, then key id ascending on ties.
func drainHeap(h *resultMinHeap, keys []string) []SearchResult {
	items := make([]searchHeapItem, len(*h))
	copy(items, *h)
	sort.Slice(items, func(i, j int) bool {
		if items[i].score != items[j].score {
			return items[i].score > items[j].score
		}
		return items[i].keyID < items[j].keyID
	})
	out := make([]SearchResult, len(items))
	for i, it := range items {
		out[i] = SearchResult{KeyID: it.keyID, Key: keys[it.keyID], Score: it.score}
	}
	return out
}

// containsAnyNgram reports whether the sorted ascending id slices a and b
// share any element, via a single linear merge.
func containsAnyNgram(a, b []int) bool {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			return true
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return false
}

// Search runs the two-sided pruning search: the ngram->key side enumerates
// candidates, the key->ngram side deduplicates them so each candidate is
// scored at most once, and a bounded top-K heap keeps the best results.
func (c *Corpus[G]) Search(query string, cfg SearchConfig, scorer SimilarityFunc[G]) []SearchResult {
	q := buildQuery(c, query)
	degreeCap := cfg.resolveDegreeCap(c.NumKeys())
	h := &resultMinHeap{}

	for k := 0; k < len(q.ids); k++ {
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

	return drainHeap(h, c.keys)
}

// WarpJaccardSearch is Search with the n-gram Jaccard-with-warp kernel.
func (c *Corpus[G]) WarpJaccardSearch(query string, cfg SearchConfig, warp Warp) []SearchResult {
	return c.Search(query, cfg, WarpJaccard[G](warp))
}

// BM25Search is Search with the TF-IDF/BM25 kernel.
func (c *Corpus[G]) BM25Search(query string, cfg SearchConfig, params BM25Params) []SearchResult {
	return c.Search(query, cfg, BM25Similarity[G](params, c))
}

// CombinedSearch is Search with the BM25 x warp-Jaccard kernel.
func (c *Corpus[G]) CombinedSearch(query string, cfg SearchConfig, params BM25Params, warp Warp) []SearchResult {
	return c.Search(query, cfg, Combined[G](params, warp, c))
}
