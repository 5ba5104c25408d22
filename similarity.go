package ngramsearch

import "math"

func isNaNOrInf(x float64) bool {
	return math.IsNaN(x) || math.IsInf(x, 0)
}

// Warp is a validated exponent in [1,3] sharpening the n-gram Jaccard
// score; warp=1 is plain Jaccard.
type Warp struct {
	w float64
}

// NewWarp validates w and returns a Warp. Validation happens here, at
// configuration time, never inside the scoring loop.
func NewWarp(w float64) (Warp, error) {
	if isNaNOrInf(w) || w < 1 || w > 3 {
		return Warp{}, newError(BadParameter, "warp must be a finite value in [1,3]")
	}
	return Warp{w: w}, nil
}

// BM25Params holds validated BM25/TF-IDF tuning parameters.
type BM25Params struct {
	K1 float64
	B  float64
}

// NewBM25 validates k1 and b and returns a BM25Params.
func NewBM25(k1, b float64) (BM25Params, error) {
	if isNaNOrInf(k1) || k1 < 1.2 || k1 > 2.0 {
		return BM25Params{}, newError(BadParameter, "k1 must be a finite value in [1.2,2.0]")
	}
	if isNaNOrInf(b) || b < 0 || b > 1 {
		return BM25Params{}, newError(BadParameter, "b must be a finite value in [0,1]")
	}
	return BM25Params{K1: k1, B: b}, nil
}

// SimilarityFunc scores a query against a candidate key's sorted
// (ngram-id, count) sequence, both already aligned by ascending ngram id.
type SimilarityFunc[G Gram] func(q *QueryHashmap[G], keyIDs, keyCounts []int) float64

// mergeJoinIntersection walks two ascending id sequences once, invoking
// visit with the query and key indices of every id present in both; the
// kernels accumulate their totals inside visit.
func mergeJoinIntersection(qIDs, qCounts, kIDs, kCounts []int, visit func(qi, ki int)) {
	i, j := 0, 0
	for i < len(qIDs) && j < len(kIDs) {
		switch {
		case qIDs[i] < kIDs[j]:
			i++
		case qIDs[i] > kIDs[j]:
			j++
		default:
			visit(i, j)
			i++
			j++
		}
	}
}

func sumInts(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}

// WarpJaccard builds the n-gram Jaccard-with-warp similarity kernel.
func WarpJaccard[G Gram](warp Warp) SimilarityFunc[G] {
	return func(q *QueryHashmap[G], keyIDs, keyCounts []int) float64 {
		s := 0
		mergeJoinIntersection(q.ids, q.counts, keyIDs, keyCounts, func(qi, ki int) {
			s += min(q.counts[qi], keyCounts[ki])
		})
		a := q.totalCount + sumInts(keyCounts) - s
		if a == 0 {
			return 1
		}
		if warp.w == 1 {
			return float64(s) / float64(a)
		}
		af := math.Pow(float64(a), warp.w)
		return (af - math.Pow(float64(a-s), warp.w)) / af
	}
}

// idf implements idf(g) = ln((N-df+0.5)/(df+0.5)+1) with df = dst_degree(g).
func idf[G Gram](c *Corpus[G], ngramID int) float64 {
	n := float64(c.NumKeys())
	df := float64(c.graph.DstDegree(ngramID))
	return math.Log((n-df+0.5)/(df+0.5) + 1)
}

// tf implements tf(c) = c(k1+1) / (k1(1-b+b*D/L̄) + c).
func tf(count int, docLen int, avgLen float64, params BM25Params) float64 {
	c := float64(count)
	d := float64(docLen)
	return c * (params.K1 + 1) / (params.K1*(1-params.B+params.B*d/avgLen) + c)
}

// BM25Similarity builds the TF-IDF/BM25 similarity kernel.
func BM25Similarity[G Gram](params BM25Params, c *Corpus[G]) SimilarityFunc[G] {
	return func(q *QueryHashmap[G], keyIDs, keyCounts []int) float64 {
		docLen := sumInts(keyCounts)
		score := 0.0
		mergeJoinIntersection(q.ids, q.counts, keyIDs, keyCounts, func(qi, ki int) {
			ngramID := keyIDs[ki]
			score += tf(keyCounts[ki], docLen, c.averageKeyLength, params) * idf(c, ngramID) * float64(q.counts[qi])
		})
		return score
	}
}

// Combined multiplies the BM25 score by the warp-Jaccard score, computed
// in the single linear merge-join pass each kernel already performs.
func Combined[G Gram](params BM25Params, warp Warp, c *Corpus[G]) SimilarityFunc[G] {
	bm25 := BM25Similarity[G](params, c)
	jaccard := WarpJaccard[G](warp)
	return func(q *QueryHashmap[G], keyIDs, keyCounts []int) float64 {
		return bm25(q, keyIDs, keyCounts) * jaccard(q, keyIDs, keyCounts)
	}
}
