package ngramsearch

// BipartiteGraph is the only contract search.go and similarity.go depend
// on: a bidirectional bipartite graph between "source" nodes (keys) and
// "destination" nodes (ngrams). The default backend is csrGraph, built
// directly from C1-C4; an alternative backend could re-encode the same
// graph from an external compressed-graph format and serve this same
// interface from memory-mapped storage without touching search or scoring
// code.
type BipartiteGraph interface {
	NumberOfSourceNodes() int
	NumberOfDestinationNodes() int
	NumberOfEdges() int

	SrcDegree(src int) int
	DstDegree(dst int) int

	// DstsFromSrc returns the destination (ngram) ids reachable from src,
	// in strictly ascending order.
	DstsFromSrc(src int) []int
	// SrcsFromDst returns the source (key) ids reachable from dst, in
	// ascending build-time insertion order.
	SrcsFromDst(dst int) []int
	// WeightsFromSrc returns the edge weights aligned with DstsFromSrc(src).
	WeightsFromSrc(src int) []int
	// Weights returns the concatenated weight stream over all sources.
	Weights() []int

	Degrees() (srcDegrees, dstDegrees []int)
}

// csrGraph is a bit-packed, bidirectional CSR bipartite graph: a weighted
// key->ngram CSR and an unweighted ngram->key CSR sharing the same edge
// count E. Both offset arrays are Elias-Fano monotone sequences; both
// neighbor arrays are bit-packed vectors; weights are a gamma/RLE codec.
type csrGraph struct {
	numSrc, numDst, numEdges int

	keyOffsets  *eliasFano
	keyToNgram  *bitPackedVector
	keyWeights  *weightCodec

	ngramOffsets *eliasFano
	ngramToKey   *bitPackedVector
}

func (g *csrGraph) NumberOfSourceNodes() int      { return g.numSrc }
func (g *csrGraph) NumberOfDestinationNodes() int { return g.numDst }
func (g *csrGraph) NumberOfEdges() int            { return g.numEdges }

func (g *csrGraph) SrcDegree(src int) int {
	return int(g.keyOffsets.Get(src+1) - g.keyOffsets.Get(src))
}

func (g *csrGraph) DstDegree(dst int) int {
	return int(g.ngramOffsets.Get(dst+1) - g.ngramOffsets.Get(dst))
}

func (g *csrGraph) DstsFromSrc(src int) []int {
	start := int(g.keyOffsets.Get(src))
	end := int(g.keyOffsets.Get(src + 1))
	out := make([]int, end-start)
	for i := start; i < end; i++ {
		out[i-start] = int(g.keyToNgram.Get(i))
	}
	return out
}

func (g *csrGraph) SrcsFromDst(dst int) []int {
	start := int(g.ngramOffsets.Get(dst))
	end := int(g.ngramOffsets.Get(dst + 1))
	out := make([]int, end-start)
	for i := start; i < end; i++ {
		out[i-start] = int(g.ngramToKey.Get(i))
	}
	return out
}

func (g *csrGraph) WeightsFromSrc(src int) []int {
	return g.keyWeights.Weights(src)
}

func (g *csrGraph) Weights() []int {
	out := make([]int, 0, g.numEdges)
	for i := 0; i < g.numSrc; i++ {
		out = append(out, g.keyWeights.Weights(i)...)
	}
	return out
}

func (g *csrGraph) Degrees() (srcDegrees, dstDegrees []int) {
	srcDegrees = make([]int, g.numSrc)
	for i := range srcDegrees {
		srcDegrees[i] = g.SrcDegree(i)
	}
	dstDegrees = make([]int, g.numDst)
	for i := range dstDegrees {
		dstDegrees[i] = g.DstDegree(i)
	}
	return srcDegrees, dstDegrees
}

// predecessorSrc recovers the source id owning the edge at global edge
// index e on the key→ngram side.
func (g *csrGraph) predecessorSrc(e uint64) int {
	i, _ := g.keyOffsets.Predecessor(e)
	return i
}

// predecessorDst recovers the destination id owning the edge at global
// edge index e on the ngram→key side.
func (g *csrGraph) predecessorDst(e uint64) int {
	i, _ := g.ngramOffsets.Predecessor(e)
	return i
}
