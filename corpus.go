package ngramsearch

import "sort"

// Corpus is an immutable, built fuzzy-search index over a fixed set of
// keys. It is safe for concurrent reads from multiple goroutines.
type Corpus[G Gram] struct {
	arity            int
	normalize        Adaptor[G]
	padding          bool
	keys             []string
	ngrams           []gramTuple[G] // sorted distinct ngram dictionary, id = index
	graph            *csrGraph
	averageKeyLength float64
}

// CorpusBuilder accumulates configuration and then builds an immutable
// Corpus from a key collection.
type CorpusBuilder[G Gram] struct {
	arity    int
	adaptors []Adaptor[G]
	padding  bool
}

// NewCorpusBuilder creates a builder for n-grams of the given arity, which
// is clamped to [1,8] per the fixed gram-tuple capacity.
func NewCorpusBuilder[G Gram](arity int, opts ...CorpusOption[G]) *CorpusBuilder[G] {
	if arity < 1 {
		arity = 1
	}
	if arity > 8 {
		arity = 8
	}
	b := &CorpusBuilder[G]{arity: arity}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// keyExtraction holds one key's sorted (ngram,count) multiset plus its
// total occurrence-unit count, computed independently of how the
// extraction step was scheduled (serial loop or parallel workers) so the
// downstream linearization can be shared verbatim by both build paths.
type keyExtraction[G Gram] struct {
	ngrams []ngramCount[G]
	length int
}

func extractKey[G Gram](key string, arity int, normalize Adaptor[G], padding bool) keyExtraction[G] {
	units := unitsFromString[G](key)
	if normalize != nil {
		units = normalize(units)
	}
	if padding {
		units = padUnits(units, arity)
	}
	ngrams := ngramsAndCounts(units, arity)
	length := 0
	for _, nc := range ngrams {
		length += nc.count
	}
	return keyExtraction[G]{ngrams: ngrams, length: length}
}

// Build runs the serial build path: extraction is a single pass over keys
// in order, followed by the shared CSR linearization.
func (b *CorpusBuilder[G]) Build(keys []string) (*Corpus[G], error) {
	if len(keys) == 0 {
		return nil, newError(EmptyCorpus, "no keys supplied")
	}
	normalize := composeAdaptors(b.adaptors)
	extractions := make([]keyExtraction[G], len(keys))
	for i, k := range keys {
		extractions[i] = extractKey[G](k, b.arity, normalize, b.padding)
	}
	return buildFromExtracted(keys, b.arity, normalize, b.padding, extractions)
}

// buildFromExtracted performs steps 2-6 of the build (distinct-ngram
// dictionary, id assignment, CSR linearization) identically regardless of
// how the per-key extractions were produced. Keeping this sequential in
// both the serial and parallel builders is what makes the two paths
// answer every query bit-for-bit identically: naive concurrent slot
// claiming for ngram_to_key does not by itself preserve the required
// ascending key-id order within each ngram's source list.
func buildFromExtracted[G Gram](keys []string, arity int, normalize Adaptor[G], padding bool, extractions []keyExtraction[G]) (*Corpus[G], error) {
	seen := make(map[gramTuple[G]]struct{})
	for _, ex := range extractions {
		for _, nc := range ex.ngrams {
			seen[nc.gram] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil, newError(EmptyCorpus, "no key produced any ngram")
	}

	dict := make([]gramTuple[G], 0, len(seen))
	for g := range seen {
		dict = append(dict, g)
	}
	sort.Slice(dict, func(i, j int) bool {
		return compareGramTuple(dict[i], dict[j], arity) < 0
	})
	numNgrams := len(dict)

	keyOffsetsRaw := newIntVec()
	keyOffsetsRaw.Push(0)
	scratchE := newIntVec()
	ngramDegrees := make([]uint64, numNgrams+1)
	wBuilder := newWeightCodecBuilder()

	for _, ex := range extractions {
		weights := make([]int, len(ex.ngrams))
		for j, nc := range ex.ngrams {
			id, ok := searchNgramID(dict, nc.gram, arity)
			if !ok {
				panic("ngramsearch: ngram missing from dictionary")
			}
			scratchE.Push(uint64(id))
			ngramDegrees[id+1]++
			weights[j] = nc.count
		}
		wBuilder.Push(weights)
		keyOffsetsRaw.Push(keyOffsetsRaw.Last() + uint64(len(ex.ngrams)))
	}

	E := scratchE.Len()

	ngramOffsetsRaw := make([]uint64, numNgrams+1)
	var cum uint64
	for g := 0; g <= numNgrams; g++ {
		ngramOffsetsRaw[g] = cum
		if g < numNgrams {
			cum += ngramDegrees[g+1]
		}
	}

	cursor := make([]uint64, numNgrams)
	ngramToKeyRaw := make([]uint64, E)
	eIdx := 0
	for keyID, ex := range extractions {
		for range ex.ngrams {
			id := scratchE.Get(eIdx)
			pos := ngramOffsetsRaw[id] + cursor[id]
			cursor[id]++
			ngramToKeyRaw[pos] = uint64(keyID)
			eIdx++
		}
	}

	graph := &csrGraph{
		numSrc:       len(keys),
		numDst:       numNgrams,
		numEdges:     E,
		keyOffsets:   buildEliasFano(keyOffsetsRaw.Values()),
		keyToNgram:   newBitPackedVectorFromValues(scratchE.Values()),
		keyWeights:   wBuilder.Build(),
		ngramOffsets: buildEliasFano(ngramOffsetsRaw),
		ngramToKey:   newBitPackedVectorFromValues(ngramToKeyRaw),
	}

	var totalLen int
	for _, ex := range extractions {
		totalLen += ex.length
	}
	avg := float64(totalLen) / float64(len(keys))

	return &Corpus[G]{
		arity:            arity,
		normalize:        normalize,
		padding:          padding,
		keys:             keys,
		ngrams:           dict,
		graph:            graph,
		averageKeyLength: avg,
	}, nil
}

// NumKeys reports the number of keys in the corpus.
func (c *Corpus[G]) NumKeys() int { return len(c.keys) }

// NumNgrams reports the number of distinct ngrams in the corpus.
func (c *Corpus[G]) NumNgrams() int { return len(c.ngrams) }

// Arity reports the fixed ngram arity of this corpus.
func (c *Corpus[G]) Arity() int { return c.arity }

// Key returns the stored key text for a key id.
func (c *Corpus[G]) Key(id int) string { return c.keys[id] }

// Graph exposes the underlying BipartiteGraph backend.
func (c *Corpus[G]) Graph() BipartiteGraph { return c.graph }

func (c *Corpus[G]) ngramID(g gramTuple[G]) (int, bool) {
	return searchNgramID(c.ngrams, g, c.arity)
}
