package ngramsearch

import (
	"runtime"
	"sync"
)

// BuildParallel runs the embarrassingly-parallel extraction phase across
// workers goroutines (0 means runtime.GOMAXPROCS(0)), then hands off to
// the same sequential CSR linearization buildFromExtracted uses for the
// serial path, so the two builders produce bit-identical indices. Only
// extraction benefits from parallelism: dictionary sort, id assignment,
// and the ngram_to_key scatter all depend on a globally consistent view
// of the dictionary and must not be claimed concurrently without breaking
// the ascending key-id ordering invariant on the ngram->key side.
func (b *CorpusBuilder[G]) BuildParallel(keys []string, workers int) (*Corpus[G], error) {
	if len(keys) == 0 {
		return nil, newError(EmptyCorpus, "no keys supplied")
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(keys) {
		workers = len(keys)
	}

	normalize := composeAdaptors(b.adaptors)
	extractions := make([]keyExtraction[G], len(keys))

	chunk := (len(keys) + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		if start >= len(keys) {
			break
		}
		end := start + chunk
		if end > len(keys) {
			end = len(keys)
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				extractions[i] = extractKey[G](keys[i], b.arity, normalize, b.padding)
			}
		}(start, end)
	}
	wg.Wait()

	return buildFromExtracted(keys, b.arity, normalize, b.padding, extractions)
}
