package ngramsearch

// CorpusOption configures a CorpusBuilder, following the functional-options
// pattern: each option mutates the builder in place before Build is called.
type CorpusOption[G Gram] func(*CorpusBuilder[G])

// WithAdaptors appends normalization adaptors to the builder's pipeline.
// Adaptors run left to right, and the same composed pipeline is applied to
// keys at build time and to the query at search time.
func WithAdaptors[G Gram](adaptors ...Adaptor[G]) CorpusOption[G] {
	return func(b *CorpusBuilder[G]) {
		b.adaptors = append(b.adaptors, adaptors...)
	}
}

// WithPadding pads a normalized key/query shorter than the corpus arity
// with trailing PADDING (zero-value) grams, so it still contributes one
// ngram instead of none. Off by default: padding is configuration, not a
// core contract.
func WithPadding[G Gram]() CorpusOption[G] {
	return func(b *CorpusBuilder[G]) { b.padding = true }
}

// SearchConfig holds the parameters a search call is evaluated under.
type SearchConfig struct {
	Threshold      float64
	MaxResults     int
	MaxNgramDegree int // -1 means "use the default policy"
}

// SearchOption configures a SearchConfig before a search call.
type SearchOption func(*SearchConfig)

// WithMaxNgramDegree overrides the default stop-ngram degree cap.
func WithMaxNgramDegree(d int) SearchOption {
	return func(c *SearchConfig) { c.MaxNgramDegree = d }
}

// NewSearchConfig validates and builds a SearchConfig. threshold must be a
// finite value in [0,1]; maxResults must be >= 0.
func NewSearchConfig(threshold float64, maxResults int, opts ...SearchOption) (SearchConfig, error) {
	if isNaNOrInf(threshold) || threshold < 0 || threshold > 1 {
		return SearchConfig{}, newError(BadParameter, "threshold must be a finite value in [0,1]")
	}
	if maxResults < 0 {
		return SearchConfig{}, newError(BadParameter, "maxResults must be >= 0")
	}
	cfg := SearchConfig{Threshold: threshold, MaxResults: maxResults, MaxNgramDegree: -1}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg, nil
}

// resolveDegreeCap returns the effective stop-ngram degree cap: the
// explicitly configured value, or the default policy max(100, numKeys/10).
func (c SearchConfig) resolveDegreeCap(numKeys int) int {
	if c.MaxNgramDegree >= 0 {
		return c.MaxNgramDegree
	}
	d := numKeys / 10
	if d < 100 {
		d = 100
	}
	return d
}
