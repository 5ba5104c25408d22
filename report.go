package ngramsearch

// Report is a tiny descriptor of a built corpus, useful for logging and
// diagnostics without exposing the internal CSR representation.
type Report struct {
	NumKeys          int
	NumNgrams        int
	NumEdges         int
	AverageKeyLength float64
}

// Report summarizes this corpus's size.
func (c *Corpus[G]) Report() Report {
	return Report{
		NumKeys:          c.graph.NumberOfSourceNodes(),
		NumNgrams:        c.graph.NumberOfDestinationNodes(),
		NumEdges:         c.graph.NumberOfEdges(),
		AverageKeyLength: c.averageKeyLength,
	}
}
