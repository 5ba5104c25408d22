package ngramsearch

import (
	"testing"

	"github.com/go-faker/faker/v4"
)

func TestSearchOverFakerGeneratedCorpus(t *testing.T) {
	names := make([]string, 200)
	for i := range names {
		names[i] = faker.Name()
	}

	b := NewCorpusBuilder[byte](3, WithAdaptors(Lower[byte](), Alphanumeric[byte](), DedupSpaces[byte](), Trim[byte]()))
	c, err := b.Build(names)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	warp, _ := NewWarp(2)
	cfg, _ := NewSearchConfig(0, 5)

	target := names[len(names)/2]
	results := c.WarpJaccardSearch(target, cfg, warp)
	if len(results) == 0 {
		t.Fatalf("expected at least one result for %q", target)
	}
	if results[0].Key != target {
		t.Fatalf("top result = %q, want exact self-match %q", results[0].Key, target)
	}
}

func TestBM25OverFakerGeneratedCorpus(t *testing.T) {
	sentences := make([]string, 100)
	for i := range sentences {
		sentences[i] = faker.Sentence()
	}

	b := NewCorpusBuilder[byte](3, WithAdaptors(Lower[byte](), Alphanumeric[byte](), DedupSpaces[byte](), Trim[byte]()))
	c, err := b.Build(sentences)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	params, err := NewBM25(1.5, 0.75)
	if err != nil {
		t.Fatalf("NewBM25() error = %v", err)
	}
	cfg, _ := NewSearchConfig(0, 10)

	results := c.BM25Search(sentences[0], cfg, params)
	for i := 1; i < len(results); i++ {
		if results[i-1].Score < results[i].Score {
			t.Fatalf("BM25 results not sorted descending at index %d", i)
		}
	}
}
