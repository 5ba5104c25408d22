package ngramsearch

import (
	"testing"

	"pgregory.net/rapid"
)

// genKeys produces a small random key set and arity, biased toward short
// alphabets so arity often exceeds key length and exercises the
// zero-ngram-key edge case.
func genKeys(t *rapid.T) ([]string, int) {
	arity := rapid.IntRange(1, 4).Draw(t, "arity")
	n := rapid.IntRange(1, 20).Draw(t, "n")
	alphabet := "abc"
	keys := make([]string, n)
	for i := range keys {
		length := rapid.IntRange(0, 6).Draw(t, "length")
		buf := make([]byte, length)
		for j := range buf {
			buf[j] = alphabet[rapid.IntRange(0, len(alphabet)-1).Draw(t, "ch")]
		}
		keys[i] = string(buf)
	}
	return keys, arity
}

func TestPropertyOffsetsMonotoneAndConsistent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		keys, arity := genKeys(t)
		b := NewCorpusBuilder[byte](arity)
		c, err := b.Build(keys)
		if err != nil {
			return // EmptyCorpus is a legitimate outcome for tiny alphabets
		}
		g := c.Graph()

		var lastKeyOff, lastNgramOff int
		total := 0
		for i := 0; i < g.NumberOfSourceNodes(); i++ {
			dsts := g.DstsFromSrc(i)
			total += len(dsts)
			for j := 1; j < len(dsts); j++ {
				if dsts[j-1] >= dsts[j] {
					t.Fatalf("key %d: DstsFromSrc not strictly ascending: %v", i, dsts)
				}
			}
			off := int(c.graph.keyOffsets.Get(i + 1))
			if off < lastKeyOff {
				t.Fatal("src offsets not monotone")
			}
			lastKeyOff = off
		}
		if total != g.NumberOfEdges() {
			t.Fatalf("sum of src degrees = %d, want NumberOfEdges = %d", total, g.NumberOfEdges())
		}

		totalDst := 0
		for gID := 0; gID < g.NumberOfDestinationNodes(); gID++ {
			srcs := g.SrcsFromDst(gID)
			totalDst += len(srcs)
			if g.DstDegree(gID) < 1 {
				t.Fatalf("ngram %d has dst degree %d, want >= 1", gID, g.DstDegree(gID))
			}
			if len(srcs) != g.DstDegree(gID) {
				t.Fatalf("ngram %d: len(SrcsFromDst)=%d != DstDegree=%d", gID, len(srcs), g.DstDegree(gID))
			}
			off := int(c.graph.ngramOffsets.Get(gID + 1))
			if off < lastNgramOff {
				t.Fatal("dst offsets not monotone")
			}
			lastNgramOff = off
		}
		if totalDst != g.NumberOfEdges() {
			t.Fatalf("sum of dst degrees = %d, want NumberOfEdges = %d", totalDst, g.NumberOfEdges())
		}
	})
}

func TestPropertyBidirectionalConsistency(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		keys, arity := genKeys(t)
		b := NewCorpusBuilder[byte](arity)
		c, err := b.Build(keys)
		if err != nil {
			return
		}
		g := c.Graph()

		for keyID := 0; keyID < g.NumberOfSourceNodes(); keyID++ {
			for _, ngramID := range g.DstsFromSrc(keyID) {
				found := false
				for _, k := range g.SrcsFromDst(ngramID) {
					if k == keyID {
						found = true
						break
					}
				}
				if !found {
					t.Fatalf("key %d has ngram %d but ngram's SrcsFromDst does not list it", keyID, ngramID)
				}
			}
		}
	})
}

func TestPropertyAverageKeyLength(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		keys, arity := genKeys(t)
		b := NewCorpusBuilder[byte](arity)
		c, err := b.Build(keys)
		if err != nil {
			return
		}
		total := 0
		for _, w := range c.Graph().Weights() {
			total += w
		}
		want := float64(total) / float64(c.NumKeys())
		if diff := want - c.averageKeyLength; diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("averageKeyLength = %v, want %v", c.averageKeyLength, want)
		}
	})
}
