package ngramsearch

import (
	"math"
	"testing"
)

func TestNewWarpValidation(t *testing.T) {
	if _, err := NewWarp(math.NaN()); err == nil {
		t.Fatal("expected error for NaN warp")
	}
	if _, err := NewWarp(math.Inf(1)); err == nil {
		t.Fatal("expected error for infinite warp")
	}
	if _, err := NewWarp(0.5); err == nil {
		t.Fatal("expected error for warp below 1")
	}
	if _, err := NewWarp(3.5); err == nil {
		t.Fatal("expected error for warp above 3")
	}
	if _, err := NewWarp(2); err != nil {
		t.Fatalf("NewWarp(2) unexpected error: %v", err)
	}
}

func TestNewBM25Validation(t *testing.T) {
	if _, err := NewBM25(1.0, 0.5); err == nil {
		t.Fatal("expected error for k1 below 1.2")
	}
	if _, err := NewBM25(1.5, 1.5); err == nil {
		t.Fatal("expected error for b above 1")
	}
	if _, err := NewBM25(1.5, 0.75); err != nil {
		t.Fatalf("NewBM25(1.5,0.75) unexpected error: %v", err)
	}
}

func TestWarpJaccardIdenticalMultisets(t *testing.T) {
	c := buildTestCorpus(t, []string{"abcdef"}, 2)
	warp, _ := NewWarp(1)
	q := buildQuery(c, "abcdef")
	score := WarpJaccard[byte](warp)(q, c.Graph().DstsFromSrc(0), c.Graph().WeightsFromSrc(0))
	if math.Abs(score-1.0) > 1e-9 {
		t.Fatalf("identical multisets score = %v, want 1.0", score)
	}
}

func TestWarpJaccardDisjoint(t *testing.T) {
	c := buildTestCorpus(t, []string{"abc"}, 2)
	warp, _ := NewWarp(1)
	q := buildQuery(c, "xyz")
	score := WarpJaccard[byte](warp)(q, c.Graph().DstsFromSrc(0), c.Graph().WeightsFromSrc(0))
	if score != 0 {
		t.Fatalf("disjoint multisets score = %v, want 0", score)
	}
}

func TestWarpOneEqualsPlainJaccard(t *testing.T) {
	c := buildTestCorpus(t, []string{"abcdefg"}, 2)
	warp, _ := NewWarp(1)
	q := buildQuery(c, "bcdefgh")

	keyIDs := c.Graph().DstsFromSrc(0)
	keyCounts := c.Graph().WeightsFromSrc(0)

	s := 0
	for i, id := range q.IDs() {
		for j, kid := range keyIDs {
			if id == kid {
				if q.CountAt(i) < keyCounts[j] {
					s += q.CountAt(i)
				} else {
					s += keyCounts[j]
				}
			}
		}
	}
	a := q.TotalCount() + sumInts(keyCounts) - s
	want := float64(s) / float64(a)

	got := WarpJaccard[byte](warp)(q, keyIDs, keyCounts)
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("warp=1 score = %v, want %v (=s/a)", got, want)
	}
}
