package ngramsearch

import "testing"

func TestEliasFanoGet(t *testing.T) {
	vals := []uint64{0, 1, 1, 4, 7, 7, 7, 20, 1000, 1000, 1001}
	ef := buildEliasFano(vals)
	if ef.Len() != len(vals) {
		t.Fatalf("Len() = %d, want %d", ef.Len(), len(vals))
	}
	for i, want := range vals {
		if got := ef.Get(i); got != want {
			t.Fatalf("Get(%d) = %d, want %d", i, got, want)
		}
	}
}

func TestEliasFanoPredecessor(t *testing.T) {
	vals := []uint64{0, 2, 2, 5, 9}
	ef := buildEliasFano(vals)

	cases := []struct {
		x    uint64
		want int
		ok   bool
	}{
		{0, 0, true},
		{1, 0, true},
		{2, 2, true},
		{4, 2, true},
		{5, 3, true},
		{100, 4, true},
	}
	for _, c := range cases {
		i, ok := ef.Predecessor(c.x)
		if ok != c.ok || i != c.want {
			t.Fatalf("Predecessor(%d) = (%d,%v), want (%d,%v)", c.x, i, ok, c.want, c.ok)
		}
	}
}

func TestEliasFanoOffsetsShape(t *testing.T) {
	// key_offsets-style sequence: monotone, starting at 0, large run of
	// repeats for keys contributing zero edges.
	vals := []uint64{0, 0, 3, 3, 3, 10, 10, 50}
	ef := buildEliasFano(vals)
	for i := 0; i < len(vals)-1; i++ {
		if ef.Get(i) > ef.Get(i+1) {
			t.Fatalf("offsets must be non-decreasing: Get(%d)=%d > Get(%d)=%d", i, ef.Get(i), i+1, ef.Get(i+1))
		}
	}
}
