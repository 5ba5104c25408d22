package ngramsearch

import "testing"

func TestIntVecWidthUpgrade(t *testing.T) {
	v := newIntVec()
	values := []uint64{1, 2, 0xff, 0x100, 0xffff, 0x10000, 0xffffffff, 0x100000000}
	for _, x := range values {
		v.Push(x)
	}
	if v.Len() != len(values) {
		t.Fatalf("Len() = %d, want %d", v.Len(), len(values))
	}
	for i, want := range values {
		if got := v.Get(i); got != want {
			t.Fatalf("Get(%d) = %d, want %d", i, got, want)
		}
	}
	if v.width != 64 {
		t.Fatalf("width = %d, want 64 after pushing a value > 32 bits", v.width)
	}
	if last := v.Last(); last != values[len(values)-1] {
		t.Fatalf("Last() = %d, want %d", last, values[len(values)-1])
	}
}

func TestIntVecSkipsIntermediateWidths(t *testing.T) {
	v := newIntVec()
	v.Push(0x100000000) // needs width 64 while starting from width 8
	if v.width != 64 {
		t.Fatalf("width = %d, want 64 after a single large push", v.width)
	}
	if got := v.Get(0); got != 0x100000000 {
		t.Fatalf("Get(0) = %#x, want %#x", got, uint64(0x100000000))
	}

	v2 := newIntVec()
	v2.Push(0x10000) // needs width 32 while starting from width 8
	if v2.width != 32 {
		t.Fatalf("width = %d, want 32 after a single push requiring 32 bits", v2.width)
	}
	if got := v2.Get(0); got != 0x10000 {
		t.Fatalf("Get(0) = %#x, want %#x", got, uint64(0x10000))
	}
}

func TestIntVecStaysNarrow(t *testing.T) {
	v := newIntVec()
	for i := 0; i < 10; i++ {
		v.Push(uint64(i))
	}
	if v.width != 8 {
		t.Fatalf("width = %d, want 8 for small values", v.width)
	}
}
