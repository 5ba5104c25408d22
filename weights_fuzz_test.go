package ngramsearch

import "testing"

func FuzzWeightCodecRoundTrip(f *testing.F) {
	f.Add(uint64(0x1), uint64(0x23), uint64(0x456))
	f.Fuzz(func(t *testing.T, a, b, c uint64) {
		perKey := [][]int{
			weightsFromSeed(a, 8),
			weightsFromSeed(b, 5),
			weightsFromSeed(c, 12),
		}

		builder := newWeightCodecBuilder()
		for _, w := range perKey {
			builder.Push(w)
		}
		codec := builder.Build()

		for i, want := range perKey {
			got := codec.Weights(i)
			if len(got) != len(want) {
				t.Fatalf("key %d: len(Weights)=%d, want %d", i, len(got), len(want))
			}
			for j := range want {
				if got[j] != want[j] {
					t.Fatalf("key %d weight %d: got %d, want %d", i, j, got[j], want[j])
				}
			}
		}
	})
}

// weightsFromSeed derives a pseudo-random but deterministic weight
// sequence from a fuzzer-controlled seed, biased toward runs of 1 (the
// distribution the codec is optimized for).
func weightsFromSeed(seed uint64, n int) []int {
	out := make([]int, n)
	for i := range out {
		seed = seed*6364136223846793005 + 1442695040888963407
		if seed%4 != 0 {
			out[i] = 1
		} else {
			out[i] = int(seed%7) + 2
		}
	}
	return out
}
