package ngramsearch

import "math/bits"

// eliasFanoSampleRate controls how often a one-bit position in the upper
// array is cached for O(1)-amortized Select; larger values trade a smaller
// sample table for a longer linear scan per Select.
const eliasFanoSampleRate = 64

// eliasFano is a monotone non-decreasing sequence of uint64 values encoded
// in the classic two-array Elias-Fano layout: a sparse "upper" bitset of
// unary-coded high bits and a dense "lower" bit-packed array of the
// remaining low bits. No Go library in the retrieval pack implements
// succinct rank/select structures, so both arrays and the sampled Select
// index are hand-rolled here, following the same split the original's
// sux-backed implementation uses.
type eliasFano struct {
	m        int // number of elements
	u        uint64
	lowBits  int
	low      *bitPackedVector
	upper    []uint64 // bitset, length upperLen bits
	upperLen int
	sample   []int32 // sample[k] = bit position of the (k*sampleRate)-th one
}

func buildEliasFano(vals []uint64) *eliasFano {
	m := len(vals)
	if m == 0 {
		return &eliasFano{}
	}
	u := vals[m-1] + 1

	lowBits := 0
	if m > 0 {
		avg := u / uint64(m)
		for lowBits < 63 && uint64(1)<<uint(lowBits+1) <= avg {
			lowBits++
		}
	}

	upperLen := m + int(u>>uint(lowBits)) + 1
	ef := &eliasFano{
		m:        m,
		u:        u,
		lowBits:  lowBits,
		low:      newBitPackedVector(lowBits, m),
		upper:    make([]uint64, (upperLen+63)/64),
		upperLen: upperLen,
	}

	var lowMask uint64
	if lowBits > 0 {
		lowMask = uint64(1)<<uint(lowBits) - 1
	}

	for i, v := range vals {
		high := v >> uint(lowBits)
		pos := int(high) + i
		ef.upper[pos/64] |= 1 << uint(pos%64)
		ef.low.Set(i, v&lowMask)
	}

	ef.buildSample()
	return ef
}

func (ef *eliasFano) buildSample() {
	nSamples := (ef.m + eliasFanoSampleRate - 1) / eliasFanoSampleRate
	ef.sample = make([]int32, 0, nSamples)
	count := 0
	for w := 0; w < len(ef.upper); w++ {
		word := ef.upper[w]
		for word != 0 {
			b := bits.TrailingZeros64(word)
			pos := w*64 + b
			if count%eliasFanoSampleRate == 0 {
				ef.sample = append(ef.sample, int32(pos))
			}
			count++
			word &= word - 1
		}
	}
}

// Select returns the bit position of the i-th (0-indexed) one-bit in the
// upper array.
func (ef *eliasFano) Select(i int) int {
	sIdx := i / eliasFanoSampleRate
	pos := int(ef.sample[sIdx])
	remaining := i % eliasFanoSampleRate

	w := pos / 64
	word := ef.upper[w] &^ (uint64(1)<<uint(pos%64) - 1)
	for {
		ones := bits.OnesCount64(word)
		if remaining < ones {
			for k := 0; k < remaining; k++ {
				word &= word - 1
			}
			return w*64 + bits.TrailingZeros64(word)
		}
		remaining -= ones
		w++
		word = ef.upper[w]
	}
}

// Get returns the i-th value of the encoded sequence.
func (ef *eliasFano) Get(i int) uint64 {
	pos := ef.Select(i)
	high := uint64(pos - i)
	return (high << uint(ef.lowBits)) | ef.low.Get(i)
}

// Predecessor returns the index of the largest element <= x, or
// (-1, false) if every element exceeds x (including the empty sequence).
func (ef *eliasFano) Predecessor(x uint64) (int, bool) {
	lo, hi := 0, ef.m
	for lo < hi {
		mid := (lo + hi) / 2
		if ef.Get(mid) <= x {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo == 0 {
		return -1, false
	}
	return lo - 1, true
}

// Len reports the number of encoded values.
func (ef *eliasFano) Len() int { return ef.m }
