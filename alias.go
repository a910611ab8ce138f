package sparkyrng

import "math"

// An AliasTable samples indices proportional to a weight vector in O(1)
// per draw after O(n) construction, using Vose's variant of the alias
// method (Vose 1991; https://www.keithschwarz.com/darts-dice-coins/).
//
// The table size is the input length rounded up to a power of two, with
// zero-weight padding. Every sample consumes exactly one 64-bit draw.
// Reads are safe to share; rebuilding concurrently with reads is not.
type AliasTable struct {
	shr   uint
	alias []uint32
	prob  []uint32
}

// NewAliasTable builds a table from a copy of weights. Weights must be
// non-negative and sum to a positive finite value; the input length must
// not exceed 2^32.
func NewAliasTable(weights []float64) *AliasTable {
	t := new(AliasTable)
	t.Create(weights)
	return t
}

// Create rebuilds the table from a copy of weights.
func (t *AliasTable) Create(weights []float64) {
	t.CreateInplace(append([]float64(nil), weights...))
}

// CreateInplace rebuilds the table using v as scratch space. The slice
// is clobbered; the caller should not reuse it.
func (t *AliasTable) CreateInplace(v []float64) {
	if uint64(len(v)) > math.MaxUint32 {
		panic("sparkyrng: alias table input exceeds 2^32 entries")
	}
	sz, k := roundUpPow2(len(v))
	for len(v) < sz {
		v = append(v, 0)
	}
	t.alias = make([]uint32, sz)
	t.prob = make([]uint32, sz)
	// Get splits a shifted draw into a 32-bit threshold (low half) and a
	// k-bit slot index (high half).
	t.shr = uint(32 - k)

	var sum float64
	for _, w := range v {
		if w < 0 || math.IsNaN(w) {
			panic("sparkyrng: alias table weight is negative or NaN")
		}
		sum += w
	}
	d := sum / float64(sz)
	if !(d > 0) || math.IsInf(d, 1) {
		panic("sparkyrng: alias table weights must sum to a positive finite value")
	}

	// Walk the slots pairing each underfull index m with an overfull
	// donor g. Donating may push g itself under the average, in which
	// case it becomes the next m; mm remembers where the forward scan
	// for underfull slots left off.
	var g, m, mm int
	for g = 0; g < sz && v[g] < d; g++ {
	}
	for m = 0; m < sz && v[m] >= d; m++ {
	}
	mm = m + 1
	for g < sz && m < sz {
		t.prob[m] = uint32(4294967296.0 / d * v[m])
		t.alias[m] = uint32(g)
		v[g] = (v[g] + v[m]) - d
		if v[g] >= d || mm <= g {
			for m = mm; m < sz && v[m] >= d; m++ {
			}
			mm = m + 1
		} else {
			m = g
		}
		for ; g < sz && v[g] < d; g++ {
		}
	}
	// Rounding can strand slots on either side of the average; they
	// keep their full probability and alias to themselves.
	if g < sz {
		t.prob[g] = math.MaxUint32
		t.alias[g] = uint32(g)
		for g = g + 1; g < sz; g++ {
			if v[g] < d {
				continue
			}
			t.prob[g] = math.MaxUint32
			t.alias[g] = uint32(g)
		}
	}
	if m < sz {
		t.prob[m] = math.MaxUint32
		t.alias[m] = uint32(m)
		for m = mm; m < sz; m++ {
			if v[m] > d {
				continue
			}
			t.prob[m] = math.MaxUint32
			t.alias[m] = uint32(m)
		}
	}
}

// roundUpPow2 returns the smallest power of two >= n (minimum 2) and
// its base-2 logarithm.
func roundUpPow2(n int) (sz, k int) {
	sz, k = 2, 1
	for sz < n {
		sz *= 2
		k++
	}
	return sz, k
}

// Get maps one 64-bit draw to an index: the top log2(len) bits select a
// slot, the next 32 bits are tested against the slot's threshold.
func (t *AliasTable) Get(u uint64) int {
	yx := u >> t.shr
	y := yx >> 32
	if uint32(yx) < t.prob[y] {
		return int(y)
	}
	return int(t.alias[y])
}

// Sample draws an index from r. Exactly one engine step per call.
func (t *AliasTable) Sample(r *Rand) int {
	return t.Get(r.Uint64())
}

// Len returns the table size: the padded power of two, not the input
// length.
func (t *AliasTable) Len() int {
	return len(t.prob)
}

// Alias returns the alias slot table. Shared with the sampler; treat as
// read-only.
func (t *AliasTable) Alias() []uint32 {
	return t.alias
}

// Prob returns the threshold table. Shared with the sampler; treat as
// read-only.
func (t *AliasTable) Prob() []uint32 {
	return t.prob
}
