// Package sparkyrng is a deterministic randomness toolkit for
// simulation and sampling workloads: a fast 128-bit multiplicative
// congruential core, unbiased bounded integers, uniform doubles with
// exact support bounds, ziggurat exponentials, seed expansion, and O(1)
// weighted sampling via alias tables.
//
// Streams are fixed entirely by engine state: persist State and restore
// it to replay the identical future sequence. Nothing here is
// cryptographically secure or safe for unsynchronized concurrent use.
package sparkyrng

import (
	"math"
	"math/bits"
)

// A Rand owns an Engine and derives distribution values from its
// stream. Like the Engine it is a single mutable stream; do not share
// one across goroutines without external locking.
type Rand struct {
	eng Engine
}

// New returns a Rand seeded from ambient process entropy via
// AutoSeedSeq. Streams from New are not reproducible; use NewSeed when
// they must be.
func New() *Rand {
	r := new(Rand)
	r.SeedFromSeq(AutoSeedSeq())
	return r
}

// NewSeed returns a Rand deterministically seeded from a single
// integer: the seed is expanded through a SeedSeq into the full 128-bit
// state.
func NewSeed(seed uint32) *Rand {
	r := new(Rand)
	r.Seed(seed)
	return r
}

// NewFromSeq returns a Rand seeded from ss.
func NewFromSeq(ss *SeedSeq) *Rand {
	r := new(Rand)
	r.SeedFromSeq(ss)
	return r
}

// Engine returns the underlying engine for state save/restore and raw
// stepping.
func (r *Rand) Engine() *Engine {
	return &r.eng
}

// Seed reseeds from a single integer via a SeedSeq.
func (r *Rand) Seed(seed uint32) {
	r.SeedFromSeq(NewSeedSeq([]uint32{seed}))
}

// SeedWords sets the engine state directly from four 32-bit words.
func (r *Rand) SeedWords(words [4]uint32) {
	r.eng.Seed(words)
}

// SeedFromSeq expands ss into four words and seeds the engine.
func (r *Rand) SeedFromSeq(ss *SeedSeq) {
	var words [4]uint32
	ss.Generate(words[:])
	r.eng.Seed(words)
}

// SetState restores a state captured with State.
func (r *Rand) SetState(hi, lo uint64) {
	r.eng.SetState(hi, lo)
}

// State returns the current 128-bit engine state.
func (r *Rand) State() (hi, lo uint64) {
	return r.eng.State()
}

// Uint64 returns a uniform draw over [0, 2^64).
func (r *Rand) Uint64() uint64 {
	return r.eng.Next()
}

// Bits returns the top b bits of a draw, uniform over [0, 2^b).
// b must be in [0, 64].
func (r *Rand) Bits(b int) uint64 {
	return r.eng.Next() >> (64 - uint(b))
}

// Uint32 returns the top 32 bits of a draw.
func (r *Rand) Uint32() uint32 {
	return uint32(r.eng.Next() >> 32)
}

// Uint32Pair splits one draw into its low and high halves: two values
// for a single engine step.
func (r *Rand) Uint32Pair() (lo, hi uint32) {
	u := r.eng.Next()
	return uint32(u), uint32(u >> 32)
}

// Int63 returns the top 63 bits of a draw as a non-negative int64.
func (r *Rand) Int63() int64 {
	return int64(r.eng.Next() >> 1)
}

// Int31 returns the top 31 bits of a draw as a non-negative int32.
func (r *Rand) Int31() int32 {
	return int32(r.eng.Next() >> 33)
}

// Float52 returns a uniform double on the open interval (0, 1): 52
// mantissa bits are laid over the bit pattern of 1.0 and the largest
// double below 1 is subtracted, so neither endpoint can occur.
func (r *Rand) Float52() float64 {
	return float52(r.eng.Next())
}

// Float53 returns a uniform double on [0, 1) with full 53-bit mantissa
// precision. Zero can occur; one cannot.
func (r *Rand) Float53() float64 {
	return float53(r.eng.Next())
}

// Uint64n returns an unbiased uniform draw over [0, n). Panics if n is
// zero.
func (r *Rand) Uint64n(n uint64) uint64 {
	return uint64n(&r.eng, n)
}

// ExpFloat64 returns an exponential variate with mean 1.
func (r *Rand) ExpFloat64() float64 {
	return expZig(&r.eng)
}

// Exp returns an exponential variate with the given mean (mean = 1/rate).
func (r *Rand) Exp(mean float64) float64 {
	return expZig(&r.eng) * mean
}

func float52(u uint64) float64 {
	d := math.Float64frombits(u>>12 | 0x3FF0000000000000)
	// 1 - DBL_EPSILON/2: the largest double strictly below 1.
	return d - 0.99999999999999988
}

func float53(u uint64) float64 {
	return float64(int64(u>>11)) / 9007199254740992.0
}

// uint64n is Lemire's multiply-shift bounded generator with O'Neill's
// near-divisionless rejection threshold.
//
// https://arxiv.org/abs/1805.10941
// https://www.pcg-random.org/posts/bounded-rands.html
func uint64n(e *Engine, n uint64) uint64 {
	if n == 0 {
		panic("sparkyrng: Uint64n range must be positive")
	}
	hi, lo := bits.Mul64(e.Next(), n)
	if lo < n {
		// t = 2^64 mod n, dodging the division when n is small.
		t := -n
		if t >= n {
			t -= n
			if t >= n {
				t %= n
			}
		}
		for lo < t {
			hi, lo = bits.Mul64(e.Next(), n)
		}
	}
	return hi
}
