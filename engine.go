package sparkyrng

import (
	"encoding/binary"
	"fmt"
	"math/bits"
)

// A fast 128-bit Lehmer-style multiplicative congruential generator.
//
// https://www.pcg-random.org/posts/does-it-beat-the-minimal-standard.html
// https://lemire.me/blog/2019/03/19/the-fastest-conventional-random-number-generator-that-can-pass-big-crush/
const mcgMult = 0xda942042e4dd58b5

// State of a default-constructed Engine (low half; the high half is zero).
const defaultStateLo = 0x9f57c403d06c42fc

// An Engine is a 128-bit multiplicative congruential generator producing
// 64-bit words. The state is kept odd so the generator stays on the
// maximal-length cycle over the odd residues mod 2^128.
//
// An Engine is a single mutable stream and is not safe for concurrent
// use: give each goroutine its own instance or synchronize externally.
// The zero value is not seeded; use NewEngine or one of the seeding
// methods before drawing.
type Engine struct {
	hi, lo uint64
}

// NewEngine returns an Engine with the default fixed state. Every
// default Engine produces the same stream.
func NewEngine() *Engine {
	e := new(Engine)
	e.SetState(0, defaultStateLo)
	return e
}

// SetState replaces the 128-bit state with hi:lo. The low bit is forced
// on; it is never masked back out on read.
func (e *Engine) SetState(hi, lo uint64) {
	e.hi = hi
	e.lo = lo | 1
}

// State returns the 128-bit state as two 64-bit halves. Restoring the
// same value with SetState reproduces the identical future stream.
func (e *Engine) State() (hi, lo uint64) {
	return e.hi, e.lo
}

// Seed sets the state from four 32-bit words interpreted little-endian
// as a 128-bit integer.
func (e *Engine) Seed(seed [4]uint32) {
	e.SetState(
		uint64(seed[2])|uint64(seed[3])<<32,
		uint64(seed[0])|uint64(seed[1])<<32,
	)
}

// Advance steps the generator once: state = state * mcgMult mod 2^128.
func (e *Engine) Advance() {
	hi, lo := bits.Mul64(e.lo, mcgMult)
	e.hi = hi + e.hi*mcgMult
	e.lo = lo
}

// Next advances the generator and returns the upper 64 bits of the state.
func (e *Engine) Next() uint64 {
	e.Advance()
	return e.hi
}

// Discard advances the generator n steps without producing output.
func (e *Engine) Discard(n int) {
	for i := 0; i < n; i++ {
		e.Advance()
	}
}

// Equal reports whether e and o have identical state and therefore
// identical future streams.
func (e *Engine) Equal(o *Engine) bool {
	return e.hi == o.hi && e.lo == o.lo
}

// MarshalBinary returns the state as 16 little-endian bytes (low half
// first).
func (e *Engine) MarshalBinary() ([]byte, error) {
	b := make([]byte, 16)
	binary.LittleEndian.PutUint64(b[0:], e.lo)
	binary.LittleEndian.PutUint64(b[8:], e.hi)
	return b, nil
}

// UnmarshalBinary restores state written by MarshalBinary.
func (e *Engine) UnmarshalBinary(data []byte) error {
	if len(data) != 16 {
		return fmt.Errorf("sparkyrng: invalid state length: %d", len(data))
	}
	e.SetState(
		binary.LittleEndian.Uint64(data[8:]),
		binary.LittleEndian.Uint64(data[0:]),
	)
	return nil
}
