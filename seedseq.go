package sparkyrng

// Multilinear hash keyed by a Weyl sequence (Lemire & Kaser,
// https://arxiv.org/abs/1202.4961): each output word is
// (m0 + sum(m_i*u_i) mod 2^64) >> 32 where the m_i come from a Weyl
// stream that keeps running across output words.
const (
	// weylIncrement is 2^64 divided by the golden ratio.
	weylIncrement = 0x9e3779b97f4a7c15

	// Distinct init constants keep compression (Seed) and expansion
	// (Generate) from being the same function.
	seedHashInit     = 0x3423da0b87484307
	generateHashInit = 0xdf8b06c40fa44478
)

func multilinearHash(init, inc uint64, in []uint32, out []uint32) {
	w := init
	next := func() uint64 {
		w += inc
		return w
	}
	for i := range out {
		sum := next()
		for _, u := range in {
			sum += next() * uint64(u)
		}
		// A trailing constant term keeps inputs that differ only in
		// trailing zeros from hashing alike.
		sum += next()
		out[i] = uint32(sum >> 32)
	}
}

// SeedSeqSize is the canonical number of 32-bit state words (256 bits).
const SeedSeqSize = 8

// A SeedSeq compresses arbitrary-length seed material into a fixed-size
// well-mixed state and expands that state into as many output words as
// a consumer asks for. Expansion is a pure function of the state: the
// same SeedSeq always generates the same stream.
//
// Inspired by https://www.pcg-random.org/posts/developing-a-seed_seq-alternative.html
type SeedSeq struct {
	state []uint32
}

// NewSeedSeq returns a SeedSeq of the canonical size holding a
// compression of entropy. An empty entropy slice is valid.
func NewSeedSeq(entropy []uint32) *SeedSeq {
	return NewSeedSeqSize(SeedSeqSize, entropy)
}

// NewSeedSeqSize is NewSeedSeq with an explicit state word count.
func NewSeedSeqSize(size int, entropy []uint32) *SeedSeq {
	if size <= 0 {
		panic("sparkyrng: seed sequence size must be positive")
	}
	s := &SeedSeq{state: make([]uint32, size)}
	s.Seed(entropy)
	return s
}

// Seed replaces the internal state with a compression of entropy.
func (s *SeedSeq) Seed(entropy []uint32) {
	multilinearHash(seedHashInit, weylIncrement, entropy, s.state)
}

// Generate fills out with words expanded from the internal state. Any
// length may be requested; a shorter read is a prefix of a longer one.
func (s *SeedSeq) Generate(out []uint32) {
	multilinearHash(generateHashInit, weylIncrement, s.state, out)
}

// State returns a copy of the internal state words.
func (s *SeedSeq) State() []uint32 {
	return append([]uint32(nil), s.state...)
}
