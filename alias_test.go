package sparkyrng

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAliasTableConstruction(t *testing.T) {
	tests := []struct {
		name    string
		weights []float64
		alias   []uint32
		prob    []uint32
		shr     uint
	}{
		{
			// Pads to size 4; index 3 carries zero weight.
			name:    "OneOneTwo",
			weights: []float64{1, 1, 2},
			alias:   []uint32{1, 2, 2, 0},
			prob:    []uint32{0, 0, math.MaxUint32, 0},
			shr:     30,
		},
		{
			name:    "Single",
			weights: []float64{5},
			alias:   []uint32{0, 0},
			prob:    []uint32{math.MaxUint32, 0},
			shr:     31,
		},
		{
			name:    "Ascending",
			weights: []float64{1, 2, 3, 4},
			alias:   []uint32{2, 3, 3, 3},
			prob:    []uint32{1717986918, 3435973836, 2576980377, math.MaxUint32},
			shr:     30,
		},
		{
			// All weights on the average: every slot keeps itself.
			name:    "Uniform",
			weights: []float64{1, 1, 1, 1},
			alias:   []uint32{0, 1, 2, 3},
			prob:    []uint32{math.MaxUint32, math.MaxUint32, math.MaxUint32, math.MaxUint32},
			shr:     30,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			at := NewAliasTable(tt.weights)
			assert.Equal(t, tt.alias, at.Alias())
			assert.Equal(t, tt.prob, at.Prob())
			assert.Equal(t, tt.shr, at.shr)
			assert.Equal(t, len(tt.alias), at.Len())
		})
	}
}

func TestAliasTableFrequencies(t *testing.T) {
	at := NewAliasTable([]float64{1, 1, 2})
	r := new(Rand)
	r.Engine().SetState(0, defaultStateLo)
	var counts [4]int
	const N = 1_000_000
	for i := 0; i < N; i++ {
		counts[at.Sample(r)]++
	}
	if counts[3] != 0 {
		t.Fatalf("zero-weight padding index drawn %d times", counts[3])
	}
	for i, want := range []float64{0.25, 0.25, 0.50} {
		got := float64(counts[i]) / N
		if math.Abs(got-want) > 0.005 {
			t.Errorf("index %d frequency = %v; want: ~%v", i, got, want)
		}
	}
}

func TestAliasTableSkewed(t *testing.T) {
	// Index probability 1/10 ... 4/10.
	at := NewAliasTable([]float64{1, 2, 3, 4})
	r := NewSeed(123)
	var counts [4]int
	const N = 1_000_000
	for i := 0; i < N; i++ {
		counts[at.Sample(r)]++
	}
	for i, c := range counts {
		want := float64(i+1) / 10
		if got := float64(c) / N; math.Abs(got-want) > 0.005 {
			t.Errorf("index %d frequency = %v; want: ~%v", i, got, want)
		}
	}
}

func TestAliasTableOneDrawPerSample(t *testing.T) {
	at := NewAliasTable([]float64{3, 1, 4, 1, 5})
	a := NewSeed(9)
	b := NewSeed(9)
	for i := 0; i < 1000; i++ {
		at.Sample(a)
		b.Uint64()
	}
	if !a.Engine().Equal(b.Engine()) {
		t.Fatal("Sample did not consume exactly one draw")
	}
}

func TestAliasTableRebuild(t *testing.T) {
	at := NewAliasTable([]float64{1, 1, 2})
	at.Create([]float64{5})
	assert.Equal(t, 2, at.Len())
	assert.Equal(t, uint(31), at.shr)
}

func TestAliasTableCreateCopies(t *testing.T) {
	w := []float64{1, 1, 2}
	var at AliasTable
	at.Create(w)
	assert.Equal(t, []float64{1, 1, 2}, w, "Create must not clobber its input")
}

func TestAliasTableLargeUniform(t *testing.T) {
	// 256 equal weights: the index is effectively Bits(8).
	w := make([]float64, 256)
	for i := range w {
		w[i] = 2.5
	}
	at := NewAliasTable(w)
	r := NewSeed(77)
	var counts [256]int
	const N = 1_000_000
	for i := 0; i < N; i++ {
		counts[at.Sample(r)]++
	}
	e := float64(N) / 256
	var chi2 float64
	for _, c := range counts {
		d := float64(c) - e
		chi2 += d * d / e
	}
	// 0.001 critical value for 255 degrees of freedom.
	if chi2 > 330.5 {
		t.Errorf("chi-square = %.2f; want: < 330.5", chi2)
	}
}

func TestAliasTablePanics(t *testing.T) {
	assert.Panics(t, func() { NewAliasTable(nil) }, "empty input has zero total weight")
	assert.Panics(t, func() { NewAliasTable([]float64{0, 0, 0}) })
	assert.Panics(t, func() { NewAliasTable([]float64{1, -1, 2}) })
	assert.Panics(t, func() { NewAliasTable([]float64{1, math.NaN()}) })
	assert.Panics(t, func() { NewAliasTable([]float64{1, math.Inf(1)}) })
}

func BenchmarkAliasTableGet(b *testing.B) {
	at := NewAliasTable([]float64{3, 1, 4, 1, 5, 9, 2, 6})
	r := NewSeed(1)
	var sink int
	for i := 0; i < b.N; i++ {
		sink = at.Sample(r)
	}
	_ = sink
}

func BenchmarkAliasTableCreate(b *testing.B) {
	w := make([]float64, 1024)
	r := NewSeed(1)
	for i := range w {
		w[i] = r.Float53()
	}
	b.ResetTimer()
	var at AliasTable
	for i := 0; i < b.N; i++ {
		at.Create(w)
	}
}
