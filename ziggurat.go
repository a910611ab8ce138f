package sparkyrng

import "math"

// Exponential variates via the ziggurat method (Marsaglia & Tsang, "The
// Ziggurat Method for Generating Random Variables", JSS 2000), 256
// layers scaled to 63-bit integer draws.
//
// Band b of a draw is its low 8 bits. Band 0 is the tail band; layer
// edges shrink as b grows, so ef climbs from exp(-R) at ef[0] to 1 at
// ef[255].

const (
	// expZigTailR is the x coordinate of the tail edge. It and the three
	// tables below form one unit: changing the layer count means
	// recomputing all four together.
	expZigTailR = 7.69711747013104972

	// expZigArea is the common area of each layer (the base strip plus
	// tail also integrate to this).
	expZigArea = 0.0039496598225815571993
)

// ek holds per-band acceptance cutoffs for raw 63-bit draws, ew the
// width scale mapping a draw into its layer, and ef the cumulative
// density at each layer edge. Built once below, read-only afterward.
var (
	ek [256]int64
	ew [256]float64
	ef [256]float64
)

func init() {
	const m = 9223372036854775808.0 // 2^63
	q := expZigArea / math.Exp(-expZigTailR)
	ek[0] = int64(expZigTailR / q * m)
	ew[0] = q / m
	ef[0] = math.Exp(-expZigTailR)
	t := expZigTailR
	for b := 1; b < 255; b++ {
		x := -math.Log(expZigArea/t + math.Exp(-t))
		ek[b] = int64(x / t * m)
		ew[b] = t / m
		ef[b] = math.Exp(-x)
		t = x
	}
	ek[255] = 0
	ew[255] = t / m
	ef[255] = 1.0
}

// expZig draws one standard exponential variate. The common case is a
// single draw and a table lookup.
func expZig(e *Engine) float64 {
	a := int64(e.Next() >> 1)
	b := a & 255
	if a <= ek[b] {
		return float64(a) * ew[b]
	}
	return expZigSlow(e, a, b)
}

// expZigSlow resolves draws that land past their band's cutoff. The
// loop has no iteration cap; each pass accepts with constant
// probability, so it terminates almost surely and in O(1) expected
// iterations.
func expZigSlow(e *Engine, a, b int64) float64 {
	for {
		if b == 0 {
			// Past the tail edge: sample the tail by inversion,
			// offset by the edge.
			return expZigTailR - math.Log(float52(e.Next()))
		}
		x := float64(a) * ew[b]
		if ef[b-1]+float52(e.Next())*(ef[b]-ef[b-1]) < math.Exp(-x) {
			return x
		}
		a = int64(e.Next() >> 1)
		b = a & 255
		if a <= ek[b] {
			return float64(a) * ew[b]
		}
	}
}
