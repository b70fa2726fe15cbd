package geom

import "math"

// DefaultEpsilon is the lattice spacing used when no explicit quantizer
// is configured. Two intersection endpoints closer than this collapse
// to the same vertex, which is what turns a cloud of independent
// triangle/plane hits into a shared vertex set.
const DefaultEpsilon = 1e-4

// QuantizedVec2 is a 2D point snapped to the epsilon lattice. Equality
// and map hashing are exact on the integer pair.
type QuantizedVec2 struct {
	QX, QY int64
}

// Less orders points lexicographically by (QX, QY).
func (q QuantizedVec2) Less(o QuantizedVec2) bool {
	if q.QX != o.QX {
		return q.QX < o.QX
	}
	return q.QY < o.QY
}

// QuantizedSegment2D is a segment with quantized endpoints.
type QuantizedSegment2D struct {
	V0, V1 QuantizedVec2
}

// Canonical returns the segment with the lexicographically smaller
// endpoint first, so that a segment and its reverse compare equal.
func (s QuantizedSegment2D) Canonical() QuantizedSegment2D {
	if s.V1.Less(s.V0) {
		return QuantizedSegment2D{V0: s.V1, V1: s.V0}
	}
	return s
}

// Degenerate reports whether quantization collapsed both endpoints to
// the same lattice point.
func (s QuantizedSegment2D) Degenerate() bool {
	return s.V0 == s.V1
}

// Quantizer snaps points to an integer lattice of spacing Epsilon.
// Rounding is to nearest with ties away from zero, so a round trip
// through the lattice moves a coordinate by at most Epsilon/2.
type Quantizer struct {
	Epsilon float32
}

// NewQuantizer returns a quantizer for the given lattice spacing. A
// non-positive epsilon falls back to DefaultEpsilon.
func NewQuantizer(epsilon float32) Quantizer {
	if epsilon <= 0 {
		epsilon = DefaultEpsilon
	}
	return Quantizer{Epsilon: epsilon}
}

// Quantize snaps v to the lattice.
func (q Quantizer) Quantize(v Vec2) QuantizedVec2 {
	return QuantizedVec2{
		QX: q.quantize(v.X),
		QY: q.quantize(v.Y),
	}
}

// Dequantize converts a lattice point back to float coordinates.
func (q Quantizer) Dequantize(p QuantizedVec2) Vec2 {
	return Vec2{
		X: float32(p.QX) * q.Epsilon,
		Y: float32(p.QY) * q.Epsilon,
	}
}

// QuantizeSegment snaps both endpoints and returns the canonical-order
// segment, so duplicate edges from adjacent triangles collapse in sets
// regardless of direction.
func (q Quantizer) QuantizeSegment(s Segment2D) QuantizedSegment2D {
	return QuantizedSegment2D{
		V0: q.Quantize(s.V0),
		V1: q.Quantize(s.V1),
	}.Canonical()
}

func (q Quantizer) quantize(v float32) int64 {
	return int64(math.Round(float64(v) / float64(q.Epsilon)))
}
