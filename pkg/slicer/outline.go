package slicer

import "github.com/chazu/strata/pkg/geom"

// Outline is an ordered closed loop of slice-plane points; the last
// vertex connects back to the first by convention.
type Outline []geom.Vec2

// Segments returns the outline's edges, including the closing edge.
func (o Outline) Segments() []geom.Segment2D {
	segments := make([]geom.Segment2D, 0, len(o))
	for i := range o {
		j := (i + 1) % len(o)
		segments = append(segments, geom.Segment2D{V0: o[i], V1: o[j]})
	}
	return segments
}

// SignedArea computes the shoelace area: half the sum of the
// determinants of consecutive vertex pairs. Each determinant is the
// parallelogram area spanned by the two position vectors, so the sum
// accumulates signed triangle areas around the origin; the parts
// outside the outline cancel. Positive means counter-clockwise.
func (o Outline) SignedArea() float32 {
	var acc float32
	for _, seg := range o.Segments() {
		acc += seg.V0.Det(seg.V1)
	}
	return acc / 2
}

// Reversed returns the outline with opposite winding.
func (o Outline) Reversed() Outline {
	out := make(Outline, len(o))
	for i, v := range o {
		out[len(o)-1-i] = v
	}
	return out
}

// Walk follows the adjacency into one outline per connected component.
// Because every vertex has exactly two neighbors, each component is a
// simple cycle: starting anywhere and never stepping back onto the
// previous vertex returns to the start after visiting every component
// vertex once. Outline order and start vertices are not specified.
func Walk(adjacency Adjacency, q geom.Quantizer) []Outline {
	unvisited := make(map[geom.QuantizedVec2]struct{}, len(adjacency))
	for vertex := range adjacency {
		unvisited[vertex] = struct{}{}
	}

	var outlines []Outline
	for len(unvisited) > 0 {
		var start geom.QuantizedVec2
		for vertex := range unvisited {
			start = vertex
			break
		}

		var outline Outline
		previous := start
		current := start
		for {
			outline = append(outline, q.Dequantize(current))
			delete(unvisited, current)

			neighbors := adjacency[current]
			next := neighbors[0]
			if next == previous {
				next = neighbors[1]
			}
			previous, current = current, next
			if current == start {
				break
			}
		}
		outlines = append(outlines, outline)
	}
	return outlines
}
