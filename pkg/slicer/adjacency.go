package slicer

import "github.com/chazu/strata/pkg/geom"

// Adjacency maps every cross-section vertex to its exactly two
// neighbors. Building one proves the segment graph at a slice plane is
// a 2-regular manifold; walking one recovers the closed outlines.
type Adjacency map[geom.QuantizedVec2][2]geom.QuantizedVec2

// BuildAdjacency assembles the neighbor map from a segment set.
// Segments whose endpoints collapsed to the same lattice point are
// discarded. A vertex collecting a third neighbor, or finishing with
// fewer than two, fails with a NonManifoldError naming the vertex.
func BuildAdjacency(segments SegmentSet) (Adjacency, error) {
	working := make(map[geom.QuantizedVec2][]geom.QuantizedVec2, len(segments))

	add := func(vertex, neighbor geom.QuantizedVec2) error {
		neighbors := working[vertex]
		if len(neighbors) == 2 {
			return &NonManifoldError{Vertex: vertex, Degree: 3}
		}
		working[vertex] = append(neighbors, neighbor)
		return nil
	}

	for seg := range segments {
		if seg.Degenerate() {
			continue
		}
		if err := add(seg.V0, seg.V1); err != nil {
			return nil, err
		}
		if err := add(seg.V1, seg.V0); err != nil {
			return nil, err
		}
	}

	result := make(Adjacency, len(working))
	for vertex, neighbors := range working {
		if len(neighbors) != 2 {
			return nil, &NonManifoldError{Vertex: vertex, Degree: len(neighbors)}
		}
		result[vertex] = [2]geom.QuantizedVec2{neighbors[0], neighbors[1]}
	}
	return result, nil
}
