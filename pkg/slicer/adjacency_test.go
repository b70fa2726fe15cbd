package slicer

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/chazu/strata/pkg/geom"
)

func segmentSet(q geom.Quantizer, segments ...geom.Segment2D) SegmentSet {
	set := make(SegmentSet, len(segments))
	for _, s := range segments {
		set[q.QuantizeSegment(s)] = struct{}{}
	}
	return set
}

func TestBuildAdjacencySquare(t *testing.T) {
	q := geom.NewQuantizer(geom.DefaultEpsilon)
	set := segmentSet(q,
		geom.Segment2D{V0: geom.Vec2{0, 0}, V1: geom.Vec2{1, 0}},
		geom.Segment2D{V0: geom.Vec2{1, 0}, V1: geom.Vec2{1, 1}},
		geom.Segment2D{V0: geom.Vec2{1, 1}, V1: geom.Vec2{0, 1}},
		geom.Segment2D{V0: geom.Vec2{0, 1}, V1: geom.Vec2{0, 0}},
	)

	adjacency, err := BuildAdjacency(set)
	if err != nil {
		t.Fatalf("BuildAdjacency() error: %v", err)
	}
	if len(adjacency) != 4 {
		t.Fatalf("BuildAdjacency() has %d vertices, want 4", len(adjacency))
	}
	// Every vertex has exactly two neighbors, by construction of the
	// value type; spot-check one.
	corner := q.Quantize(geom.Vec2{0, 0})
	neighbors := adjacency[corner]
	wantA := q.Quantize(geom.Vec2{1, 0})
	wantB := q.Quantize(geom.Vec2{0, 1})
	if !(neighbors == [2]geom.QuantizedVec2{wantA, wantB} ||
		neighbors == [2]geom.QuantizedVec2{wantB, wantA}) {
		t.Errorf("neighbors of origin = %v, want {%v, %v}", neighbors, wantA, wantB)
	}
}

// Three segments meeting at the origin form a Y: the shared vertex
// collects a third neighbor and must be named by the failure.
func TestBuildAdjacencyRejectsYShape(t *testing.T) {
	q := geom.NewQuantizer(geom.DefaultEpsilon)
	set := segmentSet(q,
		geom.Segment2D{V0: geom.Vec2{0, 0}, V1: geom.Vec2{1, 0}},
		geom.Segment2D{V0: geom.Vec2{0, 0}, V1: geom.Vec2{0, 1}},
		geom.Segment2D{V0: geom.Vec2{0, 0}, V1: geom.Vec2{-1, -1}},
	)

	_, err := BuildAdjacency(set)
	if !errors.Is(err, ErrNonManifold) {
		t.Fatalf("BuildAdjacency() error = %v, want ErrNonManifold", err)
	}

	var nm *NonManifoldError
	if !errors.As(err, &nm) {
		t.Fatalf("BuildAdjacency() error %T does not carry NonManifoldError", err)
	}
	if nm.Vertex != (geom.QuantizedVec2{QX: 0, QY: 0}) {
		t.Errorf("NonManifoldError.Vertex = %v, want origin", nm.Vertex)
	}
	if nm.Degree != 3 {
		t.Errorf("NonManifoldError.Degree = %d, want 3", nm.Degree)
	}
}

func TestBuildAdjacencyRejectsOpenChain(t *testing.T) {
	q := geom.NewQuantizer(geom.DefaultEpsilon)
	set := segmentSet(q,
		geom.Segment2D{V0: geom.Vec2{0, 0}, V1: geom.Vec2{1, 0}},
		geom.Segment2D{V0: geom.Vec2{1, 0}, V1: geom.Vec2{2, 0}},
	)

	_, err := BuildAdjacency(set)
	if !errors.Is(err, ErrNonManifold) {
		t.Fatalf("BuildAdjacency() error = %v, want ErrNonManifold", err)
	}
	var nm *NonManifoldError
	if !errors.As(err, &nm) {
		t.Fatalf("BuildAdjacency() error %T does not carry NonManifoldError", err)
	}
	if nm.Degree != 1 {
		t.Errorf("NonManifoldError.Degree = %d, want 1", nm.Degree)
	}
}

// Segments collapsed to a point by quantization are dropped, not
// treated as manifold violations.
func TestBuildAdjacencyDiscardsDegenerateSegments(t *testing.T) {
	q := geom.NewQuantizer(geom.DefaultEpsilon)
	set := segmentSet(q,
		geom.Segment2D{V0: geom.Vec2{0, 0}, V1: geom.Vec2{1, 0}},
		geom.Segment2D{V0: geom.Vec2{1, 0}, V1: geom.Vec2{0, 1}},
		geom.Segment2D{V0: geom.Vec2{0, 1}, V1: geom.Vec2{0, 0}},
		// Shorter than the lattice spacing: both endpoints snap to
		// the same point.
		geom.Segment2D{V0: geom.Vec2{2, 2}, V1: geom.Vec2{2, 2.00001}},
	)

	adjacency, err := BuildAdjacency(set)
	if err != nil {
		t.Fatalf("BuildAdjacency() error: %v", err)
	}
	if len(adjacency) != 3 {
		t.Errorf("BuildAdjacency() has %d vertices, want 3", len(adjacency))
	}
}
