package slicer

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/chazu/strata/pkg/geom"
)

// ErrInvalidInput is returned for configuration or geometry that the
// pipeline rejects up front.
var ErrInvalidInput = errors.New("invalid input")

// ErrNonManifold is returned when the segments at a slice plane do not
// form a 2-regular graph. The mesh is assumed to be a closed manifold
// 2-complex; every cross-section edge must belong to exactly two loop
// directions, so any violation signals a bad mesh.
var ErrNonManifold = errors.New("mesh is not manifold")

// ErrDegenerateIntersection means the triangle classifier promised a
// crossing edge but the segment/plane intersection produced nothing.
// That is a programmer error in the classification, not bad input.
var ErrDegenerateIntersection = errors.New("degenerate intersection")

// NonManifoldError pinpoints the vertex that broke the 2-regular
// invariant. It unwraps to ErrNonManifold.
type NonManifoldError struct {
	Vertex geom.QuantizedVec2
	Degree int
}

// Error implements error.
func (e *NonManifoldError) Error() string {
	return fmt.Sprintf("mesh is not manifold: vertex (%d, %d) has %d incident segments",
		e.Vertex.QX, e.Vertex.QY, e.Degree)
}

// Unwrap lets errors.Is match ErrNonManifold.
func (e *NonManifoldError) Unwrap() error {
	return ErrNonManifold
}
