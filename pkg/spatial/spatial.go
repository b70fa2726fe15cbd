// Package spatial provides z-plane spatial indexes over triangle
// soups. An index is built once from the input mesh and then queried
// read-only, one query per slice plane; implementations trade build
// time against query throughput but must agree on query results.
package spatial

import (
	"github.com/pkg/errors"

	"github.com/chazu/strata/pkg/geom"
)

// ErrTooFewPrimitives is returned by index builders that cannot form a
// useful structure from the input. Callers can retry with Linear, which
// accepts any triangle count.
var ErrTooFewPrimitives = errors.New("too few primitives")

// ErrUninitialized is returned by Query and AABB before Build.
var ErrUninitialized = errors.New("index not built")

// Index answers "which triangles straddle the horizontal plane z".
// Build must be called exactly once before Query or AABB; after that
// the index is read-only and safe for concurrent queries.
type Index interface {
	// Build constructs the index over the triangles.
	Build(triangles []geom.Triangle3D) error

	// Query returns all triangles whose bounding box straddles the
	// plane at z.
	Query(z float32) ([]geom.Triangle3D, error)

	// AABB returns the bounding box of the whole indexed set.
	AABB() (geom.BBox3D, error)
}
