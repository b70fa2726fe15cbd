// Package clip cuts convex 3D polygons against horizontal planes. The
// input being convex means each half-space result is a single connected
// polygon, so the clipper can run as a one-pass state machine over the
// edge loop.
package clip

import (
	"github.com/pkg/errors"

	"github.com/chazu/strata/pkg/geom"
)

// ErrInvalidPolygon is returned for inputs with fewer than three
// vertices.
var ErrInvalidPolygon = errors.New("invalid polygon")

// ErrDegenerateIntersection means an edge classified as crossing the
// plane failed to produce an intersection point. That is a
// classification bug, not an input problem.
var ErrDegenerateIntersection = errors.New("degenerate intersection")

// KeepRegion selects which half-space survives the clip.
type KeepRegion int

const (
	// KeepAbove keeps geometry with z >= the plane.
	KeepAbove KeepRegion = iota

	// KeepBelow keeps geometry with z <= the plane.
	KeepBelow
)

// String returns the region name.
func (k KeepRegion) String() string {
	if k == KeepBelow {
		return "below"
	}
	return "above"
}

// edgeState classifies a directed edge against the plane and keep
// region. Boundary vertices count as in for the Remains/Exits tests but
// an edge only Enters through a strictly interior endpoint.
type edgeState int

const (
	remainsIn edgeState = iota
	exits
	enters
	remainsOut
)

func classifyEdge(p0In, p1In, p1Strict bool) edgeState {
	switch {
	case p0In && p1In:
		return remainsIn
	case p0In:
		return exits
	case p1Strict:
		return enters
	default:
		return remainsOut
	}
}

// Clip cuts the convex polygon at the plane z and keeps the requested
// half-space. The output preserves the input winding and vertex order
// up to a rotation.
//
// A polygon lying entirely on the plane belongs to KeepAbove and is
// empty for KeepBelow: the flat top of a solid is harvested by the slab
// above it, and keeping it for both regions would double-register the
// face.
func Clip(polygon geom.Polygon3D, z float32, keep KeepRegion) (geom.Polygon3D, error) {
	if !polygon.IsValid() {
		return geom.Polygon3D{}, errors.Wrapf(ErrInvalidPolygon,
			"clip needs at least 3 vertices, got %d", len(polygon.Vertices))
	}

	inclusive := func(v geom.Vec3) bool {
		if keep == KeepAbove {
			return v.Z >= z
		}
		return v.Z <= z
	}
	strict := func(v geom.Vec3) bool {
		if keep == KeepAbove {
			return v.Z > z
		}
		return v.Z < z
	}

	allOnPlane := true
	allInclusive := true
	start := -1
	for i, v := range polygon.Vertices {
		if v.Z != z {
			allOnPlane = false
		}
		if !inclusive(v) {
			allInclusive = false
		}
		if start < 0 && strict(v) {
			start = i
		}
	}

	if allOnPlane {
		if keep == KeepBelow {
			return geom.Polygon3D{}, nil
		}
		return polygon, nil
	}
	if allInclusive {
		return polygon, nil
	}
	if start < 0 {
		return geom.Polygon3D{}, nil
	}

	n := len(polygon.Vertices)
	var out geom.Polygon3D
	for i := 0; i < n; i++ {
		p0 := polygon.Vertices[(start+i)%n]
		p1 := polygon.Vertices[(start+i+1)%n]

		switch classifyEdge(inclusive(p0), inclusive(p1), strict(p1)) {
		case remainsIn:
			out.Vertices = append(out.Vertices, p0)
		case exits:
			// A p0 on the plane is itself this edge's intersection
			// point (t = 0), appended below; emitting it here too
			// would duplicate it.
			if p0.Z != z {
				out.Vertices = append(out.Vertices, p0)
			}
			hit, ok := geom.IntersectSegmentZ(geom.Segment3D{V0: p0, V1: p1}, z)
			if !ok {
				return geom.Polygon3D{}, errors.Wrapf(ErrDegenerateIntersection,
					"exit edge %v -> %v at z=%v", p0, p1, z)
			}
			out.Vertices = append(out.Vertices, hit)
		case enters:
			hit, ok := geom.IntersectSegmentZ(geom.Segment3D{V0: p0, V1: p1}, z)
			if !ok {
				return geom.Polygon3D{}, errors.Wrapf(ErrDegenerateIntersection,
					"enter edge %v -> %v at z=%v", p0, p1, z)
			}
			out.Vertices = append(out.Vertices, hit)
		case remainsOut:
			// Nothing survives.
		}
	}

	return out, nil
}
