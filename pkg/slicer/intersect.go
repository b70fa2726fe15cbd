// Package slicer turns a spatially indexed triangle mesh into stacks
// of closed 2D polygons with holes, one stack entry per horizontal
// slice plane. The pipeline per plane is: query the index, intersect
// each triangle with the plane, assemble the quantized segments into a
// manifold adjacency, walk the adjacency into outlines, and nest the
// outlines into shells and holes.
package slicer

import (
	"github.com/pkg/errors"

	"github.com/chazu/strata/pkg/geom"
)

// vertexClass positions one triangle vertex relative to a slice plane.
type vertexClass int

const (
	classBelow vertexClass = iota
	classOn
	classAbove
)

// classifiedTriangle buckets a triangle's vertices against the plane.
// Keeping the three index buckets makes the intersection case table
// read the way it is specified.
type classifiedTriangle struct {
	points [3]geom.Vec3

	below [3]int
	on    [3]int
	above [3]int

	belowCount int
	onCount    int
	aboveCount int
}

func (c *classifiedTriangle) pointBelow(i int) geom.Vec3 { return c.points[c.below[i]] }
func (c *classifiedTriangle) pointOn(i int) geom.Vec3    { return c.points[c.on[i]] }
func (c *classifiedTriangle) pointAbove(i int) geom.Vec3 { return c.points[c.above[i]] }

// classifyTriangle assigns each vertex to below/on/above. A vertex
// within classifyEps of the plane counts as on; zero means exact
// comparison.
func classifyTriangle(t geom.Triangle3D, z, classifyEps float32) classifiedTriangle {
	c := classifiedTriangle{points: [3]geom.Vec3{t.V0, t.V1, t.V2}}
	for i, p := range c.points {
		d := p.Z - z
		switch {
		case d < -classifyEps:
			c.below[c.belowCount] = i
			c.belowCount++
		case d > classifyEps:
			c.above[c.aboveCount] = i
			c.aboveCount++
		default:
			c.on[c.onCount] = i
			c.onCount++
		}
	}
	return c
}

func crossingOrError(lower, upper geom.Vec3, z float32) (geom.Vec3, error) {
	hit, ok := geom.IntersectSegmentZ(geom.Segment3D{V0: lower, V1: upper}, z)
	if !ok {
		return geom.Vec3{}, errors.Wrapf(ErrDegenerateIntersection,
			"edge %v -> %v does not cross z=%v", lower, upper, z)
	}
	return hit, nil
}

// IntersectTriangleZ intersects a triangle with the plane at z and
// returns the resulting 3D segment, or nil when the triangle
// contributes nothing. classifyEps widens the on-plane band; zero
// compares exactly.
//
// The case policy: a coplanar triangle contributes nothing (its edges
// are covered by the neighbors that cross the plane), and a triangle
// resting on the plane from below ("2 on, 1 below") contributes
// nothing either, which is what keeps an edge lying on the plane from
// being counted by both of its incident triangles.
func IntersectTriangleZ(t geom.Triangle3D, z, classifyEps float32) (*geom.Segment3D, error) {
	c := classifyTriangle(t, z, classifyEps)

	// Empty cases.
	if c.onCount == 3 || c.belowCount == 3 || c.aboveCount == 3 {
		return nil, nil
	}
	if c.onCount == 2 && c.belowCount == 1 {
		return nil, nil
	}
	if c.onCount == 1 && (c.aboveCount == 2 || c.belowCount == 2) {
		return nil, nil
	}

	// One segment each.
	if c.onCount == 2 && c.aboveCount == 1 {
		return &geom.Segment3D{V0: c.pointOn(0), V1: c.pointOn(1)}, nil
	}
	if c.onCount == 1 && c.belowCount == 1 && c.aboveCount == 1 {
		hit, err := crossingOrError(c.pointBelow(0), c.pointAbove(0), z)
		if err != nil {
			return nil, err
		}
		return &geom.Segment3D{V0: c.pointOn(0), V1: hit}, nil
	}
	if c.aboveCount == 1 && c.belowCount == 2 {
		first, err := crossingOrError(c.pointBelow(0), c.pointAbove(0), z)
		if err != nil {
			return nil, err
		}
		second, err := crossingOrError(c.pointBelow(1), c.pointAbove(0), z)
		if err != nil {
			return nil, err
		}
		return &geom.Segment3D{V0: first, V1: second}, nil
	}
	if c.belowCount == 1 && c.aboveCount == 2 {
		first, err := crossingOrError(c.pointBelow(0), c.pointAbove(0), z)
		if err != nil {
			return nil, err
		}
		second, err := crossingOrError(c.pointBelow(0), c.pointAbove(1), z)
		if err != nil {
			return nil, err
		}
		return &geom.Segment3D{V0: first, V1: second}, nil
	}

	return nil, errors.Wrapf(ErrDegenerateIntersection,
		"unhandled classification on=%d below=%d above=%d", c.onCount, c.belowCount, c.aboveCount)
}

// SegmentSet is a direction-agnostic set of quantized 2D segments. A
// segment produced by more than one triangle, in either direction, is
// stored once.
type SegmentSet map[geom.QuantizedSegment2D]struct{}

// SegmentsAtZ intersects every triangle with the plane at z, drops the
// z coordinate and collects the canonical quantized segments.
func SegmentsAtZ(triangles []geom.Triangle3D, z float32, q geom.Quantizer, classifyEps float32) (SegmentSet, error) {
	set := make(SegmentSet)
	for _, tri := range triangles {
		seg, err := IntersectTriangleZ(tri, z, classifyEps)
		if err != nil {
			return nil, errors.Wrapf(err, "triangle %+v", tri)
		}
		if seg == nil {
			continue
		}
		quantized := q.QuantizeSegment(geom.Segment2D{V0: seg.V0.XY(), V1: seg.V1.XY()})
		set[quantized] = struct{}{}
	}
	return set, nil
}
