package slicer

import (
	"sort"

	"github.com/chazu/strata/pkg/geom"
)

// Winding labels an outline role in the output: shells are CCW,
// holes CW.
type Winding int

const (
	// CCW is positive signed area.
	CCW Winding = iota
	// CW is negative signed area.
	CW
)

// outlineWithArea caches the signed area and bounding box alongside an
// outline so sorting and winding enforcement never recompute them.
type outlineWithArea struct {
	outline Outline
	area    float32
	bbox    geom.BBox2D
}

// withWinding returns the outline's vertices in the requested winding.
func (o outlineWithArea) withWinding(w Winding) Outline {
	ccw := o.area > 0
	if (w == CCW) == ccw {
		return o.outline
	}
	return o.outline.Reversed()
}

// hierarchyNode is an index into the area-sorted outline slice plus
// the outlines nested directly inside it. The root sentinel has index
// -1 and accepts everything.
type hierarchyNode struct {
	index    int
	children []*hierarchyNode
}

// insert descends to the smallest outline containing candidate i and
// attaches a node for it there. It reports false when the candidate is
// not inside this node's outline.
func (n *hierarchyNode) insert(i int, sorted []outlineWithArea) bool {
	if n.index >= 0 && !outlineContains(sorted[n.index].outline, sorted[i].outline) {
		return false
	}
	for _, child := range n.children {
		if child.insert(i, sorted) {
			return true
		}
	}
	n.children = append(n.children, &hierarchyNode{index: i})
	return true
}

// pointInOutline casts a ray from point toward +x and counts edge
// crossings; an odd count means inside. Each edge is oriented upward
// first, so the half-open segment parameter counts a vertex at the
// ray's height only for the edge leaving it upward: a ray grazing the
// lowest or highest vertex of an outline counts zero or two crossings
// there, never one.
func pointInOutline(point geom.Vec2, outline Outline) bool {
	ray := geom.Ray2D{Origin: point, Dir: geom.Vec2{X: 1, Y: 0}}
	crossings := 0
	for _, seg := range outline.Segments() {
		if seg.V1.Y < seg.V0.Y {
			seg.V0, seg.V1 = seg.V1, seg.V0
		}
		if _, ok := geom.IntersectRaySegment2D(ray, seg); ok {
			crossings++
		}
	}
	return crossings%2 == 1
}

// outlineContains tests the inner outline's first vertex only:
// outlines never cross, so containment is all or nothing.
func outlineContains(outer, inner Outline) bool {
	return pointInOutline(inner[0], outer)
}

// BuildPolygons nests the outlines into a containment forest and emits
// polygons with holes. Depth alternates roles: depth-1 outlines are
// shells (CCW), depth-2 outlines are holes (CW) of their parent shell,
// depth-3 outlines start over as shells of inner islands, and so on.
// Outlines whose walked winding disagrees with their role are reversed
// on emission.
func BuildPolygons(outlines []Outline) []geom.Polygon2D {
	if len(outlines) == 0 {
		return nil
	}

	sorted := make([]outlineWithArea, len(outlines))
	for i, o := range outlines {
		sorted[i] = outlineWithArea{
			outline: o,
			area:    o.SignedArea(),
			bbox:    geom.VerticesBBox2D(o),
		}
	}
	// Ascending AABB area: a cheap proxy that bounds the nesting
	// search without a full polygon-area computation.
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].bbox.Area() < sorted[j].bbox.Area()
	})

	// Insert containers before their contents, largest first, so each
	// candidate descends into the smallest outline that contains it.
	root := &hierarchyNode{index: -1}
	for i := len(sorted) - 1; i >= 0; i-- {
		root.insert(i, sorted)
	}

	var polygons []geom.Polygon2D
	for _, child := range root.children {
		writeShell(child, sorted, &polygons)
	}
	return polygons
}

// writeShell emits the node as a CCW top-level polygon and its direct
// children as holes.
func writeShell(node *hierarchyNode, sorted []outlineWithArea, out *[]geom.Polygon2D) {
	polygon := geom.Polygon2D{Vertices: sorted[node.index].withWinding(CCW)}
	*out = append(*out, polygon)
	at := len(*out) - 1
	for _, child := range node.children {
		writeHole(child, sorted, out, &(*out)[at])
	}
}

// writeHole emits the node as a CW hole of parent; the node's own
// children are islands and start over as top-level shells.
func writeHole(node *hierarchyNode, sorted []outlineWithArea, root *[]geom.Polygon2D, parent *geom.Polygon2D) {
	parent.Holes = append(parent.Holes, geom.Polygon2D{Vertices: sorted[node.index].withWinding(CW)})
	for _, child := range node.children {
		writeShell(child, sorted, root)
	}
}
