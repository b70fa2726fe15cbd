package spatial

import (
	"github.com/dhconnelly/rtreego"
	"github.com/pkg/errors"

	"github.com/chazu/strata/pkg/geom"
)

// rtreeMinLength pads degenerate extents: rtreego rejects rectangles
// with non-positive side lengths, and axis-aligned facets are flat in
// one axis. The padding only loosens the stored boxes; Query filters
// on the exact triangle boxes afterwards.
const rtreeMinLength = 1e-6

// Compile-time interface check.
var _ Index = (*RTree)(nil)

// RTree indexes triangles in an off-the-shelf R-tree. It answers the
// same plane queries as the BVH and exists to sanity-check the
// hand-rolled hierarchy against a general-purpose structure.
type RTree struct {
	tree *rtreego.Rtree
	bbox geom.BBox3D
}

// NewRTree returns an unbuilt R-tree index.
func NewRTree() *RTree {
	return &RTree{}
}

type rtreeEntry struct {
	prim bvhPrim
	rect rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (e *rtreeEntry) Bounds() rtreego.Rect {
	return e.rect
}

// Build inserts one entry per triangle.
func (r *RTree) Build(triangles []geom.Triangle3D) error {
	tree := rtreego.NewTree(3, 2, MaxPrimsPerLeaf)
	bbox := geom.EmptyBBox3D()

	for _, tri := range triangles {
		triBox := geom.TriangleBBox(tri)
		rect, err := boxToRect(triBox)
		if err != nil {
			return errors.Wrap(err, "rtree insert")
		}
		tree.Insert(&rtreeEntry{prim: bvhPrim{tri: tri, bbox: triBox}, rect: rect})
		bbox.ExtendBBox(triBox)
	}

	r.tree = tree
	r.bbox = bbox
	return nil
}

// Query intersects a thin horizontal slab with the tree, then filters
// the candidates on their exact bounding boxes.
func (r *RTree) Query(z float32) ([]geom.Triangle3D, error) {
	if r.tree == nil {
		return nil, errors.Wrap(ErrUninitialized, "rtree query")
	}

	slab := r.bbox
	slab.Min.Z = z
	slab.Max.Z = z
	rect, err := boxToRect(slab)
	if err != nil {
		return nil, errors.Wrap(err, "rtree query")
	}

	var result []geom.Triangle3D
	for _, hit := range r.tree.SearchIntersect(rect) {
		entry := hit.(*rtreeEntry)
		if entry.prim.bbox.ContainsZ(z) {
			result = append(result, entry.prim.tri)
		}
	}
	return result, nil
}

// AABB returns the bounding box of the inserted triangles.
func (r *RTree) AABB() (geom.BBox3D, error) {
	if r.tree == nil {
		return geom.BBox3D{}, errors.Wrap(ErrUninitialized, "rtree aabb")
	}
	return r.bbox, nil
}

func boxToRect(b geom.BBox3D) (rtreego.Rect, error) {
	lengths := []float64{
		maxLength(float64(b.Max.X - b.Min.X)),
		maxLength(float64(b.Max.Y - b.Min.Y)),
		maxLength(float64(b.Max.Z - b.Min.Z)),
	}
	point := rtreego.Point{float64(b.Min.X), float64(b.Min.Y), float64(b.Min.Z)}
	return rtreego.NewRect(point, lengths)
}

func maxLength(l float64) float64 {
	if l < rtreeMinLength {
		return rtreeMinLength
	}
	return l
}
