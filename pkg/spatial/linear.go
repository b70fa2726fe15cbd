package spatial

import (
	"github.com/pkg/errors"

	"github.com/chazu/strata/pkg/geom"
)

// Compile-time interface check.
var _ Index = (*Linear)(nil)

// Linear is the no-index baseline: Query scans every triangle. It
// accepts any triangle count, so it doubles as the fallback when the
// BVH rejects a tiny mesh.
type Linear struct {
	prims []bvhPrim
	bbox  geom.BBox3D
	built bool
}

// NewLinear returns an unbuilt linear index.
func NewLinear() *Linear {
	return &Linear{}
}

// Build stores the triangles and their bounding boxes.
func (l *Linear) Build(triangles []geom.Triangle3D) error {
	l.prims = make([]bvhPrim, len(triangles))
	l.bbox = geom.EmptyBBox3D()
	for i, tri := range triangles {
		bbox := geom.TriangleBBox(tri)
		l.prims[i] = bvhPrim{tri: tri, bbox: bbox}
		l.bbox.ExtendBBox(bbox)
	}
	l.built = true
	return nil
}

// Query scans all triangles for bounding boxes straddling z.
func (l *Linear) Query(z float32) ([]geom.Triangle3D, error) {
	if !l.built {
		return nil, errors.Wrap(ErrUninitialized, "linear query")
	}
	var result []geom.Triangle3D
	for _, p := range l.prims {
		if p.bbox.ContainsZ(z) {
			result = append(result, p.tri)
		}
	}
	return result, nil
}

// AABB returns the bounding box of the stored triangles.
func (l *Linear) AABB() (geom.BBox3D, error) {
	if !l.built {
		return geom.BBox3D{}, errors.Wrap(ErrUninitialized, "linear aabb")
	}
	return l.bbox, nil
}
