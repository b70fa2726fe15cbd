// Package mesh loads and generates the triangle soups the slicer
// consumes. Sources are binary or ASCII STL files, 3MF packages, and
// sdfx signed-distance solids rendered through marching cubes.
package mesh

import (
	"github.com/pkg/errors"

	"github.com/chazu/strata/pkg/geom"
)

// ErrEmptyMesh is returned when an operation needs at least one
// triangle.
var ErrEmptyMesh = errors.New("mesh has no triangles")

// Mesh is a bag of triangles. There is no connectivity here; the
// slicer proves manifoldness per plane from the intersection segments
// instead of trusting the file.
type Mesh struct {
	Triangles []geom.Triangle3D
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// IsEmpty reports whether the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Triangles) == 0
}

// AABB returns the bounding box of all triangles. An empty mesh has no
// box.
func (m *Mesh) AABB() (geom.BBox3D, error) {
	if m.IsEmpty() {
		return geom.BBox3D{}, errors.Wrap(ErrEmptyMesh, "mesh aabb")
	}
	bbox := geom.EmptyBBox3D()
	for _, tri := range m.Triangles {
		bbox.ExtendBBox(geom.TriangleBBox(tri))
	}
	return bbox, nil
}
