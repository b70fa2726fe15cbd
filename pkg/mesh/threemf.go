package mesh

import (
	"github.com/hpinc/go3mf"
	"github.com/pkg/errors"

	"github.com/chazu/strata/pkg/geom"
)

// Load3MF reads every mesh object in a 3MF package into one triangle
// soup. Build-item transforms are not applied; the slicer works in the
// coordinates the objects were modeled in.
func Load3MF(path string) (*Mesh, error) {
	r, err := go3mf.OpenReader(path)
	if err != nil {
		return nil, errors.Wrap(err, "open 3mf")
	}
	defer r.Close()

	var model go3mf.Model
	if err := r.Decode(&model); err != nil {
		return nil, errors.Wrap(err, "decode 3mf")
	}

	mesh := &Mesh{}
	for _, obj := range model.Resources.Objects {
		if obj.Mesh == nil {
			continue
		}
		vertices := obj.Mesh.Vertices.Vertex
		for _, tri := range obj.Mesh.Triangles.Triangle {
			if int(tri.V1) >= len(vertices) || int(tri.V2) >= len(vertices) || int(tri.V3) >= len(vertices) {
				return nil, errors.Errorf("3mf object %d: triangle indexes out of range", obj.ID)
			}
			mesh.Triangles = append(mesh.Triangles, geom.Triangle3D{
				V0: point3DToVec3(vertices[tri.V1]),
				V1: point3DToVec3(vertices[tri.V2]),
				V2: point3DToVec3(vertices[tri.V3]),
			})
		}
	}
	if mesh.IsEmpty() {
		return nil, errors.Wrap(ErrEmptyMesh, "3mf model")
	}
	return mesh, nil
}

func point3DToVec3(p go3mf.Point3D) geom.Vec3 {
	return geom.Vec3{X: p.X(), Y: p.Y(), Z: p.Z()}
}
