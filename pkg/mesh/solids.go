package mesh

import (
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/pkg/errors"

	"github.com/chazu/strata/pkg/geom"
)

// defaultMeshCells controls marching cubes resolution when a caller
// passes zero.
const defaultMeshCells = 128

// FromSDF3 renders a signed-distance solid into a triangle soup with
// uniform marching cubes.
func FromSDF3(s sdf.SDF3, cells int) *Mesh {
	if cells <= 0 {
		cells = defaultMeshCells
	}
	triangles := render.ToTriangles(s, render.NewMarchingCubesUniform(cells))

	mesh := &Mesh{Triangles: make([]geom.Triangle3D, 0, len(triangles))}
	for _, tri := range triangles {
		mesh.Triangles = append(mesh.Triangles, geom.Triangle3D{
			V0: vecToVec3(tri[0]),
			V1: vecToVec3(tri[1]),
			V2: vecToVec3(tri[2]),
		})
	}
	return mesh
}

// Box returns a box mesh with its minimum corner at the origin, so
// slice heights start at z=0 the way the flat-bottomed test prints do.
func Box(x, y, z float64, cells int) (*Mesh, error) {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		return nil, errors.Wrap(err, "sdfx box")
	}
	// Box3D centers on the origin; shift to min-corner origin.
	m := sdf.Translate3d(v3.Vec{X: x / 2, Y: y / 2, Z: z / 2})
	return FromSDF3(sdf.Transform3D(s, m), cells), nil
}

// Cylinder returns a z-axis cylinder mesh resting on z=0.
func Cylinder(height, radius float64, cells int) (*Mesh, error) {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, errors.Wrap(err, "sdfx cylinder")
	}
	m := sdf.Translate3d(v3.Vec{Z: height / 2})
	return FromSDF3(sdf.Transform3D(s, m), cells), nil
}

// Tube returns a box-with-cavity mesh: outer box minus an inner box
// shrunk by wall on every side. Slicing it exercises the hole
// pipeline on something less synthetic than hand-built cubes.
func Tube(x, y, z, wall float64, cells int) (*Mesh, error) {
	if wall <= 0 || 2*wall >= x || 2*wall >= y || 2*wall >= z {
		return nil, errors.Errorf("tube wall %v does not fit in %vx%vx%v", wall, x, y, z)
	}

	outer, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		return nil, errors.Wrap(err, "sdfx outer box")
	}
	inner, err := sdf.Box3D(v3.Vec{X: x - 2*wall, Y: y - 2*wall, Z: z - 2*wall}, 0)
	if err != nil {
		return nil, errors.Wrap(err, "sdfx inner box")
	}

	s := sdf.Difference3D(outer, inner)
	m := sdf.Translate3d(v3.Vec{X: x / 2, Y: y / 2, Z: z / 2})
	return FromSDF3(sdf.Transform3D(s, m), cells), nil
}

func vecToVec3(v v3.Vec) geom.Vec3 {
	return geom.Vec3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}
