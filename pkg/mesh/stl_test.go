package mesh

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/chazu/strata/pkg/geom"
)

func testMesh() *Mesh {
	return &Mesh{Triangles: []geom.Triangle3D{
		{
			V0: geom.Vec3{0, 0, 0},
			V1: geom.Vec3{1, 0, 0},
			V2: geom.Vec3{0, 1, 0},
		},
		{
			V0: geom.Vec3{0, 0, 1.5},
			V1: geom.Vec3{-2.25, 0, 1.5},
			V2: geom.Vec3{0, 4.125, -3},
		},
	}}
}

func TestBinarySTLRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	want := testMesh()
	if err := WriteSTL(&buf, want); err != nil {
		t.Fatalf("WriteSTL() error: %v", err)
	}

	got, err := ReadSTL(&buf)
	if err != nil {
		t.Fatalf("ReadSTL() error: %v", err)
	}
	if got.TriangleCount() != want.TriangleCount() {
		t.Fatalf("round trip triangle count = %d, want %d", got.TriangleCount(), want.TriangleCount())
	}
	for i := range want.Triangles {
		if got.Triangles[i] != want.Triangles[i] {
			t.Errorf("triangle %d = %+v, want %+v", i, got.Triangles[i], want.Triangles[i])
		}
	}
}

func TestSaveAndLoadSTL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "part.stl")
	want := testMesh()

	if err := SaveSTL(path, want); err != nil {
		t.Fatalf("SaveSTL() error: %v", err)
	}
	got, err := LoadSTL(path)
	if err != nil {
		t.Fatalf("LoadSTL() error: %v", err)
	}
	if got.TriangleCount() != want.TriangleCount() {
		t.Errorf("loaded %d triangles, want %d", got.TriangleCount(), want.TriangleCount())
	}
}

func TestReadASCIISTL(t *testing.T) {
	const ascii = `solid part
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 0 1 0
    endloop
  endfacet
  facet normal 0 0 1
    outer loop
      vertex 0 0 2
      vertex 1.5 0 2
      vertex 0 -1.5 2
    endloop
  endfacet
endsolid part
`
	got, err := ReadSTL(bytes.NewReader([]byte(ascii)))
	if err != nil {
		t.Fatalf("ReadSTL() error: %v", err)
	}
	if got.TriangleCount() != 2 {
		t.Fatalf("ReadSTL() = %d triangles, want 2", got.TriangleCount())
	}
	want := geom.Triangle3D{
		V0: geom.Vec3{0, 0, 2},
		V1: geom.Vec3{1.5, 0, 2},
		V2: geom.Vec3{0, -1.5, 2},
	}
	if got.Triangles[1] != want {
		t.Errorf("triangle 1 = %+v, want %+v", got.Triangles[1], want)
	}
}

func TestReadASCIISTLRejectsPartialFacet(t *testing.T) {
	const truncated = `solid part
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 1 0 0
`
	if _, err := ReadSTL(bytes.NewReader([]byte(truncated))); err == nil {
		t.Error("ReadSTL() accepted a dangling vertex pair")
	}
}

// Binary exporters sometimes write "solid" into the 80-byte header;
// format sniffing must not mistake those files for ASCII.
func TestReadSTLBinaryWithSolidHeader(t *testing.T) {
	var buf bytes.Buffer
	want := testMesh()
	if err := WriteSTL(&buf, want); err != nil {
		t.Fatalf("WriteSTL() error: %v", err)
	}
	data := buf.Bytes()
	copy(data[:5], "solid")

	got, err := ReadSTL(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadSTL() error: %v", err)
	}
	if got.TriangleCount() != want.TriangleCount() {
		t.Errorf("ReadSTL() = %d triangles, want %d", got.TriangleCount(), want.TriangleCount())
	}
}

func TestMeshAABB(t *testing.T) {
	m := testMesh()
	bbox, err := m.AABB()
	if err != nil {
		t.Fatalf("AABB() error: %v", err)
	}
	if bbox.Min != (geom.Vec3{-2.25, 0, -3}) {
		t.Errorf("AABB().Min = %v", bbox.Min)
	}
	if bbox.Max != (geom.Vec3{1, 4.125, 1.5}) {
		t.Errorf("AABB().Max = %v", bbox.Max)
	}

	empty := &Mesh{}
	if _, err := empty.AABB(); err == nil {
		t.Error("AABB() on empty mesh returned no error")
	}
}
