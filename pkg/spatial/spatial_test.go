package spatial

import (
	"math/rand"
	"testing"

	"github.com/pkg/errors"

	"github.com/chazu/strata/pkg/geom"
)

// randomTriangles builds a deterministic soup of small triangles spread
// through a 10x10x10 volume.
func randomTriangles(n int, seed int64) []geom.Triangle3D {
	rng := rand.New(rand.NewSource(seed))
	point := func() geom.Vec3 {
		return geom.Vec3{
			X: rng.Float32() * 10,
			Y: rng.Float32() * 10,
			Z: rng.Float32() * 10,
		}
	}
	jitter := func(v geom.Vec3) geom.Vec3 {
		return geom.Vec3{
			X: v.X + rng.Float32() - 0.5,
			Y: v.Y + rng.Float32() - 0.5,
			Z: v.Z + rng.Float32() - 0.5,
		}
	}

	triangles := make([]geom.Triangle3D, n)
	for i := range triangles {
		v0 := point()
		triangles[i] = geom.Triangle3D{V0: v0, V1: jitter(v0), V2: jitter(v0)}
	}
	return triangles
}

// multiset counts triangles by value so query results can be compared
// as sets regardless of traversal order.
func multiset(tris []geom.Triangle3D) map[geom.Triangle3D]int {
	m := make(map[geom.Triangle3D]int, len(tris))
	for _, t := range tris {
		m[t]++
	}
	return m
}

func sameTriangles(a, b []geom.Triangle3D) bool {
	ma, mb := multiset(a), multiset(b)
	if len(ma) != len(mb) {
		return false
	}
	for t, n := range ma {
		if mb[t] != n {
			return false
		}
	}
	return true
}

func buildOrFatal(t *testing.T, idx Index, tris []geom.Triangle3D) {
	t.Helper()
	if err := idx.Build(tris); err != nil {
		t.Fatalf("Build() error: %v", err)
	}
}

func TestBVHRejectsTooFewTriangles(t *testing.T) {
	for _, n := range []int{0, 1, MaxPrimsPerLeaf} {
		err := NewBVH(MedianSplit).Build(randomTriangles(n, 7))
		if !errors.Is(err, ErrTooFewPrimitives) {
			t.Errorf("Build(%d triangles) error = %v, want ErrTooFewPrimitives", n, err)
		}
	}

	if err := NewBVH(MedianSplit).Build(randomTriangles(MaxPrimsPerLeaf+1, 7)); err != nil {
		t.Errorf("Build(%d triangles) error = %v, want nil", MaxPrimsPerLeaf+1, err)
	}
}

func TestQueryBeforeBuild(t *testing.T) {
	indexes := map[string]Index{
		"bvh":    NewBVH(SurfaceAreaHeuristic),
		"linear": NewLinear(),
		"rtree":  NewRTree(),
	}
	for name, idx := range indexes {
		t.Run(name, func(t *testing.T) {
			if _, err := idx.Query(1); !errors.Is(err, ErrUninitialized) {
				t.Errorf("Query() error = %v, want ErrUninitialized", err)
			}
			if _, err := idx.AABB(); !errors.Is(err, ErrUninitialized) {
				t.Errorf("AABB() error = %v, want ErrUninitialized", err)
			}
		})
	}
}

func TestQueryMatchesBruteForce(t *testing.T) {
	tris := randomTriangles(200, 11)

	brute := func(z float32) []geom.Triangle3D {
		var out []geom.Triangle3D
		for _, tri := range tris {
			if geom.TriangleBBox(tri).ContainsZ(z) {
				out = append(out, tri)
			}
		}
		return out
	}

	indexes := map[string]Index{
		"bvh-median": NewBVH(MedianSplit),
		"bvh-sah":    NewBVH(SurfaceAreaHeuristic),
		"linear":     NewLinear(),
		"rtree":      NewRTree(),
	}
	for name, idx := range indexes {
		t.Run(name, func(t *testing.T) {
			buildOrFatal(t, idx, tris)
			for _, z := range []float32{-1, 0, 2.5, 5, 7.75, 10, 11} {
				got, err := idx.Query(z)
				if err != nil {
					t.Fatalf("Query(%v) error: %v", z, err)
				}
				want := brute(z)
				if !sameTriangles(got, want) {
					t.Errorf("Query(%v) returned %d triangles, brute force %d", z, len(got), len(want))
				}
				for _, tri := range got {
					if !geom.TriangleBBox(tri).ContainsZ(z) {
						t.Errorf("Query(%v) returned non-straddling triangle %+v", z, tri)
					}
				}
			}
		})
	}
}

// Construction strategy must never change what a query returns.
func TestStrategiesReturnIdenticalResults(t *testing.T) {
	tris := randomTriangles(1000, 42)

	median := NewBVH(MedianSplit)
	sah := NewBVH(SurfaceAreaHeuristic)
	rtree := NewRTree()
	buildOrFatal(t, median, tris)
	buildOrFatal(t, sah, tris)
	buildOrFatal(t, rtree, tris)

	for i := 0; i < 50; i++ {
		z := float32(i) * 10.0 / 49.0
		fromMedian, err := median.Query(z)
		if err != nil {
			t.Fatalf("median Query(%v) error: %v", z, err)
		}
		fromSAH, err := sah.Query(z)
		if err != nil {
			t.Fatalf("sah Query(%v) error: %v", z, err)
		}
		fromRTree, err := rtree.Query(z)
		if err != nil {
			t.Fatalf("rtree Query(%v) error: %v", z, err)
		}
		if !sameTriangles(fromMedian, fromSAH) {
			t.Errorf("plane %v: median and SAH disagree (%d vs %d)", z, len(fromMedian), len(fromSAH))
		}
		if !sameTriangles(fromMedian, fromRTree) {
			t.Errorf("plane %v: median and rtree disagree (%d vs %d)", z, len(fromMedian), len(fromRTree))
		}
	}
}

func TestAABBCoversAllTriangles(t *testing.T) {
	tris := randomTriangles(100, 3)

	want := geom.EmptyBBox3D()
	for _, tri := range tris {
		want.ExtendBBox(geom.TriangleBBox(tri))
	}

	indexes := map[string]Index{
		"bvh":    NewBVH(SurfaceAreaHeuristic),
		"linear": NewLinear(),
		"rtree":  NewRTree(),
	}
	for name, idx := range indexes {
		t.Run(name, func(t *testing.T) {
			buildOrFatal(t, idx, tris)
			got, err := idx.AABB()
			if err != nil {
				t.Fatalf("AABB() error: %v", err)
			}
			if got != want {
				t.Errorf("AABB() = %+v, want %+v", got, want)
			}
		})
	}
}

func TestLinearAcceptsTinyMeshes(t *testing.T) {
	tris := randomTriangles(3, 5)
	idx := NewLinear()
	buildOrFatal(t, idx, tris)

	got, err := idx.Query(tris[0].V0.Z)
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}
	if len(got) == 0 {
		t.Error("Query() through a triangle vertex returned nothing")
	}
}

func TestStrategyString(t *testing.T) {
	if MedianSplit.String() != "median" || SurfaceAreaHeuristic.String() != "sah" {
		t.Errorf("Strategy.String() = %q, %q", MedianSplit.String(), SurfaceAreaHeuristic.String())
	}
}
