package slicer

import (
	"testing"

	"github.com/chazu/strata/pkg/geom"
)

func ccwSquare(lo, hi float32) Outline {
	return Outline{{lo, lo}, {hi, lo}, {hi, hi}, {lo, hi}}
}

func cwSquare(lo, hi float32) Outline {
	return ccwSquare(lo, hi).Reversed()
}

func vertexSet(vertices []geom.Vec2) map[geom.Vec2]bool {
	set := make(map[geom.Vec2]bool, len(vertices))
	for _, v := range vertices {
		set[v] = true
	}
	return set
}

func TestPointInOutline(t *testing.T) {
	square := ccwSquare(0, 10)
	tests := []struct {
		name  string
		point geom.Vec2
		want  bool
	}{
		{"center", geom.Vec2{5, 5}, true},
		{"outside right", geom.Vec2{11, 5}, false},
		{"outside left", geom.Vec2{-1, 5}, false},
		{"above", geom.Vec2{5, 11}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pointInOutline(tt.point, square); got != tt.want {
				t.Errorf("pointInOutline(%v) = %v, want %v", tt.point, got, tt.want)
			}
		})
	}
}

// A ray through a split edge's shared vertex must not double-count and
// flip containment.
func TestPointInOutlineThroughSplitEdge(t *testing.T) {
	// The right edge is split at (10, 4); a query at y=4 passes
	// through the shared endpoint.
	outline := Outline{{0, 0}, {10, 0}, {10, 4}, {10, 10}, {0, 10}}
	if !pointInOutline(geom.Vec2{3, 4}, outline) {
		t.Error("point level with a split-edge vertex reported outside")
	}
}

func TestBuildPolygonsSingleOutline(t *testing.T) {
	polygons := BuildPolygons([]Outline{cwSquare(0, 1)})
	if len(polygons) != 1 {
		t.Fatalf("BuildPolygons() = %d polygons, want 1", len(polygons))
	}
	if area := Outline(polygons[0].Vertices).SignedArea(); area <= 0 {
		t.Errorf("shell signed area = %v, want positive (CCW)", area)
	}
	if len(polygons[0].Holes) != 0 {
		t.Errorf("shell has %d holes, want 0", len(polygons[0].Holes))
	}
}

func TestBuildPolygonsShellWithHole(t *testing.T) {
	polygons := BuildPolygons([]Outline{
		ccwSquare(3, 7), // hole candidate, walked CCW
		ccwSquare(0, 10),
	})
	if len(polygons) != 1 {
		t.Fatalf("BuildPolygons() = %d polygons, want 1", len(polygons))
	}

	shell := polygons[0]
	if area := Outline(shell.Vertices).SignedArea(); area != 100 {
		t.Errorf("shell signed area = %v, want 100", area)
	}
	if len(shell.Holes) != 1 {
		t.Fatalf("shell has %d holes, want 1", len(shell.Holes))
	}
	if area := Outline(shell.Holes[0].Vertices).SignedArea(); area != -16 {
		t.Errorf("hole signed area = %v, want -16 (CW)", area)
	}
}

// Three concentric rings: the mid ring is a hole of the outer shell,
// the innermost starts over as its own polygon rather than nesting as
// a hole of a hole.
func TestBuildPolygonsConcentricRings(t *testing.T) {
	polygons := BuildPolygons([]Outline{
		cwSquare(0, 10),
		ccwSquare(4, 6),
		cwSquare(2, 8),
	})
	if len(polygons) != 2 {
		t.Fatalf("BuildPolygons() = %d polygons, want 2", len(polygons))
	}

	outer := polygons[0]
	if area := Outline(outer.Vertices).SignedArea(); area != 100 {
		t.Errorf("outer signed area = %v, want 100 (CCW)", area)
	}
	if len(outer.Holes) != 1 {
		t.Fatalf("outer has %d holes, want 1", len(outer.Holes))
	}
	mid := outer.Holes[0]
	if area := Outline(mid.Vertices).SignedArea(); area != -36 {
		t.Errorf("mid signed area = %v, want -36 (CW)", area)
	}
	if !vertexSet(mid.Vertices)[geom.Vec2{2, 2}] {
		t.Errorf("mid hole vertices = %v, want the 2..8 ring", mid.Vertices)
	}

	inner := polygons[1]
	if area := Outline(inner.Vertices).SignedArea(); area != 4 {
		t.Errorf("inner signed area = %v, want 4 (CCW)", area)
	}
	if len(inner.Holes) != 0 {
		t.Errorf("inner has %d holes, want 0", len(inner.Holes))
	}
}

func TestBuildPolygonsDisjointShells(t *testing.T) {
	polygons := BuildPolygons([]Outline{
		ccwSquare(0, 1),
		{{10, 0}, {12, 0}, {12, 2}, {10, 2}},
	})
	if len(polygons) != 2 {
		t.Fatalf("BuildPolygons() = %d polygons, want 2", len(polygons))
	}
	for i, p := range polygons {
		if area := Outline(p.Vertices).SignedArea(); area <= 0 {
			t.Errorf("polygon %d signed area = %v, want positive", i, area)
		}
		if len(p.Holes) != 0 {
			t.Errorf("polygon %d has %d holes, want 0", i, len(p.Holes))
		}
	}
}

func TestBuildPolygonsEmpty(t *testing.T) {
	if got := BuildPolygons(nil); got != nil {
		t.Errorf("BuildPolygons(nil) = %v, want nil", got)
	}
}
