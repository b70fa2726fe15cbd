package geom

import "math"

// BBox2D is an axis-aligned bounding box in the slice plane. The zero
// value is not useful; construct with EmptyBBox2D so that the first
// Extend sets both corners.
type BBox2D struct {
	Min, Max Vec2
}

// EmptyBBox2D returns a box that contains nothing. Extending it with a
// single point produces a degenerate box around that point.
func EmptyBBox2D() BBox2D {
	return BBox2D{
		Min: Vec2{math.MaxFloat32, math.MaxFloat32},
		Max: Vec2{-math.MaxFloat32, -math.MaxFloat32},
	}
}

// Empty reports whether the box contains nothing. A degenerate box
// (max == min) is considered empty.
func (b BBox2D) Empty() bool {
	return b.Max.X <= b.Min.X && b.Max.Y <= b.Min.Y
}

// Extend widens the box to include v.
func (b *BBox2D) Extend(v Vec2) {
	b.Min = Vec2{min32(b.Min.X, v.X), min32(b.Min.Y, v.Y)}
	b.Max = Vec2{max32(b.Max.X, v.X), max32(b.Max.Y, v.Y)}
}

// ExtendBBox widens the box to include both corners of other.
func (b *BBox2D) ExtendBBox(other BBox2D) {
	b.Extend(other.Min)
	b.Extend(other.Max)
}

// Area returns the XY area of the box.
func (b BBox2D) Area() float32 {
	return (b.Max.X - b.Min.X) * (b.Max.Y - b.Min.Y)
}

// Scale returns the box with both corners multiplied by s.
func (b BBox2D) Scale(s float32) BBox2D {
	return BBox2D{Min: b.Min.Scale(s), Max: b.Max.Scale(s)}
}

// BBox3D is an axis-aligned bounding box in model space.
type BBox3D struct {
	Min, Max Vec3
}

// EmptyBBox3D returns a box that contains nothing.
func EmptyBBox3D() BBox3D {
	return BBox3D{
		Min: Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32},
		Max: Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32},
	}
}

// Empty reports whether the box contains nothing.
func (b BBox3D) Empty() bool {
	return b.Max.X <= b.Min.X && b.Max.Y <= b.Min.Y && b.Max.Z <= b.Min.Z
}

// Extend widens the box to include v.
func (b *BBox3D) Extend(v Vec3) {
	b.Min = Vec3{min32(b.Min.X, v.X), min32(b.Min.Y, v.Y), min32(b.Min.Z, v.Z)}
	b.Max = Vec3{max32(b.Max.X, v.X), max32(b.Max.Y, v.Y), max32(b.Max.Z, v.Z)}
}

// ExtendBBox widens the box to include both corners of other.
func (b *BBox3D) ExtendBBox(other BBox3D) {
	b.Extend(other.Min)
	b.Extend(other.Max)
}

// Volume returns the product of the three spans.
func (b BBox3D) Volume() float32 {
	return (b.Max.X - b.Min.X) * (b.Max.Y - b.Min.Y) * (b.Max.Z - b.Min.Z)
}

// SurfaceArea returns the total surface area of the box. The surface
// area heuristic scores BVH splits with it.
func (b BBox3D) SurfaceArea() float64 {
	w := float64(b.Max.X - b.Min.X)
	h := float64(b.Max.Y - b.Min.Y)
	d := float64(b.Max.Z - b.Min.Z)
	return 2 * (w*h + h*d + w*d)
}

// ContainsZ reports whether the horizontal plane at z passes through
// the box. Touching a face counts.
func (b BBox3D) ContainsZ(z float32) bool {
	return b.Min.Z <= z && b.Max.Z >= z
}

// XY projects the box onto the slice plane.
func (b BBox3D) XY() BBox2D {
	return BBox2D{Min: b.Min.XY(), Max: b.Max.XY()}
}

// TriangleBBox returns the bounding box of a triangle.
func TriangleBBox(t Triangle3D) BBox3D {
	b := EmptyBBox3D()
	b.Extend(t.V0)
	b.Extend(t.V1)
	b.Extend(t.V2)
	return b
}

// PolygonBBox3D returns the bounding box of a 3D polygon's vertices.
func PolygonBBox3D(p Polygon3D) BBox3D {
	b := EmptyBBox3D()
	for _, v := range p.Vertices {
		b.Extend(v)
	}
	return b
}

// VerticesBBox2D returns the bounding box of a 2D vertex loop.
func VerticesBBox2D(vertices []Vec2) BBox2D {
	b := EmptyBBox2D()
	for _, v := range vertices {
		b.Extend(v)
	}
	return b
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
