package geom

// IntersectSegmentZ intersects a 3D segment with the horizontal plane
// at z. A segment parallel to the plane never intersects, even when it
// lies on it; callers that care about coplanar geometry classify it
// before reaching for this. Endpoints exactly on the plane intersect at
// t = 0 or t = 1 and are returned.
func IntersectSegmentZ(s Segment3D, z float32) (Vec3, bool) {
	// X(t) = L0 + t*D, with L0 = V0 and D = V1 - V0.
	ray := Ray3DFromPoints(s.V0, s.V1)

	// For any point X on the plane: dot(P0 - X, N) = 0, with P0 the
	// plane origin and N the z axis.
	plane := Plane{P0: Vec3{0, 0, z}, Normal: Vec3{0, 0, 1}}

	// Substituting the line equation into the plane equation and
	// solving: t = dot(P0 - L0, N) / dot(D, N).
	d := ray.Dir.Dot(plane.Normal)
	if d == 0 {
		return Vec3{}, false
	}

	t := plane.P0.Sub(ray.Origin).Dot(plane.Normal) / d
	if t < 0 || t > 1 {
		return Vec3{}, false
	}
	return ray.Origin.Add(ray.Dir.Scale(t)), true
}

// IntersectRaySegment2D intersects a 2D ray with a 2D segment using the
// determinant test. The hit point is returned when the segment
// parameter u lies in the half-open range [0, 1); excluding the far
// endpoint keeps a ray through a shared vertex of two chained segments
// from being counted twice by crossing counters.
func IntersectRaySegment2D(ray Ray2D, seg Segment2D) (Vec2, bool) {
	s := seg.V1.Sub(seg.V0)
	rxs := ray.Dir.Det(s)
	if rxs == 0 {
		return Vec2{}, false
	}

	c := seg.V0.Sub(ray.Origin)
	t := c.Det(s) / rxs
	u := c.Det(ray.Dir) / rxs

	if t >= 0 && u >= 0 && u < 1 {
		return seg.V0.Add(s.Scale(u)), true
	}
	return Vec2{}, false
}
