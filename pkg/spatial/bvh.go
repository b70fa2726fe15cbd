package spatial

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/chazu/strata/pkg/geom"
)

// Strategy selects how BVH internal nodes choose their split point.
// The strategy affects build time and query throughput but never the
// set of triangles a query returns.
type Strategy int

const (
	// MedianSplit splits every node at the midpoint of its z-sorted
	// slice.
	MedianSplit Strategy = iota

	// SurfaceAreaHeuristic scores every valid split by the classic SAH
	// cost and picks the cheapest.
	SurfaceAreaHeuristic
)

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case MedianSplit:
		return "median"
	case SurfaceAreaHeuristic:
		return "sah"
	default:
		return "unknown"
	}
}

// MaxPrimsPerLeaf bounds how many triangles a leaf holds. A node with
// fewer than twice this many primitives cannot split into two balanced
// leaves and falls back to a midpoint split.
const MaxPrimsPerLeaf = 8

// SAH cost constants: a traversal step costs one unit, a primitive
// intersection two.
const (
	sahTraversalCost    = 1.0
	sahIntersectionCost = 2.0
)

// Compile-time interface check.
var _ Index = (*BVH)(nil)

// BVH is a bounding volume hierarchy over triangles, sorted by centroid
// z before construction so that splits along the slicing axis stay
// coherent with the query workload.
//
// https://www.pbr-book.org/3ed-2018/Primitives_and_Intersection_Acceleration/Bounding_Volume_Hierarchies
type BVH struct {
	strategy Strategy
	root     *bvhNode
}

// NewBVH returns an unbuilt BVH using the given construction strategy.
func NewBVH(strategy Strategy) *BVH {
	return &BVH{strategy: strategy}
}

// bvhPrim pairs a triangle with its precomputed bounding box so leaves
// can filter without recomputing.
type bvhPrim struct {
	tri  geom.Triangle3D
	bbox geom.BBox3D
}

// bvhTriangle carries the centroid alongside during construction.
type bvhTriangle struct {
	prim     bvhPrim
	centroid geom.Vec3
}

// bvhNode is either an internal node (left and right non-nil) or a
// leaf (prims non-nil). The bbox of the union is cached on every node.
type bvhNode struct {
	bbox  geom.BBox3D
	left  *bvhNode
	right *bvhNode
	prims []bvhPrim
}

func (n *bvhNode) isLeaf() bool {
	return n.left == nil
}

// Build constructs the tree. It fails with ErrTooFewPrimitives when the
// whole input fits in a single leaf (fewer than MaxPrimsPerLeaf+1
// triangles); callers can fall back to a Linear index.
func (b *BVH) Build(triangles []geom.Triangle3D) error {
	sorted := zSortedTriangles(triangles)
	if len(sorted) <= MaxPrimsPerLeaf {
		return errors.Wrapf(ErrTooFewPrimitives,
			"BVH needs at least %d triangles, got %d", MaxPrimsPerLeaf+1, len(sorted))
	}
	b.root = buildNode(sorted, b.strategy)
	return nil
}

// Query returns all triangles whose bounding box straddles the plane
// at z, by depth-first descent through straddling nodes.
func (b *BVH) Query(z float32) ([]geom.Triangle3D, error) {
	if b.root == nil {
		return nil, errors.Wrap(ErrUninitialized, "BVH query")
	}
	var result []geom.Triangle3D
	b.root.collect(z, &result)
	return result, nil
}

// AABB returns the root bounding box.
func (b *BVH) AABB() (geom.BBox3D, error) {
	if b.root == nil {
		return geom.BBox3D{}, errors.Wrap(ErrUninitialized, "BVH aabb")
	}
	return b.root.bbox, nil
}

func (n *bvhNode) collect(z float32, out *[]geom.Triangle3D) {
	if !n.bbox.ContainsZ(z) {
		return
	}
	if n.isLeaf() {
		for _, p := range n.prims {
			if p.bbox.ContainsZ(z) {
				*out = append(*out, p.tri)
			}
		}
		return
	}
	n.left.collect(z, out)
	n.right.collect(z, out)
}

// zSortedTriangles precomputes bounding boxes and centroids, then sorts
// ascending by centroid z.
func zSortedTriangles(triangles []geom.Triangle3D) []bvhTriangle {
	sorted := make([]bvhTriangle, len(triangles))
	for i, tri := range triangles {
		sorted[i] = bvhTriangle{
			prim:     bvhPrim{tri: tri, bbox: geom.TriangleBBox(tri)},
			centroid: tri.Centroid(),
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].centroid.Z < sorted[j].centroid.Z
	})
	return sorted
}

func spanBBox(tris []bvhTriangle) geom.BBox3D {
	bbox := geom.EmptyBBox3D()
	for _, t := range tris {
		bbox.ExtendBBox(t.prim.bbox)
	}
	return bbox
}

// buildNode recurses over a contiguous z-sorted slice.
func buildNode(tris []bvhTriangle, strategy Strategy) *bvhNode {
	if len(tris) <= MaxPrimsPerLeaf {
		prims := make([]bvhPrim, len(tris))
		for i, t := range tris {
			prims[i] = t.prim
		}
		return &bvhNode{bbox: spanBBox(tris), prims: prims}
	}

	var split int
	switch {
	case len(tris) < 2*MaxPrimsPerLeaf:
		// Neither side can form its own balanced split.
		split = len(tris) / 2
	case strategy == SurfaceAreaHeuristic:
		split = bestSAHSplit(tris)
	default:
		split = len(tris) / 2
	}

	left := buildNode(tris[:split], strategy)
	right := buildNode(tris[split:], strategy)

	bbox := left.bbox
	bbox.ExtendBBox(right.bbox)
	return &bvhNode{bbox: bbox, left: left, right: right}
}

// bestSAHSplit scores every split index in
// [MaxPrimsPerLeaf, n-MaxPrimsPerLeaf] by
//
//	cost(i) = T + I * (SA(left)/SA(parent)*|left| + SA(right)/SA(parent)*|right|)
//
// and returns the cheapest, ties going to the lowest index. Prefix and
// suffix boxes are accumulated once so scoring all candidates is
// linear in the slice length.
func bestSAHSplit(tris []bvhTriangle) int {
	n := len(tris)

	prefix := make([]geom.BBox3D, n+1)
	prefix[0] = geom.EmptyBBox3D()
	for i, t := range tris {
		prefix[i+1] = prefix[i]
		prefix[i+1].ExtendBBox(t.prim.bbox)
	}

	suffix := make([]geom.BBox3D, n+1)
	suffix[n] = geom.EmptyBBox3D()
	for i := n - 1; i >= 0; i-- {
		suffix[i] = suffix[i+1]
		suffix[i].ExtendBBox(tris[i].prim.bbox)
	}

	parentArea := prefix[n].SurfaceArea()

	best := MaxPrimsPerLeaf
	bestCost := sahCost(prefix[best], suffix[best], best, n-best, parentArea)
	for i := MaxPrimsPerLeaf + 1; i <= n-MaxPrimsPerLeaf; i++ {
		cost := sahCost(prefix[i], suffix[i], i, n-i, parentArea)
		if cost < bestCost {
			best, bestCost = i, cost
		}
	}
	return best
}

func sahCost(left, right geom.BBox3D, nLeft, nRight int, parentArea float64) float64 {
	leftCost := left.SurfaceArea() / parentArea * float64(nLeft)
	rightCost := right.SurfaceArea() / parentArea * float64(nRight)
	return sahTraversalCost + sahIntersectionCost*(leftCost+rightCost)
}
