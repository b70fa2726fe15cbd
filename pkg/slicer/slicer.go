package slicer

import (
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/chazu/strata/pkg/geom"
	"github.com/chazu/strata/pkg/spatial"
)

// Config carries the slicing parameters.
type Config struct {
	// Thickness is the slab height between adjacent slice planes.
	Thickness float32

	// Strategy selects the BVH construction heuristic. It affects
	// build and query cost, never the query results.
	Strategy spatial.Strategy

	// QuantizeEpsilon is the lattice spacing for merging nearby
	// intersection endpoints.
	QuantizeEpsilon float32

	// ClassifyEpsilon widens the on-plane band for triangle
	// classification. Zero compares exactly.
	ClassifyEpsilon float32

	// Workers bounds how many slice planes are computed concurrently.
	// Zero or one slices sequentially.
	Workers int
}

// DefaultConfig returns the configuration the reference meshes were
// tuned with: 1mm slabs, SAH construction, the default lattice and
// exact on-plane classification.
func DefaultConfig() Config {
	return Config{
		Thickness:       1,
		Strategy:        spatial.SurfaceAreaHeuristic,
		QuantizeEpsilon: geom.DefaultEpsilon,
		ClassifyEpsilon: 0,
	}
}

// Validate rejects configurations the pipeline cannot run with.
func (c Config) Validate() error {
	if c.Thickness <= 0 {
		return errors.Wrapf(ErrInvalidInput, "thickness %v must be positive", c.Thickness)
	}
	if c.QuantizeEpsilon <= 0 {
		return errors.Wrapf(ErrInvalidInput, "quantize epsilon %v must be positive", c.QuantizeEpsilon)
	}
	if c.ClassifyEpsilon < 0 {
		return errors.Wrapf(ErrInvalidInput, "classify epsilon %v must not be negative", c.ClassifyEpsilon)
	}
	if c.Workers < 0 {
		return errors.Wrapf(ErrInvalidInput, "workers %v must not be negative", c.Workers)
	}
	return nil
}

// Slice is the cross-section of the mesh at one plane. Polygons carry
// CCW shells with CW holes, ordered by the containment forest walk.
type Slice struct {
	Polygons []geom.Polygon2D
	Z        float32
}

// SliceHeights returns the plane heights for a volume: the first is
// the bottom of the box, each next one thickness above, stopping below
// the top. The top itself is never a slice; its cross-section would be
// a line or nothing.
func SliceHeights(volume geom.BBox3D, thickness float32) []float32 {
	var heights []float32
	for i := 0; ; i++ {
		z := volume.Min.Z + float32(i)*thickness
		if z >= volume.Max.Z {
			break
		}
		heights = append(heights, z)
	}
	return heights
}

// SliceMesh runs the full pipeline over every slice plane of the
// indexed mesh: query, intersect, adjacency, outlines, hierarchy. The
// result is ordered by ascending z. One bad triangle fails the whole
// run; callers wanting to tolerate a degenerate plane can retry at a
// slightly perturbed z.
func SliceMesh(index spatial.Index, cfg Config) ([]Slice, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	volume, err := index.AABB()
	if err != nil {
		return nil, err
	}
	heights := SliceHeights(volume, cfg.Thickness)
	slices := make([]Slice, len(heights))

	if cfg.Workers > 1 {
		// Queries are read-only after build and every plane writes
		// only its own slot, so planes parallelize freely.
		var g errgroup.Group
		g.SetLimit(cfg.Workers)
		for i, z := range heights {
			g.Go(func() error {
				s, err := SliceAt(index, z, cfg)
				if err != nil {
					return err
				}
				slices[i] = s
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return slices, nil
	}

	for i, z := range heights {
		s, err := SliceAt(index, z, cfg)
		if err != nil {
			return nil, err
		}
		slices[i] = s
	}
	return slices, nil
}

// SliceAt computes the cross-section polygons at a single plane.
func SliceAt(index spatial.Index, z float32, cfg Config) (Slice, error) {
	triangles, err := index.Query(z)
	if err != nil {
		return Slice{}, err
	}

	segments, err := SegmentsAtZ(triangles, z, geom.NewQuantizer(cfg.QuantizeEpsilon), cfg.ClassifyEpsilon)
	if err != nil {
		return Slice{}, errors.Wrapf(err, "slice at z=%v", z)
	}

	adjacency, err := BuildAdjacency(segments)
	if err != nil {
		return Slice{}, errors.Wrapf(err, "slice at z=%v", z)
	}

	outlines := Walk(adjacency, geom.NewQuantizer(cfg.QuantizeEpsilon))
	return Slice{Polygons: BuildPolygons(outlines), Z: z}, nil
}
